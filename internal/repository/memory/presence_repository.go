package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PresenceRepository tracks which identities currently hold at least one live
// session, plus a last-seen timestamp that survives briefly after disconnect.
// Entries expire on their own, so a crashed instance never reports users
// online forever.
type PresenceRepository struct {
	online   *cache.Cache
	lastSeen *cache.Cache
}

func NewPresenceRepository() *PresenceRepository {
	return &PresenceRepository{
		online:   cache.New(2*time.Minute, 5*time.Minute),
		lastSeen: cache.New(24*time.Hour, time.Hour),
	}
}

// Touch refreshes the online marker for an identity. Called on join and
// periodically while the session stays open.
func (r *PresenceRepository) Touch(userId uuid.UUID) {
	now := time.Now().UTC()
	r.online.Set(userId.String(), now, cache.DefaultExpiration)
	r.lastSeen.Set(userId.String(), now, cache.DefaultExpiration)
}

// Offline drops the online marker immediately, keeping last-seen.
func (r *PresenceRepository) Offline(userId uuid.UUID) {
	r.online.Delete(userId.String())
	r.lastSeen.Set(userId.String(), time.Now().UTC(), cache.DefaultExpiration)
}

func (r *PresenceRepository) IsOnline(userId uuid.UUID) bool {
	_, found := r.online.Get(userId.String())
	return found
}

func (r *PresenceRepository) LastSeen(userId uuid.UUID) (time.Time, bool) {
	if x, found := r.lastSeen.Get(userId.String()); found {
		return x.(time.Time), true
	}
	return time.Time{}, false
}
