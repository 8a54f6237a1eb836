package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByReceiver filters connection requests addressed to a user.
type ByReceiver struct {
	ReceiverId uuid.UUID
}

func (s ByReceiver) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receiver_id = ?", s.ReceiverId)
}

// ByStatus filters connection requests by workflow status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByPair matches a request between two users regardless of who sent it.
type ByPair struct {
	UserA uuid.UUID
	UserB uuid.UUID
}

func (s ByPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		s.UserA, s.UserB, s.UserB, s.UserA,
	)
}
