package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByConversation matches messages exchanged between the two users in either
// direction, so history(A,B) and history(B,A) are the same query.
type ByConversation struct {
	UserA uuid.UUID
	UserB uuid.UUID
}

func (s ByConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		s.UserA, s.UserB, s.UserB, s.UserA,
	)
}

// ChronologicalOrder sorts by sent_at ascending with the insertion sequence
// breaking ties.
type ChronologicalOrder struct{}

func (s ChronologicalOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("sent_at ASC, seq ASC")
}
