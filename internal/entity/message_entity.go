package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once persisted. Seq is the insertion order assigned by
// the database and breaks SentAt ties when ordering history.
type Message struct {
	Id         uuid.UUID
	Seq        int64
	SenderId   uuid.UUID
	ReceiverId uuid.UUID
	Body       string
	SentAt     time.Time
}
