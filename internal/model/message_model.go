package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq        int64     `gorm:"autoIncrement;uniqueIndex"`
	SenderId   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair"`
	ReceiverId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_pair"`
	Body       string    `gorm:"type:text;not null"`
	SentAt     time.Time `gorm:"not null;index"`
}

func (Message) TableName() string {
	return "messages"
}
