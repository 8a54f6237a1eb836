package model

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionRequest struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderId   uuid.UUID `gorm:"type:uuid;not null;index:idx_connection_requests_pair"`
	ReceiverId uuid.UUID `gorm:"type:uuid;not null;index:idx_connection_requests_pair;index"`
	Status     string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ConnectionRequest) TableName() string {
	return "connection_requests"
}
