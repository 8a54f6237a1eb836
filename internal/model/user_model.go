package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Bio          string    `gorm:"type:text"`
	AvatarURL    *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserConnection stores one direction of an accepted connection. Acceptance
// inserts both directions in one transaction, so the relation is symmetric.
type UserConnection struct {
	UserId       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConnectionId uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (UserConnection) TableName() string {
	return "user_connections"
}
