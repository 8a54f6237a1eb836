package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserSummary is the browse-screen projection of another user.
type UserSummary struct {
	Id        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	Bio       string     `json:"bio,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Online    bool       `json:"online"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}
