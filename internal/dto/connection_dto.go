package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendRequestRequest struct {
	ReceiverId uuid.UUID `json:"receiver_id" validate:"required"`
}

type ConnectionRequestResponse struct {
	Id         uuid.UUID `json:"id"`
	SenderId   uuid.UUID `json:"sender_id"`
	ReceiverId uuid.UUID `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// PendingRequestResponse carries the sender preview the inbox screen shows.
type PendingRequestResponse struct {
	Id        uuid.UUID   `json:"id"`
	Sender    UserSummary `json:"sender"`
	CreatedAt time.Time   `json:"created_at"`
}
