package entity

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
)

// ConnectionRequest is the pending half of the connection workflow. Accepting
// one writes the symmetric user_connections relation the chat gate reads.
type ConnectionRequest struct {
	Id         uuid.UUID
	SenderId   uuid.UUID
	ReceiverId uuid.UUID
	Status     RequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
