package mapper

import (
	"heartlink-be/internal/entity"
	"heartlink-be/internal/model"
)

type ConnectionMapper struct{}

func NewConnectionMapper() *ConnectionMapper {
	return &ConnectionMapper{}
}

func (m *ConnectionMapper) RequestToEntity(r *model.ConnectionRequest) *entity.ConnectionRequest {
	if r == nil {
		return nil
	}
	return &entity.ConnectionRequest{
		Id:         r.Id,
		SenderId:   r.SenderId,
		ReceiverId: r.ReceiverId,
		Status:     entity.RequestStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (m *ConnectionMapper) RequestToModel(r *entity.ConnectionRequest) *model.ConnectionRequest {
	if r == nil {
		return nil
	}
	return &model.ConnectionRequest{
		Id:         r.Id,
		SenderId:   r.SenderId,
		ReceiverId: r.ReceiverId,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
