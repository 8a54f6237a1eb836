package mapper

import (
	"heartlink-be/internal/entity"
	"heartlink-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:         msg.Id,
		Seq:        msg.Seq,
		SenderId:   msg.SenderId,
		ReceiverId: msg.ReceiverId,
		Body:       msg.Body,
		SentAt:     msg.SentAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:         msg.Id,
		Seq:        msg.Seq,
		SenderId:   msg.SenderId,
		ReceiverId: msg.ReceiverId,
		Body:       msg.Body,
		SentAt:     msg.SentAt,
	}
}
