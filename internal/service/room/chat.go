package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/repository/room"
)

type SendMessageParams struct {
	RoomCode      string
	ParticipantId string
	Content       string
}

type SendMessageResponse struct {
	Message ChatMessage
	Conns   []*websocket.Conn
}

func (s service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	participant, err := s.validateParticipant(ctx, params.RoomCode, params.ParticipantId)
	if err != nil {
		return SendMessageResponse{}, err
	}

	messageId := uuid.NewString()
	sentAt := time.Now().Unix()
	if err := s.roomRepo.SetMessage(ctx, &room.SetMessageParams{
		MessageId:     messageId,
		RoomCode:      params.RoomCode,
		ParticipantId: params.ParticipantId,
		Content:       params.Content,
		SentAt:        sentAt,
	}); err != nil {
		return SendMessageResponse{}, fmt.Errorf("failed to set message: %w", err)
	}

	return SendMessageResponse{
		Message: ChatMessage{
			Id:            messageId,
			ParticipantId: params.ParticipantId,
			Pseudo:        participant.Pseudo,
			Content:       params.Content,
			SentAt:        sentAt,
		},
		Conns: s.connRepo.GetRoomConns(params.RoomCode),
	}, nil
}
