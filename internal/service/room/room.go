package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/repository/room"
)

type CreateRoomParams struct {
	Name   string
	Pseudo string
	Pin    *string
}

type CreateRoomResponse struct {
	Room    Room
	Creator Participant
}

// CreateRoom persists a new room under a generated access code and creates
// its first participant.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	roomCode := s.generator.GenerateRandomString(s.roomCodeLen)

	if err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
		RoomCode:  roomCode,
		Name:      params.Name,
		Pin:       params.Pin,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to set room: %w", err)
	}

	participantId := uuid.NewString()
	if err := s.roomRepo.SetParticipant(ctx, &room.SetParticipantParams{
		ParticipantId: participantId,
		Pseudo:        params.Pseudo,
		RoomCode:      roomCode,
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to set participant: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_code", roomCode)

	return CreateRoomResponse{
		Room: Room{
			Code:   roomCode,
			Name:   params.Name,
			HasPin: params.Pin != nil,
		},
		Creator: Participant{
			Id:     participantId,
			Pseudo: params.Pseudo,
		},
	}, nil
}

func (s service) GetRoom(ctx context.Context, roomCode string) (Room, error) {
	stored, err := s.roomRepo.GetRoom(ctx, roomCode)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return Room{
		Code:   roomCode,
		Name:   stored.Name,
		HasPin: stored.Pin != nil,
	}, nil
}

type JoinRoomParams struct {
	RoomCode string
	Pseudo   string
	Pin      *string
}

type JoinRoomResponse struct {
	Room        Room
	Participant Participant
}

// JoinRoom validates the access code and PIN against the durable record and
// creates a participant scoped to the room. The PIN is checked on every
// join, never cached.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	stored, err := s.roomRepo.GetRoom(ctx, params.RoomCode)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return JoinRoomResponse{}, ErrRoomNotFound
		}
		return JoinRoomResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	if stored.Pin != nil {
		if params.Pin == nil || *params.Pin != *stored.Pin {
			return JoinRoomResponse{}, ErrInvalidPin
		}
	}

	participantId := uuid.NewString()
	if err := s.roomRepo.SetParticipant(ctx, &room.SetParticipantParams{
		ParticipantId: participantId,
		Pseudo:        params.Pseudo,
		RoomCode:      params.RoomCode,
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to set participant: %w", err)
	}

	return JoinRoomResponse{
		Room: Room{
			Code:   params.RoomCode,
			Name:   stored.Name,
			HasPin: stored.Pin != nil,
		},
		Participant: Participant{
			Id:     participantId,
			Pseudo: params.Pseudo,
		},
	}, nil
}

func (s service) GetRoomState(ctx context.Context, roomCode string) (RoomState, error) {
	roomInfo, err := s.GetRoom(ctx, roomCode)
	if err != nil {
		return RoomState{}, err
	}

	participants, err := s.getParticipants(ctx, roomCode)
	if err != nil {
		return RoomState{}, err
	}

	playlist, err := s.getPlaylist(ctx, roomCode)
	if err != nil {
		return RoomState{}, err
	}

	history, err := s.getHistory(ctx, roomCode)
	if err != nil {
		return RoomState{}, err
	}

	messages, err := s.getMessages(ctx, roomCode)
	if err != nil {
		return RoomState{}, err
	}

	return RoomState{
		Room:         roomInfo,
		Participants: participants,
		Playlist:     playlist,
		History:      history,
		Messages:     messages,
		Player:       s.player.GetOrCreate(roomCode),
	}, nil
}

type DeleteRoomResponse struct {
	Conns []*websocket.Conn
}

// DeleteRoom cascades over the room's durable records. Transient presence
// state drains as the returned connections are closed by the caller.
func (s service) DeleteRoom(ctx context.Context, roomCode string) (DeleteRoomResponse, error) {
	conns := s.connRepo.GetRoomConns(roomCode)

	if err := s.roomRepo.RemoveRoom(ctx, roomCode); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return DeleteRoomResponse{}, ErrRoomNotFound
		}
		return DeleteRoomResponse{}, fmt.Errorf("failed to remove room: %w", err)
	}

	s.logger.InfoContext(ctx, "room deleted", "room_code", roomCode)

	return DeleteRoomResponse{Conns: conns}, nil
}

func (s service) getHistory(ctx context.Context, roomCode string) ([]HistoryEntry, error) {
	stored, err := s.roomRepo.GetHistoryEntries(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get history entries: %w", err)
	}

	history := make([]HistoryEntry, 0, len(stored))
	for _, entry := range stored {
		history = append(history, HistoryEntry{
			VideoUrl: entry.VideoUrl,
			ViewedAt: entry.ViewedAt,
		})
	}

	return history, nil
}

func (s service) getMessages(ctx context.Context, roomCode string) ([]ChatMessage, error) {
	stored, err := s.roomRepo.GetMessages(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	messages := make([]ChatMessage, 0, len(stored))
	for _, message := range stored {
		pseudo := ""
		if participant, err := s.roomRepo.GetParticipant(ctx, message.ParticipantId); err == nil {
			pseudo = participant.Pseudo
		}

		messages = append(messages, ChatMessage{
			Id:            message.Id,
			ParticipantId: message.ParticipantId,
			Pseudo:        pseudo,
			Content:       message.Content,
			SentAt:        message.SentAt,
		})
	}

	return messages, nil
}
