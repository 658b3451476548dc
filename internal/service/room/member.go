package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/playback"
	"github.com/salonsync/server/internal/repository/connection"
	"github.com/salonsync/server/internal/repository/room"
)

type ConnectParticipantParams struct {
	Conn          *websocket.Conn
	RoomCode      string
	ParticipantId string
}

type ConnectParticipantResponse struct {
	Participant  Participant
	Player       playback.State
	Playlist     []PlaylistItem
	Participants []Participant
	Online       []Participant
	Conns        []*websocket.Conn
}

// ConnectParticipant attaches a live connection to a previously created
// participant. The joiner catches up from the returned snapshot; the
// room receives the refreshed online-list over Conns.
func (s service) ConnectParticipant(ctx context.Context, params *ConnectParticipantParams) (ConnectParticipantResponse, error) {
	exists, err := s.roomRepo.RoomExists(ctx, params.RoomCode)
	if err != nil {
		return ConnectParticipantResponse{}, fmt.Errorf("failed to check room: %w", err)
	}
	if !exists {
		return ConnectParticipantResponse{}, ErrRoomNotFound
	}

	participant, err := s.validateParticipant(ctx, params.RoomCode, params.ParticipantId)
	if err != nil {
		return ConnectParticipantResponse{}, err
	}

	if err := s.connRepo.Add(params.Conn, connection.Session{
		ParticipantId: params.ParticipantId,
		RoomCode:      params.RoomCode,
	}); err != nil {
		return ConnectParticipantResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	playlist, err := s.getPlaylist(ctx, params.RoomCode)
	if err != nil {
		return ConnectParticipantResponse{}, err
	}

	participants, err := s.getParticipants(ctx, params.RoomCode)
	if err != nil {
		return ConnectParticipantResponse{}, err
	}

	online, err := s.getOnlineParticipants(ctx, params.RoomCode)
	if err != nil {
		return ConnectParticipantResponse{}, err
	}

	s.logger.InfoContext(ctx, "participant connected",
		"room_code", params.RoomCode,
		"participant_id", params.ParticipantId,
	)

	return ConnectParticipantResponse{
		Participant: Participant{
			Id:       params.ParticipantId,
			Pseudo:   participant.Pseudo,
			IsOnline: true,
		},
		Player:       s.player.GetOrCreate(params.RoomCode),
		Playlist:     playlist,
		Participants: participants,
		Online:       online,
		Conns:        s.connRepo.GetRoomConns(params.RoomCode),
	}, nil
}

type DisconnectResponse struct {
	RoomCode string
	Online   []Participant
	Conns    []*websocket.Conn
	// Changed reports whether the online-list shrank, i.e. the last
	// connection of a participant dropped.
	Changed bool
}

// Disconnect detaches a closed connection from its join-time session. It is
// the only cancellation signal: the connection is always removed, and the
// online-list is rebroadcast at most once per membership change.
func (s service) Disconnect(ctx context.Context, conn *websocket.Conn) (DisconnectResponse, error) {
	session, remaining, err := s.connRepo.Remove(conn)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			// conn closed before ever joining a room
			return DisconnectResponse{}, nil
		}
		return DisconnectResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	if remaining > 0 {
		return DisconnectResponse{RoomCode: session.RoomCode}, nil
	}

	online, err := s.getOnlineParticipants(ctx, session.RoomCode)
	if err != nil {
		return DisconnectResponse{}, err
	}

	s.logger.InfoContext(ctx, "participant offline",
		"room_code", session.RoomCode,
		"participant_id", session.ParticipantId,
	)

	return DisconnectResponse{
		RoomCode: session.RoomCode,
		Online:   online,
		Conns:    s.connRepo.GetRoomConns(session.RoomCode),
		Changed:  true,
	}, nil
}

// Session resolves the join-time identity of a live connection. Identity
// is never re-read from client payloads after joinRoom.
func (s service) Session(conn *websocket.Conn) (connection.Session, error) {
	session, err := s.connRepo.GetSession(conn)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return connection.Session{}, ErrInvalidParticipant
		}
		return connection.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

type LeaveRoomParams struct {
	RoomCode      string
	ParticipantId string
}

type LeaveRoomResponse struct {
	Participants []Participant
	Online       []Participant
	Conns        []*websocket.Conn
}

// LeaveRoom removes the durable participant record. Any live connections
// the participant still holds are left for their own disconnects.
func (s service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) (LeaveRoomResponse, error) {
	if _, err := s.validateParticipant(ctx, params.RoomCode, params.ParticipantId); err != nil {
		return LeaveRoomResponse{}, err
	}

	if err := s.roomRepo.RemoveParticipant(ctx, &room.RemoveParticipantParams{
		ParticipantId: params.ParticipantId,
		RoomCode:      params.RoomCode,
	}); err != nil {
		return LeaveRoomResponse{}, fmt.Errorf("failed to remove participant: %w", err)
	}

	participants, err := s.getParticipants(ctx, params.RoomCode)
	if err != nil {
		return LeaveRoomResponse{}, err
	}

	online, err := s.getOnlineParticipants(ctx, params.RoomCode)
	if err != nil {
		return LeaveRoomResponse{}, err
	}

	return LeaveRoomResponse{
		Participants: participants,
		Online:       online,
		Conns:        s.connRepo.GetRoomConns(params.RoomCode),
	}, nil
}
