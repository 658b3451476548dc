package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonsync/server/internal/repository/room"
)

// validateParticipant rejects ids that do not exist or belong to another
// room. Presence-sensitive operations never trust a client-supplied id
// beyond this check.
func (s service) validateParticipant(ctx context.Context, roomCode, participantId string) (room.Participant, error) {
	participant, err := s.roomRepo.GetParticipant(ctx, participantId)
	if err != nil {
		if errors.Is(err, room.ErrParticipantNotFound) {
			return room.Participant{}, ErrInvalidParticipant
		}
		return room.Participant{}, fmt.Errorf("failed to get participant: %w", err)
	}

	if participant.RoomCode != roomCode {
		return room.Participant{}, ErrInvalidParticipant
	}

	return participant, nil
}

func (s service) getParticipants(ctx context.Context, roomCode string) ([]Participant, error) {
	participantIds, err := s.roomRepo.GetParticipantIds(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant ids: %w", err)
	}

	participants := make([]Participant, 0, len(participantIds))
	for _, participantId := range participantIds {
		participant, err := s.roomRepo.GetParticipant(ctx, participantId)
		if err != nil {
			return nil, fmt.Errorf("failed to get participant: %w", err)
		}

		participants = append(participants, Participant{
			Id:       participantId,
			Pseudo:   participant.Pseudo,
			IsOnline: s.connRepo.ConnCount(participantId) > 0,
		})
	}

	return participants, nil
}

// getOnlineParticipants resolves the full online-list that is rebroadcast
// on every membership change.
func (s service) getOnlineParticipants(ctx context.Context, roomCode string) ([]Participant, error) {
	onlineIds := s.connRepo.GetOnlineParticipantIds(roomCode)

	online := make([]Participant, 0, len(onlineIds))
	for _, participantId := range onlineIds {
		participant, err := s.roomRepo.GetParticipant(ctx, participantId)
		if err != nil {
			// the durable record may already be gone on leave; presence
			// alone decides who is listed
			if errors.Is(err, room.ErrParticipantNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get participant: %w", err)
		}

		online = append(online, Participant{
			Id:       participantId,
			Pseudo:   participant.Pseudo,
			IsOnline: true,
		})
	}

	return online, nil
}

func (s service) getPlaylist(ctx context.Context, roomCode string) ([]PlaylistItem, error) {
	videoIds, err := s.roomRepo.GetVideoIds(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get video ids: %w", err)
	}

	playlist := make([]PlaylistItem, 0, len(videoIds))
	for _, videoId := range videoIds {
		video, err := s.roomRepo.GetVideo(ctx, &room.GetVideoParams{
			VideoId:  videoId,
			RoomCode: roomCode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get video: %w", err)
		}

		pseudo := ""
		if participant, err := s.roomRepo.GetParticipant(ctx, video.AddedById); err == nil {
			pseudo = participant.Pseudo
		}

		playlist = append(playlist, PlaylistItem{
			Id:            videoId,
			Url:           video.Url,
			Title:         video.Title,
			AddedById:     video.AddedById,
			AddedByPseudo: pseudo,
		})
	}

	return playlist, nil
}
