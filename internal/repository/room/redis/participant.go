package redis

import (
	"context"

	"github.com/salonsync/server/internal/repository/room"
)

func (r repo) getParticipantKey(participantId string) string {
	return "participant:" + participantId
}

func (r repo) getParticipantListKey(roomCode string) string {
	return "room:" + roomCode + ":participants"
}

func (r repo) SetParticipant(ctx context.Context, params *room.SetParticipantParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	participant := room.Participant{
		Pseudo:   params.Pseudo,
		RoomCode: params.RoomCode,
	}
	pipe.HSet(ctx, r.getParticipantKey(params.ParticipantId), participant)
	r.addWithIncrement(ctx, pipe, r.getParticipantListKey(params.RoomCode), params.ParticipantId)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetParticipant(ctx context.Context, participantId string) (room.Participant, error) {
	var participant room.Participant
	if err := r.rc.HGetAll(ctx, r.getParticipantKey(participantId)).Scan(&participant); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Participant{}, err
	}

	if participant.Pseudo == "" {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrParticipantNotFound)
		return room.Participant{}, room.ErrParticipantNotFound
	}

	return participant, nil
}

func (r repo) GetParticipantIds(ctx context.Context, roomCode string) ([]string, error) {
	participantIds, err := r.rc.ZRange(ctx, r.getParticipantListKey(roomCode), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return participantIds, nil
}

func (r repo) RemoveParticipant(ctx context.Context, params *room.RemoveParticipantParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	if err := r.rc.ZRem(ctx, r.getParticipantListKey(params.RoomCode), params.ParticipantId).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	res, err := r.rc.Del(ctx, r.getParticipantKey(params.ParticipantId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if res == 0 {
		return room.ErrParticipantNotFound
	}

	return nil
}
