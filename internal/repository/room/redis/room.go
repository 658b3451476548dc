package redis

import (
	"context"
	"strconv"

	"github.com/salonsync/server/internal/repository/room"
)

func (r repo) getRoomKey(roomCode string) string {
	return "room:" + roomCode
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	roomKey := r.getRoomKey(params.RoomCode)

	fields := map[string]interface{}{
		"name":       params.Name,
		"created_at": params.CreatedAt,
	}
	if params.Pin != nil {
		fields["pin"] = *params.Pin
	}

	if err := r.rc.HSet(ctx, roomKey, fields).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomCode string) (room.Room, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_code": roomCode,
	})
	fields, err := r.rc.HGetAll(ctx, r.getRoomKey(roomCode)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	if len(fields) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.Room{}, room.ErrRoomNotFound
	}

	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	result := room.Room{
		Name:      fields["name"],
		CreatedAt: createdAt,
	}
	if pin, ok := fields["pin"]; ok {
		result.Pin = &pin
	}

	return result, nil
}

func (r repo) RoomExists(ctx context.Context, roomCode string) (bool, error) {
	res, err := r.rc.Exists(ctx, r.getRoomKey(roomCode)).Result()
	if err != nil {
		return false, err
	}

	return res > 0, nil
}

// RemoveRoom deletes the room record and cascades over its participants,
// playlist, history and messages.
func (r repo) RemoveRoom(ctx context.Context, roomCode string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_code": roomCode,
	})
	res, err := r.rc.Exists(ctx, r.getRoomKey(roomCode)).Result()
	if err != nil {
		return err
	}
	if res == 0 {
		return room.ErrRoomNotFound
	}

	participantIds, err := r.rc.ZRange(ctx, r.getParticipantListKey(roomCode), 0, -1).Result()
	if err != nil {
		return err
	}
	videoIds, err := r.rc.ZRange(ctx, r.getPlaylistKey(roomCode), 0, -1).Result()
	if err != nil {
		return err
	}
	entryIds, err := r.rc.ZRange(ctx, r.getHistoryListKey(roomCode), 0, -1).Result()
	if err != nil {
		return err
	}
	messageIds, err := r.rc.ZRange(ctx, r.getMessageListKey(roomCode), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	for _, participantId := range participantIds {
		pipe.Del(ctx, r.getParticipantKey(participantId))
	}
	for _, videoId := range videoIds {
		pipe.Del(ctx, r.getVideoKey(roomCode, videoId))
	}
	for _, entryId := range entryIds {
		pipe.Del(ctx, r.getHistoryEntryKey(roomCode, entryId))
	}
	for _, messageId := range messageIds {
		pipe.Del(ctx, r.getMessageKey(roomCode, messageId))
	}
	pipe.Del(ctx,
		r.getParticipantListKey(roomCode),
		r.getPlaylistKey(roomCode),
		r.getPlaylistUrlsKey(roomCode),
		r.getHistoryListKey(roomCode),
		r.getMessageListKey(roomCode),
		r.getRoomKey(roomCode),
	)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}
