package redis

import (
	"context"

	"github.com/salonsync/server/internal/repository/room"
)

func (r repo) getHistoryEntryKey(roomCode, entryId string) string {
	return "room:" + roomCode + ":history:" + entryId
}

func (r repo) getHistoryListKey(roomCode string) string {
	return "room:" + roomCode + ":history"
}

func (r repo) SetHistoryEntry(ctx context.Context, params *room.SetHistoryEntryParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	entry := room.HistoryEntry{
		VideoUrl: params.VideoUrl,
		ViewedAt: params.ViewedAt,
	}
	pipe.HSet(ctx, r.getHistoryEntryKey(params.RoomCode, params.EntryId), entry)
	r.addWithIncrement(ctx, pipe, r.getHistoryListKey(params.RoomCode), params.EntryId)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// GetHistoryEntries lists a room's viewing history, most recent first.
func (r repo) GetHistoryEntries(ctx context.Context, roomCode string) ([]room.HistoryEntry, error) {
	entryIds, err := r.rc.ZRevRange(ctx, r.getHistoryListKey(roomCode), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	entries := make([]room.HistoryEntry, 0, len(entryIds))
	for _, entryId := range entryIds {
		var entry room.HistoryEntry
		if err := r.rc.HGetAll(ctx, r.getHistoryEntryKey(roomCode, entryId)).Scan(&entry); err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
