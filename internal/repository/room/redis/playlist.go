package redis

import (
	"context"

	"github.com/salonsync/server/internal/repository/room"
)

func (r repo) getVideoKey(roomCode, videoId string) string {
	return "room:" + roomCode + ":video:" + videoId
}

func (r repo) getPlaylistKey(roomCode string) string {
	return "room:" + roomCode + ":playlist"
}

func (r repo) getPlaylistUrlsKey(roomCode string) string {
	return "room:" + roomCode + ":playlist:urls"
}

// SetVideo persists a playlist item. Uniqueness on (room, url) is enforced
// by the store: the url set insertion is the serialization point, so two
// racing adds with the same url cannot both commit.
func (r repo) SetVideo(ctx context.Context, params *room.SetVideoParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	added, err := r.rc.SAdd(ctx, r.getPlaylistUrlsKey(params.RoomCode), params.Url).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if added == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrDuplicateVideo)
		return room.ErrDuplicateVideo
	}

	pipe := r.rc.TxPipeline()

	video := room.Video{
		Url:       params.Url,
		Title:     params.Title,
		AddedById: params.AddedBy,
	}
	pipe.HSet(ctx, r.getVideoKey(params.RoomCode, params.VideoId), video)
	r.addWithIncrement(ctx, pipe, r.getPlaylistKey(params.RoomCode), params.VideoId)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		// release the url claim, otherwise the failed add would block
		// every retry of the same url as a duplicate
		if cleanupErr := r.rc.SRem(ctx, r.getPlaylistUrlsKey(params.RoomCode), params.Url).Err(); cleanupErr != nil {
			r.logger.WarnContext(ctx, "failed to release url claim", "url", params.Url, "error", cleanupErr)
		}
		return err
	}

	return nil
}

func (r repo) GetVideo(ctx context.Context, params *room.GetVideoParams) (room.Video, error) {
	var video room.Video
	if err := r.rc.HGetAll(ctx, r.getVideoKey(params.RoomCode, params.VideoId)).Scan(&video); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Video{}, err
	}

	if video.Url == "" {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrVideoNotFound)
		return room.Video{}, room.ErrVideoNotFound
	}

	return video, nil
}

// GetVideoIds returns the room's playlist item ids in insertion order.
func (r repo) GetVideoIds(ctx context.Context, roomCode string) ([]string, error) {
	videoIds, err := r.rc.ZRange(ctx, r.getPlaylistKey(roomCode), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return videoIds, nil
}

func (r repo) GetPlaylistLength(ctx context.Context, roomCode string) (int, error) {
	length, err := r.rc.ZCard(ctx, r.getPlaylistKey(roomCode)).Result()
	if err != nil {
		return 0, err
	}

	return int(length), nil
}

func (r repo) RemoveVideo(ctx context.Context, params *room.RemoveVideoParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	video, err := r.GetVideo(ctx, &room.GetVideoParams{
		VideoId:  params.VideoId,
		RoomCode: params.RoomCode,
	})
	if err != nil {
		return err
	}

	res, err := r.rc.ZRem(ctx, r.getPlaylistKey(params.RoomCode), params.VideoId).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if res == 0 {
		return room.ErrVideoNotFound
	}

	pipe := r.rc.TxPipeline()
	pipe.SRem(ctx, r.getPlaylistUrlsKey(params.RoomCode), video.Url)
	pipe.Del(ctx, r.getVideoKey(params.RoomCode, params.VideoId))

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}
