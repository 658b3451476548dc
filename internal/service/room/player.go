package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/playback"
	"github.com/salonsync/server/internal/repository/room"
	"github.com/salonsync/server/pkg/ytvideodata"
)

func (s service) playbackErr(err error) error {
	if errors.Is(err, playback.ErrStateNotFound) {
		return ErrRoomNotFound
	}

	return err
}

type PlayerEventResponse struct {
	Conns []*websocket.Conn
}

func (s service) Play(ctx context.Context, roomCode string) (PlayerEventResponse, error) {
	if err := s.player.Play(roomCode); err != nil {
		return PlayerEventResponse{}, s.playbackErr(err)
	}

	return PlayerEventResponse{Conns: s.connRepo.GetRoomConns(roomCode)}, nil
}

func (s service) Pause(ctx context.Context, roomCode string) (PlayerEventResponse, error) {
	if err := s.player.Pause(roomCode); err != nil {
		return PlayerEventResponse{}, s.playbackErr(err)
	}

	return PlayerEventResponse{Conns: s.connRepo.GetRoomConns(roomCode)}, nil
}

type SyncActionParams struct {
	RoomCode     string
	VideoTime    float64
	ClockTime    int64
	PlaybackRate *float64
}

// SyncAction re-anchors the room on a client-supplied anchor and is relayed
// to the other connections.
func (s service) SyncAction(ctx context.Context, params *SyncActionParams) (PlayerEventResponse, error) {
	if err := s.player.Sync(params.RoomCode, &playback.SyncParams{
		VideoTime:    params.VideoTime,
		ClockTime:    params.ClockTime,
		PlaybackRate: params.PlaybackRate,
	}); err != nil {
		return PlayerEventResponse{}, s.playbackErr(err)
	}

	return PlayerEventResponse{Conns: s.connRepo.GetRoomConns(params.RoomCode)}, nil
}

// VideoTime is the silent heartbeat variant of SyncAction: same fields,
// never relayed, only keeps the snapshot fresh for late joiners.
func (s service) VideoTime(ctx context.Context, params *SyncActionParams) error {
	if err := s.player.Heartbeat(params.RoomCode, &playback.SyncParams{
		VideoTime:    params.VideoTime,
		ClockTime:    params.ClockTime,
		PlaybackRate: params.PlaybackRate,
	}); err != nil {
		return s.playbackErr(err)
	}

	return nil
}

type ChangeSpeedParams struct {
	RoomCode string
	Speed    float64
}

func (s service) ChangeSpeed(ctx context.Context, params *ChangeSpeedParams) (PlayerEventResponse, error) {
	if err := s.player.SetRate(params.RoomCode, params.Speed); err != nil {
		return PlayerEventResponse{}, s.playbackErr(err)
	}

	return PlayerEventResponse{Conns: s.connRepo.GetRoomConns(params.RoomCode)}, nil
}

type ChangeVideoParams struct {
	RoomCode string
	VideoId  string
}

type ChangeVideoResponse struct {
	VideoId string
	Player  playback.State
	Conns   []*websocket.Conn
}

// ChangeVideo resets the room's anchor onto a new video and records the
// outgoing one in the viewing history. A history write failure degrades to
// a log line: playback sync must stay alive while the store is down.
func (s service) ChangeVideo(ctx context.Context, params *ChangeVideoParams) (ChangeVideoResponse, error) {
	outgoing, err := s.player.ChangeVideo(params.RoomCode, params.VideoId)
	if err != nil {
		return ChangeVideoResponse{}, s.playbackErr(err)
	}

	if outgoing != "" {
		if err := s.roomRepo.SetHistoryEntry(ctx, &room.SetHistoryEntryParams{
			EntryId:  uuid.NewString(),
			RoomCode: params.RoomCode,
			VideoUrl: s.resolveVideoUrl(ctx, params.RoomCode, outgoing),
			ViewedAt: time.Now().Unix(),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to persist history entry",
				"room_code", params.RoomCode,
				"video_url", outgoing,
				"error", err,
			)
		}
	}

	state, ok := s.player.Snapshot(params.RoomCode)
	if !ok {
		return ChangeVideoResponse{}, fmt.Errorf("playback state vanished for room %s", params.RoomCode)
	}

	return ChangeVideoResponse{
		VideoId: params.VideoId,
		Player:  state,
		Conns:   s.connRepo.GetRoomConns(params.RoomCode),
	}, nil
}

// resolveVideoUrl maps a playing video id back to the source url of the
// playlist item it came from; the history records urls, not ids. The bare
// id stands in when the video never was a playlist item.
func (s service) resolveVideoUrl(ctx context.Context, roomCode, videoId string) string {
	playlist, err := s.getPlaylist(ctx, roomCode)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve video url", "video_id", videoId, "error", err)
		return videoId
	}

	for _, item := range playlist {
		if ytvideodata.ExtractVideoId(item.Url) == videoId {
			return item.Url
		}
	}

	return videoId
}

// GetHistory lists the room's viewing history, most recent first.
func (s service) GetHistory(ctx context.Context, roomCode string) ([]HistoryEntry, error) {
	return s.getHistory(ctx, roomCode)
}
