package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/playback"
	"github.com/salonsync/server/internal/repository/room"
	"github.com/salonsync/server/pkg/ytvideodata"
)

type AddVideoParams struct {
	RoomCode      string
	ParticipantId string
	Url           string
	Title         string
}

type AutoplayResult struct {
	VideoId string
	Player  playback.State
}

type AddVideoResponse struct {
	AddedVideo PlaylistItem
	Conns      []*websocket.Conn
	// Autoplay is set when the add landed on an empty playlist and
	// started playback of the new item.
	Autoplay *AutoplayResult
}

func (s service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	participant, err := s.validateParticipant(ctx, params.RoomCode, params.ParticipantId)
	if err != nil {
		return AddVideoResponse{}, err
	}

	playlistLength, err := s.roomRepo.GetPlaylistLength(ctx, params.RoomCode)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get playlist length: %w", err)
	}

	if s.playlistLimit > 0 && playlistLength >= s.playlistLimit {
		return AddVideoResponse{}, ErrPlaylistLimitReached
	}

	title := params.Title
	if title == "" {
		videoId := ytvideodata.ExtractVideoId(params.Url)
		if videoData, err := s.videoData(videoId); err == nil {
			title = videoData.Title
		} else {
			s.logger.WarnContext(ctx, "video data lookup failed", "video_id", videoId, "error", err)
			title = ytvideodata.Fallback(videoId).Title
		}
	}

	videoId := uuid.NewString()
	if err := s.roomRepo.SetVideo(ctx, &room.SetVideoParams{
		VideoId:  videoId,
		RoomCode: params.RoomCode,
		Url:      params.Url,
		Title:    title,
		AddedBy:  params.ParticipantId,
	}); err != nil {
		if errors.Is(err, room.ErrDuplicateVideo) {
			return AddVideoResponse{}, ErrDuplicateItem
		}
		return AddVideoResponse{}, fmt.Errorf("failed to set video: %w", err)
	}

	response := AddVideoResponse{
		AddedVideo: PlaylistItem{
			Id:            videoId,
			Url:           params.Url,
			Title:         title,
			AddedById:     params.ParticipantId,
			AddedByPseudo: participant.Pseudo,
		},
		Conns: s.connRepo.GetRoomConns(params.RoomCode),
	}

	// first item on an empty playlist starts playing immediately
	if playlistLength == 0 {
		changeVideoResp, err := s.ChangeVideo(ctx, &ChangeVideoParams{
			RoomCode: params.RoomCode,
			VideoId:  ytvideodata.ExtractVideoId(params.Url),
		})
		if err != nil {
			return AddVideoResponse{}, fmt.Errorf("failed to autoplay first item: %w", err)
		}

		response.Autoplay = &AutoplayResult{
			VideoId: changeVideoResp.VideoId,
			Player:  changeVideoResp.Player,
		}
	}

	return response, nil
}

type RemoveVideoParams struct {
	RoomCode string
	VideoId  string
}

type RemoveVideoResponse struct {
	RemovedVideoId string
	Conns          []*websocket.Conn
}

func (s service) RemoveVideo(ctx context.Context, params *RemoveVideoParams) (RemoveVideoResponse, error) {
	if err := s.roomRepo.RemoveVideo(ctx, &room.RemoveVideoParams{
		VideoId:  params.VideoId,
		RoomCode: params.RoomCode,
	}); err != nil {
		if errors.Is(err, room.ErrVideoNotFound) {
			return RemoveVideoResponse{}, ErrItemNotFound
		}
		return RemoveVideoResponse{}, fmt.Errorf("failed to remove video: %w", err)
	}

	return RemoveVideoResponse{
		RemovedVideoId: params.VideoId,
		Conns:          s.connRepo.GetRoomConns(params.RoomCode),
	}, nil
}

// GetPlaylist returns the room's items with resolved pseudos in stable
// insertion order.
func (s service) GetPlaylist(ctx context.Context, roomCode string) ([]PlaylistItem, error) {
	return s.getPlaylist(ctx, roomCode)
}
