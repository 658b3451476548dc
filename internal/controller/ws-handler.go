package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/service/room"
)

// decode unmarshals and validates an event payload. Any shape failure is
// surfaced as a malformed request so the sender gets a uniform error.
func (c controller) decode(payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return room.ErrMalformedRequest
	}

	if _, ok := c.validate.Validate(dst); !ok {
		return room.ErrMalformedRequest
	}

	return nil
}

type JoinRoomInput struct {
	RoomCode      string `json:"room_code" validate:"required"`
	ParticipantId string `json:"participant_id" validate:"required"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input JoinRoomInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	connectResp, err := c.roomService.ConnectParticipant(ctx, &room.ConnectParticipantParams{
		Conn:          conn,
		RoomCode:      input.RoomCode,
		ParticipantId: input.ParticipantId,
	})
	if err != nil {
		return fmt.Errorf("failed to connect participant: %w", err)
	}

	// catch-up sequence for the joiner
	outputs := []*Output{
		{Event: "playlistSnapshot", Payload: map[string]any{
			"room_code": input.RoomCode,
			"items":     connectResp.Playlist,
		}},
		{Event: "participantsOnline", Payload: map[string]any{
			"participants": connectResp.Online,
		}},
		{Event: "participantsUpdated", Payload: map[string]any{
			"participants": connectResp.Participants,
		}},
		{Event: "initialSync", Payload: map[string]any{
			"player": connectResp.Player,
		}},
		{Event: "joinedRoom", Payload: map[string]any{
			"room_code":   input.RoomCode,
			"participant": connectResp.Participant,
		}},
	}
	for _, output := range outputs {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			return fmt.Errorf("failed to write to conn: %w", err)
		}
	}

	if err := c.broadcastExcept(ctx, connectResp.Conns, conn, &Output{
		Event: "participantsOnline",
		Payload: map[string]any{
			"participants": connectResp.Online,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast online list: %w", err)
	}

	return nil
}

type ChatMessageInput struct {
	Content string `json:"content" validate:"required"`
}

func (c controller) handleChatMessage(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input ChatMessageInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	sendMessageResp, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		RoomCode:      session.RoomCode,
		ParticipantId: session.ParticipantId,
		Content:       input.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if err := c.broadcast(ctx, sendMessageResp.Conns, &Output{
		Event: "chatMessageCreated",
		Payload: map[string]any{
			"message": sendMessageResp.Message,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast chat message: %w", err)
	}

	return nil
}

type PlaylistAddInput struct {
	Url   string `json:"url" validate:"required"`
	Title string `json:"title"`
}

func (c controller) handlePlaylistAdd(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input PlaylistAddInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	addVideoResp, err := c.roomService.AddVideo(ctx, &room.AddVideoParams{
		RoomCode:      session.RoomCode,
		ParticipantId: session.ParticipantId,
		Url:           input.Url,
		Title:         input.Title,
	})
	if err != nil {
		if errors.Is(err, room.ErrDuplicateItem) {
			// duplicate is a notice to the sender, not an error
			return c.writeToConn(ctx, conn, &Output{
				Event: "playlistDuplicate",
				Payload: map[string]any{
					"url": input.Url,
				},
			})
		}
		return fmt.Errorf("failed to add video: %w", err)
	}

	if err := c.broadcast(ctx, addVideoResp.Conns, &Output{
		Event: "playlistItemAdded",
		Payload: map[string]any{
			"item": addVideoResp.AddedVideo,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast playlist item added: %w", err)
	}

	if addVideoResp.Autoplay != nil {
		if err := c.broadcast(ctx, addVideoResp.Conns, &Output{
			Event: "changeVideo",
			Payload: map[string]any{
				"video_id": addVideoResp.Autoplay.VideoId,
				"player":   addVideoResp.Autoplay.Player,
			},
		}); err != nil {
			return fmt.Errorf("failed to broadcast video change: %w", err)
		}
	}

	return nil
}

type PlaylistRemoveInput struct {
	ItemId string `json:"item_id" validate:"required"`
}

func (c controller) handlePlaylistRemove(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input PlaylistRemoveInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	removeVideoResp, err := c.roomService.RemoveVideo(ctx, &room.RemoveVideoParams{
		RoomCode: session.RoomCode,
		VideoId:  input.ItemId,
	})
	if err != nil {
		return fmt.Errorf("failed to remove video: %w", err)
	}

	if err := c.broadcast(ctx, removeVideoResp.Conns, &Output{
		Event: "playlistItemRemoved",
		Payload: map[string]any{
			"item_id": removeVideoResp.RemovedVideoId,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast playlist item removed: %w", err)
	}

	return nil
}

func (c controller) handlePlay(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	playResp, err := c.roomService.Play(ctx, session.RoomCode)
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if err := c.broadcastExcept(ctx, playResp.Conns, conn, &Output{
		Event:   "play",
		Payload: map[string]any{},
	}); err != nil {
		return fmt.Errorf("failed to relay play: %w", err)
	}

	return nil
}

func (c controller) handlePause(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	pauseResp, err := c.roomService.Pause(ctx, session.RoomCode)
	if err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	if err := c.broadcastExcept(ctx, pauseResp.Conns, conn, &Output{
		Event:   "pause",
		Payload: map[string]any{},
	}); err != nil {
		return fmt.Errorf("failed to relay pause: %w", err)
	}

	return nil
}

type SyncActionInput struct {
	VideoTime    float64  `json:"video_time"`
	ClockTime    int64    `json:"clock_time" validate:"required"`
	PlaybackRate *float64 `json:"playback_rate" validate:"omitempty,gt=0"`
}

func (c controller) handleSyncAction(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input SyncActionInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.SyncAction(ctx, &room.SyncActionParams{
		RoomCode:     session.RoomCode,
		VideoTime:    input.VideoTime,
		ClockTime:    input.ClockTime,
		PlaybackRate: input.PlaybackRate,
	})
	if err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}

	if err := c.broadcastExcept(ctx, syncResp.Conns, conn, &Output{
		Event: "syncAction",
		Payload: map[string]any{
			"video_time":    input.VideoTime,
			"clock_time":    input.ClockTime,
			"playback_rate": input.PlaybackRate,
		},
	}); err != nil {
		return fmt.Errorf("failed to relay sync: %w", err)
	}

	return nil
}

// handleVideoTime keeps the anchor fresh for late joiners and is never
// relayed.
func (c controller) handleVideoTime(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input SyncActionInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	if err := c.roomService.VideoTime(ctx, &room.SyncActionParams{
		RoomCode:     session.RoomCode,
		VideoTime:    input.VideoTime,
		ClockTime:    input.ClockTime,
		PlaybackRate: input.PlaybackRate,
	}); err != nil {
		return fmt.Errorf("failed to record video time: %w", err)
	}

	return nil
}

type ChangeSpeedInput struct {
	Speed float64 `json:"speed" validate:"required,gt=0"`
}

func (c controller) handleChangeSpeed(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input ChangeSpeedInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	changeSpeedResp, err := c.roomService.ChangeSpeed(ctx, &room.ChangeSpeedParams{
		RoomCode: session.RoomCode,
		Speed:    input.Speed,
	})
	if err != nil {
		return fmt.Errorf("failed to change speed: %w", err)
	}

	if err := c.broadcastExcept(ctx, changeSpeedResp.Conns, conn, &Output{
		Event: "changeSpeed",
		Payload: map[string]any{
			"speed": input.Speed,
		},
	}); err != nil {
		return fmt.Errorf("failed to relay speed change: %w", err)
	}

	return nil
}

type ChangeVideoInput struct {
	VideoId string `json:"video_id" validate:"required"`
}

func (c controller) handleChangeVideo(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input ChangeVideoInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	session, err := c.roomService.Session(conn)
	if err != nil {
		return err
	}

	changeVideoResp, err := c.roomService.ChangeVideo(ctx, &room.ChangeVideoParams{
		RoomCode: session.RoomCode,
		VideoId:  input.VideoId,
	})
	if err != nil {
		return fmt.Errorf("failed to change video: %w", err)
	}

	// the sender reloads too, so this one goes to everyone
	if err := c.broadcast(ctx, changeVideoResp.Conns, &Output{
		Event: "changeVideo",
		Payload: map[string]any{
			"video_id": changeVideoResp.VideoId,
			"player":   changeVideoResp.Player,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast video change: %w", err)
	}

	return nil
}
