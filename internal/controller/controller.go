package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/repository/connection"
	"github.com/salonsync/server/internal/service/room"
	"github.com/salonsync/server/pkg/validator"
	"github.com/salonsync/server/pkg/wsrouter"
)

type iRoomService interface {
	// room lifecycle
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	GetRoom(context.Context, string) (room.Room, error)
	GetRoomState(context.Context, string) (room.RoomState, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) (room.LeaveRoomResponse, error)
	DeleteRoom(context.Context, string) (room.DeleteRoomResponse, error)
	// presence
	ConnectParticipant(context.Context, *room.ConnectParticipantParams) (room.ConnectParticipantResponse, error)
	Disconnect(context.Context, *websocket.Conn) (room.DisconnectResponse, error)
	Session(*websocket.Conn) (connection.Session, error)
	// playlist
	AddVideo(context.Context, *room.AddVideoParams) (room.AddVideoResponse, error)
	RemoveVideo(context.Context, *room.RemoveVideoParams) (room.RemoveVideoResponse, error)
	GetPlaylist(context.Context, string) ([]room.PlaylistItem, error)
	GetHistory(context.Context, string) ([]room.HistoryEntry, error)
	// player
	Play(context.Context, string) (room.PlayerEventResponse, error)
	Pause(context.Context, string) (room.PlayerEventResponse, error)
	SyncAction(context.Context, *room.SyncActionParams) (room.PlayerEventResponse, error)
	VideoTime(context.Context, *room.SyncActionParams) error
	ChangeSpeed(context.Context, *room.ChangeSpeedParams) (room.PlayerEventResponse, error)
	ChangeVideo(context.Context, *room.ChangeVideoParams) (room.ChangeVideoResponse, error)
	// chat
	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	// writeLocks serializes writes per connection: fanout for one room
	// event runs on the sender's read goroutine, so two senders may
	// target the same conn at once.
	writeLocks *sync.Map
	logger     *slog.Logger
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		writeLocks:  &sync.Map{},
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
