package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/playback"
	"github.com/salonsync/server/internal/repository/connection"
	"github.com/salonsync/server/internal/repository/room"
	"github.com/salonsync/server/pkg/randstr"
	"github.com/salonsync/server/pkg/ytvideodata"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrInvalidParticipant   = errors.New("invalid participant")
	ErrInvalidPin           = errors.New("invalid pin")
	ErrDuplicateItem        = errors.New("duplicate playlist item")
	ErrItemNotFound         = errors.New("playlist item not found")
	ErrMalformedRequest     = errors.New("malformed request")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
)

type iRoomRepo interface {
	// room
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoom(context.Context, string) (room.Room, error)
	RoomExists(context.Context, string) (bool, error)
	RemoveRoom(context.Context, string) error
	// participant
	SetParticipant(context.Context, *room.SetParticipantParams) error
	GetParticipant(context.Context, string) (room.Participant, error)
	GetParticipantIds(context.Context, string) ([]string, error)
	RemoveParticipant(context.Context, *room.RemoveParticipantParams) error
	// playlist
	SetVideo(context.Context, *room.SetVideoParams) error
	GetVideo(context.Context, *room.GetVideoParams) (room.Video, error)
	GetVideoIds(context.Context, string) ([]string, error)
	GetPlaylistLength(context.Context, string) (int, error)
	RemoveVideo(context.Context, *room.RemoveVideoParams) error
	// history
	SetHistoryEntry(context.Context, *room.SetHistoryEntryParams) error
	GetHistoryEntries(context.Context, string) ([]room.HistoryEntry, error)
	// chat
	SetMessage(context.Context, *room.SetMessageParams) error
	GetMessages(context.Context, string) ([]room.Message, error)
}

type iConnRepo interface {
	Add(*websocket.Conn, connection.Session) error
	Remove(*websocket.Conn) (connection.Session, int, error)
	GetSession(*websocket.Conn) (connection.Session, error)
	GetRoomConns(string) []*websocket.Conn
	GetOnlineParticipantIds(string) []string
	ConnCount(string) int
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	PlaylistLimit int
	RoomCodeLen   int
	// VideoData resolves metadata for a video id; nil uses the public
	// oembed lookup.
	VideoData func(videoId string) (*ytvideodata.VideoData, error)
}

type service struct {
	roomRepo      iRoomRepo
	connRepo      iConnRepo
	player        *playback.Registry
	generator     iGenerator
	videoData     func(videoId string) (*ytvideodata.VideoData, error)
	playlistLimit int
	roomCodeLen   int
	logger        *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, player *playback.Registry, cfg *Config, logger *slog.Logger) *service {
	s := service{
		roomRepo:      roomRepo,
		connRepo:      connRepo,
		player:        player,
		videoData:     cfg.VideoData,
		playlistLimit: cfg.PlaylistLimit,
		roomCodeLen:   cfg.RoomCodeLen,
		logger:        logger,
	}

	if s.videoData == nil {
		s.videoData = ytvideodata.Get
	}
	if s.roomCodeLen == 0 {
		s.roomCodeLen = 12
	}

	letterBytes := []byte("0123456789abcdef")
	s.generator = randstr.New(letterBytes)

	return &s
}
