package controller

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/service/room"
	"github.com/salonsync/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw)
	mux.Use(c.wsLoggerMw)

	// membership
	mux.Handle("joinRoom", c.handleJoinRoom)

	// chat
	mux.Handle("chatMessage", c.handleChatMessage)

	// playlist
	mux.Handle("playlistAdd", c.handlePlaylistAdd)
	mux.Handle("playlistRemove", c.handlePlaylistRemove)

	// player
	mux.Handle("play", c.handlePlay)
	mux.Handle("pause", c.handlePause)
	mux.Handle("syncAction", c.handleSyncAction)
	mux.Handle("changeSpeed", c.handleChangeSpeed)
	mux.Handle("videoTime", c.handleVideoTime)
	mux.Handle("changeVideo", c.handleChangeVideo)

	mux.NotFound(func(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
		return room.ErrMalformedRequest
	})

	return mux
}
