package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/service/room"
)

type Output struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (c controller) generateTimeBasedId() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// connLock returns the write mutex for a connection, creating it on first
// use. gorilla/websocket forbids concurrent writes to one conn.
func (c controller) connLock(conn *websocket.Conn) *sync.Mutex {
	lock, _ := c.writeLocks.LoadOrStore(conn, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	c.logger.DebugContext(ctx, "writing message", "event", output.Event)

	lock := c.connLock(conn)
	lock.Lock()
	defer lock.Unlock()

	return conn.WriteJSON(output)
}

func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) error {
	for _, conn := range conns {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			return err
		}
	}

	return nil
}

// broadcastExcept relays to every connection in the room but the sender's.
func (c controller) broadcastExcept(ctx context.Context, conns []*websocket.Conn, sender *websocket.Conn, output *Output) error {
	for _, conn := range conns {
		if conn == sender {
			continue
		}
		if err := c.writeToConn(ctx, conn, output); err != nil {
			return err
		}
	}

	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "RoomNotFound"
	case errors.Is(err, room.ErrInvalidParticipant):
		return "InvalidParticipant"
	case errors.Is(err, room.ErrInvalidPin):
		return "InvalidPin"
	case errors.Is(err, room.ErrDuplicateItem):
		return "DuplicateItem"
	case errors.Is(err, room.ErrItemNotFound):
		return "ItemNotFound"
	case errors.Is(err, room.ErrMalformedRequest):
		return "MalformedRequest"
	case errors.Is(err, room.ErrPlaylistLimitReached):
		return "PlaylistLimitReached"
	default:
		return "InternalError"
	}
}

// writeError reports a failed event to the originating connection only.
func (c controller) writeError(ctx context.Context, conn *websocket.Conn, err error) {
	c.logger.DebugContext(ctx, "event failed", "error", err)

	if writeErr := c.writeToConn(ctx, conn, &Output{
		Event: "errorMessage",
		Payload: map[string]any{
			"error": errorCode(err),
		},
	}); writeErr != nil {
		c.logger.DebugContext(ctx, "failed to write error message", "error", writeErr)
	}
}
