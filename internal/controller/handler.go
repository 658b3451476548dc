package controller

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	if err := c.wsmux.ServeConn(r.Context(), conn, c.writeError); err != nil {
		c.logger.DebugContext(r.Context(), "connection closed", "error", err)
	}

	c.disconnect(r.Context(), conn)
	c.writeLocks.Delete(conn)
}

// disconnect drains the closed connection from presence tracking and
// rebroadcasts the online-list once if membership changed.
func (c controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	disconnectResp, err := c.roomService.Disconnect(ctx, conn)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect", "error", err)
		return
	}

	if !disconnectResp.Changed {
		return
	}

	if err := c.broadcast(ctx, disconnectResp.Conns, &Output{
		Event: "participantsOnline",
		Payload: map[string]any{
			"participants": disconnectResp.Online,
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to broadcast online list", "error", err)
	}
}
