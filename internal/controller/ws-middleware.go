package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/pkg/ctxlogger"
	"github.com/salonsync/server/pkg/wsrouter"
)

func (c controller) wsRequestIdMw(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
		return next(ctx, conn, payload)
	}
}

func (c controller) wsLoggerMw(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
		c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

		start := time.Now()

		err := next(ctx, conn, payload)

		c.logger.InfoContext(ctx, "websocket message handled",
			"processing_time_us", time.Since(start).Microseconds(),
		)

		return err
	}
}
