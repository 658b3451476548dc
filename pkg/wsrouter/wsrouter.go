package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware
	notFound    HandlerFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *WSRouter) Handle(event string, handler HandlerFunc) {
	r.routes[event] = handler
}

// NotFound sets the handler invoked for unknown event names.
func (r *WSRouter) NotFound(handler HandlerFunc) {
	r.notFound = handler
}

func (r *WSRouter) wrap(handler HandlerFunc) HandlerFunc {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return handler
}

// ServeConn reads messages from the connection until it closes and routes
// each one to the registered handler. The read error that ended the loop is
// returned; handler errors do not stop the loop.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn, onError func(ctx context.Context, conn *websocket.Conn, err error)) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Event)

		handler, exists := r.routes[msg.Event]
		if !exists {
			if r.notFound == nil {
				continue
			}
			handler = r.notFound
		}

		if err := r.wrap(handler)(msgCtx, conn, msg.Payload); err != nil && onError != nil {
			onError(msgCtx, conn, err)
		}
	}
}
