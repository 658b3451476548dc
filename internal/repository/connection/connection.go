package connection

import "errors"

var (
	ErrAlreadyExists = errors.New("connection already registered")
	ErrNotFound      = errors.New("connection not found")
)

// Session is the identity captured at join time. Identity-sensitive
// operations after join resolve it from the connection, never from
// client-supplied ids.
type Session struct {
	ParticipantId string
	RoomCode      string
}
