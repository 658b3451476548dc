package inmemory

import (
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/repository/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipleConnsPerParticipant(t *testing.T) {
	r := NewRepo(slog.Default())

	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}
	session := connection.Session{ParticipantId: "p1", RoomCode: "abc123"}

	require.NoError(t, r.Add(conn1, session))
	require.NoError(t, r.Add(conn2, session))
	assert.ErrorIs(t, r.Add(conn1, session), connection.ErrAlreadyExists)

	assert.Equal(t, 2, r.ConnCount("p1"))
	assert.Len(t, r.GetRoomConns("abc123"), 2)
	assert.Equal(t, []string{"p1"}, r.GetOnlineParticipantIds("abc123"))

	// closing one tab keeps the participant online
	_, remaining, err := r.Remove(conn1)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, []string{"p1"}, r.GetOnlineParticipantIds("abc123"))

	got, remaining, err := r.Remove(conn2)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, session, got)
	assert.Empty(t, r.GetOnlineParticipantIds("abc123"))
	assert.Empty(t, r.GetRoomConns("abc123"))
}

func TestRemoveUnknownConn(t *testing.T) {
	r := NewRepo(slog.Default())

	_, _, err := r.Remove(&websocket.Conn{})
	assert.ErrorIs(t, err, connection.ErrNotFound)

	_, err = r.GetSession(&websocket.Conn{})
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
