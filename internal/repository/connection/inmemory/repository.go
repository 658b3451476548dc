package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/salonsync/server/internal/repository/connection"
)

// repo tracks live websocket connections and their join-time sessions.
// A participant may hold several connections at once (multiple tabs), so
// presence is derived from connection counts, not session existence.
type repo struct {
	mu           sync.RWMutex
	sessions     map[*websocket.Conn]connection.Session
	participants map[string]map[*websocket.Conn]struct{}
	rooms        map[string]map[*websocket.Conn]struct{}
	logger       *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		sessions:     make(map[*websocket.Conn]connection.Session),
		participants: make(map[string]map[*websocket.Conn]struct{}),
		rooms:        make(map[string]map[*websocket.Conn]struct{}),
		logger:       logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, session connection.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("connection.inmemory.Add", "session", session)
	if _, ok := r.sessions[conn]; ok {
		return connection.ErrAlreadyExists
	}

	r.sessions[conn] = session

	if r.participants[session.ParticipantId] == nil {
		r.participants[session.ParticipantId] = make(map[*websocket.Conn]struct{})
	}
	r.participants[session.ParticipantId][conn] = struct{}{}

	if r.rooms[session.RoomCode] == nil {
		r.rooms[session.RoomCode] = make(map[*websocket.Conn]struct{})
	}
	r.rooms[session.RoomCode][conn] = struct{}{}

	return nil
}

// Remove detaches the connection and reports how many connections the
// participant still holds. Empty participant and room sets are evicted so a
// stale connection id can never linger.
func (r *repo) Remove(conn *websocket.Conn) (connection.Session, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[conn]
	if !ok {
		return connection.Session{}, 0, connection.ErrNotFound
	}

	delete(r.sessions, conn)

	remaining := 0
	if conns, ok := r.participants[session.ParticipantId]; ok {
		delete(conns, conn)
		remaining = len(conns)
		if remaining == 0 {
			delete(r.participants, session.ParticipantId)
		}
	}

	if conns, ok := r.rooms[session.RoomCode]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(r.rooms, session.RoomCode)
		}
	}

	r.logger.Debug("connection.inmemory.Remove", "session", session, "remaining", remaining)
	return session, remaining, nil
}

func (r *repo) GetSession(conn *websocket.Conn) (connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	return session, nil
}

func (r *repo) GetRoomConns(roomCode string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.rooms[roomCode]))
	for conn := range r.rooms[roomCode] {
		conns = append(conns, conn)
	}

	return conns
}

// GetOnlineParticipantIds returns the ids of participants holding at least
// one open connection in the room.
func (r *repo) GetOnlineParticipantIds(roomCode string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for conn := range r.rooms[roomCode] {
		session := r.sessions[conn]
		if _, ok := seen[session.ParticipantId]; ok {
			continue
		}
		seen[session.ParticipantId] = struct{}{}
		ids = append(ids, session.ParticipantId)
	}

	return ids
}

func (r *repo) ConnCount(participantId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.participants[participantId])
}
