package playback

import (
	"errors"
	"sync"
	"time"
)

var ErrStateNotFound = errors.New("playback state not found")

// State is the authoritative playback anchor of one room. Position is never
// ticked server-side; observers reconstruct it from the anchor pair
// (VideoTime, ClockTime) and the rate.
type State struct {
	VideoId      string  `json:"video_id"`
	VideoTime    float64 `json:"video_time"`
	ClockTime    int64   `json:"clock_time"`
	IsPlaying    bool    `json:"is_playing"`
	PlaybackRate float64 `json:"playback_rate"`
}

// Position returns the interpolated playback position at nowMillis.
func (s State) Position(nowMillis int64) float64 {
	if !s.IsPlaying {
		return s.VideoTime
	}

	return s.VideoTime + float64(nowMillis-s.ClockTime)/1000*s.PlaybackRate
}

// Registry keys transient playback state by room code. Entries are created
// lazily and live for the process lifetime; losing them must not corrupt
// the durable store.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*State
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]*State),
		now:    time.Now,
	}
}

func (r *Registry) nowMillis() int64 {
	return r.now().UnixMilli()
}

// GetOrCreate returns a snapshot of the room's state, initializing a
// paused zero-position state on first activity.
func (r *Registry) GetOrCreate(roomCode string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return *r.getOrCreateLocked(roomCode)
}

func (r *Registry) getOrCreateLocked(roomCode string) *State {
	state, ok := r.states[roomCode]
	if !ok {
		state = &State{
			ClockTime:    r.nowMillis(),
			PlaybackRate: 1,
		}
		r.states[roomCode] = state
	}

	return state
}

func (r *Registry) Snapshot(roomCode string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[roomCode]
	if !ok {
		return State{}, false
	}

	return *state, true
}

// Play re-anchors the clock at now and resumes interpolation from the
// current video time.
func (r *Registry) Play(roomCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[roomCode]
	if !ok {
		return ErrStateNotFound
	}

	state.IsPlaying = true
	state.ClockTime = r.nowMillis()

	return nil
}

func (r *Registry) Pause(roomCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[roomCode]
	if !ok {
		return ErrStateNotFound
	}

	state.IsPlaying = false

	return nil
}

type SyncParams struct {
	VideoTime    float64
	ClockTime    int64
	PlaybackRate *float64
}

// Sync overwrites the anchor with a client-supplied one. Used for seeks and
// authoritative re-anchoring; playback resumes from the new anchor.
func (r *Registry) Sync(roomCode string, params *SyncParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[roomCode]
	if !ok {
		return ErrStateNotFound
	}

	state.VideoTime = params.VideoTime
	state.ClockTime = params.ClockTime
	state.IsPlaying = true
	if params.PlaybackRate != nil {
		state.PlaybackRate = *params.PlaybackRate
	}

	return nil
}

// Heartbeat refreshes the anchor without changing the play/pause flag, so a
// late joiner's snapshot stays fresh. Never rebroadcast.
func (r *Registry) Heartbeat(roomCode string, params *SyncParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[roomCode]
	if !ok {
		return ErrStateNotFound
	}

	state.VideoTime = params.VideoTime
	state.ClockTime = params.ClockTime
	if params.PlaybackRate != nil {
		state.PlaybackRate = *params.PlaybackRate
	}

	return nil
}

func (r *Registry) SetRate(roomCode string, rate float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[roomCode]
	if !ok {
		return ErrStateNotFound
	}

	state.PlaybackRate = rate

	return nil
}

// ChangeVideo resets the anchor for a new video and starts it playing.
// It returns the outgoing video id when the transition leaves a different
// non-empty video, so the caller can persist a history entry. The state is
// lazily created, unlike the other transitions.
func (r *Registry) ChangeVideo(roomCode string, videoId string) (outgoing string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.getOrCreateLocked(roomCode)

	if state.VideoId != "" && state.VideoId != videoId {
		outgoing = state.VideoId
	}

	state.VideoId = videoId
	state.VideoTime = 0
	state.ClockTime = r.nowMillis()
	state.IsPlaying = true

	return outgoing, nil
}
