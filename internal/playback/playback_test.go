package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionInterpolation(t *testing.T) {
	anchor := time.Now().UnixMilli()

	state := State{
		VideoId:      "dQw4w9WgXcQ",
		VideoTime:    10,
		ClockTime:    anchor,
		IsPlaying:    true,
		PlaybackRate: 2,
	}

	assert.InDelta(t, 20.0, state.Position(anchor+5000), 1e-9)
	assert.InDelta(t, 10.0, state.Position(anchor), 1e-9)

	state.IsPlaying = false
	assert.InDelta(t, 10.0, state.Position(anchor+5000), 1e-9, "paused state must freeze position")
}

func TestTransitionsRequireState(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.Play("nosuch"), ErrStateNotFound)
	assert.ErrorIs(t, r.Pause("nosuch"), ErrStateNotFound)
	assert.ErrorIs(t, r.SetRate("nosuch", 1.5), ErrStateNotFound)
	assert.ErrorIs(t, r.Sync("nosuch", &SyncParams{}), ErrStateNotFound)
	assert.ErrorIs(t, r.Heartbeat("nosuch", &SyncParams{}), ErrStateNotFound)

	_, ok := r.Snapshot("nosuch")
	assert.False(t, ok)
}

func TestGetOrCreateDefaults(t *testing.T) {
	r := NewRegistry()

	state := r.GetOrCreate("abc123")
	assert.Empty(t, state.VideoId)
	assert.False(t, state.IsPlaying)
	assert.Zero(t, state.VideoTime)
	assert.Equal(t, 1.0, state.PlaybackRate)

	require.NoError(t, r.Play("abc123"))
	state, ok := r.Snapshot("abc123")
	require.True(t, ok)
	assert.True(t, state.IsPlaying)
}

func TestSyncOverwritesAnchor(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("abc123")

	rate := 1.5
	require.NoError(t, r.Sync("abc123", &SyncParams{
		VideoTime:    42,
		ClockTime:    1000,
		PlaybackRate: &rate,
	}))

	state, ok := r.Snapshot("abc123")
	require.True(t, ok)
	assert.Equal(t, 42.0, state.VideoTime)
	assert.Equal(t, int64(1000), state.ClockTime)
	assert.Equal(t, 1.5, state.PlaybackRate)
	assert.True(t, state.IsPlaying)
}

func TestHeartbeatKeepsPlayingFlag(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("abc123")
	require.NoError(t, r.Pause("abc123"))

	require.NoError(t, r.Heartbeat("abc123", &SyncParams{VideoTime: 7, ClockTime: 2000}))

	state, ok := r.Snapshot("abc123")
	require.True(t, ok)
	assert.False(t, state.IsPlaying, "heartbeat must not resume playback")
	assert.Equal(t, 7.0, state.VideoTime)
}

func TestChangeVideoReportsOutgoing(t *testing.T) {
	r := NewRegistry()

	// lazily initializes, no outgoing video on first change
	outgoing, err := r.ChangeVideo("abc123", "videoA")
	require.NoError(t, err)
	assert.Empty(t, outgoing)

	state, ok := r.Snapshot("abc123")
	require.True(t, ok)
	assert.Equal(t, "videoA", state.VideoId)
	assert.True(t, state.IsPlaying)
	assert.Zero(t, state.VideoTime)

	outgoing, err = r.ChangeVideo("abc123", "videoB")
	require.NoError(t, err)
	assert.Equal(t, "videoA", outgoing)

	// same video again: no outgoing, no extra history
	outgoing, err = r.ChangeVideo("abc123", "videoB")
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}
