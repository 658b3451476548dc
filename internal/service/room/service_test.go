package room

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/salonsync/server/internal/playback"
	"github.com/salonsync/server/internal/repository/connection/inmemory"
	roomredis "github.com/salonsync/server/internal/repository/room/redis"
	"github.com/salonsync/server/pkg/ytvideodata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	t.Cleanup(func() { rc.Close() })

	roomRepo := roomredis.NewRepo(rc, slog.Default())
	connRepo := inmemory.NewRepo(slog.Default())
	player := playback.NewRegistry()

	return NewService(roomRepo, connRepo, player, &Config{
		PlaylistLimit: 25,
		RoomCodeLen:   12,
		VideoData: func(videoId string) (*ytvideodata.VideoData, error) {
			return &ytvideodata.VideoData{Title: "title of " + videoId}, nil
		},
	}, slog.Default())
}

func createTestRoom(t *testing.T, svc *service) CreateRoomResponse {
	t.Helper()

	resp, err := svc.CreateRoom(context.Background(), &CreateRoomParams{
		Name:   "movie night",
		Pseudo: "alice",
	})
	require.NoError(t, err)
	require.Len(t, resp.Room.Code, 12)

	return resp
}

func TestCreateAndJoinRoom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)
	assert.Equal(t, "movie night", created.Room.Name)
	assert.False(t, created.Room.HasPin)
	assert.Equal(t, "alice", created.Creator.Pseudo)
	assert.NotEmpty(t, created.Creator.Id)

	joined, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, created.Room.Code, joined.Room.Code)
	assert.NotEqual(t, created.Creator.Id, joined.Participant.Id)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: "000000000000",
		Pseudo:   "mallory",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomPin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pin := "4242"
	created, err := svc.CreateRoom(ctx, &CreateRoomParams{
		Name:   "private",
		Pseudo: "alice",
		Pin:    &pin,
	})
	require.NoError(t, err)
	assert.True(t, created.Room.HasPin)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
	})
	assert.ErrorIs(t, err, ErrInvalidPin)

	wrong := "1234"
	_, err = svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
		Pin:      &wrong,
	})
	assert.ErrorIs(t, err, ErrInvalidPin)

	_, err = svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
		Pin:      &pin,
	})
	require.NoError(t, err)
}

func TestOnlineListConvergence(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)
	joined, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
	})
	require.NoError(t, err)

	aliceConn := &websocket.Conn{}
	bobTab1 := &websocket.Conn{}
	bobTab2 := &websocket.Conn{}

	connectResp, err := svc.ConnectParticipant(ctx, &ConnectParticipantParams{
		Conn:          aliceConn,
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
	})
	require.NoError(t, err)
	require.Len(t, connectResp.Online, 1)
	assert.Equal(t, "alice", connectResp.Online[0].Pseudo)

	for _, conn := range []*websocket.Conn{bobTab1, bobTab2} {
		connectResp, err = svc.ConnectParticipant(ctx, &ConnectParticipantParams{
			Conn:          conn,
			RoomCode:      created.Room.Code,
			ParticipantId: joined.Participant.Id,
		})
		require.NoError(t, err)
	}
	require.Len(t, connectResp.Online, 2)
	assert.Len(t, connectResp.Conns, 3)

	// first tab closing does not take bob offline
	disconnectResp, err := svc.Disconnect(ctx, bobTab1)
	require.NoError(t, err)
	assert.False(t, disconnectResp.Changed)

	disconnectResp, err = svc.Disconnect(ctx, bobTab2)
	require.NoError(t, err)
	assert.True(t, disconnectResp.Changed)
	require.Len(t, disconnectResp.Online, 1)
	assert.Equal(t, "alice", disconnectResp.Online[0].Pseudo)
	assert.Len(t, disconnectResp.Conns, 1)

	// a conn that never joined is a no-op
	disconnectResp, err = svc.Disconnect(ctx, &websocket.Conn{})
	require.NoError(t, err)
	assert.False(t, disconnectResp.Changed)
}

func TestAddVideoDeduplication(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	addResp, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.Equal(t, "title of dQw4w9WgXcQ", addResp.AddedVideo.Title)

	_, err = svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/dQw4w9WgXcQ",
	})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	playlist, err := svc.GetPlaylist(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Len(t, playlist, 1)

	// same url is fine in another room
	other := createTestRoom(t, svc)
	_, err = svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      other.Room.Code,
		ParticipantId: other.Creator.Id,
		Url:           "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
}

func TestAddVideoAutoplayOnFirstAddOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	first, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://www.youtube.com/watch?v=aaaaaaaaaaa",
	})
	require.NoError(t, err)
	require.NotNil(t, first.Autoplay)
	assert.Equal(t, "aaaaaaaaaaa", first.Autoplay.VideoId)
	assert.True(t, first.Autoplay.Player.IsPlaying)

	second, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://www.youtube.com/watch?v=bbbbbbbbbbb",
	})
	require.NoError(t, err)
	assert.Nil(t, second.Autoplay)
}

func TestRemoveVideo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)
	other := createTestRoom(t, svc)

	addResp, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/ccccccccccc",
	})
	require.NoError(t, err)

	// the item does not belong to the other room
	_, err = svc.RemoveVideo(ctx, &RemoveVideoParams{
		RoomCode: other.Room.Code,
		VideoId:  addResp.AddedVideo.Id,
	})
	assert.ErrorIs(t, err, ErrItemNotFound)

	playlist, err := svc.GetPlaylist(ctx, created.Room.Code)
	require.NoError(t, err)
	require.Len(t, playlist, 1)

	removeResp, err := svc.RemoveVideo(ctx, &RemoveVideoParams{
		RoomCode: created.Room.Code,
		VideoId:  addResp.AddedVideo.Id,
	})
	require.NoError(t, err)
	assert.Equal(t, addResp.AddedVideo.Id, removeResp.RemovedVideoId)

	playlist, err = svc.GetPlaylist(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Empty(t, playlist)

	// removed url can be added again
	_, err = svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/ccccccccccc",
	})
	require.NoError(t, err)
}

func TestPlaylistInsertionOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	urls := []string{
		"https://youtu.be/11111111111",
		"https://youtu.be/22222222222",
		"https://youtu.be/33333333333",
	}
	for _, url := range urls {
		_, err := svc.AddVideo(ctx, &AddVideoParams{
			RoomCode:      created.Room.Code,
			ParticipantId: created.Creator.Id,
			Url:           url,
		})
		require.NoError(t, err)
	}

	playlist, err := svc.GetPlaylist(ctx, created.Room.Code)
	require.NoError(t, err)
	require.Len(t, playlist, 3)
	for i, item := range playlist {
		assert.Equal(t, urls[i], item.Url)
		assert.Equal(t, "alice", item.AddedByPseudo)
	}
}

func TestChangeVideoHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	// first video: nothing outgoing, no history
	_, err := svc.ChangeVideo(ctx, &ChangeVideoParams{
		RoomCode: created.Room.Code,
		VideoId:  "aaaaaaaaaaa",
	})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Empty(t, history)

	changeResp, err := svc.ChangeVideo(ctx, &ChangeVideoParams{
		RoomCode: created.Room.Code,
		VideoId:  "bbbbbbbbbbb",
	})
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbbbbb", changeResp.Player.VideoId)
	assert.True(t, changeResp.Player.IsPlaying)

	history, err = svc.GetHistory(ctx, created.Room.Code)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "aaaaaaaaaaa", history[0].VideoUrl)

	// re-selecting the current video records nothing
	_, err = svc.ChangeVideo(ctx, &ChangeVideoParams{
		RoomCode: created.Room.Code,
		VideoId:  "bbbbbbbbbbb",
	})
	require.NoError(t, err)

	history, err = svc.GetHistory(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChangeVideoHistoryRecordsSourceUrl(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	// autoplay of the first add makes it the playing video
	_, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/aaaaaaaaaaa",
	})
	require.NoError(t, err)

	_, err = svc.ChangeVideo(ctx, &ChangeVideoParams{
		RoomCode: created.Room.Code,
		VideoId:  "bbbbbbbbbbb",
	})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, created.Room.Code)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "https://youtu.be/aaaaaaaaaaa", history[0].VideoUrl)
}

func TestLeaveRoomRefreshesOnlineList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)
	bob, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
	})
	require.NoError(t, err)

	for _, participantId := range []string{created.Creator.Id, bob.Participant.Id} {
		_, err := svc.ConnectParticipant(ctx, &ConnectParticipantParams{
			Conn:          &websocket.Conn{},
			RoomCode:      created.Room.Code,
			ParticipantId: participantId,
		})
		require.NoError(t, err)
	}

	// bob leaves while his connection is still open; without a durable
	// record he drops from both lists
	leaveResp, err := svc.LeaveRoom(ctx, &LeaveRoomParams{
		RoomCode:      created.Room.Code,
		ParticipantId: bob.Participant.Id,
	})
	require.NoError(t, err)
	require.Len(t, leaveResp.Participants, 1)
	assert.Equal(t, "alice", leaveResp.Participants[0].Pseudo)
	require.Len(t, leaveResp.Online, 1)
	assert.Equal(t, "alice", leaveResp.Online[0].Pseudo)
	assert.Len(t, leaveResp.Conns, 2)
}

func TestLateJoinerPlaylistSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	urls := []string{
		"https://youtu.be/11111111111",
		"https://youtu.be/22222222222",
		"https://youtu.be/33333333333",
	}
	for _, url := range urls {
		_, err := svc.AddVideo(ctx, &AddVideoParams{
			RoomCode:      created.Room.Code,
			ParticipantId: created.Creator.Id,
			Url:           url,
		})
		require.NoError(t, err)
	}

	bob, err := svc.JoinRoom(ctx, &JoinRoomParams{
		RoomCode: created.Room.Code,
		Pseudo:   "bob",
	})
	require.NoError(t, err)

	connectResp, err := svc.ConnectParticipant(ctx, &ConnectParticipantParams{
		Conn:          &websocket.Conn{},
		RoomCode:      created.Room.Code,
		ParticipantId: bob.Participant.Id,
	})
	require.NoError(t, err)

	require.Len(t, connectResp.Playlist, 3)
	for i, item := range connectResp.Playlist {
		assert.Equal(t, urls[i], item.Url)
	}
	assert.Equal(t, "11111111111", connectResp.Player.VideoId)
}

func TestChatMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	sendResp, err := svc.SendMessage(ctx, &SendMessageParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Content:       "bonjour",
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", sendResp.Message.Content)
	assert.Equal(t, "alice", sendResp.Message.Pseudo)

	_, err = svc.SendMessage(ctx, &SendMessageParams{
		RoomCode:      created.Room.Code,
		ParticipantId: "not-a-participant",
		Content:       "spam",
	})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	state, err := svc.GetRoomState(ctx, created.Room.Code)
	require.NoError(t, err)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "bonjour", state.Messages[0].Content)
}

func TestParticipantScopedToRoom(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)
	other := createTestRoom(t, svc)

	// creator of one room cannot act in another
	_, err := svc.SendMessage(ctx, &SendMessageParams{
		RoomCode:      other.Room.Code,
		ParticipantId: created.Creator.Id,
		Content:       "hi",
	})
	assert.ErrorIs(t, err, ErrInvalidParticipant)

	_, err = svc.ConnectParticipant(ctx, &ConnectParticipantParams{
		Conn:          &websocket.Conn{},
		RoomCode:      other.Room.Code,
		ParticipantId: created.Creator.Id,
	})
	assert.ErrorIs(t, err, ErrInvalidParticipant)
}

func TestDeleteRoomCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	_, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/ddddddddddd",
	})
	require.NoError(t, err)

	conn := &websocket.Conn{}
	_, err = svc.ConnectParticipant(ctx, &ConnectParticipantParams{
		Conn:          conn,
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
	})
	require.NoError(t, err)

	deleteResp, err := svc.DeleteRoom(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Len(t, deleteResp.Conns, 1)

	_, err = svc.GetRoom(ctx, created.Room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = svc.DeleteRoom(ctx, created.Room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRoomStateSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestRoom(t, svc)

	_, err := svc.AddVideo(ctx, &AddVideoParams{
		RoomCode:      created.Room.Code,
		ParticipantId: created.Creator.Id,
		Url:           "https://youtu.be/eeeeeeeeeee",
	})
	require.NoError(t, err)

	state, err := svc.GetRoomState(ctx, created.Room.Code)
	require.NoError(t, err)
	assert.Equal(t, created.Room.Code, state.Room.Code)
	assert.Len(t, state.Participants, 1)
	assert.Len(t, state.Playlist, 1)
	assert.Equal(t, "eeeeeeeeeee", state.Player.VideoId)
}
