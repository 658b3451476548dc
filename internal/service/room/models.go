package room

import "github.com/salonsync/server/internal/playback"

type Room struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	HasPin bool   `json:"has_pin"`
}

type Participant struct {
	Id       string `json:"id"`
	Pseudo   string `json:"pseudo"`
	IsOnline bool   `json:"is_online"`
}

type PlaylistItem struct {
	Id            string `json:"id"`
	Url           string `json:"url"`
	Title         string `json:"title"`
	AddedById     string `json:"added_by_id"`
	AddedByPseudo string `json:"added_by_pseudo"`
}

type HistoryEntry struct {
	VideoUrl string `json:"video_url"`
	ViewedAt int64  `json:"viewed_at"`
}

type ChatMessage struct {
	Id            string `json:"id"`
	ParticipantId string `json:"participant_id"`
	Pseudo        string `json:"pseudo"`
	Content       string `json:"content"`
	SentAt        int64  `json:"sent_at"`
}

type RoomState struct {
	Room         Room           `json:"room"`
	Participants []Participant  `json:"participants"`
	Playlist     []PlaylistItem `json:"playlist"`
	History      []HistoryEntry `json:"history"`
	Messages     []ChatMessage  `json:"messages"`
	Player       playback.State `json:"player"`
}
