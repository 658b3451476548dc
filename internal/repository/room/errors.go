package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrVideoNotFound       = errors.New("video not found")
	ErrDuplicateVideo      = errors.New("video url already in playlist")
	ErrMessageNotFound     = errors.New("message not found")
)
