package room

type SetRoomParams struct {
	RoomCode  string
	Name      string
	Pin       *string
	CreatedAt int64
}

type SetParticipantParams struct {
	ParticipantId string
	Pseudo        string
	RoomCode      string
}

type RemoveParticipantParams struct {
	ParticipantId string
	RoomCode      string
}

type SetVideoParams struct {
	VideoId  string
	RoomCode string
	Url      string
	Title    string
	AddedBy  string
}

type GetVideoParams struct {
	VideoId  string
	RoomCode string
}

type RemoveVideoParams struct {
	VideoId  string
	RoomCode string
}

type SetHistoryEntryParams struct {
	EntryId  string
	RoomCode string
	VideoUrl string
	ViewedAt int64
}

type SetMessageParams struct {
	MessageId     string
	RoomCode      string
	ParticipantId string
	Content       string
	SentAt        int64
}
