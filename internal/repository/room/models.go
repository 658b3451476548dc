package room

type Room struct {
	Name      string  `redis:"name"`
	Pin       *string `redis:"pin"`
	CreatedAt int64   `redis:"created_at"`
}

type Participant struct {
	Pseudo   string `redis:"pseudo"`
	RoomCode string `redis:"room_code"`
}

type Video struct {
	Url       string `redis:"url"`
	Title     string `redis:"title"`
	AddedById string `redis:"added_by_id"`
}

type HistoryEntry struct {
	VideoUrl string `redis:"video_url"`
	ViewedAt int64  `redis:"viewed_at"`
}

type Message struct {
	// Id is the key suffix, carried alongside the hash on reads.
	Id            string `redis:"-"`
	ParticipantId string `redis:"participant_id"`
	Content       string `redis:"content"`
	SentAt        int64  `redis:"sent_at"`
}
