package dinkle

import "time"

type Player struct {
	ID         int64
	PsnID      string
	TelegramID *int64
}

type EventType struct {
	ID   int64
	Name string
}

// Event is a scheduled activity. Participants holds psn ids in the order
// the players joined.
type Event struct {
	ID           int64
	TypeID       int64
	Type         string
	Date         time.Time
	Comment      string
	OwnerID      int64
	Participants []string
}

// SecretGoogleSearch names the secret holding the image search API key.
const SecretGoogleSearch = "google_search"
