package usecase

import "github.com/rocketscienceinc/tictactoe-sessions/internal/entity"

// Event names double as the websocket actions the notifications are sent under.
type Event string

const (
	EventGameCreated        Event = "game:new"
	EventGameJoined         Event = "game:join"
	EventGameStarted        Event = "game:started"
	EventBoardUpdated       Event = "game:board"
	EventGameOver           Event = "game:over"
	EventPlayerLeft         Event = "game:left"
	EventPlayerDisconnected Event = "game:disconnected"
	EventRematchVotes       Event = "rematch:votes"
	EventRematchStarted     Event = "rematch:started"
)

// Notification is one outbound message addressed to a set of identities.
type Notification struct {
	Event      Event
	Recipients []string
	Game       entity.Snapshot

	Outcome     string
	Votes       int
	Participant string
}
