package entity

// Player is how a participant sees itself in a session.
type Player struct {
	ID     string `json:"id"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func NewPlayer(identity string, snapshot Snapshot) *Player {
	return &Player{
		ID:     identity,
		Mark:   snapshot.Mark(identity),
		GameID: snapshot.ID,
	}
}
