package entity

import (
	"math/bits"
	"time"
)

// Result is one finished game, kept in the match history after the session is gone.
type Result struct {
	SessionID  string    `json:"session_id"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	Winner     string    `json:"winner"`
	WinnerID   string    `json:"winner_id,omitempty"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewResult(snapshot Snapshot, outcome Outcome, finishedAt time.Time) *Result {
	result := &Result{
		SessionID:  snapshot.ID,
		PlayerX:    snapshot.PlayerX,
		PlayerO:    snapshot.PlayerO,
		Winner:     outcome.String(),
		Moves:      bits.OnesCount16(uint16(snapshot.BoardX | snapshot.BoardO)),
		FinishedAt: finishedAt.UTC(),
	}

	if outcome.Kind == OutcomeWin {
		if outcome.Winner == SlotX {
			result.WinnerID = snapshot.PlayerX
		} else {
			result.WinnerID = snapshot.PlayerO
		}
	}

	return result
}
