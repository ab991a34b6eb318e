package entity

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
	StatusClosed   = "closed"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "Draw"

	EmptyCell = ""
)

// Slot is a participant position. SlotX belongs to the creator and moves first.
type Slot int

const (
	SlotX Slot = iota
	SlotO
)

func (that Slot) Mark() string {
	if that == SlotX {
		return PlayerX
	}
	return PlayerO
}

func (that Slot) Other() Slot {
	if that == SlotX {
		return SlotO
	}
	return SlotX
}

type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

// Outcome is the state of the game after a move.
type Outcome struct {
	Kind   OutcomeKind
	Winner Slot
}

func (that Outcome) IsTerminal() bool {
	return that.Kind != OutcomeContinue
}

// String - "X" or "O" for a win, "Draw" for a draw, empty while ongoing.
func (that Outcome) String() string {
	switch that.Kind {
	case OutcomeWin:
		return that.Winner.Mark()
	case OutcomeDraw:
		return PlayerTie
	default:
		return ""
	}
}

type Score struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Snapshot is a point-in-time copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	ID           string            `json:"id"`
	PlayerX      string            `json:"player_x,omitempty"`
	PlayerO      string            `json:"player_o,omitempty"`
	Board        [BoardSize]string `json:"board"`
	BoardX       Board             `json:"board_x"`
	BoardO       Board             `json:"board_o"`
	Turn         string            `json:"turn,omitempty"`
	Status       string            `json:"status"`
	Winner       string            `json:"winner,omitempty"`
	RematchVotes int               `json:"rematch_votes"`
	Score        Score             `json:"score"`
	Version      uint64            `json:"version"`
}

// Participants returns the occupied slots' identities, X first.
func (that Snapshot) Participants() []string {
	participants := make([]string, 0, 2)
	for _, id := range []string{that.PlayerX, that.PlayerO} {
		if id != "" {
			participants = append(participants, id)
		}
	}

	return participants
}

// Mark returns the mark the identity plays in this snapshot, or "".
func (that Snapshot) Mark(identity string) string {
	switch {
	case identity == "":
		return ""
	case identity == that.PlayerX:
		return PlayerX
	case identity == that.PlayerO:
		return PlayerO
	default:
		return ""
	}
}

type MoveResult struct {
	Snapshot Snapshot
	Outcome  Outcome
}

type RematchResult struct {
	Votes    int
	Started  bool
	Snapshot Snapshot
}

type LeaveResult struct {
	Snapshot  Snapshot
	Remaining string
}

// Session is the full state of one game. All methods are safe for concurrent use;
// mutations on a single session are serialized by its own mutex.
type Session struct {
	mu sync.Mutex

	id       string
	players  [2]string
	boards   [2]Board
	turn     Slot
	terminal bool
	outcome  Outcome
	votes    [2]bool
	wins     [2]int
	draws    int
	closed   bool
	version  uint64
}

func NewSession(id, creator string) *Session {
	return &Session{
		id:      id,
		players: [2]string{creator, ""},
		turn:    SlotX,
	}
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Join(identity string) (Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return Snapshot{}, apperror.ErrSessionNotFound
	}

	if _, ok := that.slotOf(identity); ok {
		return Snapshot{}, apperror.ErrAlreadyInGame
	}

	if that.players[SlotO] != "" {
		return Snapshot{}, fmt.Errorf("%w: game id %s", apperror.ErrSessionFull, that.id)
	}

	that.players[SlotO] = identity
	that.version++

	return that.snapshot(), nil
}

// ApplyMove validates and applies a move. A rejected move leaves the session untouched.
func (that *Session) ApplyMove(identity string, cell int) (MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return MoveResult{}, apperror.ErrSessionNotFound
	}

	if that.players[SlotX] == "" || that.players[SlotO] == "" {
		return MoveResult{}, apperror.ErrGameIsNotStarted
	}

	if that.terminal {
		return MoveResult{}, invalidMove(apperror.ErrGameFinished)
	}

	if !IsValidCell(cell) {
		return MoveResult{}, invalidMove(fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell))
	}

	slot, ok := that.slotOf(identity)
	if !ok {
		return MoveResult{}, invalidMove(apperror.ErrNotParticipant)
	}

	if slot != that.turn {
		return MoveResult{}, invalidMove(apperror.ErrNotYourTurn)
	}

	if (that.boards[SlotX] | that.boards[SlotO]).Has(cell) {
		return MoveResult{}, invalidMove(apperror.ErrCellOccupied)
	}

	that.boards[slot] = that.boards[slot].With(cell)
	that.version++

	switch {
	case IsWinning(that.boards[slot]):
		that.terminal = true
		that.outcome = Outcome{Kind: OutcomeWin, Winner: slot}
		that.wins[slot]++
	case IsDraw(that.boards[SlotX], that.boards[SlotO]):
		that.terminal = true
		that.outcome = Outcome{Kind: OutcomeDraw}
		that.draws++
	default:
		that.turn = slot.Other()
		that.outcome = Outcome{Kind: OutcomeContinue}
	}

	return MoveResult{Snapshot: that.snapshot(), Outcome: that.outcome}, nil
}

// RequestRematch records a vote. When both participants have voted the players
// swap slots, so the previous second mover opens the next game.
func (that *Session) RequestRematch(identity string) (RematchResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return RematchResult{}, apperror.ErrSessionNotFound
	}

	slot, ok := that.slotOf(identity)
	if !ok {
		return RematchResult{}, apperror.ErrNotParticipant
	}

	that.votes[slot] = true
	that.version++

	votes := that.voteCount()
	if votes < 2 {
		return RematchResult{Votes: votes, Snapshot: that.snapshot()}, nil
	}

	that.players[SlotX], that.players[SlotO] = that.players[SlotO], that.players[SlotX]
	that.wins[SlotX], that.wins[SlotO] = that.wins[SlotO], that.wins[SlotX]
	that.boards = [2]Board{}
	that.turn = SlotX
	that.terminal = false
	that.outcome = Outcome{}
	that.votes = [2]bool{}

	return RematchResult{Votes: votes, Started: true, Snapshot: that.snapshot()}, nil
}

// Leave clears the identity's slot and closes the session for both sides.
func (that *Session) Leave(identity string) (LeaveResult, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return LeaveResult{}, false
	}

	slot, ok := that.slotOf(identity)
	if !ok {
		return LeaveResult{}, false
	}

	remaining := that.players[slot.Other()]
	that.players[slot] = ""
	that.closed = true
	that.version++

	return LeaveResult{Snapshot: that.snapshot(), Remaining: remaining}, true
}

// Close marks the session as removed; later mutations report ErrSessionNotFound.
func (that *Session) Close() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		that.version++
	}

	return that.snapshot()
}

// IsOpen - exactly one participant, game not over, still registered.
func (that *Session) IsOpen() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return !that.closed && !that.terminal && that.players[SlotX] != "" && that.players[SlotO] == ""
}

func (that *Session) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Session) slotOf(identity string) (Slot, bool) {
	if identity == "" {
		return 0, false
	}

	switch identity {
	case that.players[SlotX]:
		return SlotX, true
	case that.players[SlotO]:
		return SlotO, true
	default:
		return 0, false
	}
}

func (that *Session) voteCount() int {
	count := 0
	for _, vote := range that.votes {
		if vote {
			count++
		}
	}

	return count
}

func (that *Session) status() string {
	switch {
	case that.closed:
		return StatusClosed
	case that.terminal:
		return StatusFinished
	case that.players[SlotO] == "":
		return StatusWaiting
	default:
		return StatusOngoing
	}
}

// snapshot must be called with mu held.
func (that *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:           that.id,
		PlayerX:      that.players[SlotX],
		PlayerO:      that.players[SlotO],
		Board:        Render(that.boards[SlotX], that.boards[SlotO]),
		BoardX:       that.boards[SlotX],
		BoardO:       that.boards[SlotO],
		Status:       that.status(),
		Winner:       that.outcome.String(),
		RematchVotes: that.voteCount(),
		Score: Score{
			X:     that.wins[SlotX],
			O:     that.wins[SlotO],
			Draws: that.draws,
		},
		Version: that.version,
	}

	if snap.Status == StatusOngoing {
		snap.Turn = that.turn.Mark()
	}

	return snap
}

func invalidMove(reason error) error {
	return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, reason)
}
