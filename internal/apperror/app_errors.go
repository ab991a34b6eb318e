package apperror

import "errors"

var (
	// admission errors, rejected before any mutation.
	ErrAlreadyInGame   = errors.New("you are already in a game")
	ErrSessionNotFound = errors.New("game not found")
	ErrSessionFull     = errors.New("game is full")

	// legality errors, rejected inside the guarded mutation.
	ErrInvalidMove      = errors.New("invalid move")
	ErrGameIsNotStarted = errors.New("wait for another player to join before making a move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNotParticipant   = errors.New("you are not a player in this game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")

	ErrNotFound = errors.New("not found")
)
