// Package engine defines the interfaces between the Minesweeper engine and its views.
package engine

import (
	"errors"
	"time"

	"termsweeper/types"
)

var (
	// ErrOutOfBounds is returned for coordinates that are not on the board.
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrNoGame is returned when a command arrives before a board was placed.
	ErrNoGame = errors.New("no game in progress")
	// ErrGameFinished is returned for moves after a win or a loss.
	ErrGameFinished = errors.New("game is over")
)

// Observer receives change notifications from a game engine.
// Payloads are copies; observers must not hold on to engine internals.
type Observer interface {
	// OnCellChanged is called after a cell is revealed or its flag toggled.
	OnCellChanged(ev types.CellEvent)

	// OnGameOver is called when the mine at row, col was revealed.
	OnGameOver(row, col int)

	// OnGameWon is called when the game is won. treasure is true for the
	// instant win from revealing a treasure cell.
	OnGameWon(treasure bool)

	// OnReset is called when the board is cleared or replaced.
	OnReset()
}

// GameEngine is the read side of a game, used by views.
type GameEngine interface {
	// AddObserver registers an observer. Observers are notified in registration order.
	AddObserver(o Observer)

	// Rows and Cols return the board dimensions, 0 when no board is placed.
	Rows() int
	Cols() int

	// Cell returns a copy of the cell at row, col.
	Cell(row, col int) types.CellState

	// Snapshot returns a deep copy of the board.
	Snapshot() *types.BoardSnapshot

	MineCount() int
	TreasureCount() int
	FlagsCount() int
	Moves() int

	// StartTime returns the time of the first reveal, and false if the clock
	// has not started.
	StartTime() (time.Time, bool)

	Status() Status

	// Difficulty returns the tier of a random game, and false for test boards.
	Difficulty() (Difficulty, bool)

	// ID identifies the current board. It changes on every initialization.
	ID() string
}

// Commands is the command surface views drive.
type Commands interface {
	// Reveal reveals the cell at row, col, flooding empty regions.
	Reveal(row, col int) (Result, error)

	// ToggleFlag flags or unflags the cell at row, col.
	ToggleFlag(row, col int) error

	// Restart starts a new game from the same source as the last one.
	Restart() error
}

// Result is the outcome of a reveal.
type Result int

const (
	// ResultNone means the game continues.
	ResultNone Result = iota
	// ResultNoOp means the target was already revealed or flagged.
	ResultNoOp
	// ResultWin means every mine is accounted for.
	ResultWin
	// ResultWinTreasure means a treasure was revealed.
	ResultWinTreasure
	// ResultLoss means a mine was revealed.
	ResultLoss
)

func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultNoOp:
		return "noop"
	case ResultWin:
		return "WIN"
	case ResultWinTreasure:
		return "WIN_TREASURE"
	case ResultLoss:
		return "LOSS"
	}
	return "unknown"
}

// Won returns true for both kinds of win.
func (r Result) Won() bool {
	return r == ResultWin || r == ResultWinTreasure
}

// Finished returns true if the result ends the game.
func (r Result) Finished() bool {
	return r.Won() || r == ResultLoss
}

// Status is the lifecycle state of a game.
type Status int

const (
	StatusIdle Status = iota // no board placed
	StatusPlaying
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "unknown"
}

// Finished returns true if the game was won or lost.
func (s Status) Finished() bool {
	return s == StatusWon || s == StatusLost
}
