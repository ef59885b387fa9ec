// Package mines implements the Minesweeper game engine with the treasure variant.
package mines

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"termsweeper/engine"
	"termsweeper/types"
)

var _ engine.GameEngine = (*Engine)(nil)

// Engine owns the board and is its only mutator. It is not safe for
// concurrent use; a game is driven by a single command source.
type Engine struct {
	board         *Board
	mineCount     int
	treasureCount int
	flagsCount    int
	moves         int
	startTime     time.Time
	difficulty    engine.Difficulty
	testMode      bool
	status        engine.Status
	id            string

	observers []engine.Observer

	rng *rand.Rand
	now func() time.Time
	log logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for board placement.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock sets the clock used to stamp the first reveal.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an engine with no board placed.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		status: engine.StatusIdle,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = DiscardLogger()
	}
	return e
}

// DiscardLogger returns a logger that drops every entry.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// InitializeBoard places a random board for the given tier.
func (e *Engine) InitializeBoard(d engine.Difficulty) error {
	if d.MinMines < 0 || d.MinMines > d.MaxMines {
		return fmt.Errorf("invalid mine range %d-%d for %s", d.MinMines, d.MaxMines, d.Name)
	}
	if d.MaxMines+d.Treasures > d.Cells() {
		return fmt.Errorf("initialize %s board: %w", d.Name, ErrTooManyItems)
	}
	b, err := NewBoard(d.Rows, d.Cols)
	if err != nil {
		return fmt.Errorf("initialize %s board: %w", d.Name, err)
	}
	mines := d.MinMines + e.rng.Intn(d.MaxMines-d.MinMines+1)
	if err := b.placeRandom(e.rng, mines, d.Treasures); err != nil {
		return fmt.Errorf("initialize %s board: %w", d.Name, err)
	}
	e.difficulty = d
	e.testMode = false
	e.install(b, mines, d.Treasures)
	return nil
}

// InitializeTestBoard places a board from a layout grid (0 empty, 1 mine,
// 2 treasure). The mine count is taken from the grid. The grid is expected to
// have passed structural validation already; only its shape and values are
// checked here.
func (e *Engine) InitializeTestBoard(grid [][]int) error {
	if len(grid) == 0 {
		return fmt.Errorf("initialize test board: %w", ErrInvalidDimensions)
	}
	b, err := NewBoard(len(grid), len(grid[0]))
	if err != nil {
		return fmt.Errorf("initialize test board: %w", err)
	}
	mines, treasures, err := b.placeGrid(grid)
	if err != nil {
		return fmt.Errorf("initialize test board: %w", err)
	}
	e.difficulty = engine.Difficulty{}
	e.testMode = true
	e.install(b, mines, treasures)
	return nil
}

// install swaps in a freshly placed board and clears per-game state.
func (e *Engine) install(b *Board, mines, treasures int) {
	e.board = b
	e.mineCount = mines
	e.treasureCount = treasures
	e.flagsCount = 0
	e.moves = 0
	e.startTime = time.Time{}
	e.status = engine.StatusPlaying
	e.id = uuid.NewString()

	e.log.WithFields(logrus.Fields{
		"game":      e.id,
		"rows":      b.rows,
		"cols":      b.cols,
		"mines":     mines,
		"treasures": treasures,
		"test":      e.testMode,
	}).Info("board placed")
	e.log.WithField("game", e.id).Debugf("layout:\n%s", b.layoutString())

	e.notifyReset()
}

// RevealCell reveals a single cell. row, col must be on the board.
//
// The first call starts the clock. Already revealed or flagged cells yield
// ResultNoOp. A treasure wins immediately, a mine loses, anything else
// evaluates the win condition. Flooding empty regions is left to the caller
// (see RevealEmptyCells). Without a board it is a no-op.
func (e *Engine) RevealCell(row, col int) engine.Result {
	if e.board == nil {
		return engine.ResultNoOp
	}
	if e.startTime.IsZero() {
		e.startTime = e.now()
	}

	c := e.board.cell(row, col)
	if !c.reveal() {
		return engine.ResultNoOp
	}
	e.moves++
	e.notifyCell(types.CellRevealed, c)

	var result engine.Result
	switch {
	case c.treasure:
		result = engine.ResultWinTreasure
		e.status = engine.StatusWon
	case c.mine:
		result = engine.ResultLoss
		e.status = engine.StatusLost
	default:
		result = e.CheckWinCondition()
		if result == engine.ResultWin {
			e.status = engine.StatusWon
		}
	}

	e.log.WithFields(logrus.Fields{
		"game":   e.id,
		"row":    row,
		"col":    col,
		"result": result,
		"moves":  e.moves,
	}).Debug("reveal")

	if result.Finished() {
		e.log.WithField("game", e.id).Debugf("final board:\n%s", e.board)
	}

	switch result {
	case engine.ResultWinTreasure:
		e.notifyWon(true)
	case engine.ResultWin:
		e.notifyWon(false)
	case engine.ResultLoss:
		e.notifyGameOver(row, col)
	}
	return result
}

// RevealEmptyCells floods outward from a revealed cell without mine
// neighbours. Hidden neighbours are revealed unless flagged or holding a
// treasure; newly revealed cells without mine neighbours keep the flood going.
// Returns the revealed positions in order, and the win check made afterwards.
func (e *Engine) RevealEmptyCells(row, col int) ([]types.Pos, engine.Result) {
	if e.board == nil {
		return nil, engine.ResultNone
	}
	origin := e.board.cell(row, col)
	if origin.mine || origin.adjacent != 0 {
		return nil, engine.ResultNone
	}

	var revealed []types.Pos
	stack := []*Cell{origin}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range e.board.neighbours(cur.row, cur.col) {
			if n.revealed || n.flagged || n.treasure {
				continue
			}
			n.reveal()
			revealed = append(revealed, types.Pos{Row: n.row, Col: n.col})
			e.notifyCell(types.CellRevealed, n)
			if n.adjacent == 0 {
				stack = append(stack, n)
			}
		}
	}

	result := engine.ResultNone
	if e.status == engine.StatusPlaying {
		result = e.CheckWinCondition()
		if result == engine.ResultWin {
			e.status = engine.StatusWon
		}
	}

	e.log.WithFields(logrus.Fields{
		"game":     e.id,
		"row":      row,
		"col":      col,
		"revealed": len(revealed),
		"result":   result,
	}).Debug("flood")

	if result == engine.ResultWin {
		e.notifyWon(false)
	}
	return revealed, result
}

// ToggleFlag flags or unflags a hidden cell. Revealed cells are left alone.
// Returns true if the flag changed; always false without a board.
func (e *Engine) ToggleFlag(row, col int) bool {
	if e.board == nil {
		return false
	}
	c := e.board.cell(row, col)
	if !c.toggleFlag() {
		return false
	}
	if c.flagged {
		e.flagsCount++
	} else {
		e.flagsCount--
	}

	e.log.WithFields(logrus.Fields{
		"game":    e.id,
		"row":     row,
		"col":     col,
		"flagged": c.flagged,
		"flags":   e.flagsCount,
	}).Debug("flag")

	e.notifyCell(types.CellFlagged, c)
	return true
}

// CheckWinCondition evaluates the board without changing it.
//
// A flagged safe cell rules out a win. Otherwise the game is won when the
// hidden cells are exactly the mines, when every mine is flagged, or when
// every cell is either revealed or a mine.
func (e *Engine) CheckWinCondition() engine.Result {
	if e.board == nil {
		return engine.ResultNone
	}

	hidden := 0
	flaggedMines := 0
	for _, line := range e.board.cells {
		for _, c := range line {
			if !c.revealed {
				hidden++
			}
			if c.flagged {
				if !c.mine {
					return engine.ResultNone
				}
				flaggedMines++
			}
		}
	}
	if hidden == e.mineCount || flaggedMines == e.mineCount {
		return engine.ResultWin
	}

	for _, line := range e.board.cells {
		for _, c := range line {
			if !c.revealed && !c.mine {
				return engine.ResultNone
			}
		}
	}
	return engine.ResultWin
}

// ResetGame drops the board and clears counts and the clock. It does not
// place a new board.
func (e *Engine) ResetGame() {
	e.log.WithField("game", e.id).Info("reset")

	e.board = nil
	e.mineCount = 0
	e.treasureCount = 0
	e.flagsCount = 0
	e.moves = 0
	e.startTime = time.Time{}
	e.status = engine.StatusIdle
	e.id = ""

	e.notifyReset()
}

// AddObserver registers an observer.
func (e *Engine) AddObserver(o engine.Observer) {
	e.observers = append(e.observers, o)
}

// InBounds returns true if row, col lies on the current board.
func (e *Engine) InBounds(row, col int) bool {
	return e.board != nil && e.board.InBounds(row, col)
}

// Rows returns the number of rows, 0 without a board.
func (e *Engine) Rows() int {
	if e.board == nil {
		return 0
	}
	return e.board.rows
}

// Cols returns the number of columns, 0 without a board.
func (e *Engine) Cols() int {
	if e.board == nil {
		return 0
	}
	return e.board.cols
}

// Cell returns a copy of the cell at row, col, or the zero CellState
// without a board.
func (e *Engine) Cell(row, col int) types.CellState {
	if e.board == nil {
		return types.CellState{}
	}
	return e.board.cell(row, col).state()
}

// Snapshot returns a deep copy of the board. Without a board it is empty.
func (e *Engine) Snapshot() *types.BoardSnapshot {
	if e.board == nil {
		return &types.BoardSnapshot{}
	}
	return e.board.snapshot()
}

// MineCount returns the number of mines on the board.
func (e *Engine) MineCount() int { return e.mineCount }

// TreasureCount returns the number of treasures on the board.
func (e *Engine) TreasureCount() int { return e.treasureCount }

// FlagsCount returns the number of flags placed.
func (e *Engine) FlagsCount() int { return e.flagsCount }

// Moves returns the number of reveals that uncovered a cell.
func (e *Engine) Moves() int { return e.moves }

// Status returns the state of the current game.
func (e *Engine) Status() engine.Status { return e.status }

// StartTime returns the time of the first reveal.
func (e *Engine) StartTime() (time.Time, bool) {
	return e.startTime, !e.startTime.IsZero()
}

// Difficulty returns the tier of the current random board.
func (e *Engine) Difficulty() (engine.Difficulty, bool) {
	return e.difficulty, !e.testMode && e.difficulty.Name != ""
}

// TestMode returns true if the board came from a layout grid.
func (e *Engine) TestMode() bool {
	return e.testMode
}

// ID identifies the current board.
func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) notifyCell(kind types.EventKind, c *Cell) {
	ev := types.CellEvent{Kind: kind, Cell: c.state()}
	for _, o := range e.observers {
		o.OnCellChanged(ev)
	}
}

func (e *Engine) notifyGameOver(row, col int) {
	for _, o := range e.observers {
		o.OnGameOver(row, col)
	}
}

func (e *Engine) notifyWon(treasure bool) {
	for _, o := range e.observers {
		o.OnGameWon(treasure)
	}
}

func (e *Engine) notifyReset() {
	for _, o := range e.observers {
		o.OnReset()
	}
}
