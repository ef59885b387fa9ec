// Package game drives a mines.Engine on behalf of the views.
package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"termsweeper/engine"
	"termsweeper/engine/mines"
	"termsweeper/testboard"
)

var _ engine.Commands = (*Controller)(nil)

// Controller is the command surface shared by the views. It checks
// coordinates and game state before touching the engine, floods empty
// regions after a reveal, and remembers where the current board came from so
// it can be restarted.
type Controller struct {
	eng *mines.Engine
	log logrus.FieldLogger

	started    bool
	testMode   bool
	difficulty engine.Difficulty
	grid       [][]int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController wraps eng. No board is placed until StartRandom or StartTest.
func NewController(eng *mines.Engine, opts ...Option) *Controller {
	c := &Controller{eng: eng}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = mines.DiscardLogger()
	}
	return c
}

// Engine returns the read side of the game for views.
func (c *Controller) Engine() engine.GameEngine {
	return c.eng
}

// StartRandom places a new random board of tier d.
func (c *Controller) StartRandom(d engine.Difficulty) error {
	if err := c.eng.InitializeBoard(d); err != nil {
		return err
	}
	c.started = true
	c.testMode = false
	c.difficulty = d
	c.grid = nil
	c.log.WithFields(logrus.Fields{
		"game":       c.eng.ID(),
		"difficulty": d.Name,
	}).Info("new game")
	return nil
}

// StartTest validates grid as a test board and places it. The grid is
// copied, so later changes by the caller do not affect restarts.
func (c *Controller) StartTest(grid [][]int) error {
	if _, err := testboard.Validate(grid); err != nil {
		return err
	}
	owned := make([][]int, len(grid))
	for r, line := range grid {
		owned[r] = append([]int(nil), line...)
	}
	if err := c.eng.InitializeTestBoard(owned); err != nil {
		return err
	}
	c.started = true
	c.testMode = true
	c.difficulty = engine.Difficulty{}
	c.grid = owned
	c.log.WithField("game", c.eng.ID()).Info("new test game")
	return nil
}

// Reveal reveals row, col. If the cell had no mine neighbours, the empty
// region around it is flooded and the result of the flood is returned.
func (c *Controller) Reveal(row, col int) (engine.Result, error) {
	if err := c.check(row, col); err != nil {
		return engine.ResultNoOp, err
	}
	result := c.eng.RevealCell(row, col)
	if result == engine.ResultNone && c.eng.Cell(row, col).Empty() {
		_, result = c.eng.RevealEmptyCells(row, col)
	}
	if result.Finished() {
		c.log.WithFields(logrus.Fields{
			"game":   c.eng.ID(),
			"result": result,
			"moves":  c.eng.Moves(),
		}).Info("game over")
	}
	return result, nil
}

// ToggleFlag flags or unflags row, col. Toggling a revealed cell is a no-op.
func (c *Controller) ToggleFlag(row, col int) error {
	if err := c.check(row, col); err != nil {
		return err
	}
	c.eng.ToggleFlag(row, col)
	return nil
}

// Restart clears the board and places a new one from the same source: a
// fresh random board of the same tier, or the same test grid.
func (c *Controller) Restart() error {
	if !c.started {
		return engine.ErrNoGame
	}
	c.eng.ResetGame()
	if c.testMode {
		if err := c.eng.InitializeTestBoard(c.grid); err != nil {
			return fmt.Errorf("restart: %w", err)
		}
	} else if err := c.eng.InitializeBoard(c.difficulty); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	c.log.WithField("game", c.eng.ID()).Info("restart")
	return nil
}

// TestMode returns true if the current source is a test board.
func (c *Controller) TestMode() bool {
	return c.testMode
}

func (c *Controller) check(row, col int) error {
	switch {
	case c.eng.Status() == engine.StatusIdle:
		return engine.ErrNoGame
	case !c.eng.InBounds(row, col):
		return fmt.Errorf("%w: (%d, %d) on a %dx%d board", engine.ErrOutOfBounds, row, col, c.eng.Rows(), c.eng.Cols())
	case c.eng.Status().Finished():
		return engine.ErrGameFinished
	}
	return nil
}
