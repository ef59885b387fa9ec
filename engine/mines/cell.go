package mines

import "termsweeper/types"

// Cell is a single square of the board.
type Cell struct {
	mine     bool
	treasure bool
	flagged  bool
	revealed bool
	adjacent int // mine neighbours, fixed once the board is placed
	row      int
	col      int
}

// reveal marks the cell revealed unless it is flagged.
// Returns true if the state changed.
func (c *Cell) reveal() bool {
	if c.flagged || c.revealed {
		return false
	}
	c.revealed = true
	return true
}

// toggleFlag flips the flag unless the cell is revealed.
// Returns true if the state changed.
func (c *Cell) toggleFlag() bool {
	if c.revealed {
		return false
	}
	c.flagged = !c.flagged
	return true
}

func (c *Cell) state() types.CellState {
	return types.CellState{
		Row:      c.row,
		Col:      c.col,
		Revealed: c.revealed,
		Flagged:  c.flagged,
		Mine:     c.mine,
		Treasure: c.treasure,
		Adjacent: c.adjacent,
	}
}

// legacyRune returns the character-grid encoding of the cell.
func (c *Cell) legacyRune() rune {
	switch {
	case c.flagged:
		return 'F'
	case !c.revealed:
		return 'H'
	case c.mine:
		return 'M'
	case c.treasure:
		return 'T'
	case c.adjacent == 0:
		return 'E'
	}
	return rune('0' + c.adjacent)
}
