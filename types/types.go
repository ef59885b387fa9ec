// Package types contains shared data structures for termsweeper.
package types

// Pos represents a position on the board.
type Pos struct {
	Row int
	Col int
}

// CellState is a read-only copy of a single cell.
type CellState struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
	Mine     bool `json:"mine"`
	Treasure bool `json:"treasure"`
	Adjacent int  `json:"adjacent"` // mine neighbours, 0-8
}

// Pos returns the cell position.
func (c CellState) Pos() Pos {
	return Pos{Row: c.Row, Col: c.Col}
}

// Empty returns true if the cell is safe and has no mine neighbours.
func (c CellState) Empty() bool {
	return !c.Mine && !c.Treasure && c.Adjacent == 0
}

// BoardSnapshot is a deep copy of the board at one point in time.
// Cells is indexed as Cells[row][col].
type BoardSnapshot struct {
	Rows  int           `json:"rows"`
	Cols  int           `json:"cols"`
	Cells [][]CellState `json:"cells"`
}

// Cell returns the cell at row, col.
func (b *BoardSnapshot) Cell(row, col int) CellState {
	return b.Cells[row][col]
}

// InBounds returns true if row, col lies on the board.
func (b *BoardSnapshot) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

// EventKind identifies what changed on a cell.
type EventKind int

const (
	CellRevealed EventKind = iota
	CellFlagged
)

func (k EventKind) String() string {
	switch k {
	case CellRevealed:
		return "revealed"
	case CellFlagged:
		return "flagged"
	}
	return "unknown"
}

// CellEvent is the payload of a cell change notification.
// For CellFlagged, Cell.Flagged holds the new flag state.
type CellEvent struct {
	Kind EventKind
	Cell CellState
}
