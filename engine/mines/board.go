package mines

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"termsweeper/types"
)

var (
	// ErrInvalidDimensions is returned for boards without rows or columns.
	ErrInvalidDimensions = errors.New("board dimensions must be positive")
	// ErrTooManyItems is returned when mines and treasures do not fit on the board.
	ErrTooManyItems = errors.New("mines and treasures exceed board size")
	// ErrInvalidGrid is returned for layout grids that are ragged or hold unknown values.
	ErrInvalidGrid = errors.New("invalid board layout")
)

// Layout grid values.
const (
	GridEmpty    = 0
	GridMine     = 1
	GridTreasure = 2
)

// neighbourOffsets lists the 8-neighbourhood in row-major order.
var neighbourOffsets = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// Board is a rows x cols grid of cells.
type Board struct {
	rows  int
	cols  int
	cells [][]*Cell
}

// NewBoard creates an empty board.
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	cells := make([][]*Cell, rows)
	for r := range cells {
		cells[r] = make([]*Cell, cols)
		for c := range cells[r] {
			cells[r][c] = &Cell{row: r, col: c}
		}
	}
	return &Board{rows: rows, cols: cols, cells: cells}, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// InBounds returns true if row, col lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

func (b *Board) cell(row, col int) *Cell {
	return b.cells[row][col]
}

// neighbours returns the cells around row, col, clipped at the edges.
func (b *Board) neighbours(row, col int) []*Cell {
	out := make([]*Cell, 0, 8)
	for _, d := range neighbourOffsets {
		nr, nc := row+d[0], col+d[1]
		if b.InBounds(nr, nc) {
			out = append(out, b.cells[nr][nc])
		}
	}
	return out
}

// placeRandom places mines and then treasures at distinct uniformly random
// positions. Treasures are drawn from the cells left over after the mines.
func (b *Board) placeRandom(rng *rand.Rand, mines, treasures int) error {
	total := b.rows * b.cols
	if mines < 0 || treasures < 0 || mines+treasures > total {
		return fmt.Errorf("%w: %d mines + %d treasures on %d cells", ErrTooManyItems, mines, treasures, total)
	}
	perm := rng.Perm(total)
	for _, pos := range perm[:mines] {
		b.cells[pos/b.cols][pos%b.cols].mine = true
	}
	for _, pos := range perm[mines : mines+treasures] {
		b.cells[pos/b.cols][pos%b.cols].treasure = true
	}
	b.computeAdjacency()
	return nil
}

// placeGrid places mines and treasures exactly as given.
// Returns the number of mines and treasures placed.
func (b *Board) placeGrid(grid [][]int) (mines, treasures int, err error) {
	if len(grid) != b.rows {
		return 0, 0, fmt.Errorf("%w: %d rows, want %d", ErrInvalidGrid, len(grid), b.rows)
	}
	for r, line := range grid {
		if len(line) != b.cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGrid, r, len(line), b.cols)
		}
		for c, v := range line {
			switch v {
			case GridEmpty:
			case GridMine:
				b.cells[r][c].mine = true
				mines++
			case GridTreasure:
				b.cells[r][c].treasure = true
				treasures++
			default:
				return 0, 0, fmt.Errorf("%w: value %d at (%d, %d)", ErrInvalidGrid, v, r, c)
			}
		}
	}
	b.computeAdjacency()
	return mines, treasures, nil
}

// computeAdjacency counts mine neighbours for every cell.
func (b *Board) computeAdjacency() {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			count := 0
			for _, n := range b.neighbours(r, c) {
				if n.mine {
					count++
				}
			}
			b.cells[r][c].adjacent = count
		}
	}
}

// snapshot returns a deep copy of the board.
func (b *Board) snapshot() *types.BoardSnapshot {
	cells := make([][]types.CellState, b.rows)
	for r := range cells {
		cells[r] = make([]types.CellState, b.cols)
		for c := range cells[r] {
			cells[r][c] = b.cells[r][c].state()
		}
	}
	return &types.BoardSnapshot{Rows: b.rows, Cols: b.cols, Cells: cells}
}

// String renders the board in the character-grid encoding, one row per line:
// H hidden, F flagged, M mine, T treasure, E empty, 1-8 mine count.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			sb.WriteRune(b.cells[r][c].legacyRune())
		}
	}
	return sb.String()
}

// layoutString renders the placement with everything uncovered:
// * mine, T treasure, . no mine neighbours, 1-8 mine count.
func (b *Board) layoutString() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			cell := b.cells[r][c]
			switch {
			case cell.mine:
				sb.WriteByte('*')
			case cell.treasure:
				sb.WriteByte('T')
			case cell.adjacent == 0:
				sb.WriteByte('.')
			default:
				sb.WriteByte(byte('0' + cell.adjacent))
			}
		}
	}
	return sb.String()
}
