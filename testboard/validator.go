package testboard

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"termsweeper/types"
)

// Structural limits for test boards.
const (
	Size         = 8
	MineTotal    = 10
	MaxTreasures = 9
	firstEight   = 8
)

// Cell values in a test board grid.
const (
	Empty    = 0
	Mine     = 1
	Treasure = 2
)

// Rule names the constraint a board failed.
type Rule string

const (
	RuleShape         Rule = "shape"
	RuleValue         Rule = "value"
	RuleTreasureCount Rule = "treasure-count"
	RuleMineCount     Rule = "mine-count"
	RuleFirstEight    Rule = "first-eight"
	RuleAdjacency     Rule = "adjacency"
	RuleRemainder     Rule = "ninth-tenth"
)

// ValidationError reports why a board was rejected.
type ValidationError struct {
	Rule   Rule
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("board does not meet test criteria (%s): %s", e.Rule, e.Reason)
}

func reject(rule Rule, format string, args ...interface{}) error {
	return &ValidationError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Placement describes how the mines of a valid board were assigned.
type Placement struct {
	Mines      []types.Pos // all mines in scan order
	FirstEight []types.Pos // unique rows and columns, one on the diagonal
	Ninth      types.Pos   // orthogonally next to one of the first eight
	Tenth      types.Pos   // not touching the first eight or the ninth
	Treasures  int
}

// Validate checks an 8x8 grid of {0 empty, 1 mine, 2 treasure} against the
// test board placement rules:
//
//   - exactly 10 mines and at most 9 treasures
//   - eight mines, picked in scan order, with unique rows and columns and at
//     least one on the main diagonal
//   - none of those eight orthogonally adjacent to another
//   - of the two remaining mines, one orthogonally adjacent to the eight and
//     the other not touching the eight or the first, even diagonally
//
// The grid is not modified.
func Validate(grid [][]int) (*Placement, error) {
	if len(grid) != Size {
		return nil, reject(RuleShape, "board must be %dx%d, got %d rows", Size, Size, len(grid))
	}
	for r, line := range grid {
		if len(line) != Size {
			return nil, reject(RuleShape, "board must be %dx%d, row %d has %d columns", Size, Size, r, len(line))
		}
	}

	var mines []types.Pos
	treasures := 0
	for r, line := range grid {
		for c, v := range line {
			switch v {
			case Empty:
			case Mine:
				mines = append(mines, types.Pos{Row: r, Col: c})
			case Treasure:
				treasures++
			default:
				return nil, reject(RuleValue, "invalid value %d at (%d, %d), must be 0, 1 or 2", v, r, c)
			}
		}
	}

	if treasures > MaxTreasures {
		return nil, reject(RuleTreasureCount, "found %d treasures, must be no more than %d", treasures, MaxTreasures)
	}
	if len(mines) != MineTotal {
		return nil, reject(RuleMineCount, "board must have exactly %d mines, found %d", MineTotal, len(mines))
	}

	eight, err := selectFirstEight(mines)
	if err != nil {
		return nil, err
	}

	for i, a := range eight {
		for _, b := range eight[i+1:] {
			if orthogonal(a, b) {
				return nil, reject(RuleAdjacency, "mine (%d, %d) is adjacent to (%d, %d) by row or column", a.Row, a.Col, b.Row, b.Col)
			}
		}
	}

	ninth, tenth, ok := findNinthAndTenth(mines, eight)
	if !ok {
		return nil, reject(RuleRemainder, "unable to find a valid 9th and 10th mine combination")
	}

	return &Placement{
		Mines:      mines,
		FirstEight: eight,
		Ninth:      ninth,
		Tenth:      tenth,
		Treasures:  treasures,
	}, nil
}

// selectFirstEight picks mines in scan order whose rows and columns are not
// taken yet. If none of them is on the diagonal, the first diagonal mine not
// picked replaces the last pick.
func selectFirstEight(mines []types.Pos) ([]types.Pos, error) {
	rows := mapset.New[int]()
	cols := mapset.New[int]()
	picked := mapset.New[types.Pos]()
	eight := make([]types.Pos, 0, firstEight)
	diagonal := false

	for _, m := range mines {
		if rows.Has(m.Row) || cols.Has(m.Col) {
			continue
		}
		eight = append(eight, m)
		rows.Put(m.Row)
		cols.Put(m.Col)
		picked.Put(m)
		if m.Row == m.Col {
			diagonal = true
		}
		if len(eight) == firstEight {
			break
		}
	}

	if !diagonal && len(eight) > 0 {
		for _, m := range mines {
			if m.Row == m.Col && !picked.Has(m) {
				last := len(eight) - 1
				picked.Remove(eight[last])
				eight[last] = m
				picked.Put(m)
				diagonal = true
				break
			}
		}
	}

	if len(eight) < firstEight || !diagonal {
		return nil, reject(RuleFirstEight, "unable to select %d mines with unique rows and columns, with one on the diagonal", firstEight)
	}
	return eight, nil
}

// findNinthAndTenth searches the mines outside the first eight for a pair
// where the ninth touches the eight by row or column and the tenth touches
// neither the eight nor the ninth.
func findNinthAndTenth(mines, eight []types.Pos) (ninth, tenth types.Pos, ok bool) {
	picked := mapset.New[types.Pos]()
	for _, m := range eight {
		picked.Put(m)
	}
	var rest []types.Pos
	for _, m := range mines {
		if !picked.Has(m) {
			rest = append(rest, m)
		}
	}

	for _, n := range rest {
		if !anyMatch(eight, n, orthogonal) {
			continue
		}
		group := append(append([]types.Pos{}, eight...), n)
		for _, t := range rest {
			if t == n {
				continue
			}
			if !anyMatch(group, t, touching) {
				return n, t, true
			}
		}
	}
	return types.Pos{}, types.Pos{}, false
}

func anyMatch(group []types.Pos, p types.Pos, rel func(a, b types.Pos) bool) bool {
	for _, g := range group {
		if rel(g, p) {
			return true
		}
	}
	return false
}

// orthogonal reports whether a and b share a side.
func orthogonal(a, b types.Pos) bool {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	return (dr == 1 && dc == 0) || (dr == 0 && dc == 1)
}

// touching reports whether b lies in the 3x3 block centred on a.
func touching(a, b types.Pos) bool {
	return abs(a.Row-b.Row) <= 1 && abs(a.Col-b.Col) <= 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
