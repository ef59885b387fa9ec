package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned by DifficultyByName for unknown tiers.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty describes a random board tier.
type Difficulty struct {
	Name      string
	Rows      int
	Cols      int
	MinMines  int
	MaxMines  int
	Treasures int
}

var (
	Beginner     = Difficulty{Name: "beginner", Rows: 8, Cols: 8, MinMines: 1, MaxMines: 10, Treasures: 2}
	Intermediate = Difficulty{Name: "intermediate", Rows: 16, Cols: 16, MinMines: 11, MaxMines: 40, Treasures: 4}
	Expert       = Difficulty{Name: "expert", Rows: 30, Cols: 16, MinMines: 41, MaxMines: 99, Treasures: 6}
)

// Difficulties returns the tiers in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Expert}
}

// DifficultyByName looks up a tier by name (case-insensitive) or by its menu
// number ("1", "2", "3").
func DifficultyByName(name string) (Difficulty, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, d := range Difficulties() {
		if name == d.Name || name == fmt.Sprintf("%d", i+1) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// Cells returns the number of cells on a board of this tier.
func (d Difficulty) Cells() int {
	return d.Rows * d.Cols
}

// Label returns the capitalized tier name for display.
func (d Difficulty) Label() string {
	if d.Name == "" {
		return ""
	}
	return strings.ToUpper(d.Name[:1]) + d.Name[1:]
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d-%d mines, %d treasures)", d.Name, d.Rows, d.Cols, d.MinMines, d.MaxMines, d.Treasures)
}
