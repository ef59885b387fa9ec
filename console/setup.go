package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"termsweeper/engine"
)

// ErrDeclined is returned by Setup when the user does not want to play the
// test board they loaded.
var ErrDeclined = errors.New("declined test board")

// Choice is what the user picked at setup: a test board grid, or a
// difficulty when Grid is nil.
type Choice struct {
	Difficulty engine.Difficulty
	Grid       [][]int
}

// Loader reads and validates a test board file.
type Loader func(path string) ([][]int, error)

// Setup asks whether to play a test board and which one, falling back to a
// difficulty prompt. Unknown difficulties start a beginner game. Pass the same
// scanner on to New so lines read ahead during setup reach the game.
func Setup(s *bufio.Scanner, out io.Writer, load Loader) (Choice, error) {
	ask := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(s.Text()), nil
	}
	yes := func(prompt string) (bool, error) {
		answer, err := ask(prompt)
		return strings.EqualFold(answer, "yes"), err
	}

	testMode, err := yes("Would you like to enter testing mode? (yes/no)\n")
	if err != nil {
		return Choice{}, err
	}
	for testMode {
		path, err := ask("Enter test board filename (CSV format):\n")
		if err != nil {
			return Choice{}, err
		}
		grid, err := load(path)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			if testMode, err = yes("Would you like to try another file? (yes/no)\n"); err != nil {
				return Choice{}, err
			}
			continue
		}
		play, err := yes("Would you like to play with this board layout? (yes/no)\n")
		if err != nil {
			return Choice{}, err
		}
		if !play {
			return Choice{}, ErrDeclined
		}
		return Choice{Grid: grid}, nil
	}

	fmt.Fprintln(out, "Select difficulty:")
	fmt.Fprintln(out, "1. Beginner\t\t2. Intermediate\t\t3. Expert")
	level, err := ask("Enter difficulty (1/2/3): ")
	if err != nil {
		return Choice{}, err
	}
	d, err := engine.DifficultyByName(level)
	if err != nil {
		fmt.Fprintln(out, "The level selected is not valid. Starting game in beginner mode.")
		d = engine.Beginner
	}
	return Choice{Difficulty: d}, nil
}
