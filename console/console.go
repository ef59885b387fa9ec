// Package console is the line-oriented text interface: it prints the board,
// reads "row col action" commands and reports the outcome of each game.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"termsweeper/engine"
	"termsweeper/types"
)

var _ engine.Observer = (*View)(nil)

// View is a text view of a game. It reads the board through state, issues
// moves through cmds and is notified of changes as an engine.Observer.
type View struct {
	state engine.GameEngine
	cmds  engine.Commands
	in    *bufio.Scanner
	out   io.Writer

	revealed int
	flagged  []types.CellState
}

// New creates a text view reading moves from in. Register it with
// state.AddObserver to get the per-move updates.
func New(state engine.GameEngine, cmds engine.Commands, in *bufio.Scanner, out io.Writer) *View {
	return &View{
		state: state,
		cmds:  cmds,
		in:    in,
		out:   out,
	}
}

// Run plays until the user quits, declines another game or input ends.
func (v *View) Run() error {
	for {
		v.printBoard()
		fmt.Fprintln(v.out, "\nEnter your move (row col action):")
		fmt.Fprintln(v.out, "Actions: r(reveal), f(flag), q(quit)")
		fmt.Fprint(v.out, "Move: ")

		line, ok := v.readLine()
		if !ok {
			fmt.Fprintln(v.out, "\nThanks for playing!")
			return v.in.Err()
		}
		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 1 && fields[0] == "q" {
			fmt.Fprintln(v.out, "Thanks for playing!")
			return nil
		}
		if len(fields) != 3 {
			fmt.Fprintln(v.out, "Invalid input. Please enter row, column, and action (r/f).")
			continue
		}
		row, errRow := strconv.Atoi(fields[0])
		col, errCol := strconv.Atoi(fields[1])
		if errRow != nil || errCol != nil {
			fmt.Fprintln(v.out, "Invalid input. Row and column must be integers.")
			continue
		}

		switch fields[2] {
		case "r":
			result, err := v.cmds.Reveal(row, col)
			if err != nil {
				v.reportError(err)
				continue
			}
			v.flushUpdates()
			if !result.Finished() {
				continue
			}
			v.printGameOver(result)
			again, err := v.askPlayAgain()
			if err != nil {
				return err
			}
			if !again {
				return nil
			}
		case "f":
			if err := v.cmds.ToggleFlag(row, col); err != nil {
				v.reportError(err)
				continue
			}
			v.flushUpdates()
		default:
			fmt.Fprintln(v.out, "Invalid action. Use 'r' or 'f'.")
		}
	}
}

func (v *View) askPlayAgain() (bool, error) {
	fmt.Fprint(v.out, "\nDo you want to play again? (yes/no): ")
	answer, _ := v.readLine()
	if strings.ToLower(answer) != "yes" {
		fmt.Fprintln(v.out, "Thanks for playing!")
		return false, nil
	}
	if err := v.cmds.Restart(); err != nil {
		return false, fmt.Errorf("restart: %w", err)
	}
	return true, nil
}

func (v *View) reportError(err error) {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds):
		fmt.Fprintln(v.out, "Invalid coordinates. Please try again.")
	default:
		fmt.Fprintf(v.out, "Cannot do that: %v\n", err)
	}
}

func (v *View) readLine() (string, bool) {
	if !v.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(v.in.Text()), true
}

// OnCellChanged collects changes; they are summarised after each move.
func (v *View) OnCellChanged(ev types.CellEvent) {
	switch ev.Kind {
	case types.CellRevealed:
		v.revealed++
	case types.CellFlagged:
		v.flagged = append(v.flagged, ev.Cell)
	}
}

func (v *View) OnGameOver(row, col int) {}

func (v *View) OnGameWon(treasure bool) {}

func (v *View) OnReset() {
	v.revealed = 0
	v.flagged = nil
	if v.state.Status() == engine.StatusPlaying {
		fmt.Fprintln(v.out, "\nStarting a new game!")
	}
}

func (v *View) flushUpdates() {
	switch {
	case v.revealed == 1:
		fmt.Fprintln(v.out, "Revealed 1 cell.")
	case v.revealed > 1:
		fmt.Fprintf(v.out, "Revealed %d cells.\n", v.revealed)
	}
	for _, c := range v.flagged {
		if c.Flagged {
			fmt.Fprintf(v.out, "Flag placed at (%d, %d).\n", c.Row, c.Col)
		} else {
			fmt.Fprintf(v.out, "Flag removed at (%d, %d).\n", c.Row, c.Col)
		}
	}
	if len(v.flagged) > 0 {
		fmt.Fprintf(v.out, "Flags Used: %d\n", v.state.FlagsCount())
	}
	v.revealed = 0
	v.flagged = nil
}

func (v *View) printBoard() {
	fmt.Fprintln(v.out, "\nMinesweeper - Text View")
	fmt.Fprintf(v.out, "Mines: %d\n", v.state.MineCount())
	fmt.Fprintf(v.out, "Flags Used: %d\n", v.state.FlagsCount())
	printGrid(v.out, v.state.Snapshot(), playRune)
}

func (v *View) printGameOver(result engine.Result) {
	fmt.Fprintln(v.out, "\nGame Over!")
	switch result {
	case engine.ResultWinTreasure:
		fmt.Fprintln(v.out, "Congratulations! You found the treasure!")
	case engine.ResultWin:
		fmt.Fprintln(v.out, "Congratulations! You won the game!")
	default:
		fmt.Fprintln(v.out, "You hit a mine!")
	}
	fmt.Fprintln(v.out, "\nRevealing final board:")
	printGrid(v.out, v.state.Snapshot(), finalRune)
}

func printGrid(w io.Writer, snap *types.BoardSnapshot, symbol func(types.CellState) string) {
	var b strings.Builder
	b.WriteString("   ")
	for c := 0; c < snap.Cols; c++ {
		fmt.Fprintf(&b, "%3d", c)
	}
	b.WriteByte('\n')
	for r := 0; r < snap.Rows; r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for c := 0; c < snap.Cols; c++ {
			fmt.Fprintf(&b, "%3s", symbol(snap.Cell(r, c)))
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(w, b.String())
}

// playRune renders a cell during play.
func playRune(c types.CellState) string {
	switch {
	case c.Flagged:
		return "F"
	case !c.Revealed:
		return "."
	case c.Mine:
		return "*"
	case c.Treasure:
		return "T"
	case c.Adjacent > 0:
		return strconv.Itoa(c.Adjacent)
	}
	return " "
}

// finalRune renders a cell once the game is over: every mine, treasure and
// number is shown, and flags on safe cells are marked wrong.
func finalRune(c types.CellState) string {
	switch {
	case c.Mine && c.Flagged:
		return "F"
	case c.Mine:
		return "*"
	case c.Flagged:
		return "X"
	case c.Treasure:
		return "T"
	case c.Adjacent > 0:
		return strconv.Itoa(c.Adjacent)
	}
	return " "
}
