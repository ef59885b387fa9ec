package console

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"termsweeper/engine"
	"termsweeper/engine/mines"
	"termsweeper/game"
	"termsweeper/types"
)

// board has mines at (0,0) (0,1) (0,5) (1,2) (2,4) (3,6) (4,1) (5,3) (6,5)
// (7,7) and treasures at (2,7) and (7,0).
var board = [][]int{
	{1, 1, 0, 0, 0, 1, 0, 0},
	{0, 0, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 2},
	{0, 0, 0, 0, 0, 0, 1, 0},
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 0, 0},
	{2, 0, 0, 0, 0, 0, 0, 1},
}

func play(t *testing.T, script string) (string, *game.Controller) {
	t.Helper()
	ctl := game.NewController(mines.NewEngine(mines.WithRand(rand.New(rand.NewSource(3)))))
	if err := ctl.StartTest(board); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	var out bytes.Buffer
	v := New(ctl.Engine(), ctl, bufio.NewScanner(strings.NewReader(script)), &out)
	ctl.Engine().AddObserver(v)
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), ctl
}

func TestRunScripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "quit",
			script: "q\n",
			want:   []string{"Mines: 10", "Flags Used: 0", "Thanks for playing!"},
		},
		{
			name:   "treasure",
			script: "2 7 r\nno\n",
			want:   []string{"Revealed 1 cell.", "Game Over!", "You found the treasure!", "Revealing final board:", "Thanks for playing!"},
		},
		{
			name:   "mine",
			script: "0 0 r\nno\n",
			want:   []string{"You hit a mine!", "Thanks for playing!"},
		},
		{
			name:   "flood",
			script: "7 2 r\nq\n",
			want:   []string{"cells."},
		},
		{
			name:   "flag",
			script: "4 4 f\n4 4 f\nq\n",
			want:   []string{"Flag placed at (4, 4).", "Flags Used: 1", "Flag removed at (4, 4)."},
		},
		{
			name:   "bad input",
			script: "hello\n1 x r\n1 1 z\n9 9 r\nq\n",
			want: []string{
				"Invalid input. Please enter row, column, and action",
				"Row and column must be integers.",
				"Invalid action.",
				"Invalid coordinates.",
			},
		},
		{
			name:   "end of input",
			script: "",
			want:   []string{"Thanks for playing!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := play(t, tt.script)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRunPlayAgain(t *testing.T) {
	out, ctl := play(t, "0 0 r\nyes\nq\n")
	if !strings.Contains(out, "Starting a new game!") {
		t.Errorf("output missing restart message:\n%s", out)
	}
	if got := ctl.Engine().Status(); got != engine.StatusPlaying {
		t.Errorf("Status = %s, want playing", got)
	}
}

func TestFinalBoardMarksWrongFlags(t *testing.T) {
	out, _ := play(t, "3 3 f\n0 1 f\n0 0 r\nno\n")
	final := out[strings.Index(out, "Revealing final board:"):]
	lines := strings.Split(final, "\n")
	// lines[1] is the column header, lines[2] is row 0, lines[5] is row 3.
	if row0 := lines[2]; !strings.HasPrefix(row0, " 0   *  F") {
		t.Errorf("row 0 = %q, want mine then flagged mine", row0)
	}
	if row3 := lines[5]; !strings.Contains(row3, "X") {
		t.Errorf("row 3 = %q, want wrong flag", row3)
	}
}

func TestCellSymbols(t *testing.T) {
	tests := []struct {
		name      string
		cell      types.CellState
		play, end string
	}{
		{"hidden", types.CellState{Adjacent: 2}, ".", "2"},
		{"flagged safe", types.CellState{Flagged: true, Adjacent: 1}, "F", "X"},
		{"flagged mine", types.CellState{Flagged: true, Mine: true}, "F", "F"},
		{"hidden mine", types.CellState{Mine: true}, ".", "*"},
		{"revealed mine", types.CellState{Revealed: true, Mine: true}, "*", "*"},
		{"treasure", types.CellState{Revealed: true, Treasure: true}, "T", "T"},
		{"number", types.CellState{Revealed: true, Adjacent: 3}, "3", "3"},
		{"empty", types.CellState{Revealed: true}, " ", " "},
	}
	for _, tt := range tests {
		if got := playRune(tt.cell); got != tt.play {
			t.Errorf("%s: playRune = %q, want %q", tt.name, got, tt.play)
		}
		if got := finalRune(tt.cell); got != tt.end {
			t.Errorf("%s: finalRune = %q, want %q", tt.name, got, tt.end)
		}
	}
}

func TestSetup(t *testing.T) {
	loader := func(path string) ([][]int, error) {
		if path == "good.csv" {
			return board, nil
		}
		return nil, errors.New("no such board")
	}

	tests := []struct {
		name     string
		script   string
		wantGrid bool
		wantDiff engine.Difficulty
		wantErr  error
		wantOut  string
	}{
		{name: "difficulty", script: "no\n2\n", wantDiff: engine.Intermediate},
		{name: "difficulty by name", script: "no\nexpert\n", wantDiff: engine.Expert},
		{name: "bad difficulty", script: "no\n7\n", wantDiff: engine.Beginner, wantOut: "Starting game in beginner mode."},
		{name: "test board", script: "yes\ngood.csv\nyes\n", wantGrid: true},
		{name: "retry file", script: "yes\nbad.csv\nyes\ngood.csv\nyes\n", wantGrid: true, wantOut: "no such board"},
		{name: "give up on files", script: "yes\nbad.csv\nno\n3\n", wantDiff: engine.Expert},
		{name: "decline board", script: "yes\ngood.csv\nno\n", wantErr: ErrDeclined},
		{name: "input ends", script: "no\n", wantErr: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			choice, err := Setup(bufio.NewScanner(strings.NewReader(tt.script)), &out, loader)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Setup: %v", err)
			}
			if tt.wantGrid != (choice.Grid != nil) {
				t.Errorf("Grid = %v, want grid %v", choice.Grid, tt.wantGrid)
			}
			if !tt.wantGrid && choice.Difficulty != tt.wantDiff {
				t.Errorf("Difficulty = %v, want %v", choice.Difficulty, tt.wantDiff)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out.String())
			}
		})
	}
}

func TestSetupThenRunShareInput(t *testing.T) {
	in := bufio.NewScanner(strings.NewReader("yes\ngood.csv\nyes\n7 0 r\nno\n"))
	var out bytes.Buffer
	choice, err := Setup(in, &out, func(string) ([][]int, error) { return board, nil })
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	ctl := game.NewController(mines.NewEngine())
	if err := ctl.StartTest(choice.Grid); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	v := New(ctl.Engine(), ctl, in, &out)
	ctl.Engine().AddObserver(v)
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := ctl.Engine().Moves(); got != 1 {
		t.Errorf("Moves() = %d, want 1", got)
	}
	if !strings.Contains(out.String(), "Congratulations! You found the treasure!") {
		t.Errorf("move after setup was not played:\n%s", out.String())
	}
}
