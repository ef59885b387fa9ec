package ui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termsweeper/config"
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

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctl   *game.Controller
	field *Minefield
	panel *InfoPanel
	ended []string
	quit  bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	eng := mines.NewEngine(
		mines.WithRand(rand.New(rand.NewSource(5))),
		mines.WithClock(func() time.Time { return t0 }),
	)
	ctl := game.NewController(eng)
	cfg := config.DefaultConfig

	f := &fixture{ctl: ctl}
	f.field = NewMinefield(nil, &cfg, ctl.Engine(), ctl, tview.NewTextView())
	f.field.SetGameEndFunc(func(msg string) { f.ended = append(f.ended, msg) })
	f.field.SetQuitFunc(func() { f.quit = true })
	f.panel = NewInfoPanel(ctl.Engine())
	eng.AddObserver(f.field)
	eng.AddObserver(f.panel)

	if err := ctl.StartTest(board); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	return f
}

func (f *fixture) keys(t *testing.T, keys ...interface{}) {
	t.Helper()
	for _, k := range keys {
		var ev *tcell.EventKey
		switch k := k.(type) {
		case rune:
			ev = tcell.NewEventKey(tcell.KeyRune, k, tcell.ModNone)
		case tcell.Key:
			ev = tcell.NewEventKey(k, 0, tcell.ModNone)
		default:
			t.Fatalf("bad key %v", k)
		}
		if rest := f.field.HandleKey(ev); rest != nil {
			t.Fatalf("key %v not handled", k)
		}
	}
}

func render(t *testing.T, f *Minefield) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	screen.SetSize(40, 12)
	f.Box.SetRect(0, 0, 40, 12)
	f.Box.Draw(screen)
	return screen
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

// cellX and cellY map a board position to the screen.
func cellX(col int) int { return 4 + col*2 }
func cellY(row int) int { return 1 + row }

func TestMinefieldDraw(t *testing.T) {
	f := newFixture(t)
	sym := config.DefaultConfig.Theme.Symbols
	screen := render(t, f.field)

	if got := runeAt(screen, cellX(0), 0); got != 'A' {
		t.Errorf("first column label = %q, want 'A'", got)
	}
	if got := runeAt(screen, cellX(7), 0); got != 'H' {
		t.Errorf("last column label = %q, want 'H'", got)
	}
	if got := runeAt(screen, 2, cellY(0)); got != '1' {
		t.Errorf("first row label = %q, want '1'", got)
	}
	if got := runeAt(screen, 2, cellY(7)); got != '8' {
		t.Errorf("last row label = %q, want '8'", got)
	}
	for _, p := range []types.Pos{{Row: 0, Col: 0}, {Row: 3, Col: 3}, {Row: 7, Col: 0}} {
		if got := runeAt(screen, cellX(p.Col), cellY(p.Row)); got != sym.Hidden {
			t.Errorf("cell %v = %q, want hidden %q", p, got, sym.Hidden)
		}
	}
}

func TestMinefieldRevealWithKeys(t *testing.T) {
	f := newFixture(t)
	if sel := f.field.SelectedTile(); sel == nil || *sel != (types.Pos{Row: 4, Col: 4}) {
		t.Fatalf("cursor = %v, want centre (4,4)", sel)
	}

	f.keys(t, tcell.KeyEnter)
	if !f.ctl.Engine().Cell(4, 4).Revealed {
		t.Fatal("(4,4) not revealed")
	}
	screen := render(t, f.field)
	if got := runeAt(screen, cellX(4), cellY(4)); got != '1' {
		t.Errorf("(4,4) drawn as %q, want '1'", got)
	}

	f.keys(t, 'j', 'f')
	if !f.ctl.Engine().Cell(5, 4).Flagged {
		t.Error("(5,4) not flagged")
	}
	screen = render(t, f.field)
	if got := runeAt(screen, cellX(4), cellY(5)); got != config.DefaultConfig.Theme.Symbols.Flag {
		t.Errorf("(5,4) drawn as %q, want flag", got)
	}
	if len(f.ended) != 0 {
		t.Errorf("game ended early: %v", f.ended)
	}
}

func TestMinefieldSelectionStaysOnBoard(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.keys(t, tcell.KeyUp, tcell.KeyLeft)
	}
	if sel := f.field.SelectedTile(); *sel != (types.Pos{Row: 0, Col: 0}) {
		t.Errorf("cursor = %v, want (0,0)", sel)
	}
	for i := 0; i < 10; i++ {
		f.keys(t, tcell.KeyDown, tcell.KeyRight)
	}
	if sel := f.field.SelectedTile(); *sel != (types.Pos{Row: 7, Col: 7}) {
		t.Errorf("cursor = %v, want (7,7)", sel)
	}
}

func TestMinefieldGameEnd(t *testing.T) {
	tests := []struct {
		name string
		keys []interface{}
		want string
	}{
		// From the centre (4,4): up two, right three to the treasure at (2,7).
		{"treasure", []interface{}{'k', 'k', 'l', 'l', 'l', ' '}, MsgTreasureWin},
		// Left three to the mine at (4,1).
		{"mine", []interface{}{'h', 'h', 'h', tcell.KeyEnter}, MsgLoss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.keys(t, tt.keys...)
			if len(f.ended) != 1 || f.ended[0] != tt.want {
				t.Fatalf("game end messages = %v, want [%q]", f.ended, tt.want)
			}
			if f.field.Outcome() != tt.want {
				t.Errorf("Outcome() = %q, want %q", f.field.Outcome(), tt.want)
			}
			if !strings.Contains(f.panel.Box().GetText(true), tt.want) {
				t.Errorf("info panel missing %q", tt.want)
			}

			f.keys(t, 'r')
			if f.field.Outcome() != "" {
				t.Errorf("Outcome() = %q after restart, want empty", f.field.Outcome())
			}
			if f.ctl.Engine().Status() != engine.StatusPlaying {
				t.Errorf("Status = %s after restart, want playing", f.ctl.Engine().Status())
			}
		})
	}
}

func TestMinefieldLossRendering(t *testing.T) {
	f := newFixture(t)
	sym := config.DefaultConfig.Theme.Symbols
	// Flag (4,3), a safe cell, then walk onto the mine at (4,1).
	f.keys(t, 'h', 'f', 'h', 'h', tcell.KeyEnter)

	screen := render(t, f.field)
	tests := []struct {
		pos  types.Pos
		want rune
	}{
		{types.Pos{Row: 4, Col: 1}, sym.Mine},
		{types.Pos{Row: 0, Col: 0}, sym.Mine},
		{types.Pos{Row: 4, Col: 3}, sym.WrongFlag},
		{types.Pos{Row: 2, Col: 7}, sym.Treasure},
	}
	for _, tt := range tests {
		if got := runeAt(screen, cellX(tt.pos.Col), cellY(tt.pos.Row)); got != tt.want {
			t.Errorf("cell %v = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestMinefieldQuitAndPassThrough(t *testing.T) {
	f := newFixture(t)
	f.keys(t, 'q')
	if !f.quit {
		t.Error("quit handler not called")
	}
	if ev := f.field.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ev == nil {
		t.Error("unbound key was swallowed")
	}
}

func TestCellLook(t *testing.T) {
	cfg := config.DefaultConfig
	m := &Minefield{selRow: -1, selCol: -1}
	m.SetConfig(&cfg)
	sym := cfg.Theme.Symbols

	tests := []struct {
		name     string
		cell     types.CellState
		finished bool
		want     rune
	}{
		{"hidden", types.CellState{Adjacent: 3}, false, sym.Hidden},
		{"hidden mine while playing", types.CellState{Mine: true}, false, sym.Hidden},
		{"hidden treasure while playing", types.CellState{Treasure: true}, false, sym.Hidden},
		{"flag", types.CellState{Flagged: true}, false, sym.Flag},
		{"number", types.CellState{Revealed: true, Adjacent: 3}, false, '3'},
		{"empty", types.CellState{Revealed: true}, false, sym.Empty},
		{"revealed treasure", types.CellState{Revealed: true, Treasure: true}, false, sym.Treasure},
		{"hidden mine at end", types.CellState{Mine: true}, true, sym.Mine},
		{"hidden treasure at end", types.CellState{Treasure: true}, true, sym.Treasure},
		{"correct flag at end", types.CellState{Flagged: true, Mine: true}, true, sym.Flag},
		{"wrong flag at end", types.CellState{Flagged: true}, true, sym.WrongFlag},
	}
	for _, tt := range tests {
		if got, _ := m.cellLook(tt.cell, tt.finished); got != tt.want {
			t.Errorf("%s: cellLook = %q, want %q", tt.name, got, tt.want)
		}
	}
}
