// Package ui specifies custom controls for tview to play Minesweeper in the terminal.
package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termsweeper/config"
	"termsweeper/engine"
	"termsweeper/types"
)

// Messages shown when a game ends.
const (
	MsgTreasureWin = "You found a treasure! You Win!"
	MsgWin         = "You Win!"
	MsgLoss        = "You Lose!"
)

var _ engine.Observer = (*Minefield)(nil)

// style indexes into Minefield.styles.
const (
	styleHidden = iota
	styleHiddenAlt
	styleRevealed
	styleRevealedAlt
	styleCursor
	styleMine
	styleFlag
	styleTreasure
	styleLine
	styleNumber // 8 entries, one per count
)

type Minefield struct {
	Box    *tview.Box
	app    *tview.Application
	state  engine.GameEngine
	cmds   engine.Commands
	cfg    *config.Config
	styles []tcell.Color
	hint   *tview.TextView

	selRow   int
	selCol   int
	exploded *types.Pos
	outcome  string

	onGameEnd func(message string)
	onQuit    func()
}

// NewMinefield creates a minefield widget reading state and sending moves to
// cmds. Register it with state.AddObserver.
func NewMinefield(app *tview.Application, c *config.Config, state engine.GameEngine, cmds engine.Commands, hint *tview.TextView) *Minefield {
	m := &Minefield{
		Box:    tview.NewBox(),
		app:    app,
		state:  state,
		cmds:   cmds,
		hint:   hint,
		selRow: -1,
		selCol: -1,
	}
	m.SetConfig(c)
	m.Box.SetDrawFunc(m.draw)
	m.Box.SetInputCapture(m.HandleKey)
	return m
}

// SetGameEndFunc sets the handler called with the outcome message when a game ends.
func (m *Minefield) SetGameEndFunc(f func(message string)) {
	m.onGameEnd = f
}

// SetQuitFunc sets the handler for the quit key.
func (m *Minefield) SetQuitFunc(f func()) {
	m.onQuit = f
}

func (m *Minefield) SetConfig(c *config.Config) {
	col := c.Theme.Colors
	m.styles = []tcell.Color{
		tcell.PaletteColor(col.Hidden),      // 0
		tcell.PaletteColor(col.HiddenAlt),   // 1
		tcell.PaletteColor(col.Revealed),    // 2
		tcell.PaletteColor(col.RevealedAlt), // 3
		tcell.PaletteColor(col.CursorBG),    // 4
		tcell.PaletteColor(col.Mine),        // 5
		tcell.PaletteColor(col.Flag),        // 6
		tcell.PaletteColor(col.Treasure),    // 7
		tcell.PaletteColor(col.Line),        // 8
	}
	for _, n := range col.Numbers {
		m.styles = append(m.styles, tcell.PaletteColor(n))
	}
	m.cfg = c
}

// SelectedTile returns the cursor position, or nil if there is no cursor.
func (m *Minefield) SelectedTile() *types.Pos {
	if m.selRow == -1 && m.selCol == -1 {
		return nil
	}
	return &types.Pos{Row: m.selRow, Col: m.selCol}
}

// MoveSelection moves the cursor by dr rows and dc columns, placing it in the
// middle of the board if there is none yet.
func (m *Minefield) MoveSelection(dr, dc int) {
	rows, cols := m.state.Rows(), m.state.Cols()
	if rows == 0 {
		return
	}
	if m.SelectedTile() == nil {
		m.selRow = rows / 2
		m.selCol = cols / 2
		return
	}
	if m.selRow+dr < 0 || m.selRow+dr >= rows {
		return
	}
	if m.selCol+dc < 0 || m.selCol+dc >= cols {
		return
	}
	m.selRow += dr
	m.selCol += dc
}

func (m *Minefield) ResetSelection() {
	m.selRow = -1
	m.selCol = -1
}

// HandleKey implements the game controls. It is installed as the box's
// input capture.
func (m *Minefield) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		m.MoveSelection(-1, 0)
	case tcell.KeyDown:
		m.MoveSelection(1, 0)
	case tcell.KeyLeft:
		m.MoveSelection(0, -1)
	case tcell.KeyRight:
		m.MoveSelection(0, 1)
	case tcell.KeyEnter:
		m.reveal()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			m.MoveSelection(0, -1)
		case 'j':
			m.MoveSelection(1, 0)
		case 'k':
			m.MoveSelection(-1, 0)
		case 'l':
			m.MoveSelection(0, 1)
		case ' ':
			m.reveal()
		case 'f':
			if sel := m.SelectedTile(); sel != nil {
				m.report(m.cmds.ToggleFlag(sel.Row, sel.Col))
			}
		case 'r':
			m.report(m.cmds.Restart())
		case 'q':
			if m.onQuit != nil {
				m.onQuit()
			}
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (m *Minefield) reveal() {
	sel := m.SelectedTile()
	if sel == nil {
		m.MoveSelection(0, 0)
		return
	}
	_, err := m.cmds.Reveal(sel.Row, sel.Col)
	m.report(err)
}

func (m *Minefield) report(err error) {
	if err == nil || errors.Is(err, engine.ErrGameFinished) {
		return
	}
	m.hint.SetText(fmt.Sprintf("  %s", err))
}

// OnCellChanged redraws the board.
func (m *Minefield) OnCellChanged(ev types.CellEvent) {
	m.refresh()
}

// OnGameOver records the exploded mine and reports the loss.
func (m *Minefield) OnGameOver(row, col int) {
	m.exploded = &types.Pos{Row: row, Col: col}
	m.finish(MsgLoss)
}

// OnGameWon reports the win.
func (m *Minefield) OnGameWon(treasure bool) {
	if treasure {
		m.finish(MsgTreasureWin)
		return
	}
	m.finish(MsgWin)
}

// OnReset clears the previous outcome and recentres the cursor.
func (m *Minefield) OnReset() {
	m.exploded = nil
	m.outcome = ""
	m.ResetSelection()
	if m.state.Rows() > 0 {
		m.MoveSelection(0, 0)
	}
	m.refresh()
}

func (m *Minefield) finish(message string) {
	m.outcome = message
	m.refresh()
	if m.onGameEnd != nil {
		m.onGameEnd(message)
	}
}

// Outcome returns the end of game message, empty while playing.
func (m *Minefield) Outcome() string {
	return m.outcome
}

func (m *Minefield) refresh() {
	m.refreshHint()
	if m.app != nil {
		// Observer calls arrive from the input handler; queueing from it directly would deadlock.
		go func() {
			m.app.QueueUpdateDraw(func() {})
		}()
	}
}

func (m *Minefield) refreshHint() {
	if m.hint == nil {
		return
	}
	if m.outcome != "" {
		m.hint.SetText(fmt.Sprintf("  %s\n  r · play again   q · quit", m.outcome))
		return
	}
	m.hint.SetText("  hjkl/↑↓←→ move   ⏎/space reveal\n  f flag   r restart   q quit")
}

func (m *Minefield) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	rows, cols := m.state.Rows(), m.state.Cols()
	if rows == 0 {
		return x, y, 1, 1
	}
	snap := m.state.Snapshot()
	finished := m.state.Status().Finished()

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sym, style := m.cellLook(snap.Cell(r, c), finished)
			if r == m.selRow && c == m.selCol && !finished {
				if m.cfg.Theme.DrawCursorBackground {
					style = style.Background(m.styles[styleCursor])
				} else {
					sym = '◎'
				}
			}
			drawCell(screen, style, sym, r, c, x+4, y+1)
		}
	}
	m.drawCoordinates(screen, x, y, rows, cols)
	return x, y, cols*2 + 4, rows + 1
}

// cellLook returns the symbol and style of a cell. Once the game is over,
// mines, treasures and numbers are shown and wrong flags marked.
func (m *Minefield) cellLook(c types.CellState, finished bool) (rune, tcell.Style) {
	sym := m.cfg.Theme.Symbols
	bg := styleRevealed
	if (c.Row+c.Col)%2 == 1 {
		bg = styleRevealedAlt
	}
	hiddenBG := styleHidden
	if (c.Row+c.Col)%2 == 1 {
		hiddenBG = styleHiddenAlt
	}
	base := tcell.StyleDefault.Background(m.styles[bg])
	hidden := tcell.StyleDefault.Background(m.styles[hiddenBG])

	switch {
	case c.Flagged && finished && !c.Mine:
		return sym.WrongFlag, hidden.Foreground(m.styles[styleMine])
	case c.Flagged:
		return sym.Flag, hidden.Foreground(m.styles[styleFlag])
	case c.Revealed && c.Mine:
		style := base.Foreground(m.styles[styleMine])
		if m.exploded != nil && *m.exploded == c.Pos() {
			style = style.Reverse(true)
		}
		return sym.Mine, style
	case !c.Revealed && finished && c.Mine:
		return sym.Mine, hidden.Foreground(m.styles[styleMine])
	case c.Treasure && (c.Revealed || finished):
		return sym.Treasure, base.Foreground(m.styles[styleTreasure])
	case !c.Revealed:
		return sym.Hidden, hidden.Foreground(m.styles[styleLine])
	case c.Adjacent > 0:
		return rune('0' + c.Adjacent), base.Foreground(m.styles[styleNumber+c.Adjacent-1]).Bold(true)
	}
	return sym.Empty, base
}

// drawCell draws a cell 2 characters wide.
func drawCell(s tcell.Screen, style tcell.Style, r rune, row, col, l, t int) {
	s.SetContent(l+col*2, t+row, r, nil, style)
	s.SetContent(l+col*2+1, t+row, ' ', nil, style)
}

// drawCoordinates draws column letters above the board and 1-based row
// numbers to its left, highlighting the cursor's row and column.
func (m *Minefield) drawCoordinates(s tcell.Screen, x, y, rows, cols int) {
	hCoord := int('A')
	if m.cfg.Theme.FullWidthLetters {
		hCoord = int('Ａ')
	}
	style := tcell.StyleDefault.Foreground(m.styles[styleLine])
	highlight := tcell.StyleDefault.Background(m.styles[styleCursor])

	for ic := 0; ic < cols; ic++ {
		st := style
		if ic == m.selCol {
			st = highlight
		}
		s.SetContent(x+4+ic*2, y, rune(hCoord+ic), nil, st)
		s.SetContent(x+4+ic*2+1, y, ' ', nil, st)
	}

	for ir := 0; ir < rows; ir++ {
		st := style
		if ir == m.selRow {
			st = highlight
		}
		n := ir + 1
		tens := ' '
		if n >= 10 {
			tens = rune('0' + n/10)
		}
		s.SetContent(x+1, y+1+ir, tens, nil, st)
		s.SetContent(x+2, y+1+ir, rune('0'+n%10), nil, st)
	}
}
