package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"termsweeper/engine"
	"termsweeper/types"
)

var _ engine.Observer = (*InfoPanel)(nil)

// InfoPanel displays game information alongside the minefield.
type InfoPanel struct {
	box     *tview.TextView
	state   engine.GameEngine
	now     func() time.Time
	endedAt time.Time
	outcome string
	stop    chan struct{}
}

// NewInfoPanel creates a new info panel. Register it with state.AddObserver.
func NewInfoPanel(state engine.GameEngine) *InfoPanel {
	panel := &InfoPanel{
		box:   tview.NewTextView(),
		state: state,
		now:   time.Now,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	panel.refresh()
	return panel
}

// Box returns the underlying tview component.
func (p *InfoPanel) Box() *tview.TextView {
	return p.box
}

// StartClock refreshes the panel once per second on the application's event
// loop until StopClock is called.
func (p *InfoPanel) StartClock(app *tview.Application) {
	p.StopClock()
	stop := make(chan struct{})
	p.stop = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				app.QueueUpdateDraw(p.refresh)
			case <-stop:
				return
			}
		}
	}()
}

// StopClock stops the ticker started by StartClock.
func (p *InfoPanel) StopClock() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *InfoPanel) OnCellChanged(ev types.CellEvent) {
	p.refresh()
}

func (p *InfoPanel) OnGameOver(row, col int) {
	p.end(MsgLoss)
}

func (p *InfoPanel) OnGameWon(treasure bool) {
	if treasure {
		p.end(MsgTreasureWin)
		return
	}
	p.end(MsgWin)
}

func (p *InfoPanel) OnReset() {
	p.endedAt = time.Time{}
	p.outcome = ""
	p.refresh()
}

func (p *InfoPanel) end(outcome string) {
	p.endedAt = p.now()
	p.outcome = outcome
	p.refresh()
}

// Elapsed returns the time since the first reveal, frozen once the game ends.
func (p *InfoPanel) Elapsed() time.Duration {
	start, ok := p.state.StartTime()
	if !ok {
		return 0
	}
	end := p.endedAt
	if end.IsZero() {
		end = p.now()
	}
	if end.Before(start) {
		return 0
	}
	return end.Sub(start)
}

// formatElapsed renders d as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// refresh updates the panel text.
func (p *InfoPanel) refresh() {
	if p.state.Status() == engine.StatusIdle {
		p.box.SetText("")
		return
	}

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	if d, ok := p.state.Difficulty(); ok {
		text += fmt.Sprintf("[white]Level:[-:-:-] %s\n", d.Label())
	} else {
		text += "[white]Level:[-:-:-] Test board\n"
	}
	text += fmt.Sprintf("[white]Board:[-:-:-] %dx%d\n", p.state.Rows(), p.state.Cols())
	text += fmt.Sprintf("[white]Mines:[-:-:-] %d\n", p.state.MineCount())
	text += fmt.Sprintf("[white]Flags:[-:-:-] %d\n", p.state.FlagsCount())
	text += fmt.Sprintf("[white]Treasures:[-:-:-] %d\n", p.state.TreasureCount())
	text += fmt.Sprintf("[white]Moves:[-:-:-] %d\n", p.state.Moves())
	text += fmt.Sprintf("[white]Time:[-:-:-] %s\n", formatElapsed(p.Elapsed()))

	if p.outcome != "" {
		color := "green"
		if p.outcome == MsgLoss {
			color = "red"
		}
		text += "\n[white::b]Result[-:-:-]\n"
		text += "[dimgray]──────────────────────[-:-:-]\n"
		text += fmt.Sprintf("[%s]%s[-]\n", color, p.outcome)
	}

	if id := p.state.ID(); len(id) >= 8 {
		text += fmt.Sprintf("\n[dimgray]game %s[-]\n", id[:8])
	}

	p.box.SetText(text)
}

// CreateGameLayout creates the main game layout with the minefield and side panel.
func CreateGameLayout(field *Minefield, infoPanel *InfoPanel, hint *tview.TextView) *tview.Flex {
	// Horizontal flex: minefield | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(field.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	// Vertical flex: board area on top, compact status bar at bottom
	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 4, 0, false)

	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}
