package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termsweeper/config"
	"termsweeper/types"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func(err error)

	selectedHidden   int
	selectedRevealed int
	editingRevealed  bool // true = editing revealed cells, false = hidden cells
}

type paletteEntry struct {
	code int
	name string
}

// Colors for covered cells.
var hiddenColors = []paletteEntry{
	{244, "Dark Gray"},
	{240, "Gray"},
	{238, "Charcoal"},
	{60, "Slate Blue"},
	{24, "Dark Cyan"},
	{23, "Teal"},
	{22, "Dark Green"},
	{94, "Saddle Brown"},
	{136, "Dark Brown"},
	{54, "Purple"},
	{17, "Navy Blue"},
}

// Colors for uncovered cells, light so numbers stay readable.
var revealedColors = []paletteEntry{
	{252, "Light Gray"},
	{250, "Gray"},
	{255, "White"},
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{188, "Light Beige"},
	{194, "Mint"},
	{195, "Ice Blue"},
	{223, "Peach"},
}

// previewCells is a fixed 4x6 sample board: a mine, a flag, numbers and an
// uncovered treasure.
var previewCells = func() [][]types.CellState {
	layout := []string{
		"1M1.  ",
		"111.F ",
		"  12T ",
		"   ...",
	}
	cells := make([][]types.CellState, len(layout))
	for r, line := range layout {
		cells[r] = make([]types.CellState, len(line))
		for c, ch := range line {
			cell := types.CellState{Row: r, Col: c, Revealed: true}
			switch {
			case ch == 'M':
				cell.Mine = true
			case ch == 'F':
				cell.Revealed, cell.Flagged = false, true
			case ch == 'T':
				cell.Treasure = true
			case ch == '.':
				cell.Revealed = false
			case ch >= '1' && ch <= '8':
				cell.Adjacent = int(ch - '0')
			}
			cells[r][c] = cell
		}
	}
	return cells
}()

// NewColorConfig creates a new color configuration screen. onDone is called
// after the chosen colors were saved, with the error from saving if any.
func NewColorConfig(cfg *config.Config, onDone func(err error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:              cfg,
		onDone:           onDone,
		selectedHidden:   cfg.Theme.Colors.Hidden,
		selectedRevealed: cfg.Theme.Colors.Revealed,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.SetBorderColor(MenuColors.Border)
	cc.colorList.ShowSecondaryText(false)

	cc.populateColorList()

	// Preview on change
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.preselect(index)
	})

	// Apply on select
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.preselect(index)
		if !cc.editingRevealed {
			cc.cfg.Theme.Colors.Hidden = cc.selectedHidden
			cc.cfg.Theme.Colors.HiddenAlt = cc.selectedHidden
			// Continue with the revealed color
			cc.editingRevealed = true
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.Revealed = cc.selectedRevealed
		cc.cfg.Theme.Colors.RevealedAlt = cc.selectedRevealed
		err := cc.cfg.Save()
		cc.editingRevealed = false
		cc.populateColorList()
		onDone(err)
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetBorderColor(MenuColors.BorderFocus)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) entries() []paletteEntry {
	if cc.editingRevealed {
		return revealedColors
	}
	return hiddenColors
}

func (cc *ColorConfigUI) preselect(index int) {
	entries := cc.entries()
	if index < 0 || index >= len(entries) {
		return
	}
	if cc.editingRevealed {
		cc.selectedRevealed = entries[index].code
	} else {
		cc.selectedHidden = entries[index].code
	}
}

// populateColorList fills the list with appropriate colors based on editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedHidden
	if cc.editingRevealed {
		cc.colorList.SetTitle(" Revealed Color (Tab: hidden) ")
		current = cc.selectedRevealed
	} else {
		cc.colorList.SetTitle(" Hidden Color (Tab: revealed) ")
	}
	for i, c := range cc.entries() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.entries() {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 20 || height < 8 {
		return x, y, width, height
	}

	// Render the sample with a throwaway theme holding the pending colors.
	previewCfg := *cc.cfg
	previewCfg.Theme.Colors.Hidden = cc.selectedHidden
	previewCfg.Theme.Colors.HiddenAlt = cc.selectedHidden
	previewCfg.Theme.Colors.Revealed = cc.selectedRevealed
	previewCfg.Theme.Colors.RevealedAlt = cc.selectedRevealed
	field := &Minefield{selRow: -1, selCol: -1}
	field.SetConfig(&previewCfg)

	startX := x + 2
	startY := y + 1
	for r, line := range previewCells {
		for c, cell := range line {
			sym, style := field.cellLook(cell, false)
			drawCell(screen, style, sym, r, c, startX, startY)
		}
	}

	info := fmt.Sprintf("Hidden: %d  Revealed: %d", cc.selectedHidden, cc.selectedRevealed)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+len(previewCells)+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between hidden and revealed color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingRevealed = !cc.editingRevealed
	cc.populateColorList()
}
