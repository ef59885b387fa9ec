package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termsweeper/engine"
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	onStart  func(d engine.Difficulty, boardPath string)
	onCancel func()
	onColors func()

	difficulty engine.Difficulty
	boardPath  string
}

// NewGameSetup creates a new game setup form. onStart receives the chosen
// difficulty and, if one was entered, the path of a test board to play instead.
func NewGameSetup(initial engine.Difficulty, onStart func(engine.Difficulty, string), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:    onStart,
		onCancel:   onCancel,
		onColors:   onColors,
		difficulty: initial,
	}

	tiers := engine.Difficulties()
	labels := make([]string, len(tiers))
	selected := 0
	for i, d := range tiers {
		labels[i] = d.Label()
		if d.Name == initial.Name {
			selected = i
		}
	}

	form := tview.NewForm()

	form.AddDropDown("Difficulty", labels, selected, func(option string, index int) {
		if index >= 0 && index < len(tiers) {
			setup.difficulty = tiers[index]
		}
	})

	form.AddInputField("Test board (CSV)", "", 32, nil, func(text string) {
		setup.boardPath = strings.TrimSpace(text)
	})

	form.AddButton("Start Game", func() {
		onStart(setup.difficulty, setup.boardPath)
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetFieldBackgroundColor(MenuColors.CardBG)
	form.SetLabelColor(MenuColors.Label)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Leave the test board empty for a random board").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// Selection returns the current difficulty and test board path.
func (s *GameSetupUI) Selection() (engine.Difficulty, string) {
	return s.difficulty, s.boardPath
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
