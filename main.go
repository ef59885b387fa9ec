// termsweeper is a terminal Minesweeper with a treasure variant and
// hand-authored test boards.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"termsweeper/config"
	"termsweeper/console"
	"termsweeper/engine"
	"termsweeper/engine/mines"
	"termsweeper/game"
	"termsweeper/testboard"
	"termsweeper/types"
	"termsweeper/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagDifficulty = flag.String("difficulty", "", "Difficulty: beginner, intermediate or expert (or 1, 2, 3)")
	flagBoard      = flag.String("board", "", "Play a test board read from this CSV file")
	flagText       = flag.Bool("text", false, "Use the text interface")
	flagGUI        = flag.Bool("gui", false, "Use the terminal UI")
	flagExport     = flag.String("export", "", "Write the layout of every new board to this CSV file")
	flagSaveConfig = flag.Bool("save-config", false, "Write the current configuration to the config file and exit")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var minefield *ui.Minefield
var infoPanel *ui.InfoPanel
var ctl *game.Controller
var cfg *config.Config
var log = logrus.New()

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termsweeper %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Saving config failed: %s\n", err)
			os.Exit(1)
		}
		return
	}

	logFile, err := openLog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Opening log failed: %s\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	eng := mines.NewEngine(mines.WithLogger(log))
	ctl = game.NewController(eng, game.WithLogger(log))
	if *flagExport != "" {
		eng.AddObserver(&boardExporter{state: eng, path: *flagExport, log: log})
	}

	iface := cfg.Game.Interface
	switch {
	case *flagText:
		iface = config.InterfaceText
	case *flagGUI:
		iface = config.InterfaceGUI
	}

	if iface == config.InterfaceText {
		err = runText()
	} else {
		err = runGUI()
	}
	if err != nil && !errors.Is(err, console.ErrDeclined) {
		log.WithError(err).Error("exit")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openLog points the package logger at the configured log file. Nothing is
// logged to the terminal the game draws on.
func openLog(c *config.Config) (*os.File, error) {
	path, err := c.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	log.SetLevel(c.LogLevel())
	log.WithFields(logrus.Fields{
		"version": Version,
		"level":   c.LogLevel().String(),
	}).Info("termsweeper starting")
	return f, nil
}

// loadBoard reads and validates a test board, resolving bare names against
// the configured board directory.
func loadBoard(path string) ([][]int, error) {
	grid, _, err := testboard.Load(cfg.BoardPath(path))
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("test board rejected")
		return nil, err
	}
	return grid, nil
}

// quickStart starts a game from the command line flags. It returns false when
// no game flag was given.
func quickStart() (bool, error) {
	switch {
	case *flagBoard != "":
		grid, err := loadBoard(*flagBoard)
		if err != nil {
			return true, err
		}
		return true, ctl.StartTest(grid)
	case *flagDifficulty != "":
		d, err := engine.DifficultyByName(*flagDifficulty)
		if err != nil {
			return true, err
		}
		return true, ctl.StartRandom(d)
	}
	return false, nil
}

func runText() error {
	in := bufio.NewScanner(os.Stdin)
	started, err := quickStart()
	if err != nil {
		return err
	}
	if !started {
		choice, err := console.Setup(in, os.Stdout, loadBoard)
		if err != nil {
			return err
		}
		if choice.Grid != nil {
			err = ctl.StartTest(choice.Grid)
		} else {
			err = ctl.StartRandom(choice.Difficulty)
		}
		if err != nil {
			return err
		}
	}

	view := console.New(ctl.Engine(), ctl, in, os.Stdout)
	ctl.Engine().AddObserver(view)
	return view.Run()
}

func runGUI() error {
	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ✹ termsweeper ")

	// Game view setup
	gameHint := tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)

	minefield = ui.NewMinefield(app, cfg, ctl.Engine(), ctl, gameHint)
	infoPanel = ui.NewInfoPanel(ctl.Engine())
	ctl.Engine().AddObserver(minefield)
	ctl.Engine().AddObserver(infoPanel)
	gameFrame := ui.CreateGameLayout(minefield, infoPanel, gameHint)

	minefield.SetQuitFunc(func() {
		rootPage.SwitchToPage("setup")
	})
	minefield.SetGameEndFunc(showGameOver)

	// Game setup screen
	setupUI := ui.NewGameSetup(cfg.Difficulty(),
		func(d engine.Difficulty, boardPath string) {
			startGame(d, boardPath)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	// Esc on the setup screen goes back to a game in progress
	setupUI.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc && ctl.Engine().Status() == engine.StatusPlaying {
			rootPage.SwitchToPage("gameview")
			return nil
		}
		return event
	})

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func(err error) {
		if err != nil {
			showError(fmt.Sprintf("Saving colors failed:\n%s", err))
		}
		// Refresh the minefield with new colors
		minefield.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	started, err := quickStart()

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 64), true, !started || err != nil)
	rootPage.AddPage("gameview", gameFrame, true, started && err == nil)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	if err != nil {
		showError(fmt.Sprintf("Failed to start game:\n%s", err))
	}

	infoPanel.StartClock(app)
	defer infoPanel.StopClock()

	return app.SetRoot(rootPage, true).Run()
}

// startGame starts a game from the setup form.
func startGame(d engine.Difficulty, boardPath string) {
	var err error
	if boardPath != "" {
		var grid [][]int
		if grid, err = loadBoard(boardPath); err == nil {
			err = ctl.StartTest(grid)
		}
	} else {
		err = ctl.StartRandom(d)
	}
	if err != nil {
		showError(fmt.Sprintf("Failed to start game:\n%s", err))
		return
	}
	rootPage.SwitchToPage("gameview")
}

// showGameOver offers another game once the current one ends.
func showGameOver(message string) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Play Again", "Menu", "Quit"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("gameover")
			switch buttonLabel {
			case "Play Again":
				if err := ctl.Restart(); err != nil {
					showError(fmt.Sprintf("Failed to restart:\n%s", err))
				}
			case "Menu":
				rootPage.SwitchToPage("setup")
			case "Quit":
				app.Stop()
			}
		})
	rootPage.AddPage("gameover", modal, true, true)
}

func showError(text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}

// boardExporter writes the layout of each new board to a CSV file so it can
// be replayed with -board.
type boardExporter struct {
	state engine.GameEngine
	path  string
	log   logrus.FieldLogger
}

func (b *boardExporter) OnReset() {
	if b.state.Status() != engine.StatusPlaying {
		return
	}
	grid := testboard.FromSnapshot(b.state.Snapshot())
	if err := testboard.WriteFile(b.path, grid); err != nil {
		b.log.WithError(err).WithField("path", b.path).Error("export board")
		return
	}
	b.log.WithFields(logrus.Fields{
		"game": b.state.ID(),
		"path": b.path,
	}).Info("board exported")
}

func (b *boardExporter) OnCellChanged(ev types.CellEvent) {}
func (b *boardExporter) OnGameOver(row, col int)         {}
func (b *boardExporter) OnGameWon(treasure bool)         {}
