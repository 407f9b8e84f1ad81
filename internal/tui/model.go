package tui

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reel/internal/backend"
	"reel/internal/browse"
	"reel/internal/config"
	"reel/internal/convert"
	"reel/internal/engine"
	"reel/internal/logging"
	"reel/internal/media"
	"reel/internal/media/ffprobe"
)

// Screen identifies the current step of the conversion workflow. Exactly one
// screen is current at any time; transitions happen only in Update.
type Screen int

const (
	ScreenBrowsing Screen = iota
	ScreenFormat
	ScreenSettings
	ScreenConverting
	ScreenComplete
	ScreenError
)

// section names a workflow view the user can peek at with Tab while a
// conversion runs. The screen stays Converting during a peek, so the
// active-job invariant never depends on what is displayed.
type section int

const (
	sectionNone section = iota
	sectionBrowser
	sectionFormat
	sectionSettings
)

// Settings rows in focus order.
const (
	rowResolution = iota
	rowBitrate
	rowFrameRate
	rowCount
)

// Model is the bubbletea model for the whole application.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger
	eng    *engine.Engine

	browser *browse.Browser

	screen    Screen
	peek      section
	showHelp  bool
	showPopup bool

	format      media.Format
	settings    media.Settings
	settingsRow int

	selectedPath string
	activeJob    *convert.Job
	lastEvent    convert.Event
	lastError    *convert.Event
	status       string

	detection *backend.Detection

	runSeq     int
	events     <-chan convert.Event
	startedAt  time.Time
	elapsed    time.Duration
	outputSize int64
	sourceInfo *ffprobe.Result

	spinner  spinner.Model
	progress progress.Model

	width  int
	height int

	// Seams for transition tests; wired to the engine in New.
	start  func(job convert.Job) (<-chan convert.Event, error)
	cancel func()
}

// New builds the initial model rooted at the configured start directory.
// The browser falls back to the working directory when the configured one
// cannot be listed.
func New(cfg *config.Config, logger *slog.Logger, eng *engine.Engine) (Model, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	startDir := strings.TrimSpace(cfg.UI.StartDir)
	if startDir == "" {
		startDir = "."
	}
	browser, err := browse.New(startDir, cfg.UI.ShowHidden)
	if err != nil {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return Model{}, err
		}
		browser, err = browse.New(wd, cfg.UI.ShowHidden)
		if err != nil {
			return Model{}, err
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 46

	m := Model{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "tui"),
		eng:      eng,
		browser:  browser,
		screen:   ScreenBrowsing,
		format:   media.FormatMP4,
		settings: media.DefaultSettings(),
		spinner:  sp,
		progress: bar,
	}
	m.start = func(job convert.Job) (<-chan convert.Event, error) {
		return eng.Start(context.Background(), job)
	}
	m.cancel = eng.Cancel
	return m, nil
}

// Init kicks off backend detection and the spinner used while it runs.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, detectBackends(m.eng))
}

// Run starts the interactive program and blocks until the user quits.
func Run(cfg *config.Config, logger *slog.Logger, eng *engine.Engine) error {
	m, err := New(cfg, logger, eng)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// backendLabel names the backend a run will use, or a placeholder while
// detection is still in flight.
func (m Model) backendLabel() string {
	if m.detection == nil {
		return "detecting…"
	}
	return m.detection.Selected.Label()
}

// converting reports whether a run is in flight.
func (m Model) converting() bool {
	return m.screen == ScreenConverting
}
