package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"reel/internal/convert"
	"reel/internal/logging"
)

// Update is the single transition function: every key press and every
// engine message funnels through here.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 14
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 60 {
			barWidth = 60
		}
		m.progress.Width = barWidth
		return m, nil

	case detectionMsg:
		detection := msg.detection
		m.detection = &detection
		return m, nil

	case eventMsg:
		return m.handleEvent(msg)

	case probeMsg:
		if msg.seq == m.runSeq && msg.err == nil {
			result := msg.result
			m.sourceInfo = &result
		}
		return m, nil

	case spinner.TickMsg:
		if m.converting() || m.detection == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

// handleEvent folds one engine event into the model. Messages from an
// earlier run's stream are dropped by sequence number.
func (m Model) handleEvent(msg eventMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.runSeq {
		return m, nil
	}
	if !msg.ok {
		m.events = nil
		return m, nil
	}

	m.lastEvent = msg.event
	if msg.event.Terminal() {
		m.peek = sectionNone
		m.showPopup = false
		m.elapsed = time.Since(m.startedAt)
		if msg.event.Err != nil {
			failed := msg.event
			m.lastError = &failed
			m.screen = ScreenError
		} else {
			m.screen = ScreenComplete
			m.outputSize = 0
			if info, err := os.Stat(msg.event.OutputPath); err == nil {
				m.outputSize = info.Size()
			}
		}
	}
	return m, waitForEvent(msg.seq, m.events)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		return m.handleHelpKey(key)
	}
	if m.showPopup {
		return m.handlePopupKey(key)
	}

	switch m.screen {
	case ScreenBrowsing:
		return m.handleBrowsingKey(key)
	case ScreenFormat:
		return m.handleFormatKey(key)
	case ScreenSettings:
		return m.handleSettingsKey(key)
	case ScreenConverting:
		return m.handleConvertingKey(key)
	case ScreenComplete:
		return m.handleCompleteKey(key)
	case ScreenError:
		return m.handleErrorKey(key)
	}
	return m, nil
}

// handleHelpKey runs while the help overlay is open. Help sits at the end
// of the Tab section cycle; the terminal screens opt out of cycling.
func (m Model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.showHelp = false
	case "tab":
		m.showHelp = false
		if m.converting() {
			m.peek = sectionNone
		} else if m.screen != ScreenComplete && m.screen != ScreenError {
			m.screen = ScreenBrowsing
		}
	case "shift+tab":
		m.showHelp = false
		if m.converting() {
			m.peek = sectionSettings
		} else if m.screen != ScreenComplete && m.screen != ScreenError {
			m.screen = ScreenSettings
		}
	case "q":
		if m.converting() {
			return m.requestCancel()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePopupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "p", "esc":
		m.showPopup = false
	case "n":
		if m.screen == ScreenComplete || m.screen == ScreenError {
			return m.reset()
		}
	case "q":
		if m.converting() {
			return m.requestCancel()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleBrowsingKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up":
		m.browser.Prev()
	case "down":
		m.browser.Next()
	case "enter":
		entry, ok := m.browser.Selected()
		if !ok {
			return m, nil
		}
		if entry.IsDir {
			if _, err := m.browser.Enter(); err != nil {
				m.status = fmt.Sprintf("cannot open %s: %v", entry.Name, err)
			} else {
				m.status = ""
			}
			return m, nil
		}
		m.selectedPath = entry.Path
		m.status = ""
		m.screen = ScreenFormat
	case "tab":
		m.screen = ScreenFormat
	case "shift+tab":
		m.showHelp = true
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFormatKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up":
		m.format = m.format.Prev()
	case "down":
		m.format = m.format.Next()
	case "enter", "tab":
		m.screen = ScreenSettings
	case "shift+tab":
		m.screen = ScreenBrowsing
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleSettingsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up":
		m.settingsRow = (m.settingsRow + rowCount - 1) % rowCount
	case "down":
		m.settingsRow = (m.settingsRow + 1) % rowCount
	case "left":
		m = m.cycleSetting(-1)
	case "right":
		m = m.cycleSetting(1)
	case "enter":
		return m.startConversion()
	case "tab":
		m.showHelp = true
	case "shift+tab":
		m.screen = ScreenFormat
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// handleConvertingKey keeps the screen on Converting: Tab only peeks at the
// other sections while the run continues, and q/Esc request cancellation
// instead of quitting.
func (m Model) handleConvertingKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m.requestCancel()
	case "p":
		m.showPopup = !m.showPopup
	case "tab":
		m = m.nextPeek()
	case "shift+tab":
		m = m.prevPeek()
	}
	return m, nil
}

func (m Model) handleCompleteKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n":
		return m.reset()
	case "p":
		m.showPopup = !m.showPopup
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleErrorKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n":
		return m.reset()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) cycleSetting(step int) Model {
	switch m.settingsRow {
	case rowResolution:
		if step > 0 {
			m.settings.Resolution = m.settings.Resolution.Next()
		} else {
			m.settings.Resolution = m.settings.Resolution.Prev()
		}
	case rowBitrate:
		if step > 0 {
			m.settings.Bitrate = m.settings.Bitrate.Next()
		} else {
			m.settings.Bitrate = m.settings.Bitrate.Prev()
		}
	case rowFrameRate:
		if step > 0 {
			m.settings.FrameRate = m.settings.FrameRate.Next()
		} else {
			m.settings.FrameRate = m.settings.FrameRate.Prev()
		}
	}
	return m
}

// startConversion builds the job and hands it to the engine. The only
// synchronous failure is another run being active; everything else arrives
// later as a terminal event on the stream.
func (m Model) startConversion() (tea.Model, tea.Cmd) {
	if m.selectedPath == "" {
		m.status = "Select a source file first"
		m.screen = ScreenBrowsing
		return m, nil
	}
	job, err := convert.NewJob(m.selectedPath, m.format, m.settings, strings.TrimSpace(m.cfg.Paths.OutputDir))
	if err != nil {
		m.status = fmt.Sprintf("cannot start: %v", err)
		m.screen = ScreenBrowsing
		m.selectedPath = ""
		_ = m.browser.Refresh()
		return m, nil
	}

	events, err := m.start(job)
	if err != nil {
		m.status = fmt.Sprintf("cannot start: %v", err)
		return m, nil
	}

	m.runSeq++
	m.activeJob = &job
	m.events = events
	m.lastEvent = convert.Event{}
	m.lastError = nil
	m.sourceInfo = nil
	m.outputSize = 0
	m.elapsed = 0
	m.status = ""
	m.startedAt = time.Now()
	m.screen = ScreenConverting
	m.peek = sectionNone

	m.logger.Debug("conversion started",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("source", job.SourcePath),
		logging.String("format", job.Format.Name()))

	return m, tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.runSeq, events),
		probeSource(m.runSeq, m.cfg.Conversion.FFprobeBinary, job.SourcePath),
	)
}

func (m Model) requestCancel() (tea.Model, tea.Cmd) {
	m.cancel()
	m.status = "Cancelling…"
	m.logger.Debug("cancellation requested")
	return m, nil
}

// reset clears the finished run and returns to browsing. The listing
// refreshes so a fresh output file shows up immediately.
func (m Model) reset() (tea.Model, tea.Cmd) {
	m.activeJob = nil
	m.lastError = nil
	m.lastEvent = convert.Event{}
	m.events = nil
	m.sourceInfo = nil
	m.selectedPath = ""
	m.status = ""
	m.outputSize = 0
	m.elapsed = 0
	m.showPopup = false
	m.peek = sectionNone
	m.screen = ScreenBrowsing
	_ = m.browser.Refresh()
	return m, nil
}

// nextPeek advances the mid-conversion section cycle:
// live view, browser, format, settings, help, back to live.
func (m Model) nextPeek() Model {
	switch m.peek {
	case sectionNone:
		m.peek = sectionBrowser
	case sectionBrowser:
		m.peek = sectionFormat
	case sectionFormat:
		m.peek = sectionSettings
	case sectionSettings:
		m.peek = sectionNone
		m.showHelp = true
	}
	return m
}

func (m Model) prevPeek() Model {
	switch m.peek {
	case sectionNone:
		m.showHelp = true
	case sectionBrowser:
		m.peek = sectionNone
	case sectionFormat:
		m.peek = sectionBrowser
	case sectionSettings:
		m.peek = sectionFormat
	}
	return m
}
