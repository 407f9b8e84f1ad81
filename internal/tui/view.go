package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"reel/internal/convert"
	"reel/internal/media"
	"reel/internal/textutil"
)

type tabID int

const (
	tabBrowser tabID = iota
	tabFormat
	tabSettings
	tabConvert
	tabHelp
)

// View renders one frame from the model snapshot. It reads state only.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(m.viewHelp())
	case m.showPopup:
		b.WriteString(m.viewPopup())
	default:
		b.WriteString(m.viewBody())
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewFooter())
	return appStyle.Render(b.String())
}

func (m Model) viewHeader() string {
	return titleStyle.Render(" reel ") + "  " + faintStyle.Render("backend: "+m.backendLabel())
}

func (m Model) activeTab() tabID {
	if m.showHelp {
		return tabHelp
	}
	switch m.peek {
	case sectionBrowser:
		return tabBrowser
	case sectionFormat:
		return tabFormat
	case sectionSettings:
		return tabSettings
	}
	switch m.screen {
	case ScreenBrowsing:
		return tabBrowser
	case ScreenFormat:
		return tabFormat
	case ScreenSettings:
		return tabSettings
	default:
		return tabConvert
	}
}

func (m Model) viewTabs() string {
	labels := []string{"Browser", "Format", "Settings", m.convertTabLabel(), "Help"}
	active := m.activeTab()
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := tabStyle
		if tabID(i) == active {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, " ")
}

func (m Model) convertTabLabel() string {
	switch m.screen {
	case ScreenConverting:
		return "Converting"
	case ScreenComplete:
		return "Complete"
	case ScreenError:
		return "Error"
	default:
		return "Convert"
	}
}

func (m Model) viewBody() string {
	if m.converting() && m.peek != sectionNone {
		note := statusStyle.Render(fmt.Sprintf("conversion running in the background: %d%%", m.lastEvent.Percent))
		return m.viewPeek() + "\n\n" + note
	}
	switch m.screen {
	case ScreenBrowsing:
		return m.viewBrowser()
	case ScreenFormat:
		return m.viewFormat()
	case ScreenSettings:
		return m.viewSettings()
	case ScreenConverting:
		return m.viewConverting()
	case ScreenComplete:
		return m.viewComplete()
	case ScreenError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewPeek() string {
	switch m.peek {
	case sectionBrowser:
		return m.viewBrowser()
	case sectionFormat:
		return m.viewFormat()
	case sectionSettings:
		return m.viewSettings()
	}
	return ""
}

func (m Model) viewBrowser() string {
	var b strings.Builder
	b.WriteString(faintStyle.Render(m.browser.Dir()))
	b.WriteString("\n\n")

	entries := m.browser.Entries()
	if len(entries) == 0 {
		b.WriteString(faintStyle.Render("empty directory"))
		return b.String()
	}

	visible := m.visibleRows()
	start := 0
	if sel := m.browser.SelectedIndex(); sel >= visible {
		start = sel - visible + 1
	}
	end := start + visible
	if end > len(entries) {
		end = len(entries)
	}

	for i := start; i < end; i++ {
		entry := entries[i]
		name := entry.Name
		if entry.IsDir {
			name += "/"
		}
		name = textutil.Truncate(name, 42)
		cursor := "  "
		style := itemStyle
		if entry.IsDir {
			style = dirStyle
		}
		if i == m.browser.SelectedIndex() {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-42s %10s", cursor, name, entry.DisplaySize())))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) visibleRows() int {
	if m.height == 0 {
		return 16
	}
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m Model) viewFormat() string {
	var b strings.Builder
	b.WriteString(m.sourceLine())
	b.WriteString("\n\n")
	for _, format := range media.Formats() {
		cursor := "  "
		style := itemStyle
		if format == m.format {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-5s", cursor, format.Name())))
		b.WriteString(faintStyle.Render("  " + format.Description()))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(m.sourceLine())
	b.WriteString("\n\n")

	bitrateLabel := m.settings.Bitrate.Label()
	if kbps := m.settings.Bitrate.Kbps(m.settings.Resolution); kbps > 0 {
		bitrateLabel = fmt.Sprintf("%s (%d kbps)", bitrateLabel, kbps)
	}
	rows := [][2]string{
		{"Resolution", m.settings.Resolution.Label()},
		{"Bitrate", bitrateLabel},
		{"Frame rate", m.settings.FrameRate.Label()},
	}
	for i, row := range rows {
		cursor := "  "
		style := itemStyle
		value := fmt.Sprintf("  %s", row[1])
		if i == m.settingsRow {
			cursor = "> "
			style = selectedStyle
			value = fmt.Sprintf("◂ %s ▸", row[1])
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-12s%s", cursor, row[0], value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter starts the conversion"))
	return b.String()
}

func (m Model) sourceLine() string {
	if m.selectedPath == "" {
		return faintStyle.Render("No source selected yet (Tab to the browser)")
	}
	return itemStyle.Render(filepath.Base(m.selectedPath)) +
		faintStyle.Render(" to ") +
		itemStyle.Render(m.format.Name())
}

func (m Model) viewConverting() string {
	var b strings.Builder
	if job := m.activeJob; job != nil {
		b.WriteString(itemStyle.Render(filepath.Base(job.SourcePath)))
		b.WriteString(faintStyle.Render(" to "))
		b.WriteString(itemStyle.Render(job.Format.Name()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.spinner.View() + " " + selectedStyle.Render(stageOrStarting(m.lastEvent.Stage)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(float64(m.lastEvent.Percent) / 100))
	b.WriteString("\n\n")

	detail := make([]string, 0, 2)
	if eta := convert.FormatETA(m.lastEvent.ETA); eta != "" {
		detail = append(detail, "eta "+eta)
	}
	if m.lastEvent.Message != "" {
		detail = append(detail, m.lastEvent.Message)
	}
	if len(detail) > 0 {
		b.WriteString(faintStyle.Render(strings.Join(detail, " · ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewComplete() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("✓ Conversion complete"))
	b.WriteString("\n\n")
	if m.activeJob != nil {
		output := m.lastEvent.OutputPath
		if output == "" {
			output = m.activeJob.OutputPath
		}
		line := "Output: " + textutil.Truncate(output, 60)
		if m.outputSize > 0 {
			line += fmt.Sprintf(" (%s)", humanize.Bytes(uint64(m.outputSize)))
		}
		b.WriteString(itemStyle.Render(line))
		b.WriteString("\n")
	}
	if m.elapsed > 0 {
		b.WriteString(faintStyle.Render("took " + m.elapsed.Round(100*time.Millisecond).String()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewError() string {
	kind := convert.KindBackendFailure
	detail := ""
	percent := 0
	if m.lastError != nil {
		kind = m.lastError.Kind()
		detail = m.lastError.Message
		percent = m.lastError.Percent
	}

	var b strings.Builder
	if kind == convert.KindCancelled {
		b.WriteString(cancelStyle.Render("◼ Cancelled"))
	} else {
		b.WriteString(errorStyle.Render("✗ " + kind.Label()))
	}
	b.WriteString("\n\n")
	if detail != "" {
		b.WriteString(itemStyle.Render(detail))
		b.WriteString("\n")
	}
	if percent > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("stopped at %d%%", percent)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewPopup() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Conversion details"))
	b.WriteString("\n\n")

	job := m.activeJob
	if job == nil {
		b.WriteString(faintStyle.Render("no active conversion"))
		return panelStyle.Render(b.String())
	}

	rows := [][2]string{
		{"Source", textutil.Truncate(job.SourcePath, 56)},
		{"Size", humanize.Bytes(uint64(job.SourceSize))},
		{"Target", job.Format.Name()},
		{"Output", textutil.Truncate(job.OutputPath, 56)},
		{"Settings", job.Settings.Describe()},
		{"Backend", m.backendLabel()},
	}
	if info := m.sourceInfo; info != nil {
		if d := info.Duration(); d > 0 {
			rows = append(rows, [2]string{"Duration", d.Round(time.Second).String()})
		}
		if codec := info.VideoCodec(); codec != "" {
			rows = append(rows, [2]string{"Codec", codec})
		}
		if w, h, ok := info.VideoResolution(); ok {
			rows = append(rows, [2]string{"Dimensions", fmt.Sprintf("%dx%d", w, h)})
		}
	}
	if m.converting() {
		rows = append(rows, [2]string{"Progress", fmt.Sprintf("%d%% (%s)", m.lastEvent.Percent, stageOrStarting(m.lastEvent.Stage))})
	}

	for _, row := range rows {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%-11s", row[0])))
		b.WriteString(" ")
		b.WriteString(itemStyle.Render(row[1]))
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewHelp() string {
	rows := [][2]string{
		{"up/down", "move the selection"},
		{"enter", "open directory, confirm choice"},
		{"left/right", "change the focused setting"},
		{"tab", "next section (shift+tab back)"},
		{"p", "details popup while converting or complete"},
		{"n", "start over after a finished run"},
		{"q / esc", "cancel while converting, quit otherwise"},
		{"?", "toggle this help"},
	}
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%-16s", row[0])))
		b.WriteString(faintStyle.Render(row[1]))
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewFooter() string {
	hint := ""
	switch {
	case m.showHelp:
		hint = "esc close · tab next section"
	case m.showPopup:
		hint = "p/esc close"
	case m.converting():
		hint = "q/esc cancel · p details · tab sections · ? help"
	default:
		switch m.screen {
		case ScreenBrowsing:
			hint = "enter open/choose · tab sections · q quit · ? help"
		case ScreenFormat:
			hint = "up/down format · enter confirm · q quit"
		case ScreenSettings:
			hint = "left/right change · up/down row · enter start · q quit"
		case ScreenComplete:
			hint = "n new conversion · p details · q quit"
		case ScreenError:
			hint = "n new conversion · q quit"
		}
	}
	footer := faintStyle.Render(hint)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}
	return footer
}

func stageOrStarting(stage convert.Stage) string {
	if stage == "" {
		return "Starting"
	}
	return stage.Label()
}
