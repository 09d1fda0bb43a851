package demo_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/orchestration"
	"github.com/livingtwin/cascade/pkg/script"
)

var speakerColors = map[script.Speaker]lipgloss.AdaptiveColor{
	script.SpeakerTwin:          {Light: "36", Dark: "86"},
	script.SpeakerCEO:           {Light: "127", Dark: "213"},
	script.SpeakerVPSales:       {Light: "28", Dark: "114"},
	script.SpeakerVPEngineering: {Light: "26", Dark: "75"},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	shellStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
	narrationStyle = lipgloss.NewStyle().Italic(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
	promptStyle    = lipgloss.NewStyle().Bold(true)
	ctaStyle       = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 3).
			Bold(true)
)

func contentWidth(width int) int {
	w := width - 8
	if w < 40 {
		w = 40
	}
	return w
}

// View renders the active persona's view shell: styled header, narration,
// playback status, and key hints.
func (m Model) View() string {
	if m.quitting {
		return "Thanks for watching the cascade demo.\n"
	}

	width := contentWidth(m.width)
	snap := m.snap

	accent := speakerColors[snap.Speaker]
	header := headerStyle.
		Background(accent).
		Foreground(lipgloss.Color("0")).
		Render(fmt.Sprintf("%s · %s", snap.Speaker.Label(), snap.StageTitle))
	stagePos := statusStyle.Render(fmt.Sprintf("stage %d/%d · %s", snap.StageIndex+1, snap.NumStages, modeLabel(snap.Mode)))
	top := lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", stagePos)

	narration := narrationStyle.Width(width - 6).Render("“" + snap.SegmentText + "”")

	var status string
	switch {
	case m.complete:
		status = ""
	case snap.Status == orchestration.StatusPlaying:
		status = m.spinner.View() + statusStyle.Render(" speaking…")
	case snap.Status == orchestration.StatusAwaitingAdvance:
		status = promptStyle.Foreground(accent).Render("⏎ press space to decide")
	case snap.Status == orchestration.StatusCompleted:
		status = statusStyle.Render("press space to continue")
	default:
		status = statusStyle.Render(string(snap.Status))
	}

	var bar string
	if snap.NumSegments > 0 {
		pct := float64(snap.SegmentIndex) / float64(snap.NumSegments)
		if pct > 1 {
			pct = 1
		}
		bar = m.progress.ViewAs(pct)
	}

	shell := shellStyle.
		BorderForeground(accent).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, narration, "", status, bar))

	sections := []string{top, "", shell}

	if m.complete {
		sections = append(sections, "",
			ctaStyle.Render("Demo complete. See how this decision cascades live\nwith your own organization's Digital Twin."))
	}

	sections = append(sections, "", m.help.View(m.keys))

	return lipgloss.NewStyle().Margin(1, 2).Render(strings.Join(sections, "\n"))
}

func modeLabel(mode audio.Mode) string {
	if mode == audio.ModeLiveVoice {
		return "live voice"
	}
	return "pre-recorded"
}
