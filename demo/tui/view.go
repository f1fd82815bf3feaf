package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🎬 Banner Overlay Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Job parameters
	params := fmt.Sprintf("🎞  Source: %s\n🏷  Label:  %s\n📱 Tags:   %s",
		m.SourceURL, m.LabelName, strings.Join(m.Tags, ", "))
	b.WriteString(InfoStyle.Render(params))
	b.WriteString("\n\n")

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Results
	if m.State == StateDone && len(m.Results) > 0 {
		b.WriteString(BoxStyle.Render(m.formatResults()))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateSubmitting:
		b.WriteString(InfoStyle.Render(TextFooterSubmitting))
	case StateDone, StateError:
		b.WriteString(InfoStyle.Render(TextFooterDone))
	default:
		b.WriteString(InfoStyle.Render(TextFooterIdle))
	}

	return b.String()
}
