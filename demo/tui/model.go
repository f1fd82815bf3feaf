package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State represents the demo client state machine
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateError      State = "error"
)

// OverlayResult is one published rendition as returned by the service
type OverlayResult struct {
	PlatformTag string `json:"platform_tag"`
	URL         string `json:"url"`
}

// Model represents the TUI client state (thin client)
type Model struct {
	// Overlay service client
	Client *APIClient

	// Job parameters from flags
	SourceURL string
	LabelName string
	Tags      []string

	// Local UI state
	State     State
	Mode      string // "single" or "batch"
	Results   []OverlayResult
	Err       error
	Logs      []string
	StartedAt time.Time
	Elapsed   time.Duration

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model
func NewModel(baseURL, sourceURL, labelName string, tags []string) Model {
	return Model{
		Client:    NewAPIClient(baseURL),
		SourceURL: sourceURL,
		LabelName: labelName,
		Tags:      tags,
		State:     StateIdle,
		Logs:      make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkHealth(m.Client),
		tickCmd(),
	)
}

// AddLog appends a line to the activity log, keeping the most recent entries
func (m Model) AddLog(line string) Model {
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > 6 {
		m.Logs = m.Logs[len(m.Logs)-6:]
	}
	return m
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		ready := HighlightStyle.Render("👋 Ready to submit!") + "\n\n" +
			InfoStyle.Render(TextStartInstruction)
		if !m.Connected {
			ready += "\n" + ErrorStyle.Render("⚠ Service not reachable yet")
		}
		return ready
	case StateSubmitting:
		return StatusStyle.Render(fmt.Sprintf("⏳ Rendering %s overlay... %s",
			m.Mode, m.Elapsed.Round(time.Second)))
	case StateDone:
		return HighlightStyle.Render("✅ PUBLISHED")
	case StateError:
		errMsg := "unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render("❌ Error: " + errMsg)
	default:
		return ""
	}
}

// formatResults formats the published renditions for display
func (m Model) formatResults() string {
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Published Overlays"))
	b.WriteString("\n\n")

	for _, r := range m.Results {
		b.WriteString(StatusStyle.Render(r.PlatformTag))
		b.WriteString("\n")
		b.WriteString(URLStyle.Render(r.URL))
		b.WriteString("\n\n")
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Completed in %s", m.Elapsed.Round(time.Second))))

	return b.String()
}
