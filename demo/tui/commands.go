package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// checkHealth creates a command probing the service once at startup
func checkHealth(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Err: client.Health()}
	}
}

// submitOverlay creates a command running a single overlay job
func submitOverlay(client *APIClient, req OverlayRequest) tea.Cmd {
	return func() tea.Msg {
		results, err := client.SubmitOverlay(req)
		return SubmitCompleteMsg{Results: results, Err: err}
	}
}

// submitBatch creates a command running a batch of overlay jobs
func submitBatch(client *APIClient, req BatchOverlayRequest) tea.Cmd {
	return func() tea.Msg {
		results, err := client.SubmitBatch(req)
		return SubmitCompleteMsg{Results: results, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for the elapsed timer
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
