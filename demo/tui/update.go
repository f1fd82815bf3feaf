package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthMsg:
		return m.handleHealth(msg)
	case SubmitCompleteMsg:
		return m.handleSubmitComplete(msg)
	case TickMsg:
		return m.handleTick(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s", "S":
		if m.State == StateSubmitting || len(m.Tags) == 0 {
			return m, nil
		}
		m = m.startSubmission("single")
		m = m.AddLog(fmt.Sprintf("Submitting %s overlay for %s", m.Tags[0], m.LabelName))
		return m, submitOverlay(m.Client, OverlayRequest{
			SourceURL:   m.SourceURL,
			LabelName:   m.LabelName,
			PlatformTag: m.Tags[0],
		})
	case "b", "B":
		if m.State == StateSubmitting || len(m.Tags) == 0 {
			return m, nil
		}
		m = m.startSubmission("batch")
		m = m.AddLog(fmt.Sprintf("Submitting batch for %s: %s", m.LabelName, strings.Join(m.Tags, ", ")))
		return m, submitBatch(m.Client, BatchOverlayRequest{
			SourceURL:    m.SourceURL,
			LabelName:    m.LabelName,
			PlatformTags: m.Tags,
		})
	}
	return m, nil
}

// startSubmission resets per-job state before a new submission
func (m Model) startSubmission(mode string) Model {
	m.State = StateSubmitting
	m.Mode = mode
	m.Results = nil
	m.Err = nil
	m.StartedAt = time.Now()
	m.Elapsed = 0
	return m
}

// handleHealth processes the startup liveness probe result
func (m Model) handleHealth(msg HealthMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m = m.AddLog("Service not reachable: " + msg.Err.Error())
		return m, nil
	}
	m.Connected = true
	m = m.AddLog("Connected to overlay service")
	return m, nil
}

// handleSubmitComplete processes a finished submission
func (m Model) handleSubmitComplete(msg SubmitCompleteMsg) (tea.Model, tea.Cmd) {
	m.Elapsed = time.Since(m.StartedAt)
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		m = m.AddLog("Submission failed: " + msg.Err.Error())
		return m, nil
	}
	m.State = StateDone
	m.Results = msg.Results
	m = m.AddLog(fmt.Sprintf("Published %d overlay(s)", len(msg.Results)))
	return m, nil
}

// handleTick refreshes the elapsed timer and schedules the next tick
func (m Model) handleTick(TickMsg) (tea.Model, tea.Cmd) {
	if m.State == StateSubmitting {
		m.Elapsed = time.Since(m.StartedAt)
	}
	return m, tickCmd()
}
