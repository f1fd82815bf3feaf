package tui

import "time"

// Messages for the tea program

// HealthMsg reports whether the service answered the liveness probe
type HealthMsg struct {
	Err error
}

// SubmitCompleteMsg is sent when a submission finishes
type SubmitCompleteMsg struct {
	Results []OverlayResult
	Err     error
}

// TickMsg is sent periodically to refresh the elapsed timer
type TickMsg struct {
	Time time.Time
}
