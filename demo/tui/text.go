package tui

// UI Text Constants
const (
	// Instructions
	TextStartInstruction = "Press 's' to submit a single overlay, 'b' for a batch"

	// Footer
	TextFooterIdle       = "Press 's' for single | 'b' for batch | 'q' or Ctrl+C to quit"
	TextFooterSubmitting = "Rendering in progress... | Press 'q' or Ctrl+C to quit"
	TextFooterDone       = "Press 's' or 'b' to submit again | 'q' or Ctrl+C to quit"
)
