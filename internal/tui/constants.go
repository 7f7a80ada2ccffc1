package tui

// Constants for TUI configuration
const (
	// DefaultFieldWidth is the width of the field box before the first resize
	DefaultFieldWidth = 72

	// Status messages
	ReadingMsg    = "Reading changes..."
	GeneratingMsg = "Generating commit message..."
	CancelledMsg  = "Generation stopped."
	CompletedMsg  = "✓ Commit message ready"
)
