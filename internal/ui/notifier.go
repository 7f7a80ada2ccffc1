package ui

// ProgressNotifier shows user messages as the outcome of a progress
// indicator. A running spinner is stopped before the message is printed.
type ProgressNotifier struct {
	progress ProgressIndicator
}

// NewProgressNotifier creates a notifier reporting through p
func NewProgressNotifier(p ProgressIndicator) *ProgressNotifier {
	return &ProgressNotifier{progress: p}
}

func (n *ProgressNotifier) Info(msg string) {
	n.progress.Success(msg)
}

func (n *ProgressNotifier) Warning(msg string) {
	n.progress.Warning(msg)
}

func (n *ProgressNotifier) Error(msg string) {
	n.progress.Failure(msg)
}
