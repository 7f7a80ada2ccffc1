// internal/ui/progress.go
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// ProgressIndicator provides a unified interface for various progress indicators
type ProgressIndicator interface {
	Start(message string)
	Success(message string)
	Failure(message string)
	Warning(message string)
	Stop()
}

var (
	successMark = color.New(color.FgGreen, color.Bold).SprintFunc()
	failureMark = color.New(color.FgRed, color.Bold).SprintFunc()
	warningMark = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// SpinnerProgress implements a spinner-based progress indicator
type SpinnerProgress struct {
	spinner *spinner.Spinner
	mu      sync.Mutex
	writer  io.Writer
}

// NewSpinnerProgress creates a new spinner progress indicator on w
func NewSpinnerProgress(w io.Writer) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))

	return &SpinnerProgress{
		spinner: s,
		writer:  w,
	}
}

// Start begins the progress indicator with an initial message
func (p *SpinnerProgress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinner.Suffix = " " + message
	p.spinner.Start()
}

// Success stops the spinner and shows a success message
func (p *SpinnerProgress) Success(message string) {
	p.finish(successMark("✓"), message)
}

// Failure stops the spinner and shows a failure message
func (p *SpinnerProgress) Failure(message string) {
	p.finish(failureMark("✗"), message)
}

// Warning stops the spinner and shows a warning message
func (p *SpinnerProgress) Warning(message string) {
	p.finish(warningMark("!"), message)
}

// Stop halts the spinner
func (p *SpinnerProgress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinner.Stop()
}

func (p *SpinnerProgress) finish(mark, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinner.Stop()
	fmt.Fprintf(p.writer, "%s %s\n", mark, message)
}

// SimpleProgress implements a simple text-based progress indicator
type SimpleProgress struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewSimpleProgress creates a new simple text progress indicator on w
func NewSimpleProgress(w io.Writer) *SimpleProgress {
	return &SimpleProgress{
		writer: w,
	}
}

// Start begins the progress with an initial message
func (p *SimpleProgress) Start(message string) {
	p.printf("▶ %s...\n", message)
}

// Success prints a success message
func (p *SimpleProgress) Success(message string) {
	p.printf("%s %s\n", successMark("✓"), message)
}

// Failure prints a failure message
func (p *SimpleProgress) Failure(message string) {
	p.printf("%s %s\n", failureMark("✗"), message)
}

// Warning prints a warning message
func (p *SimpleProgress) Warning(message string) {
	p.printf("%s %s\n", warningMark("!"), message)
}

// Stop is a no-op for SimpleProgress
func (p *SimpleProgress) Stop() {}

func (p *SimpleProgress) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, format, args...)
}

// CreateProgress creates the appropriate progress indicator for stderr
func CreateProgress(interactive bool) ProgressIndicator {
	if interactive && IsTerminal(os.Stderr) {
		return NewSpinnerProgress(os.Stderr)
	}
	return NewSimpleProgress(os.Stderr)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FormatTable formats data as a table
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				continue
			}
			fmt.Fprintf(&sb, "%-*s", widths[i]+2, cell)
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width) + "  ")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}
