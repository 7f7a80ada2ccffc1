package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jasonKoogler/zcommit/internal/commit"
	"github.com/jasonKoogler/zcommit/internal/scm"
)

// Program runs one generation inside a bubbletea program. Build it first,
// hand its Field, Notifier and Observe to the service, then call Run.
type Program struct {
	opts []tea.ProgramOption
	p    *tea.Program
}

// NewProgram creates a program with the given bubbletea options
func NewProgram(opts ...tea.ProgramOption) *Program {
	return &Program{opts: opts}
}

// Field mirrors every write to the commit message field into the view
func (pr *Program) Field(box scm.InputBox) scm.InputBox {
	return scm.InputBoxFunc(func(ctx context.Context, value string) error {
		if err := box.SetValue(ctx, value); err != nil {
			return err
		}
		pr.send(fieldMsg(value))
		return nil
	})
}

// Notifier returns a commit.Notifier that shows messages in the view
func (pr *Program) Notifier() commit.Notifier {
	return programNotifier{pr}
}

// Observe forwards state changes to the view
func (pr *Program) Observe(st commit.State) {
	pr.send(stateMsg(st))
}

// Run starts generate in the background and blocks until it finished and
// the view exited. cancel is invoked when the user presses the stop key.
func (pr *Program) Run(generate func() commit.Result, cancel func()) (commit.Result, error) {
	pr.p = tea.NewProgram(NewGenerateModel(cancel), pr.opts...)

	results := make(chan commit.Result, 1)
	go func() {
		res := generate()
		results <- res
		pr.send(doneMsg(res))
	}()

	_, err := pr.p.Run()
	if err != nil {
		// The view died; stop the generation so it does not outlive us
		if cancel != nil {
			cancel()
		}
	}
	return <-results, err
}

func (pr *Program) send(msg tea.Msg) {
	if pr.p != nil {
		pr.p.Send(msg)
	}
}

type programNotifier struct {
	pr *Program
}

func (n programNotifier) Info(msg string)    { n.pr.send(noticeMsg{levelInfo, msg}) }
func (n programNotifier) Warning(msg string) { n.pr.send(noticeMsg{levelWarning, msg}) }
func (n programNotifier) Error(msg string)   { n.pr.send(noticeMsg{levelError, msg}) }
