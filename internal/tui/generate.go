package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jasonKoogler/zcommit/internal/commit"
)

type keyMap struct {
	Stop key.Binding
}

var keys = keyMap{
	Stop: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "stop generating"),
	),
}

// GenerateModel renders the commit message field while a generation runs
type GenerateModel struct {
	field    string
	state    commit.State
	notices  []noticeMsg
	result   *commit.Result
	stopping bool
	cancel   func()
	help     help.Model
	theme    Theme
	width    int
}

// NewGenerateModel creates the view; cancel is called when the user stops
func NewGenerateModel(cancel func()) GenerateModel {
	return GenerateModel{
		cancel: cancel,
		help:   help.New(),
		theme:  DefaultTheme(),
		width:  DefaultFieldWidth,
	}
}

// Init implements tea.Model
func (m GenerateModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.help.Width = msg.Width

	case fieldMsg:
		m.field = string(msg)

	case stateMsg:
		m.state = commit.State(msg)

	case noticeMsg:
		m.notices = append(m.notices, msg)

	case doneMsg:
		res := commit.Result(msg)
		m.result = &res
		m.state = res.State
		if res.State == commit.Completed {
			m.field = res.Message
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, keys.Stop) && m.result == nil && !m.stopping {
			m.stopping = true
			// Cancel waits for the animation goroutine, which may be
			// blocked sending to this loop; run it off the loop.
			cancel := m.cancel
			return m, func() tea.Msg {
				if cancel != nil {
					cancel()
				}
				return nil
			}
		}
	}
	return m, nil
}

// View implements tea.Model
func (m GenerateModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("zcommit"))
	b.WriteString("  ")
	b.WriteString(RenderStatusLine(m.theme, []string{m.status()}))
	b.WriteString("\n")

	box := m.theme.InactiveBorder
	if m.state == commit.Generating {
		box = m.theme.ActiveBorder
	}
	field := m.field
	if field == "" {
		field = m.theme.Subtle.Render("Message")
	}
	b.WriteString(box.Width(m.width).Render(field))
	b.WriteString("\n")

	for _, n := range m.notices {
		b.WriteString(renderNotice(m.theme, n))
		b.WriteString("\n")
		if n.level == levelError && m.result != nil {
			if hint := Suggestion(m.result.Err); hint != "" {
				b.WriteString(m.theme.Subtle.Render(hint))
				b.WriteString("\n")
			}
		}
	}

	if m.state == commit.Generating && !m.stopping {
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Stop}))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the generation result once the program finished
func (m GenerateModel) Result() (commit.Result, bool) {
	if m.result == nil {
		return commit.Result{}, false
	}
	return *m.result, true
}

func (m GenerateModel) status() string {
	switch {
	case m.stopping && m.result == nil:
		return "Stopping..."
	case m.state == commit.AwaitingDiff:
		return ReadingMsg
	case m.state == commit.Generating:
		return GeneratingMsg
	case m.state == commit.Cancelled:
		return CancelledMsg
	case m.state == commit.Completed:
		return CompletedMsg
	case m.state == commit.Failed:
		return "Generation failed"
	default:
		return "Idle"
	}
}
