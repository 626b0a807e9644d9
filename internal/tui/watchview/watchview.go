// Package watchview renders the live watch-mode dashboard: a small
// bubbletea view showing the watched file, how many runs have completed,
// and the stats or error of the most recent one.
package watchview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/alignr/internal/align"
)

// RunMsg reports one completed alignment run to the dashboard.
type RunMsg struct {
	Stats   align.Stats
	Err     error
	Elapsed time.Duration
	Time    time.Time
}

// doneMsg is delivered when the run channel closes.
type doneMsg struct{}

// KeyMap defines the dashboard keybindings.
type KeyMap struct {
	Quit key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Model is the watch dashboard model.
type Model struct {
	path     string
	runs     <-chan RunMsg
	spinner  spinner.Model
	keys     KeyMap
	count    int
	last     *RunMsg
	width    int
	quitting bool
}

// New builds a dashboard for path fed by runs. Closing runs ends the
// program.
func New(path string, runs <-chan RunMsg) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return Model{
		path:    path,
		runs:    runs,
		spinner: sp,
		keys:    defaultKeyMap(),
	}
}

func waitForRun(runs <-chan RunMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-runs
		if !ok {
			return doneMsg{}
		}
		return msg
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForRun(m.runs))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case RunMsg:
		m.count++
		m.last = &msg
		return m, waitForRun(m.runs)

	case doneMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := titleStyle.Render("alignr watch") + "  " + dimStyle.Render(m.path) + "\n\n"
	body += fmt.Sprintf("%s waiting for changes  %s\n",
		m.spinner.View(),
		dimStyle.Render(fmt.Sprintf("%d runs", m.count)))

	if m.last != nil {
		if m.last.Err != nil {
			body += "\n" + errorStyle.Render("last run failed: "+m.last.Err.Error()) + "\n"
		} else {
			body += fmt.Sprintf("\nlast run  %s lines  %s aligned  %s overflow  %s\n",
				statStyle.Render(fmt.Sprintf("%d", m.last.Stats.Lines)),
				statStyle.Render(fmt.Sprintf("%d", m.last.Stats.Aligned)),
				statStyle.Render(fmt.Sprintf("%d", m.last.Stats.Overflowed)),
				dimStyle.Render(m.last.Elapsed.Round(time.Microsecond).String()))
		}
		body += dimStyle.Render("at " + m.last.Time.Format("15:04:05"))
	}

	body += "\n\n" + dimStyle.Render("q to quit")
	return borderStyle.Render(body) + "\n"
}
