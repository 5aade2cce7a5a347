package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qutlas/solidcore/facade"
	"github.com/qutlas/solidcore/resource"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <model>...",
	Short: "Interactively browse and combine loaded models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.shutdown()

		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}

		p := tea.NewProgram(newInspectModel(s, args, width), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	originStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F87AF"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectState int

const (
	stateBrowse inspectState = iota
	stateInputTolerance
	stateShowResult
)

type handleRow struct {
	handle resource.Handle
	origin string
}

type inspectModel struct {
	session  *session
	files    []string
	width    int
	rows     []handleRow
	selected int
	marked   resource.Handle
	pendOp   string
	tolInput textinput.Model
	result   string
	err      error
	state    inspectState
}

func newInspectModel(s *session, files []string, width int) *inspectModel {
	return &inspectModel{session: s, files: files, width: width}
}

type loadedMsg struct {
	err error
}

type opResultMsg struct {
	err    error
	result string
}

func (m *inspectModel) Init() tea.Cmd {
	return m.loadFiles
}

func (m *inspectModel) loadFiles() tea.Msg {
	for _, path := range m.files {
		if _, err := m.session.loadFile(path); err != nil {
			return loadedMsg{err: err}
		}
	}
	return loadedMsg{}
}

// refresh re-reads the registry into the display rows.
func (m *inspectModel) refresh() {
	m.rows = m.rows[:0]
	m.session.facade.Registry().Each(func(h resource.Handle, e facade.Entry) bool {
		m.rows = append(m.rows, handleRow{handle: h, origin: e.Origin})
		return true
	})
	sort.Slice(m.rows, func(i, j int) bool { return m.rows[i].handle < m.rows[j].handle })
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.rows)-1 {
				m.selected++
			}

		case " ":
			if m.state == stateBrowse && len(m.rows) > 0 {
				m.marked = m.rows[m.selected].handle
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.rows) > 0 {
					return m, m.showBounds
				}
			case stateInputTolerance:
				return m, m.runBoolean
			case stateShowResult:
				m.state = stateBrowse
				m.result = ""
				m.err = nil
			}

		case "u", "c", "n":
			if m.state == stateBrowse && m.marked != 0 && len(m.rows) > 0 {
				m.pendOp = map[string]string{"u": "union", "c": "cut", "n": "common"}[msg.String()]
				m.tolInput = textinput.New()
				m.tolInput.Prompt = "tolerance: "
				m.tolInput.SetValue(fmt.Sprintf("%g", m.session.tolerance))
				m.tolInput.Focus()
				m.state = stateInputTolerance
			}

		case "f":
			if m.state == stateBrowse && len(m.rows) > 0 {
				return m, m.runFillet
			}

		case "x":
			if m.state == stateBrowse && len(m.rows) > 0 {
				h := m.rows[m.selected].handle
				if err := m.session.facade.Release(h); err != nil {
					m.err = err
					m.state = stateShowResult
				} else {
					if m.marked == h {
						m.marked = 0
					}
					m.refresh()
				}
			}

		case "esc":
			if m.state != stateBrowse {
				m.state = stateBrowse
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.refresh()

	case opResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.refresh()
		m.state = stateShowResult
	}

	if m.state == stateInputTolerance {
		var cmd tea.Cmd
		m.tolInput, cmd = m.tolInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *inspectModel) showBounds() tea.Msg {
	h := m.rows[m.selected].handle
	b, err := m.session.facade.Bounds(h)
	if err != nil {
		return opResultMsg{err: err}
	}
	return opResultMsg{result: fmt.Sprintf(
		"min %g %g %g\nmax %g %g %g",
		b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ)}
}

func (m *inspectModel) runBoolean() tea.Msg {
	tolerance := m.session.tolerance
	if v := strings.TrimSpace(m.tolInput.Value()); v != "" {
		if _, err := fmt.Sscanf(v, "%g", &tolerance); err != nil {
			return opResultMsg{err: fmt.Errorf("bad tolerance %q: %w", v, err)}
		}
	}

	target := m.rows[m.selected].handle
	h, err := m.session.facade.Boolean(target, m.marked, m.pendOp, tolerance)
	if err != nil {
		return opResultMsg{err: err}
	}
	return opResultMsg{result: fmt.Sprintf("%s -> handle %d", m.pendOp, h)}
}

func (m *inspectModel) runFillet() tea.Msg {
	target := m.rows[m.selected].handle
	h, err := m.session.facade.Fillet(target, nil, 0.1, m.session.tolerance)
	if err != nil {
		return opResultMsg{err: err}
	}
	return opResultMsg{result: fmt.Sprintf("fillet -> handle %d", h)}
}

func (m *inspectModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if len(m.rows) == 0 {
		return "Loading models..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("solidcore registry"))
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		for i, row := range m.rows {
			line := fmt.Sprintf("%s  %s",
				handleStyle.Render(fmt.Sprintf("#%d", row.handle)),
				originStyle.Render(row.origin))
			if row.handle == m.marked {
				line += " [tool]"
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(
			"enter bounds • space mark tool • u/c/n union/cut/common • f fillet • x release • q quit"))

	case stateInputTolerance:
		b.WriteString(fmt.Sprintf("%s of #%d with tool #%d\n\n",
			m.pendOp, m.rows[m.selected].handle, m.marked))
		b.WriteString(m.tolInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}
