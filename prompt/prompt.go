// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package prompt asks the user to choose the root directory in a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go.astrophena.name/reheader/cli"
)

// ErrCanceled is returned by [ChooseDir] when the user cancels the prompt.
var ErrCanceled = errors.New("directory selection canceled")

// Interactive reports whether env allows prompting: both standard input and
// standard output are terminals, and neither CI nor REHEADER_NON_INTERACTIVE
// is set.
func Interactive(env *cli.Env) bool {
	if env.Lookup("CI") != "" || env.Lookup("REHEADER_NON_INTERACTIVE") != "" {
		return false
	}
	return cli.Terminal(env.Stdin) && cli.Terminal(env.Stdout)
}

// ChooseDir shows a prompt, prefilled with start, that lets the user type a
// directory path with Tab completion. It returns the absolute path of the
// chosen directory.
func ChooseDir(ctx context.Context, in io.Reader, out io.Writer, start string) (string, error) {
	p := tea.NewProgram(newModel(start),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(model)
	if m.canceled {
		return "", ErrCanceled
	}
	return m.chosen, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	input     textinput.Model
	completer *completer
	err       error
	chosen    string
	canceled  bool
}

func newModel(start string) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "path/to/test/cases"
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(start)
	ti.CursorEnd()
	ti.Focus()
	return model{input: ti, completer: new(completer)}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		case tea.KeyTab:
			m.input.SetValue(m.completer.complete(m.input.Value()))
			m.input.CursorEnd()
			m.err = nil
			return m, nil
		case tea.KeyEnter:
			dir, err := checkDir(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.chosen = dir
			return m, tea.Quit
		}
		m.completer.reset()
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.chosen != "" || m.canceled {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Select the root directory of the test cases"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab: complete • enter: select • esc: cancel"))
	sb.WriteString("\n")
	return sb.String()
}

func checkDir(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("enter a directory")
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == filepath.Separator) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + rest
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return filepath.Abs(path)
}
