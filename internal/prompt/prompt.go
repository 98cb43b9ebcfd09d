// Package prompt asks the user for a yes/no confirmation in the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ConfirmModel is a single-keystroke y/N question. Anything but y answers no.
type ConfirmModel struct {
	Question string
	Answered bool
	Yes      bool
}

// NewConfirm returns a model asking question.
func NewConfirm(question string) ConfirmModel {
	return ConfirmModel{Question: question}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles events.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.Yes = true
	case "n", "N", "enter", "esc", "ctrl+c", "q":
		m.Yes = false
	default:
		return m, nil
	}
	m.Answered = true

	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.Answered {
		answer := "n"
		if m.Yes {
			answer = "y"
		}
		return fmt.Sprintf("%s [y/N]: %s\n", m.Question, answer)
	}
	return fmt.Sprintf("%s [y/N]: ", m.Question)
}

// Confirm asks question on out and reports whether the user said yes. A
// terminal gets a single-keystroke prompt; any other input is read as one
// line, and end of input counts as no.
func Confirm(question string, in io.Reader, out io.Writer) (bool, error) {
	if !isTerminal(in) {
		return confirmLine(question, in, out)
	}

	p := tea.NewProgram(NewConfirm(question), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	m, ok := final.(ConfirmModel)
	return ok && m.Yes, nil
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func confirmLine(question string, in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	fmt.Fprintln(out)

	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
