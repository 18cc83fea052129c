// Package tui provides an interactive terminal interface for asking
// questions against the indexed corpus.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samarth-labs/samarth-cli/internal/adapters/driving/tui/styles"
	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driving"
)

// askTimeout bounds a single question round-trip, including generation.
const askTimeout = 60 * time.Second

// answerMsg carries a completed answer back to the update loop.
type answerMsg struct {
	question string
	answer   domain.Answer
}

// errorMsg carries a failed question back to the update loop.
type errorMsg struct {
	err error
}

// Model is the root bubbletea model for the ask interface.
type Model struct {
	queries    driving.QueryService
	maxResults int
	styles     *styles.Styles

	input   textinput.Model
	spinner spinner.Model

	asking   bool
	question string
	answer   *domain.Answer
	err      error
	width    int
}

// NewModel creates the ask model. maxResults bounds the context passed to
// generation.
func NewModel(queries driving.QueryService, maxResults int) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about crops, schemes, weather or soil..."
	ti.CharLimit = 512
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		queries:    queries,
		maxResults: maxResults,
		styles:     styles.DefaultStyles(),
		input:      ti,
		spinner:    sp,
		width:      80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.asking {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.asking = true
			m.question = question
			m.answer = nil
			m.err = nil
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerMsg:
		m.asking = false
		m.question = msg.question
		answer := msg.answer
		m.answer = &answer
		return m, nil

	case errorMsg:
		m.asking = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.asking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask returns a command that runs the query pipeline off the update loop.
func (m Model) ask(question string) tea.Cmd {
	queries := m.queries
	maxResults := m.maxResults
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()

		answer, err := queries.Ask(ctx, question, maxResults)
		if err != nil {
			return errorMsg{err: err}
		}
		return answerMsg{question: question, answer: answer}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Samarth"))
	b.WriteString(m.styles.Muted.Render("  ask the agricultural corpus"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.InputField.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.asking:
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" thinking..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.answer != nil:
		b.WriteString(m.renderAnswer())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter ask · esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderAnswer() string {
	var b strings.Builder

	b.WriteString(m.styles.Muted.Render("Q: " + m.question))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Answer.Render(wrap(m.answer.Text, m.width-2)))
	b.WriteString("\n")

	if len(m.answer.Citations) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Citation.Render("Sources"))
		b.WriteString("\n")
		for _, c := range m.answer.Citations {
			line := fmt.Sprintf("  [%d] %s (%s)", c.ID, c.Source, c.Reliability)
			if c.Year != nil {
				line += fmt.Sprintf(", %d", *c.Year)
			}
			b.WriteString(m.styles.Citation.Render(line))
			b.WriteString("\n")
			if c.URL != "" {
				b.WriteString(m.styles.Muted.Render("      " + c.URL))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Confidence.Render(fmt.Sprintf("Confidence: %.2f", m.answer.Confidence)))
	if m.answer.Degraded {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("Generation backend unavailable, answer assembled from sources."))
	}
	b.WriteString("\n")

	return b.String()
}

// wrap breaks text at word boundaries to fit the given width.
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		if i > 0 {
			if lineLen+1+len(word) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
