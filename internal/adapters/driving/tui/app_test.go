package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarth-labs/samarth-cli/internal/core/domain"
)

type mockQueryService struct {
	answer       domain.Answer
	err          error
	lastQuestion string
	lastMax      int
}

func (m *mockQueryService) Ask(_ context.Context, question string, maxResults int) (domain.Answer, error) {
	m.lastQuestion = question
	m.lastMax = maxResults
	return m.answer, m.err
}

func (m *mockQueryService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievalCandidate, error) {
	return nil, m.err
}

func intPtr(v int) *int { return &v }

func TestNewModel(t *testing.T) {
	svc := &mockQueryService{}
	m := NewModel(svc, 5)

	assert.Equal(t, 5, m.maxResults)
	assert.False(t, m.asking)
	assert.NotNil(t, m.styles)
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)

	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_EnterWithEmptyInputDoesNothing(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, updated.(Model).asking)
}

func TestModel_EnterSubmitsQuestion(t *testing.T) {
	svc := &mockQueryService{answer: domain.Answer{Text: "Wheat grows in winter."}}
	m := NewModel(svc, 3)
	m.input.SetValue("  when does wheat grow?  ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	model := updated.(Model)
	assert.True(t, model.asking)
	assert.Equal(t, "when does wheat grow?", model.question)
	assert.Empty(t, model.input.Value())
}

func TestModel_AskCommandCallsService(t *testing.T) {
	svc := &mockQueryService{answer: domain.Answer{Text: "Rabi season."}}
	m := NewModel(svc, 3)

	msg := m.ask("when does wheat grow?")()

	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "when does wheat grow?", svc.lastQuestion)
	assert.Equal(t, 3, svc.lastMax)
	assert.Equal(t, "Rabi season.", answer.answer.Text)
}

func TestModel_AskCommandReturnsError(t *testing.T) {
	svc := &mockQueryService{err: errors.New("backend down")}
	m := NewModel(svc, 3)

	msg := m.ask("anything")()

	errMsg, ok := msg.(errorMsg)
	require.True(t, ok)
	assert.ErrorContains(t, errMsg.err, "backend down")
}

func TestModel_AnswerMsgStopsAsking(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.asking = true

	updated, _ := m.Update(answerMsg{
		question: "q",
		answer:   domain.Answer{Text: "a", Confidence: 0.8},
	})

	model := updated.(Model)
	assert.False(t, model.asking)
	require.NotNil(t, model.answer)
	assert.Equal(t, "a", model.answer.Text)
}

func TestModel_ErrorMsgStopsAsking(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.asking = true

	updated, _ := m.Update(errorMsg{err: errors.New("boom")})

	model := updated.(Model)
	assert.False(t, model.asking)
	require.Error(t, model.err)
}

func TestModel_ViewShowsAnswerAndCitations(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.question = "what is PM-KISAN?"
	m.answer = &domain.Answer{
		Text:       "PM-KISAN is an income support scheme [1].",
		Confidence: 0.91,
		Citations: []domain.Citation{
			{
				ID:          1,
				Source:      "government_policy",
				Reliability: "High",
				Year:        intPtr(2019),
				URL:         "https://pmkisan.gov.in",
			},
		},
	}

	view := m.View()

	assert.Contains(t, view, "income support scheme")
	assert.Contains(t, view, "[1] government_policy (High), 2019")
	assert.Contains(t, view, "https://pmkisan.gov.in")
	assert.Contains(t, view, "Confidence: 0.91")
}

func TestModel_ViewShowsDegradedNote(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.answer = &domain.Answer{Text: "fallback", Degraded: true}

	view := m.View()

	assert.Contains(t, view, "Generation backend unavailable")
}

func TestModel_ViewShowsError(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.err = errors.New("no index")

	view := m.View()

	assert.Contains(t, view, "error: no index")
}

func TestModel_ViewWhileAsking(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)
	m.asking = true

	view := m.View()

	assert.Contains(t, view, "thinking")
}

func TestModel_WindowSizeResizesInput(t *testing.T) {
	m := NewModel(&mockQueryService{}, 5)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	model := updated.(Model)
	assert.Equal(t, 120, model.width)
	assert.Equal(t, 114, model.input.Width)
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("word ", 20)

	wrapped := wrap(strings.TrimSpace(text), 25)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 25)
	}
	assert.Equal(t, strings.TrimSpace(text), strings.ReplaceAll(wrapped, "\n", " "))
}
