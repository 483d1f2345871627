package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"questions/internal/domain"
	"questions/internal/normalize"
)

// AnswerPort is the TUI-facing subset of the QA service.
type AnswerPort interface {
	Answer(ctx context.Context, query string) (domain.Answer, error)
}

// Segmenter maps text back to the normalized tokens it contains, so the
// highlighted words are exactly the ones ranking matched.
type Segmenter interface {
	Segments(text string) []normalize.Segment
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx       context.Context
	service   AnswerPort
	segmenter Segmenter
	input     textinput.Model
	viewport  viewport.Model
	answer    domain.Answer
	summary   string
	status    string
	cursor    int
	ready     bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, service AnswerPort, segmenter Segmenter, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "Query: "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, service: service, segmenter: segmenter, input: ti, viewport: vp, summary: summary, status: "Loaded. Type a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + summary, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.runQuery(q)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if n := len(m.answer.Sentences); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if n := len(m.answer.Sentences); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runQuery(q string) Model {
	answer, err := m.service.Answer(m.ctx, q)
	m.cursor = 0
	if err != nil {
		m.status = "Error: " + err.Error()
		m.answer = domain.Answer{}
		return m
	}
	m.answer = answer
	switch {
	case len(answer.Sentences) == 0:
		m.status = fmt.Sprintf("No sentence matched %q", q)
	case len(answer.Query) == 0:
		m.status = fmt.Sprintf("%q has no searchable words; showing the first passage", q)
	default:
		m.status = fmt.Sprintf("Answers for %q", q)
	}
	return m
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Questions")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.answer.Sentences) == 0 {
		return "No answers yet."
	}
	s := m.answer.Sentences[m.cursor]
	title := fmt.Sprintf("Answer %d/%d  idf=%.3f  density=%.3f", m.cursor+1, len(m.answer.Sentences), s.MatchedIDF, s.Density)
	source := mutedStyle.Render("from " + s.File)
	body := highlightQuery(m.segmenter.Segments(s.Text), m.answer.Query)

	var files strings.Builder
	for i, f := range m.answer.Files {
		fmt.Fprintf(&files, "%d. %s  tf-idf=%.3f\n", i+1, f.Name, f.Score)
	}
	return title + "\n" + source + "\n\n" + body + "\n\n" + mutedStyle.Render("Top files:\n"+strings.TrimRight(files.String(), "\n"))
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// highlightQuery joins segs back into text, emphasizing the segments whose
// token is a query token.
func highlightQuery(segs []normalize.Segment, query []string) string {
	set := make(map[string]struct{}, len(query))
	for _, q := range query {
		set[q] = struct{}{}
	}
	var b strings.Builder
	for _, seg := range segs {
		if _, ok := set[string(seg.Token)]; ok && seg.Token != "" {
			b.WriteString(highlightStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
