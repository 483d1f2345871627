package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"questions/internal/domain"
	"questions/internal/language"
	"questions/internal/lexical"
	"questions/internal/normalize"
)

type fakeService struct {
	answer  domain.Answer
	err     error
	queries []string
}

func (f *fakeService) Answer(_ context.Context, query string) (domain.Answer, error) {
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

func newNormalizer(t *testing.T) *normalize.Normalizer {
	t.Helper()
	splitter, err := lexical.NewSplitter()
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	return normalize.New(splitter, language.English())
}

func newModel(t *testing.T, svc AnswerPort, summary string) Model {
	t.Helper()
	return New(context.Background(), svc, newNormalizer(t), summary)
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func submit(m Model, query string) Model {
	m.input.SetValue(query)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestEnterRunsQuery(t *testing.T) {
	svc := &fakeService{answer: domain.Answer{
		Query: []string{"gills"},
		Files: []domain.FileMatch{{Name: "fish.txt", Score: 1.2}},
		Sentences: []domain.SentenceMatch{
			{Text: "Fish breathe through gills.", File: "fish.txt", MatchedIDF: 0.69, Density: 0.5},
			{Text: "Fish live in water.", File: "fish.txt"},
		},
	}}
	m := sized(newModel(t, svc, "3 files"))
	m = submit(m, "  what are gills  ")

	if len(svc.queries) != 1 || svc.queries[0] != "what are gills" {
		t.Fatalf("queries = %q", svc.queries)
	}
	if !strings.Contains(m.status, "what are gills") {
		t.Errorf("status = %q", m.status)
	}
	if got := m.renderCurrentResult(); !strings.Contains(got, "Answer 1/2") || !strings.Contains(got, "fish.txt") {
		t.Errorf("render = %q", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor should wrap to 0, got %d", m.cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor after up = %d, want 1", m.cursor)
	}
}

func TestEnterWithBlankInputDoesNothing(t *testing.T) {
	svc := &fakeService{}
	m := sized(newModel(t, svc, ""))
	m = submit(m, "   ")
	if len(svc.queries) != 0 {
		t.Errorf("blank input should not query, got %q", svc.queries)
	}
}

func TestQueryError(t *testing.T) {
	svc := &fakeService{err: errors.New("boom")}
	m := sized(newModel(t, svc, ""))
	m = submit(m, "anything")
	if m.status != "Error: boom" {
		t.Errorf("status = %q", m.status)
	}
	if m.renderCurrentResult() != "No answers yet." {
		t.Errorf("render = %q", m.renderCurrentResult())
	}
}

func TestNoSearchableWords(t *testing.T) {
	svc := &fakeService{answer: domain.Answer{
		Files:     []domain.FileMatch{{Name: "a.txt"}},
		Sentences: []domain.SentenceMatch{{Text: "First.", File: "a.txt"}},
	}}
	m := sized(newModel(t, svc, ""))
	m = submit(m, "the of")
	if !strings.Contains(m.status, "no searchable words") {
		t.Errorf("status = %q", m.status)
	}
}

func TestQuitKeys(t *testing.T) {
	m := sized(newModel(t, &fakeService{}, ""))
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		if _, cmd := m.Update(tea.KeyMsg{Type: k}); cmd == nil {
			t.Errorf("key %v should return a quit command", k)
		}
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newModel(t, &fakeService{}, "")
	if m.View() != "Loading..." {
		t.Errorf("View() = %q", m.View())
	}
	if v := sized(m).View(); !strings.Contains(v, "Questions") {
		t.Errorf("View() after resize = %q", v)
	}
}

func TestHighlightQuery(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	n := newNormalizer(t)
	hl := highlightStyle.Render
	tests := []struct {
		name  string
		text  string
		query []string
		want  string
	}{
		{"no query", "Cats purr. Dogs bark.", nil, "Cats purr. Dogs bark."},
		{"case folded like normalization", "Cats PURR. Dogs bark.", []string{"purr"}, "Cats " + hl("PURR") + ". Dogs bark."},
		{"decimal highlighted whole", "Pi is 3.14 exactly.", []string{"3.14"}, "Pi is " + hl("3.14") + " exactly."},
		{"stopwords never highlighted", "It’s what it is.", []string{"it's", "is"}, "It’s what it is."},
		{"hyphenated parts", "A stop-motion film", []string{"motion"}, "A stop-" + hl("motion") + " film"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := highlightQuery(n.Segments(tt.text), tt.query); got != tt.want {
				t.Errorf("highlightQuery(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
