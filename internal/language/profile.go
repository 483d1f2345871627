package language

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile is the language configuration the normalizer works against.
// It is immutable once built and safe to share between goroutines.
type Profile struct {
	name      string
	tag       language.Tag
	stopwords map[string]struct{}
}

// apostrophes maps typographic apostrophes onto the ASCII one the
// stopword lists are written with.
var apostrophes = strings.NewReplacer("’", "'", "ʼ", "'")

// New builds a profile. Stopwords are folded with Fold so lookups against
// normalized tokens match.
func New(name string, tag language.Tag, stopwords []string) *Profile {
	p := &Profile{name: name, tag: tag, stopwords: make(map[string]struct{}, len(stopwords))}
	lower := cases.Lower(tag)
	for _, w := range stopwords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		p.stopwords[apostrophes.Replace(lower.String(w))] = struct{}{}
	}
	return p
}

// English returns the built-in English profile.
func English() *Profile {
	return New("english", language.English, englishStopwords)
}

// Load reads a stopword file (one word per line, '#' starts a comment)
// and returns a profile for the given language tag.
func Load(name, tag, path string) (*Profile, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords file: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			words = append(words, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords file %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, errors.New("stopwords file " + path + " contains no words")
	}
	if name == "" {
		name = t.String()
	}
	return New(name, t, words), nil
}

// Name returns the profile identifier.
func (p *Profile) Name() string { return p.name }

// Tag returns the language used for case folding.
func (p *Profile) Tag() language.Tag { return p.tag }

// Fold lower-cases s with the profile's language rules and maps
// typographic apostrophes to '.
func (p *Profile) Fold(s string) string {
	// cases.Caser keeps state between calls, so one per call.
	return apostrophes.Replace(cases.Lower(p.tag).String(s))
}

// IsStopword reports whether the already folded token is a stopword.
func (p *Profile) IsStopword(token string) bool {
	_, ok := p.stopwords[token]
	return ok
}

// Len returns the number of stopwords.
func (p *Profile) Len() int { return len(p.stopwords) }

