package matcher

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/praetorian-inc/sift/pkg/prefilter"
	"github.com/praetorian-inc/sift/pkg/rule"
	"github.com/praetorian-inc/sift/pkg/types"
)

// Config for matcher initialization.
type Config struct {
	// Rules to draw recognizers from; typically the built-in rule set.
	Rules []*types.Rule

	// Selection decides which rules are compiled. Inactive types cost nothing.
	Selection types.Selection

	// Logger receives regex timeout warnings. Nil discards them.
	Logger *slog.Logger
}

// Matcher classifies lines against the recognizers of the active types.
//
// Matcher is safe for concurrent use: compiled patterns and the prefilter
// are read-only after New.
type Matcher struct {
	byType    map[types.Type]*recognizer
	prefilter *prefilter.Prefilter
	selection types.Selection
	log       *slog.Logger
	failures  atomic.Int64
}

// New compiles a recognizer for every active type in cfg.Selection.
// Every active type must have a rule.
func New(cfg Config) (*Matcher, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	active := rule.Filter(cfg.Rules, cfg.Selection)

	m := &Matcher{
		byType:    make(map[types.Type]*recognizer, len(active)),
		selection: cfg.Selection,
		log:       log,
	}

	for _, r := range active {
		if _, dup := m.byType[r.Type]; dup {
			return nil, fmt.Errorf("duplicate rule for type %s", r.Type)
		}
		rc, err := newRecognizer(r)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for rule %s: %w", r.ID, err)
		}
		m.byType[r.Type] = rc
	}

	for _, t := range cfg.Selection.Types() {
		if _, ok := m.byType[t]; !ok {
			return nil, fmt.Errorf("no rule for active type %s", t)
		}
	}

	m.prefilter = prefilter.New(active)
	log.Debug("matcher ready", "types", cfg.Selection.String(), "keywords", len(m.prefilter.Keywords()))
	return m, nil
}

// Selection returns the active type set the matcher was built with.
func (m *Matcher) Selection() types.Selection {
	return m.selection
}

// Classify runs every candidate recognizer over line and returns one Match
// per extraction. Matches are grouped by type in canonical order and, within
// a type, ordered left to right. Types never suppress each other.
func (m *Matcher) Classify(line string, index int) []types.Match {
	candidates := m.prefilter.Filter(line)
	if len(candidates) == 0 {
		return nil
	}

	text := newLineText(line)
	var matches []types.Match
	for _, r := range candidates {
		for _, e := range m.byType[r.Type].extract(text, m.log, &m.failures) {
			matches = append(matches, types.Match{
				Type: r.Type,
				Text: e.Text,
				Line: index,
				Span: e.Span,
			})
		}
	}
	return matches
}

// Recognize runs a single type's recognizer over line, bypassing the
// prefilter. It returns nil when t is not active.
func (m *Matcher) Recognize(t types.Type, line string) []types.Extraction {
	rc, ok := m.byType[t]
	if !ok {
		return nil
	}
	return rc.extract(newLineText(line), m.log, &m.failures)
}

// RegexFailures returns how many recognizer runs were abandoned because of a
// regex timeout or error.
func (m *Matcher) RegexFailures() int64 {
	return m.failures.Load()
}
