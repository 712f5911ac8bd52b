package matcher

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/sift/pkg/rule"
	"github.com/praetorian-inc/sift/pkg/types"
)

// recognizer is the compiled form of one rule.
type recognizer struct {
	rule   *types.Rule
	re     *regexp2.Regexp
	verify verifier // nil when the pattern alone decides
}

func newRecognizer(r *types.Rule) (*recognizer, error) {
	re, err := rule.CompilePattern(r.Pattern)
	if err != nil {
		return nil, err
	}
	return &recognizer{
		rule:   r,
		re:     re,
		verify: verifiers[r.Type],
	}, nil
}

// lineText carries a line together with the rune-to-byte mapping regexp2
// match positions need. The mapping is built on first use and only for
// lines containing multi-byte runes.
type lineText struct {
	s       string
	ascii   bool
	offsets []int // byte offset of each rune, plus len(s)
}

func newLineText(s string) *lineText {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	return &lineText{s: s, ascii: ascii}
}

// byteOffset converts a regexp2 rune index into a byte offset.
func (l *lineText) byteOffset(runeIndex int) int {
	if l.ascii {
		return runeIndex
	}
	if l.offsets == nil {
		l.offsets = make([]int, 0, len(l.s)+1)
		for i := range l.s {
			l.offsets = append(l.offsets, i)
		}
		l.offsets = append(l.offsets, len(l.s))
	}
	if runeIndex >= len(l.offsets) {
		return len(l.s)
	}
	return l.offsets[runeIndex]
}

// extract returns every verified extraction of the rule in line, left to
// right. A regex error, including a timeout, discards the rule's results for
// this line and is counted in failures.
func (rc *recognizer) extract(line *lineText, log *slog.Logger, failures *atomic.Int64) []types.Extraction {
	var out []types.Extraction

	match, err := rc.re.FindStringMatch(line.s)
	for err == nil && match != nil {
		if e, ok := rc.accept(line, match); ok {
			out = append(out, e)
			if rc.rule.WholeLine {
				return out
			}
		}
		match, err = rc.re.FindNextMatch(match)
	}
	if err != nil {
		failures.Add(1)
		if strings.Contains(err.Error(), "match timeout") {
			log.Warn("regex timeout, skipping rule for this line", "rule", rc.rule.ID)
		} else {
			log.Warn("regex error, skipping rule for this line", "rule", rc.rule.ID, "error", err)
		}
		return nil
	}
	return out
}

func (rc *recognizer) accept(line *lineText, match *regexp2.Match) (types.Extraction, bool) {
	start := line.byteOffset(match.Index)
	end := line.byteOffset(match.Index + match.Length)

	if rc.rule.WholeLine {
		start, end = 0, len(line.s)
	} else if rc.rule.Trim != "" {
		end = start + len(trimTrailing(line.s[start:end], rc.rule.Trim))
	}
	if start >= end {
		return types.Extraction{}, false
	}
	text := line.s[start:end]

	if rc.verify != nil {
		var group string
		if rc.rule.Group != "" {
			if g := match.GroupByName(rc.rule.Group); g != nil && len(g.Captures) > 0 {
				group = g.String()
			}
		}
		if !rc.verify(text, group) {
			return types.Extraction{}, false
		}
	}

	return types.Extraction{
		Text: text,
		Span: types.OffsetSpan{Start: start, End: end},
	}, true
}

// trimTrailing removes trailing cutset characters from text. A closing
// parenthesis is kept while it balances an opening one inside text.
func trimTrailing(text, cutset string) string {
	for text != "" {
		last, size := utf8.DecodeLastRuneInString(text)
		if !strings.ContainsRune(cutset, last) {
			break
		}
		if last == ')' && strings.Count(text, "(") >= strings.Count(text, ")") {
			break
		}
		text = text[:len(text)-size]
	}
	return text
}
