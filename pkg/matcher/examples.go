package matcher

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/praetorian-inc/sift/pkg/prefilter"
	"github.com/praetorian-inc/sift/pkg/types"
)

// ValidateExamples checks a rule against its own examples the way Classify
// would see them: every example must produce at least one extraction and no
// negative example may produce one. Keywords gate the examples too, so a
// rule whose keywords miss one of its examples is rejected.
func ValidateExamples(r *types.Rule) error {
	rc, err := newRecognizer(r)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}

	pf := prefilter.New([]*types.Rule{r})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var failures atomic.Int64

	matches := func(line string) bool {
		if len(pf.Filter(line)) == 0 {
			return false
		}
		return len(rc.extract(newLineText(line), log, &failures)) > 0
	}

	for _, ex := range r.Examples {
		if !matches(ex) {
			return fmt.Errorf("rule %s: example %q does not match", r.ID, ex)
		}
	}
	for _, ex := range r.NegativeExamples {
		if matches(ex) {
			return fmt.Errorf("rule %s: negative example %q matches", r.ID, ex)
		}
	}
	return nil
}
