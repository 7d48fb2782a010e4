package metrics

import (
	"sync"

	coremetrics "github.com/kilianp07/planavail/core/metrics"
)

// OtherCategory is the label of every category outside the tracked set.
const OtherCategory = "other"

const maxLabelLength = 64

// categoryLabels maps request category types onto a bounded set of label
// values. A configured list is fixed; otherwise the first max categories
// recorded by evaluations are learned.
type categoryLabels struct {
	mu    sync.Mutex
	known map[string]struct{}
	fixed bool
	max   int
}

func newCategoryLabels(cfg coremetrics.Config) *categoryLabels {
	l := &categoryLabels{known: make(map[string]struct{}), max: cfg.MaxCategoryLabels}
	for _, c := range cfg.CategoryLabels {
		if c != "" {
			l.known[c] = struct{}{}
		}
	}
	l.fixed = len(l.known) > 0
	if l.max <= 0 {
		l.max = coremetrics.DefaultMaxCategoryLabels
	}
	return l
}

// label returns the label for category. Only learn may add a category to the
// tracked set; rejected requests never do.
func (l *categoryLabels) label(category string, learn bool) string {
	if category == "" || len(category) > maxLabelLength {
		return OtherCategory
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.known[category]; ok {
		return category
	}
	if !learn || l.fixed || len(l.known) >= l.max {
		return OtherCategory
	}
	l.known[category] = struct{}{}
	return category
}
