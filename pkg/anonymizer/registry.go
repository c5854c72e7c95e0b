package anonymizer

import (
	"context"
	"sort"
	"sync"
)

type Matcher interface {
	Name() string
	Labels() []string
	Match(ctx context.Context, text string) ([]Span, error)
}

type LabelInfo struct {
	Label   string   `json:"label"`
	Sources []string `json:"sources"`
}

// Registry is the ordered set of matchers consulted for every text. Order
// matters: among equally long overlapping spans the earlier matcher wins.
type Registry struct {
	mu       sync.RWMutex
	matchers []Matcher
}

func NewRegistry(matchers ...Matcher) *Registry {
	r := &Registry{}
	for _, m := range matchers {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(m Matcher) {
	if m == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchers = append(r.matchers, m)
}

func (r *Registry) Matchers() []Matcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Matcher, len(r.matchers))
	copy(out, r.matchers)
	return out
}

// Labels lists every label the registry can produce with the matchers producing it.
func (r *Registry) Labels() []LabelInfo {
	bySource := make(map[string][]string)
	var order []string
	for _, m := range r.Matchers() {
		for _, l := range m.Labels() {
			if _, ok := bySource[l]; !ok {
				order = append(order, l)
			}
			if !containsString(bySource[l], m.Name()) {
				bySource[l] = append(bySource[l], m.Name())
			}
		}
	}
	sort.Strings(order)
	out := make([]LabelInfo, 0, len(order))
	for _, l := range order {
		out = append(out, LabelInfo{Label: l, Sources: bySource[l]})
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
