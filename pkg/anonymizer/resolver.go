package anonymizer

import (
	"sort"
)

// Resolve selects a non-overlapping subset of candidates. Longer spans are
// considered first and equal lengths keep their encounter order; a span is
// accepted when none of its bytes is claimed by an accepted span. This is a
// greedy choice and does not maximise total coverage. The result is sorted by
// Start.
func Resolve(candidates []Span) []Span {
	valid := make([]Span, 0, len(candidates))
	for _, sp := range candidates {
		if sp.Start < 0 || sp.End <= sp.Start {
			continue
		}
		valid = append(valid, sp)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Len() > valid[j].Len()
	})

	accepted := make([]Span, 0, len(valid))
	for _, sp := range valid {
		if claimed(accepted, sp) {
			continue
		}
		accepted = append(accepted, sp)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}

func claimed(accepted []Span, sp Span) bool {
	for _, a := range accepted {
		if a.Overlaps(sp) {
			return true
		}
	}
	return false
}
