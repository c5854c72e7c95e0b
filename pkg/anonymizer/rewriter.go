package anonymizer

import (
	"sort"
)

// Rewriter replaces resolved spans with placeholders.
type Rewriter struct {
	mode PlaceholderMode
}

func NewRewriter(mode PlaceholderMode) *Rewriter {
	if mode == "" {
		mode = PlaceholderIndexed
	}
	return &Rewriter{mode: mode}
}

func (r *Rewriter) Mode() PlaceholderMode {
	return r.mode
}

// Rewrite expects pairwise non-overlapping spans with offsets into text.
// Placeholders are numbered left to right, the splice runs right to left so
// the offsets of spans not yet replaced still address unedited text.
func (r *Rewriter) Rewrite(text string, spans []Span) (string, []Entity, *ReplacementMap) {
	replacements := NewReplacementMap()
	if len(spans) == 0 {
		return text, []Entity{}, replacements
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	entities := make([]Entity, len(ordered))
	counters := make(map[string]int)
	delta := 0
	for i, sp := range ordered {
		// Count per placeholder token: raw labels such as ID-CARD and ID_CARD
		// render the same token and must share one sequence.
		token := normalizeLabel(sp.Label)
		counters[token]++
		placeholder := r.mode.Format(token, counters[token])
		anonStart := sp.Start + delta
		entities[i] = Entity{
			Start:       sp.Start,
			End:         sp.End,
			Text:        text[sp.Start:sp.End],
			Label:       sp.Label,
			Replacement: placeholder,
			AnonStart:   anonStart,
			AnonEnd:     anonStart + len(placeholder),
		}
		replacements.Record(placeholder, entities[i].Text)
		delta += len(placeholder) - sp.Len()
	}

	out := text
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		out = out[:e.Start] + e.Replacement + out[e.End:]
	}
	return out, entities, replacements
}
