package anonymizer

import (
	"unicode/utf8"
)

// Span is a labelled byte range [Start, End) of the original text.
type Span struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Text   string `json:"text"`
	Label  string `json:"label"`
	Source string `json:"source,omitempty"`
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Entity is a replaced span as returned to callers. Start and End locate Text
// in the original text, AnonStart and AnonEnd locate Replacement in the
// anonymized text. All offsets are UTF-8 byte offsets.
type Entity struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Text        string `json:"text"`
	Label       string `json:"label"`
	Replacement string `json:"replacement"`
	AnonStart   int    `json:"anon_start"`
	AnonEnd     int    `json:"anon_end"`
}

type Result struct {
	AnonymizedText string   `json:"anonymized_text"`
	Entities       []Entity `json:"entities"`
	// Replacements maps each placeholder of this call to its original(s).
	Replacements *ReplacementMap `json:"-"`
}

// normalizeSpan checks that sp describes a non-empty range of text that starts
// and ends on rune boundaries. An empty Text is filled from the offsets.
func normalizeSpan(text string, sp Span) (Span, bool) {
	if sp.Label == "" {
		return sp, false
	}
	if sp.Start < 0 || sp.End > len(text) || sp.Start >= sp.End {
		return sp, false
	}
	if !utf8.RuneStart(text[sp.Start]) {
		return sp, false
	}
	if sp.End < len(text) && !utf8.RuneStart(text[sp.End]) {
		return sp, false
	}
	sub := text[sp.Start:sp.End]
	if sp.Text == "" {
		sp.Text = sub
	} else if sp.Text != sub {
		return sp, false
	}
	return sp, true
}
