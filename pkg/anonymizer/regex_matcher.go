package anonymizer

import (
	"context"
	"regexp"

	"github.com/NeuralTrust/PrivacyGuard/pkg/pii_entities"
)

const RegexSource = "regex"

type regexMatcher struct {
	label      string
	pattern    *regexp.Regexp
	valueGroup int
	validate   func(string) bool
}

type RegexOption func(*regexMatcher)

// WithValidator drops matches for which fn returns false.
func WithValidator(fn func(string) bool) RegexOption {
	return func(m *regexMatcher) {
		m.validate = fn
	}
}

// NewRegexMatcher reports one span per non-overlapping match of pattern. When the
// pattern has a capture group named "value" the span covers that group only.
func NewRegexMatcher(label string, pattern *regexp.Regexp, opts ...RegexOption) Matcher {
	m := &regexMatcher{
		label:      label,
		pattern:    pattern,
		valueGroup: pattern.SubexpIndex(pii_entities.ValueGroup),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewEntityMatchers builds regex matchers for the given entities in the order
// given, attaching the checksum validator of each entity when one exists.
func NewEntityMatchers(entities []pii_entities.Entity) []Matcher {
	matchers := make([]Matcher, 0, len(entities))
	for _, e := range entities {
		pattern := pii_entities.GetPattern(e)
		if pattern == nil {
			continue
		}
		var opts []RegexOption
		if v := pii_entities.GetValidator(e); v != nil {
			opts = append(opts, WithValidator(v))
		}
		matchers = append(matchers, NewRegexMatcher(string(e), pattern, opts...))
	}
	return matchers
}

func (m *regexMatcher) Name() string {
	return RegexSource
}

func (m *regexMatcher) Labels() []string {
	return []string{m.label}
}

func (m *regexMatcher) Match(_ context.Context, text string) ([]Span, error) {
	var spans []Span
	for _, loc := range m.pattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if m.valueGroup > 0 {
			start, end = loc[2*m.valueGroup], loc[2*m.valueGroup+1]
		}
		if start < 0 || start >= end {
			continue
		}
		value := text[start:end]
		if m.validate != nil && !m.validate(value) {
			continue
		}
		spans = append(spans, Span{
			Start:  start,
			End:    end,
			Text:   value,
			Label:  m.label,
			Source: RegexSource,
		})
	}
	return spans, nil
}
