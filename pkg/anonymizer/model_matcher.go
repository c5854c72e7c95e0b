package anonymizer

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const ModelSource = "ner"

// TokenClassifier is the token-classification inference backend.
type TokenClassifier interface {
	Classify(ctx context.Context, text string) ([]TokenPrediction, error)
}

type modelMatcher struct {
	classifier TokenClassifier
	logger     *logrus.Logger
	strategy   AggregationStrategy
	minScore   float64
	allowed    map[string]bool
	labelMap   map[string]string
	labels     []string
}

type ModelOption func(*modelMatcher)

func WithAggregationStrategy(s AggregationStrategy) ModelOption {
	return func(m *modelMatcher) {
		m.strategy = s
	}
}

// WithMinScore drops token predictions scoring below min.
func WithMinScore(min float64) ModelOption {
	return func(m *modelMatcher) {
		m.minScore = min
	}
}

// WithAllowedLabels keeps only spans whose model label is listed.
func WithAllowedLabels(labels ...string) ModelOption {
	return func(m *modelMatcher) {
		if len(labels) == 0 {
			return
		}
		m.allowed = make(map[string]bool, len(labels))
		for _, l := range labels {
			m.allowed[strings.ToUpper(l)] = true
		}
	}
}

// WithLabelMap renames model labels, e.g. GPE to ADDRESS.
func WithLabelMap(mapping map[string]string) ModelOption {
	return func(m *modelMatcher) {
		m.labelMap = make(map[string]string, len(mapping))
		for from, to := range mapping {
			m.labelMap[strings.ToUpper(from)] = strings.ToUpper(to)
		}
	}
}

// WithModelLabels declares the labels the model can emit, used for listing only.
func WithModelLabels(labels ...string) ModelOption {
	return func(m *modelMatcher) {
		m.labels = labels
	}
}

// NewModelMatcher wraps a token classifier. A nil classifier yields no spans;
// a failing one returns its error and the collector continues without it.
func NewModelMatcher(classifier TokenClassifier, logger *logrus.Logger, opts ...ModelOption) Matcher {
	m := &modelMatcher{
		classifier: classifier,
		logger:     logger,
		strategy:   AggregationSimple,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *modelMatcher) Name() string {
	return ModelSource
}

func (m *modelMatcher) Labels() []string {
	var out []string
	for _, l := range m.labels {
		l = strings.ToUpper(l)
		if m.allowed != nil && !m.allowed[l] {
			continue
		}
		out = append(out, m.mapLabel(l))
	}
	return out
}

func (m *modelMatcher) Match(ctx context.Context, text string) ([]Span, error) {
	if m.classifier == nil || text == "" {
		return nil, nil
	}
	preds, err := m.classifier.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("token classifier unavailable: %w", err)
	}

	if m.minScore > 0 {
		kept := preds[:0:0]
		for _, p := range preds {
			if p.Score >= m.minScore {
				kept = append(kept, p)
			}
		}
		preds = kept
	}

	var spans []Span
	for _, sp := range GroupPredictions(preds, m.strategy) {
		label := strings.ToUpper(sp.Label)
		if m.allowed != nil && !m.allowed[label] {
			continue
		}
		start, end, ok := trimSpace(text, sp.Start, sp.End)
		if !ok {
			m.logger.WithFields(logrus.Fields{
				"label": label,
				"start": sp.Start,
				"end":   sp.End,
			}).Debug("dropping model span outside text")
			continue
		}
		sp.Start, sp.End = start, end
		sp.Label = m.mapLabel(label)
		sp.Text = text[sp.Start:sp.End]
		sp.Source = ModelSource
		spans = append(spans, sp)
	}
	return spans, nil
}

func (m *modelMatcher) mapLabel(label string) string {
	if mapped, ok := m.labelMap[label]; ok {
		return mapped
	}
	return label
}

// trimSpace shrinks [start, end) so it neither starts nor ends with white space.
// It reports false when the range lies outside text or is blank.
func trimSpace(text string, start, end int) (int, int, bool) {
	if start < 0 || end > len(text) || start >= end {
		return start, end, false
	}
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end, start < end
}
