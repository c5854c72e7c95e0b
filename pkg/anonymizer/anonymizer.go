// Package anonymizer detects PII spans in text, replaces them with
// placeholders and restores them again from the returned entity list.
//
// Offsets are UTF-8 byte offsets, half-open. Entity.Start and Entity.End
// address the original text, Entity.AnonStart and Entity.AnonEnd address the
// anonymized text. No state is kept between calls: whatever is needed to
// reverse an anonymization travels with its result.
package anonymizer

import (
	"context"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

type Anonymizer struct {
	registry  *Registry
	collector *Collector
	rewriter  *Rewriter
	strict    bool
	logger    *logrus.Logger
}

type Option func(*Anonymizer)

func WithPlaceholderMode(mode PlaceholderMode) Option {
	return func(a *Anonymizer) {
		a.rewriter = NewRewriter(mode)
	}
}

// WithStrictDeanonymize makes Deanonymize fail on placeholders it cannot match.
func WithStrictDeanonymize(strict bool) Option {
	return func(a *Anonymizer) {
		a.strict = strict
	}
}

func New(registry *Registry, logger *logrus.Logger, opts ...Option) *Anonymizer {
	a := &Anonymizer{
		registry:  registry,
		collector: NewCollector(registry, logger),
		rewriter:  NewRewriter(PlaceholderIndexed),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Anonymizer) Registry() *Registry {
	return a.registry
}

func (a *Anonymizer) PlaceholderMode() PlaceholderMode {
	return a.rewriter.Mode()
}

func (a *Anonymizer) Strict() bool {
	return a.strict
}

// Anonymize replaces every detected PII span of text with a placeholder. It
// only fails when ctx is done before detection completes.
func (a *Anonymizer) Anonymize(ctx context.Context, text string) (*Result, error) {
	if text == "" {
		return &Result{AnonymizedText: text, Entities: []Entity{}, Replacements: NewReplacementMap()}, nil
	}

	start := time.Now()
	candidates, err := a.collector.Collect(ctx, text)
	if err != nil {
		prometheus.OperationTotal.WithLabelValues("anonymize", "error").Inc()
		return nil, err
	}

	resolved := Resolve(candidates)
	anonymized, entities, replacements := a.rewriter.Rewrite(text, resolved)

	for _, e := range entities {
		prometheus.EntitiesTotal.WithLabelValues(e.Label).Inc()
	}
	prometheus.OperationTotal.WithLabelValues("anonymize", "ok").Inc()

	a.logger.WithFields(logrus.Fields{
		"candidates":   len(candidates),
		"entities":     len(entities),
		"placeholders": replacements.Len(),
		"duration":     time.Since(start).String(),
	}).Debug("text anonymized")

	return &Result{AnonymizedText: anonymized, Entities: entities, Replacements: replacements}, nil
}

// Deanonymize restores the originals recorded in entities. Without entities
// the text is returned as is.
func (a *Anonymizer) Deanonymize(ctx context.Context, text string, entities []Entity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := Restore(text, entities, a.strict)
	if err != nil {
		prometheus.OperationTotal.WithLabelValues("deanonymize", "error").Inc()
		return "", err
	}
	prometheus.OperationTotal.WithLabelValues("deanonymize", "ok").Inc()
	return out, nil
}
