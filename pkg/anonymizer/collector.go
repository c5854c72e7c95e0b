package anonymizer

import (
	"context"
	"time"

	"github.com/NeuralTrust/PrivacyGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Collector runs every registered matcher over a text and gathers their spans.
type Collector struct {
	registry *Registry
	logger   *logrus.Logger
}

func NewCollector(registry *Registry, logger *logrus.Logger) *Collector {
	return &Collector{
		registry: registry,
		logger:   logger,
	}
}

// Collect returns the candidate spans in encounter order: matcher by matcher in
// registry order, each matcher's spans in the order it reported them.
// Duplicates are kept. A failing matcher contributes no spans.
func (c *Collector) Collect(ctx context.Context, text string) ([]Span, error) {
	if text == "" {
		return nil, nil
	}
	matchers := c.registry.Matchers()
	results := make([][]Span, len(matchers))

	var g errgroup.Group
	for i, m := range matchers {
		i, m := i, m
		g.Go(func() error {
			start := time.Now()
			spans, err := m.Match(ctx, text)
			if prometheus.Config.EnableDetector {
				prometheus.DetectorLatency.WithLabelValues(m.Name()).
					Observe(float64(time.Since(start).Milliseconds()))
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if prometheus.Config.EnableDetector {
					prometheus.DetectorFailures.WithLabelValues(m.Name()).Inc()
				}
				c.logger.WithFields(logrus.Fields{
					"detector": m.Name(),
					"error":    err.Error(),
				}).Warn("detector failed, continuing without its spans")
				return nil
			}
			results[i] = spans
			return nil
		})
	}
	// Only cancellation surfaces here; detector failures degrade to no spans.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Span
	for i, spans := range results {
		for _, sp := range spans {
			valid, ok := normalizeSpan(text, sp)
			if !ok {
				c.logger.WithFields(logrus.Fields{
					"detector": matchers[i].Name(),
					"label":    sp.Label,
					"start":    sp.Start,
					"end":      sp.End,
				}).Debug("dropping invalid span")
				continue
			}
			if valid.Source == "" {
				valid.Source = matchers[i].Name()
			}
			out = append(out, valid)
		}
	}
	return out, nil
}
