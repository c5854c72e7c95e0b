package anonymizer

import (
	"fmt"
	"strings"
)

// TokenPrediction is one row of token-classification output. Entity carries a
// BIO tag ("B-PERSON", "I-PERSON", "O"); EntityGroup is set instead when the
// inference endpoint already aggregated tokens. Offsets are byte offsets.
type TokenPrediction struct {
	Entity      string
	EntityGroup string
	Score       float64
	Word        string
	Start       int
	End         int
}

type AggregationStrategy string

const (
	AggregationSimple AggregationStrategy = "simple"
	AggregationNone   AggregationStrategy = "none"
)

func ParseAggregationStrategy(s string) (AggregationStrategy, error) {
	switch AggregationStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AggregationSimple:
		return AggregationSimple, nil
	case AggregationNone:
		return AggregationNone, nil
	default:
		return "", fmt.Errorf("unknown aggregation strategy %q", s)
	}
}

// splitTag splits a BIO tag into its prefix and entity type. "O" and empty tags
// yield an empty type; a tag without prefix is treated as a continuation.
func splitTag(tag string) (prefix, typ string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || tag == "O" {
		return "", ""
	}
	if len(tag) > 2 && (tag[1] == '-' || tag[1] == '_') {
		switch tag[0] {
		case 'B', 'b':
			return "B", tag[2:]
		case 'I', 'i', 'E', 'e', 'S', 's':
			return "I", tag[2:]
		}
	}
	return "I", tag
}

// GroupPredictions turns token predictions into labelled spans. With the
// simple strategy contiguous tokens of the same type merge into one span and
// a B- tag always opens a new one; with none every tagged token is a span.
func GroupPredictions(preds []TokenPrediction, strategy AggregationStrategy) []Span {
	var (
		spans   []Span
		open    bool
		current Span
	)
	flush := func() {
		if open {
			spans = append(spans, current)
			open = false
		}
	}

	for _, p := range preds {
		if p.End <= p.Start {
			continue
		}
		if p.EntityGroup != "" {
			flush()
			spans = append(spans, Span{Start: p.Start, End: p.End, Label: p.EntityGroup})
			continue
		}

		prefix, typ := splitTag(p.Entity)
		if typ == "" {
			flush()
			continue
		}
		if strategy == AggregationNone {
			spans = append(spans, Span{Start: p.Start, End: p.End, Label: typ})
			continue
		}

		if open && prefix != "B" && typ == current.Label && p.Start >= current.Start {
			if p.End > current.End {
				current.End = p.End
			}
			continue
		}
		flush()
		current = Span{Start: p.Start, End: p.End, Label: typ}
		open = true
	}
	flush()
	return spans
}
