package anonymizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type PlaceholderMode string

const (
	// PlaceholderIndexed produces [LABEL_n], unique per occurrence.
	PlaceholderIndexed PlaceholderMode = "indexed"
	// PlaceholderLabel produces [LABEL]. Distinct values sharing a label
	// collapse onto one token, so reversal is lossy.
	PlaceholderLabel PlaceholderMode = "label"
)

var placeholderPattern = regexp.MustCompile(`\[[A-Z][A-Z0-9_]*\]`)

func ParsePlaceholderMode(s string) (PlaceholderMode, error) {
	switch PlaceholderMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlaceholderIndexed:
		return PlaceholderIndexed, nil
	case PlaceholderLabel:
		return PlaceholderLabel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlaceholderMode, s)
	}
}

// Format renders the placeholder for the index-th occurrence (1-based) of label.
func (m PlaceholderMode) Format(label string, index int) string {
	token := normalizeLabel(label)
	if m == PlaceholderLabel {
		return "[" + token + "]"
	}
	return "[" + token + "_" + strconv.Itoa(index) + "]"
}

// normalizeLabel upper-cases a label and replaces anything outside [A-Z0-9_]
// so the placeholder always matches placeholderPattern.
func normalizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(label) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	token := b.String()
	if token == "" || token[0] < 'A' || token[0] > 'Z' {
		token = "PII_" + token
	}
	return strings.TrimRight(token, "_")
}

// FindPlaceholders returns every placeholder-shaped token in text.
func FindPlaceholders(text string) []string {
	return placeholderPattern.FindAllString(text, -1)
}
