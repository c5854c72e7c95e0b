package anonymizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnmatchedPlaceholder   = errors.New("unmatched placeholder")
	ErrInvalidPlaceholderMode = errors.New("invalid placeholder mode")
)

// Restore substitutes the originals recorded in entities back into text.
//
// When every entity still sits at its recorded anonymized offsets the splice
// is positional and exact, and any placeholder-shaped text outside those
// offsets came from the original input. Otherwise (the text was edited after
// anonymization) placeholders are searched for in a single left-to-right
// pass. In strict mode an entity whose placeholder is missing, or a
// placeholder-shaped token with no entity in edited text, is an error;
// otherwise both are passed over.
func Restore(text string, entities []Entity, strict bool) (string, error) {
	usable := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Replacement != "" {
			usable = append(usable, e)
		}
	}

	if len(usable) == 0 {
		if strict {
			if err := checkKnownPlaceholders(text, usable); err != nil {
				return "", err
			}
		}
		return text, nil
	}

	if out, ok := restorePositional(text, usable); ok {
		return out, nil
	}

	if strict {
		if err := checkKnownPlaceholders(text, usable); err != nil {
			return "", err
		}
	}
	out, missing := restoreBySearch(text, usable)
	if strict && len(missing) > 0 {
		return "", fmt.Errorf("%w: %s not found in text", ErrUnmatchedPlaceholder, missing[0])
	}
	return out, nil
}

func checkKnownPlaceholders(text string, entities []Entity) error {
	known := make(map[string]bool, len(entities))
	for _, e := range entities {
		known[e.Replacement] = true
	}
	for _, token := range FindPlaceholders(text) {
		if !known[token] {
			return fmt.Errorf("%w: %s", ErrUnmatchedPlaceholder, token)
		}
	}
	return nil
}

func restorePositional(text string, entities []Entity) (string, bool) {
	ordered := make([]Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AnonStart < ordered[j].AnonStart
	})

	prevEnd := 0
	for _, e := range ordered {
		if e.AnonStart < prevEnd || e.AnonEnd > len(text) || e.AnonEnd-e.AnonStart != len(e.Replacement) {
			return "", false
		}
		if text[e.AnonStart:e.AnonEnd] != e.Replacement {
			return "", false
		}
		prevEnd = e.AnonEnd
	}

	out := text
	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		out = out[:e.AnonStart] + e.Text + out[e.AnonEnd:]
	}
	return out, true
}

// restoreBySearch scans text once, so restored values are never rescanned.
// A placeholder shared by several entities (label mode) hands out their
// originals in original-text order and repeats the last one when exhausted.
// It returns the placeholders that never occurred.
func restoreBySearch(text string, entities []Entity) (string, []string) {
	replacements := ReplacementMapFromEntities(entities)
	placeholders := replacements.Placeholders()
	sort.SliceStable(placeholders, func(i, j int) bool {
		return len(placeholders[i]) > len(placeholders[j])
	})
	byFirstByte := make(map[byte][]string)
	for _, p := range placeholders {
		byFirstByte[p[0]] = append(byFirstByte[p[0]], p)
	}

	used := make(map[string]int, len(placeholders))
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		matched := ""
		for _, p := range byFirstByte[text[i]] {
			if strings.HasPrefix(text[i:], p) {
				matched = p
				break
			}
		}
		if matched == "" {
			b.WriteByte(text[i])
			i++
			continue
		}
		originals := replacements.Originals(matched)
		idx := used[matched]
		if idx >= len(originals) {
			idx = len(originals) - 1
		}
		b.WriteString(originals[idx])
		used[matched]++
		i += len(matched)
	}

	var missing []string
	for _, p := range replacements.Placeholders() {
		if used[p] == 0 {
			missing = append(missing, p)
		}
	}
	return b.String(), missing
}

func sortedByStart(entities []Entity) []Entity {
	ordered := make([]Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})
	return ordered
}
