package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
)

type item struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// parseItems reads the model's JSON answer. Code fences and surrounding prose
// are tolerated, as is an {"entities": [...]} wrapper.
func parseItems(content string) ([]item, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var wrapped struct {
		Entities []item `json:"entities"`
	}
	if strings.HasPrefix(content, "{") {
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return wrapped.Entities, nil
	}

	start, end := strings.Index(content, "["), strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in %q", ErrInvalidResponse, content)
	}
	var items []item
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return items, nil
}

// locate turns items into spans at every non-overlapping occurrence of their
// text. Items whose text is not in the input are dropped.
func locate(text string, items []item) []anonymizer.Span {
	type key struct {
		start, end int
		label      string
	}
	seen := make(map[key]bool)
	var spans []anonymizer.Span
	for _, it := range items {
		needle := strings.TrimSpace(it.Text)
		label := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(it.Label)), " ", "_")
		if needle == "" || label == "" {
			continue
		}
		for offset := 0; offset < len(text); {
			idx := strings.Index(text[offset:], needle)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(needle)
			k := key{start, end, label}
			if !seen[k] {
				seen[k] = true
				spans = append(spans, anonymizer.Span{
					Start:  start,
					End:    end,
					Text:   needle,
					Label:  label,
					Source: Source,
				})
			}
			offset = end
		}
	}
	return spans
}
