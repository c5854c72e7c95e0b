package ner

import (
	"fmt"
	"unicode/utf8"

	"github.com/NeuralTrust/PrivacyGuard/pkg/anonymizer"
	"github.com/valyala/fastjson"
)

// parsePredictions reads an inference response. The endpoint reports offsets
// in code points; they are converted to byte offsets into text here.
func parsePredictions(text string, payload []byte) ([]anonymizer.TokenPrediction, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrInferenceFailed, err)
	}
	if v.Type() == fastjson.TypeObject {
		if msg := v.GetStringBytes("error"); msg != nil {
			return nil, fmt.Errorf("%w: %s", ErrInferenceFailed, msg)
		}
		return nil, fmt.Errorf("%w: unexpected response object", ErrInferenceFailed)
	}
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	// batched form [[...]]
	if len(items) > 0 && items[0].Type() == fastjson.TypeArray {
		items, _ = items[0].Array()
	}

	offsets := byteOffsets(text)
	preds := make([]anonymizer.TokenPrediction, 0, len(items))
	for _, item := range items {
		if item.Type() != fastjson.TypeObject {
			continue
		}
		startV, endV := item.Get("start"), item.Get("end")
		if startV == nil || endV == nil || startV.Type() != fastjson.TypeNumber || endV.Type() != fastjson.TypeNumber {
			continue
		}
		start, end := startV.GetInt(), endV.GetInt()
		if start < 0 || end > len(offsets)-1 || start >= end {
			continue
		}
		preds = append(preds, anonymizer.TokenPrediction{
			Entity:      string(item.GetStringBytes("entity")),
			EntityGroup: string(item.GetStringBytes("entity_group")),
			Score:       item.GetFloat64("score"),
			Word:        string(item.GetStringBytes("word")),
			Start:       offsets[start],
			End:         offsets[end],
		})
	}
	return preds, nil
}

// byteOffsets maps each code point index (and the end position) to its byte offset.
func byteOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
