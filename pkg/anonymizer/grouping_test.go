package anonymizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPredictions(t *testing.T) {
	preds := []TokenPrediction{
		{Entity: "B-PERSON", Start: 0, End: 3},
		{Entity: "I-PERSON", Start: 4, End: 11},
		{Entity: "O", Start: 12, End: 14},
		{Entity: "B-LOC", Start: 15, End: 22},
		{Entity: "I-ORG", Start: 23, End: 26},
	}

	t.Run("simple merges contiguous runs", func(t *testing.T) {
		got := GroupPredictions(preds, AggregationSimple)
		assert.Equal(t, []Span{
			{Start: 0, End: 11, Label: "PERSON"},
			{Start: 15, End: 22, Label: "LOC"},
			{Start: 23, End: 26, Label: "ORG"},
		}, got)
	})

	t.Run("none keeps every tagged token", func(t *testing.T) {
		got := GroupPredictions(preds, AggregationNone)
		require.Len(t, got, 4)
		assert.Equal(t, Span{Start: 0, End: 3, Label: "PERSON"}, got[0])
		assert.Equal(t, Span{Start: 4, End: 11, Label: "PERSON"}, got[1])
	})

	t.Run("B tag always opens a new entity", func(t *testing.T) {
		got := GroupPredictions([]TokenPrediction{
			{Entity: "B-PERSON", Start: 0, End: 3},
			{Entity: "B-PERSON", Start: 4, End: 8},
		}, AggregationSimple)
		assert.Len(t, got, 2)
	})

	t.Run("tags without prefix continue the run", func(t *testing.T) {
		got := GroupPredictions([]TokenPrediction{
			{Entity: "PER", Start: 0, End: 3},
			{Entity: "PER", Start: 4, End: 8},
		}, AggregationSimple)
		assert.Equal(t, []Span{{Start: 0, End: 8, Label: "PER"}}, got)
	})

	t.Run("pre-aggregated groups pass through", func(t *testing.T) {
		got := GroupPredictions([]TokenPrediction{
			{EntityGroup: "PERSON", Start: 0, End: 11},
			{Entity: "B-GPE", Start: 15, End: 19},
		}, AggregationSimple)
		assert.Equal(t, []Span{
			{Start: 0, End: 11, Label: "PERSON"},
			{Start: 15, End: 19, Label: "GPE"},
		}, got)
	})

	t.Run("empty tokens are skipped", func(t *testing.T) {
		got := GroupPredictions([]TokenPrediction{
			{Entity: "B-PERSON", Start: 3, End: 3},
		}, AggregationSimple)
		assert.Empty(t, got)
	})
}

func TestParseAggregationStrategy(t *testing.T) {
	s, err := ParseAggregationStrategy("")
	require.NoError(t, err)
	assert.Equal(t, AggregationSimple, s)

	s, err = ParseAggregationStrategy("NONE")
	require.NoError(t, err)
	assert.Equal(t, AggregationNone, s)

	_, err = ParseAggregationStrategy("max")
	assert.Error(t, err)
}
