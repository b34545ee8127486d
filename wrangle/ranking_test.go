package wrangle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartotaco/models"
)

func TestFilterByKeySubstring(t *testing.T) {
	rec := models.RawRecord{"chicken_perc": 0.5, "beef_perc": 0.3, "name": "Test"}

	result := FilterByKeySubstring(rec, "perc")
	assert.Equal(t, []models.LabeledValue{
		{Label: "beef_perc", Value: 0.3},
		{Label: "chicken_perc", Value: 0.5},
	}, result)
}

func TestFilterByKeySubstringNoMatches(t *testing.T) {
	rec := models.RawRecord{"name": "Test", "type": "Truck"}
	assert.Empty(t, FilterByKeySubstring(rec, "perc"))
	assert.Empty(t, FilterByKeySubstring(models.RawRecord{}, "perc"))
}

func TestTopNSortsDescendingAndCutsToFive(t *testing.T) {
	pairs := []models.LabeledValue{
		{Label: "a_perc", Value: 0.1},
		{Label: "b_perc", Value: 0.9},
		{Label: "c_perc", Value: 0.5},
		{Label: "d_perc", Value: 0.3},
		{Label: "e_perc", Value: 0.7},
		{Label: "f_perc", Value: 0.2},
	}

	result := TopN(pairs, 5)
	require.Len(t, result, 5)
	assert.Equal(t, models.LabeledValue{Label: "b", Value: 0.9}, result[0])
	assert.Equal(t, models.LabeledValue{Label: "e", Value: 0.7}, result[1])
	for _, p := range result {
		assert.NotContains(t, p.Label, "_perc")
	}
}

func TestTopNDoesNotMutateCaller(t *testing.T) {
	pairs := []models.LabeledValue{
		{Label: "a_perc", Value: 0.1},
		{Label: "b_perc", Value: 0.9},
	}

	TopN(pairs, 5)
	assert.Equal(t, "a_perc", pairs[0].Label)
	assert.Equal(t, 0.1, pairs[0].Value)
}

func TestTopNFewerThanN(t *testing.T) {
	pairs := []models.LabeledValue{
		{Label: "a_perc", Value: 0.5},
		{Label: "b_perc", Value: 0.3},
	}
	assert.Len(t, TopN(pairs, 5), 2)
}

func TestTopNStableTiesAndNaNLast(t *testing.T) {
	pairs := []models.LabeledValue{
		{Label: "first_perc", Value: 0.4},
		{Label: "nan_perc", Value: math.NaN()},
		{Label: "second_perc", Value: 0.4},
	}

	result := TopN(pairs, 3)
	require.Len(t, result, 3)
	assert.Equal(t, "first", result[0].Label)
	assert.Equal(t, "second", result[1].Label)
	assert.Equal(t, "nan", result[2].Label)
}

func TestTopNEmptyInput(t *testing.T) {
	assert.Empty(t, TopN(nil, 5))
}

func TestPercentageOfMax(t *testing.T) {
	assert.Equal(t, []float64{50, 100, 25}, PercentageOfMax([]float64{50, 100, 25}))
	assert.Equal(t, []float64{100, 100, 100}, PercentageOfMax([]float64{10, 10, 10}))
	assert.Equal(t, []float64{100}, PercentageOfMax([]float64{42}))
}

// Empty and zero-max inputs are documented as unguarded; this pins the
// behavior so it never changes silently.
func TestPercentageOfMaxUnguardedEdges(t *testing.T) {
	assert.Empty(t, PercentageOfMax(nil))

	zeros := PercentageOfMax([]float64{0, 0})
	require.Len(t, zeros, 2)
	assert.True(t, math.IsNaN(zeros[0]))
	assert.True(t, math.IsNaN(zeros[1]))

	mixed := PercentageOfMax([]float64{5, 0})
	require.Len(t, mixed, 2)
	assert.Equal(t, float64(100), mixed[0])
	assert.Equal(t, float64(0), mixed[1])
}
