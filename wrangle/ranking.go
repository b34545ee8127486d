package wrangle

import (
	"math"
	"sort"
	"strings"

	"cartotaco/models"
)

// percSuffix is trimmed from composition column names before display.
const percSuffix = "_perc"

// FilterByKeySubstring returns the key/value pairs of rec whose key contains
// substring, in sorted key order so output is deterministic across runs.
func FilterByKeySubstring(rec models.RawRecord, substring string) []models.LabeledValue {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if strings.Contains(k, substring) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]models.LabeledValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.LabeledValue{Label: k, Value: CoerceFloat(rec[k])})
	}
	return out
}

// TopN sorts pairs descending by value and returns the first n with any
// trailing _perc suffix stripped from the label. The sort is stable, so
// ties keep their original relative order; NaN values sort last. The
// caller's slice is never mutated. Empty input yields an empty result.
func TopN(pairs []models.LabeledValue, n int) []models.LabeledValue {
	sorted := make([]models.LabeledValue, len(pairs))
	copy(sorted, pairs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return rankValue(sorted[i].Value) > rankValue(sorted[j].Value)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]models.LabeledValue, 0, n)
	for _, p := range sorted[:n] {
		out = append(out, models.LabeledValue{
			Label: strings.TrimSuffix(p.Label, percSuffix),
			Value: p.Value,
		})
	}
	return out
}

// TopFive is TopN with the default cut used for composition display.
func TopFive(pairs []models.LabeledValue) []models.LabeledValue {
	return TopN(pairs, 5)
}

func rankValue(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

// PercentageOfMax maps every value to its share of the slice maximum, times
// 100. Equal values all map to 100. Behavior is intentionally unguarded for
// an empty slice (empty result) and a zero or negative maximum (NaN and Inf
// propagate exactly as float division produces them).
func PercentageOfMax(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	if len(values) == 0 {
		return out
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	for _, v := range values {
		out = append(out, v/max*100)
	}
	return out
}
