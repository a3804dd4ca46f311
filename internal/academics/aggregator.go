package academics

import (
	"math"

	"github.com/edusuite/colegio/internal/models"
)

// Aggregate is the result of averaging a set of grade entries. Count lets
// callers tell "average 0" apart from "no data".
type Aggregate struct {
	Average float64
	Count   int
}

// Round2 rounds half away from zero at two decimals; every stored or
// reported average goes through it.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SimpleAverage is the mean of the non-nil values in the set. An empty set
// yields {0, 0}, not an error.
func SimpleAverage(entries []models.GradeEntry) Aggregate {
	var sum float64
	var n int
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		sum += *e.Value
		n++
	}
	if n == 0 {
		return Aggregate{}
	}
	return Aggregate{Average: Round2(sum / float64(n)), Count: n}
}

// WeightedAverage computes the category-weighted average of the graded
// entries. Each category present contributes its simple average scaled by
// weight/100; when the present weights do not sum to exactly 100 the result
// is rescaled by 100/sum so partial category coverage does not depress it.
// Categories with zero graded entries contribute nothing and are excluded
// from the rescaling denominator.
func WeightedAverage(entries []models.GradeEntry, categories []models.GradingCategory) Aggregate {
	byCategory := make(map[int64][]models.GradeEntry)
	var graded int
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		byCategory[e.CategoryID] = append(byCategory[e.CategoryID], e)
		graded++
	}
	if graded == 0 {
		return Aggregate{}
	}

	var weightedSum, presentWeights float64
	for _, c := range categories {
		group, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		avg := SimpleAverage(group)
		weightedSum += avg.Average * c.Weight / 100
		presentWeights += c.Weight
	}
	if presentWeights == 0 {
		return Aggregate{}
	}
	if presentWeights != 100 {
		weightedSum *= 100 / presentWeights
	}
	return Aggregate{Average: Round2(weightedSum), Count: graded}
}

// CycleAverage is the arithmetic mean of the per-period averages, skipping
// periods with zero graded entries. With no graded periods at all it returns
// ErrNoGradeData so the caller cannot mistake missing data for a 0 average.
func CycleAverage(periodAverages []Aggregate) (float64, error) {
	var sum float64
	var n int
	for _, a := range periodAverages {
		if a.Count == 0 {
			continue
		}
		sum += a.Average
		n++
	}
	if n == 0 {
		return 0, ErrNoGradeData
	}
	return Round2(sum / float64(n)), nil
}
