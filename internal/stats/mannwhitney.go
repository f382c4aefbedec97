// Package stats implements the rank-based significance test used by the
// responder comparison.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmptyGroup is returned when one of the compared groups has no observations.
var ErrEmptyGroup = errors.New("comparison group is empty")

// Result is the outcome of a two-sided Mann-Whitney U test.
type Result struct {
	// U is the statistic of the first sample.
	U float64
	// Z is the standardized statistic; 0 when the pooled values are all tied.
	Z      float64
	PValue float64
}

type observation struct {
	value float64
	first bool
}

// MannWhitneyU compares x and y with a two-sided Mann-Whitney U test.
//
// The p-value comes from the normal approximation with tie-corrected variance
// and without continuity correction. Tied values receive their average rank.
func MannWhitneyU(x, y []float64) (Result, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return Result{}, ErrEmptyGroup
	}

	pooled := make([]observation, 0, n1+n2)
	for _, v := range x {
		pooled = append(pooled, observation{value: v, first: true})
	}
	for _, v := range y {
		pooled = append(pooled, observation{value: v})
	}
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].value < pooled[j].value })

	var rankSum, tieTerm float64
	for i := 0; i < len(pooled); {
		j := i
		for j < len(pooled) && pooled[j].value == pooled[i].value {
			j++
		}
		// Ranks i+1..j share their mean.
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			if pooled[k].first {
				rankSum += avg
			}
		}
		t := float64(j - i)
		tieTerm += t*t*t - t
		i = j
	}

	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	u := rankSum - fn1*(fn1+1)/2
	mean := fn1 * fn2 / 2
	variance := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))

	if variance <= 0 {
		// Every pooled value is identical: no evidence of a difference.
		return Result{U: u, Z: 0, PValue: 1}, nil
	}

	z := (u - mean) / math.Sqrt(variance)
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return Result{U: u, Z: z, PValue: p}, nil
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
