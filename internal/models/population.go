// filepath: internal/models/population.go
package models

import (
	"fmt"
	"math"
)

// Population is one of the fixed immune-cell populations measured per sample.
type Population string

const (
	BCell    Population = "b_cell"
	CD8TCell Population = "cd8_t_cell"
	CD4TCell Population = "cd4_t_cell"
	NKCell   Population = "nk_cell"
	Monocyte Population = "monocyte"
)

// AllPopulations lists every population in source column order.
// The loader maps columns with it and the query layer iterates it.
var AllPopulations = []Population{BCell, CD8TCell, CD4TCell, NKCell, Monocyte}

// IsValid reports whether p belongs to the fixed population set.
func (p Population) IsValid() bool {
	for _, known := range AllPopulations {
		if p == known {
			return true
		}
	}
	return false
}

func (p Population) String() string { return string(p) }

// ParsePopulation converts a column or query value into a Population.
func ParsePopulation(s string) (Population, error) {
	p := Population(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown population: %q", s)
	}
	return p, nil
}

// PopulationNames returns the population names as plain strings.
func PopulationNames() []string {
	names := make([]string, len(AllPopulations))
	for i, p := range AllPopulations {
		names[i] = string(p)
	}
	return names
}

// Percentage returns count as a share of total in percent, rounded to 2 decimals.
// A zero total yields 0.
func Percentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)*10000/float64(total)) / 100
}
