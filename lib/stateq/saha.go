package stateq

/* saha.go is the LTE ionization balance. The nebular correction schemes
live with the rest of the ionization machinery, not here; this solver only
needs to supply the LTE fractions consumed by the departure-coefficient
diagnostics. */

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/ember/lib/atomic"
	"github.com/phil-mansfield/ember/lib/plasma"
)

// SahaAbundances computes LTE ion number densities for every element at
// temperature t and electron density ne and writes them into cell.Density.
// It uses the partition functions already stored in the cell, so the caller
// must have computed those at the same temperature first.
func (s *Solver) SahaAbundances(cell *plasma.Cell, ne, t float64) {
	nh := cell.Rho * atomic.Rho2NH
	kt := atomic.Boltzmann * t
	t32 := t * math.Sqrt(t)

	for nelem := range s.AD.Elements {
		elem := &s.AD.Elements[nelem]
		first := elem.FirstIon

		// Relative densities along the ionization ladder, anchored at the
		// neutral stage.
		frac := make([]float64, elem.NIons)
		frac[0] = 1
		for i := 1; i < elem.NIons; i++ {
			lower, upper := first + i - 1, first + i
			ratio := 2 * atomic.Saha * t32 / ne *
				cell.Partition[upper] / cell.Partition[lower] *
				math.Exp(-s.AD.Ions[lower].IP / kt)
			frac[i] = frac[i-1] * ratio

			// At high temperatures the running product can overflow long
			// before the normalization would tame it. Rescaling the whole
			// ladder leaves the fractions unchanged.
			if frac[i] > 1e250 {
				for j := 0; j <= i; j++ {
					frac[j] /= 1e250
				}
			}
		}

		total := floats.Sum(frac)
		nElem := nh * elem.Abun
		for i := 0; i < elem.NIons; i++ {
			cell.Density[first + i] = nElem * frac[i] / total
		}
	}
}
