package stateq

/* levels.go computes fractional level occupations. The Boltzmann ladder
here is the shared primitive behind the per-cycle level update, the
partition function calculation, and the departure-coefficient diagnostics. */

import (
	"math"

	"github.com/phil-mansfield/ember/lib/atomic"
	"github.com/phil-mansfield/ember/lib/plasma"
)

// Levels computes the fractional occupation of every tracked level of every
// ion with reduced-detail levels and stores them in cell.LevDen. The
// temperature and weight follow mode, exactly as in PartitionFunctions.
// Ions whose populations are managed by the macro-atom machinery are left
// alone unless macro ionization is switched off.
func (s *Solver) Levels(cell *plasma.Cell, mode Mode) {
	t, weight := s.modeTW(cell, mode)

	for nion := range s.AD.Ions {
		ion := &s.AD.Ions[nion]
		if ion.NLTE == 0 { continue }
		if ion.IsMacro && s.MacroIoniz { continue }

		s.BoltzmannPopulations(cell.LevDen, nion, weight, t,
			cell.Partition[nion], ion.FirstLevDen)
	}
}

// BoltzmannPopulations fills levden[offset:offset+NLTE] with the fractional
// populations of ion nion's reduced ladder at temperature t and dilution
// weight w, normalized by the partition function z. w = 1 is LTE. The
// offset is the ion's levden offset in the per-cycle update, or 0 when the
// caller is filling a temporary array.
func (s *Solver) BoltzmannPopulations(
	levden []float64, nion int, w, t, z float64, offset int,
) {
	ion := &s.AD.Ions[nion]
	ground := &s.AD.Levels[ion.FirstNLTE]
	kt := atomic.Boltzmann * t

	// The first level is the ground state.
	groundPop := ground.G / z
	levden[offset] = groundPop

	for n := 1; n < ion.NLTE; n++ {
		lev := &s.AD.Levels[ion.FirstNLTE + n]
		levden[offset + n] = groundPop * w * lev.G *
			math.Exp((ground.Ex - lev.Ex) / kt) / ground.G
	}
}

// LTEElementPopulations returns LTE level populations for one element
// expressed as fractions of the element's total density, so the returned
// array sums to 1 across the element. It works on a scratch copy of the
// cell: Saha ionization fractions and partition functions are recomputed
// at the radiation temperature under LTE without touching the live cell.
// The result is indexed like cell.LevDen; entries outside the element are
// zero. This is a diagnostic path (departure coefficients), not part of
// the per-cycle update.
func (s *Solver) LTEElementPopulations(
	nelem int, cell *plasma.Cell,
) []float64 {
	elem := &s.AD.Elements[nelem]
	nh := cell.Rho * atomic.Rho2NH

	dummy := cell.ScratchCopy()
	s.PartitionFunctions(&dummy, ModeLTERadiation)
	s.SahaAbundances(&dummy, dummy.Ne, dummy.Tr)

	out := make([]float64, len(cell.LevDen))
	for nion := elem.FirstIon; nion < elem.FirstIon + elem.NIons; nion++ {
		ion := &s.AD.Ions[nion]
		if ion.NLTE == 0 { continue }

		// Populations as a fraction of the ion, then rescaled by the
		// ion's share of the element. Macro ions are included here even
		// though Levels skips them: the diagnostics need their LTE
		// reference populations.
		ionFraction := dummy.Density[nion] / (nh * elem.Abun)
		z := dummy.Partition[nion]
		s.BoltzmannPopulations(out, nion, 1.0, dummy.Tr, z, ion.FirstLevDen)

		for n := ion.FirstLevDen; n < ion.FirstLevDen + ion.NLTE; n++ {
			out[n] *= ionFraction
		}
	}

	return out
}
