package stateq

/* superlevel.go aggregates the high-lying, closely LTE-coupled levels of an
ion into a single pseudo-level. The aggregate is rebuilt once per cycle from
the previous cycle's converged populations and is sampled (read-only)
millions of times during transport to decide which physical level a
macro-atom deactivates into. */

import (
	"math"

	"github.com/phil-mansfield/ember/lib/atomic"
	"github.com/phil-mansfield/ember/lib/diag"
	"github.com/phil-mansfield/ember/lib/plasma"
	"github.com/phil-mansfield/ember/lib/rng"
)

// SetupSuperlevels rebuilds the superlevel tables of every
// superlevel-flagged ion in every cell: the LTE populations relative to the
// ion's ground state at the cell's electron temperature, the threshold
// level above which levels are aggregated, and the normalization of the
// aggregate. It must run after the cycle's level populations are in place
// and before transport starts sampling.
func (s *Solver) SetupSuperlevels(g *plasma.Grid) {
	for nion := range s.AD.Ions {
		ion := &s.AD.Ions[nion]
		if !ion.HasSuperlevel { continue }

		ground := ion.FirstNLTE
		top := ground + ion.NLTE

		for nplasma := range g.Cells {
			cell := &g.Cells[nplasma]
			mc := &g.Macro[nplasma]

			// LTE at Te is what we want here.
			kt := atomic.Boltzmann * cell.Te
			g0 := &s.AD.Levels[ground]

			// Populations are relative to the ground state, so the first
			// entry is 1.
			mc.SuperlevelLTEPops[ground] = 1.0
			for n := ground + 1; n < top; n++ {
				lev := &s.AD.Levels[n]
				mc.SuperlevelLTEPops[n] = lev.G / g0.G *
					math.Exp((g0.Ex - lev.Ex) / kt)
			}

			mc.SuperlevelThreshold[nion] =
				s.SuperlevelThreshold(cell, mc, nion, g.Cycle)

			// The normalization is the sum of the populations over the
			// aggregated levels, divided by the statistical weight. It is
			// assigned fresh every cycle.
			norm := 0.0
			for n := mc.SuperlevelThreshold[nion]; n < top; n++ {
				norm += mc.SuperlevelLTEPops[n] / s.AD.Levels[n].G
			}
			mc.SuperlevelNorm[nion] = norm
		}
	}
}

// SuperlevelThreshold returns the global index of the lowest level inside
// ion nion's superlevel for this cell. On the first cycle there is no
// population history, so the threshold is the ion's topmost level and
// nothing is aggregated. On later cycles the walk starts at the top and
// moves down while the departure coefficient (this cycle's LTE population
// over last cycle's simulated population, both relative to ground) stays
// strictly inside the band (1/F, F) and the threshold stays more than
// SuperlevelFloor levels above ground, then steps back up by one.
func (s *Solver) SuperlevelThreshold(
	cell *plasma.Cell, mc *plasma.MacroCell, nion, cycle int,
) int {
	ion := &s.AD.Ions[nion]
	ground := ion.FirstNLTE
	threshold := ground + ion.NLTE - 1

	if cycle == 0 {
		return threshold
	}

	lastden := ion.FirstLevDen + ion.NLTE - 1
	groundDen := cell.LevDen[ion.FirstLevDen]

	depCoef := mc.SuperlevelLTEPops[threshold] /
		(cell.LevDen[lastden] / groundDen)

	n := 0
	for depCoef < s.DepTolerance && depCoef > 1/s.DepTolerance &&
		threshold - ground > s.SuperlevelFloor {

		threshold--
		n++
		depCoef = mc.SuperlevelLTEPops[threshold] /
			(cell.LevDen[lastden - n] / groundDen)
	}

	// The walk stopped on the first level outside the band (or at the
	// floor), so the superlevel starts one above it. If even the topmost
	// level was outside the band this leaves the aggregate empty.
	threshold++

	return threshold
}

// ChooseSuperlevelDeactivation picks which physical level a macro-atom in
// uplvl's superlevel deactivates from, by inverting the cumulative weight
// ladder built by SetupSuperlevels. It is called from the transport hot
// loop, so it never allocates and never aborts: a walk that cannot meet its
// target is logged and the best candidate is returned anyway.
func (s *Solver) ChooseSuperlevelDeactivation(
	cell *plasma.Cell, mc *plasma.MacroCell, uplvl int, src rng.UniformSource,
) int {
	nion := s.AD.Levels[uplvl].NIon
	ion := &s.AD.Ions[nion]
	ground := ion.FirstNLTE
	top := ground + ion.NLTE

	z := src.Uniform()
	target := z * mc.SuperlevelNorm[nion]

	// Keep walking until the running sum catches the draw. Note the
	// division by g.
	runTot := 0.0
	n := mc.SuperlevelThreshold[nion]
	for runTot < target && n < top {
		runTot += mc.SuperlevelLTEPops[n] / s.AD.Levels[n].G
		n++
	}

	// The walk went one step past the level it landed on, unless it never
	// moved off the threshold.
	if n > mc.SuperlevelThreshold[nion] {
		n--
	}

	if runTot < target {
		diag.Warn("ChooseSuperlevelDeactivation: failed to choose a " +
			"deactivation level. run_tot %8.4e target %8.4e draw %8.4e " +
			"for ion %d in cell %d.", runTot, target, z, nion, cell.NPlasma)
	}
	if n < mc.SuperlevelThreshold[nion] {
		diag.Warn("ChooseSuperlevelDeactivation: level %d is not in the " +
			"superlevel of ion %d.", n, nion)
	}

	return n
}
