/*package stateq computes the statistical-equilibrium state of plasma cells:
per-ion partition functions, per-level Boltzmann populations, LTE ionization
balance, and the superlevel aggregation used to speed up macro-atom
deactivation sampling.
*/
package stateq

import (
	"math"

	"github.com/phil-mansfield/ember/lib/atomic"
	"github.com/phil-mansfield/ember/lib/diag"
	"github.com/phil-mansfield/ember/lib/plasma"
)

// Mode selects the temperature and radiative weight used by the partition
// function and level population calculations. The same Mode value always
// selects the same (T, weight) pair in both, so the two can never be
// computed with inconsistent inputs.
type Mode int
const (
	// ModeLTERadiation is LTE using the radiation temperature.
	ModeLTERadiation Mode = iota
	// ModeLTEElectron is LTE using the electron temperature.
	ModeLTEElectron
	// ModeDiluteRadiation is the non-LTE dilute blackbody approximation:
	// the radiation temperature weighted by the cell's dilution factor.
	ModeDiluteRadiation
	// ModeNonLTEElectron is the legacy non-LTE mode: the electron
	// temperature with weight 1, for use with non-blackbody fields.
	ModeNonLTEElectron
	// ModeGroundState forces all populations into the ground state by
	// setting the weight to 0. The temperature is moot; Te is used.
	ModeGroundState
	numModes
)

// Solver carries the atomic data and the simulation-wide settings that the
// population calculations depend on. Cells are always passed in explicitly.
type Solver struct {
	AD *atomic.Data
	// MacroIoniz is true when macro-atom ion populations are produced by
	// the detailed macro-atom scheme. In that case the Boltzmann ladder
	// must not overwrite them.
	MacroIoniz bool
	// SuperlevelFloor is the minimum number of levels above an ion's
	// ground state that are kept out of its superlevel.
	SuperlevelFloor int
	// DepTolerance is the factor F bounding the departure coefficient
	// band (1/F, F) inside which a level counts as being in LTE.
	DepTolerance float64
}

// NewSolver creates a Solver with the reference settings: macro ionization
// on, a 5-level aggregation floor, and a departure tolerance of 2.
func NewSolver(ad *atomic.Data) *Solver {
	return &Solver{ AD: ad, MacroIoniz: true,
		SuperlevelFloor: 5, DepTolerance: 2 }
}

// modeTW returns the temperature and weight selected by mode for this cell.
// An unrecognized mode is a configuration defect, not a data condition, so
// it kills the run.
func (s *Solver) modeTW(cell *plasma.Cell, mode Mode) (t, weight float64) {
	switch mode {
	case ModeLTERadiation:
		return cell.Tr, 1
	case ModeLTEElectron:
		return cell.Te, 1
	case ModeDiluteRadiation:
		return cell.Tr, cell.W
	case ModeNonLTEElectron:
		return cell.Te, 1
	case ModeGroundState:
		return cell.Te, 0
	}
	diag.External("stateq: unknown nebular mode %d. Valid modes are in the " +
		"range [0, %d).", mode, numModes)
	return 0, 0
}

// PartitionFunctions computes the partition function of every ion in the
// cell under the approximation selected by mode, then computes the matching
// level populations. Level populations are never computed separately from
// the partition functions that normalize them.
func (s *Solver) PartitionFunctions(cell *plasma.Cell, mode Mode) {
	t, weight := s.modeTW(cell, mode)
	kt := atomic.Boltzmann * t

	for nion := range s.AD.Ions {
		cell.Partition[nion] = s.partitionSum(nion, weight, kt)
	}

	s.Levels(cell, mode)
}

// PartitionFunctionsPair repeats the partition function calculation for the
// two adjacent ions xnion-1 and xnion at a caller-supplied temperature and
// weight, bypassing the cell's stored values. This supports pairwise
// ionization corrections that need partition functions at an auxiliary
// temperature without recomputing the whole cell. Only the two affected
// entries of cell.Partition are touched.
func (s *Solver) PartitionFunctionsPair(
	cell *plasma.Cell, xnion int, temp, weight float64,
) {
	kt := atomic.Boltzmann * temp
	for nion := xnion - 1; nion <= xnion; nion++ {
		cell.Partition[nion] = s.partitionSum(nion, weight, kt)
	}
}

// partitionSum evaluates the Boltzmann sum for one ion. The full-detail
// ladder is preferred, then the reduced ladder, and an ion with no level
// data at all falls back to its bare statistical weight.
func (s *Solver) partitionSum(nion int, weight, kt float64) float64 {
	ion := &s.AD.Ions[nion]

	var first, n int
	switch {
	case ion.NLevels > 0:
		first, n = ion.FirstLevel, ion.NLevels
	case ion.NLTE > 0:
		first, n = ion.FirstNLTE, ion.NLTE
	default:
		return ion.G
	}

	// The first level of a ladder is its ground state. Its energy is
	// subtracted off in case the common zero point isn't the ground state.
	ground := &s.AD.Levels[first]
	z := ground.G
	for m := first + 1; m < first + n; m++ {
		lev := &s.AD.Levels[m]
		z += weight * lev.G * math.Exp((ground.Ex - lev.Ex) / kt)
	}

	return z
}
