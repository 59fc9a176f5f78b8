/*package atomic provides read-only access to the element, ion, and level
tables used by the population calculations. The tables are built once before
the simulation starts and are shared by every worker without synchronization
afterwards.
*/
package atomic

import (
	"fmt"
)

// Physical constants, CGS.
const (
	// Boltzmann is the Boltzmann constant in erg/K.
	Boltzmann = 1.38062e-16
	// Planck is the Planck constant in erg s.
	Planck = 6.6262e-27
	// ElectronMass is the electron mass in g.
	ElectronMass = 9.10956e-28
	// ProtonMass is the proton mass in g.
	ProtonMass = 1.672661e-24
	// Saha is the constant 2 (2 pi m_e k / h^2)^(3/2) in cm^-3 K^-1.5,
	// used by the ionization balance.
	Saha = 4.82907e15
	// EV2Ergs converts electron volts to ergs.
	EV2Ergs = 1.602192e-12
	// Rho2NH converts a mass density in g/cm^3 to a hydrogen number
	// density, assuming cosmic abundances.
	Rho2NH = 4.217851e23
)

// Element describes one element in the atomic data. Its ions are stored
// contiguously in the ion table starting at FirstIon.
type Element struct {
	// Name is the element's symbol, e.g. "H" or "C".
	Name string
	// Z is the atomic number.
	Z int
	// Abun is the element's abundance by number relative to hydrogen.
	Abun float64
	// FirstIon and NIons locate the element's ions in the ion table.
	FirstIon, NIons int
}

// Ion describes one ionization state. An ion may carry levels at full
// detail (NLevels of them, starting at FirstLevel), at reduced "non-LTE"
// detail (NLTE of them, starting at FirstNLTE), both, or neither.
type Ion struct {
	// Z is the atomic number and Istate the ionization state, with
	// Istate = 1 meaning neutral.
	Z, Istate int
	// G is the statistical weight of the ion's ground state. It is the
	// fallback partition function for ions with no level data.
	G float64
	// IP is the ionization potential of the ion's ground state in ergs.
	IP float64
	// NLevels and FirstLevel locate the ion's full-detail levels in the
	// level table. NLevels == 0 means no full-detail levels.
	NLevels, FirstLevel int
	// NLTE and FirstNLTE locate the ion's reduced-detail levels in the
	// level table. NLTE == 0 means none.
	NLTE, FirstNLTE int
	// FirstLevDen is the ion's offset into the per-cell level-density
	// array. Reduced-detail levels are packed there contiguously.
	FirstLevDen int
	// IsMacro is true if the ion's populations are managed by the
	// macro-atom machinery rather than by the Boltzmann ladder.
	IsMacro bool
	// HasSuperlevel is true if the ion's high-lying levels may be
	// aggregated into a superlevel.
	HasSuperlevel bool
}

// Level describes a single level of some ion's ladder.
type Level struct {
	// NIon is the index of the owning ion in the ion table.
	NIon int
	// G is the level's statistical weight.
	G float64
	// Ex is the level's excitation energy in ergs, relative to a common
	// zero point. The first level of a ladder is the ground state and has
	// the smallest Ex of its ladder.
	Ex float64
}

// Data is the full set of atomic data tables. It is immutable after
// Validate has been called on it.
type Data struct {
	Elements []Element
	Ions []Ion
	Levels []Level
}

// NLevDen returns the total number of level-density slots tracked per cell,
// i.e. the sum of NLTE over all ions.
func (d *Data) NLevDen() int {
	n := 0
	for i := range d.Ions {
		n += d.Ions[i].NLTE
	}
	return n
}

// Validate checks the invariants that the population code relies on but
// never rechecks: level ranges are in bounds, levels are contiguous within
// their ion and ordered by energy with the ground state first, levden
// offsets are the cumulative sum of NLTE, and element ion ranges are
// consistent. It returns nil if the tables are usable.
func (d *Data) Validate() error {
	firstLevDen := 0
	for nion := range d.Ions {
		ion := &d.Ions[nion]

		if err := d.checkLadder(nion, ion.FirstLevel, ion.NLevels); err != nil {
			return err
		}
		if err := d.checkLadder(nion, ion.FirstNLTE, ion.NLTE); err != nil {
			return err
		}

		if ion.NLTE > 0 && ion.FirstLevDen != firstLevDen {
			return fmt.Errorf("Ion %d has FirstLevDen = %d, but the NLTE " +
				"counts of the ions before it add up to %d.",
				nion, ion.FirstLevDen, firstLevDen)
		}
		firstLevDen += ion.NLTE
	}

	for nelem := range d.Elements {
		elem := &d.Elements[nelem]
		if elem.FirstIon < 0 || elem.FirstIon + elem.NIons > len(d.Ions) {
			return fmt.Errorf("Element %s's ion range [%d, %d) runs outside " +
				"the ion table, which has %d ions.", elem.Name, elem.FirstIon,
				elem.FirstIon + elem.NIons, len(d.Ions))
		}
		for nion := elem.FirstIon; nion < elem.FirstIon + elem.NIons; nion++ {
			if d.Ions[nion].Z != elem.Z {
				return fmt.Errorf("Ion %d has Z = %d, but belongs to the " +
					"element %s with Z = %d.", nion, d.Ions[nion].Z,
					elem.Name, elem.Z)
			}
		}
	}

	return nil
}

// checkLadder checks one contiguous level range belonging to ion nion.
func (d *Data) checkLadder(nion, first, n int) error {
	if n == 0 { return nil }

	if first < 0 || first + n > len(d.Levels) {
		return fmt.Errorf("Ion %d's level range [%d, %d) runs outside the " +
			"level table, which has %d levels.", nion, first, first + n,
			len(d.Levels))
	}

	for m := first; m < first + n; m++ {
		if d.Levels[m].NIon != nion {
			return fmt.Errorf("Level %d is inside ion %d's ladder, but " +
				"claims to belong to ion %d.", m, nion, d.Levels[m].NIon)
		}
		// The ground state is always the first level of the ladder, so the
		// energies must be non-decreasing from it.
		if m > first && d.Levels[m].Ex < d.Levels[m-1].Ex {
			return fmt.Errorf("Level %d of ion %d has excitation energy " +
				"%g erg, which is below the %g erg of the level before it. " +
				"Ladders must be ordered by energy with the ground state " +
				"first.", m, nion, d.Levels[m].Ex, d.Levels[m-1].Ex)
		}
	}

	return nil
}
