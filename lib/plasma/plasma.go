/*package plasma holds the per-cell simulation state: the plasma cells
themselves, their macro-atom companions, and the grid that owns both. Cells
are stored as flat arrays indexed by cell id and are passed into the
population routines explicitly rather than through globals.
*/
package plasma

import (
	"github.com/phil-mansfield/ember/lib/atomic"
)

// Cell is the physical state of one spatial cell. It is recomputed every
// statistical-equilibrium cycle. During an update each cell is written by
// exactly one worker, so no locking is done here.
type Cell struct {
	// NWind is the index of the cell in the geometric wind grid, and
	// NPlasma its index in the plasma/macro arrays.
	NWind, NPlasma int
	// Te and Tr are the electron and radiation temperatures in K.
	Te, Tr float64
	// W is the radiation dilution factor. W = 1 means full LTE coupling
	// to the radiation field.
	W float64
	// Ne is the electron density in cm^-3 and Rho the mass density in
	// g/cm^3.
	Ne, Rho float64
	// Vol is the cell volume in cm^3.
	Vol float64
	// Partition holds one partition function per ion.
	Partition []float64
	// Density holds one number density per ion, in cm^-3.
	Density []float64
	// LevDen holds the fractional occupation of every tracked level,
	// ion-contiguous starting at each ion's FirstLevDen.
	LevDen []float64
}

// MacroCell is the superlevel bookkeeping for one cell. It is rebuilt every
// cycle before transport begins and is read-only during transport.
type MacroCell struct {
	// SuperlevelThreshold holds, per ion, the global index of the lowest
	// level inside the ion's superlevel.
	SuperlevelThreshold []int
	// SuperlevelNorm holds, per ion, the sum of SuperlevelLTEPops/g over
	// the aggregated levels.
	SuperlevelNorm []float64
	// SuperlevelLTEPops holds, per level (global index), the LTE
	// population relative to the ion's ground state. Only entries for
	// superlevel-flagged ions are maintained.
	SuperlevelLTEPops []float64
}

// Grid owns the cell arrays for the whole simulation.
type Grid struct {
	Cells []Cell
	Macro []MacroCell
	// Cycle counts completed statistical-equilibrium iterations. On
	// cycle 0 no population history exists yet.
	Cycle int
}

// NewGrid allocates a grid of n cells with every per-cell array sized from
// the atomic data tables.
func NewGrid(ad *atomic.Data, n int) *Grid {
	g := &Grid{
		Cells: make([]Cell, n),
		Macro: make([]MacroCell, n),
	}

	nIons, nLevels, nLevDen := len(ad.Ions), len(ad.Levels), ad.NLevDen()
	for i := range g.Cells {
		g.Cells[i] = Cell{
			NWind: i, NPlasma: i,
			Partition: make([]float64, nIons),
			Density: make([]float64, nIons),
			LevDen: make([]float64, nLevDen),
		}
		g.Macro[i] = MacroCell{
			SuperlevelThreshold: make([]int, nIons),
			SuperlevelNorm: make([]float64, nIons),
			SuperlevelLTEPops: make([]float64, nLevels),
		}
	}

	return g
}

// ScratchCopy returns a throwaway copy of the cell for diagnostic
// calculations. Scalar fields are copied directly and the arrays that the
// LTE diagnostics overwrite (Partition, Density, LevDen) are deep-copied,
// so mutating the copy never touches the live cell.
func (c *Cell) ScratchCopy() Cell {
	x := *c

	x.Partition = make([]float64, len(c.Partition))
	copy(x.Partition, c.Partition)
	x.Density = make([]float64, len(c.Density))
	copy(x.Density, c.Density)
	x.LevDen = make([]float64, len(c.LevDen))
	copy(x.LevDen, c.LevDen)

	return x
}
