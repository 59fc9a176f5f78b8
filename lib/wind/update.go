/*package wind drives the per-cycle statistical-equilibrium update. Cells
are split into static contiguous ranges, one per worker; each worker
exclusively owns its range while updating it, the results are merged through
the exchange layer at the barrier, and only then are the superlevel tables
rebuilt for the transport phase.
*/
package wind

import (
	"sync"

	"github.com/phil-mansfield/ember/lib/diag"
	"github.com/phil-mansfield/ember/lib/exchange"
	"github.com/phil-mansfield/ember/lib/plasma"
	"github.com/phil-mansfield/ember/lib/stateq"
)

// ParallelRange returns the half-open cell range [lo, hi) owned by the
// given worker rank when n cells are split across nWorkers. Ranges are
// contiguous, disjoint, and cover [0, n) exactly; the remainder is spread
// over the lowest ranks.
func ParallelRange(rank, n, nWorkers int) (lo, hi int) {
	per := n / nWorkers
	extra := n % nWorkers

	lo = rank * per
	if rank < extra {
		lo += rank
	} else {
		lo += extra
	}

	hi = lo + per
	if rank < extra { hi++ }

	return lo, hi
}

// Update runs one statistical-equilibrium cycle over the whole grid. Phase
// one updates every cell's partition functions and level populations under
// the given mode, in parallel over disjoint worker ranges. The workers'
// results are then merged through packed exchange blocks, standing in for
// the cross-process broadcast that a multi-node run performs at this
// barrier. Phase two, which reads every cell, rebuilds the superlevel
// tables. The cycle counter advances last.
func Update(
	s *stateq.Solver, g *plasma.Grid, mode stateq.Mode, nWorkers int,
) {
	if nWorkers < 1 || nWorkers > len(g.Cells) {
		diag.External("wind.Update was asked to use %d workers for %d " +
			"cells. The worker count must be in the range [1, %d].",
			nWorkers, len(g.Cells), len(g.Cells))
	}

	blocks := make([][]byte, nWorkers)
	wg := &sync.WaitGroup{ }
	wg.Add(nWorkers)

	for rank := 0; rank < nWorkers; rank++ {
		go func(rank int) {
			defer wg.Done()

			lo, hi := ParallelRange(rank, len(g.Cells), nWorkers)
			for i := lo; i < hi; i++ {
				s.PartitionFunctions(&g.Cells[i], mode)
			}

			block, err := exchange.PackRange(g, lo, hi)
			if err != nil {
				diag.Internal("wind.Update failed to pack cells [%d, %d): " +
					"%s", lo, hi, err.Error())
			}
			blocks[rank] = block
		}(rank)
	}

	wg.Wait()

	// The barrier: after this loop every worker's view of the grid is
	// consistent again.
	for rank := 0; rank < nWorkers; rank++ {
		if _, _, err := exchange.UnpackRange(g, blocks[rank]); err != nil {
			diag.Internal("wind.Update failed to unpack worker %d's " +
				"block: %s", rank, err.Error())
		}
	}

	s.SetupSuperlevels(g)
	g.Cycle++
}
