package exchange

import (
	"encoding/binary"
	"os"
	"path"
	"testing"

	"github.com/phil-mansfield/ember/lib/atomic"
	"github.com/phil-mansfield/ember/lib/eq"
	"github.com/phil-mansfield/ember/lib/plasma"
)

// testGrid allocates an n-cell grid against a small two-ion table set.
func testGrid(n int) *plasma.Grid {
	ad := &atomic.Data{
		Elements: []atomic.Element{
			{ Name: "Aa", Z: 1, Abun: 1, FirstIon: 0, NIons: 2 },
		},
		Ions: []atomic.Ion{
			{ Z: 1, Istate: 1, G: 2, NLTE: 3, FirstNLTE: 0, FirstLevDen: 0 },
			{ Z: 1, Istate: 2, G: 1, NLTE: 1, FirstNLTE: 3, FirstLevDen: 3 },
		},
		Levels: []atomic.Level{
			{ NIon: 0, G: 2, Ex: 0 },
			{ NIon: 0, G: 4, Ex: 1e-12 },
			{ NIon: 0, G: 6, Ex: 2e-12 },
			{ NIon: 1, G: 1, Ex: 0 },
		},
	}
	return plasma.NewGrid(ad, n)
}

// fillGrid writes distinct recognizable values into every field of every
// cell.
func fillGrid(g *plasma.Grid) {
	for i := range g.Cells {
		c, mc := &g.Cells[i], &g.Macro[i]
		base := float64(100 * (i + 1))

		c.Te, c.Tr, c.W = base + 1, base + 2, 0.5
		c.Ne, c.Rho, c.Vol = base + 3, base + 4, base + 5

		for j := range c.Partition { c.Partition[j] = base + float64(j) }
		for j := range c.Density { c.Density[j] = 2 * base + float64(j) }
		for j := range c.LevDen { c.LevDen[j] = 3 * base + float64(j) }
		for j := range mc.SuperlevelNorm {
			mc.SuperlevelNorm[j] = 4 * base + float64(j)
		}
		for j := range mc.SuperlevelLTEPops {
			mc.SuperlevelLTEPops[j] = 5 * base + float64(j)
		}
		for j := range mc.SuperlevelThreshold {
			mc.SuperlevelThreshold[j] = i + j
		}
	}
}

func cellsEqual(t *testing.T, i int, g, h *plasma.Grid) {
	c, x := &g.Cells[i], &h.Cells[i]
	mc, mx := &g.Macro[i], &h.Macro[i]

	if c.NWind != x.NWind || c.NPlasma != x.NPlasma ||
		c.Te != x.Te || c.Tr != x.Tr || c.W != x.W ||
		c.Ne != x.Ne || c.Rho != x.Rho || c.Vol != x.Vol {
		t.Errorf("cell %d) Expected the scalars to survive the round trip.", i)
	}
	if !eq.Float64s(c.Partition, x.Partition) ||
		!eq.Float64s(c.Density, x.Density) ||
		!eq.Float64s(c.LevDen, x.LevDen) {
		t.Errorf("cell %d) Expected the cell arrays to survive the round " +
			"trip.", i)
	}
	if !eq.Float64s(mc.SuperlevelNorm, mx.SuperlevelNorm) ||
		!eq.Float64s(mc.SuperlevelLTEPops, mx.SuperlevelLTEPops) ||
		!eq.Ints(mc.SuperlevelThreshold, mx.SuperlevelThreshold) {
		t.Errorf("cell %d) Expected the superlevel tables to survive the " +
			"round trip.", i)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	src := testGrid(4)
	fillGrid(src)
	src.Cycle = 7

	block, err := PackRange(src, 1, 3)
	if err != nil {
		t.Fatalf("Expected PackRange to succeed, got: %s", err.Error())
	}

	dst := testGrid(4)
	lo, hi, err := UnpackRange(dst, block)
	if err != nil {
		t.Fatalf("Expected UnpackRange to succeed, got: %s", err.Error())
	}
	if lo != 1 || hi != 3 {
		t.Errorf("Expected the block to cover cells [1, 3), got [%d, %d).",
			lo, hi)
	}
	if dst.Cycle != 7 {
		t.Errorf("Expected the block to carry cycle 7, got %d.", dst.Cycle)
	}

	for i := lo; i < hi; i++ {
		cellsEqual(t, i, src, dst)
	}

	// Cells outside the block stay zeroed.
	if dst.Cells[0].Te != 0 || dst.Cells[3].Te != 0 {
		t.Errorf("Expected cells outside the block to be untouched, got " +
			"Te = %g and %g.", dst.Cells[0].Te, dst.Cells[3].Te)
	}
}

func TestPackRangeBounds(t *testing.T) {
	g := testGrid(4)

	tests := []struct{ lo, hi int } {
		{ -1, 2 },
		{ 0, 5 },
		{ 3, 2 },
	}
	for i := range tests {
		if _, err := PackRange(g, tests[i].lo, tests[i].hi); err == nil {
			t.Errorf("%d) Expected packing the range [%d, %d) of a 4-cell " +
				"grid to fail.", i, tests[i].lo, tests[i].hi)
		}
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	fname := path.Join(t.TempDir(), "test.ckpt")

	src := testGrid(3)
	fillGrid(src)
	src.Cycle = 2

	if err := WriteCheckpoint(fname, src); err != nil {
		t.Fatalf("Expected WriteCheckpoint to succeed, got: %s", err.Error())
	}

	dst := testGrid(3)
	if err := ReadCheckpoint(fname, dst); err != nil {
		t.Fatalf("Expected ReadCheckpoint to succeed, got: %s", err.Error())
	}

	if dst.Cycle != 2 {
		t.Errorf("Expected the checkpoint to carry cycle 2, got %d.",
			dst.Cycle)
	}
	for i := range src.Cells {
		cellsEqual(t, i, src, dst)
	}
}

// TestCheckpointRejects checks that checkpoints with the wrong magic number,
// flipped endianness, or a future format version are refused instead of
// being misread.
func TestCheckpointRejects(t *testing.T) {
	dir := t.TempDir()
	g := testGrid(1)

	writeHeader := func(fname string, magic, version uint32) {
		fp, err := os.Create(fname)
		if err != nil { t.Fatalf("%s", err.Error()) }
		defer fp.Close()
		binary.Write(fp, order, magic)
		binary.Write(fp, order, version)
		binary.Write(fp, order, int64(0))
	}

	wrongMagic := path.Join(dir, "wrong_magic.ckpt")
	writeHeader(wrongMagic, 0xdeadbeef, Version)
	if err := ReadCheckpoint(wrongMagic, g); err == nil {
		t.Errorf("Expected a file with the wrong magic number to be refused.")
	}

	flipped := path.Join(dir, "flipped.ckpt")
	writeHeader(flipped, ReverseMagicNumber, Version)
	if err := ReadCheckpoint(flipped, g); err == nil {
		t.Errorf("Expected a flipped-endianness file to be refused.")
	}

	future := path.Join(dir, "future.ckpt")
	writeHeader(future, MagicNumber, Version + 1)
	if err := ReadCheckpoint(future, g); err == nil {
		t.Errorf("Expected a future-version file to be refused.")
	}
}
