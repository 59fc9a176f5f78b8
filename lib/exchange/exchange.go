/*package exchange serializes the per-cell state that must be shared between
workers at the barrier separating the statistical-equilibrium update from
transport: partition functions, ion densities, level densities, and the
superlevel tables. The same packed blocks double as checkpoints. The binary
layout is an internal detail, not a stable wire format.
*/
package exchange

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/ember/lib/plasma"
)

const (
	// MagicNumber is an arbitrary number at the start of all ember
	// checkpoints which should help identify when the code is run on
	// something else by accident.
	MagicNumber = 0x77e11d00
	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber = 0x001de177
	Version = 1
)

// Blocks are always encoded little-endian; cross-endian exchange isn't
// supported and is caught by the magic number check.
var order = binary.ByteOrder(binary.LittleEndian)

// blockHeader locates a packed block's cells inside the grid.
type blockHeader struct {
	Lo, Hi, Cycle int64
}

// PackRange encodes the exchanged state of cells [lo, hi) into a
// zstd-compressed block.
func PackRange(g *plasma.Grid, lo, hi int) ([]byte, error) {
	if lo < 0 || hi > len(g.Cells) || lo > hi {
		return nil, fmt.Errorf("Cannot pack the cell range [%d, %d) from a " +
			"grid with %d cells.", lo, hi, len(g.Cells))
	}

	buf := &bytes.Buffer{ }
	hd := blockHeader{ int64(lo), int64(hi), int64(g.Cycle) }
	if err := binary.Write(buf, order, &hd); err != nil { return nil, err }

	for i := lo; i < hi; i++ {
		if err := writeCell(buf, &g.Cells[i], &g.Macro[i]); err != nil {
			return nil, err
		}
	}

	return zstd.Compress(nil, buf.Bytes())
}

// UnpackRange decodes a block produced by PackRange into the grid, writing
// only the cells the block contains. It returns the cell range that was
// written. The grid must have been allocated against the same atomic data
// as the packer's; mismatched array sizes are reported as errors.
func UnpackRange(g *plasma.Grid, b []byte) (lo, hi int, err error) {
	raw, err := zstd.Decompress(nil, b)
	if err != nil { return 0, 0, err }

	buf := bytes.NewBuffer(raw)
	hd := blockHeader{ }
	if err := binary.Read(buf, order, &hd); err != nil { return 0, 0, err }

	lo, hi = int(hd.Lo), int(hd.Hi)
	if lo < 0 || hi > len(g.Cells) || lo > hi {
		return 0, 0, fmt.Errorf("Block contains the cell range [%d, %d), " +
			"but the grid only has %d cells.", lo, hi, len(g.Cells))
	}

	for i := lo; i < hi; i++ {
		if err := readCell(buf, &g.Cells[i], &g.Macro[i]); err != nil {
			return 0, 0, err
		}
	}

	g.Cycle = int(hd.Cycle)
	return lo, hi, nil
}

// cellScalars is the fixed-width part of a packed cell.
type cellScalars struct {
	NWind, NPlasma int64
	Te, Tr, W, Ne, Rho, Vol float64
}

func writeCell(buf *bytes.Buffer, c *plasma.Cell, mc *plasma.MacroCell) error {
	sc := cellScalars{ int64(c.NWind), int64(c.NPlasma),
		c.Te, c.Tr, c.W, c.Ne, c.Rho, c.Vol }
	if err := binary.Write(buf, order, &sc); err != nil { return err }

	for _, x := range [][]float64{ c.Partition, c.Density, c.LevDen,
		mc.SuperlevelNorm, mc.SuperlevelLTEPops } {
		if err := binary.Write(buf, order, x); err != nil { return err }
	}

	// binary.Write can't handle []int directly.
	thr := make([]int64, len(mc.SuperlevelThreshold))
	for i := range thr { thr[i] = int64(mc.SuperlevelThreshold[i]) }
	return binary.Write(buf, order, thr)
}

func readCell(buf *bytes.Buffer, c *plasma.Cell, mc *plasma.MacroCell) error {
	sc := cellScalars{ }
	if err := binary.Read(buf, order, &sc); err != nil { return err }
	c.NWind, c.NPlasma = int(sc.NWind), int(sc.NPlasma)
	c.Te, c.Tr, c.W = sc.Te, sc.Tr, sc.W
	c.Ne, c.Rho, c.Vol = sc.Ne, sc.Rho, sc.Vol

	for _, x := range [][]float64{ c.Partition, c.Density, c.LevDen,
		mc.SuperlevelNorm, mc.SuperlevelLTEPops } {
		if err := binary.Read(buf, order, x); err != nil { return err }
	}

	thr := make([]int64, len(mc.SuperlevelThreshold))
	if err := binary.Read(buf, order, thr); err != nil { return err }
	for i := range thr { mc.SuperlevelThreshold[i] = int(thr[i]) }
	return nil
}

// WriteCheckpoint writes the whole grid to a framed checkpoint file.
func WriteCheckpoint(fname string, g *plasma.Grid) error {
	block, err := PackRange(g, 0, len(g.Cells))
	if err != nil { return err }

	fp, err := os.Create(fname)
	if err != nil { return err }
	defer fp.Close()

	magicNumber, version := uint32(MagicNumber), uint32(Version)
	if err := binary.Write(fp, order, magicNumber); err != nil { return err }
	if err := binary.Write(fp, order, version); err != nil { return err }
	if err := binary.Write(fp, order, int64(len(block))); err != nil {
		return err
	}

	_, err = fp.Write(block)
	return err
}

// ReadCheckpoint reads a checkpoint written by WriteCheckpoint into the
// grid, which must already be allocated with the same shape.
func ReadCheckpoint(fname string, g *plasma.Grid) error {
	fp, err := os.Open(fname)
	if err != nil { return err }
	defer fp.Close()

	var magicNumber, version uint32
	if err := binary.Read(fp, order, &magicNumber); err != nil { return err }

	switch magicNumber {
	case MagicNumber:
	case ReverseMagicNumber:
		return fmt.Errorf("The file %s was written on a machine with " +
			"flipped endianness, which ember checkpoints don't support.",
			fname)
	default:
		return fmt.Errorf("%s is not an ember checkpoint. All checkpoints " +
			"begin with the 32-bit integer %x. This file begins with %x.",
			fname, uint32(MagicNumber), magicNumber)
	}

	if err := binary.Read(fp, order, &version); err != nil { return err }
	if version > Version {
		return fmt.Errorf("The file %s was created with checkpoint version " +
			"%d, but this version of ember only reads up to version %d.",
			fname, version, Version)
	}

	var n int64
	if err := binary.Read(fp, order, &n); err != nil { return err }
	block := make([]byte, n)
	if _, err := fp.Read(block); err != nil { return err }

	_, _, err = UnpackRange(g, block)
	return err
}
