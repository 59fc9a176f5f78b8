package lib

/* parse.go reads simulation parameters from a TOML parameter file and
validates them. Parsing and validation are split so that tests can build
RawParams directly. */

import (
	"github.com/BurntSushi/toml"

	"github.com/phil-mansfield/ember/lib/diag"
	"github.com/phil-mansfield/ember/lib/stateq"
)

// RawParams stores the unprocessed values which the user assigned to each
// parameter. Fields left out of the parameter file keep the defaults set by
// DefaultParams.
type RawParams struct {
	// Threads is the number of threads to run on. -1 means one per core.
	Threads int
	// Workers is the number of workers the cell ranges are split across.
	Workers int
	// NebularMode selects the population approximation: "lte_tr",
	// "lte_te", "dilute", "nlte_te", or "ground".
	NebularMode string
	// MacroIonization is true when macro-atom ion populations come from
	// the detailed macro-atom scheme instead of the Boltzmann ladder.
	MacroIonization bool
	// SuperlevelFloor is the minimum number of levels above ground kept
	// out of every superlevel.
	SuperlevelFloor int
	// DepartureTolerance is the factor bounding the departure-coefficient
	// band inside which a level counts as being in LTE.
	DepartureTolerance float64
	// Seed seeds the transport random number generators.
	Seed int64
	// CheckpointFile, if non-empty, is where per-cycle state is written.
	CheckpointFile string
}

// Params stores configuration information. It is a post-processed version
// of RawParams.
type Params struct {
	Threads int
	Workers int
	Mode stateq.Mode
	MacroIonization bool
	SuperlevelFloor int
	DepartureTolerance float64
	Seed uint64
	CheckpointFile string
}

// DefaultParams returns the RawParams used when the parameter file doesn't
// say otherwise.
func DefaultParams() *RawParams {
	return &RawParams{
		Threads: -1,
		Workers: 1,
		NebularMode: "dilute",
		MacroIonization: true,
		SuperlevelFloor: 5,
		DepartureTolerance: 2,
		Seed: 1,
		CheckpointFile: "",
	}
}

// ParseConfigFile parses parameters from a TOML parameter file.
func ParseConfigFile(fileName string) *RawParams {
	raw := DefaultParams()
	if _, err := toml.DecodeFile(fileName, raw); err != nil {
		diag.External("Could not parse the parameter file %s: %s",
			fileName, err.Error())
	}
	return raw
}

// modeNames maps the parameter-file spellings of the nebular modes onto
// their internal values.
var modeNames = map[string]stateq.Mode{
	"lte_tr": stateq.ModeLTERadiation,
	"lte_te": stateq.ModeLTEElectron,
	"dilute": stateq.ModeDiluteRadiation,
	"nlte_te": stateq.ModeNonLTEElectron,
	"ground": stateq.ModeGroundState,
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Only simple validation is done here, nothing that
// requires interacting with external files. Invalid values kill the
// process: a wrong parameter would otherwise silently corrupt every cell.
func (raw *RawParams) Process() *Params {
	mode, ok := modeNames[raw.NebularMode]
	if !ok {
		diag.External("The parameter file sets NebularMode = '%s', but the " +
			"only valid modes are 'lte_tr', 'lte_te', 'dilute', 'nlte_te', " +
			"and 'ground'.", raw.NebularMode)
	}

	if raw.Workers < 1 {
		diag.External("The parameter file sets Workers = %d, but at least " +
			"one worker is needed.", raw.Workers)
	}
	if raw.SuperlevelFloor < 0 {
		diag.External("The parameter file sets SuperlevelFloor = %d, but " +
			"the floor cannot be negative.", raw.SuperlevelFloor)
	}
	if raw.DepartureTolerance <= 1 {
		diag.External("The parameter file sets DepartureTolerance = %g, " +
			"but the tolerance must be greater than 1 for the band " +
			"(1/F, F) to contain anything.", raw.DepartureTolerance)
	}

	return &Params{
		Threads: raw.Threads,
		Workers: raw.Workers,
		Mode: mode,
		MacroIonization: raw.MacroIonization,
		SuperlevelFloor: raw.SuperlevelFloor,
		DepartureTolerance: raw.DepartureTolerance,
		Seed: uint64(raw.Seed),
		CheckpointFile: raw.CheckpointFile,
	}
}
