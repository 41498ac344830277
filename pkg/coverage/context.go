package coverage

import (
	"strings"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// Context is a delivery context against which usage is tracked.
type Context int

const (
	// Archive is the set of current PDB entries.
	Archive Context = iota
	// ChemComp is the chemical component reference dictionary.
	ChemComp
	// BIRD is the biologically interesting molecule reference dictionary.
	BIRD
	// BIRDFamily is the BIRD family reference dictionary.
	BIRDFamily
)

// Contexts lists every delivery context in a stable order.
var Contexts = []Context{Archive, ChemComp, BIRD, BIRDFamily}

var contextNames = map[Context]string{
	Archive:    "archive",
	ChemComp:   "cc",
	BIRD:       "prd",
	BIRDFamily: "family",
}

var contextFiles = map[Context]string{
	Archive:    "scan-pdbx-item-coverage.tdd",
	ChemComp:   "scan-chem_comp-item-coverage.tdd",
	BIRD:       "scan-bird-item-coverage.tdd",
	BIRDFamily: "scan-bird_family-item-coverage.tdd",
}

// String returns the short name used in file names ("archive", "cc", "prd",
// "family").
func (c Context) String() string {
	if s, ok := contextNames[c]; ok {
		return s
	}
	return "unknown"
}

// CoverageFile returns the base name of the coverage file for c.
func (c Context) CoverageFile() string {
	return contextFiles[c]
}

// ParseContext maps a context name or one of its aliases to a Context.
func ParseContext(s string) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archive", "pdb":
		return Archive, nil
	case "cc", "chem_comp", "chem-comp":
		return ChemComp, nil
	case "prd", "bird":
		return BIRD, nil
	case "family", "bird-family", "bird_family":
		return BIRDFamily, nil
	}
	return Archive, errors.New(errors.ErrCodeInvalidContext, "unknown delivery context %q (want archive, cc, prd or family)", s)
}
