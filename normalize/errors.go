package normalize

import "fmt"

//UnknownResidueError means a residue has no canonical description.
//NormalizeChain skips such residues instead of failing.
type UnknownResidueError struct {
	ResName string
}

func (E *UnknownResidueError) Error() string {
	return fmt.Sprintf("unknown resname %q", E.ResName)
}

//AtomNotFoundError means a residue lacks one of its canonical atoms.
type AtomNotFoundError struct {
	ResName string
	ResID   int
	Atom    string
}

func (E *AtomNotFoundError) Error() string {
	return fmt.Sprintf("atom %q not found in %s %d", E.Atom, E.ResName, E.ResID)
}

//ElementMismatchError means a canonical atom was found with the wrong element.
type ElementMismatchError struct {
	Index    int //position in the canonical list
	Atom     string
	Expected string
	Got      string
}

func (E *ElementMismatchError) Error() string {
	return fmt.Sprintf("expected element %q from atom %d (%s), got element %q", E.Expected, E.Index, E.Atom, E.Got)
}

//ChainLengthError means the normalized chain does not have as many
//residues as the mask marks as present. If this occurs, first suspect that
//normalization removed too many residues.
type ChainLengthError struct {
	Got      int
	Expected int
}

func (E *ChainLengthError) Error() string {
	return fmt.Sprintf("length of normalized chain (%d) does not match masked primary sequence (%d)", E.Got, E.Expected)
}

//ResidueMismatchError means a residue of the normalized chain is not the
//one the primary sequence has at that position.
type ResidueMismatchError struct {
	Position int //0-based, in the primary sequence
	Got      byte
	Expected byte
}

func (E *ResidueMismatchError) Error() string {
	return fmt.Sprintf("residue mismatch at position %d: got %c, expected %c", E.Position, E.Got, E.Expected)
}

//MaskLengthError means the mask and the primary sequence have different lengths.
type MaskLengthError struct {
	Got      int
	Expected int
}

func (E *MaskLengthError) Error() string {
	return fmt.Sprintf("mask length (got %d, expected %d)", E.Got, E.Expected)
}
