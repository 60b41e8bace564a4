package normalize

import (
	"testing"

	"github.com/foldy-project/charmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atom(atype, res string, resid int) *charmm.Atom {
	return &charmm.Atom{Record: "ATOM", Type: atype, ResName: res, SegID: "A", ResID: resid, Occupancy: 1}
}

//gly1 has hydrogens, ala2 is complete, hoh3 is not an amino acid.
func sample() []*charmm.Atom {
	return []*charmm.Atom{
		atom(" N  ", "GLY", 1), atom(" H  ", "GLY", 1), atom(" CA ", "GLY", 1),
		atom(" C  ", "GLY", 1), atom(" O  ", "GLY", 1),
		atom(" CB ", "ALA", 2), atom(" N  ", "ALA", 2), atom(" CA ", "ALA", 2),
		atom(" C  ", "ALA", 2), atom(" O  ", "ALA", 2),
		atom(" OH2", "TIP3", 3),
	}
}

func TestResidues(Te *testing.T) {
	rs := Residues(sample())
	require.Len(Te, rs, 3)
	assert.Equal(Te, "GLY", rs[0].ResName)
	assert.Len(Te, rs[0].Atoms, 5)
	assert.Equal(Te, 2, rs[1].ResID)
}

func TestNormalizeResidue(Te *testing.T) {
	rs := Residues(sample())
	n, err := NormalizeResidue(rs[1])
	require.NoError(Te, err)
	var names []string
	for _, a := range n.Atoms {
		names = append(names, a.Type)
	}
	assert.Equal(Te, []string{" N  ", " CA ", " C  ", " O  ", " CB "}, names)
	//copies, not the same atoms
	n.Atoms[0].ResID = 99
	assert.Equal(Te, 2, rs[1].Atoms[1].ResID)

	g, err := NormalizeResidue(rs[0])
	require.NoError(Te, err)
	assert.Len(Te, g.Atoms, 4)

	_, err = NormalizeResidue(rs[2])
	assert.IsType(Te, &UnknownResidueError{}, err)
}

func TestNormalizeResidueErrors(Te *testing.T) {
	rs := Residues([]*charmm.Atom{atom(" N  ", "SER", 1), atom(" CA ", "SER", 1)})
	_, err := NormalizeResidue(rs[0])
	require.IsType(Te, &AtomNotFoundError{}, err)
	assert.Equal(Te, "C", err.(*AtomNotFoundError).Atom)

	bad := atom(" CB ", "ALA", 1)
	bad.Element = "N"
	rs = Residues([]*charmm.Atom{atom(" N  ", "ALA", 1), atom(" CA ", "ALA", 1), atom(" C  ", "ALA", 1),
		atom(" O  ", "ALA", 1), bad})
	_, err = NormalizeResidue(rs[0])
	require.IsType(Te, &ElementMismatchError{}, err)
	assert.Equal(Te, 4, err.(*ElementMismatchError).Index)
}

func TestNormalizeChain(Te *testing.T) {
	rs := Residues(sample())
	chain, err := NormalizeChain(rs, nil)
	require.NoError(Te, err)
	assert.Len(Te, chain, 2)
	assert.Equal(Te, "GA", Abbrev(chain))
	assert.Len(Te, Atoms(chain), 9)
	assert.InDelta(Te, 57.052+71.079, Mass(chain), 1e-9)

	chain, err = NormalizeChain(rs, map[string]bool{"GLY": true})
	require.NoError(Te, err)
	assert.Equal(Te, "A", Abbrev(chain))
}

func TestDescriptionAliases(Te *testing.T) {
	his, err := Description("HIS")
	require.NoError(Te, err)
	hsd, err := Description("HSD")
	require.NoError(Te, err)
	assert.Equal(Te, his, hsd)
	assert.Len(Te, descriptions, 20)
	for name, d := range descriptions {
		assert.Equal(Te, bb, d[:4], name)
		assert.NotEqual(Te, byte('X'), OneLetter(name))
	}
}

func TestCheckChain(Te *testing.T) {
	err := CheckChain("AGHK", "AXGHXK", "+-+++-+")
	require.IsType(Te, &ChainLengthError{}, err)
	cl := err.(*ChainLengthError)
	assert.Equal(Te, 4, cl.Got)
	assert.Equal(Te, 5, cl.Expected)

	assert.NoError(Te, CheckChain("AGHK", "AXGHXK", "+-++-+"))
	assert.NoError(Te, CheckChain("KKKDNLLFGSIISAVDPVAVLAVFEEIHKKK",
		"AKKKDNLLFGSIISAVDPVAVLAVFEEIHKKKA", "-+++++++++++++++++++++++++++++++-"))

	err = CheckChain("AGHR", "AXGHXK", "+-++-+")
	require.IsType(Te, &ResidueMismatchError{}, err)
	rm := err.(*ResidueMismatchError)
	assert.Equal(Te, 5, rm.Position)
	assert.Equal(Te, byte('R'), rm.Got)
	assert.Equal(Te, byte('K'), rm.Expected)

	err = CheckChain("AG", "AXG", "+-+-")
	assert.IsType(Te, &MaskLengthError{}, err)
}
