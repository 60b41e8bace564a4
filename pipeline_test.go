package charmm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//mk returns an already classified atom.
func mk(number int, atype, resName, segID string, resID int, occupancy float64) *Atom {
	return &Atom{
		Record:    "ATOM",
		Number:    number,
		Type:      atype,
		ResName:   resName,
		SegID:     segID,
		ResID:     resID,
		Occupancy: occupancy,
		Category:  Classify(resName),
	}
}

func numbers(atoms []*Atom) []int {
	ret := make([]int, len(atoms))
	for i, a := range atoms {
		ret[i] = a.Number
	}
	return ret
}

func TestClassify(Te *testing.T) {
	cases := map[string]Category{
		"ALA": Protein, "BALA": Protein, "HSD": Protein, "SEC": Protein,
		"DT": Nucleic, "A": Nucleic, "URA": Nucleic,
		"HOH": GoodHet, "TIP3": GoodHet, "ZN": GoodHet, "CL": GoodHet,
		"HEM": BadHet, "LIG": BadHet, "": BadHet,
	}
	for res, c := range cases {
		assert.Equal(Te, c, Classify(res), res)
	}
	assert.True(Te, IsDNA("DG"))
	assert.False(Te, IsDNA("G"))
	assert.True(Te, IsRNA("G"))
	assert.True(Te, IsBackboneAtom(" OT1"))
	assert.False(Te, IsBackboneAtom(" CB "))
}

func TestDeduplicate(Te *testing.T) {
	atoms := []*Atom{
		mk(1, " N  ", "ALA", "A", 1, 1),
		mk(2, " CA ", "AALA", "A", 2, 0.6),
		mk(3, " CA ", "BALA", "A", 2, 0.8),
		mk(4, " CB ", "ALA", "A", 2, 1),
	}
	out := Deduplicate(atoms)
	assert.Equal(Te, []int{1, 3, 4}, numbers(out))
	assert.Equal(Te, "ALA", out[1].ResName)
	assert.True(Te, atoms[1].Remove)
}

func TestDeduplicateTieAndGroups(Te *testing.T) {
	atoms := []*Atom{
		//tie, the first one stays
		mk(1, " CA ", "ASER", "A", 5, 0.5),
		mk(2, " CA ", "BSER", "A", 5, 0.5),
		//next atom, new group of three
		mk(3, " CB ", "ASER", "A", 5, 0.3),
		mk(4, " CB ", "BSER", "A", 5, 0.4),
		mk(5, " CB ", "CSER", "A", 5, 0.3),
	}
	out := Deduplicate(atoms)
	assert.Equal(Te, []int{1, 4}, numbers(out))
	for _, a := range out {
		assert.Equal(Te, "SER", a.ResName)
		assert.False(Te, a.Remove)
	}
}

func TestDeduplicateLeavesOthers(Te *testing.T) {
	//full occupancy and non-protein residues are never compared
	atoms := []*Atom{
		mk(1, " CA ", "AALA", "A", 1, 1),
		mk(2, " CA ", "BALA", "A", 1, 1),
		mk(3, " O  ", "AHOH", "A", 9, 0.5),
		mk(4, " O  ", "BHOH", "A", 9, 0.4),
	}
	out := Deduplicate(atoms)
	assert.Equal(Te, []int{1, 2, 3, 4}, numbers(out))
	assert.Equal(Te, "AHOH", out[2].ResName)
}

func TestScore(Te *testing.T) {
	R := SegIDRanks{"A": 1, "B": 2}
	s, err := Score(mk(7, " CA ", "ALA", "B", 3, 1), R)
	require.NoError(Te, err)
	assert.Equal(Te, int64(2e11+2e9+3e5+7), s)
	_, err = Score(mk(1, " CA ", "ALA", "C", 3, 1), R)
	assert.IsType(Te, &UnknownSegmentError{}, err)
	a := mk(1, " P  ", "DT", "A", 1, 1)
	a.Category = DNA
	_, err = Score(a, R)
	assert.IsType(Te, &UnknownCategoryError{}, err)
}

func TestRankSegIDs(Te *testing.T) {
	R, err := RankSegIDs([]*Atom{
		mk(1, " CA ", "ALA", "PROB", 1, 1),
		mk(2, " CA ", "ALA", "PROA", 1, 1),
		mk(3, " O  ", "HOH", "WAT", 1, 1),
		mk(4, " CA ", "ALA", "PRO", 1, 1),
		mk(5, " CA ", "ALA", "PROA", 2, 1),
		mk(6, " CA ", "ALA", "b", 1, 1),
		mk(7, " CA ", "ALA", "B", 1, 1),
	})
	require.NoError(Te, err)
	assert.Equal(Te, SegIDRanks{"B": 1, "PRO": 2, "PROA": 3, "PROB": 4, "WAT": 5, "b": 6}, R)

	_, err = RankSegIDs([]*Atom{mk(1, " CA ", "ALA", "", 3, 1)})
	assert.IsType(Te, &UnknownSegmentError{}, err)
	_, err = RankSegIDs([]*Atom{mk(1, " CA ", "ALA", "P-1", 3, 1)})
	assert.IsType(Te, &UnknownSegmentError{}, err)
}

func TestSortAtoms(Te *testing.T) {
	atoms := []*Atom{
		mk(1, " O  ", "HOH", "A", 101, 1),
		mk(2, " CA ", "GLY", "B", 1, 1),
		mk(3, " CA ", "ALA", "A", 2, 1),
		mk(4, " N  ", "ALA", "A", 2, 1),
		mk(5, " P  ", "DA", "Z", 1, 1),
		mk(6, " C1 ", "HEM", "A", 1, 1),
		mk(7, " CA ", "ALA", "A", 1, 1),
	}
	require.NoError(Te, SortAtoms(atoms))
	assert.Equal(Te, []int{5, 7, 3, 4, 2, 1, 6}, numbers(atoms))
	R, err := RankSegIDs(atoms)
	require.NoError(Te, err)
	for i := 1; i < len(atoms); i++ {
		prev, _ := Score(atoms[i-1], R)
		cur, _ := Score(atoms[i], R)
		assert.True(Te, prev <= cur)
	}
}

//Segment ids sharing their first character must not interleave.
func TestSortAtomsLongSegIDs(Te *testing.T) {
	atoms := []*Atom{
		mk(1, " CA ", "ALA", "PROB", 1, 1),
		mk(2, " CA ", "ALA", "PROA", 1, 1),
		mk(3, " CA ", "GLY", "PROB", 2, 1),
		mk(4, " CA ", "GLY", "PROA", 2, 1),
		mk(5, " CA ", "SER", "PROB", 3, 1),
		mk(6, " CA ", "SER", "PROA", 3, 1),
	}
	require.NoError(Te, SortAtoms(atoms))
	assert.Equal(Te, []int{2, 4, 6, 1, 3, 5}, numbers(atoms))
	B, err := BuildSegments(atoms)
	require.NoError(Te, err)
	require.Len(Te, B.Get(Protein), 2)
	assert.Equal(Te, "PROA", B.Get(Protein)[0].SegID())
	assert.Equal(Te, 3, B.Get(Protein)[0].Len())
	assert.Equal(Te, "PROB", B.Get(Protein)[1].SegID())
	assert.Equal(Te, 3, B.Get(Protein)[1].Len())
}

func TestBuildSegments(Te *testing.T) {
	sorted := []*Atom{
		mk(1, " N  ", "ALA", "A", 1, 1),
		mk(2, " CA ", "ALA", "A", 1, 1),
		mk(3, " N  ", "GLY", "B", 1, 1),
		mk(4, " O  ", "HOH", "A", 101, 1),
	}
	B, err := BuildSegments(sorted)
	require.NoError(Te, err)
	pro := B.Get(Protein)
	require.Len(Te, pro, 2)
	assert.Equal(Te, 2, pro[0].Len())
	assert.Equal(Te, "a-pro", pro[0].Name())
	assert.Equal(Te, "b-pro", pro[1].Name())
	require.Len(Te, B.Get(GoodHet), 1)
	assert.Equal(Te, "a-goodhet", B.Get(GoodHet)[0].Name())
	assert.Len(Te, B.All(), 3)
	assert.Len(Te, Flatten(B.All()), 4)
	//every segment is homogeneous
	for _, seg := range B.All() {
		for _, a := range seg.Atoms {
			assert.Equal(Te, seg.Category(), a.Category)
			assert.Equal(Te, seg.SegID(), a.SegID)
		}
	}

	bad := mk(5, " P  ", "DT", "A", 1, 1)
	bad.Category = RNA
	_, err = BuildSegments([]*Atom{bad})
	assert.IsType(Te, &UnknownCategoryError{}, err)

	B, err = BuildSegments(nil)
	require.NoError(Te, err)
	assert.Empty(Te, B.All())
}

func TestRenameTerminalOxygens(Te *testing.T) {
	atoms := []*Atom{
		mk(1, " N  ", "ALA", "A", 1, 1),
		mk(2, " O  ", "ALA", "A", 1, 1),
		mk(3, " N  ", "GLY", "A", 2, 1),
		mk(4, " O  ", "GLY", "A", 2, 1),
		mk(5, " OXT", "GLY", "A", 2, 1),
	}
	B, err := BuildSegments(atoms)
	require.NoError(Te, err)
	RenameTerminalOxygens(B)
	assert.Equal(Te, " O  ", atoms[1].Type)
	assert.Equal(Te, " N  ", atoms[2].Type)
	assert.Equal(Te, " OT1", atoms[3].Type)
	assert.Equal(Te, " OT2", atoms[4].Type)
}

func nucleicBuckets(Te *testing.T, resNames ...string) *Buckets {
	var atoms []*Atom
	for i, r := range resNames {
		atoms = append(atoms, mk(i+1, " P  ", r, "A", i+1, 1))
	}
	B, err := BuildSegments(atoms)
	require.NoError(Te, err)
	return B
}

func TestSplitNucleic(Te *testing.T) {
	B := nucleicBuckets(Te, "DA", "DT", "DG")
	w := SplitNucleic(B)
	assert.Empty(Te, w)
	assert.Empty(Te, B.Get(Nucleic))
	require.Len(Te, B.Get(DNA), 1)
	assert.Empty(Te, B.Get(RNA))
	for _, a := range B.Get(DNA)[0].Atoms {
		assert.Equal(Te, DNA, a.Category)
	}
	assert.Equal(Te, "a-dna", B.Get(DNA)[0].Name())

	B = nucleicBuckets(Te, "A", "U")
	assert.Empty(Te, SplitNucleic(B))
	assert.Len(Te, B.Get(RNA), 1)
	assert.Empty(Te, B.Get(DNA))
}

func TestSplitNucleicWarnings(Te *testing.T) {
	B := nucleicBuckets(Te, "DT", "U")
	w := SplitNucleic(B)
	require.Len(Te, w, 1)
	assert.Equal(Te, WarnMixedNucleic, w[0].Message)
	assert.Equal(Te, "a-nuc", w[0].Segment)
	assert.Len(Te, B.Get(Nucleic), 1)
	assert.Empty(Te, B.Get(DNA))
	assert.Empty(Te, B.Get(RNA))

	B = nucleicBuckets(Te, "DA", "G")
	w = SplitNucleic(B)
	require.Len(Te, w, 1)
	assert.Equal(Te, WarnUnresolvedNucleic, w[0].Message)
	assert.Equal(Te, Nucleic, B.Get(Nucleic)[0].Category())
}

func TestCompliance(Te *testing.T) {
	C := NewCompliance(Web, Legacy)
	cases := []struct {
		res, atype, wantRes, wantType string
		cat                           Category
	}{
		{"HIS", " CA ", "HSD", " CA ", Protein},
		{"ILE", " CD1", "ILE", " CD ", Protein},
		{"HOH", " O  ", "TIP3", " OH2", GoodHet},
		{"ZN", "ZN  ", "ZN2", "ZN  ", GoodHet},
		{"K", " K  ", "POT", "POT ", GoodHet},
		{"DT", " C7 ", "THY", " C5M", DNA},
		{"DA", " OP1", "ADE", " O1P", DNA},
		{"U", " OP2", "URA", " O2P", RNA},
		{"HEM", "FE  ", "HEM", "FE  ", BadHet},
	}
	for _, c := range cases {
		a := mk(1, c.atype, c.res, "A", 1, 1)
		a.Category = c.cat
		C.Apply(a)
		assert.Equal(Te, c.wantRes, a.ResName, c.res)
		assert.Equal(Te, c.wantType, a.Type, c.res)
	}

	back := NewCompliance(Legacy, Web)
	a := mk(1, " C5M", "THY", "A", 1, 1)
	a.Category = DNA
	back.Apply(a)
	assert.Equal(Te, "DT", a.ResName)
	assert.Equal(Te, " C7 ", a.Type)
	w := mk(1, " OH2", "TIP3", "A", 1, 1)
	back.Apply(w)
	assert.Equal(Te, "HOH", w.ResName)
	assert.Equal(Te, " O  ", w.Type)

	same := NewCompliance(Legacy, Legacy)
	h := mk(1, " CA ", "HIS", "A", 1, 1)
	same.Apply(h)
	assert.Equal(Te, "HIS", h.ResName)
}

func TestReindex(Te *testing.T) {
	atoms := []*Atom{
		mk(10, " N  ", "ALA", "A", 5, 1),
		mk(11, " CA ", "ALA", "A", 5, 1),
		mk(12, " CA ", "GLY", "A", 7, 1),
		mk(13, " CA ", "SER", "A", 9, 1),
		mk(20, " CA ", "LYS", "B", 9, 1),
		mk(30, " O  ", "HOH", "A", 400, 1),
	}
	B, err := BuildSegments(atoms)
	require.NoError(Te, err)
	M := Reindex(B)
	require.Len(Te, M.Entries, 6)
	a := B.Get(Protein)[0]
	assert.Equal(Te, []int{1, 2, 3, 4}, numbers(a.Atoms))
	var resids []int
	for _, at := range a.Atoms {
		resids = append(resids, at.ResID)
	}
	assert.Equal(Te, []int{1, 1, 2, 3}, resids)
	assert.Equal(Te, 1, B.Get(Protein)[1].Atoms[0].ResID)
	assert.Equal(Te, 1, B.Get(GoodHet)[0].Atoms[0].Number)

	n, ok := M.OldToNew("a-pro", 7)
	assert.True(Te, ok)
	assert.Equal(Te, 2, n)
	o, ok := M.NewToOld("a-goodhet", 1)
	assert.True(Te, ok)
	assert.Equal(Te, 400, o)
	//residue 9 exists in both chains, the index tells them apart
	seg, old, ok := M.ResIndex(4)
	assert.True(Te, ok)
	assert.Equal(Te, "b-pro", seg)
	assert.Equal(Te, 9, old)
	_, _, ok = M.ResIndex(5)
	assert.False(Te, ok)
	//the water has no index, and 0 must not find it
	assert.Equal(Te, 0, M.Entries[5].ResIndex)
	_, _, ok = M.ResIndex(0)
	assert.False(Te, ok)
	_, _, ok = M.ResIndex(-1)
	assert.False(Te, ok)
}

func TestIndexMapPersistence(Te *testing.T) {
	M := &IndexMap{Entries: []IndexEntry{
		{Segment: "a-pro", SegID: "A", Category: "pro", ResName: "ALA", Type: " CA ", OldNumber: 12, NewNumber: 1, OldResID: 40, NewResID: 1, ResIndex: 1},
		{Segment: "a-goodhet", SegID: "A", Category: "good", ResName: "TIP3", Type: " OH2", OldNumber: 99, NewNumber: 1, OldResID: 300, NewResID: 1},
	}}
	var buf bytes.Buffer
	require.NoError(Te, M.Write(&buf))
	N, err := ReadIndexMap(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, M, N)

	name := Te.TempDir() + "/x.chk.zst"
	require.NoError(Te, M.WriteFile(name))
	N, err = ReadIndexFile(name)
	require.NoError(Te, err)
	assert.Equal(Te, M, N)
}
