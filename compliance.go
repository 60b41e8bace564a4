package charmm

//renames is the compliance table of one category. Residues maps old to
//new residue names. Atoms maps a residue name, after the residue rename,
//to old and new atom names; the "" entry applies to every residue.
type renames struct {
	residues map[string]string
	atoms    map[string]map[string]string
}

var nucleotidesToLegacy = map[string]string{
	"A": "ADE", "DA": "ADE",
	"G": "GUA", "DG": "GUA",
	"C": "CYT", "DC": "CYT",
	"T": "THY", "DT": "THY",
	"U": "URA", "DU": "URA",
}

var phosphateToLegacy = map[string]string{" OP1": " O1P", " OP2": " O2P"}

//Names as found in wwPDB files, to the names of the CHARMM topologies.
var webToLegacy = map[Category]renames{
	Protein: {
		residues: map[string]string{"HIS": "HSD"},
		atoms: map[string]map[string]string{
			"ILE": {" CD1": " CD "},
			"SER": {" HG ": " HG1"},
			"CYS": {" HG ": " HG1"},
		},
	},
	GoodHet: {
		residues: map[string]string{
			"HOH": "TIP3", "ZN": "ZN2", "NA": "SOD", "CS": "CES",
			"CL": "CLA", "CA": "CAL", "K": "POT",
		},
		atoms: map[string]map[string]string{
			"TIP3": {" O  ": " OH2"},
			"SOD":  {"NA  ": "SOD "},
			"CES":  {"CS  ": "CES "},
			"CLA":  {"CL  ": "CLA "},
			"CAL":  {"CA  ": "CAL "},
			"POT":  {" K  ": "POT "},
		},
	},
	BadHet: {},
	Nucleic: {
		residues: nucleotidesToLegacy,
		atoms: map[string]map[string]string{
			"":    phosphateToLegacy,
			"THY": {" C7 ": " C5M"},
		},
	},
	DNA: {
		residues: nucleotidesToLegacy,
		atoms: map[string]map[string]string{
			"":    phosphateToLegacy,
			"THY": {" C7 ": " C5M"},
		},
	},
	RNA: {
		residues: nucleotidesToLegacy,
		atoms: map[string]map[string]string{
			"": phosphateToLegacy,
		},
	},
}

var phosphateToWeb = map[string]string{" O1P": " OP1", " O2P": " OP2"}

//The reverse of webToLegacy. Nucleotides go back to their one-letter
//(RNA) or D-prefixed (DNA) names.
var legacyToWeb = map[Category]renames{
	Protein: {
		residues: map[string]string{"HSD": "HIS", "HSE": "HIS", "HSP": "HIS"},
		atoms: map[string]map[string]string{
			"ILE": {" CD ": " CD1"},
			"SER": {" HG1": " HG "},
			"CYS": {" HG1": " HG "},
		},
	},
	GoodHet: {
		residues: map[string]string{
			"TIP3": "HOH", "ZN2": "ZN", "SOD": "NA", "CES": "CS",
			"CLA": "CL", "CAL": "CA", "POT": "K",
		},
		atoms: map[string]map[string]string{
			"HOH": {" OH2": " O  "},
			"NA":  {"SOD ": "NA  "},
			"CS":  {"CES ": "CS  "},
			"CL":  {"CLA ": "CL  "},
			"CA":  {"CAL ": "CA  "},
			"K":   {"POT ": " K  "},
		},
	},
	BadHet: {},
	Nucleic: {
		atoms: map[string]map[string]string{"": phosphateToWeb},
	},
	DNA: {
		residues: map[string]string{"ADE": "DA", "GUA": "DG", "CYT": "DC", "THY": "DT", "URA": "DU"},
		atoms: map[string]map[string]string{
			"":   phosphateToWeb,
			"DT": {" C5M": " C7 "},
		},
	},
	RNA: {
		residues: map[string]string{"ADE": "A", "GUA": "G", "CYT": "C", "URA": "U"},
		atoms:    map[string]map[string]string{"": phosphateToWeb},
	},
}

//Compliance is the naming table used to turn names written for one
//program into names another one expects.
type Compliance struct {
	tables map[Category]renames
}

//NewCompliance returns the table that renames from the conventions of
//source to those of target. Equal formats give a table that changes
//nothing.
func NewCompliance(source, target Format) *Compliance {
	switch {
	case source == Web && target == Legacy:
		return &Compliance{webToLegacy}
	case source == Legacy && target == Web:
		return &Compliance{legacyToWeb}
	}
	return &Compliance{}
}

//Apply renames the residue and the atom of a in place.
func (C *Compliance) Apply(a *Atom) {
	t, ok := C.tables[a.Category]
	if !ok {
		return
	}
	if n, ok := t.residues[a.ResName]; ok {
		a.ResName = n
	}
	if n, ok := t.atoms[a.ResName][a.Type]; ok {
		a.Type = n
		return
	}
	if n, ok := t.atoms[""][a.Type]; ok {
		a.Type = n
	}
}

//MakeCompliant applies C to every atom of every segment.
func (C *Compliance) MakeCompliant(B *Buckets) {
	for _, seg := range B.All() {
		for _, a := range seg.Atoms {
			C.Apply(a)
		}
	}
}
