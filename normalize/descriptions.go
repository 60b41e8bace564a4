package normalize

//AtomDesc is one heavy atom a residue must have: its element and its name
//in the residue, without padding ("CA", "OD1").
type AtomDesc struct {
	Element string
	Name    string
}

//backbone atoms, shared by every amino acid.
var bb = []AtomDesc{{"N", "N"}, {"C", "CA"}, {"C", "C"}, {"O", "O"}}

func withBackbone(side ...AtomDesc) []AtomDesc {
	ret := make([]AtomDesc, 0, len(bb)+len(side))
	ret = append(ret, bb...)
	return append(ret, side...)
}

//The canonical heavy-atom lists. The order of each list is the order the
//atoms have in a normalized residue.
var descriptions = map[string][]AtomDesc{
	"ALA": withBackbone(AtomDesc{"C", "CB"}),
	"ARG": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD"}, AtomDesc{"N", "NE"},
		AtomDesc{"C", "CZ"}, AtomDesc{"N", "NH1"}, AtomDesc{"N", "NH2"}),
	"ASN": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"O", "OD1"}, AtomDesc{"N", "ND2"}),
	"ASP": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"O", "OD1"}, AtomDesc{"O", "OD2"}),
	"CYS": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"S", "SG"}),
	"GLN": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD"}, AtomDesc{"O", "OE1"},
		AtomDesc{"N", "NE2"}),
	"GLU": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD"}, AtomDesc{"O", "OE1"},
		AtomDesc{"O", "OE2"}),
	"GLY": withBackbone(),
	"HIS": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"N", "ND1"}, AtomDesc{"C", "CD2"},
		AtomDesc{"C", "CE1"}, AtomDesc{"N", "NE2"}),
	"ILE": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG1"}, AtomDesc{"C", "CG2"}, AtomDesc{"C", "CD1"}),
	"LEU": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD1"}, AtomDesc{"C", "CD2"}),
	"LYS": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD"}, AtomDesc{"C", "CE"},
		AtomDesc{"N", "NZ"}),
	"MET": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"S", "SD"}, AtomDesc{"C", "CE"}),
	"PHE": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD1"}, AtomDesc{"C", "CD2"},
		AtomDesc{"C", "CE1"}, AtomDesc{"C", "CE2"}, AtomDesc{"C", "CZ"}),
	"PRO": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD"}),
	"SER": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"O", "OG"}),
	"THR": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"O", "OG1"}, AtomDesc{"C", "CG2"}),
	"TRP": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD1"}, AtomDesc{"C", "CD2"},
		AtomDesc{"N", "NE1"}, AtomDesc{"C", "CE2"}, AtomDesc{"C", "CE3"}, AtomDesc{"C", "CZ2"},
		AtomDesc{"C", "CZ3"}, AtomDesc{"C", "CH2"}),
	"TYR": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG"}, AtomDesc{"C", "CD1"}, AtomDesc{"C", "CD2"},
		AtomDesc{"C", "CE1"}, AtomDesc{"C", "CE2"}, AtomDesc{"C", "CZ"}, AtomDesc{"O", "OH"}),
	"VAL": withBackbone(AtomDesc{"C", "CB"}, AtomDesc{"C", "CG1"}, AtomDesc{"C", "CG2"}),
}

//Other names residues in the table go by. The CHARMM histidines differ
//only in hydrogens.
var aliases = map[string]string{
	"HSD": "HIS",
	"HSE": "HIS",
	"HSP": "HIS",
}

//A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
	"HSD": 'H',
	"HSE": 'H',
	"HSP": 'H',
}

//Description returns the canonical atom list of resName.
func Description(resName string) ([]AtomDesc, error) {
	if a, ok := aliases[resName]; ok {
		resName = a
	}
	d, ok := descriptions[resName]
	if !ok {
		return nil, &UnknownResidueError{ResName: resName}
	}
	return d, nil
}

//OneLetter returns the one-letter code of the amino acid resName, or 'X'.
func OneLetter(resName string) byte {
	if c, ok := three2OneLetter[resName]; ok {
		return c
	}
	return 'X'
}
