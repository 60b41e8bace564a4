package charmm

import "fmt"

//Category is the kind of segment an atom belongs to.
type Category int

const (
	Nucleic Category = iota + 1 //nucleic acid not yet told apart as DNA or RNA
	Protein
	GoodHet //water and ions CHARMM knows about
	BadHet  //any other hetero-atom
	DNA
	RNA
)

func (c Category) String() string {
	switch c {
	case Nucleic:
		return "nuc"
	case Protein:
		return "pro"
	case GoodHet:
		return "good"
	case BadHet:
		return "bad"
	case DNA:
		return "dna"
	case RNA:
		return "rna"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

//fileTag is the category as it appears in output file and segment names.
func (c Category) fileTag() string {
	switch c {
	case GoodHet:
		return "goodhet"
	case BadHet:
		return "het"
	}
	return c.String()
}

//record is the record name used when writing atoms of this category.
func (c Category) record() string {
	if c == BadHet {
		return "HETATM"
	}
	return "ATOM"
}

var nucleicNames = []string{"A", "G", "T", "C", "U", "ADE", "THY", "GUA", "CYT", "URA", "DA", "DG", "DT", "DC", "DU"}
var dnaNames = []string{"DA", "DG", "DT", "DC"}
var rnaNames = []string{"A", "G", "C", "U"}
var thymineNames = []string{"T", "THY", "DT"}
var uracilNames = []string{"U", "URA", "DU"}

var proteinNames = []string{"ALA", "CYS", "ASP", "GLU", "PHE", "GLY", "HIS", "ILE", "LYS",
	"LEU", "MET", "ASN", "PYL", "PRO", "GLN", "ARG", "SER", "THR", "SEC", "VAL",
	"TRP", "TYR", "HSD", "HSE", "HSP"}

//Solvent and ions with a CHARMM topology.
var goodHetNames = []string{"HOH", "TIP3", "ZN2", "SOD", "CES", "CLA", "CAL", "POT", "ZN",
	"FE", "NA", "CA", "MG", "CS", "K", "CL"}

var backboneTypes = []string{" N  ", " CA ", " C  ", " O  ", " OT1"}

//IsNucleicAcid tells whether resName is a nucleotide, in any of the one,
//two or three letter spellings.
func IsNucleicAcid(resName string) bool { return isInString(nucleicNames, resName) }

//IsDNA tells whether resName is a deoxyribonucleotide.
func IsDNA(resName string) bool { return isInString(dnaNames, resName) }

//IsRNA tells whether resName is a ribonucleotide.
func IsRNA(resName string) bool { return isInString(rnaNames, resName) }

//IsThymine is true for the residue names that make a nucleic segment DNA.
func IsThymine(resName string) bool { return isInString(thymineNames, resName) }

//IsUracil is true for the residue names that make a nucleic segment RNA.
func IsUracil(resName string) bool { return isInString(uracilNames, resName) }

//IsProtein tells whether the last 3 characters of resName are an amino
//acid, so names carrying an alternate-location prefix ("BALA") also match.
func IsProtein(resName string) bool {
	if len(resName) < 3 {
		return false
	}
	return isInString(proteinNames, resName[len(resName)-3:])
}

//IsSolventOrIon tells whether resName is water or an ion CHARMM can handle.
func IsSolventOrIon(resName string) bool { return isInString(goodHetNames, resName) }

//IsBackboneAtom tells whether the 4-column atom name is a protein
//backbone atom.
func IsBackboneAtom(atomType string) bool { return isInString(backboneTypes, atomType) }

//Classify assigns the initial category of a residue. The sets above
//overlap ("CA" could be read several ways), so the order of the tests
//matters: nucleic, protein, solvent/ion, anything else.
func Classify(resName string) Category {
	switch {
	case IsNucleicAcid(resName):
		return Nucleic
	case IsProtein(resName):
		return Protein
	case IsSolventOrIon(resName):
		return GoodHet
	}
	return BadHet
}
