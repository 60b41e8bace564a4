package charmm

import "io"

//Options sets how a structure is converted.
type Options struct {
	In     Format //layout of the input, Auto to detect it.
	Out    Format //layout of the written segments.
	Naming Format //naming conventions the residues and atoms are renamed to.
}

//SetDefaults fills the zero fields: detect the input, and write CHARMM
//names in the CHARMM layout.
func (O *Options) SetDefaults() {
	if O.Out == Auto {
		O.Out = Legacy
	}
	if O.Naming == Auto {
		O.Naming = Legacy
	}
}

//Result holds everything a conversion produces.
type Result struct {
	Format   Format //layout detected (or given) for the input
	Buckets  *Buckets
	Index    *IndexMap
	Warnings []Warning
	NAtom    int //atoms that survived deduplication
}

//Convert reads a PDB file from r and runs it through the whole pipeline:
//parsing, deduplication, sorting, segment building, terminal oxygens,
//DNA/RNA split, renaming and reindexing. The passes run in that order and
//each one sees only the records the previous one kept. Any error aborts
//the conversion.
func Convert(r io.Reader, O *Options) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return convertLines(lines, O, "")
}

func convertLines(lines []string, O *Options, file string) (*Result, error) {
	if O == nil {
		O = new(Options)
	}
	O.SetDefaults()
	atoms, f, err := readAtomLines(lines, O.In, file)
	if err != nil {
		return nil, errDecorate(err, "Convert")
	}
	atoms = Deduplicate(atoms)
	if err := SortAtoms(atoms); err != nil {
		return nil, errDecorate(err, "Convert")
	}
	B, err := BuildSegments(atoms)
	if err != nil {
		return nil, errDecorate(err, "Convert")
	}
	RenameTerminalOxygens(B)
	warnings := SplitNucleic(B)
	NewCompliance(f, O.Naming).MakeCompliant(B)
	M := Reindex(B)
	return &Result{
		Format:   f,
		Buckets:  B,
		Index:    M,
		Warnings: warnings,
		NAtom:    len(atoms),
	}, nil
}
