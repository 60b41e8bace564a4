package charmm

//Messages of the warnings SplitNucleic can produce.
const (
	WarnMixedNucleic      = "URA & THY in same segment"
	WarnUnresolvedNucleic = "parser can't identify nucleic segment"
)

//RenameTerminalOxygens gives the C-terminal oxygens of every protein
//segment their CHARMM names: " O  " becomes " OT1" and " OXT" becomes
//" OT2", only in the residue with the highest id.
func RenameTerminalOxygens(B *Buckets) {
	for _, seg := range B.Get(Protein) {
		if len(seg.Atoms) == 0 {
			continue
		}
		last := seg.Atoms[0].ResID
		for _, a := range seg.Atoms {
			if a.ResID > last {
				last = a.ResID
			}
		}
		for _, a := range seg.Atoms {
			if a.ResID != last {
				continue
			}
			switch a.Type {
			case " O  ":
				a.Type = " OT1"
			case " OXT":
				a.Type = " OT2"
			}
		}
	}
}

//SplitNucleic decides whether each nucleic segment is DNA (it has
//thymine) or RNA (it has uracil) and moves it to the matching bucket,
//relabeling all its atoms. A segment with both bases, or with neither,
//stays in the nucleic bucket and yields one warning.
func SplitNucleic(B *Buckets) []Warning {
	var warnings []Warning
	var unresolved []*Segment
	for _, seg := range B.Get(Nucleic) {
		var thymine, uracil bool
		for _, a := range seg.Atoms {
			if IsThymine(a.ResName) {
				thymine = true
			} else if IsUracil(a.ResName) {
				uracil = true
			}
		}
		var to Category
		switch {
		case thymine && uracil:
			warnings = append(warnings, Warning{seg.Name(), WarnMixedNucleic})
		case thymine:
			to = DNA
		case uracil:
			to = RNA
		default:
			warnings = append(warnings, Warning{seg.Name(), WarnUnresolvedNucleic})
		}
		if to == 0 {
			unresolved = append(unresolved, seg)
			continue
		}
		for _, a := range seg.Atoms {
			a.Category = to
		}
		B.add(to, seg)
	}
	B.set(Nucleic, unresolved)
	return warnings
}
