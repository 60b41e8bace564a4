package charmm

//isAlternate tells whether a takes part in the multi-model comparison: a
//protein residue whose name carries an alternate-location prefix and whose
//occupancy shows it is not the only conformation.
func isAlternate(a *Atom) bool {
	return len(a.ResName) == 4 && a.Weight() < multiModelWeight && a.Category == Protein
}

//Deduplicate keeps a single conformation for each atom listed with several
//alternate locations, and returns the surviving atoms in their original
//order. Atoms must be in file order.
//
//The buffer always holds the survivor of the current group. A group opens
//with an 'A' conformation, every later conformation (higher tag) is compared
//with the survivor and the one with the lower weight is dropped; on ties the
//earlier one stays. A tag that is not higher than the survivor's opens the
//next group. Anything that does not fit the pattern passes untouched.
//
//The alternate-location prefix is then removed from all protein residue
//names ("BALA" becomes "ALA").
func Deduplicate(atoms []*Atom) []*Atom {
	var buffer *Atom
	for _, a := range atoms {
		if !isAlternate(a) {
			continue
		}
		tag := a.ModelTag()
		if buffer == nil {
			if tag == 'A' {
				buffer = a
			}
			continue
		}
		if tag > buffer.ModelTag() {
			if buffer.Weight() >= a.Weight() {
				a.Remove = true
			} else {
				buffer.Remove = true
				buffer = a
			}
			continue
		}
		buffer = a
	}
	ret := make([]*Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.Remove {
			continue
		}
		if a.Category == Protein && len(a.ResName) > 3 {
			a.ResName = a.ResName[len(a.ResName)-3:]
		}
		ret = append(ret, a)
	}
	return ret
}
