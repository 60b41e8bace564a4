package normalize

//CheckChain verifies that abbrev, the one-letter sequence of a normalized
//chain, is the primary sequence with the residues the mask marks as missing
//('-') taken out. It fails with a *ChainLengthError if the lengths don't
//add up, a *MaskLengthError if mask and primary differ in length, and a
//*ResidueMismatchError at the first differing residue.
func CheckChain(abbrev, primary, mask string) error {
	expected := 0
	for i := 0; i < len(mask); i++ {
		if mask[i] == '+' {
			expected++
		}
	}
	if len(abbrev) != expected {
		return &ChainLengthError{Got: len(abbrev), Expected: expected}
	}
	if len(mask) != len(primary) {
		return &MaskLengthError{Got: len(mask), Expected: len(primary)}
	}
	j := 0
	for i := 0; i < len(mask); i++ {
		if mask[i] != '+' {
			continue
		}
		if abbrev[j] != primary[i] {
			return &ResidueMismatchError{Position: i, Got: abbrev[j], Expected: primary[i]}
		}
		j++
	}
	return nil
}
