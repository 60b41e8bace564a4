/*
 * atom.go, part of charmm.
 *
 * Copyright 2020 The foldy-project authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package charmm

import (
	"fmt"
	"strconv"
	"strings"
)

//Format is one of the fixed-column layouts an atom line can be written in.
type Format int

const (
	//Auto asks the reader to detect the layout from the file itself.
	Auto Format = iota
	//Legacy is the CHARMM layout: 4-letter residue names at 17:21 and the
	//segment identifier at 72:76.
	Legacy
	//Web is the wwPDB layout: alt-loc plus residue name at 16:20, chain at 21
	//and the element symbol at 76:78.
	Web
)

func (f Format) String() string {
	switch f {
	case Auto:
		return "auto"
	case Legacy:
		return "charmm"
	case Web:
		return "web"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

//ParseFormat returns the Format named by s. "charmm" is accepted as a
//synonym of "legacy".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return Auto, nil
	case "legacy", "charmm":
		return Legacy, nil
	case "web":
		return Web, nil
	}
	return Auto, fmt.Errorf("unknown pdb format %q", s)
}

const (
	webWidth    = 80
	legacyWidth = 76
	//Occupancies below this are alternate conformations.
	multiModelWeight = 0.99
)

//Atom is one ATOM or HETATM record. Type keeps the 4 columns of the atom
//name exactly as they appear in the file (" CA ", " OT1", "ZN  "), since
//CHARMM relies on that alignment.
type Atom struct {
	Record    string
	Number    int
	Type      string
	ResName   string
	SegID     string
	ResID     int
	ICode     string
	Coords    [3]float64
	Occupancy float64
	BFactor   float64
	Element   string
	Charge    string
	Category  Category
	Remove    bool //set by Deduplicate, such atoms are dropped right after.
}

//Weight is the confidence value used to choose between alternate
//conformations.
func (A *Atom) Weight() float64 {
	return A.Occupancy
}

//ModelTag returns the alternate-location letter of a multi-model residue
//name ("BALA" gives 'B'), or 0 if the name carries no tag.
func (A *Atom) ModelTag() byte {
	if len(A.ResName) != 4 {
		return 0
	}
	return A.ResName[0]
}

//Copy returns a copy of the atom.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

//pad extends line with blanks so every column can be sliced safely.
func pad(line string, width int) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < width {
		line += strings.Repeat(" ", width-len(line))
	}
	return line
}

//ParseAtom parses an ATOM or HETATM line written in the layout f. The
//returned error is a *MalformedRecordError. Line numbers are left for the
//caller to fill in.
func ParseAtom(line string, f Format) (*Atom, error) {
	if f != Legacy && f != Web {
		return nil, &MalformedRecordError{Field: "format", Text: f.String(), deco: []string{"ParseAtom"}}
	}
	line = pad(line, webWidth)
	A := new(Atom)
	A.Record = strings.TrimSpace(line[0:6])
	if A.Record != "ATOM" && A.Record != "HETATM" {
		return nil, &MalformedRecordError{Field: "record", Text: line[0:6], deco: []string{"ParseAtom"}}
	}
	var err error
	fail := func(field, text string) (*Atom, error) {
		return nil, &MalformedRecordError{Field: field, Text: text, deco: []string{"ParseAtom"}}
	}
	if A.Number, err = strconv.Atoi(strings.TrimSpace(line[6:11])); err != nil {
		return fail("atom number", line[6:11])
	}
	A.Type = line[12:16]
	if A.ResID, err = strconv.Atoi(strings.TrimSpace(line[22:26])); err != nil {
		return fail("residue id", line[22:26])
	}
	A.ICode = strings.TrimSpace(line[26:27])
	for i := 0; i < 3; i++ {
		col := line[30+8*i : 38+8*i]
		if A.Coords[i], err = strconv.ParseFloat(strings.TrimSpace(col), 64); err != nil {
			return fail("coordinates", col)
		}
	}
	A.Occupancy = 1.0
	if occ := strings.TrimSpace(line[54:60]); occ != "" {
		if A.Occupancy, err = strconv.ParseFloat(occ, 64); err != nil {
			return fail("occupancy", line[54:60])
		}
	}
	if bf := strings.TrimSpace(line[60:66]); bf != "" {
		if A.BFactor, err = strconv.ParseFloat(bf, 64); err != nil {
			return fail("b-factor", line[60:66])
		}
	}
	switch f {
	case Web:
		A.ResName = strings.TrimSpace(line[16:20])
		A.SegID = strings.TrimSpace(line[21:22])
		A.Element = strings.TrimSpace(line[76:78])
		A.Charge = strings.TrimSpace(line[78:80])
	case Legacy:
		A.ResName = strings.TrimSpace(line[17:21])
		A.SegID = strings.TrimSpace(line[72:76])
	}
	A.Category = Classify(A.ResName)
	return A, nil
}

//Format writes the atom as a single line (no newline) in the layout f.
//Web lines are 80 columns wide and legacy lines 76.
func (A *Atom) Format(f Format) string {
	switch f {
	case Web:
		return fmt.Sprintf("%-6s%5d %-4.4s%4.4s %1.1s%4d%1.1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2.2s%-2.2s",
			A.Record, A.Number, A.Type, A.ResName, A.SegID, A.ResID, A.ICode,
			A.Coords[0], A.Coords[1], A.Coords[2], A.Occupancy, A.BFactor, A.Symbol(), A.Charge)
	default:
		return fmt.Sprintf("%-6s%5d %-4.4s %-4.4s %4d%1.1s   %8.3f%8.3f%8.3f%6.2f%6.2f      %-4.4s",
			A.Record, A.Number, A.Type, A.ResName, A.ResID, A.ICode,
			A.Coords[0], A.Coords[1], A.Coords[2], A.Occupancy, A.BFactor, A.SegID)
	}
}

//Symbol returns the element of the atom, guessed from its name if the
//record carries none.
func (A *Atom) Symbol() string {
	if A.Element != "" {
		return A.Element
	}
	return symbolFromType(A.Type)
}

func (A *Atom) String() string {
	return A.Format(Web)
}

//symbolFromType guesses the element from the 4 columns of a PDB atom name.
//The element is right-justified in the first two columns, except for
//hydrogens with 4-character names, which start in the first one.
func symbolFromType(atype string) string {
	atype = pad(atype, 4)
	if atype[0] >= '0' && atype[0] <= '9' {
		return "H"
	}
	if atype[0] == 'H' && atype[3] != ' ' {
		return "H"
	}
	return strings.TrimSpace(atype[0:2])
}
