/*
 * pdbio.go, part of charmm.
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
	"bufio"
	"fmt"
	"io"
	"strings"
)

//PDB reading family

func readLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0, 1024)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func isAtomLine(line string) bool {
	return strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM")
}

//detectFormat looks for the first atom line that tells the layouts
//apart. A legacy line has a blank chain column and a segment identifier
//at 72; a web line has a chain and its element column matches the
//start of the atom name.
func detectFormat(lines []string) (Format, bool) {
	for _, l := range lines {
		if !isAtomLine(l) {
			continue
		}
		p := pad(l, webWidth)
		if p[21] == ' ' && isAlphaNum(p[72]) {
			return Legacy, true
		}
		if isAlphaNum(p[21]) && strings.TrimSpace(p[12:14]) == strings.TrimSpace(l[min(66, len(l)):]) {
			return Web, true
		}
	}
	return Auto, false
}

//DetectFormat reads r and tells which layout its atom lines use.
func DetectFormat(r io.Reader) (Format, error) {
	lines, err := readLines(r)
	if err != nil {
		return Auto, err
	}
	f, ok := detectFormat(lines)
	if !ok {
		return Auto, &UnknownFormatError{deco: []string{"DetectFormat"}}
	}
	return f, nil
}

//missingSegIDs is true when the first atom line has nothing in the
//segment identifier column of its layout.
func missingSegIDs(lines []string, f Format) bool {
	for _, l := range lines {
		if !isAtomLine(l) {
			continue
		}
		p := pad(l, webWidth)
		if f == Web {
			return strings.TrimSpace(p[21:22]) == ""
		}
		return strings.TrimSpace(p[72:76]) == ""
	}
	return false
}

//readAtoms parses the atom lines of the first model. If the file has no
//segment identifiers, they are assigned A, B, C... moving to the next
//one at every TER record.
func readAtoms(lines []string, f Format, file string) ([]*Atom, error) {
	atoms := make([]*Atom, 0, len(lines))
	assign := missingSegIDs(lines, f)
	nth := 0
	for i, l := range lines {
		switch {
		case isAtomLine(l):
			a, err := ParseAtom(l, f)
			if err != nil {
				if m, ok := err.(*MalformedRecordError); ok {
					m.File = file
					m.Line = i + 1
				}
				return nil, errDecorate(err, "readAtoms")
			}
			if assign && nth < len(segIDOrder) {
				a.SegID = segIDOrder[nth : nth+1]
			}
			atoms = append(atoms, a)
		case strings.HasPrefix(l, "TER"):
			nth++
		case strings.HasPrefix(l, "ENDMDL"):
			return atoms, nil
		}
	}
	return atoms, nil
}

//ReadAtoms reads the atoms of the first model in r. If f is Auto the
//layout is detected, and returned.
func ReadAtoms(r io.Reader, f Format) ([]*Atom, Format, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, f, err
	}
	return readAtomLines(lines, f, "")
}

func readAtomLines(lines []string, f Format, file string) ([]*Atom, Format, error) {
	if f == Auto {
		var ok bool
		if f, ok = detectFormat(lines); !ok {
			return nil, Auto, &UnknownFormatError{File: file, deco: []string{"ReadAtoms"}}
		}
	}
	atoms, err := readAtoms(lines, f, file)
	return atoms, f, err
}

//End PDB reading family

//WriteSegment writes the atoms of seg in the layout f, followed by a TER
//record. Bad hetero-atoms are written as HETATM, everything else as ATOM.
func WriteSegment(w io.Writer, seg *Segment, f Format) error {
	record := seg.Category().record()
	bw := bufio.NewWriter(w)
	for _, a := range seg.Atoms {
		out := *a
		out.Record = record
		if _, err := fmt.Fprintln(bw, out.Format(f)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, "TER"); err != nil {
		return err
	}
	return bw.Flush()
}
