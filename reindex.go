/*
 * reindex.go, part of charmm.
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

//ResetIds sets the current order of the atoms as their Number, starting
//from 1, and compresses their residue ids into 1, 2, 3... Atoms that
//shared a residue id keep sharing the new one.
func (S *Segment) ResetIds() {
	if len(S.Atoms) == 0 {
		return
	}
	oldid := S.Atoms[0].ResID
	newid := 1
	for key, val := range S.Atoms {
		val.Number = key + 1
		if val.ResID != oldid {
			oldid = val.ResID
			newid++
		}
		val.ResID = newid
	}
}

//Reindex renumbers every segment on its own with ResetIds and returns the
//map between the old and the new numbers. Protein atoms also get a residue
//index running over all the protein segments together, which starts a new
//residue whenever the old residue id or the segment changes.
func Reindex(B *Buckets) *IndexMap {
	M := new(IndexMap)
	resIndex := make(map[*Atom]int)
	var prevSeg *Segment
	prevRes, index := 0, 0
	for _, seg := range B.Get(Protein) {
		for _, a := range seg.Atoms {
			if index == 0 || seg != prevSeg || a.ResID != prevRes {
				index++
				prevSeg, prevRes = seg, a.ResID
			}
			resIndex[a] = index
		}
	}
	for _, seg := range B.All() {
		first := len(M.Entries)
		for _, a := range seg.Atoms {
			M.Entries = append(M.Entries, IndexEntry{
				Segment:   seg.Name(),
				SegID:     a.SegID,
				Category:  a.Category.String(),
				ResName:   a.ResName,
				Type:      a.Type,
				OldNumber: a.Number,
				OldResID:  a.ResID,
				ResIndex:  resIndex[a],
			})
		}
		seg.ResetIds()
		for i, a := range seg.Atoms {
			M.Entries[first+i].NewNumber = a.Number
			M.Entries[first+i].NewResID = a.ResID
		}
	}
	return M
}
