/*
 * handy.go, part of charmm.
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

//Some internal convenience functions.

//isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	if container == nil {
		return false
	}
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

//isAlphaNum is true for the characters allowed in a segment identifier.
func isAlphaNum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

//Flatten returns the atoms of all the segments, in order.
func Flatten(segs []*Segment) []*Atom {
	n := 0
	for _, s := range segs {
		n += len(s.Atoms)
	}
	ret := make([]*Atom, 0, n)
	for _, s := range segs {
		ret = append(ret, s.Atoms...)
	}
	return ret
}
