/*
 * errors.go, part of charmm.
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
	"strings"
)

//Error is the interface for the errors returned by this package. Decorate
//allows to add the name of each function the error goes through on its way
//up, without changing its type or wrapping it. Calling it with an empty
//string just returns the current trail.
type Error interface {
	Error() string
	Decorate(string) []string
	//Critical errors abort the whole conversion.
	Critical() bool
}

//errDecorate adds caller to the trail of err, if err is one of ours.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
	}
	return err
}

func decorate(deco *[]string, s string) []string {
	if s != "" {
		*deco = append(*deco, s)
	}
	return *deco
}

func trail(deco []string) string {
	if len(deco) == 0 {
		return ""
	}
	return " (" + strings.Join(deco, " < ") + ")"
}

//MalformedRecordError is returned when an atom line can not be parsed.
//No partial output should be trusted after one of these.
type MalformedRecordError struct {
	File  string
	Line  int //1-based, 0 if unknown
	Field string
	Text  string
	deco  []string
}

func (E *MalformedRecordError) Error() string {
	where := E.File
	if E.Line > 0 {
		where = fmt.Sprintf("%s:%d", E.File, E.Line)
	}
	if where == "" {
		where = "input"
	}
	return fmt.Sprintf("malformed record at %s: bad %s %q%s", where, E.Field, E.Text, trail(E.deco))
}

func (E *MalformedRecordError) Decorate(s string) []string { return decorate(&E.deco, s) }
func (E *MalformedRecordError) Critical() bool             { return true }

//UnknownFormatError is returned when no line of a file allows to tell the
//legacy layout from the web one.
type UnknownFormatError struct {
	File string
	deco []string
}

func (E *UnknownFormatError) Error() string {
	return fmt.Sprintf("can't detect the pdb format of %q%s", E.File, trail(E.deco))
}

func (E *UnknownFormatError) Decorate(s string) []string { return decorate(&E.deco, s) }
func (E *UnknownFormatError) Critical() bool             { return true }

//UnknownCategoryError means an atom reached the sort or the segment builder
//with a category those steps don't rank. Classification is total, so this
//is a bug, not bad input.
type UnknownCategoryError struct {
	Category Category
	Atom     int
	deco     []string
}

func (E *UnknownCategoryError) Error() string {
	return fmt.Sprintf("atom %d has unexpected category %v%s", E.Atom, E.Category, trail(E.deco))
}

func (E *UnknownCategoryError) Decorate(s string) []string { return decorate(&E.deco, s) }
func (E *UnknownCategoryError) Critical() bool             { return true }

//UnknownSegmentError is returned by the sort when a segment identifier
//has no rank.
type UnknownSegmentError struct {
	SegID string
	Atom  int
	deco  []string
}

func (E *UnknownSegmentError) Error() string {
	return fmt.Sprintf("atom %d has unrankable segment id %q%s", E.Atom, E.SegID, trail(E.deco))
}

func (E *UnknownSegmentError) Decorate(s string) []string { return decorate(&E.deco, s) }
func (E *UnknownSegmentError) Critical() bool             { return true }

//DuplicateSegmentError means two segments of a structure would be written
//to the same file, for instance segment ids that only differ in case.
type DuplicateSegmentError struct {
	File string
	deco []string
}

func (E *DuplicateSegmentError) Error() string {
	return fmt.Sprintf("two segments would be written to %s%s", E.File, trail(E.deco))
}

func (E *DuplicateSegmentError) Decorate(s string) []string { return decorate(&E.deco, s) }
func (E *DuplicateSegmentError) Critical() bool             { return true }

//Warning is a non-fatal diagnostic collected during a conversion.
type Warning struct {
	Segment string
	Message string
}

func (W Warning) String() string {
	if W.Segment == "" {
		return W.Message
	}
	return W.Segment + ": " + W.Message
}
