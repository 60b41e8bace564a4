package charmm

import (
	"sort"
	"strings"
)

var categoryRank = map[Category]int64{
	Nucleic: 1,
	Protein: 2,
	GoodHet: 3,
	BadHet:  4,
}

//Segment identifiers are compared character by character in this order,
//letters first.
const segIDOrder = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789abcdefghijklmnopqrstuvwxyz"

const (
	categoryWeight int64 = 1e11
	segIDWeight    int64 = 1e9
	resIDWeight    int64 = 1e5
)

//maxSegIDs is the number of distinct segment identifiers that fit between
//two category ranks.
const maxSegIDs = categoryWeight/segIDWeight - 1

func validSegID(segID string) bool {
	if segID == "" {
		return false
	}
	for i := 0; i < len(segID); i++ {
		if strings.IndexByte(segIDOrder, segID[i]) < 0 {
			return false
		}
	}
	return true
}

//segIDLess compares two valid segment identifiers. A prefix comes before
//the longer identifiers it starts.
func segIDLess(a, b string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, cb := strings.IndexByte(segIDOrder, a[i]), strings.IndexByte(segIDOrder, b[i])
		if ca != cb {
			return ca < cb
		}
	}
	return len(a) < len(b)
}

//SegIDRanks maps every segment identifier of a structure to its rank, 1
//for the first one in alphabetical order.
type SegIDRanks map[string]int64

//RankSegIDs ranks the distinct segment identifiers of atoms densely, so
//identifiers sharing a first character (PROA, PROB) still get their own
//rank.
func RankSegIDs(atoms []*Atom) (SegIDRanks, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, a := range atoms {
		if seen[a.SegID] {
			continue
		}
		if !validSegID(a.SegID) {
			return nil, &UnknownSegmentError{SegID: a.SegID, Atom: a.Number, deco: []string{"RankSegIDs"}}
		}
		seen[a.SegID] = true
		ids = append(ids, a.SegID)
		if int64(len(ids)) > maxSegIDs {
			return nil, &UnknownSegmentError{SegID: a.SegID, Atom: a.Number, deco: []string{"RankSegIDs"}}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return segIDLess(ids[i], ids[j]) })
	R := make(SegIDRanks, len(ids))
	for i, id := range ids {
		R[id] = int64(i + 1)
	}
	return R, nil
}

//Score returns the sort key of a: category, then segment, then residue
//id, then original atom number. R must rank the segment of a.
func Score(a *Atom, R SegIDRanks) (int64, error) {
	cr, ok := categoryRank[a.Category]
	if !ok {
		return 0, &UnknownCategoryError{Category: a.Category, Atom: a.Number, deco: []string{"Score"}}
	}
	sr, ok := R[a.SegID]
	if !ok {
		return 0, &UnknownSegmentError{SegID: a.SegID, Atom: a.Number, deco: []string{"Score"}}
	}
	return cr*categoryWeight + sr*segIDWeight + int64(a.ResID)*resIDWeight + int64(a.Number), nil
}

type scored struct {
	atom  *Atom
	score int64
}

//SortAtoms sorts atoms in place by Score. The sort is stable, so atoms
//with equal scores keep their input order.
func SortAtoms(atoms []*Atom) error {
	R, err := RankSegIDs(atoms)
	if err != nil {
		return errDecorate(err, "SortAtoms")
	}
	s := make([]scored, len(atoms))
	for i, a := range atoms {
		sc, err := Score(a, R)
		if err != nil {
			return errDecorate(err, "SortAtoms")
		}
		s[i] = scored{a, sc}
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].score < s[j].score })
	for i := range s {
		atoms[i] = s[i].atom
	}
	return nil
}
