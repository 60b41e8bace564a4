package charmm

import "strings"

//Segment is a run of atoms, contiguous in sort order, that share a
//category and a segment identifier.
type Segment struct {
	Atoms []*Atom
}

//Category returns the category of the segment's atoms.
func (S *Segment) Category() Category {
	if len(S.Atoms) == 0 {
		return 0
	}
	return S.Atoms[0].Category
}

//SegID returns the segment identifier shared by the segment's atoms.
func (S *Segment) SegID() string {
	if len(S.Atoms) == 0 {
		return ""
	}
	return S.Atoms[0].SegID
}

//Name is the label used for the segment in summaries, e.g. "a-pro".
func (S *Segment) Name() string {
	return strings.ToLower(strings.TrimSpace(S.SegID() + "-" + S.Category().fileTag()))
}

func (S *Segment) Len() int {
	return len(S.Atoms)
}

//Buckets holds the segments grouped by category, each group in the order
//the segments were added.
type Buckets struct {
	segs [RNA + 1][]*Segment
}

//Get returns the segments of category c.
func (B *Buckets) Get(c Category) []*Segment {
	if c < Nucleic || c > RNA {
		return nil
	}
	return B.segs[c]
}

func (B *Buckets) set(c Category, segs []*Segment) {
	B.segs[c] = segs
}

func (B *Buckets) add(c Category, s *Segment) {
	B.segs[c] = append(B.segs[c], s)
}

//All returns every segment, bucket by bucket, in the order nucleic,
//protein, good-het, bad-het, dna, rna.
func (B *Buckets) All() []*Segment {
	var ret []*Segment
	for c := Nucleic; c <= RNA; c++ {
		ret = append(ret, B.segs[c]...)
	}
	return ret
}

//BuildSegments cuts the sorted atoms into segments wherever the
//category or the segment identifier changes, and files each segment under
//its category. Only the four categories assigned by Classify are valid here.
func BuildSegments(sorted []*Atom) (*Buckets, error) {
	B := new(Buckets)
	start := 0
	flush := func(end int) error {
		seg := &Segment{Atoms: sorted[start:end:end]}
		c := seg.Category()
		if _, ok := categoryRank[c]; !ok {
			return &UnknownCategoryError{Category: c, Atom: seg.Atoms[0].Number, deco: []string{"BuildSegments"}}
		}
		B.add(c, seg)
		start = end
		return nil
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Category == prev.Category && cur.SegID == prev.SegID {
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}
	}
	if len(sorted) > 0 {
		if err := flush(len(sorted)); err != nil {
			return nil, err
		}
	}
	return B, nil
}
