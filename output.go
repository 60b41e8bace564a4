package charmm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

//Summary is what ConvertFile reports about one structure.
type Summary struct {
	NAtom    int
	Warnings []Warning
	Segments []string //segment names, in output order
	Files    []string //written files, segments first and the index map last
}

func quoted(s []string) string {
	q := make([]string, len(s))
	for i, v := range s {
		q[i] = "'" + v + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}

//Print writes the summary as natom=, nwarn=, warnings= and seg= lines.
//The warnings line is omitted when there are none.
func (S *Summary) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "natom=%d\nnwarn=%d\n", S.NAtom, len(S.Warnings)); err != nil {
		return err
	}
	if len(S.Warnings) > 0 {
		ws := make([]string, len(S.Warnings))
		for i, v := range S.Warnings {
			ws[i] = v.String()
		}
		if _, err := fmt.Fprintf(w, "warnings=%s\n", quoted(ws)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "seg=%s\n", quoted(S.Segments))
	return err
}

//PDBName returns the name a structure file is known by: its base name,
//without directory or extensions, lowercased ("/data/1ABC.pdb" gives "1abc").
func PDBName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

//SegmentFileName is the name of the file segment seg of structure pdb is
//written to.
func SegmentFileName(pdb string, seg *Segment) string {
	return strings.ToLower(fmt.Sprintf("new_%s-%s.pdb", pdb, seg.Name()))
}

//IndexFileName is the name of the file the index map of structure pdb is
//written to.
func IndexFileName(pdb string) string {
	return strings.ToLower(pdb) + ".chk.zst"
}

func writeSegmentFile(name string, seg *Segment, f Format) error {
	fout, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := WriteSegment(fout, seg, f); err != nil {
		fout.Close()
		return err
	}
	return fout.Close()
}

//ConvertFile converts the PDB file path and writes, in outDir, one file per
//segment (see SegmentFileName) plus the index map (see IndexFileName).
func ConvertFile(path, outDir string, O *Options) (*Summary, error) {
	if O == nil {
		O = new(Options)
	}
	O.SetDefaults()
	fin, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(fin)
	fin.Close()
	if err != nil {
		return nil, err
	}
	R, err := convertLines(lines, O, path)
	if err != nil {
		return nil, errDecorate(err, "ConvertFile")
	}
	pdb := PDBName(path)
	segs := R.Buckets.All()
	names := make([]string, len(segs))
	seen := make(map[string]bool, len(segs))
	for i, seg := range segs {
		names[i] = filepath.Join(outDir, SegmentFileName(pdb, seg))
		if seen[names[i]] {
			return nil, &DuplicateSegmentError{File: names[i], deco: []string{"ConvertFile"}}
		}
		seen[names[i]] = true
	}
	S := &Summary{NAtom: R.NAtom, Warnings: R.Warnings}
	for i, seg := range segs {
		name := names[i]
		if err := writeSegmentFile(name, seg, O.Out); err != nil {
			return S, err
		}
		S.Segments = append(S.Segments, seg.Name())
		S.Files = append(S.Files, name)
	}
	name := filepath.Join(outDir, IndexFileName(pdb))
	if err := R.Index.WriteFile(name); err != nil {
		return S, err
	}
	S.Files = append(S.Files, name)
	return S, nil
}
