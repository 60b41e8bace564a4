package charmm

import (
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

//IndexEntry relates the numbers an atom had in the input file to the
//ones it got in the output.
type IndexEntry struct {
	Segment   string `json:"segment"` //as given by Segment.Name
	SegID     string `json:"segid"`
	Category  string `json:"category"`
	ResName   string `json:"resname"`
	Type      string `json:"type"`
	OldNumber int    `json:"old_atom"`
	NewNumber int    `json:"new_atom"`
	OldResID  int    `json:"old_resid"`
	NewResID  int    `json:"new_resid"`
	ResIndex  int    `json:"res_index,omitempty"` //protein atoms only
}

//IndexMap is the old/new correspondence of a whole conversion, kept so
//results computed on the converted structure can be traced back to the
//original file.
type IndexMap struct {
	Entries []IndexEntry `json:"entries"`
}

//OldToNew returns the new residue id of the residue oldResID of segment.
func (M *IndexMap) OldToNew(segment string, oldResID int) (int, bool) {
	for _, e := range M.Entries {
		if e.Segment == segment && e.OldResID == oldResID {
			return e.NewResID, true
		}
	}
	return 0, false
}

//NewToOld returns the residue id in the input file of the residue
//newResID of segment.
func (M *IndexMap) NewToOld(segment string, newResID int) (int, bool) {
	for _, e := range M.Entries {
		if e.Segment == segment && e.NewResID == newResID {
			return e.OldResID, true
		}
	}
	return 0, false
}

//ResIndex returns the segment and the input residue id of the protein
//residue with the given residue index. Indexes start at 1.
func (M *IndexMap) ResIndex(index int) (string, int, bool) {
	if index <= 0 {
		return "", 0, false
	}
	for _, e := range M.Entries {
		if e.ResIndex == index {
			return e.Segment, e.OldResID, true
		}
	}
	return "", 0, false
}

//Write stores the map as zstd-compressed JSON.
func (M *IndexMap) Write(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(M); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

//WriteFile stores the map in the file name, which is overwritten.
func (M *IndexMap) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := M.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//ReadIndexMap reads a map stored with Write.
func ReadIndexMap(r io.Reader) (*IndexMap, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	M := new(IndexMap)
	if err := json.NewDecoder(dec).Decode(M); err != nil {
		return nil, err
	}
	return M, nil
}

//ReadIndexFile reads a map stored with WriteFile.
func ReadIndexFile(name string) (*IndexMap, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIndexMap(f)
}
