//Package normalize reduces amino acid residues to their canonical heavy
//atoms and checks the resulting chain against a reference sequence.
package normalize

import (
	"log"
	"strings"

	"github.com/foldy-project/charmm"
)

//Residue is a run of atoms sharing segment, residue id and insertion code.
type Residue struct {
	ResName string
	SegID   string
	ResID   int
	ICode   string
	Atoms   []*charmm.Atom
}

func (R *Residue) same(a *charmm.Atom) bool {
	return R.SegID == a.SegID && R.ResID == a.ResID && R.ICode == a.ICode
}

//Residues groups consecutive atoms into residues.
func Residues(atoms []*charmm.Atom) []*Residue {
	var ret []*Residue
	var cur *Residue
	for _, a := range atoms {
		if cur == nil || !cur.same(a) {
			cur = &Residue{ResName: a.ResName, SegID: a.SegID, ResID: a.ResID, ICode: a.ICode}
			ret = append(ret, cur)
		}
		cur.Atoms = append(cur.Atoms, a)
	}
	return ret
}

func (R *Residue) find(name string) *charmm.Atom {
	for _, a := range R.Atoms {
		if strings.TrimSpace(a.Type) == name {
			return a
		}
	}
	return nil
}

//NormalizeResidue returns a new residue with copies of the canonical atoms
//of R, in canonical order. Hydrogens and any other extra atoms are left
//out.
func NormalizeResidue(R *Residue) (*Residue, error) {
	desc, err := Description(R.ResName)
	if err != nil {
		return nil, err
	}
	N := &Residue{ResName: R.ResName, SegID: R.SegID, ResID: R.ResID, ICode: R.ICode}
	N.Atoms = make([]*charmm.Atom, 0, len(desc))
	for i, d := range desc {
		a := R.find(d.Name)
		if a == nil {
			return nil, &AtomNotFoundError{ResName: R.ResName, ResID: R.ResID, Atom: d.Name}
		}
		if el := strings.ToUpper(a.Symbol()); el != d.Element {
			return nil, &ElementMismatchError{Index: i, Atom: d.Name, Expected: d.Element, Got: el}
		}
		N.Atoms = append(N.Atoms, a.Copy())
	}
	return N, nil
}

//NormalizeChain normalizes every residue of a chain. Residues named in
//ignore are dropped, as are residues without a canonical description,
//which are only logged. Any other failure aborts.
func NormalizeChain(residues []*Residue, ignore map[string]bool) ([]*Residue, error) {
	ret := make([]*Residue, 0, len(residues))
	for _, r := range residues {
		if ignore[r.ResName] {
			continue
		}
		n, err := NormalizeResidue(r)
		if _, ok := err.(*UnknownResidueError); ok {
			log.Printf("Ignoring residue %s", r.ResName)
			continue
		}
		if err != nil {
			return nil, err
		}
		ret = append(ret, n)
	}
	return ret, nil
}

//Abbrev returns the one-letter sequence of residues.
func Abbrev(residues []*Residue) string {
	b := make([]byte, len(residues))
	for i, r := range residues {
		b[i] = OneLetter(r.ResName)
	}
	return string(b)
}

//Atoms returns the atoms of all the residues, in order.
func Atoms(residues []*Residue) []*charmm.Atom {
	var ret []*charmm.Atom
	for _, r := range residues {
		ret = append(ret, r.Atoms...)
	}
	return ret
}

//Mass returns the mass of the chain formed by residues, in AMU. Residues
//with unknown mass count as 0.
func Mass(residues []*Residue) float64 {
	var m float64
	for _, r := range residues {
		rm, _ := charmm.ResidueMass(r.ResName)
		m += rm
	}
	return m
}
