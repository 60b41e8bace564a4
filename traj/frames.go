//Package traj post-processes the frames a simulation produces: it loads
//them into gonum matrices, measures how far each frame moved, stores whole
//trajectories in the compressed STF format and plots the results.
package traj

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/foldy-project/charmm"
	"gonum.org/v1/gonum/mat"
)

//Trajectory is a sequence of frames of the same atoms. Each frame is a
//Len()x3 matrix, one row per atom.
type Trajectory struct {
	Atoms  []*charmm.Atom //as read from the first frame
	Frames []*mat.Dense
}

//Len returns the number of atoms in each frame.
func (T *Trajectory) Len() int {
	if len(T.Frames) == 0 {
		return len(T.Atoms)
	}
	r, _ := T.Frames[0].Dims()
	return r
}

//Coords returns the coordinates of atoms as a matrix.
func Coords(atoms []*charmm.Atom) *mat.Dense {
	if len(atoms) == 0 {
		return nil
	}
	c := mat.NewDense(len(atoms), 3, nil)
	for i, a := range atoms {
		c.SetRow(i, a.Coords[:])
	}
	return c
}

//ReadFrame reads one PDB frame. Frames written by the engine may use
//either layout; when the layout can't be detected, web is assumed.
func ReadFrame(r io.Reader) ([]*charmm.Atom, *mat.Dense, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	atoms, _, err := charmm.ReadAtoms(bytes.NewReader(data), charmm.Auto)
	if _, ok := err.(*charmm.UnknownFormatError); ok {
		atoms, _, err = charmm.ReadAtoms(bytes.NewReader(data), charmm.Web)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(atoms) == 0 {
		return nil, nil, fmt.Errorf("frame has no atoms")
	}
	return atoms, Coords(atoms), nil
}

//LoadFrames reads the PDB frames in paths, in order. All frames must have
//the same number of atoms.
func LoadFrames(paths []string) (*Trajectory, error) {
	T := new(Trajectory)
	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		atoms, c, err := ReadFrame(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("frame %d (%s): %w", i, p, err)
		}
		if i == 0 {
			T.Atoms = atoms
		} else if len(atoms) != len(T.Atoms) {
			return nil, fmt.Errorf("frame %d (%s) has %d atoms, expected %d", i, p, len(atoms), len(T.Atoms))
		}
		T.Frames = append(T.Frames, c)
	}
	return T, nil
}
