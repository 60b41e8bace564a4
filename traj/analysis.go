/*
 * analysis.go, part of charmm.
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
 */

package traj

import (
	"fmt"
	"math"

	"github.com/foldy-project/charmm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func checkDims(test, templa mat.Matrix) error {
	tmr, tmc := templa.Dims()
	tsr, tsc := test.Dims()
	if tmr != tsr || tmc != 3 || tsc != 3 {
		return fmt.Errorf("ill-formed matrices: %dx%d and %dx%d", tsr, tsc, tmr, tmc)
	}
	if tmr == 0 {
		return fmt.Errorf("empty coordinates")
	}
	return nil
}

//Masses returns the masses of atoms, in the same order.
func Masses(atoms []*charmm.Atom) []float64 {
	ret := make([]float64, len(atoms))
	for i, a := range atoms {
		ret[i] = a.Mass()
	}
	return ret
}

//Displacements returns, for each atom, the distance between its position
//in test and in templa.
func Displacements(test, templa mat.Matrix) ([]float64, error) {
	if err := checkDims(test, templa); err != nil {
		return nil, err
	}
	r, _ := test.Dims()
	ret := make([]float64, r)
	for i := 0; i < r; i++ {
		var sq float64
		for j := 0; j < 3; j++ {
			d := test.At(i, j) - templa.At(i, j)
			sq += d * d
		}
		ret[i] = math.Sqrt(sq)
	}
	return ret, nil
}

//MaxDisplacement returns the index of the atom that moved the most between
//templa and test, and how far it moved.
func MaxDisplacement(test, templa mat.Matrix) (int, float64, error) {
	d, err := Displacements(test, templa)
	if err != nil {
		return -1, 0, err
	}
	i := floats.MaxIdx(d)
	return i, d[i], nil
}

//RMSD returns the root mean square deviation between test and templa.
//No superposition is performed.
func RMSD(test, templa mat.Matrix) (float64, error) {
	return WeightedRMSD(test, templa, nil)
}

//WeightedRMSD is RMSD with each atom weighted, usually by its mass.
//A nil weights slice weights all atoms the same.
func WeightedRMSD(test, templa mat.Matrix, weights []float64) (float64, error) {
	d, err := Displacements(test, templa)
	if err != nil {
		return 0, err
	}
	if weights != nil && len(weights) != len(d) {
		return 0, fmt.Errorf("%d weights for %d atoms", len(weights), len(d))
	}
	for i := range d {
		d[i] *= d[i]
	}
	return math.Sqrt(stat.Mean(d, weights)), nil
}

//Centroid returns the (optionally weighted) center of the rows of c.
func Centroid(c mat.Matrix, weights []float64) []float64 {
	r, _ := c.Dims()
	ret := make([]float64, 3)
	col := make([]float64, r)
	for j := 0; j < 3; j++ {
		mat.Col(col, j, c)
		ret[j] = stat.Mean(col, weights)
	}
	return ret
}

func centrate(c mat.Matrix, center []float64) *mat.Dense {
	r, _ := c.Dims()
	ret := mat.NewDense(r, 3, nil)
	ret.Apply(func(i, j int, v float64) float64 { return v - center[j] }, c)
	return ret
}

//Superimpose returns a copy of test rotated and translated to best fit
//templa (Kabsch), and the rotation applied. Reflections are never used.
func Superimpose(test, templa mat.Matrix) (*mat.Dense, *mat.Dense, error) {
	if err := checkDims(test, templa); err != nil {
		return nil, nil, err
	}
	ctest := centrate(test, Centroid(test, nil))
	tcenter := Centroid(templa, nil)
	ctempla := centrate(templa, tcenter)
	var H mat.Dense
	H.Mul(ctest.T(), ctempla)
	var svd mat.SVD
	if !svd.Factorize(&H, mat.SVDFull) {
		return nil, nil, fmt.Errorf("SVD failed while superimposing")
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	var VUt mat.Dense
	VUt.Mul(&V, U.T())
	D := mat.NewDiagDense(3, []float64{1, 1, 1})
	if mat.Det(&VUt) < 0 {
		D.SetDiag(2, -1)
	}
	var rot, tmp mat.Dense
	tmp.Mul(&V, D)
	rot.Mul(&tmp, U.T())
	r, _ := test.Dims()
	ret := mat.NewDense(r, 3, nil)
	ret.Mul(ctest, rot.T())
	ret.Apply(func(i, j int, v float64) float64 { return v + tcenter[j] }, ret)
	return ret, &rot, nil
}

//AlignedRMSD superimposes test on templa and returns the RMSD of the fit.
func AlignedRMSD(test, templa mat.Matrix) (float64, error) {
	fit, _, err := Superimpose(test, templa)
	if err != nil {
		return 0, err
	}
	return RMSD(fit, templa)
}

//RadiusOfGyration returns the mass-weighted radius of gyration of c.
func RadiusOfGyration(c mat.Matrix, masses []float64) (float64, error) {
	r, cols := c.Dims()
	if cols != 3 || r == 0 {
		return 0, fmt.Errorf("ill-formed coordinates: %dx%d", r, cols)
	}
	if masses != nil && len(masses) != r {
		return 0, fmt.Errorf("%d masses for %d atoms", len(masses), r)
	}
	centered := centrate(c, Centroid(c, masses))
	sq := make([]float64, r)
	for i := range sq {
		sq[i] = floats.Dot(centered.RawRowView(i), centered.RawRowView(i))
	}
	return math.Sqrt(stat.Mean(sq, masses)), nil
}

//Series holds a per-frame quantity of a trajectory.
type Series []float64

//MeanStdDev returns the mean and the standard deviation of the series.
func (S Series) MeanStdDev() (float64, float64) {
	if len(S) < 2 {
		return stat.Mean(S, nil), 0
	}
	return stat.MeanStdDev(S, nil)
}

//Max returns the frame with the largest value, and that value.
func (S Series) Max() (int, float64) {
	if len(S) == 0 {
		return -1, 0
	}
	i := floats.MaxIdx(S)
	return i, S[i]
}

//RMSDSeries returns the RMSD of every frame of T against its first frame.
//If align is true, each frame is superimposed first. If weights is not nil
//the deviations are weighted by it (alignment ignores the weights).
func (T *Trajectory) RMSDSeries(align bool, weights []float64) (Series, error) {
	if len(T.Frames) == 0 {
		return nil, fmt.Errorf("empty trajectory")
	}
	ref := T.Frames[0]
	ret := make(Series, len(T.Frames))
	for i, f := range T.Frames {
		var test mat.Matrix = f
		if align {
			fit, _, err := Superimpose(f, ref)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			test = fit
		}
		v, err := WeightedRMSD(test, ref, weights)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		ret[i] = v
	}
	return ret, nil
}

//GyrationSeries returns the mass-weighted radius of gyration of each frame.
func (T *Trajectory) GyrationSeries() (Series, error) {
	var masses []float64
	if len(T.Atoms) == T.Len() {
		masses = Masses(T.Atoms)
	}
	ret := make(Series, len(T.Frames))
	for i, f := range T.Frames {
		v, err := RadiusOfGyration(f, masses)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		ret[i] = v
	}
	return ret, nil
}
