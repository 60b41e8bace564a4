/*
 * atomicdata.go, part of charmm.
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

import "strings"

//A map for assigning mass (AMU) to elements.
//Note that just common "bio-elements" and the ions CHARMM knows are present
var symbolMass = map[string]float64{
	"H":  1.0079,
	"C":  12.0107,
	"N":  14.0067,
	"O":  15.9994,
	"F":  18.9984,
	"NA": 22.9897,
	"MG": 24.3050,
	"SI": 28.0855,
	"P":  30.9738,
	"S":  32.065,
	"CL": 35.453,
	"K":  39.098,
	"CA": 40.078,
	"CR": 51.9961,
	"MN": 54.9380,
	"FE": 55.845,
	"CO": 58.9332,
	"NI": 58.6934,
	"CU": 63.546,
	"ZN": 65.38,
	"SE": 78.96,
	"BR": 79.904,
	"I":  126.9045,
	"CS": 132.905,
}

//Residue masses (AMU) of the amino acids, as found in a chain (that is,
//minus one water). The CHARMM histidine names share HIS's value.
var residueMass = map[string]float64{
	"ALA": 71.079,
	"CYS": 103.145,
	"ASP": 115.089,
	"GLU": 129.116,
	"PHE": 147.117,
	"GLY": 57.052,
	"HIS": 137.141,
	"HSD": 137.141,
	"HSE": 137.141,
	"HSP": 137.141,
	"ILE": 113.160,
	"LYS": 128.17,
	"LEU": 113.160,
	"MET": 131.199,
	"ASN": 114.104,
	"PRO": 97.117,
	"GLN": 128.131,
	"ARG": 156.188,
	"SER": 87.078,
	"THR": 101.105,
	"VAL": 99.133,
	"TRP": 186.213,
	"TYR": 163.176,
}

//ElementMass returns the mass of the element symbol, in any case.
func ElementMass(symbol string) (float64, bool) {
	m, ok := symbolMass[strings.ToUpper(strings.TrimSpace(symbol))]
	return m, ok
}

//ResidueMass returns the mass of the amino acid resName.
func ResidueMass(resName string) (float64, bool) {
	m, ok := residueMass[strings.ToUpper(strings.TrimSpace(resName))]
	return m, ok
}

//Mass returns the mass of the atom's element, guessed from its name if the
//record carries none. It is 0 for unknown elements.
func (A *Atom) Mass() float64 {
	m, _ := ElementMass(A.Symbol())
	return m
}
