/*
 * doc.go, part of charmm.
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

/*
Package charmm turns PDB files into the segment files CHARMM-based
simulation setups expect.

A conversion goes through these passes, in order:

    Parse       ATOM/HETATM lines, in the CHARMM (legacy) or wwPDB (web)
                column layout, detected from the file if not given.
    Deduplicate keep one of each set of alternate conformations.
    Sort        by category, segment, residue id and atom number.
    Segments    cut where the category or the segment identifier changes.
    Transforms  C-terminal OT1/OT2, DNA/RNA split, CHARMM names.
    Reindex     dense atom and residue numbers per segment.

Convert runs the passes over a reader. ConvertFile also writes one file per
segment and an index map relating old and new numbers, which can be read
back with ReadIndexFile.

Related packages: normalize checks residues and chains against canonical
atom lists, sim and traj run and post-process the simulation, store,
report and operator deal with the service around it.
*/
package charmm
