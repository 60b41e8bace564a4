package main

import (
	"flag"
	"fmt"

	"github.com/foldy-project/charmm/traj"
)

var (
	flagAnalyzeSTF    = ""
	flagAnalyzePlot   = ""
	flagAnalyzeAlign  = true
	flagAnalyzeMasses = false
)

var cmdAnalyze = &command{
	name:            "analyze",
	positionalUsage: "frame-pdb [frame-pdb ...]",
	help: `
Reads the frames of a simulation, in order, and prints for each one its
RMSD to the first frame, the atom that moved the most and the radius of
gyration. The frames can also be saved as an STF trajectory and the RMSD
plotted.
`,
	flags: flag.NewFlagSet("analyze", flag.ExitOnError),
	run:   analyze,
}

func init() {
	cmdAnalyze.flags.StringVar(&flagAnalyzeSTF, "stf", flagAnalyzeSTF,
		"Save the frames to this STF trajectory.")
	cmdAnalyze.flags.StringVar(&flagAnalyzePlot, "plot", flagAnalyzePlot,
		"Plot the RMSD to this image (png, svg, pdf...).")
	cmdAnalyze.flags.BoolVar(&flagAnalyzeAlign, "align", flagAnalyzeAlign,
		"Superimpose each frame on the first before comparing them.")
	cmdAnalyze.flags.BoolVar(&flagAnalyzeMasses, "masses", flagAnalyzeMasses,
		"Weight the RMSD by atomic mass.")
}

func analyze(c *command) {
	c.assertLeastNArg(1)
	T, err := traj.LoadFrames(c.flags.Args())
	if err != nil {
		fatalf("%s", err)
	}
	verbosef("%d frames of %d atoms", len(T.Frames), T.Len())
	var weights []float64
	if flagAnalyzeMasses {
		weights = traj.Masses(T.Atoms)
	}
	rmsd, err := T.RMSDSeries(flagAnalyzeAlign, weights)
	if err != nil {
		fatalf("%s", err)
	}
	gyr, err := T.GyrationSeries()
	if err != nil {
		fatalf("%s", err)
	}
	fmt.Println("frame rmsd max_atom max_disp rgyr")
	for i, f := range T.Frames {
		atom, disp, err := traj.MaxDisplacement(f, T.Frames[0])
		if err != nil {
			fatalf("%s", err)
		}
		fmt.Printf("%d %.3f %d %.3f %.3f\n", i, rmsd[i], T.Atoms[atom].Number, disp, gyr[i])
	}
	mean, std := rmsd.MeanStdDev()
	fmt.Printf("# rmsd mean=%.3f std=%.3f\n", mean, std)
	if flagAnalyzeSTF != "" {
		if err := T.WriteSTFFile(flagAnalyzeSTF, map[string]string{"prec": "3"}); err != nil {
			fatalf("%s", err)
		}
	}
	if flagAnalyzePlot != "" {
		err := traj.PlotSeries(flagAnalyzePlot, "Trajectory", "Angstrom",
			[]string{"RMSD", "Radius of gyration"}, rmsd, gyr)
		if err != nil {
			fatalf("%s", err)
		}
	}
}
