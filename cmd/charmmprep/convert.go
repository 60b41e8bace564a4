package main

import (
	"context"
	"flag"
	"os"

	"github.com/foldy-project/charmm"
	"github.com/foldy-project/charmm/batch"
)

var (
	flagConvertIn     = "auto"
	flagConvertOut    = "charmm"
	flagConvertNaming = "charmm"
	flagConvertOutDir = "."
)

var cmdConvert = &command{
	name:            "convert",
	positionalUsage: "pdb-file [pdb-file ...]",
	help: `
Converts each PDB file into one CHARMM-ready file per segment,
new_<pdb>-<segment>.pdb, plus the residue index map <pdb>.chk.zst, and
prints a summary of each conversion. Structures are converted
concurrently; a failed conversion doesn't stop the others.
`,
	flags: flag.NewFlagSet("convert", flag.ExitOnError),
	run:   convert,
}

func init() {
	cmdConvert.flags.StringVar(&flagConvertIn, "in", flagConvertIn,
		"Layout of the input files: auto, charmm (legacy) or web.")
	cmdConvert.flags.StringVar(&flagConvertOut, "out", flagConvertOut,
		"Layout the segments are written in: charmm or web.")
	cmdConvert.flags.StringVar(&flagConvertNaming, "naming", flagConvertNaming,
		"Naming conventions residues and atoms are renamed to: charmm or web.")
	cmdConvert.flags.StringVar(&flagConvertOutDir, "outdir", flagConvertOutDir,
		"Directory the converted files are written to.")
}

func format(name string) charmm.Format {
	f, err := charmm.ParseFormat(name)
	if err != nil {
		fatalf("%s", err)
	}
	return f
}

func convert(c *command) {
	c.assertLeastNArg(1)
	O := &charmm.Options{
		In:     format(flagConvertIn),
		Out:    format(flagConvertOut),
		Naming: format(flagConvertNaming),
	}
	if err := os.MkdirAll(flagConvertOutDir, 0755); err != nil {
		fatalf("%s", err)
	}
	results := batch.Convert(context.Background(), c.flags.Args(), flagConvertOutDir, O, flagCpu)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if len(results) > 1 {
			os.Stdout.WriteString("# " + r.Path + "\n")
		}
		r.Summary.Print(os.Stdout)
	}
	failed := batch.Failed(results)
	for _, r := range failed {
		verbosef("%s: %s", r.Path, r.Err)
	}
	if len(failed) > 0 {
		fatalf("%d of %d conversions failed", len(failed), len(results))
	}
}
