package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/foldy-project/charmm"
)

var (
	flagLookupSegment = ""
	flagLookupNew     = false
)

var cmdLookup = &command{
	name:            "lookup",
	positionalUsage: "index-file number [number ...]",
	help: `
Looks numbers up in a residue index map written by 'convert'. By default
each number is a protein residue index (the position of the residue among
all protein residues) and its segment and residue id are printed. With
-segment, each number is an original residue id of that segment and the
new residue id is printed; add -new to go from new ids to original ones.
`,
	flags: flag.NewFlagSet("lookup", flag.ExitOnError),
	run:   lookup,
}

func init() {
	cmdLookup.flags.StringVar(&flagLookupSegment, "segment", flagLookupSegment,
		"Segment (e.g. a-pro) whose original residue ids are given.")
	cmdLookup.flags.BoolVar(&flagLookupNew, "new", flagLookupNew,
		"With -segment, the numbers given are new residue ids.")
}

func lookup(c *command) {
	c.assertLeastNArg(2)
	M, err := charmm.ReadIndexFile(c.flags.Arg(0))
	if err != nil {
		fatalf("%s", err)
	}
	for _, arg := range c.flags.Args()[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fatalf("Not a number: '%s'", arg)
		}
		if flagLookupSegment != "" {
			find, arrow := M.OldToNew, "->"
			if flagLookupNew {
				find, arrow = M.NewToOld, "<-"
			}
			if resid, ok := find(flagLookupSegment, n); ok && flagLookupNew {
				fmt.Printf("%s %d %s %d\n", flagLookupSegment, resid, arrow, n)
			} else if ok {
				fmt.Printf("%s %d %s %d\n", flagLookupSegment, n, arrow, resid)
			} else {
				fmt.Printf("%s %d not found\n", flagLookupSegment, n)
			}
			continue
		}
		if seg, resid, ok := M.ResIndex(n); ok {
			fmt.Printf("%d %s %d\n", n, seg, resid)
		} else {
			fmt.Printf("%d not found\n", n)
		}
	}
}
