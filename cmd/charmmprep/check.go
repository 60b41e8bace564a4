package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/foldy-project/charmm"
	"github.com/foldy-project/charmm/normalize"
	"github.com/foldy-project/charmm/proteinnet"
)

var (
	flagCheckChain      = "A"
	flagCheckModel      = 1
	flagCheckPrimary    = ""
	flagCheckMask       = ""
	flagCheckProteinNet = ""
	flagCheckIgnore     = ""
)

var cmdCheck = &command{
	name:            "check",
	positionalUsage: "pdb-file",
	help: `
Reduces the protein residues of one chain to their canonical heavy atoms
and compares the resulting sequence with the expected one, given with
-primary and -mask or looked up in a ProteinNet file. Prints the one-letter
sequence of the chain and its mass.
`,
	flags: flag.NewFlagSet("check", flag.ExitOnError),
	run:   check,
}

func init() {
	cmdCheck.flags.StringVar(&flagCheckChain, "chain", flagCheckChain, "Chain to check.")
	cmdCheck.flags.IntVar(&flagCheckModel, "model", flagCheckModel, "Model ID, for the ProteinNet lookup.")
	cmdCheck.flags.StringVar(&flagCheckPrimary, "primary", flagCheckPrimary, "Expected sequence.")
	cmdCheck.flags.StringVar(&flagCheckMask, "mask", flagCheckMask,
		"Residues of -primary present (+) or missing (-) in the structure.\n"+
			"All present if empty.")
	cmdCheck.flags.StringVar(&flagCheckProteinNet, "proteinnet", flagCheckProteinNet,
		"ProteinNet file to look the expected sequence up in.")
	cmdCheck.flags.StringVar(&flagCheckIgnore, "ignore", flagCheckIgnore,
		"Comma-separated residue names to leave out of the chain.")
}

func check(c *command) {
	c.assertNArg(1)
	path := c.flags.Arg(0)
	f := openFile(path)
	atoms, _, err := charmm.ReadAtoms(f, charmm.Auto)
	closeOrFail(f, path)
	if err != nil {
		fatalf("%s", err)
	}
	var chain []*charmm.Atom
	for _, a := range charmm.Deduplicate(atoms) {
		if a.Category == charmm.Protein && strings.EqualFold(a.SegID, flagCheckChain) {
			chain = append(chain, a)
		}
	}
	ignore := map[string]bool{}
	for _, r := range strings.Split(flagCheckIgnore, ",") {
		if r = strings.TrimSpace(r); r != "" {
			ignore[strings.ToUpper(r)] = true
		}
	}
	residues, err := normalize.NormalizeChain(normalize.Residues(chain), ignore)
	if err != nil {
		fatalf("%s", err)
	}
	abbrev := normalize.Abbrev(residues)
	fmt.Printf("%s\n%d residues, %.1f Da\n", abbrev, len(residues), normalize.Mass(residues))

	primary, mask := flagCheckPrimary, flagCheckMask
	if primary == "" && flagCheckProteinNet != "" {
		pn := openFile(flagCheckProteinNet)
		rec, err := proteinnet.Find(context.Background(), pn, charmm.PDBName(path), flagCheckModel, flagCheckChain)
		closeOrFail(pn, flagCheckProteinNet)
		if err != nil {
			fatalf("%s", err)
		}
		if rec == nil {
			fatalf("%s_%d_%s not found in %s", charmm.PDBName(path), flagCheckModel, flagCheckChain, flagCheckProteinNet)
		}
		primary, mask = rec.Primary, rec.Mask
	}
	if primary == "" {
		return
	}
	if mask == "" {
		mask = strings.Repeat("+", len(primary))
	}
	if err := normalize.CheckChain(abbrev, primary, mask); err != nil {
		fatalf("%s", err)
	}
	fmt.Println("ok")
}
