//Command charmmprep prepares PDB structures for CHARMM and inspects the
//results of simulations.
package main

import (
	"log"
	"os"
	"strings"
)

var commands = []*command{
	cmdConvert,
	cmdLookup,
	cmdCheck,
	cmdAnalyze,
	cmdSurvey,
}

func usage() {
	log.Print("Usage: charmmprep {command} [flags] [arguments]\n\n")
	log.Print("Use 'charmmprep help {command}' for more details on {command}.\n\n")
	log.Print("A list of all available commands:\n\n")
	for _, c := range commands {
		log.Printf("    charmmprep %s [flags] %s\n", c.name, c.positionalUsage)
	}
	log.Println("")
	os.Exit(1)
}

func main() {
	var cmd string
	var help bool
	if len(os.Args) < 2 {
		usage()
	} else if strings.TrimLeft(os.Args[1], "-") == "help" {
		if len(os.Args) < 3 {
			usage()
		} else {
			cmd = os.Args[2]
			help = true
		}
	} else {
		cmd = os.Args[1]
	}

	for _, c := range commands {
		if c.name == cmd {
			c.setCommonFlags()
			if help {
				c.showHelp()
			} else {
				c.flags.Usage = c.showUsage
				c.flags.Parse(os.Args[2:])
				if flagCpu < 1 {
					flagCpu = 1
				}
				c.run(c)
				return
			}
		}
	}
	log.Printf("Unknown command '%s'. Run 'charmmprep help' for a list of "+
		"available commands.", cmd)
	os.Exit(1)
}
