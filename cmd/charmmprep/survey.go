package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foldy-project/charmm/batch"
	"github.com/foldy-project/charmm/operator"
	"github.com/foldy-project/charmm/proteinnet"
	"github.com/foldy-project/charmm/report"
)

var (
	flagSurveyOperator = ""
	flagSurveySteps    = 5
	flagSurveyTimeout  = 3 * time.Minute
	flagSurveyGood     = ""
)

var cmdSurvey = &command{
	name:            "survey",
	positionalUsage: "ids-file",
	help: `
Asks the operator to simulate a few steps of every structure listed in
ids-file, one per line, either as a bare PDB ID (chain A) or as a
ProteinNet ID (1abc_1_A). Runs whose bundle doesn't hold one frame per step
fail. Prints the IDs that simulate cleanly.
`,
	flags: flag.NewFlagSet("survey", flag.ExitOnError),
	run:   survey,
}

func init() {
	cmdSurvey.flags.StringVar(&flagSurveyOperator, "operator", flagSurveyOperator,
		"Operator address. $FOLDY_OPERATOR if empty.")
	cmdSurvey.flags.IntVar(&flagSurveySteps, "steps", flagSurveySteps,
		"Steps to simulate for each structure.")
	cmdSurvey.flags.DurationVar(&flagSurveyTimeout, "timeout", flagSurveyTimeout,
		"Time allowed for each run.")
	cmdSurvey.flags.StringVar(&flagSurveyGood, "good", flagSurveyGood,
		"Also write the good IDs to this file.")
}

func parseRun(line string) (*operator.RunConfig, error) {
	R := &operator.RunConfig{Steps: flagSurveySteps, ChainID: "A"}
	if !strings.Contains(line, "_") {
		if len(line) != 4 {
			return nil, fmt.Errorf("malformed pdb ID '%s'", line)
		}
		R.PDBID = strings.ToLower(line)
		return R, nil
	}
	pdb, model, chain, ok, err := proteinnet.ParseID(line)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("'%s' has no chain", line)
	}
	R.PDBID, R.ModelID, R.ChainID = pdb, model, chain
	return R, nil
}

func survey(c *command) {
	c.assertNArg(1)
	f := openFile(c.flags.Arg(0))
	var runs []*operator.RunConfig
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		R, err := parseRun(line)
		if err != nil {
			fatalf("%s", err)
		}
		runs = append(runs, R)
	}
	if err := scanner.Err(); err != nil {
		fatalf("%s", err)
	}
	closeOrFail(f, c.flags.Arg(0))

	address := report.NewClient(flagSurveyOperator).Address
	verbosef("Running %d experiments on %s with concurrency of %d", len(runs), address, flagCpu)
	client := &http.Client{Timeout: flagSurveyTimeout}
	submit := batch.Verified(func(ctx context.Context, R *operator.RunConfig) ([]byte, error) {
		return operator.Submit(ctx, client, address, R)
	})
	outcomes := batch.Survey(context.Background(), runs, flagCpu, flagSurveyTimeout, submit)
	good := batch.Good(outcomes)
	for _, id := range good {
		fmt.Println(id)
	}
	if flagSurveyGood != "" {
		out := createFile(flagSurveyGood)
		w := bufio.NewWriter(out)
		for _, id := range good {
			fmt.Fprintln(w, id)
		}
		if err := w.Flush(); err != nil {
			fatalf("%s", err)
		}
		closeOrFail(out, flagSurveyGood)
	}
	verbosef("%d of %d structures are good", len(good), len(runs))
}
