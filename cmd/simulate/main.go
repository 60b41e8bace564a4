//Command simulate runs inside a simulation pod: it fetches a structure,
//prepares and checks it, runs the MD engine and sends the frames back to
//the operator. Failures are reported to the operator too.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/foldy-project/charmm/report"
	"github.com/foldy-project/charmm/sim"
	"github.com/foldy-project/charmm/store"
)

func main() {
	var (
		J          job
		params     = flag.String("params", "", "TOML file with the simulation parameters")
		nsteps     = flag.Int("nsteps", 0, "number of frames (overrides the parameters file)")
		seed       = flag.Int("seed", 0, "random seed, -1 for a random one (overrides the parameters file)")
		endpoint   = flag.String("endpoint", "https://sfo2.digitaloceanspaces.com", "object storage endpoint")
		region     = flag.String("region", "us-east-1", "object storage region")
		bucket     = flag.String("bucket", "pdb", "bucket holding the structures")
		archive    = flag.String("archive_bucket", "", "bucket to keep a copy of the results in")
		operatorAt = flag.String("foldy_operator", "", "operator address (default $FOLDY_OPERATOR or "+report.DefaultAddress+")")
	)
	flag.StringVar(&J.PDBID, "pdb_id", "", "structure to simulate")
	flag.IntVar(&J.ModelID, "model_id", 0, "model of the structure")
	flag.StringVar(&J.ChainID, "chain_id", "", "chain to simulate")
	flag.StringVar(&J.Primary, "primary", "", "expected sequence of the chain")
	flag.StringVar(&J.Mask, "mask", "", "residues of primary present in the structure (+) or missing (-)")
	flag.StringVar(&J.CorrelationID, "correlation_id", "", "ID the operator knows this run by")
	flag.StringVar(&J.ProteinNet, "proteinnet", "", "ProteinNet file to look the sequence up in when -primary is not given")
	flag.StringVar(&J.WorkDir, "workdir", ".", "directory the engine runs in")
	flag.Parse()

	J.Report = report.NewClient(*operatorAt)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := func() error {
		if J.PDBID == "" {
			return fmt.Errorf("missing pdb_id")
		}
		if J.CorrelationID == "" {
			return fmt.Errorf("missing correlation_id")
		}
		J.PDBID = strings.ToLower(J.PDBID)
		P := new(sim.Params)
		if *params != "" {
			var err error
			if P, err = sim.LoadParams(*params); err != nil {
				return err
			}
		}
		if *nsteps != 0 {
			P.NSteps = *nsteps
		}
		if *seed != 0 {
			P.Seed = *seed
		}
		J.Engine = sim.NewEngine(P, J.WorkDir)
		if err := P.Validate(); err != nil {
			return err
		}
		var err error
		if J.Store, err = store.New(&store.Config{Endpoint: *endpoint, Region: *region, Bucket: *bucket}); err != nil {
			return err
		}
		if *archive != "" {
			if J.Archive, err = store.New(&store.Config{Endpoint: *endpoint, Region: *region, Bucket: *archive}); err != nil {
				return err
			}
		}
		return J.run(ctx)
	}()
	if err != nil {
		J.fail(err)
		log.Fatal(err)
	}
	log.Printf("Done!")
}
