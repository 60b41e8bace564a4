package batch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/foldy-project/charmm/operator"
	"github.com/foldy-project/charmm/store"
)

//Submitter runs one simulation and returns its result bundle.
type Submitter func(ctx context.Context, R *operator.RunConfig) ([]byte, error)

//Outcome is what became of one surveyed run.
type Outcome struct {
	Config  *operator.RunConfig
	Bundle  []byte
	Elapsed time.Duration
	Err     error
}

//Survey submits each run, with at most workers in flight, and reports
//which structures simulate cleanly. Each run gets at most timeout (no
//limit if 0).
func Survey(ctx context.Context, runs []*operator.RunConfig, workers int, timeout time.Duration, submit Submitter) []*Outcome {
	out := run(ctx, len(runs), workers, func(i int) interface{} {
		rctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		bundle, err := submit(rctx, runs[i])
		O := &Outcome{Config: runs[i], Bundle: bundle, Elapsed: time.Since(start), Err: err}
		if err != nil {
			log.Printf("%s: %v", runs[i].PDBID, err)
		} else {
			log.Printf("%s is good (%v)", runs[i].PDBID, O.Elapsed.Round(time.Millisecond))
		}
		return O
	})
	ret := make([]*Outcome, len(runs))
	for i, v := range out {
		switch v := v.(type) {
		case *Outcome:
			ret[i] = v
		case error:
			ret[i] = &Outcome{Config: runs[i], Err: v}
		}
	}
	return ret
}

//Good returns the structure IDs of the runs that succeeded, in order.
func Good(outcomes []*Outcome) []string {
	var ret []string
	for _, o := range outcomes {
		if o.Err == nil {
			ret = append(ret, o.Config.PDBID)
		}
	}
	return ret
}

//CheckBundle verifies that bundle holds one frame per step of R under the
//results directory of R.
func CheckBundle(bundle []byte, R *operator.RunConfig) error {
	files, err := store.ReadBundle(bytes.NewReader(bundle))
	if err != nil {
		return fmt.Errorf("result bundle: %w", err)
	}
	dir := store.BundleDir(R.PDBID)
	frames := 0
	for name := range files {
		if path.Dir(name) == dir && strings.HasSuffix(name, ".pdb") {
			frames++
		}
	}
	if frames != R.Steps {
		return fmt.Errorf("expected %d frames in %s, got %d", R.Steps, dir, frames)
	}
	return nil
}

//Verified wraps submit so that runs whose bundle fails CheckBundle count
//as failed.
func Verified(submit Submitter) Submitter {
	return func(ctx context.Context, R *operator.RunConfig) ([]byte, error) {
		bundle, err := submit(ctx, R)
		if err != nil {
			return nil, err
		}
		return bundle, CheckBundle(bundle, R)
	}
}
