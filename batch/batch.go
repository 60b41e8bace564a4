//Package batch spreads many independent jobs, conversions or remote
//simulations, over a fixed number of workers.
package batch

import (
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/Jeffail/tunny"
	"github.com/foldy-project/charmm"
)

//Result is the outcome of converting one file.
type Result struct {
	Path    string
	Summary *charmm.Summary
	Err     error
}

//run feeds each of n jobs to a pool of workers running process, and
//returns the outputs in job order. Jobs not started when ctx is done get
//ctx.Err() as their output.
func run(ctx context.Context, n, workers int, process func(i int) interface{}) []interface{} {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := tunny.NewFunc(workers, func(payload interface{}) interface{} {
		return process(payload.(int))
	})
	defer pool.Close()
	out := make([]interface{}, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := pool.ProcessCtx(ctx, i)
			if err != nil {
				out[i] = err
				return
			}
			out[i] = v
		}(i)
	}
	wg.Wait()
	return out
}

//Convert converts each of paths with charmm.ConvertFile, writing the
//output to outDir, using at most workers conversions at a time (the number
//of CPUs if workers is not positive). A failure doesn't stop the others.
func Convert(ctx context.Context, paths []string, outDir string, O *charmm.Options, workers int) []*Result {
	out := run(ctx, len(paths), workers, func(i int) interface{} {
		//each worker gets its own copy, ConvertFile fills in defaults
		var opts charmm.Options
		if O != nil {
			opts = *O
		}
		S, err := charmm.ConvertFile(paths[i], outDir, &opts)
		if err != nil {
			log.Printf("Converting %s: %v", paths[i], err)
		}
		return &Result{Path: paths[i], Summary: S, Err: err}
	})
	ret := make([]*Result, len(paths))
	for i, v := range out {
		switch v := v.(type) {
		case *Result:
			ret[i] = v
		case error:
			ret[i] = &Result{Path: paths[i], Err: v}
		}
	}
	return ret
}

//Failed returns the results that ended in error.
func Failed(results []*Result) []*Result {
	var ret []*Result
	for _, r := range results {
		if r.Err != nil {
			ret = append(ret, r)
		}
	}
	return ret
}
