package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/foldy-project/charmm"
	"github.com/foldy-project/charmm/normalize"
	"github.com/foldy-project/charmm/proteinnet"
	"github.com/foldy-project/charmm/report"
	"github.com/foldy-project/charmm/sim"
	"github.com/foldy-project/charmm/store"
	"github.com/foldy-project/charmm/traj"
)

//job is one simulation, from download to reporting back.
type job struct {
	PDBID         string
	ModelID       int
	ChainID       string
	Primary       string
	Mask          string
	CorrelationID string
	ProteinNet    string //records to look the sequence up in when Primary is empty
	WorkDir       string

	Store   *store.Store
	Archive *store.Store //optional, keeps a copy of the results
	Report  *report.Client
	Engine  *sim.Engine
}

func (J *job) path(name string) string { return filepath.Join(J.WorkDir, name) }

//reference returns the expected sequence and mask of the chain, or empty
//strings if there is nothing to check against.
func (J *job) reference(ctx context.Context) (string, string, error) {
	if J.Primary != "" || J.ProteinNet == "" {
		mask := J.Mask
		if mask == "" {
			mask = strings.Repeat("+", len(J.Primary))
		}
		return J.Primary, mask, nil
	}
	f, err := os.Open(J.ProteinNet)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	rec, err := proteinnet.Find(ctx, f, J.PDBID, J.ModelID, J.ChainID)
	if err != nil {
		return "", "", err
	}
	if rec == nil {
		log.Printf("%s_%d_%s not in %s, the chain won't be checked", J.PDBID, J.ModelID, J.ChainID, J.ProteinNet)
		return "", "", nil
	}
	return rec.Primary, rec.Mask, nil
}

//check normalizes the chain of the raw structure and compares it with
//the reference sequence.
func (J *job) check(ctx context.Context, raw string) error {
	f, err := os.Open(raw)
	if err != nil {
		return err
	}
	atoms, _, err := charmm.ReadAtoms(f, charmm.Auto)
	f.Close()
	if err != nil {
		return err
	}
	var chain []*charmm.Atom
	for _, a := range charmm.Deduplicate(atoms) {
		if a.Category == charmm.Protein && strings.EqualFold(a.SegID, J.ChainID) {
			chain = append(chain, a)
		}
	}
	if len(chain) == 0 {
		return fmt.Errorf("chain %s of %s has no protein residues", J.ChainID, J.PDBID)
	}
	residues, err := normalize.NormalizeChain(normalize.Residues(chain), nil)
	if err != nil {
		return err
	}
	log.Printf("Chain %s: %d residues, %.1f Da", J.ChainID, len(residues), normalize.Mass(residues))
	primary, mask, err := J.reference(ctx)
	if err != nil || primary == "" {
		return err
	}
	return normalize.CheckChain(normalize.Abbrev(residues), primary, mask)
}

//prepare downloads and checks the structure and returns the CHARMM file
//of the chain, which the engine takes as input.
func (J *job) prepare(ctx context.Context) (string, error) {
	raw := J.path(J.PDBID + ".pdb")
	if err := J.Store.DownloadPDBFile(ctx, J.PDBID, raw); err != nil {
		return "", err
	}
	if err := J.check(ctx, raw); err != nil {
		return "", err
	}
	S, err := charmm.ConvertFile(raw, J.WorkDir, nil)
	if err != nil {
		return "", err
	}
	if len(S.Warnings) > 0 {
		log.Printf("Conversion warnings: %v", S.Warnings)
	}
	want := strings.ToLower(J.ChainID) + "-pro"
	for i, seg := range S.Segments {
		if seg == want {
			return S.Files[i], nil
		}
	}
	return "", fmt.Errorf("no segment %s in %v", want, S.Segments)
}

//analyze stores the frames as a trajectory and plots how far they drift.
func (J *job) analyze(frames []string) ([]string, error) {
	T, err := traj.LoadFrames(frames)
	if err != nil {
		return nil, err
	}
	rmsd, err := T.RMSDSeries(true, traj.Masses(T.Atoms))
	if err != nil {
		return nil, err
	}
	mean, std := rmsd.MeanStdDev()
	i, top := rmsd.Max()
	log.Printf("RMSD to the first frame: %.3f +/- %.3f A, max %.3f A at frame %d", mean, std, top, i)
	stf := J.path(J.PDBID + "_minim.stf")
	header := map[string]string{"pdb": J.PDBID, "correlation_id": J.CorrelationID, "prec": "3"}
	if err := T.WriteSTFFile(stf, header); err != nil {
		return nil, err
	}
	png := J.path(J.PDBID + "_rmsd.png")
	if err := traj.PlotRMSD(png, rmsd); err != nil {
		return nil, err
	}
	return []string{stf, png}, nil
}

func (J *job) run(ctx context.Context) error {
	log.Printf("Simulating %s for %d steps", strings.ToUpper(J.PDBID), J.Engine.Params.NSteps)
	log.Printf("Preparing input data...")
	input, err := J.prepare(ctx)
	if err != nil {
		return err
	}
	log.Printf("Running simulation...")
	if err := J.Engine.Simulate(ctx, J.PDBID, filepath.Base(input)); err != nil {
		return err
	}
	log.Printf("Extracting frames...")
	frames, err := J.Engine.Frames(ctx, J.PDBID)
	if err != nil {
		return err
	}
	extra, err := J.analyze(frames)
	if err != nil {
		return err
	}
	log.Printf("Uploading results...")
	bundle, err := store.Bundle(store.BundleDir(J.PDBID), append(frames, extra...))
	if err != nil {
		return err
	}
	if J.Archive != nil {
		key := J.CorrelationID + "/" + store.BundleName(J.PDBID)
		if err := J.Archive.Upload(ctx, key, bundle, "application/gzip"); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
	return J.Report.Complete(ctx, J.CorrelationID, store.BundleName(J.PDBID), bytes.NewReader(bundle))
}

//fail tells the operator the run failed with err.
func (J *job) fail(err error) {
	if J.CorrelationID == "" || J.Report == nil {
		return
	}
	if rerr := J.Report.Error(context.Background(), J.CorrelationID, err.Error()); rerr != nil {
		log.Printf("Failed to report error: %v", rerr)
	}
}
