package operator

import (
	"fmt"
	"strings"
)

//RunConfig is the body of a POST /run.
type RunConfig struct {
	PDBID   string `json:"pdb_id"`
	Steps   int    `json:"steps"`
	ModelID int    `json:"model_id"`
	ChainID string `json:"chain_id"`
	Primary string `json:"primary"`
	Mask    string `json:"mask"`
	Seed    int    `json:"seed"`
}

//Normalize lowercases the structure ID, checks the request and replaces a
//zero seed with -1 (random).
func (R *RunConfig) Normalize() error {
	R.PDBID = strings.ToLower(strings.TrimSpace(R.PDBID))
	if R.PDBID == "" {
		return fmt.Errorf("missing pdb_id")
	}
	if R.Steps < 2 {
		return fmt.Errorf("expected >1 steps, got %d", R.Steps)
	}
	if R.ChainID == "" {
		return fmt.Errorf("missing chain_id")
	}
	if R.Seed < -1 {
		return fmt.Errorf("invalid seed")
	}
	if R.Seed == 0 {
		R.Seed = -1
	}
	return nil
}

//ResultName is the file name results for R are served as.
func (R *RunConfig) ResultName() string {
	return fmt.Sprintf("%s_minim.tar.gz", R.PDBID)
}
