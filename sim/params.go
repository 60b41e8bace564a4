//Package sim drives the external molecular dynamics engine through its
//wrapper scripts: run-simulation.sh runs the minimization and dynamics,
//trjconv.sh extracts one frame of the trajectory as a PDB file.
package sim

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
)

//Params are the simulation parameters passed to the engine.
type Params struct {
	EMTol      float64 `toml:"emtol"`       //stop minimization when the maximum force is below this (kJ/mol/nm)
	EMStep     float64 `toml:"emstep"`      //minimization step size
	NSteps     int     `toml:"nsteps"`      //frames wanted
	DT         float64 `toml:"dt"`          //time step (ps)
	StepFactor int     `toml:"step_factor"` //engine steps per wanted frame
	Seed       int     `toml:"seed"`        //-1 is random
	ScriptDir  string  `toml:"script_dir"`
}

//SetDefaults fills the zero fields with the usual values.
func (P *Params) SetDefaults() {
	if P.EMTol == 0 {
		P.EMTol = 10.0
	}
	if P.EMStep == 0 {
		P.EMStep = 0.01
	}
	if P.NSteps == 0 {
		P.NSteps = 1000
	}
	if P.DT == 0 {
		P.DT = 0.0002
	}
	//The engine writes fewer frames than steps, about 5 times fewer.
	if P.StepFactor == 0 {
		P.StepFactor = 5
	}
	if P.Seed == 0 {
		P.Seed = -1
	}
	if P.ScriptDir == "" {
		P.ScriptDir = "."
	}
}

//Validate rejects parameters the engine can't run with.
func (P *Params) Validate() error {
	if P.NSteps < 2 {
		return fmt.Errorf("expected >1 steps, got %d", P.NSteps)
	}
	if P.Seed < -1 {
		return fmt.Errorf("invalid seed")
	}
	if P.EMTol <= 0 || P.EMStep <= 0 || P.DT <= 0 {
		return fmt.Errorf("emtol, emstep and dt must be positive")
	}
	return nil
}

//DecodeParams reads TOML parameters from r. Missing keys get their defaults.
func DecodeParams(r io.Reader) (*Params, error) {
	P := new(Params)
	if err := toml.NewDecoder(r).Decode(P); err != nil {
		return nil, fmt.Errorf("simulation parameters: %w", err)
	}
	P.SetDefaults()
	return P, P.Validate()
}

//LoadParams reads TOML parameters from the file path.
func LoadParams(path string) (*Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeParams(f)
}
