package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

//CommandError is returned when a script can't be started or exits with an
//unexpected code.
type CommandError struct {
	Args     []string
	ExitCode int //-1 if the process never ran to completion
	Stdout   string
	Stderr   string
	deco     []string
}

func (E *CommandError) Error() string {
	msg := fmt.Sprintf("expected exit code 0 from `%s`, got exit code %d: %s", strings.Join(E.Args, " "), E.ExitCode, E.Stdout)
	if E.Stderr != "" {
		msg += " " + E.Stderr
	}
	return msg
}

//Decorate adds s to the list of functions the error went through.
func (E *CommandError) Decorate(s string) []string {
	if s != "" {
		E.deco = append(E.deco, s)
	}
	return E.deco
}

func (E *CommandError) Critical() bool { return true }

//Engine runs the wrapper scripts of one simulation. The scripts are looked
//for in Params.ScriptDir and run in WorkDir, where they leave their output.
type Engine struct {
	Params  *Params
	WorkDir string
}

//NewEngine returns an engine with the given parameters, which are
//completed with their defaults.
func NewEngine(P *Params, workDir string) *Engine {
	if P == nil {
		P = new(Params)
	}
	P.SetDefaults()
	if workDir == "" {
		workDir = "."
	}
	return &Engine{Params: P, WorkDir: workDir}
}

func (E *Engine) script(name string) string {
	p := filepath.Join(E.Params.ScriptDir, name)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (E *Engine) run(ctx context.Context, args ...string) error {
	log.Printf("Running %s", strings.Join(args, " "))
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, args[0], args[1:]...)
	command.Dir = E.WorkDir
	command.Stdout = &stdout
	command.Stderr = &stderr
	err := command.Run()
	if err == nil {
		return nil
	}
	code := -1
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		code = exit.ExitCode()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &CommandError{Args: args, ExitCode: code, Stdout: stdout.String(), Stderr: stderr.String()}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

//Simulate minimizes and simulates the structure in the file input.
func (E *Engine) Simulate(ctx context.Context, pdbID, input string) error {
	P := E.Params
	err := E.run(ctx, E.script("run-simulation.sh"),
		pdbID,
		input,
		ftoa(P.EMTol),
		ftoa(P.EMStep),
		strconv.Itoa(P.NSteps*P.StepFactor),
		ftoa(P.DT),
		strconv.Itoa(P.Seed))
	if e, ok := err.(*CommandError); ok {
		e.Decorate("Simulate")
	}
	return err
}

//FrameName is the file trjconv.sh writes frame i of structure pdbID to.
func FrameName(pdbID string, i int) string {
	return fmt.Sprintf("%s_minim_%d.pdb", pdbID, i)
}

//Frames extracts the first Params.NSteps frames of the trajectory and
//returns the paths of the files they were written to.
func (E *Engine) Frames(ctx context.Context, pdbID string) ([]string, error) {
	n := E.Params.NSteps
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := E.run(ctx, E.script("trjconv.sh"), pdbID, strconv.Itoa(i), strconv.Itoa(i+1)); err != nil {
			return paths, fmt.Errorf("error converting frame #%d: %w", i, err)
		}
		path := filepath.Join(E.WorkDir, FrameName(pdbID, i))
		if _, err := os.Stat(path); err != nil {
			return paths, fmt.Errorf("frame #%d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
