package main

import (
	"github.com/borzacchiello/gocrest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve <execution>",
	Short: "Computes inputs that flip one branch of a recorded execution",
	Long: "Computes inputs that follow the recorded path up to the chosen constraint and then take the other direction. " +
		"The inputs of the next run are written one value per line.",
	Args: cobra.ExactArgs(1),
	RunE: cmdRunSolve,
}

func init() {
	solveCmd.Flags().SortFlags = false
	solveCmd.Flags().Int("branch", -1, "index of the path constraint to negate")
	solveCmd.Flags().String("out", "", "file for the new inputs (unless a config file is provided, default is \"input\")")
	solveCmd.Flags().String("backend", "", "solver backend (unless a config file is provided, default is \"z3\")")
	_ = solveCmd.MarkFlagRequired("branch")
	rootCmd.AddCommand(solveCmd)
}

func cmdRunSolve(cmd *cobra.Command, args []string) error {
	branch, err := cmd.Flags().GetInt("branch")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.Output, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend, _ = cmd.Flags().GetString("backend")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	ex, err := gocrest.ReadExecutionFile(args[0])
	if err != nil {
		return err
	}
	inputs, err := solveBranch(ex, branch, cfg.Backend)
	if err != nil {
		return err
	}
	if err := gocrest.WriteInputsFile(cfg.Output, inputs); err != nil {
		return err
	}
	cmdLogger.Info().Int("branch", branch).Str("output", cfg.Output).Msg("wrote new inputs")
	return nil
}

// solveBranch returns the full input vector of the run that flips constraint
// i of ex.
func solveBranch(ex *gocrest.Execution, i int, backendName string) ([]gocrest.Value, error) {
	backend, err := gocrest.NewBackend(backendName)
	if err != nil {
		return nil, err
	}
	solver := gocrest.NewSolver(backend)
	defer solver.Close()

	soln, err := solver.SolveAtBranch(ex, i)
	if errors.Cause(err) == gocrest.ErrUnsat {
		cmdLogger.Info().Int("branch", i).Msg("branch is infeasible")
		return nil, newErrorWithExitCode(err, exitCodeInfeasible)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "solve branch %d", i)
	}
	return gocrest.MergeSolution(ex.Inputs(), soln), nil
}
