package main

import (
	"fmt"
	"io"

	"github.com/borzacchiello/gocrest"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print <execution>",
	Short: "Prints a recorded execution",
	Long:  "Prints the declared inputs, the branch count and the path constraints of a recorded execution",
	Args:  cobra.ExactArgs(1),
	RunE:  cmdRunPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func cmdRunPrint(cmd *cobra.Command, args []string) error {
	ex, err := gocrest.ReadExecutionFile(args[0])
	if err != nil {
		return err
	}
	return printExecution(cmd.OutOrStdout(), ex)
}

func printExecution(w io.Writer, ex *gocrest.Execution) error {
	inputs := ex.Inputs()
	fmt.Fprintf(w, "variables: %d\n", ex.NumVars())
	for i, val := range inputs {
		t, err := ex.Type(gocrest.Var(i))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  x%-4d %-18s %d\n", i, t, val)
	}

	path := ex.Path()
	fmt.Fprintf(w, "branches: %d (fingerprint %016x)\n", len(path.Branches()), path.Fingerprint())
	fmt.Fprintf(w, "constraints: %d\n", path.NumConstraints())
	positions := path.ConstraintPositions()
	for i, c := range path.Constraints() {
		bid := path.Branches()[positions[i]]
		_, err := fmt.Fprintf(w, "  [%d] branch %d at %d: %s\n", i, bid, positions[i], c)
		if err != nil {
			return err
		}
	}
	return nil
}
