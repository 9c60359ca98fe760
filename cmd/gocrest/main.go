package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()

	var exitCode int
	err, exitCode = innerErrorAndExitCode(err)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if exitCode != exitCodeSuccess {
		os.Exit(exitCode)
	}
}
