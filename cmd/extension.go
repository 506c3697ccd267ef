package cmd

import (
	"fmt"
	"os"
	"os/exec"
)

// RunExtension attempts to find and execute an external vtrade-<subcommand>
// binary on PATH. It returns (true, exitCode) if an extension was found and
// executed, and (false, 0) if there is no such binary. The child inherits the
// environment, so every configuration setting flows through unchanged.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "vtrade-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
