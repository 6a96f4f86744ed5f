//go:build !unix

package fwdeploy

import (
	"os"
	"os/exec"

	"golang.org/x/term"
)

// setGracefulShutdown is a no-op on non-Unix platforms, where SIGINT is not
// available. cmd.Cancel defaults to os.Process.Kill.
func setGracefulShutdown(_ *exec.Cmd) {}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
