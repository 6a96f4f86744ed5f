package fwdeploy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// WaitDelay is the time to wait after sending SIGINT before sending SIGKILL.
const WaitDelay = 5 * time.Second

var (
	colorEnvOnce sync.Once
	colorEnvVars []string
)

// colorForceEnvVars are the environment variables set to force color output.
var colorForceEnvVars = []string{
	"FORCE_COLOR=1",       // Node.js, chalk, many modern tools
	"CLICOLOR_FORCE=1",    // BSD/macOS convention
	"COLORTERM=truecolor", // Indicates color support
}

// initColorEnv detects if stdout is a TTY and prepares env vars to force colors.
func initColorEnv() {
	_, noColor := os.LookupEnv("NO_COLOR")
	if noColor {
		return
	}

	if isTerminal(os.Stdout) {
		colorEnvVars = colorForceEnvVars
	}
}

// commandBase creates an exec.Cmd with the context's environment overrides
// applied and graceful shutdown configured. Output is not wired.
func commandBase(ctx context.Context, name string, args ...string) *exec.Cmd {
	colorEnvOnce.Do(initColorEnv)

	env := applyEnvConfig(os.Environ(), EnvConfigFromContext(ctx))
	env = append(env, colorEnvVars...)

	// exec.Command resolves the binary using os.Getenv("PATH") at creation
	// time, before cmd.Env takes effect. A PATH override must win.
	name = lookPathInEnv(name, env)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.WaitDelay = WaitDelay
	setGracefulShutdown(cmd)
	return cmd
}

// commandLine renders a command for logs and error messages.
func commandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		if strings.ContainsAny(s, " \t\"'") {
			s = fmt.Sprintf("%q", s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Exec runs a command with the context's environment overrides.
// Output is captured and only included in the returned error on failure;
// on success it goes to the debug writer.
//
// Commands are terminated gracefully: SIGINT first, then SIGKILL after WaitDelay.
func Exec(ctx context.Context, name string, args ...string) error {
	cmd := commandBase(ctx, name, args...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w\n%s", commandLine(name, args...), err, buf.String())
	}
	if buf.Len() > 0 {
		Debugf(ctx, "%s", strings.TrimRight(buf.String(), "\n"))
	}
	return nil
}

// ExecStream runs a command with the context's environment overrides and
// streams its output to the context's stdout and stderr.
func ExecStream(ctx context.Context, name string, args ...string) error {
	cmd := commandBase(ctx, name, args...)

	out := outputFromContext(ctx)
	cmd.Stdout = out.Stdout
	cmd.Stderr = out.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", commandLine(name, args...), err)
	}
	return nil
}

// CommandOutput runs a command and returns its standard output.
// Standard error is included in the returned error on failure.
func CommandOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := commandBase(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", commandLine(name, args...), err)
		}
		return nil, fmt.Errorf("%s: %w\n%s", commandLine(name, args...), err, msg)
	}
	return stdout.Bytes(), nil
}

// lookPathInEnv resolves name against the PATH found in env.
// Names containing a path separator and names not found are returned as is.
func lookPathInEnv(name string, env []string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}

	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return name
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate
		}
	}
	return name
}
