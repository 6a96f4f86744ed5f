package fwdeploy

import (
	"context"
	"path/filepath"
	"strconv"
)

// Copier copies the scheduled artifacts into the app bundle.
type Copier interface {
	Copy(ctx context.Context, sourceDir string, artifacts []string) error
}

// CopyEnv returns the KEY=value pairs that hand artifacts to
// `carthage copy-frameworks`. Input file lists are reset so that the copy
// command only sees the resolved artifacts.
func CopyEnv(sourceDir string, artifacts []string) []string {
	env := make([]string, 0, len(artifacts)+2)
	env = append(env, EnvInputFileCount+"="+strconv.Itoa(len(artifacts)))
	for i, a := range artifacts {
		env = append(env, EnvInputFilePrefix+strconv.Itoa(i)+"="+filepath.Join(sourceDir, a))
	}
	env = append(env, EnvInputFileListCount+"=0")
	return env
}

// CommandCopier runs the copy command with CopyEnv applied on top of the
// process environment.
type CommandCopier struct {
	Command Command
}

// Copy runs the copy command, streaming its output to the build log.
// A failure is returned as a CopyCommandError.
func (c CommandCopier) Copy(ctx context.Context, sourceDir string, artifacts []string) error {
	// Stale SCRIPT_INPUT_FILE_<n> from the calling build phase must not leak
	// past the new count.
	ctx = ContextWithoutEnv(ctx, EnvInputFilePrefix)
	for _, kv := range CopyEnv(sourceDir, artifacts) {
		ctx = ContextWithEnv(ctx, kv)
	}

	Debugf(ctx, "Running: %s", c.Command)
	if err := ExecStream(ctx, c.Command.Name, c.Command.Args...); err != nil {
		return CopyCommandError(c.Command.String(), err)
	}
	return nil
}
