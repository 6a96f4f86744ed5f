package fwdeploy

import (
	"context"
	"fmt"
	"os"
)

// Inspector discovers dependencies by running an inspection command
// (otool -L by default) against each artifact's binary.
type Inspector struct {
	// SourceDir is the Carthage build folder holding every artifact.
	SourceDir string
	// Command is the inspection command; the binary path is appended to its arguments.
	Command Command
	// Markers identify bundle references in the command output.
	Markers []string
}

// NewInspector returns an Inspector for sourceDir configured from settings.
func NewInspector(sourceDir string, settings Settings) *Inspector {
	return &Inspector{
		SourceDir: sourceDir,
		Command:   settings.Inspect,
		Markers:   settings.Markers,
	}
}

// Discover runs the inspection command on the artifact's binary and returns
// the referenced artifacts found in SourceDir.
func (i *Inspector) Discover(ctx context.Context, artifact string) ([]string, error) {
	binary := BinaryPath(i.SourceDir, artifact)
	if _, err := os.Stat(binary); err != nil {
		return nil, DiscoveryError(artifact, binary, fmt.Errorf("binary not found: %w", err))
	}

	args := append(append([]string(nil), i.Command.Args...), binary)
	Debugf(ctx, "Running: %s", commandLine(i.Command.Name, args...))

	out, err := CommandOutput(ctx, i.Command.Name, args...)
	if err != nil {
		return nil, DiscoveryError(artifact, binary, err)
	}

	markers := i.Markers
	if markers == nil {
		markers = DefaultMarkers
	}
	return ParseDependenciesWith(string(out), i.SourceDir, markers), nil
}
