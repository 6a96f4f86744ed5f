package fwdeploy

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultSettingsFile is the settings file picked up from the working
// directory when no -config flag is given.
const DefaultSettingsFile = "fwdeploy.hcl"

// Command is an external command and its leading arguments.
type Command struct {
	Name string
	Args []string
}

// String renders the command line.
func (c Command) String() string {
	return commandLine(c.Name, c.Args...)
}

// Settings controls which commands are run and how their output is read.
type Settings struct {
	// Inspect lists the dependencies of a binary. The binary path is appended.
	Inspect Command
	// Copy copies the resolved artifacts into the app bundle.
	Copy Command
	// ReleaseConfigurations are the build configurations that always copy.
	ReleaseConfigurations []string
	// Markers identify bundle references in the inspection output.
	Markers []string
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Inspect:               Command{Name: "otool", Args: []string{"-L"}},
		Copy:                  Command{Name: "carthage", Args: []string{"copy-frameworks"}},
		ReleaseConfigurations: []string{"Release"},
		Markers:               slices.Clone(DefaultMarkers),
	}
}

// hclSettingsFile represents the top-level structure of a settings file for decoding.
type hclSettingsFile struct {
	ReleaseConfigurations *[]string   `hcl:"release_configurations,optional"`
	Markers               *[]string   `hcl:"markers,optional"`
	Inspect               *hclCommand `hcl:"inspect,block"`
	Copy                  *hclCommand `hcl:"copy,block"`
}

// hclCommand represents an 'inspect' or 'copy' block.
type hclCommand struct {
	Command *string   `hcl:"command,optional"`
	Args    *[]string `hcl:"args,optional"`
}

// LoadSettings reads the settings file at path on top of DefaultSettings.
// An empty path means DefaultSettingsFile, which may be absent; an explicit
// path must exist.
func LoadSettings(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, ConfigurationError("reading settings file %s: %w", path, err)
	}
	return ParseSettings(src, path)
}

// ParseSettings decodes HCL settings from src on top of DefaultSettings.
// filename is only used in diagnostics.
func ParseSettings(src []byte, filename string) (Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Settings{}, ConfigurationError("failed to parse settings file %s: %w", filename, diags)
	}

	var parsed hclSettingsFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return Settings{}, ConfigurationError("failed to decode settings file %s: %w", filename, diags)
	}

	s := DefaultSettings()
	if parsed.ReleaseConfigurations != nil {
		s.ReleaseConfigurations = *parsed.ReleaseConfigurations
	}
	if parsed.Markers != nil {
		s.Markers = *parsed.Markers
	}
	s.Inspect = parsed.Inspect.apply(s.Inspect)
	s.Copy = parsed.Copy.apply(s.Copy)

	if s.Inspect.Name == "" {
		return Settings{}, ConfigurationError("settings file %s: inspect command must not be empty", filename)
	}
	if s.Copy.Name == "" {
		return Settings{}, ConfigurationError("settings file %s: copy command must not be empty", filename)
	}
	return s, nil
}

// apply overrides the fields of c that are set in the block.
func (h *hclCommand) apply(c Command) Command {
	if h == nil {
		return c
	}
	if h.Command != nil {
		c.Name = *h.Command
	}
	if h.Args != nil {
		c.Args = *h.Args
	}
	return c
}
