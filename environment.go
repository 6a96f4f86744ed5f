package fwdeploy

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Build settings exported by Xcode to run script phases.
const (
	EnvBuiltProductsDir     = "BUILT_PRODUCTS_DIR"
	EnvFrameworksFolderPath = "FRAMEWORKS_FOLDER_PATH"
	EnvConfiguration        = "CONFIGURATION"
	EnvInputFileCount       = "SCRIPT_INPUT_FILE_COUNT"
	EnvInputFilePrefix      = "SCRIPT_INPUT_FILE_"
	EnvInputFileListCount   = "SCRIPT_INPUT_FILE_LIST_COUNT"
	EnvInputFileListPrefix  = "SCRIPT_INPUT_FILE_LIST_"
)

// requiredContext are the variables whose absence means we are not running
// inside an Xcode build.
var requiredContext = []string{EnvBuiltProductsDir, EnvFrameworksFolderPath, EnvConfiguration}

// LookupFunc returns the value of a build environment variable.
type LookupFunc func(key string) (string, bool)

// Environment is the immutable build context of a run.
type Environment struct {
	BuiltProductsDir     string
	FrameworksFolderPath string
	Configuration        string
	// SourceDir is the Carthage build folder shared by all roots.
	SourceDir string
	// Roots are the artifact names passed as input files, in order.
	Roots []string
}

// DestinationDir is where the app bundle's frameworks are copied to.
func (e Environment) DestinationDir() string {
	return filepath.Join(e.BuiltProductsDir, e.FrameworksFolderPath)
}

// IsRelease reports whether the configuration is one of releaseConfigs.
func (e Environment) IsRelease(releaseConfigs []string) bool {
	return slices.Contains(releaseConfigs, e.Configuration)
}

// LoadEnvironment reads the build context and root artifacts from lookup.
//
// Roots come from SCRIPT_INPUT_FILE_<n> followed by the entries of the
// .xcfilelist files named by SCRIPT_INPUT_FILE_LIST_<n>. Every root must live
// in the same directory.
func LoadEnvironment(lookup LookupFunc) (Environment, error) {
	for _, key := range requiredContext {
		if _, ok := lookup(key); !ok {
			return Environment{}, ConfigurationError("%s not in environment. This is not an Xcode build", key)
		}
	}

	env := Environment{
		BuiltProductsDir:     mustLookup(lookup, EnvBuiltProductsDir),
		FrameworksFolderPath: mustLookup(lookup, EnvFrameworksFolderPath),
		Configuration:        mustLookup(lookup, EnvConfiguration),
	}

	inputs, err := indexedValues(lookup, EnvInputFileCount, EnvInputFilePrefix)
	if err != nil {
		return Environment{}, err
	}

	lists, err := indexedValues(lookup, EnvInputFileListCount, EnvInputFileListPrefix)
	if err != nil {
		return Environment{}, err
	}
	for _, list := range lists {
		paths, err := readFileList(list, lookup)
		if err != nil {
			return Environment{}, err
		}
		inputs = append(inputs, paths...)
	}

	for _, input := range inputs {
		dir, name := splitInput(input)
		if name == "" {
			return Environment{}, ConfigurationError("input file %q does not name a framework", input)
		}
		switch {
		case env.SourceDir == "":
			env.SourceDir = dir
		case env.SourceDir != dir:
			return Environment{}, ConfigurationError(
				"there are frameworks from multiple Carthage build folders in InputFiles: %s and %s",
				env.SourceDir, dir)
		}
		env.Roots = append(env.Roots, name)
	}

	return env, nil
}

func mustLookup(lookup LookupFunc, key string) string {
	v, _ := lookup(key)
	return v
}

// indexedValues reads the <prefix><n> family announced by countKey.
// A missing or empty count means no values.
func indexedValues(lookup LookupFunc, countKey, prefix string) ([]string, error) {
	raw, ok := lookup(countKey)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return nil, ConfigurationError("%s must be a non-negative integer, got %q", countKey, raw)
	}

	values := make([]string, 0, count)
	for i := range count {
		key := prefix + strconv.Itoa(i)
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil, ConfigurationError("%s is %d but %s is not set", countKey, count, key)
		}
		values = append(values, v)
	}
	return values, nil
}

// splitInput splits an input file path into its directory and artifact name.
func splitInput(input string) (dir, name string) {
	input = filepath.Clean(input)
	dir, name = filepath.Split(input)
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	return filepath.Clean(dir), name
}

// buildSettingRef matches the $(VAR) form of a build setting reference.
var buildSettingRef = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)

// readFileList reads an .xcfilelist: one path per line, blank lines and
// #-comments ignored, build setting references expanded from lookup.
func readFileList(path string, lookup LookupFunc) ([]string, error) {
	path = expandBuildSettings(path, lookup)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ConfigurationError("reading input file list: %w", err)
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, expandBuildSettings(line, lookup))
	}
	if err := scanner.Err(); err != nil {
		return nil, ConfigurationError("reading input file list %s: %w", path, err)
	}
	return paths, nil
}

// expandBuildSettings expands $(VAR), ${VAR} and $VAR references.
// Unknown variables expand to the empty string, as in Xcode.
func expandBuildSettings(s string, lookup LookupFunc) string {
	s = buildSettingRef.ReplaceAllString(s, "$${$1}")
	return os.Expand(s, func(key string) string {
		v, _ := lookup(key)
		return v
	})
}

// ReadEnvFile reads a dotenv file holding a captured build environment.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, ConfigurationError("reading env file %s: %w", path, err)
	}
	return values, nil
}

// OverlayLookup returns a LookupFunc that consults values first and falls
// back to fallback for keys values does not define.
func OverlayLookup(values map[string]string, fallback LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := values[key]; ok {
			return v, true
		}
		if fallback == nil {
			return "", false
		}
		return fallback(key)
	}
}
