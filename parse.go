package fwdeploy

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultMarkers are the substrings that identify a path segment as a
// bundle reference.
var DefaultMarkers = []string{".framework", ".bundle"}

// BinaryPath returns the path of the executable inside an artifact bundle:
// sourceDir/Foo.framework/Foo.
func BinaryPath(sourceDir, artifact string) string {
	name := strings.TrimSuffix(artifact, filepath.Ext(artifact))
	return filepath.Join(sourceDir, artifact, name)
}

// ParseDependencies extracts the artifacts referenced in the output of
// `otool -L` that live in sourceDir, using DefaultMarkers.
func ParseDependencies(output, sourceDir string) []string {
	return ParseDependenciesWith(output, sourceDir, DefaultMarkers)
}

// ParseDependenciesWith extracts at most one artifact per output line.
//
// Each line is split on the path separator. The first segment that contains
// one of markers and names a directory inside sourceDir is the line's
// dependency; the rest of the line is ignored. System frameworks share the
// naming pattern but fail the directory check.
func ParseDependenciesWith(output, sourceDir string, markers []string) []string {
	var deps []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		for _, segment := range strings.Split(line, string(filepath.Separator)) {
			if !hasMarker(segment, markers) {
				continue
			}
			if isDir(filepath.Join(sourceDir, segment)) {
				deps = append(deps, segment)
				break
			}
		}
	}
	return deps
}

func hasMarker(segment string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(segment, m) {
			return true
		}
	}
	return false
}

// isDir returns true if path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
