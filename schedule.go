package fwdeploy

import "path/filepath"

// ShouldCopy reports whether artifact needs copying into dest.
// Release builds always copy. Other builds only copy artifacts that are not
// already present in dest; their content is not compared.
func ShouldCopy(dest, artifact string, release bool) bool {
	if release {
		return true
	}
	return !isDir(filepath.Join(dest, artifact))
}

// Schedule returns the artifacts that need copying, in their original order.
func Schedule(artifacts []string, dest string, release bool) []string {
	var scheduled []string
	for _, a := range artifacts {
		if ShouldCopy(dest, a, release) {
			scheduled = append(scheduled, a)
		}
	}
	return scheduled
}
