package canon

import "path/filepath"

// evalSymlinks resolves symlinks and requires the path to exist on disk,
// matching the canonicalization contract used throughout the pipeline.
func evalSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}
