package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// RootEnv overrides the search for the project root.
const RootEnv = "PUFFS_TEST_ROOT"

// FindRoot returns the closest directory holding marker, starting at the
// working directory and walking up. A directory named by PUFFS_TEST_ROOT is
// used instead if it holds marker.
func FindRoot(marker string) (string, error) {
	if env := os.Getenv(RootEnv); env != "" {
		root, err := filepath.Abs(env)
		if err == nil && isFile(filepath.Join(root, marker)) {
			return root, nil
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "find root")
	}

	for dir := wd; ; {
		if isFile(filepath.Join(dir, marker)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("%s not found starting from %s", marker, wd)
		}

		dir = parent
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
