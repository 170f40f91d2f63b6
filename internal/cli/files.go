package cli

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// defaultFilePattern is used when no files are given on the command line.
const defaultFilePattern = "build/libs/*.jar"

// excludedSuffixes mark jars that are build by-products rather than the
// mod itself.
var excludedSuffixes = []string{"-sources", "-dev", "-javadoc", "-all-sources"}

// expandFiles resolves command-line file arguments. Arguments may be glob
// patterns; order is kept and duplicates are dropped. Without arguments
// the default Gradle output directory is searched and by-product jars are
// skipped.
func expandFiles(args []string) ([]publish.File, error) {
	patterns := args
	defaulted := len(args) == 0
	if defaulted {
		patterns = []string{defaultFilePattern}
	}

	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad file pattern %q", pattern)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			// Plain paths are kept so validation reports them as missing.
			matches = []string{pattern}
		}
		slices.Sort(matches)
		for _, m := range matches {
			if defaulted && isByProduct(m) {
				continue
			}
			if !slices.Contains(paths, m) {
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no files to publish (searched %s)", strings.Join(patterns, ", "))
	}

	files := make([]publish.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, publish.NewFile(p))
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}

func isByProduct(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, s := range excludedSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
