package stack

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/ragsql/pkg/dotdir"
)

// ResolvePath places a relative artifact path (interaction database, index
// base path) inside the .ragsql/ directory. Absolute paths, ":memory:" and
// paths that already exist relative to the working directory are kept.
func ResolvePath(configDir, p string) (string, error) {
	p = strings.TrimSpace(p)
	switch {
	case p == "", p == ":memory:", filepath.IsAbs(p):
		return p, nil
	case exists(p):
		return p, nil
	}

	return dotdir.NewManager().File(configDir, p)
}

// exists reports whether p, or any hnsw artifact with p as its base path,
// is present.
func exists(p string) bool {
	for _, candidate := range []string{p, p + ".hnsw", p + ".vec", p + ".ids"} {
		if _, err := os.Stat(candidate); err == nil {
			return true
		}
	}
	return false
}
