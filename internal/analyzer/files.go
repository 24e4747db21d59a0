package analyzer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludes are directory names never descended into
var defaultExcludes = []string{"vendor", "testdata", "node_modules"}

// DiscoverFiles returns the Go source files under root in lexical order.
// root may also name a single file. Hidden directories, the default
// excludes and any directory named in exclude are skipped.
func DiscoverFiles(root string, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filepath.Ext(root) != ".go" {
			return nil, fmt.Errorf("not a Go source file: %s", root)
		}
		return []string{root}, nil
	}

	skip := make(map[string]bool)
	for _, name := range append(defaultExcludes, exclude...) {
		if name = strings.TrimSpace(name); name != "" {
			skip[name] = true
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (skip[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) == ".go" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
