// Package scan enumerates candidate media files on disk. The batch
// selector treats its output as already-filtered input.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeremym/clipsample/internal/types"
)

// Candidates walks root and returns the files whose base name matches
// pattern (case-insensitive, filepath.Match syntax). With recursive set
// to false only the top level of root is considered. Results are sorted
// by path so the random selection is the only source of run-to-run
// variation.
func Candidates(root, pattern string, recursive bool) ([]types.SourceItem, error) {
	root = filepath.Clean(root)
	var items []types.SourceItem
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(pattern, strings.ToLower(d.Name()))
		if err != nil {
			return err
		}
		if ok {
			items = append(items, types.SourceItem{Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// Entries lists the names of regular files directly under dir, in
// directory order (sorted by os.ReadDir).
func Entries(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		if de.Type().IsRegular() {
			names = append(names, de.Name())
		}
	}
	return names, nil
}
