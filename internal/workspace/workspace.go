package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Recreate deletes dir with everything below it and creates it again empty.
// Parent directories are created as needed.
func Recreate(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// Stem returns the base name of path up to its first dot, so
// "scan_01.thresh.png" and "scan_01.png" both map to "scan_01".
func Stem(path string) string {
	name := filepath.Base(path)
	stem, _, _ := strings.Cut(name, ".")
	return stem
}

// Sources lists the regular files directly inside dir whose names end with
// suffix, sorted by name. Subdirectories are not descended into.
func Sources(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Folder is one page subfolder of an output root and the files it contains.
type Folder struct {
	// Name is the subfolder name, the stem of the source page.
	Name string

	// Path is the full subfolder path.
	Path string

	// Files are the file names inside the folder, in numeric order for
	// numbered artifacts ("2.png" before "10.png") and lexical order otherwise.
	Files []string
}

// Folders lists the subfolders of root and their files, sorted by name.
// Files directly inside root are ignored.
func Folders(root string) ([]Folder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var folders []Folder
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name())
		files, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", path, err)
		}

		folder := Folder{Name: e.Name(), Path: path}
		for _, f := range files {
			if !f.IsDir() {
				folder.Files = append(folder.Files, f.Name())
			}
		}
		sort.Slice(folder.Files, func(i, j int) bool {
			return lessArtifact(folder.Files[i], folder.Files[j])
		})
		folders = append(folders, folder)
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// lessArtifact orders numbered names numerically and falls back to lexical order.
func lessArtifact(a, b string) bool {
	na, okA := artifactNumber(a)
	nb, okB := artifactNumber(b)
	switch {
	case okA && okB && na != nb:
		return na < nb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

func artifactNumber(name string) (int, bool) {
	stem := Stem(name)
	if stem == "" || stem[0] == '+' || stem[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return n, true
}
