// File path: internal/cache/localscan.go
package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var conventionalInstallPaths = []string{
	"/opt/hfs",
	"/usr/local/Houdini",
	"C:\\Program Files\\Side Effects Software",
}

var systemHints = []struct {
	needles []string
	system  string
}{
	{[]string{"pyro", "fire", "smoke"}, "pyro"},
	{[]string{"rbd", "fracture", "bullet"}, "rbd"},
	{[]string{"flip", "fluid", "ocean"}, "flip"},
	{[]string{"vellum", "cloth", "hair"}, "vellum"},
}

// ScanLocalInstall walks a Houdini installation candidate path, returning
// one Entry per file whose name ends in .hip or .hipnc. Matched files are
// referenced in place: no copy is made into the cache directory.
func (m *Manager) ScanLocalInstall() ([]Entry, error) {
	roots := m.installRoots()
	var entries []Entry
	seen := make(map[string]bool)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !isHipFileName(d.Name()) {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			hash, hashErr := hashFile(path)
			if hashErr != nil {
				return nil
			}
			info, statErr := d.Info()
			var size int64
			modTime := time.Now().UTC()
			if statErr == nil {
				size = info.Size()
				modTime = info.ModTime()
			}
			entries = append(entries, Entry{
				Hash:             hash,
				LocalPath:        path,
				Source:           SourceLocalInstall,
				OriginalFilename: d.Name(),
				Size:             size,
				DownloadedAt:     modTime,
				Systems:          inferSystems(path),
			})
			return nil
		})
		if err != nil {
			return entries, err
		}
	}
	return entries, nil
}

func (m *Manager) installRoots() []string {
	var roots []string
	if strings.TrimSpace(m.cfg.InstallPath) != "" {
		roots = append(roots, m.cfg.InstallPath)
	}
	roots = append(roots, m.cfg.VersionDirs...)
	if len(roots) == 0 {
		roots = append(roots, conventionalInstallPaths...)
	}
	return roots
}

func isHipFileName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".hip") || strings.HasSuffix(lower, ".hipnc")
}

// inferSystems matches substrings of a path against known simulation-system
// vocabulary, returning every system whose vocabulary matched.
func inferSystems(path string) []string {
	lower := strings.ToLower(path)
	var systems []string
	for _, hint := range systemHints {
		for _, needle := range hint.needles {
			if strings.Contains(lower, needle) {
				systems = append(systems, hint.system)
				break
			}
		}
	}
	return systems
}

