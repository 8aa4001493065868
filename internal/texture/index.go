package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths.
// PNG wins over other formats for the same stem (lossless, keeps alpha).
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for supported image files.
// Files the codec writes itself (backups and quality variants) are skipped.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExt[ext] {
			return nil
		}
		s := strings.ToLower(stem(path))
		if IsGenerated(s) {
			return nil
		}

		existing, exists := idx.entries[s]
		if !exists {
			idx.entries[s] = path
		} else if ext == ".png" && strings.ToLower(filepath.Ext(existing)) != ".png" {
			idx.entries[s] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	// Strip path prefix (e.g., "textures\\wall.jpg" → "wall")
	texName = strings.ReplaceAll(texName, "\\", "/")
	s := strings.ToLower(stem(texName))

	path, ok := idx.entries[s]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// IsGenerated reports whether a file stem follows the backup or quality
// variant naming convention.
func IsGenerated(s string) bool {
	s = strings.ToLower(s)
	if strings.HasSuffix(s, "_original") {
		return true
	}
	i := strings.LastIndex(s, "_quality_")
	if i < 0 {
		return false
	}
	digits := s[i+len("_quality_"):]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
