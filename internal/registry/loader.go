package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llmbridge/internal/common/fsutil"
	"llmbridge/pkg/types"
)

// DefaultExtensions are the model file suffixes listed by NewScanner.
var DefaultExtensions = []string{".gguf", ".bin"}

// Scanner lists model files directly inside a models directory.
type Scanner struct {
	exts []string
}

// NewScanner returns a Scanner for DefaultExtensions.
func NewScanner(exts ...string) *Scanner {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	norm := make([]string, 0, len(exts))
	for _, e := range exts {
		norm = append(norm, strings.ToLower(e))
	}
	return &Scanner{exts: norm}
}

// Scan reads dir and returns one Model per matching file, sorted by ID.
// IDs are file names, which is also the relative path accepted by loadModel.
func (s *Scanner) Scan(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() || !s.match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		models = append(models, types.Model{
			ID:        name,
			Name:      strings.TrimSuffix(name, filepath.Ext(name)),
			SizeBytes: info.Size(),
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func (s *Scanner) match(name string) bool {
	lower := strings.ToLower(name)
	for _, e := range s.exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// LoadDir scans dir with the default extensions.
func LoadDir(dir string) ([]types.Model, error) {
	return NewScanner().Scan(dir)
}
