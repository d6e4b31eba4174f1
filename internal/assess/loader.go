package assess

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading marking schemes from the filesystem.
type Loader struct {
	SchemeDir string
}

func NewLoader(dir string) *Loader {
	return &Loader{SchemeDir: dir}
}

// LoadScheme loads a single scheme by ID (filename without extension).
func (l *Loader) LoadScheme(id string) (*Scheme, error) {
	path := filepath.Join(l.SchemeDir, id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme file: %w", err)
	}

	var s Scheme
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scheme yaml: %w", err)
	}

	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}

// ListSchemes returns all loadable schemes, skipping invalid files.
func (l *Loader) ListSchemes() ([]*Scheme, error) {
	files, err := os.ReadDir(l.SchemeDir)
	if err != nil {
		return nil, err
	}

	var schemes []*Scheme
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".yaml" {
			continue
		}
		id := f.Name()[0 : len(f.Name())-len(".yaml")]
		s, err := l.LoadScheme(id)
		if err != nil {
			continue
		}
		schemes = append(schemes, s)
	}
	return schemes, nil
}
