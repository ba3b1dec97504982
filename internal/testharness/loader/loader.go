package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseScenario parses and checks one scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := sc.check(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) check() error {
	if sc.ID == "" {
		return &LoadError{Message: "scenario ID is required"}
	}
	if len(sc.Steps) == 0 {
		return &LoadError{Message: fmt.Sprintf("scenario %s has no steps", sc.ID)}
	}
	for i, st := range sc.Steps {
		if st.Action == "" {
			return &LoadError{Message: fmt.Sprintf("scenario %s: step %d has no action", sc.ID, i+1)}
		}
	}
	return nil
}

// LoadScenario loads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	sc, err := ParseScenario(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return sc, nil
}

// LoadDirectory loads the .yaml and .yml files of dir, without descending
// into subdirectories. Scenarios are returned ordered by ID, and IDs must
// be unique.
func LoadDirectory(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}

	var out []*Scenario
	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := files[sc.ID]; dup {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("scenario %s already defined in %s", sc.ID, prev)}
		}
		files[sc.ID] = path
		out = append(out, sc)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FilterByTag returns the scenarios carrying tag. An empty tag matches all.
func FilterByTag(scenarios []*Scenario, tag string) []*Scenario {
	if tag == "" {
		return scenarios
	}
	var out []*Scenario
	for _, sc := range scenarios {
		if slices.Contains(sc.Tags, tag) {
			out = append(out, sc)
		}
	}
	return out
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
