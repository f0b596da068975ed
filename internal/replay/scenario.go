package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op names a scenario step.
type Op string

const (
	OpInsert Op = "insert"
	OpErase  Op = "erase"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpSize   Op = "size"
	OpCount  Op = "count"
	OpFind   Op = "find"
	OpNearby Op = "nearby"
	OpAround Op = "around"
)

// Scenario is a scripted sequence of index operations with inline expectations.
type Scenario struct {
	Name         string `json:"name" yaml:"name"`
	CellSize     int    `json:"cell_size,omitempty" yaml:"cell_size,omitempty"`
	Steps        []Step `json:"steps" yaml:"steps"`
	ExpectDigest string `json:"expect_digest,omitempty" yaml:"expect_digest,omitempty"`
}

// Step is one operation. At holds up to three coordinates; missing ones are 0.
// Expect is a count for size and count, 1 or 0 for find, and a result size
// for nearby and around.
type Step struct {
	Op        Op       `json:"op" yaml:"op"`
	Elem      string   `json:"elem,omitempty" yaml:"elem,omitempty"`
	At        []int    `json:"at,omitempty" yaml:"at,omitempty"`
	Radius    *int     `json:"radius,omitempty" yaml:"radius,omitempty"`
	Expect    *int     `json:"expect,omitempty" yaml:"expect,omitempty"`
	ExpectSet []string `json:"expect_set,omitempty" yaml:"expect_set,omitempty"`
}

// Point returns the step position with missing coordinates defaulted to 0.
func (s Step) Point() (x, y, z int, err error) {
	if len(s.At) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: %s takes at most 3 coordinates, got %d", ErrInvalidStep, s.Op, len(s.At))
	}
	var p [3]int
	copy(p[:], s.At)
	return p[0], p[1], p[2], nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpInsert, OpErase, OpCount, OpRemove:
		if s.Elem == "" {
			return fmt.Errorf("%w: %s requires elem", ErrInvalidStep, s.Op)
		}
	case OpClear, OpSize, OpFind, OpNearby, OpAround:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	if s.Radius != nil && *s.Radius < 0 {
		return fmt.Errorf("%w: radius must not be negative", ErrInvalidStep)
	}
	_, _, _, err := s.Point()
	return err
}

// Validate checks every step before anything is executed.
func (sc *Scenario) Validate() error {
	if sc.CellSize < 0 {
		return fmt.Errorf("%w: cell_size must not be negative", ErrInvalidStep)
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// LoadJSON loads a scenario from JSON reader.
func LoadJSON(r io.Reader) (*Scenario, error) {
	var sc Scenario
	if err := json.NewDecoder(r).Decode(&sc); err != nil {
		return nil, err
	}
	return &sc, sc.Validate()
}

// LoadYAML loads a scenario from YAML reader.
func LoadYAML(r io.Reader) (*Scenario, error) {
	var sc Scenario
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, err
	}
	return &sc, sc.Validate()
}

// LoadFile picks the decoder by extension and names unnamed scenarios after the file.
func LoadFile(path string) (*Scenario, error) {
	var decode func(io.Reader) (*Scenario, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = LoadJSON
	case ".yaml", ".yml":
		decode = LoadYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}
