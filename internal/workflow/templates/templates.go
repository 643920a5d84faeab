// Package templates holds the canned content the simulated AI draws from.
//
// The built-in pool is embedded at compile time. A user pool can replace it
// through the templates_file config option; it must define the same keys.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/stepflow/internal/log"
)

//go:embed pool.yaml
var builtinPool []byte

// Template is a title/description/reasoning triple used to build a step.
type Template struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Reasoning   string `yaml:"reasoning"`
}

// Source indicates where a pool came from.
type Source int

const (
	// SourceBuiltIn is the embedded pool.
	SourceBuiltIn Source = iota
	// SourceUser is a pool loaded from templates_file.
	SourceUser
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Pool is the complete set of canned content.
type Pool struct {
	Templates    []Template `yaml:"templates"`
	Tools        []string   `yaml:"tools"`
	Agents       []string   `yaml:"agents"`
	Improvements []string   `yaml:"improvements"`
	RevisionNote string     `yaml:"revision_note"`
	Examples     []string   `yaml:"examples"`

	Source Source `yaml:"-"`
	Path   string `yaml:"-"`
}

// Limits on the number of templates a generated workflow uses.
const (
	MinSteps = 3
	MaxSteps = 6
)

// Builtin returns the embedded pool. It panics if the embedded file is
// invalid, which is a build defect.
func Builtin() Pool {
	p, err := Parse(builtinPool)
	if err != nil {
		panic(fmt.Sprintf("embedded template pool is invalid: %v", err))
	}
	p.Source = SourceBuiltIn
	return p
}

// Parse decodes and validates a pool.
func Parse(data []byte) (Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pool{}, fmt.Errorf("parsing template pool: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Pool{}, err
	}
	return p, nil
}

// LoadFile reads a user pool from path.
func LoadFile(path string) (Pool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return Pool{}, fmt.Errorf("reading template pool: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Pool{}, fmt.Errorf("%s: %w", path, err)
	}
	p.Source = SourceUser
	p.Path = path
	return p, nil
}

// Load returns the user pool at path, or the built-in pool when path is
// empty. A broken user pool is logged and the built-in pool is used.
func Load(path string) Pool {
	if path == "" {
		return Builtin()
	}
	p, err := LoadFile(path)
	if err != nil {
		log.Warn(log.CatConfig, "falling back to built-in template pool", "path", path, "error", err.Error())
		return Builtin()
	}
	log.Info(log.CatConfig, "loaded user template pool", "path", path, "templates", len(p.Templates))
	return p
}

// Validate checks the pool has enough content to generate a workflow.
func (p Pool) Validate() error {
	var errs []error
	if len(p.Templates) < MinSteps {
		errs = append(errs, fmt.Errorf("need at least %d templates, got %d", MinSteps, len(p.Templates)))
	}
	for i, t := range p.Templates {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("template %d: title is required", i))
		}
	}
	if len(p.Tools) == 0 {
		errs = append(errs, errors.New("tools must not be empty"))
	}
	if len(p.Agents) == 0 {
		errs = append(errs, errors.New("agents must not be empty"))
	}
	if len(p.Improvements) == 0 {
		errs = append(errs, errors.New("improvements must not be empty"))
	}
	return errors.Join(errs...)
}
