// Package problem loads problem files: named points with coordinates, the
// premises to assume and the goals to prove.
//
// Problem files are TOML:
//
//	name = "thales"
//	premises = ["para a b m n", "para m n c d"]
//	goals = ["eqratio3 a b c d m n"]
//
//	[points]
//	a = [0.0, 0.0]
//	b = [2.0, 2.0]
//
// Statements use the surface grammar of [predicate.Parse]. Points are
// optional: without coordinates the numeric pre-filter is skipped.
package problem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ratiochase/pkg/cache"
	errs "github.com/matzehuels/ratiochase/pkg/errors"
	"github.com/matzehuels/ratiochase/pkg/numeric"
	"github.com/matzehuels/ratiochase/pkg/predicate"
	"github.com/matzehuels/ratiochase/pkg/quantity"
)

// Problem is a decoded problem file.
type Problem struct {
	Name     string               `toml:"name"`
	Premises []string             `toml:"premises"`
	Goals    []string             `toml:"goals"`
	Points   map[string][]float64 `toml:"points"`

	// Fingerprint is the SHA-256 of the file contents.
	Fingerprint string `toml:"-"`
}

// Load reads and validates a problem file. A missing name defaults to the
// file name without extension.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes and validates problem file contents.
func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidProblem, err, "decode problem")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Fingerprint = cache.Hash(data)
	return &p, nil
}

// Validate checks the shape of the problem. Statements are only checked by
// Statements, which needs a canonicalizer.
func (p *Problem) Validate() error {
	if len(p.Goals) == 0 {
		return errs.New(errs.ErrCodeInvalidProblem, "problem has no goals")
	}
	for name, xy := range p.Points {
		if err := errs.ValidatePointName(name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidProblem, err, "point %q", name)
		}
		if len(xy) != 2 {
			return errs.New(errs.ErrCodeInvalidProblem, "point %q needs 2 coordinates, got %d", name, len(xy))
		}
	}
	return nil
}

// Statements parses premises and goals with c. Errors name the offending
// entry.
func (p *Problem) Statements(c *predicate.Canonicalizer) (premises, goals []predicate.Statement, err error) {
	premises, err = parseAll(c, "premise", p.Premises)
	if err != nil {
		return nil, nil, err
	}
	goals, err = parseAll(c, "goal", p.Goals)
	if err != nil {
		return nil, nil, err
	}
	return premises, goals, nil
}

func parseAll(c *predicate.Canonicalizer, what string, texts []string) ([]predicate.Statement, error) {
	out := make([]predicate.Statement, 0, len(texts))
	for i, text := range texts {
		s, err := c.Parse(text)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "%s %d (%q)", what, i+1, text)
		}
		out = append(out, s)
	}
	return out, nil
}

// HasCoordinates reports whether the problem places any point.
func (p *Problem) HasCoordinates() bool { return len(p.Points) > 0 }

// Coordinates returns the point positions as a numeric validator.
func (p *Problem) Coordinates() numeric.Coordinates {
	c := make(numeric.Coordinates, len(p.Points))
	for name, xy := range p.Points {
		c[quantity.Point(name)] = numeric.Vec{X: xy[0], Y: xy[1]}
	}
	return c
}
