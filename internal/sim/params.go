// Package sim holds the state each engine owns during a run: resolved
// physical parameters, the Metropolis bookkeeping and the append-only
// trajectory histories.
package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/units"
)

// Params is the caller-supplied parameter set. Epsilon, Sigma and
// Temperature take a units.Quantity, a plain number in the internal unit or a
// "<value> <unit>" string; nil means unset.
type Params struct {
	Epsilon     any
	Sigma       any
	Temperature any
	SystemSize  float64
	NParticles  int
	Topology    dynamo.Configuration
}

// Defaults fills unset parameters. A nil field makes that parameter required.
type Defaults struct {
	Epsilon     any
	Sigma       any
	Temperature any
}

// Resolved holds parameters as magnitudes in kcal/mol, angstrom and kelvin.
type Resolved struct {
	Epsilon     float64
	Sigma       float64
	Temperature float64
	SystemSize  float64
	NParticles  int
	Topology    dynamo.Configuration
}

// Resolve validates p eagerly and converts it to internal units.
func (p Params) Resolve(d Defaults) (Resolved, error) {
	var r Resolved
	var err error

	if r.Epsilon, err = resolveOne("epsilon", p.Epsilon, d.Epsilon, units.Energy); err != nil {
		return Resolved{}, err
	}
	if r.Sigma, err = resolveOne("sigma", p.Sigma, d.Sigma, units.Length); err != nil {
		return Resolved{}, err
	}
	if r.Temperature, err = resolveOne("temperature", p.Temperature, d.Temperature, units.Temperature); err != nil {
		return Resolved{}, err
	}

	if r.Sigma <= 0 {
		return Resolved{}, fmt.Errorf("%w: sigma must be positive, got %g", dynamo.ErrInvalidArgument, r.Sigma)
	}
	if r.Temperature <= 0 {
		return Resolved{}, fmt.Errorf("%w: temperature must be positive, got %g", dynamo.ErrInvalidArgument, r.Temperature)
	}

	switch {
	case p.SystemSize == 0:
		return Resolved{}, &dynamo.ConfigurationError{Parameter: "system_size"}
	case p.SystemSize < 0:
		return Resolved{}, fmt.Errorf("%w: system_size must be positive, got %g", dynamo.ErrInvalidArgument, p.SystemSize)
	}
	r.SystemSize = p.SystemSize

	r.NParticles = p.NParticles
	if p.Topology != nil {
		if p.NParticles != 0 && p.NParticles != len(p.Topology) {
			return Resolved{}, fmt.Errorf("%w: nparticles is %d but topology has %d rows",
				dynamo.ErrDimensionMismatch, p.NParticles, len(p.Topology))
		}
		if !p.Topology.IsValid() {
			return Resolved{}, fmt.Errorf("topology: %w", dynamo.ErrInvalidState)
		}
		r.NParticles = len(p.Topology)
		r.Topology = p.Topology.Clone()
	}
	if r.NParticles <= 0 {
		return Resolved{}, &dynamo.ConfigurationError{Parameter: "nparticles"}
	}

	return r, nil
}

func resolveOne(name string, v, def any, dim units.Dimension) (float64, error) {
	if v == nil {
		v = def
	}
	f, err := units.Resolve(v, dim)
	if errors.Is(err, dynamo.ErrParameterUnset) {
		return 0, &dynamo.ConfigurationError{Parameter: name}
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}
