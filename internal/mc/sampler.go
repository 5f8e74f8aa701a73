// Package mc implements Metropolis Monte Carlo sampling of Lennard-Jones
// particles in a cubic periodic box.
//
// Every trial is an independent full resample of the configuration, not a
// local displacement of the previous one.
package mc

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/potential"
	"github.com/san-kum/ljsim/internal/random"
	"github.com/san-kum/ljsim/internal/sim"
	"github.com/san-kum/ljsim/internal/units"
)

type Options struct {
	Random random.Source
	Logger *log.Logger
}

type Sampler struct {
	params  sim.Resolved
	lj      potential.LennardJones
	gasR    float64
	rng     random.Source
	logger  *log.Logger
	state   sim.MCState
	history sim.MCHistory
	step    int
}

// New validates p eagerly. Epsilon, sigma and temperature have no defaults.
func New(p sim.Params, opts Options) (*Sampler, error) {
	resolved, err := p.Resolve(sim.Defaults{})
	if err != nil {
		return nil, fmt.Errorf("mc: %w", err)
	}

	rng := opts.Random
	if rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("mc: %w", err)
		}
		rng = random.NewRNG(seed)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Sampler{
		params: resolved,
		lj:     potential.New(resolved.Epsilon, resolved.Sigma),
		gasR:   units.GasConstant,
		rng:    rng,
		logger: logger,
		state:  sim.MCState{PAccept: 1},
	}

	logger.Info("mc sampler ready",
		"particles", resolved.NParticles,
		"box", resolved.SystemSize,
		"epsilon", resolved.Epsilon,
		"sigma", resolved.Sigma,
		"temperature", resolved.Temperature,
	)
	return s, nil
}

func (s *Sampler) Params() sim.Resolved { return s.params }

func (s *Sampler) StepsTaken() int { return s.step }

func (s *Sampler) Accept() bool { return s.state.Accept }

func (s *Sampler) PAccept() float64 { return s.state.PAccept }

// State returns a copy of the Metropolis bookkeeping.
func (s *Sampler) State() sim.MCState {
	st := s.state
	st.LastPosition = st.LastPosition.Clone()
	return st
}

// NewPositions draws a fresh N×3 configuration uniformly in [0, L).
func (s *Sampler) NewPositions() dynamo.Configuration {
	return random.UniformConfiguration(s.rng, s.params.NParticles, 0, s.params.SystemSize)
}

// PotentialEnergy is the switched LJ energy of c under periodic wrapping.
func (s *Sampler) PotentialEnergy(c dynamo.Configuration) float64 {
	return s.lj.PotentialEnergy(c, s.params.SystemSize)
}

// Possibility is exp(-(eNew - eOld)/(R*T)).
func (s *Sampler) Possibility(eOld, eNew float64) float64 {
	return math.Exp(-(eNew - eOld) / (s.gasR * s.params.Temperature))
}

// DecisionMaker applies the Metropolis criterion and records the outcome on
// the sampler state. A lower energy is always accepted without a draw.
// History is not touched.
func (s *Sampler) DecisionMaker(eOld, eNew float64) bool {
	if eOld > eNew {
		s.state.PAccept = 1
		s.state.Accept = true
		return true
	}
	s.state.PAccept = s.Possibility(eOld, eNew)
	u := random.Uniform(s.rng, 0, 1)
	s.state.Accept = u < s.state.PAccept
	return s.state.Accept
}

// Step runs one Monte Carlo step. Step 0 records the starting configuration
// (the topology when given, otherwise a fresh draw); later steps propose a
// full resample and keep it if DecisionMaker accepts.
func (s *Sampler) Step() (sim.Sample, error) {
	if s.step == 0 {
		start := s.params.Topology
		if start == nil {
			start = s.NewPositions()
		}
		s.state.LastPosition = start.Clone()
		s.state.LastEnergy = s.PotentialEnergy(start)
		s.state.Accept = true
	} else {
		trial := s.NewPositions()
		eTrial := s.PotentialEnergy(trial)
		if s.DecisionMaker(s.state.LastEnergy, eTrial) {
			s.state.LastPosition = trial
			s.state.LastEnergy = eTrial
		}
	}

	s.history.Append(sim.MCRecord{
		Position: s.state.LastPosition,
		Energy:   s.state.LastEnergy,
		Accept:   s.state.Accept,
	})

	sample := sim.Sample{
		Step:      s.step,
		Position:  s.state.LastPosition.Clone(),
		Potential: s.state.LastEnergy,
		Accept:    s.state.Accept,
	}
	s.logger.Debug("mc step", "step", s.step, "energy", s.state.LastEnergy, "accept", s.state.Accept, "p", s.state.PAccept)
	s.step++
	return sample, nil
}

// Run executes exactly steps steps. The context is checked between steps.
func (s *Sampler) Run(ctx context.Context, steps int) error {
	if steps < 0 {
		return fmt.Errorf("mc: steps must be non-negative, got %d", steps)
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Step: s.step, Wrapped: ctx.Err()}
		default:
		}
		if _, err := s.Step(); err != nil {
			return &dynamo.SimulationError{Step: s.step, Wrapped: err}
		}
	}
	s.logger.Info("mc run finished", "steps", s.step)
	return nil
}

func (s *Sampler) Trajectories() []dynamo.Configuration { return s.history.Trajectories() }

func (s *Sampler) PotentialEnergies() []float64 { return s.history.PotentialEnergies() }

func (s *Sampler) Accepted() []bool { return s.history.Accepted() }

// Result snapshots the history collected so far.
func (s *Sampler) Result() *sim.Result {
	return &sim.Result{
		Engine:       "mc",
		Potential:    s.history.PotentialEnergies(),
		Kinetic:      make([]float64, s.history.Len()),
		Accepted:     s.history.Accepted(),
		Trajectories: s.history.Trajectories(),
		Metrics:      make(map[string]float64),
		StepsTaken:   s.step,
	}
}
