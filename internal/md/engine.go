// Package md runs velocity-Verlet molecular dynamics of Lennard-Jones
// particles in a cubic periodic box.
//
// The first step bootstraps the run from the input topology and a random (or
// supplied) initial velocity; every later step advances position, force and
// velocity with the velocity-Verlet rules and appends the result to the
// engine's history. Non-finite values are not checked for and propagate into
// the history unchanged.
package md

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/integrators"
	"github.com/san-kum/ljsim/internal/potential"
	"github.com/san-kum/ljsim/internal/random"
	"github.com/san-kum/ljsim/internal/sim"
	"github.com/san-kum/ljsim/internal/units"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultEpsilon       = 0.238   // kcal/mol
	DefaultSigma         = 3.4     // angstrom
	DefaultTemperature   = 298.0   // kelvin
	DefaultTimestep      = 2.5e-15 // second
	DefaultMassDaltons   = 39.9
	InitialVelocityNoise = 0.1
)

// Options tunes an Engine. Zero values select the documented defaults.
type Options struct {
	Epsilon     any
	Sigma       any
	Temperature any

	// InitialVelocities replaces the uniform noise drawn for step 0.
	InitialVelocities dynamo.Configuration

	Random random.Source
	Logger *log.Logger
}

type Engine struct {
	params  sim.Resolved
	lj      potential.LennardJones
	verlet  *integrators.VelocityVerlet
	mass    float64
	rng     random.Source
	logger  *log.Logger
	history sim.MDHistory

	initialVelocity dynamo.Configuration

	step         int
	lastPosition dynamo.Configuration
	lastVelocity dynamo.Configuration
	lastForce    dynamo.Configuration
}

// New builds an engine for topology in a box of edge systemSize (angstrom).
func New(topology dynamo.Configuration, systemSize float64, opts Options) (*Engine, error) {
	if topology == nil {
		return nil, &dynamo.ConfigurationError{Parameter: "topology"}
	}

	p := sim.Params{
		Epsilon:     opts.Epsilon,
		Sigma:       opts.Sigma,
		Temperature: opts.Temperature,
		SystemSize:  systemSize,
		Topology:    topology,
	}
	resolved, err := p.Resolve(sim.Defaults{
		Epsilon:     units.Q(DefaultEpsilon, "kcal/mol"),
		Sigma:       units.Q(DefaultSigma, "angstrom"),
		Temperature: units.Q(DefaultTemperature, "K"),
	})
	if err != nil {
		return nil, fmt.Errorf("md: %w", err)
	}

	if opts.InitialVelocities != nil && len(opts.InitialVelocities) != resolved.NParticles {
		return nil, fmt.Errorf("md: initial velocities have %d rows for %d particles: %w",
			len(opts.InitialVelocities), resolved.NParticles, dynamo.ErrDimensionMismatch)
	}

	mass, err := units.Convert(units.Q(DefaultMassDaltons, "Da"), units.Mass)
	if err != nil {
		return nil, fmt.Errorf("md: %w", err)
	}

	rng := opts.Random
	if rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("md: %w", err)
		}
		rng = random.NewRNG(seed)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		params: resolved,
		lj:     potential.New(resolved.Epsilon, resolved.Sigma),
		verlet: integrators.NewVelocityVerlet(DefaultTimestep, mass, resolved.SystemSize),
		mass:   mass,
		rng:    rng,
		logger: logger,
	}
	if opts.InitialVelocities != nil {
		e.initialVelocity = opts.InitialVelocities.Clone()
	}

	logger.Info("md engine ready",
		"particles", resolved.NParticles,
		"box", resolved.SystemSize,
		"epsilon", resolved.Epsilon,
		"sigma", resolved.Sigma,
		"temperature", resolved.Temperature,
		"dt", DefaultTimestep,
	)
	return e, nil
}

func (e *Engine) Params() sim.Resolved { return e.params }

func (e *Engine) Mass() float64 { return e.mass }

func (e *Engine) Timestep() float64 { return e.verlet.Dt }

func (e *Engine) StepsTaken() int { return e.step }

// CalcPotentialEnergy is the switched LJ energy of c under periodic wrapping.
func (e *Engine) CalcPotentialEnergy(c dynamo.Configuration) float64 {
	return e.lj.PotentialEnergy(c, e.params.SystemSize)
}

// CalcForceTensor is the N×N pairwise force tensor of c.
func (e *Engine) CalcForceTensor(c dynamo.Configuration) [][]dynamo.Vec3 {
	return e.lj.ForceTensor(c)
}

// CalcForce is the net force on every particle of c.
func (e *Engine) CalcForce(c dynamo.Configuration) dynamo.Configuration {
	return potential.NetForces(e.lj.ForceTensor(c))
}

// CalcKineticEnergy is 0.5*m*sum(|v|^2) over all particles.
func (e *Engine) CalcKineticEnergy(v dynamo.Configuration) float64 {
	flat := v.Flat()
	return 0.5 * e.mass * floats.Dot(flat, flat)
}

// Step advances the run by one step and appends it to the history.
func (e *Engine) Step() (sim.Sample, error) {
	var rec sim.MDRecord
	if e.step == 0 {
		rec = e.bootstrap()
	} else {
		rec = e.advance()
	}
	e.history.Append(rec)

	s := sim.Sample{
		Step:      e.step,
		Position:  rec.Position.Clone(),
		Potential: rec.Potential,
		Kinetic:   rec.Kinetic,
		Accept:    true,
	}
	e.logger.Debug("md step", "step", e.step, "potential", rec.Potential, "kinetic", rec.Kinetic)
	e.step++
	return s, nil
}

func (e *Engine) bootstrap() sim.MDRecord {
	position := e.params.Topology.Clone()
	velocity := e.initialVelocity
	if velocity == nil {
		velocity = random.UniformConfiguration(e.rng, e.params.NParticles, -InitialVelocityNoise, InitialVelocityNoise)
	}

	kinetic := e.CalcKineticEnergy(velocity)
	pot := e.CalcPotentialEnergy(position)
	force := e.CalcForce(position)
	// No earlier force exists, so the half kicks both use the current one.
	velocity = e.verlet.Velocity(velocity, force, force)

	e.lastPosition = position
	e.lastVelocity = velocity
	e.lastForce = force

	return sim.MDRecord{Position: position, Velocity: velocity, Potential: pot, Kinetic: kinetic}
}

func (e *Engine) advance() sim.MDRecord {
	position := e.verlet.Position(e.lastPosition, e.lastVelocity, e.lastForce)
	pot := e.CalcPotentialEnergy(position)
	force := e.CalcForce(position)
	velocity := e.verlet.Velocity(e.lastVelocity, e.lastForce, force)
	kinetic := e.CalcKineticEnergy(velocity)

	e.lastPosition = position
	e.lastVelocity = velocity
	e.lastForce = force

	return sim.MDRecord{Position: position, Velocity: velocity, Potential: pot, Kinetic: kinetic}
}

// Run executes exactly steps steps. The context is checked between steps.
func (e *Engine) Run(ctx context.Context, steps int) error {
	if steps < 0 {
		return fmt.Errorf("md: steps must be non-negative, got %d", steps)
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Step: e.step, Wrapped: ctx.Err()}
		default:
		}
		if _, err := e.Step(); err != nil {
			return &dynamo.SimulationError{Step: e.step, Wrapped: err}
		}
	}
	e.logger.Info("md run finished", "steps", e.step)
	return nil
}

func (e *Engine) Trajectories() []dynamo.Configuration { return e.history.Trajectories() }

func (e *Engine) Velocities() []dynamo.Configuration { return e.history.Velocities() }

func (e *Engine) PotentialEnergies() []float64 { return e.history.PotentialEnergies() }

func (e *Engine) KineticEnergies() []float64 { return e.history.KineticEnergies() }

// Result snapshots the history collected so far.
func (e *Engine) Result() *sim.Result {
	return &sim.Result{
		Engine:       "md",
		Potential:    e.history.PotentialEnergies(),
		Kinetic:      e.history.KineticEnergies(),
		Trajectories: e.history.Trajectories(),
		Velocities:   e.history.Velocities(),
		Metrics:      make(map[string]float64),
		StepsTaken:   e.step,
	}
}
