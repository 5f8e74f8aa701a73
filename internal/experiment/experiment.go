// Package experiment turns a run configuration into a running engine and
// collects its history and metrics.
package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/random"
	"github.com/san-kum/ljsim/internal/sim"
)

type Config struct {
	Engine string
	Steps  int
	Seed   int64 // 0 draws a fresh seed
	Init   string
	Params sim.Params
	Logger *log.Logger
}

// FromConfig maps a validated run file onto an experiment Config.
func FromConfig(c *config.Config, logger *log.Logger) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	top, err := c.TopologyConfiguration()
	if err != nil {
		return Config{}, err
	}
	p := c.SimParams()
	if top != nil {
		// An explicit topology sets the particle count.
		p.NParticles = len(top)
		p.Topology = top
	}
	return Config{
		Engine: c.Engine,
		Steps:  c.Steps,
		Seed:   c.Seed,
		Init:   c.Init,
		Params: p,
		Logger: logger,
	}, nil
}

type Experiment struct {
	cfg       Config
	seed      int64
	engine    Engine
	metrics   []sim.Metric
	observers []func(sim.Sample)
}

func New(cfg Config) *Experiment {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Experiment{cfg: cfg}
}

// Setup seeds the random source, builds the start topology and the engine.
func (e *Experiment) Setup(r *Registry, metrics []sim.Metric) error {
	e.seed = e.cfg.Seed
	if e.seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			return err
		}
		e.seed = s
	}
	rng := random.NewRNG(e.seed)

	p := e.cfg.Params
	if p.Topology == nil {
		top, err := e.initialTopology(rng)
		if err != nil {
			return err
		}
		p.Topology = top
	}

	eng, err := r.GetEngine(e.cfg.Engine, p, rng, e.cfg.Logger)
	if err != nil {
		return err
	}
	e.engine = eng
	e.metrics = metrics
	e.cfg.Logger.Info("experiment ready", "engine", e.cfg.Engine, "steps", e.cfg.Steps, "seed", e.seed)
	return nil
}

// The Monte Carlo sampler draws its own start when init is random.
func (e *Experiment) initialTopology(rng random.Source) (dynamo.Configuration, error) {
	p := e.cfg.Params
	switch e.cfg.Init {
	case config.InitRandom:
		if e.cfg.Engine == "mc" {
			return nil, nil
		}
		if p.NParticles <= 0 {
			return nil, &dynamo.ConfigurationError{Parameter: "nparticles"}
		}
		return RandomTopology(rng, p.NParticles, p.SystemSize), nil
	case config.InitLattice, "":
		if p.NParticles <= 0 {
			return nil, &dynamo.ConfigurationError{Parameter: "nparticles"}
		}
		return Lattice(p.NParticles, p.SystemSize)
	default:
		return nil, fmt.Errorf("%w: unknown init %q", dynamo.ErrInvalidArgument, e.cfg.Init)
	}
}

// AddObserver registers fn to be called with every sample Run produces.
func (e *Experiment) AddObserver(fn func(sim.Sample)) {
	e.observers = append(e.observers, fn)
}

// Engine returns the engine built by Setup.
func (e *Experiment) Engine() Engine { return e.engine }

// Seed is the seed actually used, valid after Setup.
func (e *Experiment) Seed() int64 { return e.seed }

func (e *Experiment) Config() Config { return e.cfg }

// Run executes the configured number of steps and returns the history with
// the final metric values. The context is checked between steps.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return e.Result(), &dynamo.SimulationError{Step: e.engine.StepsTaken(), Wrapped: ctx.Err()}
		default:
		}
		s, err := e.engine.Step()
		if err != nil {
			return e.Result(), &dynamo.SimulationError{Step: e.engine.StepsTaken(), Wrapped: err}
		}
		e.Observe(s)
	}

	return e.Result(), nil
}

// Observe feeds s to the metrics and observers. Run calls it for every step;
// callers that step Engine themselves call it directly.
func (e *Experiment) Observe(s sim.Sample) {
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, fn := range e.observers {
		fn(s)
	}
}

// Result is the engine history so far with the current metric values.
func (e *Experiment) Result() *sim.Result {
	res := e.engine.Result()
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
