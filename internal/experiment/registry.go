package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ljsim/internal/mc"
	"github.com/san-kum/ljsim/internal/md"
	"github.com/san-kum/ljsim/internal/metrics"
	"github.com/san-kum/ljsim/internal/random"
	"github.com/san-kum/ljsim/internal/sim"
)

// Engine is what the registry builds: a steppable run with a history.
type Engine interface {
	sim.Stepper
	Run(ctx context.Context, steps int) error
	Result() *sim.Result
}

// Factory builds an engine from run parameters. p.Topology may be nil when
// the engine can draw its own start.
type Factory func(p sim.Params, src random.Source, logger *log.Logger) (Engine, error)

type Registry struct {
	engines map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{engines: make(map[string]Factory)}

	r.engines["md"] = func(p sim.Params, src random.Source, logger *log.Logger) (Engine, error) {
		return md.New(p.Topology, p.SystemSize, md.Options{
			Epsilon:     p.Epsilon,
			Sigma:       p.Sigma,
			Temperature: p.Temperature,
			Random:      src,
			Logger:      logger,
		})
	}
	r.engines["mc"] = func(p sim.Params, src random.Source, logger *log.Logger) (Engine, error) {
		return mc.New(p, mc.Options{Random: src, Logger: logger})
	}

	return r
}

func (r *Registry) GetEngine(name string, p sim.Params, src random.Source, logger *log.Logger) (Engine, error) {
	fn, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s (available: %v)", name, r.ListEngines())
	}
	return fn(p, src, logger)
}

func (r *Registry) ListEngines() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(engine string) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewMeanPotential(),
		metrics.NewPotentialFluctuation(),
		metrics.NewStability(0),
	}
	switch engine {
	case "md":
		ms = append(ms, metrics.NewEnergyDrift())
	case "mc":
		ms = append(ms, metrics.NewAcceptanceRatio())
	}
	return ms
}
