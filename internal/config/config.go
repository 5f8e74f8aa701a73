package config

import (
	"fmt"
	"os"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEngine      = "md"
	DefaultSteps       = 100
	DefaultSystemSize  = 20.0
	DefaultNParticles  = 8
	DefaultInit        = InitLattice
	DefaultEpsilon     = "0.238 kcal/mol"
	DefaultSigma       = "3.4 angstrom"
	DefaultTemperature = "298 K"
)

const (
	InitLattice = "lattice"
	InitRandom  = "random"
)

type Config struct {
	Engine     string      `yaml:"engine"`
	Steps      int         `yaml:"steps"`
	Seed       int64       `yaml:"seed"`
	SystemSize float64     `yaml:"system_size"`
	NParticles int         `yaml:"nparticles"`
	Init       string      `yaml:"init"`
	Topology   [][]float64 `yaml:"topology,omitempty"`
	Params     ParamConfig `yaml:"params"`
}

// ParamConfig holds LJ parameters as "<value> <unit>" strings. An empty
// string leaves the parameter unset.
type ParamConfig struct {
	Epsilon     string `yaml:"epsilon,omitempty"`
	Sigma       string `yaml:"sigma,omitempty"`
	Temperature string `yaml:"temperature,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:     DefaultEngine,
		Steps:      DefaultSteps,
		SystemSize: DefaultSystemSize,
		NParticles: DefaultNParticles,
		Init:       DefaultInit,
		Params: ParamConfig{
			Epsilon:     DefaultEpsilon,
			Sigma:       DefaultSigma,
			Temperature: DefaultTemperature,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field that cannot describe a run.
func (c *Config) Validate() error {
	switch c.Engine {
	case "mc", "md":
	default:
		return fmt.Errorf("engine: %w: unknown engine %q", dynamo.ErrInvalidArgument, c.Engine)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps: %w: must be non-negative, got %d", dynamo.ErrInvalidArgument, c.Steps)
	}
	if c.SystemSize <= 0 {
		return fmt.Errorf("system_size: %w: must be positive, got %g", dynamo.ErrInvalidArgument, c.SystemSize)
	}
	if len(c.Topology) > 0 {
		if _, err := c.TopologyConfiguration(); err != nil {
			return fmt.Errorf("topology: %w", err)
		}
		return nil
	}
	if c.NParticles <= 0 {
		return fmt.Errorf("nparticles: %w: must be positive, got %d", dynamo.ErrInvalidArgument, c.NParticles)
	}
	switch c.Init {
	case InitLattice, InitRandom:
	default:
		return fmt.Errorf("init: %w: unknown init %q", dynamo.ErrInvalidArgument, c.Init)
	}
	return nil
}

// TopologyConfiguration returns the explicit topology, or nil when none is set.
func (c *Config) TopologyConfiguration() (dynamo.Configuration, error) {
	if len(c.Topology) == 0 {
		return nil, nil
	}
	return dynamo.FromRows(c.Topology)
}

// SimParams maps the LJ parameters onto sim.Params. Empty strings stay nil so
// the engine applies its own defaults or reports them unset.
func (c *Config) SimParams() sim.Params {
	return sim.Params{
		Epsilon:     optional(c.Params.Epsilon),
		Sigma:       optional(c.Params.Sigma),
		Temperature: optional(c.Params.Temperature),
		SystemSize:  c.SystemSize,
		NParticles:  c.NParticles,
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
