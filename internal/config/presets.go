package config

import "sort"

var Presets = map[string]map[string]*Config{
	"md": {
		"pair": {
			Engine: "md", Steps: 200, SystemSize: 20,
			Topology: [][]float64{{5, 5, 5}, {8.8164, 5, 5}},
			Params:   ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: DefaultTemperature},
		},
		"lattice": {
			Engine: "md", Steps: 500, SystemSize: 20, NParticles: 8, Init: InitLattice,
			Params: ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: DefaultTemperature},
		},
		"gas": {
			Engine: "md", Steps: 1000, SystemSize: 40, NParticles: 27, Init: InitLattice,
			Params: ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: DefaultTemperature},
		},
	},
	"mc": {
		"dilute": {
			Engine: "mc", Steps: 2000, SystemSize: 30, NParticles: 8, Init: InitRandom,
			Params: ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: DefaultTemperature},
		},
		"cold": {
			Engine: "mc", Steps: 2000, SystemSize: 30, NParticles: 8, Init: InitRandom,
			Params: ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: "90 K"},
		},
		"hot": {
			Engine: "mc", Steps: 2000, SystemSize: 30, NParticles: 8, Init: InitRandom,
			Params: ParamConfig{Epsilon: DefaultEpsilon, Sigma: DefaultSigma, Temperature: "1000 K"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(engine, preset string) *Config {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	cfg, ok := enginePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	if cfg.Topology != nil {
		c.Topology = make([][]float64, len(cfg.Topology))
		for i, row := range cfg.Topology {
			c.Topology[i] = append([]float64(nil), row...)
		}
	}
	return &c
}

func ListPresets(engine string) []string {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
