package metrics

import (
	"math"

	"github.com/san-kum/ljsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// EnergyDrift is the largest relative deviation of the total energy from the
// first observed sample. It is zero while the initial energy is zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s sim.Sample) {
	energy := s.Total()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MeanPotential is the arithmetic mean of the observed potential energies.
type MeanPotential struct {
	name   string
	values []float64
}

func NewMeanPotential() *MeanPotential {
	return &MeanPotential{name: "mean_potential"}
}

func (m *MeanPotential) Name() string { return m.name }

func (m *MeanPotential) Observe(s sim.Sample) {
	m.values = append(m.values, s.Potential)
}

func (m *MeanPotential) Value() float64 {
	if len(m.values) == 0 {
		return 0
	}
	return stat.Mean(m.values, nil)
}

func (m *MeanPotential) Reset() {
	m.values = m.values[:0]
}

// PotentialFluctuation is the sample standard deviation of the potential
// energy.
type PotentialFluctuation struct {
	name   string
	values []float64
}

func NewPotentialFluctuation() *PotentialFluctuation {
	return &PotentialFluctuation{name: "potential_stddev"}
}

func (p *PotentialFluctuation) Name() string { return p.name }

func (p *PotentialFluctuation) Observe(s sim.Sample) {
	p.values = append(p.values, s.Potential)
}

func (p *PotentialFluctuation) Value() float64 {
	if len(p.values) < 2 {
		return 0
	}
	return stat.StdDev(p.values, nil)
}

func (p *PotentialFluctuation) Reset() {
	p.values = p.values[:0]
}
