package sim

import (
	"github.com/san-kum/ljsim/internal/dynamo"
)

// Sample is what one engine step produces.
type Sample struct {
	Step      int
	Position  dynamo.Configuration
	Potential float64
	Kinetic   float64
	Accept    bool
}

// Total is the potential plus kinetic energy.
func (s Sample) Total() float64 { return s.Potential + s.Kinetic }

// Stepper advances an engine one step at a time.
type Stepper interface {
	Step() (Sample, error)
	StepsTaken() int
}

// MCState is the Metropolis bookkeeping owned by one sampler.
type MCState struct {
	LastPosition dynamo.Configuration
	LastEnergy   float64
	PAccept      float64
	Accept       bool
}

// Result collects the history of a finished run.
type Result struct {
	Engine       string
	Potential    []float64
	Kinetic      []float64
	Accepted     []bool
	Trajectories []dynamo.Configuration
	Velocities   []dynamo.Configuration
	Metrics      map[string]float64
	StepsTaken   int
}

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
