package metrics

import (
	"math"

	"github.com/san-kum/ljsim/internal/sim"
)

// Stability is the fraction of samples whose energies and positions are all
// finite. Positions further than threshold from the origin also count as
// violations; a threshold of zero disables that check.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x sim.Sample) {
	s.samples++
	if !finite(x.Potential) || !finite(x.Kinetic) {
		s.violations++
		return
	}
	for _, row := range x.Position {
		for _, v := range row {
			if !finite(v) || (s.threshold > 0 && math.Abs(v) > s.threshold) {
				s.violations++
				return
			}
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
