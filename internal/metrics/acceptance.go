package metrics

import "github.com/san-kum/ljsim/internal/sim"

// AcceptanceRatio is the fraction of Monte Carlo trials that were accepted.
// The first sample records the starting configuration and is not a trial.
type AcceptanceRatio struct {
	name     string
	accepted int
	trials   int
	seen     bool
}

func NewAcceptanceRatio() *AcceptanceRatio {
	return &AcceptanceRatio{
		name: "acceptance_ratio",
	}
}

func (a *AcceptanceRatio) Name() string {
	return a.name
}

func (a *AcceptanceRatio) Observe(s sim.Sample) {
	if !a.seen {
		a.seen = true
		return
	}
	if s.Accept {
		a.accepted++
	}
	a.trials++
}

func (a *AcceptanceRatio) Value() float64 {
	if a.trials == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.trials)
}

func (a *AcceptanceRatio) Reset() {
	a.accepted = 0
	a.trials = 0
	a.seen = false
}
