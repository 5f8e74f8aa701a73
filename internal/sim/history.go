package sim

import "github.com/san-kum/ljsim/internal/dynamo"

// MCRecord is one Monte Carlo history entry.
type MCRecord struct {
	Position dynamo.Configuration
	Energy   float64
	Accept   bool
}

// MDRecord is one molecular dynamics history entry.
type MDRecord struct {
	Position  dynamo.Configuration
	Velocity  dynamo.Configuration
	Potential float64
	Kinetic   float64
}

// MCHistory is append-only. Records are copied in and out.
type MCHistory struct {
	records []MCRecord
}

func (h *MCHistory) Append(r MCRecord) {
	r.Position = r.Position.Clone()
	h.records = append(h.records, r)
}

func (h *MCHistory) Len() int { return len(h.records) }

func (h *MCHistory) At(i int) MCRecord {
	r := h.records[i]
	r.Position = r.Position.Clone()
	return r
}

func (h *MCHistory) Trajectories() []dynamo.Configuration {
	out := make([]dynamo.Configuration, len(h.records))
	for i, r := range h.records {
		out[i] = r.Position.Clone()
	}
	return out
}

func (h *MCHistory) PotentialEnergies() []float64 {
	out := make([]float64, len(h.records))
	for i, r := range h.records {
		out[i] = r.Energy
	}
	return out
}

func (h *MCHistory) Accepted() []bool {
	out := make([]bool, len(h.records))
	for i, r := range h.records {
		out[i] = r.Accept
	}
	return out
}

// MDHistory is append-only. Records are copied in and out.
type MDHistory struct {
	records []MDRecord
}

func (h *MDHistory) Append(r MDRecord) {
	r.Position = r.Position.Clone()
	r.Velocity = r.Velocity.Clone()
	h.records = append(h.records, r)
}

func (h *MDHistory) Len() int { return len(h.records) }

func (h *MDHistory) At(i int) MDRecord {
	r := h.records[i]
	r.Position = r.Position.Clone()
	r.Velocity = r.Velocity.Clone()
	return r
}

func (h *MDHistory) Trajectories() []dynamo.Configuration {
	out := make([]dynamo.Configuration, len(h.records))
	for i, r := range h.records {
		out[i] = r.Position.Clone()
	}
	return out
}

func (h *MDHistory) Velocities() []dynamo.Configuration {
	out := make([]dynamo.Configuration, len(h.records))
	for i, r := range h.records {
		out[i] = r.Velocity.Clone()
	}
	return out
}

func (h *MDHistory) PotentialEnergies() []float64 {
	out := make([]float64, len(h.records))
	for i, r := range h.records {
		out[i] = r.Potential
	}
	return out
}

func (h *MDHistory) KineticEnergies() []float64 {
	out := make([]float64, len(h.records))
	for i, r := range h.records {
		out[i] = r.Kinetic
	}
	return out
}
