package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ljsim/internal/sim"
)

type ExportData struct {
	Engine       string             `json:"engine"`
	Seed         int64              `json:"seed"`
	Steps        int                `json:"steps"`
	SystemSize   float64            `json:"system_size"`
	Epsilon      string             `json:"epsilon,omitempty"`
	Sigma        string             `json:"sigma,omitempty"`
	Temperature  string             `json:"temperature,omitempty"`
	Potential    []float64          `json:"potential"`
	Kinetic      []float64          `json:"kinetic"`
	Accepted     []bool             `json:"accepted,omitempty"`
	Trajectories [][][]float64      `json:"trajectories"`
	Metrics      map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		Engine:       result.Engine,
		Seed:         meta.Seed,
		Steps:        result.StepsTaken,
		SystemSize:   meta.SystemSize,
		Epsilon:      meta.Epsilon,
		Sigma:        meta.Sigma,
		Temperature:  meta.Temperature,
		Potential:    result.Potential,
		Kinetic:      result.Kinetic,
		Accepted:     result.Accepted,
		Trajectories: make([][][]float64, len(result.Trajectories)),
		Metrics:      result.Metrics,
	}
	for i, c := range result.Trajectories {
		data.Trajectories[i] = c.Rows()
	}
	return data
}

func WriteJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, result))
}

// ExportJSON writes the run to path, or to stdout when path is empty.
func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	if path == "" {
		return WriteJSON(os.Stdout, meta, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, result)
}

// ExportCSV copies the energy table of runID to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	file, err := os.Open(s.EnergiesPath(runID))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}
