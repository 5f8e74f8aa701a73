// Package storage persists finished runs as a directory per run holding
// metadata.json, energies.csv and trajectory.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	energiesFile   = "energies.csv"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Engine      string             `json:"engine"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Steps       int                `json:"steps"`
	SystemSize  float64            `json:"system_size"`
	NParticles  int                `json:"nparticles"`
	Epsilon     string             `json:"epsilon,omitempty"`
	Sigma       string             `json:"sigma,omitempty"`
	Temperature string             `json:"temperature,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and the history of result into a new run directory and
// returns its ID. ID, Timestamp and Metrics in meta are filled in by Save.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Engine, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	if len(result.Trajectories) > 0 {
		meta.NParticles = len(result.Trajectories[0])
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergies(filepath.Join(runDir, energiesFile), result); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Trajectories); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergies(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "potential", "kinetic", "accept"}); err != nil {
		return err
	}
	for i, pot := range result.Potential {
		kin := 0.0
		if i < len(result.Kinetic) {
			kin = result.Kinetic[i]
		}
		// MD steps carry no Metropolis decision and are always kept.
		accept := true
		if i < len(result.Accepted) {
			accept = result.Accepted[i]
		}
		row := []string{strconv.Itoa(i), formatFloat(pot), formatFloat(kin), strconv.FormatBool(accept)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTrajectory(path string, traj []dynamo.Configuration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "particle", "x", "y", "z"}); err != nil {
		return err
	}
	for step, c := range traj {
		for i, p := range c {
			row := []string{strconv.Itoa(step), strconv.Itoa(i), formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Energies is the per-step energy table of a stored run.
type Energies struct {
	Potential []float64
	Kinetic   []float64
	Accepted  []bool
}

func (s *Store) LoadEnergies(runID string) (*Energies, error) {
	records, err := readCSV(s.EnergiesPath(runID))
	if err != nil {
		return nil, err
	}

	e := &Energies{}
	for i, record := range records {
		if len(record) != 4 {
			return nil, fmt.Errorf("%s line %d: expected 4 fields, got %d", energiesFile, i+2, len(record))
		}
		pot, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", energiesFile, i+2, err)
		}
		kin, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", energiesFile, i+2, err)
		}
		acc, err := strconv.ParseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", energiesFile, i+2, err)
		}
		e.Potential = append(e.Potential, pot)
		e.Kinetic = append(e.Kinetic, kin)
		e.Accepted = append(e.Accepted, acc)
	}
	return e, nil
}

// LoadTrajectory rebuilds one configuration per recorded step.
func (s *Store) LoadTrajectory(runID string) ([]dynamo.Configuration, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}

	traj := make([]dynamo.Configuration, 0)
	for i, record := range records {
		if len(record) != 5 {
			return nil, fmt.Errorf("%s line %d: expected 5 fields, got %d", trajectoryFile, i+2, len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		if step < 0 {
			return nil, fmt.Errorf("%s line %d: negative step %d", trajectoryFile, i+2, step)
		}
		var p dynamo.Vec3
		for k := 0; k < 3; k++ {
			if p[k], err = strconv.ParseFloat(record[2+k], 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
			}
		}
		for len(traj) <= step {
			traj = append(traj, dynamo.Configuration{})
		}
		traj[step] = append(traj[step], p)
	}
	return traj, nil
}

// LoadResult rebuilds the result of a stored run from its files.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	energies, err := s.LoadEnergies(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Engine:       meta.Engine,
		Potential:    energies.Potential,
		Kinetic:      energies.Kinetic,
		Accepted:     energies.Accepted,
		Trajectories: traj,
		Metrics:      meta.Metrics,
		StepsTaken:   meta.Steps,
	}, nil
}

// EnergiesPath is the location of the energy table of runID.
func (s *Store) EnergiesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, energiesFile)
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
