// Package storage keeps rollouts on disk: one directory per run holding
// metadata.json and a trajectory CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/san-kum/ddpnode/internal/sim"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a rollout was produced.
type RunInfo struct {
	Model      string  `json:"model"`
	Integrator string  `json:"integrator"`
	Controller string  `json:"controller"`
	Dt         float64 `json:"dt"`
	Steps      int     `json:"steps"`
	Seed       int64   `json:"seed"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	StepsTaken int                `json:"steps_taken"`
	TotalCost  float64            `json:"total_cost"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Trajectory is a stored rollout. Controls and Costs have one entry less
// than States.
type Trajectory struct {
	Times    []float64
	States   [][]float64
	Controls [][]float64
	Costs    []float64
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes result under a fresh run ID of the form <model>_<xid>.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", info.Model, xid.New().String())
	runDir := s.runDir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		RunInfo:    info,
		StepsTaken: result.StepsTaken,
		TotalCost:  result.TotalCost,
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per visited state: time, x*, u*, cost. The last
// row has empty control and cost cells.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if len(result.States) == 0 {
		w.Flush()
		return w.Error()
	}

	nx := len(result.States[0])
	nu := 0
	if len(result.Controls) > 0 {
		nu = len(result.Controls[0])
	}

	header := []string{"time"}
	for i := 0; i < nx; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for i := 0; i < nu; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	header = append(header, "cost")

	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{formatFloat(result.Times[i])}

		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}

		if i < len(result.Controls) {
			for _, val := range result.Controls[i] {
				row = append(row, formatFloat(val))
			}
			row = append(row, formatFloat(result.Costs[i]))
		} else {
			for j := 0; j <= nu; j++ {
				row = append(row, "")
			}
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Unreadable entries are
// skipped.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the CSV of a run, splitting columns by header.
func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.runDir(runID), "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	traj := &Trajectory{}
	if len(records) < 2 {
		return traj, nil
	}

	var xCols, uCols []int
	costCol := -1
	for j, name := range records[0] {
		switch {
		case strings.HasPrefix(name, "x"):
			xCols = append(xCols, j)
		case strings.HasPrefix(name, "u"):
			uCols = append(uCols, j)
		case name == "cost":
			costCol = j
		}
	}

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		traj.Times = append(traj.Times, t)

		x, err := parseColumns(record, xCols)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		traj.States = append(traj.States, x)

		if costCol < 0 || record[costCol] == "" {
			continue
		}
		u, err := parseColumns(record, uCols)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		c, err := strconv.ParseFloat(record[costCol], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+1, err)
		}
		traj.Controls = append(traj.Controls, u)
		traj.Costs = append(traj.Costs, c)
	}

	return traj, nil
}

func parseColumns(record []string, cols []int) ([]float64, error) {
	out := make([]float64, len(cols))
	for k, j := range cols {
		v, err := strconv.ParseFloat(record[j], 64)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return traj.States, traj.Times, nil
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(s.runDir(runID))
}
