package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/yee1d/internal/fdtd"
	"github.com/san-kum/yee1d/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	probeFile    = "probe.csv"
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

// Dir is the directory holding runID.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type SourceMetadata struct {
	Amplitude float64 `json:"amplitude"`
	Delay     float64 `json:"delay"`
	Spread    float64 `json:"spread"`
	Index     int     `json:"index"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	N          int                `json:"n"`
	Dx         float64            `json:"dx"`
	Courant    float64            `json:"courant"`
	Eps        float64            `json:"eps"`
	Mu         float64            `json:"mu"`
	Boundary   string             `json:"boundary"`
	Dt         float64            `json:"dt"`
	Source     SourceMetadata     `json:"source"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	DumpEvery  int                `json:"dump_every"`
	Probe      int                `json:"probe"`
	Snapshots  []int              `json:"snapshots"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Run describes what produced a result.
type Run struct {
	Name        string
	Grid        fdtd.GridConfig
	Dt          float64
	Pulse       fdtd.GaussianPulse
	SourceIndex int
	Config      sim.Config
}

// Save writes metadata.json, one fields CSV per snapshot and probe.csv
// when the result carries a probe series. It returns the new run ID.
func (s *Store) Save(run Run, result *sim.Result) (string, error) {
	name := run.Name
	if name == "" {
		name = run.Grid.Boundary.String()
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	if err := os.Mkdir(runDir, 0755); err != nil {
		return "", fmt.Errorf("storage: create run dir: %w", err)
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		N:         run.Grid.N,
		Dx:        run.Grid.Dx,
		Courant:   run.Grid.S,
		Eps:       run.Grid.Eps,
		Mu:        run.Grid.Mu,
		Boundary:  run.Grid.Boundary.String(),
		Dt:        run.Dt,
		Source: SourceMetadata{
			Amplitude: run.Pulse.Amplitude,
			Delay:     run.Pulse.Delay,
			Spread:    run.Pulse.Spread,
			Index:     run.SourceIndex,
		},
		Steps:      run.Config.Steps,
		StepsTaken: result.StepsTaken,
		DumpEvery:  run.Config.DumpEvery,
		Probe:      run.Config.Probe,
		Snapshots:  make([]int, 0, len(result.Snapshots)),
		Metrics:    result.Metrics,
	}

	x := fdtd.Coordinates(run.Grid)
	for _, snap := range result.Snapshots {
		if err := writeSnapshotFile(filepath.Join(runDir, SnapshotFileName(snap.Index)), x, snap.E, snap.H); err != nil {
			return "", fmt.Errorf("storage: snapshot %d: %w", snap.Index, err)
		}
		meta.Snapshots = append(meta.Snapshots, snap.Index)
	}

	if len(result.ProbeE) > 0 {
		if err := writeProbeFile(filepath.Join(runDir, probeFile), result.ProbeTimes, result.ProbeE); err != nil {
			return "", fmt.Errorf("storage: probe: %w", err)
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("storage: metadata: %w", err)
	}
	return runID, nil
}

func writeSnapshotFile(path string, x, e, h []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(f, x, e, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeProbeFile(path string, times, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "E"}); err != nil {
		return err
	}
	for i := range values {
		row := []string{strconv.Itoa(i + 1), formatValue(times[i]), formatValue(values[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
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

// List returns every readable run, oldest first.
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

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadSnapshot reads the fields recorded at loop index.
func (s *Store) LoadSnapshot(runID string, index int) (x, e, h []float64, err error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), SnapshotFileName(index)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil, fmt.Errorf("%s snapshot %d: %w", runID, index, ErrRunNotFound)
		}
		return nil, nil, nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// LoadProbe reads probe.csv. A run without a probe yields ErrRunNotFound.
func (s *Store) LoadProbe(runID string) (times, values []float64, err error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), probeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s probe: %w", runID, ErrRunNotFound)
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	values = make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("probe row %d: %w", i+1, err)
		}
		v, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("probe row %d: %w", i+1, err)
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, nil
}
