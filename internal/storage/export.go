package storage

import (
	"encoding/json"
	"errors"
	"io"
)

type ExportData struct {
	RunMetadata
	ProbeTimes []float64 `json:"probe_times,omitempty"`
	ProbeE     []float64 `json:"probe_e,omitempty"`
}

// Export writes the run's metadata, and its probe series when present, as
// indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := ExportData{RunMetadata: *meta}

	times, values, err := s.LoadProbe(runID)
	switch {
	case err == nil:
		data.ProbeTimes = times
		data.ProbeE = values
	case !errors.Is(err, ErrRunNotFound):
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
