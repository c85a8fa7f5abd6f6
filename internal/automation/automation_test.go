package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/yee1d/internal/storage"
)

const scenarioYAML = `name: boundaries
description: reflective then absorbing
runs:
  - name: walls
    preset: coarse
    boundary: reflective
    set: { steps: 40 }
  - name: open
    config: open.yaml
    set: { steps: 30, courant: 0.8 }
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "open.yaml"), []byte("grid: { n: 100 }\nboundary: mur1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "boundaries" || len(sc.Runs) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	cfg, err := sc.Build(sc.Runs[1])
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Grid.N != 100 || cfg.Boundary != "mur1" || cfg.Steps != 30 || cfg.Grid.Courant != 0.8 {
		t.Errorf("step not resolved: %+v", cfg)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for a scenario without runs")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	outcomes, err := RunScenario(context.Background(), sc, st)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].RunID != "" {
		t.Error("unsaved step got a run id")
	}
	if outcomes[0].Result.StepsTaken != 40 || outcomes[1].Result.StepsTaken != 30 {
		t.Errorf("unexpected step counts %d, %d", outcomes[0].Result.StepsTaken, outcomes[1].Result.StepsTaken)
	}

	meta, err := st.Load(outcomes[1].RunID)
	if err != nil {
		t.Fatalf("saved run not found: %v", err)
	}
	if meta.Name != "open" || meta.N != 100 {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	body := strings.Replace(scenarioYAML, "courant: 0.8", "courant: 1.8", 1)
	sc, err := LoadScenario(writeScenario(t, body))
	if err != nil {
		t.Fatal(err)
	}

	outcomes, err := RunScenario(context.Background(), sc, storage.New(t.TempDir()))
	if err == nil || !strings.Contains(err.Error(), "step 2 (open)") {
		t.Errorf("expected step 2 error, got %v", err)
	}
	if len(outcomes) != 1 {
		t.Errorf("expected the first outcome kept, got %d", len(outcomes))
	}
}

func TestRunScenarioSaveWithoutStore(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RunScenario(context.Background(), sc, nil); err == nil {
		t.Error("expected error when saving without a store")
	}
}
