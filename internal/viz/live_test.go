package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/yee1d/internal/fdtd"
)

func testFactory() (*fdtd.Solver, error) {
	return fdtd.New(fdtd.GridConfig{N: 120, Dx: 1e-3, S: 0.99, Eps: fdtd.Eps0, Mu: fdtd.Mu0, Boundary: fdtd.Mur1})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m LiveModel, msg tea.Msg) LiveModel {
	t.Helper()
	next, _ := m.Update(msg)
	lm, ok := next.(LiveModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return lm
}

func TestLiveModelTicks(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{Speed: 4})
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, TickMsg(time.Now()))
	m = send(t, m, TickMsg(time.Now()))
	if m.Steps() != 8 {
		t.Errorf("expected 8 steps, got %d", m.Steps())
	}
	if len(m.Energy()) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.Energy()))
	}
}

func TestLiveModelPauseAndStep(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{})
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, key(" "))
	if m.Running() {
		t.Fatal("expected paused")
	}
	m = send(t, m, TickMsg(time.Now()))
	if m.Steps() != 0 {
		t.Errorf("paused model stepped to %d", m.Steps())
	}
	m = send(t, m, key("n"))
	m = send(t, m, key("n"))
	if m.Steps() != 2 {
		t.Errorf("expected 2 single steps, got %d", m.Steps())
	}
}

func TestLiveModelReset(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{Speed: 10})
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, TickMsg(time.Now()))
	m = send(t, m, key("r"))
	if m.Steps() != 0 || len(m.Energy()) != 0 {
		t.Errorf("expected fresh solver, got step %d with %d samples", m.Steps(), len(m.Energy()))
	}
}

func TestLiveModelResetError(t *testing.T) {
	calls := 0
	build := func() (*fdtd.Solver, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("boom")
		}
		return testFactory()
	}
	m, err := NewLiveModel(build, LiveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, key("r"))
	if m.Running() || m.Status() != "boom" {
		t.Errorf("expected stopped with error status, got running=%v status=%q", m.Running(), m.Status())
	}
}

func TestLiveModelSpeed(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{Speed: 2})
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, key("+"))
	if m.Speed() != 4 {
		t.Errorf("expected speed 4, got %d", m.Speed())
	}
	for i := 0; i < 10; i++ {
		m = send(t, m, key("+"))
	}
	if m.Speed() != maxSpeed {
		t.Errorf("expected speed capped at %d, got %d", maxSpeed, m.Speed())
	}
	for i := 0; i < 10; i++ {
		m = send(t, m, key("-"))
	}
	if m.Speed() != 1 {
		t.Errorf("expected speed floor 1, got %d", m.Speed())
	}
}

func TestLiveModelMaxSteps(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{Speed: 8, MaxSteps: 20})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		m = send(t, m, TickMsg(time.Now()))
	}
	if m.Steps() != 20 {
		t.Errorf("expected stop at 20, got %d", m.Steps())
	}
	if m.Running() || m.Status() != "done" {
		t.Errorf("expected done, got running=%v status=%q", m.Running(), m.Status())
	}
}

func TestLiveModelThemeAndView(t *testing.T) {
	m, err := NewLiveModel(testFactory, LiveOptions{Theme: "ocean"})
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, key("t"))
	if m.Theme().Name != "minimal" {
		t.Errorf("expected minimal after ocean, got %s", m.Theme().Name)
	}

	m = send(t, m, TickMsg(time.Now()))
	for _, v := range []string{"E", "H", "E+H"} {
		if !strings.Contains(m.View(), v) {
			t.Errorf("view %s not rendered", v)
		}
		m = send(t, m, key("f"))
	}
}

func TestLiveModelBuildError(t *testing.T) {
	_, err := NewLiveModel(func() (*fdtd.Solver, error) {
		return fdtd.New(fdtd.GridConfig{N: 1})
	}, LiveOptions{})
	if !errors.Is(err, fdtd.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
