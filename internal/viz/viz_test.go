package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/sim"
)

type fakeStepper struct {
	steps int
	fail  int
}

func (f *fakeStepper) Step() (sim.Sample, error) {
	if f.fail > 0 && f.steps == f.fail {
		return sim.Sample{}, errors.New("boom")
	}
	s := sim.Sample{
		Step:      f.steps,
		Position:  dynamo.Configuration{{1, 1, 1}, {9, 9, 9}},
		Potential: -float64(f.steps),
		Accept:    f.steps%2 == 0,
	}
	f.steps++
	return s, nil
}

func (f *fakeStepper) StepsTaken() int { return f.steps }

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Pixels(); w != 8 || h != 8 {
		t.Fatalf("expected 8x8 pixels, got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("expected pixel set")
	}
	if c.IsSet(2, 5) {
		t.Error("neighbour should be clear")
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("expected pixel cleared")
	}
	if strings.Count(c.String(), "\n") != 2 {
		t.Error("expected one line per row")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 7, 3)
	if !c.IsSet(0, 0) || !c.IsSet(7, 3) {
		t.Error("line endpoints not drawn")
	}
}

func TestCamera_ProjectCentre(t *testing.T) {
	cam := &Camera{Zoom: 1, Distance: 5}
	x, y, ok := cam.Project(dynamo.Vec3{}, 80, 80)
	if !ok || x != 40 || y != 40 {
		t.Errorf("expected origin at (40,40), got (%d,%d) ok=%v", x, y, ok)
	}
	if _, _, ok := cam.Project(dynamo.Vec3{0, 0, 6}, 80, 80); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestRenderBox(t *testing.T) {
	cv := NewCanvas(20, 10)
	cam := &Camera{Zoom: 1, Distance: 5}
	RenderBox(cv, cam, dynamo.Configuration{{5, 5, 5}}, 10)
	if !cv.IsSet(20, 20) {
		t.Error("expected particle at the box centre to be drawn")
	}
}

func TestModel_StopsAtMaxSteps(t *testing.T) {
	eng := &fakeStepper{}
	var seen int
	var m tea.Model = NewModel(eng, LiveOptions{Title: "md", BoxLength: 10, MaxSteps: 5, StepsPerFrame: 2, OnSample: func(sim.Sample) { seen++ }})

	for i := 0; i < 10; i++ {
		m, _ = m.Update(TickMsg{})
	}
	lm := m.(Model)
	if eng.steps != 5 {
		t.Errorf("expected 5 steps, got %d", eng.steps)
	}
	if !lm.Done() {
		t.Error("expected model done")
	}
	if seen != 5 {
		t.Errorf("expected 5 samples observed, got %d", seen)
	}
	if lm.trials != 4 || lm.accepted != 2 {
		t.Errorf("expected 2/4 accepted, got %d/%d", lm.accepted, lm.trials)
	}
	if !strings.Contains(lm.View(), "DONE") {
		t.Error("expected DONE in view")
	}
}

func TestModel_Pause(t *testing.T) {
	eng := &fakeStepper{}
	var m tea.Model = NewModel(eng, LiveOptions{BoxLength: 10})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(TickMsg{})
	if eng.steps != 0 {
		t.Errorf("expected no steps while paused, got %d", eng.steps)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}
}

func TestModel_Speed(t *testing.T) {
	eng := &fakeStepper{}
	var m tea.Model = NewModel(eng, LiveOptions{BoxLength: 10})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(TickMsg{})
	if eng.steps != 4 {
		t.Errorf("expected 4 steps per frame, got %d", eng.steps)
	}
}

func TestModel_StepError(t *testing.T) {
	eng := &fakeStepper{fail: 2}
	var m tea.Model = NewModel(eng, LiveOptions{BoxLength: 10, StepsPerFrame: 5})
	m, _ = m.Update(TickMsg{})
	lm := m.(Model)
	if lm.Err() == nil || !lm.Done() {
		t.Fatal("expected the model to stop on error")
	}
	if !strings.Contains(lm.View(), "boom") {
		t.Error("expected error in view")
	}
}

func TestPicker(t *testing.T) {
	items := []PickerItem{{Engine: "md", Name: "pair"}, {Engine: "mc", Name: "cold"}}
	var p tea.Model = NewPicker(items)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected quit after selection")
	}
	it, ok := p.(Picker).Selected()
	if !ok || it.Name != "cold" {
		t.Errorf("expected cold, got %+v ok=%v", it, ok)
	}
}

func TestPicker_Quit(t *testing.T) {
	var p tea.Model = NewPicker([]PickerItem{{Engine: "md", Name: "pair"}})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if _, ok := p.(Picker).Selected(); ok {
		t.Error("expected no selection after quit")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := []rune(Sparkline([]float64{1, 2, 3, 4, 5}, 3)); len(got) != 3 {
		t.Errorf("expected 3 cells, got %d", len(got))
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(ThemeArgon.Name)
	SetTheme(ThemeMinimal.Name)
	NextTheme()
	if CurrentTheme.Name != ThemeArgon.Name {
		t.Errorf("expected wrap to %s, got %s", ThemeArgon.Name, CurrentTheme.Name)
	}
}
