package frame

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/window"
)

type failingExecutor struct{ calls int }

func (f *failingExecutor) Execute(render.Frame) error {
	f.calls++
	return errors.New("device lost")
}

func newRunner(t *testing.T, exec render.Executor, m *metrics.Collector, log *logging.Logger) *Runner {
	t.Helper()
	scene := config.Default()
	sys, err := orbit.NewSystem(scene)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	cam := camera.New(camera.DefaultConfig(), sys)
	win := window.New(window.Rect{Width: 160, Height: 96}, window.Rect{Width: 320, Height: 192})
	st := state.New(state.DefaultConfig(), sim.NewClock(), sys, cam, win)
	p := render.New(sys, scene, nil, render.DefaultOptions())
	return New(input.NewQueue(), st, p, exec, m, log)
}

func TestStepBuildsAndExecutes(t *testing.T) {
	rec := &render.Recorder{}
	r := newRunner(t, rec, nil, nil)

	if !r.Step(0.016) {
		t.Fatal("expected the loop to continue")
	}
	if rec.Frames != 1 {
		t.Errorf("expected 1 executed frame, got %d", rec.Frames)
	}
	if got := len(rec.Last.Ops); got != 22 {
		t.Errorf("expected 22 ops, got %d", got)
	}
	if rec.Last.Viewport != (render.Viewport{Width: 160, Height: 96}) {
		t.Errorf("unexpected viewport %+v", rec.Last.Viewport)
	}
	if r.Last().View != rec.Last.View {
		t.Error("Last should return the executed frame")
	}
}

func TestStepOrder(t *testing.T) {
	rec := &render.Recorder{}
	r := newRunner(t, rec, nil, nil)

	// Commands apply before the advance and the draw list.
	r.Queue().Key("h")
	r.Queue().Key(" ")
	r.Queue().Key("3")
	r.Step(1)

	if got := rec.Last.Count(render.PassOrbit); got != 0 {
		t.Errorf("expected orbit guides hidden this frame, got %d", got)
	}
	if r.State().Clock.SimTime() != 0 {
		t.Errorf("expected paused clock, got sim time %v", r.State().Clock.SimTime())
	}
	if rec.Last.View.Mode != camera.ModeFocus {
		t.Errorf("expected Focus view this frame, got %v", rec.Last.View.Mode)
	}
}

func TestStepCameraInput(t *testing.T) {
	rec := &render.Recorder{}
	r := newRunner(t, rec, nil, nil)

	r.Queue().Scroll(1)
	r.Step(0.016)
	if got := r.State().Camera.Orbit().Distance; got != 43 {
		t.Errorf("expected orbit distance 43 after one notch, got %v", got)
	}

	// Drained: a second frame without input leaves it alone.
	r.Step(0.016)
	if got := r.State().Camera.Orbit().Distance; got != 43 {
		t.Errorf("expected orbit distance to stay 43, got %v", got)
	}
}

func TestStepQuit(t *testing.T) {
	r := newRunner(t, &render.Recorder{}, nil, nil)
	r.Queue().Key("esc")

	if r.Step(0.016) {
		t.Error("expected Step to stop after quit")
	}
	if !r.Done() {
		t.Error("expected Done after quit")
	}
}

func TestExecutorErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelInfo)
	log.SetOutput(&buf)
	m := metrics.New()
	exec := &failingExecutor{}
	r := newRunner(t, exec, m, log)

	if !r.Step(0.016) || !r.Step(0.016) {
		t.Fatal("an executor error must not stop the loop")
	}
	if exec.calls != 2 {
		t.Errorf("expected 2 calls, got %d", exec.calls)
	}
	if !strings.Contains(buf.String(), "device lost") {
		t.Errorf("expected error in log, got %q", buf.String())
	}
	want := `
# HELP orrery_executor_errors_total Frames whose draw list failed to execute cleanly
# TYPE orrery_executor_errors_total counter
orrery_executor_errors_total 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "orrery_executor_errors_total"); err != nil {
		t.Errorf("unexpected executor error metric: %v", err)
	}
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New()
	r := newRunner(t, &render.Recorder{}, m, nil)
	r.Queue().Key("=")
	r.Step(0.016)
	r.Step(0.016)

	if n, err := testutil.GatherAndCount(m.Registry(), "orrery_stage_duration_seconds"); err != nil || n != 5 {
		t.Errorf("expected 5 stage series, got %d (%v)", n, err)
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "orrery_draw_ops"); err != nil || n != 5 {
		t.Errorf("expected 5 pass series, got %d (%v)", n, err)
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "orrery_commands_total"); err != nil || n != 1 {
		t.Errorf("expected 1 command series, got %d (%v)", n, err)
	}
}

func TestFPS(t *testing.T) {
	m := metrics.New()
	r := newRunner(t, &render.Recorder{}, m, nil)

	for i := 0; i < 3; i++ {
		r.Step(0.125)
	}
	if r.State().FPS() != 0 {
		t.Errorf("expected no reading before %.1fs, got %v", FPSInterval, r.State().FPS())
	}

	r.Step(0.125)
	if got := r.State().FPS(); math.Abs(got-8) > 1e-9 {
		t.Errorf("expected 8 fps, got %v", got)
	}

	// Zero-length frames are not counted.
	r.Step(0)
	if r.fpsFrames != 0 {
		t.Errorf("expected counter reset, got %d", r.fpsFrames)
	}
}
