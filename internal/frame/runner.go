// Package frame runs the orrery's per-frame sequence: drain input, apply
// commands, advance the simulation, update the camera, build and execute
// the draw list.
package frame

import (
	"time"

	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/state"
)

// FPSInterval is how often the measured frame rate is refreshed.
const FPSInterval = 0.5

var passes = []render.Pass{render.PassSky, render.PassBody, render.PassRing, render.PassOrbit, render.PassHUD}

// Runner owns one frame loop. It is not safe for concurrent use; the UI
// goroutine drives it.
type Runner struct {
	queue    *input.Queue
	state    *state.State
	pipeline *render.Pipeline
	exec     render.Executor
	metrics  *metrics.Collector
	log      *logging.Logger
	slow     *logging.Throttle

	fpsFrames int
	fpsTime   float64
	last      render.Frame
}

// New creates a runner. m may be nil.
func New(q *input.Queue, s *state.State, p *render.Pipeline, exec render.Executor, m *metrics.Collector, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		queue:    q,
		state:    s,
		pipeline: p,
		exec:     exec,
		metrics:  m,
		log:      log,
		slow:     log.Every(time.Second),
	}
}

// Step runs one frame with dt seconds of real time and reports whether the
// loop should continue.
func (r *Runner) Step(dt float64) bool {
	start := time.Now()
	in := r.queue.Drain()
	r.observe("input", start)

	t := time.Now()
	r.state.Apply(in.Commands)
	for _, c := range in.Commands {
		r.log.Debug("command %s", c)
		if r.metrics != nil {
			r.metrics.RecordCommand(c.Kind.String())
		}
	}
	r.observe("apply", t)

	t = time.Now()
	r.state.Advance(dt)
	r.observe("advance", t)

	t = time.Now()
	view := r.state.UpdateCamera(in.CameraInput(dt))
	r.observe("camera", t)

	t = time.Now()
	f := r.pipeline.Build(view, r.state.Toggles, r.state.Viewport())
	r.last = f
	if err := r.exec.Execute(f); err != nil {
		r.log.Error("execute frame %d: %v", r.state.Clock.Frames(), err)
		if r.metrics != nil {
			r.metrics.RecordExecutorError()
		}
	}
	r.observe("render", t)

	if r.metrics != nil {
		r.metrics.RecordFrame(r.state.Clock.TimeScale(), r.state.Clock.Paused())
		for _, p := range passes {
			r.metrics.SetDrawOps(p.String(), f.Count(p))
		}
	}
	r.countFPS(dt)

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		r.slow.Info("slow frame: %v", elapsed)
	}
	return !r.state.Quit()
}

func (r *Runner) observe(stage string, since time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveStage(stage, time.Since(since))
	}
}

func (r *Runner) countFPS(dt float64) {
	if dt <= 0 {
		return
	}
	r.fpsFrames++
	r.fpsTime += dt
	if r.fpsTime < FPSInterval {
		return
	}
	fps := float64(r.fpsFrames) / r.fpsTime
	r.state.SetFPS(fps)
	if r.metrics != nil {
		r.metrics.SetFPS(fps)
	}
	r.log.Debug("fps %.1f", fps)
	r.fpsFrames, r.fpsTime = 0, 0
}

// Done reports whether a quit command has been applied.
func (r *Runner) Done() bool {
	return r.state.Quit()
}

// Last returns the most recently built frame.
func (r *Runner) Last() render.Frame {
	return r.last
}

// Queue returns the input queue the runner drains.
func (r *Runner) Queue() *input.Queue {
	return r.queue
}

// State returns the state the runner mutates.
func (r *Runner) State() *state.State {
	return r.state
}
