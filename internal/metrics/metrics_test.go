package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollectorsCoexist(t *testing.T) {
	a, b := New(), New()
	a.RecordFrame(1, false)
	if got := testutil.ToFloat64(b.framesTotal); got != 0 {
		t.Errorf("expected independent registries, got %v", got)
	}
}

func TestRecordFrame(t *testing.T) {
	m := New()
	m.RecordFrame(2.5, false)
	m.RecordFrame(0.5, true)

	if got := testutil.ToFloat64(m.framesTotal); got != 2 {
		t.Errorf("expected 2 frames, got %v", got)
	}
	if got := testutil.ToFloat64(m.timeScale); got != 0.5 {
		t.Errorf("expected time scale 0.5, got %v", got)
	}
	if got := testutil.ToFloat64(m.paused); got != 1 {
		t.Errorf("expected paused 1, got %v", got)
	}
}

func TestLabelledMetrics(t *testing.T) {
	m := New()
	m.SetDrawOps("body", 11)
	m.SetDrawOps("orbit", 8)
	m.RecordCommand("fov")
	m.RecordCommand("fov")
	m.RecordExecutorError()
	m.SetFPS(30)

	if got := testutil.ToFloat64(m.drawOps.WithLabelValues("body")); got != 11 {
		t.Errorf("expected 11 body ops, got %v", got)
	}
	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("fov")); got != 2 {
		t.Errorf("expected 2 fov commands, got %v", got)
	}
	if got := testutil.ToFloat64(m.executorErrors); got != 1 {
		t.Errorf("expected 1 executor error, got %v", got)
	}
	if got := testutil.ToFloat64(m.fps); got != 30 {
		t.Errorf("expected fps 30, got %v", got)
	}
}

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("render", 2*time.Millisecond)
	m.ObserveStage("render", 3*time.Millisecond)
	m.ObserveStage("input", time.Microsecond)

	if n := testutil.CollectAndCount(m.stageDuration); n != 2 {
		t.Errorf("expected 2 stage series, got %d", n)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordFrame(1, false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "orrery_frames_total 1") {
		t.Errorf("expected frames counter in output, got:\n%s", body)
	}
}
