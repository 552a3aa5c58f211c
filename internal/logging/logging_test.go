package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(level)
	l.SetOutput(&buf)
	l.core.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC) }
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q): expected %v/%v, got %v/%v", tt.in, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestLineFormat(t *testing.T) {
	l, buf := fixedLogger(LevelDebug)
	l.Info("frame %d", 7)

	want := "03:04:05.006 [INFO] frame 7\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLevelFilter(t *testing.T) {
	l, buf := fixedLogger(LevelWarn)
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")

	out := buf.String()
	if strings.Contains(out, "] a") || strings.Contains(out, "] b") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] c") || !strings.Contains(out, "[ERROR] d") {
		t.Errorf("expected warn and error lines, got %q", out)
	}

	l.SetLevel(LevelDebug)
	if !l.Enabled(LevelDebug) {
		t.Error("expected debug enabled after SetLevel")
	}
}

func TestWithPrefix(t *testing.T) {
	l, buf := fixedLogger(LevelInfo)
	l.With("texture").With("load").Warn("missing %s", "earth.jpg")

	if !strings.Contains(buf.String(), "[WARN] texture.load: missing earth.jpg") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestWithSharesLevel(t *testing.T) {
	l, buf := fixedLogger(LevelInfo)
	child := l.With("frame")
	l.SetLevel(LevelError)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected child to follow parent level, got %q", buf.String())
	}
}

func TestEvery(t *testing.T) {
	l, buf := fixedLogger(LevelDebug)
	th := l.Every(time.Hour)
	for i := 0; i < 10; i++ {
		th.Info("fps %d", i)
	}

	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("expected 1 line, got %d: %q", n, buf.String())
	}
	if !strings.Contains(buf.String(), "fps 0") {
		t.Errorf("expected the first call to pass, got %q", buf.String())
	}
}

func TestEveryDebugFiltered(t *testing.T) {
	l, buf := fixedLogger(LevelInfo)
	th := l.Every(time.Hour)
	th.Debug("x")
	l.SetLevel(LevelDebug)
	th.Debug("y")

	if !strings.Contains(buf.String(), "] y") {
		t.Errorf("a filtered call should not use up the interval, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Enabled(LevelError) {
		t.Error("expected Discard to disable every level")
	}
}
