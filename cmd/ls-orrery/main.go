// Command ls-orrery is a terminal orrery: an interactive 3D model of the
// solar system rendered in truecolor half-blocks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/frame"
	"github.com/litescript/ls-orrery/internal/input"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/raster"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/starfield"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/texture"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/window"
)

// CLI flags for headless mode
var (
	frames       int
	frameDt      float64
	summaryMode  bool
	snapshotPath string
)

const (
	minFPS = 1
	maxFPS = 120

	// Headless canvas when stdout is not a terminal.
	defaultCols = 80
	defaultRows = 24
)

func main() {
	scenePath := flag.String("scene", "", "Scene YAML file (default: built-in solar system)")
	textureDir := flag.String("textures", "", "Directory holding the scene's texture images")
	fps := flag.Int("fps", 30, "Frame rate")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	modeName := flag.String("mode", "orbit", "Initial camera mode (orbit, free, focus)")
	noStars := flag.Bool("no-stars", false, "Start with the star dome hidden")
	noOrbits := flag.Bool("no-orbits", false, "Start with the orbit guides hidden")
	timeScale := flag.Float64("time-scale", 1, "Initial simulation time scale")
	flag.IntVar(&frames, "frames", 0, "Run N frames headless, then exit")
	flag.Float64Var(&frameDt, "dt", 1.0/30, "Seconds per headless frame")
	flag.BoolVar(&summaryMode, "summary", false, "Print a text summary instead of the TUI")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.Parse()

	// Validate frame rate
	if *fps < minFPS {
		*fps = minFPS
	} else if *fps > maxFPS {
		*fps = maxFPS
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := frames > 0 || summaryMode || snapshotPath != "" || !isTTY

	// Set up logging
	level, ok := logging.ParseLevel(*logLevel)
	logger := logging.New(level)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless {
		// Anything on stderr would tear the alt screen.
		logger.SetOutput(io.Discard)
	}
	if !ok {
		logger.Warn("unknown log level %q, using info", *logLevel)
	}

	mode, err := camera.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scene := config.Default()
	if *scenePath != "" {
		scene, err = config.Load(*scenePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	sys, err := orbit.NewSystem(scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("scene: %d bodies, %d meshes", len(sys.Bodies()), sys.MeshCount())

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	textures := texture.NewRegistry(texture.DefaultMaxWidth, logger.With("texture"))
	if *textureDir != "" {
		_, failed := textures.LoadDir(*textureDir, scene.TextureKeys())
		if failed > 0 {
			logger.Warn("%d textures missing, drawing base colours instead", failed)
		}
	}
	if scene.Sky.Texture == "" {
		scene.Sky.Texture = starfield.Key
	}
	skyColor, _ := colorful.Hex(scene.Sky.Color)
	if _, added, err := starfield.Ensure(textures, scene.Sky.Texture, skyColor); err != nil {
		logger.Warn("star map: %v", err)
	} else if added {
		logger.Info("no sky image, using the built-in star map")
	}

	clock := sim.NewClock()
	clock.SetTimeScale(*timeScale)

	cam := camera.New(camera.DefaultConfig(), sys)
	cam.Select(mode)

	cols, rows := defaultCols, defaultRows
	if isTTY {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h
		}
	}
	win := window.New(
		window.Rect{Width: cols, Height: rows * 2},
		window.Rect{Width: cols, Height: rows * 2},
	)

	st := state.New(state.DefaultConfig(), clock, sys, cam, win)
	st.Toggles.Stars = !*noStars
	st.Toggles.Orbits = !*noOrbits

	var collector *metrics.Collector
	if *metricsAddr != "" {
		collector = metrics.New()
		go func() {
			logger.Info("metrics on %s/metrics", *metricsAddr)
			if err := collector.Serve(ctx, *metricsAddr); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	pipeline := render.New(sys, scene, textures, render.DefaultOptions())
	canvas := raster.New(cols, rows*2, textures)
	runner := frame.New(input.NewQueue(), st, pipeline, canvas, collector, logger.With("frame"))

	// Headless mode: no TUI
	if headless {
		if err := runHeadless(ctx, runner, canvas, os.Stdout, isTTY); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := ui.DefaultOptions()
	opts.FPS = *fps
	opts.Log = logger.With("ui")
	model := ui.New(runner, canvas, opts)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
