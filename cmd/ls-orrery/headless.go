package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/litescript/ls-orrery/internal/frame"
	"github.com/litescript/ls-orrery/internal/raster"
	"github.com/litescript/ls-orrery/internal/state"
)

// runHeadless steps the loop without a TUI and writes the requested
// outputs. With no output requested it prints the last frame.
func runHeadless(ctx context.Context, runner *frame.Runner, canvas *raster.Canvas, w io.Writer, isTTY bool) error {
	n := frames
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		if !runner.Step(frameDt) {
			break
		}
	}
	snap := runner.State().Snapshot()

	// Export JSON if requested
	if snapshotPath != "" {
		if snapshotPath == "-" {
			if err := writeJSON(w, snap); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := writeJSON(f, snap); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		writeSummary(w, snap)
	}

	if !summaryMode && snapshotPath == "" {
		if isTTY {
			fmt.Fprintln(w, canvas.String())
		} else {
			writeSummary(w, snap)
		}
	}
	return nil
}

func writeJSON(w io.Writer, snap state.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// writeSummary prints the clock, camera and body table.
func writeSummary(w io.Writer, snap state.Snapshot) {
	fmt.Fprintf(w, "Orrery @ frame %d, t=%.2fs (sim %.2fs, %.2fx", snap.Frame, snap.Elapsed, snap.SimTime, snap.TimeScale)
	if snap.Paused {
		fmt.Fprint(w, ", paused")
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Camera: %s, focus %s (%.1f), FOV %.0f°\n", snap.Mode, snap.Focus, snap.FocusDistance, snap.Fov)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(snap.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	// Header
	fmt.Fprintf(w, "%-10s %-8s %-10s %9s %9s %24s\n",
		"Body", "Kind", "Parent", "Orbit°", "Spin°", "Position")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	// Rows
	for _, b := range snap.Bodies {
		parent := b.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%-10s %-8s %-10s %9.2f %9.2f %24s\n",
			truncateStr(b.Name, 10),
			b.Kind,
			truncateStr(parent, 10),
			b.OrbitAngle,
			b.SpinAngle,
			fmt.Sprintf("(%.2f, %.2f, %.2f)", b.Position[0], b.Position[1], b.Position[2]),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(snap.Bodies))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
