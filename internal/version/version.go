// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Prometheus frame metrics, headless summary and JSON snapshot export
// 0.2.0 - Focus camera, moons, Saturn's ring, YAML scenes, texture loading
// 0.1.0 - Initial release: half-block rasterizer, orbit and free cameras, orbit guides
