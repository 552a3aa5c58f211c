// Package window tracks the drawable surface: its size, the monitor it
// lives on and the fullscreen toggle.
package window

// Rect is a window rectangle in pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Window is the orrery's drawable. In the terminal the monitor is the
// whole terminal and the windowed rect is the area left by the chrome.
type Window struct {
	rect       Rect
	monitor    Rect
	fullscreen bool
	saved      Rect
}

// New returns a windowed Window with the given rect on the given monitor.
func New(rect, monitor Rect) *Window {
	return &Window{rect: rect, monitor: monitor}
}

// ToggleFullscreen switches between windowed and fullscreen. Entering
// fullscreen saves the windowed rect; leaving restores it exactly.
func (w *Window) ToggleFullscreen() bool {
	if w.fullscreen {
		w.rect = w.saved
		w.fullscreen = false
		return false
	}
	w.saved = w.rect
	w.rect = w.monitor
	w.fullscreen = true
	return true
}

// Fullscreen reports whether the window covers the monitor.
func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// Resize sets the drawable size. While fullscreen the monitor follows,
// since the window is the monitor.
func (w *Window) Resize(width, height int) {
	w.rect.Width, w.rect.Height = max(width, 0), max(height, 0)
	if w.fullscreen {
		w.monitor.Width, w.monitor.Height = w.rect.Width, w.rect.Height
	}
}

// SetMonitor updates the monitor rect. A fullscreen window follows it.
func (w *Window) SetMonitor(m Rect) {
	w.monitor = m
	if w.fullscreen {
		w.rect = m
	}
}

// Rect returns the current window rect.
func (w *Window) Rect() Rect {
	return w.rect
}

// Monitor returns the monitor rect.
func (w *Window) Monitor() Rect {
	return w.monitor
}

// Size returns the drawable width and height.
func (w *Window) Size() (int, int) {
	return w.rect.Width, w.rect.Height
}
