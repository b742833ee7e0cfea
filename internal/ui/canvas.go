// ABOUTME: Cell-grid canvas the waveform renderer paints into
// ABOUTME: Double-buffered so the view never reads a half-drawn frame
package ui

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// WaveCanvas is the renderer's drawing surface. The renderer clears,
// plots and flushes from its own goroutine; the model resizes and
// reads rendered rows on the program goroutine.
type WaveCanvas struct {
	mu    sync.Mutex
	w, h  int
	back  []bool
	front []bool
	send  func(tea.Msg)
}

// NewWaveCanvas creates a canvas at an initial backing resolution
func NewWaveCanvas(w, h int) *WaveCanvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &WaveCanvas{
		w:     w,
		h:     h,
		back:  make([]bool, w*h),
		front: make([]bool, w*h),
	}
}

// Bind attaches the running program's send function
func (c *WaveCanvas) Bind(send func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send = send
}

// SetSize recomputes the backing resolution after a layout change
func (c *WaveCanvas) SetSize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.back = make([]bool, w*h)
	c.front = make([]bool, w*h)
}

// Size returns the backing resolution in cells
func (c *WaveCanvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// Clear blanks the in-progress frame
func (c *WaveCanvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.back {
		c.back[i] = false
	}
}

// Set marks one cell of the in-progress frame
func (c *WaveCanvas) Set(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.back[y*c.w+x] = true
}

// Flush publishes the completed frame to the view
func (c *WaveCanvas) Flush() {
	c.mu.Lock()
	copy(c.front, c.back)
	send := c.send
	c.mu.Unlock()

	if send != nil {
		send(WaveFrameMsg{})
	}
}

// Rows renders the last published frame as terminal lines
func (c *WaveCanvas) Rows() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]string, c.h)
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.Reset()
		for x := 0; x < c.w; x++ {
			if c.front[y*c.w+x] {
				b.WriteRune('█')
			} else {
				b.WriteRune(' ')
			}
		}
		rows[y] = b.String()
	}
	return rows
}
