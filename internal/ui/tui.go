// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and binds the engine bridges
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run builds the program and binds the canvas and surfaces to its
// send function so engine goroutines can post updates.
func Run(ctrl Controller, canvas *WaveCanvas, surfaces *Surfaces) (*tea.Program, error) {
	p := tea.NewProgram(
		NewModel(ctrl, canvas, surfaces),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	canvas.Bind(p.Send)
	surfaces.Bind(p.Send)
	return p, nil
}
