// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// =============================================================================
// Messages
// =============================================================================

// autoplayTickMsg advances the replay while autoplay is on.
type autoplayTickMsg struct{}

// autoplayInterval is the delay between autoplay steps.
const autoplayInterval = 400 * time.Millisecond

// =============================================================================
// Model
// =============================================================================

// stepFrame is one replay position: a deduction and the grid after it.
type stepFrame struct {
	step solver.StepInfo
	grid grid.Grid
	pass int
}

// watchModel replays a recorded solve one deduction at a time. Frames
// are precomputed, so navigation is free in both directions.
type watchModel struct {
	start  grid.Grid
	status string
	frames []stepFrame

	// idx is the current frame; -1 shows the starting grid.
	idx      int
	playing  bool
	quitting bool
	ready    bool
	width    int
	height   int
	viewport viewport.Model
}

// newWatchModel builds a replay positioned on the starting grid.
func newWatchModel(start grid.Grid, status string, frames []stepFrame) watchModel {
	return watchModel{
		start:  start,
		status: status,
		frames: frames,
		idx:    -1,
	}
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		gridHeight := 14
		footerHeight := 2
		viewportHeight := m.height - headerHeight - gridHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}

		m.updateViewportContent()

	case tea.KeyMsg:
		// Handled keys return early; the space key in particular is
		// also a viewport page-down binding and must not reach it.
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "right", "l", "n", " ":
			m.playing = false
			m.advance()
			return m, nil

		case "left", "h", "p":
			m.playing = false
			m.rewind()
			return m, nil

		case "a", "A":
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
			return m, nil

		case "g", "home":
			m.playing = false
			m.idx = -1
			m.updateViewportContent()
			return m, nil

		case "G", "end":
			m.playing = false
			m.idx = len(m.frames) - 1
			m.updateViewportContent()
			return m, nil
		}

		// Everything else, j/k and ctrl+d/ctrl+u included, is viewport
		// scrolling handled by its own key map below.

	case autoplayTickMsg:
		if !m.playing {
			return m, nil
		}
		m.advance()
		if m.atEnd() {
			m.playing = false
			return m, nil
		}
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Loading...\n"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	renderer := GridRenderer{Start: m.start}
	b.WriteString(renderer.Render(m.currentGrid(), m.currentHighlight()))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// =============================================================================
// Navigation
// =============================================================================

func (m *watchModel) advance() {
	if m.idx < len(m.frames)-1 {
		m.idx++
		m.updateViewportContent()
	}
}

func (m *watchModel) rewind() {
	if m.idx > -1 {
		m.idx--
		m.updateViewportContent()
	}
}

func (m *watchModel) atEnd() bool {
	return m.idx >= len(m.frames)-1
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(autoplayInterval, func(time.Time) tea.Msg {
		return autoplayTickMsg{}
	})
}

// currentGrid returns the snapshot for the current replay position.
func (m watchModel) currentGrid() grid.Grid {
	if m.idx < 0 {
		return m.start
	}
	return m.frames[m.idx].grid
}

// currentHighlight marks the cell the current step filled.
func (m watchModel) currentHighlight() *grid.Position {
	if m.idx < 0 {
		return nil
	}
	step := m.frames[m.idx].step
	return &grid.Position{Row: step.Row, Col: step.Column}
}

// =============================================================================
// Viewport Content
// =============================================================================

// updateViewportContent rebuilds the trace pane with the deductions up
// to the current position and keeps the newest line visible.
func (m *watchModel) updateViewportContent() {
	if !m.ready {
		return
	}

	if m.idx < 0 {
		m.viewport.SetContent(watchMutedStyle.Render("press → or space to step through the solve"))
		return
	}

	var b strings.Builder
	for i := 0; i <= m.idx; i++ {
		b.WriteString(FormatStep(i+1, m.frames[i].step))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// =============================================================================
// Header / Footer
// =============================================================================

func (m watchModel) renderHeader() string {
	title := watchTitleStyle.Render("sudoku replay")

	position := fmt.Sprintf("start  (%d steps total)", len(m.frames))
	strategy := ""
	if m.idx >= 0 {
		frame := m.frames[m.idx]
		position = fmt.Sprintf("step %d/%d  pass %d", m.idx+1, len(m.frames), frame.pass)
		strategy = watchStrategyStyle.Render(frame.step.Strategy)
	}

	line := fmt.Sprintf("%s  %s  %s", title, watchMutedStyle.Render(position), strategy)
	return line + "\n"
}

func (m watchModel) renderFooter() string {
	help := strings.Join([]string{
		watchKeyStyle.Render("←/→") + watchHelpStyle.Render(" step"),
		watchKeyStyle.Render("a") + watchHelpStyle.Render(" autoplay"),
		watchKeyStyle.Render("g/G") + watchHelpStyle.Render(" ends"),
		watchKeyStyle.Render("j/k") + watchHelpStyle.Render(" scroll"),
		watchKeyStyle.Render("q") + watchHelpStyle.Render(" quit"),
	}, "  ")

	var badge string
	switch m.status {
	case engine.StatusSolved.String():
		badge = watchSolvedStyle.Render("solved")
	case engine.StatusStuck.String():
		badge = watchStuckStyle.Render("stuck")
	default:
		badge = watchInvalidStyle.Render("invalid")
	}

	return help + "  " + badge
}

// =============================================================================
// Styles
// =============================================================================

var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorTealBright)

	watchStrategyStyle = lipgloss.NewStyle().
				Foreground(ux.ColorTealPrimary)

	watchMutedStyle = lipgloss.NewStyle().
			Foreground(ux.ColorMuted)

	watchKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorTealDeep)

	watchHelpStyle = lipgloss.NewStyle().
			Foreground(ux.ColorMuted)

	watchSolvedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ux.ColorSuccess)

	watchStuckStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ux.ColorWarning)

	watchInvalidStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ux.ColorError)
)
