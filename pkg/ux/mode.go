// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// OutputMode controls whether output uses colors and box drawing.
type OutputMode string

const (
	// ModeRich enables colors, icons, and box drawing
	ModeRich OutputMode = "rich"

	// ModePlain outputs unstyled text suitable for scripting and pipes
	ModePlain OutputMode = "plain"
)

var (
	currentMode = ModeRich
	modeMu      sync.RWMutex
)

// GetMode returns the current output mode
func GetMode() OutputMode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// SetMode updates the current output mode
func SetMode(mode OutputMode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = mode
}

// InitMode picks the output mode from the environment. NO_COLOR and
// non-terminal stdout both force plain output.
func InitMode() {
	if os.Getenv("NO_COLOR") != "" {
		SetMode(ModePlain)
		return
	}
	if !StdoutIsTerminal() {
		SetMode(ModePlain)
		return
	}
	SetMode(ModeRich)
}

// StdoutIsTerminal reports whether stdout is an interactive terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
