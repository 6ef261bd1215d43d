// util/debug.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"os"
	"path/filepath"
)

// DebuggerIsRunning reports whether the program was launched by the dlv
// debugger. Request timeouts aren't enforced in that case, since
// stopping at a breakpoint would otherwise trip them.
func DebuggerIsRunning() bool {
	launcher, ok := os.LookupEnv("_")
	return ok && filepath.Base(launcher) == "dlv"
}
