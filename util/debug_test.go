// util/debug_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import "testing"

func TestDebuggerIsRunning(t *testing.T) {
	t.Setenv("_", "/home/pilot/go/bin/dlv")
	if !DebuggerIsRunning() {
		t.Errorf("dlv not detected")
	}
	t.Setenv("_", "/usr/local/go/bin/go")
	if DebuggerIsRunning() {
		t.Errorf("go test taken for a debugger")
	}
}
