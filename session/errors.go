// session/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package session

import "errors"

var (
	ErrNoElevationService = errors.New("No elevation service available")
	ErrNoSuchRecord       = errors.New("No such runway")
	ErrNothingToRedo      = errors.New("Nothing to redo")
	ErrNothingToUndo      = errors.New("Nothing to undo")
)
