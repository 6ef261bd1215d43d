// elev/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package elev

import "errors"

var (
	ErrCancelled     = errors.New("Elevation request cancelled")
	ErrInvalidGrid   = errors.New("Invalid elevation grid")
	ErrNoData        = errors.New("No elevation data available for position")
	ErrServiceClosed = errors.New("Elevation service has been closed")
)
