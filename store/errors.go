// store/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import "errors"

var (
	ErrNoAddress          = errors.New("Record has no address")
	ErrNoRecord           = errors.New("No record at address")
	ErrReadOnly           = errors.New("Store is read-only")
	ErrUnsupportedVersion = errors.New("Unsupported store file version")
)
