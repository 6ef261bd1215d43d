// util/record.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// Address identifies a record in a store. The zero Address never refers to
// a record.
type Address uint64

// Record is implemented by the value types that are kept in stores and
// undo histories. Records are copied by value; a Record's Address stays
// the same across edits.
type Record interface {
	Address() Address
	Valid() bool
}
