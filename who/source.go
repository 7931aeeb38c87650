/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package who

import (
	"sync/atomic"
	"time"
)

type snapshot struct {
	table    *ReferenceTable
	loadedAt time.Time
	origin   string
}

// Source holds the reference table currently in use. A refresh swaps in a
// whole new table; readers that already hold the old table keep using it.
type Source struct {
	current atomic.Pointer[snapshot]
}

// NewSource returns a Source serving t.
func NewSource(t *ReferenceTable, origin string) *Source {
	s := &Source{}
	s.Replace(t, origin)
	return s
}

// Replace swaps the served table. A nil table is stored as an empty one.
func (s *Source) Replace(t *ReferenceTable, origin string) {
	if t == nil {
		t = NewReferenceTable(nil)
	}
	s.current.Store(&snapshot{table: t, loadedAt: time.Now().UTC(), origin: origin})
}

// Table returns the current table, never nil.
func (s *Source) Table() *ReferenceTable {
	if snap := s.current.Load(); snap != nil {
		return snap.table
	}
	return NewReferenceTable(nil)
}

// LoadedAt returns when the current table was installed and where it came from.
func (s *Source) LoadedAt() (time.Time, string) {
	if snap := s.current.Load(); snap != nil {
		return snap.loadedAt, snap.origin
	}
	return time.Time{}, ""
}
