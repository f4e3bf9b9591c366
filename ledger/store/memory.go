// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries []ledger.Entry // ordered by (sortable date, id)
	nextID  int64

	// referenceId -> entry ids; reversal must not scan the whole ledger
	refIndex map[string][]int64
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, refIndex: make(map[string][]int64)}
}

// Append adds a single entry and returns its assigned id.
func (m *Memory) Append(_ context.Context, e ledger.Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(e)
}

// AppendBatch adds multiple entries atomically.
func (m *Memory) AppendBatch(_ context.Context, entries []ledger.Entry) ([]ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate all before writing any (atomic batch)
	for _, e := range entries {
		if e.Debit < 0 || e.Credit < 0 {
			return nil, &ledger.ValidationError{Field: "amount", Reason: "debit and credit must be non-negative"}
		}
	}

	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		id, err := m.appendLocked(e)
		if err != nil {
			return nil, err
		}
		e.ID = id
		out = append(out, e)
	}
	return out, nil
}

func (m *Memory) appendLocked(e ledger.Entry) (int64, error) {
	if e.Debit < 0 || e.Credit < 0 {
		return 0, &ledger.ValidationError{Field: "amount", Reason: "debit and credit must be non-negative"}
	}
	e.ID = m.nextID
	m.nextID++

	// Binary search for insertion point to keep date order
	key := ledger.ToSortable(e.Date)
	i := sort.Search(len(m.entries), func(i int) bool {
		other := ledger.ToSortable(m.entries[i].Date)
		if other != key {
			return other > key
		}
		return m.entries[i].ID > e.ID
	})
	m.entries = append(m.entries, ledger.Entry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e

	if e.ReferenceID != "" {
		m.refIndex[e.ReferenceID] = append(m.refIndex[e.ReferenceID], e.ID)
	}
	return e.ID, nil
}

func (m *Memory) FindByReference(_ context.Context, referenceID string) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.refIndex[referenceID]
	if len(ids) == 0 {
		return nil, nil
	}
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var result []ledger.Entry
	for _, e := range m.entries {
		if wanted[e.ID] {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *Memory) DeleteMany(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := m.entries[:0]
	for _, e := range m.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
			continue
		}
		if e.ReferenceID != "" {
			m.refIndex[e.ReferenceID] = removeID(m.refIndex[e.ReferenceID], e.ID)
			if len(m.refIndex[e.ReferenceID]) == 0 {
				delete(m.refIndex, e.ReferenceID)
			}
		}
	}
	m.entries = kept
	return nil
}

func (m *Memory) ListAll(_ context.Context) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Entry, len(m.entries))
	copy(result, m.entries)
	return result, nil
}

func (m *Memory) ListInRange(_ context.Context, accountID int64, from, to string) ([]ledger.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Entry
	for _, e := range m.entries {
		if accountID != 0 && e.AccountID != accountID {
			continue
		}
		if !ledger.InRange(e.Date, from, to) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
