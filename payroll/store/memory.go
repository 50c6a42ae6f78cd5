// Package store provides in-process Storage implementations.
package store

import (
	"context"
	"maps"
	"sync"

	"github.com/horasett/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// NewMemoryWith returns a store pre-loaded with values. The map is copied.
func NewMemoryWith(values map[string]string) *Memory {
	m := NewMemory()
	maps.Copy(m.values, values)
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

// Keys returns a copy of the stored map (for tests and debugging).
func (m *Memory) Keys() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(_ context.Context, fn func(payroll.Storage) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := maps.Clone(tm.values)

	if err := fn(&txMemoryView{parent: tm}); err != nil {
		tm.values = snapshot
		return err
	}
	return nil
}

// txMemoryView writes straight to the parent map; the caller holds the lock.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := tv.parent.values[key]
	return v, ok, nil
}

func (tv *txMemoryView) Set(_ context.Context, key, value string) error {
	tv.parent.values[key] = value
	return nil
}

func (tv *txMemoryView) Remove(_ context.Context, key string) error {
	delete(tv.parent.values, key)
	return nil
}

func (tv *txMemoryView) Clear(_ context.Context) error {
	clear(tv.parent.values)
	return nil
}
