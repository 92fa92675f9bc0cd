package table

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Map resolves rows-event table ids to tables. Readers never lock: every
// change publishes a new snapshot, so a decoder list cannot be swapped out
// while a row is being decoded with it.
type Map struct {
	mu     sync.Mutex // serializes writers
	tables atomic.Pointer[map[uint64]*Table]
	logger *zap.Logger
}

func NewMap(logger *zap.Logger) *Map {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Map{logger: logger}
	m.tables.Store(&map[uint64]*Table{})
	return m
}

func (m *Map) snapshot() map[uint64]*Table {
	return *m.tables.Load()
}

// Get returns the table registered for id.
func (m *Map) Get(id uint64) (*Table, bool) {
	t, ok := m.snapshot()[id]
	return t, ok
}

func (m *Map) Len() int {
	return len(m.snapshot())
}

// Put registers t under id, replacing any previous definition.
func (m *Map) Put(id uint64, t *Table) {
	m.update(func(tables map[uint64]*Table) {
		if old, ok := tables[id]; ok && old != t {
			m.logger.Debug("table definition replaced",
				zap.Uint64("table_id", id),
				zap.Stringer("old", old),
				zap.Stringer("new", t))
		}
		tables[id] = t
	})
}

// Invalidate drops the definition for id, e.g. after a schema change.
func (m *Map) Invalidate(id uint64) {
	m.update(func(tables map[uint64]*Table) {
		if t, ok := tables[id]; ok {
			m.logger.Debug("table definition invalidated",
				zap.Uint64("table_id", id),
				zap.Stringer("table", t))
			delete(tables, id)
		}
	})
}

// Reset drops every definition, as on a binlog rotation.
func (m *Map) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables.Store(&map[uint64]*Table{})
}

func (m *Map) update(fn func(map[uint64]*Table)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.snapshot()
	next := make(map[uint64]*Table, len(old)+1)
	for id, t := range old {
		next[id] = t
	}
	fn(next)
	m.tables.Store(&next)
}
