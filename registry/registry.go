package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/kanye-quest/CHAI/accel"
)

// Record describes the device-space counterpart of a host instance.
type Record struct {
	Address accel.Address
	Space   accel.Space
	Bytes   uint32
}

// EventType identifies a registration lifecycle event.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventDeregistered
)

// Event is delivered to observers on registration changes.
type Event struct {
	Key    any
	Record Record
	Type   EventType
}

// Observer receives registration lifecycle events.
type Observer interface {
	OnRegistryEvent(Event)
}

// Table maps host instances, by identity, to their device records.
// Keys must be pointer-backed values usable as map keys.
type Table struct {
	mu        sync.RWMutex
	records   map[any]Record
	observers []Observer
	log       *zap.Logger
}

// NewTable creates an empty table. logger nil means no logging.
func NewTable(logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		records: make(map[any]Record),
		log:     logger,
	}
}

// Register associates key with rec, replacing any previous record.
func (t *Table) Register(key any, rec Record) {
	t.mu.Lock()
	t.records[key] = rec
	obs := t.observers
	t.mu.Unlock()

	t.log.Debug("registered counterpart",
		zap.Uint32("address", uint32(rec.Address)),
		zap.String("space", rec.Space.String()),
	)
	notify(obs, Event{Key: key, Record: rec, Type: EventRegistered})
}

// Lookup returns the record for key.
func (t *Table) Lookup(key any) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[key]
	return rec, ok
}

// Deregister removes the record for key, returning it if present.
func (t *Table) Deregister(key any) (Record, bool) {
	t.mu.Lock()
	rec, ok := t.records[key]
	if ok {
		delete(t.records, key)
	}
	obs := t.observers
	t.mu.Unlock()

	if ok {
		notify(obs, Event{Key: key, Record: rec, Type: EventDeregistered})
	}
	return rec, ok
}

// Subscribe adds an observer for registration events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered records.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Each iterates over the registered records until fn returns false.
func (t *Table) Each(fn func(key any, rec Record) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for k, rec := range t.records {
		if !fn(k, rec) {
			return
		}
	}
}

func notify(obs []Observer, e Event) {
	for _, o := range obs {
		o.OnRegistryEvent(e)
	}
}

// Process-wide default table, for callers that want registration without
// plumbing a Table through their call graph.
var (
	defaultMu    sync.RWMutex
	defaultTable = NewTable(nil)
)

// Default returns the process-wide table.
func Default() *Table {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultTable
}

// SetDefault replaces the process-wide table, for tests or custom logging.
func SetDefault(t *Table) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultTable = t
}

// Register associates key with rec in the process-wide table.
func Register(key any, rec Record) {
	Default().Register(key, rec)
}

// Lookup returns the record for key from the process-wide table.
func Lookup(key any) (Record, bool) {
	return Default().Lookup(key)
}

// Deregister removes key from the process-wide table.
func Deregister(key any) (Record, bool) {
	return Default().Deregister(key)
}
