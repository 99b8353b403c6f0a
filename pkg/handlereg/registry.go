package handlereg

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/randalmurphal/handlereg/pkg/handlereg/observability"
)

// invalidDense marks a slot that is on the free list.
const invalidDense = -1

// Registry maps caller-chosen 64-bit identities to values kept densely
// packed in a single slice.
//
// Identities resolve through a stable slot table:
//
//	id --idToSlot--> slot --slotToDense--> dense index --denseToID--> id
//
// Erase moves the last value into the vacated dense index, so dense indices
// and iteration order change while identities and slots do not. Pointers
// returned by Get, All, and Values are valid only until the next Insert,
// Erase, Take, Remove, Reserve, or Clear.
//
// A Registry has a single owner and performs no locking. The zero value is
// not ready for use; construct registries with New.
type Registry[V any] struct {
	values      []V
	denseToSlot []int
	denseToID   []uint64

	slotToDense []int
	freeSlots   []int
	idToSlot    map[uint64]int
	mapHint     int

	name     string
	instance string
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
}

// Stats reports the occupancy of a registry's backing tables.
type Stats struct {
	// Len is the number of live entries.
	Len int
	// Cap is the dense capacity available without reallocation.
	Cap int
	// Slots is the size of the slot table, live and free.
	Slots int
	// FreeSlots is the number of slots awaiting reuse.
	FreeSlots int
}

// New creates an empty registry.
func New[V any](opts ...Option) *Registry[V] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	instance := uuid.NewString()
	r := &Registry[V]{
		idToSlot: make(map[uint64]int),
		name:     s.name,
		instance: instance,
		logger:   observability.EnrichLogger(s.logger, s.name, instance),
		metrics:  s.metrics,
		spans:    s.spans,
	}
	if s.capacity > 0 {
		r.Reserve(s.capacity)
	}
	return r
}

// Name returns the table name.
func (r *Registry[V]) Name() string { return r.name }

// Instance returns the unique ID assigned to this registry at construction.
func (r *Registry[V]) Instance() string { return r.instance }

// Reserve grows the backing storage to hold at least n entries without
// reallocating. It never shrinks anything.
func (r *Registry[V]) Reserve(n int) {
	if n <= 0 {
		return
	}
	r.values = grow(r.values, n)
	r.denseToSlot = grow(r.denseToSlot, n)
	r.denseToID = grow(r.denseToID, n)
	r.slotToDense = grow(r.slotToDense, n)
	if n > r.mapHint {
		m := make(map[uint64]int, n)
		maps.Copy(m, r.idToSlot)
		r.idToSlot = m
		r.mapHint = n
	}
	observability.LogReserve(r.logger, n, cap(r.values))
}

func grow[T any](s []T, n int) []T {
	if n <= cap(s) {
		return s
	}
	return slices.Grow(s, n-len(s))
}

// EmplaceWithID stores v under id and reports whether it did. It returns
// false, leaving the registry unchanged, if id is already live.
func (r *Registry[V]) EmplaceWithID(id uint64, v V) bool {
	if _, exists := r.idToSlot[id]; exists {
		observability.LogDuplicate(r.logger, id)
		r.metrics.RecordInsert(context.Background(), r.name, false)
		return false
	}

	slot := r.allocSlot()
	dense := len(r.values)
	r.values = append(r.values, v)
	r.denseToSlot = append(r.denseToSlot, slot)
	r.denseToID = append(r.denseToID, id)
	r.slotToDense[slot] = dense
	r.idToSlot[id] = slot

	r.metrics.RecordInsert(context.Background(), r.name, true)
	return true
}

// Insert is EmplaceWithID with an error result. A live id yields an
// *IdentityError wrapping ErrDuplicateIdentity.
func (r *Registry[V]) Insert(id uint64, v V) error {
	if !r.EmplaceWithID(id, v) {
		return &IdentityError{Table: r.name, ID: id, Op: "insert", Err: ErrDuplicateIdentity}
	}
	return nil
}

// allocSlot pops the free list, or extends the slot table when it is empty.
func (r *Registry[V]) allocSlot() int {
	if n := len(r.freeSlots); n > 0 {
		slot := r.freeSlots[n-1]
		r.freeSlots = r.freeSlots[:n-1]
		return slot
	}
	r.slotToDense = append(r.slotToDense, invalidDense)
	return len(r.slotToDense) - 1
}

// Get returns a pointer to the value stored under id, or nil if id is not live.
func (r *Registry[V]) Get(id uint64) *V {
	slot, ok := r.idToSlot[id]
	if !ok {
		return nil
	}
	return &r.values[r.slotToDense[slot]]
}

// Lookup returns a copy of the value stored under id and whether id is live.
func (r *Registry[V]) Lookup(id uint64) (V, bool) {
	if p := r.Get(id); p != nil {
		return *p, true
	}
	var zero V
	return zero, false
}

// Contains reports whether id is live.
func (r *Registry[V]) Contains(id uint64) bool {
	_, ok := r.idToSlot[id]
	return ok
}

// Erase removes the entry for id and reports whether there was one.
func (r *Registry[V]) Erase(id uint64) bool {
	_, ok := r.Take(id)
	return ok
}

// Remove is Erase with an error result. An absent id yields an
// *IdentityError wrapping ErrNotFound.
func (r *Registry[V]) Remove(id uint64) error {
	if !r.Erase(id) {
		return &IdentityError{Table: r.name, ID: id, Op: "erase", Err: ErrNotFound}
	}
	return nil
}

// Take removes the entry for id and returns its value, so the caller can
// release whatever external resource it names.
func (r *Registry[V]) Take(id uint64) (V, bool) {
	var zero V
	slot, ok := r.idToSlot[id]
	if !ok {
		r.metrics.RecordErase(context.Background(), r.name, false)
		return zero, false
	}

	dense := r.slotToDense[slot]
	last := len(r.values) - 1
	v := r.values[dense]

	if dense != last {
		r.values[dense] = r.values[last]
		r.denseToSlot[dense] = r.denseToSlot[last]
		r.denseToID[dense] = r.denseToID[last]
		// The moved entry keeps its slot; only the slot's target changes.
		r.slotToDense[r.denseToSlot[dense]] = dense
	}

	r.values[last] = zero
	r.values = r.values[:last]
	r.denseToSlot = r.denseToSlot[:last]
	r.denseToID = r.denseToID[:last]

	r.slotToDense[slot] = invalidDense
	r.freeSlots = append(r.freeSlots, slot)
	delete(r.idToSlot, id)

	r.metrics.RecordErase(context.Background(), r.name, true)
	return v, true
}

// Clear removes every entry and forgets all slots. Reserved capacity is kept.
func (r *Registry[V]) Clear() {
	removed := len(r.values)

	clear(r.values)
	r.values = r.values[:0]
	r.denseToSlot = r.denseToSlot[:0]
	r.denseToID = r.denseToID[:0]
	r.slotToDense = r.slotToDense[:0]
	r.freeSlots = r.freeSlots[:0]
	clear(r.idToSlot)

	r.metrics.RecordClear(context.Background(), r.name, removed)
	observability.LogClear(r.logger, removed)
}

// Len returns the number of live entries.
func (r *Registry[V]) Len() int { return len(r.values) }

// Empty reports whether there are no live entries.
func (r *Registry[V]) Empty() bool { return len(r.values) == 0 }

// Cap returns how many entries fit before the dense storage reallocates.
func (r *Registry[V]) Cap() int { return cap(r.values) }

// Values returns the live values in dense order. The slice aliases the
// registry's storage: elements may be modified in place, but the slice is
// invalid after the next mutating call.
func (r *Registry[V]) Values() []V {
	n := len(r.values)
	return r.values[:n:n]
}

// IDs returns a copy of the live identities in dense order, so that
// IDs()[i] owns Values()[i].
func (r *Registry[V]) IDs() []uint64 {
	return slices.Clone(r.denseToID)
}

// All returns an iterator over identities and value pointers in dense order.
// Mutating the registry during iteration invalidates the iteration.
func (r *Registry[V]) All() iter.Seq2[uint64, *V] {
	return func(yield func(uint64, *V) bool) {
		for d := 0; d < len(r.values); d++ {
			if !yield(r.denseToID[d], &r.values[d]) {
				return
			}
		}
	}
}

// Range calls fn for each entry in dense order. If fn returns false,
// iteration stops.
func (r *Registry[V]) Range(fn func(id uint64, v *V) bool) {
	for id, v := range r.All() {
		if !fn(id, v) {
			return
		}
	}
}

// IDAt returns the identity owning the value at dense index d.
func (r *Registry[V]) IDAt(d int) (uint64, bool) {
	if d < 0 || d >= len(r.denseToID) {
		return 0, false
	}
	return r.denseToID[d], true
}

// DenseIndexOf returns the current dense index of id's value.
// The index changes whenever another entry is erased.
func (r *Registry[V]) DenseIndexOf(id uint64) (int, bool) {
	slot, ok := r.idToSlot[id]
	if !ok {
		return 0, false
	}
	return r.slotToDense[slot], true
}

// Stats reports table occupancy.
func (r *Registry[V]) Stats() Stats {
	return Stats{
		Len:       len(r.values),
		Cap:       cap(r.values),
		Slots:     len(r.slotToDense),
		FreeSlots: len(r.freeSlots),
	}
}
