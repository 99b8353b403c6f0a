package handlereg

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/handlereg/pkg/handlereg/observability"
)

// Check verifies that the identity, slot, and dense tables agree.
// It is O(n) and returns an *InvariantError for the first violation found.
func (r *Registry[V]) Check() error {
	n := len(r.values)
	if len(r.denseToSlot) != n || len(r.denseToID) != n {
		return r.violation("dense-lengths", "values=%d denseToSlot=%d denseToID=%d",
			n, len(r.denseToSlot), len(r.denseToID))
	}
	if len(r.idToSlot) != n {
		return r.violation("identity-count", "identities=%d values=%d", len(r.idToSlot), n)
	}

	for d := range n {
		slot := r.denseToSlot[d]
		if slot < 0 || slot >= len(r.slotToDense) {
			return r.violation("slot-range", "dense %d holds slot %d of %d", d, slot, len(r.slotToDense))
		}
		if got := r.slotToDense[slot]; got != d {
			return r.violation("slot-roundtrip", "dense %d holds slot %d which points at %d", d, slot, got)
		}
		id := r.denseToID[d]
		if got, ok := r.idToSlot[id]; !ok || got != slot {
			return r.violation("identity-roundtrip", "dense %d holds id %d which maps to slot %d (live=%t), want %d",
				d, id, got, ok, slot)
		}
	}

	seen := make([]bool, len(r.slotToDense))
	for _, slot := range r.freeSlots {
		if slot < 0 || slot >= len(r.slotToDense) {
			return r.violation("free-slot-range", "free slot %d of %d", slot, len(r.slotToDense))
		}
		if seen[slot] {
			return r.violation("free-slot-duplicate", "slot %d freed twice", slot)
		}
		seen[slot] = true
		if r.slotToDense[slot] != invalidDense {
			return r.violation("free-slot-live", "free slot %d points at dense %d", slot, r.slotToDense[slot])
		}
	}

	if len(r.freeSlots)+n != len(r.slotToDense) {
		return r.violation("slot-accounting", "live=%d free=%d slots=%d", n, len(r.freeSlots), len(r.slotToDense))
	}
	return nil
}

func (r *Registry[V]) violation(invariant, format string, args ...any) error {
	return &InvariantError{Table: r.name, Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}

// Audit runs Check inside a trace span when tracing is enabled, and logs
// any violation.
func (r *Registry[V]) Audit(ctx context.Context) error {
	ctx, span := r.spans.StartAuditSpan(ctx, r.name, r.instance)

	st := r.Stats()
	r.spans.AddSpanEvent(ctx, "registry.stats",
		attribute.Int("len", st.Len),
		attribute.Int("slots", st.Slots),
		attribute.Int("free_slots", st.FreeSlots),
	)

	err := r.Check()
	if err != nil {
		observability.LogAuditFailure(r.logger, err, st.Len)
	}
	r.spans.EndSpanWithError(span, err)
	return err
}
