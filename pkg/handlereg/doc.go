/*
Package handlereg provides a dense handle registry: a container that maps
caller-chosen 64-bit identities to values while keeping every live value
contiguous in one slice.

# Overview

Renderers and simulations refer to meshes, GPU resource handles, and
entities through identities that must survive reorganization of the
backing storage, yet they also want to walk every live value linearly for
batched uploads. Registry gives both:
  - O(1) insert, lookup, and erase by identity
  - A hole-free dense value slice for iteration
  - Identities that stay valid for other entries when one is erased

# Basic Usage

	meshes := handlereg.New[Mesh](handlereg.WithName("meshes"), handlereg.WithCapacity(1024))

	if !meshes.EmplaceWithID(10, Mesh{Name: "crate"}) {
	    // 10 was already live; nothing changed
	}

	if m := meshes.Get(10); m != nil {
	    m.Dirty = true
	}

	meshes.Erase(10)

# Dense Access

Values returns the packed slice; IDs, IDAt, and DenseIndexOf correlate
positions in it back to identities:

	vertices := meshes.Values()
	for i := range vertices {
	    id, _ := meshes.IDAt(i)
	    upload(i, id, &vertices[i])
	}

	for id, m := range meshes.All() {
	    ...
	}

Erase swaps the last value into the hole, so dense positions and iteration
order change after every erase. Pointers and slices obtained from the
registry are valid only until the next mutating call.

# Errors

The core operations report conditions as results: EmplaceWithID and Erase
return false, Get returns nil. Insert and Remove are the same operations
with errors:

	err := meshes.Insert(10, m)
	if errors.Is(err, handlereg.ErrDuplicateIdentity) {
	    ...
	}

A registry does not detect stale identities. After Erase(10), a later
insert of a different identity may reuse the internal slot, and 10 simply
reports not found.

# Observability

Logging, metrics, and tracing are opt-in:

	meshes := handlereg.New[Mesh](
	    handlereg.WithName("meshes"),
	    handlereg.WithLogger(logger),
	    handlereg.WithMetrics(true),
	    handlereg.WithTracing(true),
	)

	if err := meshes.Audit(ctx); err != nil {
	    // the tables disagree; err wraps ErrCorrupted
	}

# Thread Safety

A Registry is not safe for concurrent use. One owner issues all calls;
reads must not overlap a mutation from another goroutine. Use the catalog
package to share a set of registries between subsystems by name.
*/
package handlereg
