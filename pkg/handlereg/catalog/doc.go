// Package catalog provides a thread-safe, explicitly constructed collection
// of named tables.
//
// A renderer typically owns one handle registry per resource kind. Rather
// than reaching those registries through package-level globals, the owner
// builds a Catalog during initialization and passes it to the subsystems
// that need it:
//
//	tables := catalog.New[*handlereg.Registry[Mesh]]()
//	meshes := tables.GetOrCreate("meshes", func() *handlereg.Registry[Mesh] {
//	    return handlereg.New[Mesh](handlereg.WithName("meshes"))
//	})
//
// # Thread Safety
//
// All Catalog methods are safe for concurrent use. Range iterates over a
// snapshot, so callbacks may add or remove tables. The catalog does not
// synchronize access to the tables themselves; a handle registry still has
// exactly one owner issuing mutations.
package catalog
