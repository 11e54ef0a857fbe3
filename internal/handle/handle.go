// Package handle implements the opaque-handle registry that bridges
// Go-owned native resources (database connections, caches, timers) to
// compiled code across the runtime ABI boundary. Handle 0 is reserved
// for null; every other handle is live until Drop.
//
// Grounded on original_source/crates/perry-stdlib/src/common/handle.rs,
// which uses a DashMap keyed by an atomically incremented i64. Go has no
// DashMap in the pack's dependency surface, so this uses sync.Map (the
// stdlib's own lock-free-reads concurrent map) plus an atomic counter,
// which is the same "lock-free get/insert, atomic next-id" shape.
package handle

import (
	"sync"
	"sync/atomic"
)

// Handle is an opaque integer identifier for a registered resource.
type Handle int64

// Invalid is the reserved null handle; Register never returns it.
const Invalid Handle = 0

// Resource is the optional contract a registered value can satisfy.
// Adapters that own an OS resource (a connection, a file descriptor, a
// running timer) implement Close so DropResource can release it instead
// of leaving it to the garbage collector's finalizer queue.
type Resource interface {
	Close() error
}

// Registry is a concurrent-safe handle table. The zero value is not
// usable; construct with New.
type Registry struct {
	next atomic.Int64
	m    sync.Map
}

// New returns an empty registry with handle allocation starting at 1.
func New() *Registry {
	r := &Registry{}
	r.next.Store(1)
	return r
}

// Register stores v and returns a fresh non-zero handle for it.
func (r *Registry) Register(v any) Handle {
	h := Handle(r.next.Add(1) - 1)
	r.m.Store(h, v)
	return h
}

// Get returns the value registered under h, or (nil, false) if h is
// invalid, unknown, or has been dropped.
func (r *Registry) Get(h Handle) (any, bool) {
	if h == Invalid {
		return nil, false
	}
	return r.m.Load(h)
}

// GetAs is a typed convenience wrapper over Get.
func GetAs[T any](r *Registry, h Handle) (T, bool) {
	var zero T
	v, ok := r.Get(h)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Take removes and returns the value registered under h.
func (r *Registry) Take(h Handle) (any, bool) {
	if h == Invalid {
		return nil, false
	}
	return r.m.LoadAndDelete(h)
}

// Drop removes h from the registry without returning its value.
func (r *Registry) Drop(h Handle) bool {
	if h == Invalid {
		return false
	}
	_, existed := r.m.LoadAndDelete(h)
	return existed
}

// Exists reports whether h currently refers to a live value.
func (r *Registry) Exists(h Handle) bool {
	_, ok := r.Get(h)
	return ok
}

// DropResource removes h and, if its value implements Resource, closes
// it. The close error is returned; a missing or non-Resource handle is
// not an error.
func (r *Registry) DropResource(h Handle) error {
	v, ok := r.Take(h)
	if !ok {
		return nil
	}
	if res, ok := v.(Resource); ok {
		return res.Close()
	}
	return nil
}
