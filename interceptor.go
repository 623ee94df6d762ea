package kurir

import (
	"context"
	"sync"
)

// ResolvedFunc handles the value produced by the previous step of a dispatch.
type ResolvedFunc[T any] func(ctx context.Context, value T) (T, error)

// RejectedFunc handles the error produced by the previous step. Returning a nil
// error recovers the dispatch with the returned value.
type RejectedFunc[T any] func(ctx context.Context, err error) (T, error)

// Interceptor is one registered handler pair.
type Interceptor[T any] struct {
	Resolved ResolvedFunc[T]
	Rejected RejectedFunc[T]
}

// InterceptorManager is an ordered registry of interceptors. The id returned by
// Use is the slot index; ejecting leaves a tombstone in the slot, so ids are never
// shifted or handed out twice. It is safe for concurrent use.
type InterceptorManager[T any] struct {
	mu           sync.RWMutex
	interceptors []*Interceptor[T]
	onChange     func(live int)
}

// NewInterceptorManager returns an empty manager.
func NewInterceptorManager[T any]() *InterceptorManager[T] {
	return &InterceptorManager[T]{}
}

// Use registers a handler pair and returns its id. rejected may be nil.
func (m *InterceptorManager[T]) Use(resolved ResolvedFunc[T], rejected RejectedFunc[T]) int {
	m.mu.Lock()
	m.interceptors = append(m.interceptors, &Interceptor[T]{
		Resolved: resolved,
		Rejected: rejected,
	})
	id := len(m.interceptors) - 1
	live := m.liveLocked()
	m.mu.Unlock()

	m.notify(live)
	return id
}

// Eject tombstones the interceptor registered under id. Unknown or already
// ejected ids are ignored.
func (m *InterceptorManager[T]) Eject(id int) {
	m.mu.Lock()
	if id < 0 || id >= len(m.interceptors) || m.interceptors[id] == nil {
		m.mu.Unlock()
		return
	}
	m.interceptors[id] = nil
	live := m.liveLocked()
	m.mu.Unlock()

	m.notify(live)
}

// ForEach visits every live interceptor in registration order. It iterates a
// snapshot, so fn may call Use or Eject.
func (m *InterceptorManager[T]) ForEach(fn func(id int, interceptor *Interceptor[T])) {
	m.mu.RLock()
	snapshot := make([]*Interceptor[T], len(m.interceptors))
	copy(snapshot, m.interceptors)
	m.mu.RUnlock()

	for id, interceptor := range snapshot {
		if interceptor != nil {
			fn(id, interceptor)
		}
	}
}

// Len returns the number of live interceptors.
func (m *InterceptorManager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.liveLocked()
}

func (m *InterceptorManager[T]) liveLocked() int {
	live := 0
	for _, interceptor := range m.interceptors {
		if interceptor != nil {
			live++
		}
	}
	return live
}

func (m *InterceptorManager[T]) notify(live int) {
	if m.onChange != nil {
		m.onChange(live)
	}
}

// Interceptors holds a client's request-side and response-side managers.
type Interceptors struct {
	Request  *InterceptorManager[*RequestConfig]
	Response *InterceptorManager[*Response]
}

func newInterceptors() *Interceptors {
	return &Interceptors{
		Request:  NewInterceptorManager[*RequestConfig](),
		Response: NewInterceptorManager[*Response](),
	}
}
