package core

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ObserverFunc receives a notification payload. A non-nil error is collected
// by the notifier and surfaced on the channel returned by Notify.
type ObserverFunc[T any] func(data T) error

// Observer is the registration token returned by Observable.Add. It is the
// only way to remove a previously added observer.
type Observer[T any] struct {
	id uuid.UUID
	fn ObserverFunc[T]
}

// ID returns the unique identifier assigned to this observer at Add time.
func (o *Observer[T]) ID() uuid.UUID {
	return o.id
}

// Observable is a minimal multicast notification channel. Observers may do
// asynchronous work inside their callback; Notify runs them off the caller's
// goroutine and the returned channel closes once every observer has finished.
type Observable[T any] struct {
	mu        sync.Mutex
	observers []*Observer[T]
}

func NewObservable[T any]() *Observable[T] {
	return &Observable[T]{}
}

// Add registers an observer and returns its token. A nil callback is not
// registered and yields a nil token.
func (o *Observable[T]) Add(fn ObserverFunc[T]) *Observer[T] {
	if fn == nil {
		return nil
	}
	obs := &Observer[T]{
		id: uuid.New(),
		fn: fn,
	}
	o.mu.Lock()
	o.observers = append(o.observers, obs)
	o.mu.Unlock()
	return obs
}

// Remove unregisters the observer identified by the given token. It returns
// false when the token is nil or not registered.
func (o *Observable[T]) Remove(obs *Observer[T]) bool {
	if obs == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, registered := range o.observers {
		if registered.id == obs.id {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every registered observer.
func (o *Observable[T]) Clear() {
	o.mu.Lock()
	o.observers = nil
	o.mu.Unlock()
}

// HasObservers reports whether at least one observer is registered.
func (o *Observable[T]) HasObservers() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.observers) > 0
}

// Notify delivers data to every observer registered at the time of the call.
// Observers run sequentially on a dedicated goroutine so the notifying call
// never blocks. The returned channel yields the joined observer errors (or
// nothing) and is closed once all observer work has completed, which is the
// way callers wait for asynchronous observer side effects.
func (o *Observable[T]) Notify(data T) <-chan error {
	o.mu.Lock()
	snapshot := make([]*Observer[T], len(o.observers))
	copy(snapshot, o.observers)
	o.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		var errs []error
		for _, obs := range snapshot {
			if err := obs.fn(data); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			done <- errors.Join(errs...)
		}
	}()
	return done
}

// NotifyAndWait is Notify followed by a wait for observer completion.
func (o *Observable[T]) NotifyAndWait(data T) error {
	return <-o.Notify(data)
}
