package kongo

import (
	"errors"
	"sync"
)

//==============================================================================

// Handle defines the operations a backing store must provide over the
// documents of one collection. All operations are synchronous round-trips;
// retries, timeouts and concurrency safety belong to the implementation.
type Handle interface {
	FindOne(query Document) (Document, error)
	Find(query Document) (Cursor, error)
	Count(query Document) (int, error)
	Insert(doc Document) error
	Update(selector Document, change Deltas) error
	Remove(selector Document) error
	Save(selector Document, doc Document) error
}

// Cursor defines a forward-only iterator over the documents produced by a
// Handle.Find call.
type Cursor interface {
	Next(result *Document) bool
	Err() error
	Close() error
	Timeout() bool
}

//==============================================================================

// HandleFunc defines the process-wide fetch function which resolves a
// collection name into its backing store handle.
type HandleFunc func(name string) (Handle, error)

// ErrNotInitialized is returned when a collection resolves its backing
// handle before any handle function has been configured.
var ErrNotInitialized = errors.New("Handle Function Not Configured")

// handleLock provides a mutex for controlling access to the handle function.
var handleLock sync.Mutex

// handleFn contains the process-wide handle fetch function.
var handleFn HandleFunc

// RegisterHandleFunc sets the process-wide handle fetch function. It is
// intended to be called exactly once during startup before any collection
// resolves its handle; re-registration after first use is unsupported.
func RegisterHandleFunc(fn HandleFunc) {
	handleLock.Lock()
	defer handleLock.Unlock()
	handleFn = fn
}

// resolveHandle fetches the backing handle for the giving collection name.
func resolveHandle(name string) (Handle, error) {
	handleLock.Lock()
	fn := handleFn
	handleLock.Unlock()

	if fn == nil {
		return nil, ErrNotInitialized
	}

	return fn(name)
}

//==============================================================================
