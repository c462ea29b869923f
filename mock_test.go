package kongo_test

import (
	"fmt"
	"testing"

	kongo "github.com/kballenegger/Kongo"
)

//==============================================================================

var context = "testing"

//==============================================================================

// logg provides a concrete implementation of a logger.
type logg struct{}

// Log logs all standard log reports.
func (l *logg) Log(context interface{}, name string, message string, data ...interface{}) {
	if testing.Verbose() {
		fmt.Printf("Log : %s : %s : %s\n", context, name, fmt.Sprintf(message, data...))
	}
}

// Error logs all error reports.
func (l *logg) Error(context interface{}, name string, err error, message string, data ...interface{}) {
	if testing.Verbose() {
		fmt.Printf("Error : %s : %s : %s : %s\n", context, name, fmt.Sprintf(message, data...), err)
	}
}

//==============================================================================

// memHandle provides an in-memory kongo.Handle, letting the record protocol
// be exercised without a live store.
type memHandle struct {
	docs       []kongo.Document
	nilCursor  bool
	lastCursor *memCursor

	finds   int
	counts  int
	inserts int
	updates int
	removes int
	saves   int

	lastSelector kongo.Document
	lastChange   kongo.Deltas
}

// matches returns true/false whether the document carries every key/value
// pair of the query.
func matches(doc, query kongo.Document) bool {
	for key, value := range query {
		if doc[key] != value {
			return false
		}
	}

	return true
}

// FindOne returns the first stored document matching the query.
func (m *memHandle) FindOne(query kongo.Document) (kongo.Document, error) {
	for _, doc := range m.docs {
		if matches(doc, query) {
			return kongo.CopyDocument(doc), nil
		}
	}

	return nil, nil
}

// Find returns a cursor over the stored documents matching the query.
func (m *memHandle) Find(query kongo.Document) (kongo.Cursor, error) {
	m.finds++

	if m.nilCursor {
		return nil, nil
	}

	var out []kongo.Document

	for _, doc := range m.docs {
		if matches(doc, query) {
			out = append(out, kongo.CopyDocument(doc))
		}
	}

	m.lastCursor = &memCursor{docs: out}
	return m.lastCursor, nil
}

// Count returns the number of stored documents matching the query.
func (m *memHandle) Count(query kongo.Document) (int, error) {
	m.counts++

	var n int

	for _, doc := range m.docs {
		if matches(doc, query) {
			n++
		}
	}

	return n, nil
}

// Insert stores a copy of the giving document.
func (m *memHandle) Insert(doc kongo.Document) error {
	m.inserts++
	m.docs = append(m.docs, kongo.CopyDocument(doc))
	return nil
}

// Update applies the giving operator deltas to every document matching the
// selector, recording the call for assertions. Only the "$set" and "$unset"
// operators are interpreted, as a store would.
func (m *memHandle) Update(selector kongo.Document, change kongo.Deltas) error {
	m.updates++
	m.lastSelector = selector
	m.lastChange = change

	for _, doc := range m.docs {
		if !matches(doc, selector) {
			continue
		}

		for op, fields := range change {
			switch op {
			case "$set":
				for field, value := range fields {
					doc[field] = value
				}
			case "$unset":
				for field := range fields {
					delete(doc, field)
				}
			}
		}
	}

	return nil
}

// Remove deletes every stored document matching the selector.
func (m *memHandle) Remove(selector kongo.Document) error {
	m.removes++

	var kept []kongo.Document

	for _, doc := range m.docs {
		if !matches(doc, selector) {
			kept = append(kept, doc)
		}
	}

	m.docs = kept
	return nil
}

// Save overwrites the document matching the selector, appending it when
// absent.
func (m *memHandle) Save(selector kongo.Document, doc kongo.Document) error {
	m.saves++

	for index, stored := range m.docs {
		if matches(stored, selector) {
			m.docs[index] = kongo.CopyDocument(doc)
			return nil
		}
	}

	m.docs = append(m.docs, kongo.CopyDocument(doc))
	return nil
}

//==============================================================================

// memCursor implements kongo.Cursor over a fixed document list.
type memCursor struct {
	docs   []kongo.Document
	pos    int
	closed bool
}

// Next advances the cursor, handing out the next document.
func (c *memCursor) Next(result *kongo.Document) bool {
	if c.pos >= len(c.docs) {
		return false
	}

	*result = c.docs[c.pos]
	c.pos++
	return true
}

// Err returns the error state of the cursor.
func (c *memCursor) Err() error {
	return nil
}

// Timeout returns true/false whether the cursor timed out.
func (c *memCursor) Timeout() bool {
	return false
}

// Close marks the cursor closed.
func (c *memCursor) Close() error {
	c.closed = true
	return nil
}

//==============================================================================

// newTestCollection wires a fresh collection and in-memory handle with an
// isolated capability registry.
func newTestCollection(name string) (*kongo.Collection, *memHandle) {
	return newTestCollectionWith(name, kongo.NewRegistry())
}

// newTestCollectionWith wires a fresh collection and in-memory handle with
// the giving capability registry.
func newTestCollectionWith(name string, reg *kongo.Registry) (*kongo.Collection, *memHandle) {
	h := &memHandle{}

	kongo.RegisterHandleFunc(func(string) (kongo.Handle, error) {
		return h, nil
	})

	return kongo.NewCollectionWith(&logg{}, name, reg), h
}

//==============================================================================
