package kongo

import (
	"errors"
	"fmt"

	"gopkg.in/mgo.v2/bson"

	"github.com/kballenegger/Kongo/utils"
)

//==============================================================================

// ErrMissingID is returned when an update or delete is issued for a record
// lacking its canonical identifier.
var ErrMissingID = errors.New("Record Lacks Wanted Key: _id")

// ErrStaleRecord is returned when the deprecated save path is invoked on a
// record which has already issued a partial update.
var ErrStaleRecord = errors.New("Record Is Stale")

// ErrArgCount is returned when a dynamic property accessor is invoked with
// the wrong number of arguments.
var ErrArgCount = errors.New("Invalid Argument Count")

//==============================================================================

// Record wraps a single stored document, accumulating pending partial
// mutations (deltas) until they are flushed as one atomic update keyed by
// the document's identifier. A record holds no synchronization; it must not
// be shared across concurrent writers without external coordination.
type Record struct {
	col    *Collection
	doc    Document
	deltas Deltas
	ops    map[string]Op
	caps   []string
	stale  bool
}

// newRecord wraps the giving document in a record owned by this collection,
// applying the record capabilities registered for the collection name.
func (c *Collection) newRecord(doc Document) *Record {
	ops, caps := opTable(c.reg.Resolve(KindRecord, c.name))

	return &Record{
		col:    c,
		doc:    doc,
		deltas: make(Deltas),
		ops:    ops,
		caps:   caps,
	}
}

//==============================================================================

// Collection returns the collection this record was produced by.
func (r *Record) Collection() *Collection {
	return r.col
}

// Capabilities returns the names of the capabilities applied to this record
// in application order.
func (r *Record) Capabilities() []string {
	caps := make([]string, len(r.caps))
	copy(caps, r.caps)
	return caps
}

// Stale returns true/false whether this record has already issued a partial
// update, which blocks the deprecated Save path.
func (r *Record) Stale() bool {
	return r.stale
}

//==============================================================================

// Get returns the current in-memory document value for the giving key. It
// performs no store round-trip.
func (r *Record) Get(key string) interface{} {
	return r.doc[key]
}

// Set updates the in-memory document value for the giving key and records a
// "$set" delta entry for it, overwriting any previously recorded "$set"
// delta for the same key. The canonical identifier is immutable once
// assigned; writes to "_id" after assignment are ignored.
func (r *Record) Set(key string, value interface{}) {
	if key == "_id" {
		if _, ok := r.doc["_id"]; ok {
			r.col.Log(r.col.name, "Record.Set", "Ignored : _id Is Immutable")
			return
		}
	}

	r.doc[key] = value
	r.Delta("$set", Document{key: value})
}

// Delta merges the giving field set into the delta bucket for the operator
// name, later calls for the same operator and field overwriting earlier
// ones. Operator names beyond "$set" are stored and forwarded verbatim,
// never validated or interpreted. Returns the record for chaining.
func (r *Record) Delta(op string, fields Document) *Record {
	bucket, ok := r.deltas[op]
	if !ok {
		bucket = make(Document)
		r.deltas[op] = bucket
	}

	for field, value := range fields {
		bucket[field] = value
	}

	return r
}

// Unset removes the giving key from the in-memory document and records a
// "$unset" delta entry for it.
func (r *Record) Unset(key string) {
	delete(r.doc, key)
	r.Delta("$unset", Document{key: 1})
}

// Pending returns a copy of the accumulated deltas awaiting the next Update.
func (r *Record) Pending() Deltas {
	pending := make(Deltas)

	for op, fields := range r.deltas {
		pending[op] = CopyDocument(fields)
	}

	return pending
}

// ToHash returns a copy of the record's current in-memory document.
func (r *Record) ToHash() Document {
	return CopyDocument(r.doc)
}

//==============================================================================

// Prop provides dynamic property-style access over the record's document:
// with no arguments it reads the named key, with one argument it writes it,
// any other count fails with ErrArgCount.
func (r *Record) Prop(name string, args ...interface{}) (interface{}, error) {
	switch len(args) {
	case 0:
		return r.Get(name), nil
	case 1:
		r.Set(name, args[0])
		return args[0], nil
	default:
		return nil, ErrArgCount
	}
}

// Invoke dispatches the named capability operation applied to this record,
// falling back to dynamic property access when no capability defines it.
func (r *Record) Invoke(name string, args ...interface{}) (interface{}, error) {
	if op, ok := r.ops[name]; ok {
		return op(r, args...)
	}

	return r.Prop(name, args...)
}

//==============================================================================

// Update merges the giving extra deltas into the accumulated ones (extras
// win on conflict), clears the accumulator and issues one atomic partial
// update keyed by the record's identifier. It is a no-op when both are
// empty. The record transitions to Stale on success; further mutation stays
// permitted, only the deprecated Save path is blocked.
func (r *Record) Update(extra Deltas) error {
	if len(r.deltas) == 0 && len(extra) == 0 {
		return nil
	}

	id, ok := r.doc["_id"]
	if !ok {
		r.col.Error(r.col.name, "Record.Update", ErrMissingID, "Completed")
		return ErrMissingID
	}

	change := r.deltas
	r.deltas = make(Deltas)

	for op, fields := range extra {
		bucket, ok := change[op]
		if !ok {
			bucket = make(Document)
			change[op] = bucket
		}

		for field, value := range fields {
			bucket[field] = value
		}
	}

	h, err := r.col.Handle()
	if err != nil {
		return err
	}

	selector := Document{"_id": id}
	r.col.Log(r.col.name, "Record.Update", "db.%s.update(%s,%s)", r.col.name, utils.Query.Query(selector), utils.Query.Query(change))

	if err := h.Update(selector, change); err != nil {
		r.col.Error(r.col.name, "Record.Update", err, "Completed")
		return err
	}

	r.stale = true
	return nil
}

// Delete removes the record's document from the store by its identifier.
func (r *Record) Delete() error {
	id, ok := r.doc["_id"]
	if !ok {
		r.col.Error(r.col.name, "Record.Delete", ErrMissingID, "Completed")
		return ErrMissingID
	}

	h, err := r.col.Handle()
	if err != nil {
		return err
	}

	selector := Document{"_id": id}
	r.col.Log(r.col.name, "Record.Delete", "db.%s.remove(%s)", r.col.name, utils.Query.Query(selector))

	if err := h.Remove(selector); err != nil {
		r.col.Error(r.col.name, "Record.Delete", err, "Completed")
		return err
	}

	return nil
}

//==============================================================================

// SaveOptions configures the deprecated Save path.
type SaveOptions struct {
	// Force skips the staleness check and overwrites regardless.
	Force bool
}

// Save issues a full-document overwrite of the stored document, failing
// with ErrStaleRecord once a partial update has been issued unless forced.
// The warning fires regardless of outcome.
//
// Deprecated: Save predates the delta protocol and overwrites fields it
// never touched; use Update.
func (r *Record) Save(opts SaveOptions) error {
	r.col.Log(r.col.name, "Record.Save", "Deprecated : Save overwrites the full document : Use Update")

	if r.stale && !opts.Force {
		r.col.Error(r.col.name, "Record.Save", ErrStaleRecord, "Completed")
		return ErrStaleRecord
	}

	id, ok := r.doc["_id"]
	if !ok {
		r.col.Error(r.col.name, "Record.Save", ErrMissingID, "Completed")
		return ErrMissingID
	}

	h, err := r.col.Handle()
	if err != nil {
		return err
	}

	selector := Document{"_id": id}
	r.col.Log(r.col.name, "Record.Save", "db.%s.save(%s,%s)", r.col.name, utils.Query.Query(selector), utils.Query.Query(r.doc))

	if err := h.Save(selector, r.doc); err != nil {
		r.col.Error(r.col.name, "Record.Save", err, "Completed")
		return err
	}

	return nil
}

//==============================================================================

// Equal returns true/false whether both records wrap documents carrying the
// same canonical identifier.
func (r *Record) Equal(o *Record) bool {
	if o == nil {
		return false
	}

	rid, ok := r.doc["_id"]
	oid, ook := o.doc["_id"]
	if !ok || !ook {
		return false
	}

	return rid == oid
}

// Less orders records lexicographically on the string form of their
// canonical identifiers.
func (r *Record) Less(o *Record) bool {
	return idString(r.doc["_id"]) < idString(o.doc["_id"])
}

// idString returns the canonical string form for an identifier value.
func idString(id interface{}) string {
	switch tid := id.(type) {
	case bson.ObjectId:
		return tid.Hex()
	case string:
		return tid
	case fmt.Stringer:
		return tid.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

//==============================================================================
