package kongo

import (
	"github.com/pborman/uuid"
	"gopkg.in/mgo.v2/bson"

	"github.com/kballenegger/Kongo/utils"
)

//==============================================================================

// Collection wraps a named collection of the backing store, producing
// records and result streams for its documents. The backing handle is
// resolved lazily on first use and memoized.
type Collection struct {
	EventLog
	name   string
	reg    *Registry
	handle Handle
	ops    map[string]Op
	caps   []string
}

// NewCollection returns a new Collection for the giving name, applying the
// capabilities registered for it in the process-wide registry.
func NewCollection(events EventLog, name string) *Collection {
	return NewCollectionWith(events, name, registry)
}

// NewCollectionWith returns a new Collection resolving its capabilities, and
// those of the records it produces, from an explicit registry instead of the
// process-wide one.
func NewCollectionWith(events EventLog, name string, reg *Registry) *Collection {
	ops, caps := opTable(reg.Resolve(KindCollection, name))

	return &Collection{
		EventLog: events,
		name:     name,
		reg:      reg,
		ops:      ops,
		caps:     caps,
	}
}

//==============================================================================

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Capabilities returns the names of the capabilities applied to this
// collection in application order.
func (c *Collection) Capabilities() []string {
	caps := make([]string, len(c.caps))
	copy(caps, c.caps)
	return caps
}

// Invoke dispatches the named capability operation applied to this
// collection.
func (c *Collection) Invoke(name string, args ...interface{}) (interface{}, error) {
	op, ok := c.ops[name]
	if !ok {
		c.Error(c.name, "Collection.Invoke", ErrUnknownOp, "Completed : Op[%s]", name)
		return nil, ErrUnknownOp
	}

	return op(c, args...)
}

//==============================================================================

// Handle returns the backing handle for this collection, resolving it
// through the process-wide handle function on first use.
func (c *Collection) Handle() (Handle, error) {
	if c.handle != nil {
		return c.handle, nil
	}

	h, err := resolveHandle(c.name)
	if err != nil {
		c.Error(c.name, "Collection.Handle", err, "Completed")
		return nil, err
	}

	c.handle = h
	return h, nil
}

//==============================================================================

// FindOne retrieves a single record matching the giving query, returning a
// nil record when nothing matches.
func (c *Collection) FindOne(query Document) (*Record, error) {
	rid := uuid.New()
	c.Log(c.name, "Collection.FindOne", "Started : RID[%s] : db.%s.findOne(%s)", rid, c.name, utils.Query.Query(query))

	h, err := c.Handle()
	if err != nil {
		return nil, err
	}

	doc, err := h.FindOne(query)
	if err != nil {
		c.Error(c.name, "Collection.FindOne", err, "Completed : RID[%s]", rid)
		return nil, err
	}

	if doc == nil {
		c.Log(c.name, "Collection.FindOne", "Completed : RID[%s] : No Match", rid)
		return nil, nil
	}

	c.Log(c.name, "Collection.FindOne", "Completed : RID[%s]", rid)
	return c.newRecord(doc), nil
}

// FindByID retrieves a single record by its canonical identifier. A string
// id matching the store's ObjectId hex syntax is promoted to a native
// ObjectId before the lookup; any other value queries by literal value.
func (c *Collection) FindByID(id interface{}) (*Record, error) {
	return c.FindOne(Document{"_id": normalizeID(id)})
}

// Find returns a result stream over the records matching the giving query.
// A degenerate nil cursor from the backing handle passes through as a nil
// stream.
func (c *Collection) Find(query Document) (*Stream, error) {
	rid := uuid.New()
	c.Log(c.name, "Collection.Find", "Started : RID[%s] : db.%s.find(%s)", rid, c.name, utils.Query.Query(query))

	h, err := c.Handle()
	if err != nil {
		return nil, err
	}

	cur, err := h.Find(query)
	if err != nil {
		c.Error(c.name, "Collection.Find", err, "Completed : RID[%s]", rid)
		return nil, err
	}

	if cur == nil {
		c.Log(c.name, "Collection.Find", "Completed : RID[%s] : No Cursor", rid)
		return nil, nil
	}

	c.Log(c.name, "Collection.Find", "Completed : RID[%s]", rid)
	return &Stream{Cursor: cur, col: c}, nil
}

// FindMany is an alias for Find.
func (c *Collection) FindMany(query Document) (*Stream, error) {
	return c.Find(query)
}

// Count returns the number of documents matching the giving query.
func (c *Collection) Count(query Document) (int, error) {
	rid := uuid.New()
	c.Log(c.name, "Collection.Count", "Started : RID[%s] : db.%s.count(%s)", rid, c.name, utils.Query.Query(query))

	h, err := c.Handle()
	if err != nil {
		return 0, err
	}

	n, err := h.Count(query)
	if err != nil {
		c.Error(c.name, "Collection.Count", err, "Completed : RID[%s]", rid)
		return 0, err
	}

	c.Log(c.name, "Collection.Count", "Completed : RID[%s] : Count[%d]", rid, n)
	return n, nil
}

// Has returns true/false whether exactly one document exists for the giving
// identifier.
func (c *Collection) Has(id interface{}) (bool, error) {
	n, err := c.Count(Document{"_id": id})
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// Insert persists the giving document, folding the assigned canonical
// identifier into it under "_id", and returns a record wrapping the stored
// document.
func (c *Collection) Insert(doc Document) (*Record, error) {
	rid := uuid.New()
	c.Log(c.name, "Collection.Insert", "Started : RID[%s] : db.%s.insert(%s)", rid, c.name, utils.Query.Query(doc))

	h, err := c.Handle()
	if err != nil {
		return nil, err
	}

	if _, ok := doc["_id"]; !ok {
		doc["_id"] = bson.NewObjectId()
	}

	if err := h.Insert(doc); err != nil {
		c.Error(c.name, "Collection.Insert", err, "Completed : RID[%s]", rid)
		return nil, err
	}

	c.Log(c.name, "Collection.Insert", "Completed : RID[%s]", rid)
	return c.newRecord(doc), nil
}

//==============================================================================

// normalizeID promotes a string id in the store's canonical hex syntax into
// a native ObjectId, leaving any other value untouched.
func normalizeID(id interface{}) interface{} {
	if s, ok := id.(string); ok && bson.IsObjectIdHex(s) {
		return bson.ObjectIdHex(s)
	}

	return id
}

//==============================================================================
