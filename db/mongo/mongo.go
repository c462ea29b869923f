package mongo

import (
	"sync"
	"time"

	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	kongo "github.com/kballenegger/Kongo"
	"github.com/kballenegger/Kongo/utils"
)

//==========================================================================================

// masterListLock provides a mutex for controlling access to the masterList.
var masterListLock sync.RWMutex

// masterList contains a set of session lists of connections that have been
// created
var masterList = make(map[string]*mgo.Session)

//==========================================================================================

// Config provides configuration for connecting to a db.
type Config struct {
	Host     string
	AuthDB   string
	DB       string
	User     string
	Password string
}

//==========================================================================================

// EventLog defines event logger that allows us to record events for a specific
// action that occured.
type EventLog interface {
	Log(context interface{}, name string, message string, data ...interface{})
	Error(context interface{}, name string, err error, message string, data ...interface{})
}

//==========================================================================================

// Mongod defines a mongo connection manager that builds off a mongo instance.
type Mongod struct {
	Config
	EventLog
}

// New connects and initializes the master session for the mongo list.
func (m *Mongod) New(context interface{}) (*mgo.Database, *mgo.Session, error) {
	m.Log(context, "New", "Started : Config : %s", utils.Query.Query(m.Config))

	key := m.Host + ":" + m.DB

	masterListLock.Lock()
	ms, ok := masterList[key]
	masterListLock.Unlock()

	if ok {
		m.Log(context, "New", "Completed")
		ses := ms.Copy()
		return ses.DB(m.DB), ses, nil
	}

	// If not found, then attemp to connect and add to session master list.
	// We need this object to establish a session to our MongoDB.
	info := mgo.DialInfo{
		Addrs:    []string{m.Host},
		Timeout:  60 * time.Second,
		Database: m.AuthDB,
		Username: m.User,
		Password: m.Password,
	}

	// Create a session which maintains a pool of socket connections
	// to our MongoDB.
	ses, err := mgo.DialWithInfo(&info)
	if err != nil {
		m.Error(context, "New", err, "Completed")
		return nil, nil, err
	}

	ses.SetMode(mgo.Monotonic, true)

	// Add to master list.
	masterListLock.Lock()
	masterList[key] = ses.Copy()
	masterListLock.Unlock()

	m.Log(context, "New", "Completed")
	return ses.DB(m.DB), ses, nil
}

// ExecuteDB runs the giving function against the named collection on a
// fresh session copy, closing the session once the function returns.
func (m *Mongod) ExecuteDB(context interface{}, collectionName string, fn func(*mgo.Collection) error) error {
	db, ses, err := m.New(context)
	if err != nil {
		return err
	}

	defer ses.Close()

	return fn(db.C(collectionName))
}

//==========================================================================================

// HandleFunc returns a kongo.HandleFunc resolving collection names against
// the giving mongo configuration, suitable for kongo.RegisterHandleFunc.
func HandleFunc(events EventLog, config Config) kongo.HandleFunc {
	db := &Mongod{Config: config, EventLog: events}

	return func(name string) (kongo.Handle, error) {
		return &Handle{EventLog: events, db: db, name: name}, nil
	}
}

// Handle implements kongo.Handle over a single mongo collection.
type Handle struct {
	EventLog
	db   *Mongod
	name string
}

// FindOne retrieves a single document matching the giving query, returning
// a nil document when nothing matches.
func (h *Handle) FindOne(query kongo.Document) (kongo.Document, error) {
	var res kongo.Document

	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.FindOne", "db.%s.findOne(%s)", c.Name, utils.Query.Query(query))
		return c.Find(bson.M(query)).One(&res)
	}

	if err := h.db.ExecuteDB("Handle.FindOne", h.name, fn); err != nil {
		if err == mgo.ErrNotFound {
			return nil, nil
		}

		h.Error(h.name, "Handle.FindOne", err, "Completed")
		return nil, err
	}

	return res, nil
}

// Find returns a cursor over the documents matching the giving query. The
// session backing the cursor stays open until the cursor is closed.
func (h *Handle) Find(query kongo.Document) (kongo.Cursor, error) {
	db, ses, err := h.db.New("Handle.Find")
	if err != nil {
		return nil, err
	}

	h.Log(h.name, "Handle.Find", "db.%s.find(%s)", h.name, utils.Query.Query(query))

	return &cursor{
		iter: db.C(h.name).Find(bson.M(query)).Iter(),
		ses:  ses,
	}, nil
}

// Count returns the number of documents matching the giving query.
func (h *Handle) Count(query kongo.Document) (int, error) {
	var n int

	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.Count", "db.%s.count(%s)", c.Name, utils.Query.Query(query))

		var err error
		n, err = c.Find(bson.M(query)).Count()
		return err
	}

	if err := h.db.ExecuteDB("Handle.Count", h.name, fn); err != nil {
		h.Error(h.name, "Handle.Count", err, "Completed")
		return 0, err
	}

	return n, nil
}

// Insert persists the giving document.
func (h *Handle) Insert(doc kongo.Document) error {
	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.Insert", "db.%s.insert(%s)", c.Name, utils.Query.Query(doc))
		return c.Insert(bson.M(doc))
	}

	if err := h.db.ExecuteDB("Handle.Insert", h.name, fn); err != nil {
		h.Error(h.name, "Handle.Insert", err, "Completed")
		return err
	}

	return nil
}

// Update issues one partial update against the documents matching the
// selector, forwarding the operator deltas verbatim.
func (h *Handle) Update(selector kongo.Document, change kongo.Deltas) error {
	update := make(bson.M)
	for op, fields := range change {
		update[op] = bson.M(fields)
	}

	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.Update", "db.%s.update(%s,%s)", c.Name, utils.Query.Query(selector), utils.Query.Query(update))
		return c.Update(bson.M(selector), update)
	}

	if err := h.db.ExecuteDB("Handle.Update", h.name, fn); err != nil {
		h.Error(h.name, "Handle.Update", err, "Completed")
		return err
	}

	return nil
}

// Remove deletes the documents matching the giving selector.
func (h *Handle) Remove(selector kongo.Document) error {
	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.Remove", "db.%s.remove(%s)", c.Name, utils.Query.Query(selector))
		return c.Remove(bson.M(selector))
	}

	if err := h.db.ExecuteDB("Handle.Remove", h.name, fn); err != nil {
		h.Error(h.name, "Handle.Remove", err, "Completed")
		return err
	}

	return nil
}

// Save overwrites the document matching the selector with the giving full
// document, inserting it when absent.
func (h *Handle) Save(selector kongo.Document, doc kongo.Document) error {
	fn := func(c *mgo.Collection) error {
		h.Log(h.name, "Handle.Save", "db.%s.upsert(%s,%s)", c.Name, utils.Query.Query(selector), utils.Query.Query(doc))

		_, err := c.Upsert(bson.M(selector), bson.M(doc))
		return err
	}

	if err := h.db.ExecuteDB("Handle.Save", h.name, fn); err != nil {
		h.Error(h.name, "Handle.Save", err, "Completed")
		return err
	}

	return nil
}

//==========================================================================================

// cursor implements kongo.Cursor over a mgo iterator, holding its session
// open until closed.
type cursor struct {
	iter *mgo.Iter
	ses  *mgo.Session
}

// Next advances the iterator, decoding the next document into result.
func (c *cursor) Next(result *kongo.Document) bool {
	var doc bson.M

	if !c.iter.Next(&doc) {
		return false
	}

	*result = kongo.Document(doc)
	return true
}

// Err returns the error state of the iterator.
func (c *cursor) Err() error {
	return c.iter.Err()
}

// Timeout returns true/false whether the iterator timed out waiting on a
// tailable cursor.
func (c *cursor) Timeout() bool {
	return c.iter.Timeout()
}

// Close terminates the iterator and releases its session.
func (c *cursor) Close() error {
	err := c.iter.Close()
	c.ses.Close()
	return err
}

//==========================================================================================
