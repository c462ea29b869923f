package kongo

//==============================================================================

// Stream wraps one lazily-evaluated query result, converting the documents
// it produces into records of the owning collection. Any cursor operation
// the stream does not redefine is forwarded to the embedded cursor and its
// result returned unchanged. Streams are forward-only and not safe for
// concurrent consumption.
type Stream struct {
	Cursor
	col *Collection
}

// Raw returns the underlying cursor as an escape hatch for store-specific
// stream controls.
func (s *Stream) Raw() Cursor {
	return s.Cursor
}

//==============================================================================

// Next advances the underlying cursor, wrapping the produced document as a
// record. It returns a nil record once the cursor is exhausted.
func (s *Stream) Next() (*Record, error) {
	var doc Document

	if !s.Cursor.Next(&doc) {
		if err := s.Cursor.Err(); err != nil {
			s.col.Error(s.col.name, "Stream.Next", err, "Completed")
			return nil, err
		}

		return nil, nil
	}

	return s.col.newRecord(doc), nil
}

// Each iterates the entire underlying cursor, invoking fn once per element
// with that element wrapped as a record.
func (s *Stream) Each(fn func(*Record) error) error {
	for {
		rec, err := s.Next()
		if err != nil {
			return err
		}

		if rec == nil {
			return nil
		}

		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Lazy returns a single-pass sequence of records backed by the cursor.
// Consuming the sequence consumes the cursor; it cannot be restarted.
func (s *Stream) Lazy() func() (*Record, error) {
	var done bool

	return func() (*Record, error) {
		if done {
			return nil, nil
		}

		rec, err := s.Next()
		if rec == nil || err != nil {
			done = true
		}

		return rec, err
	}
}

// All eagerly drains the remaining records into an ordered list.
func (s *Stream) All() ([]*Record, error) {
	var recs []*Record

	next := s.Lazy()

	for {
		rec, err := next()
		if err != nil {
			return nil, err
		}

		if rec == nil {
			return recs, nil
		}

		recs = append(recs, rec)
	}
}

//==============================================================================
