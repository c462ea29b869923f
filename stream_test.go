package kongo_test

import (
	"testing"

	"github.com/ardanlabs/kit/tests"

	kongo "github.com/kballenegger/Kongo"
)

//==============================================================================

// seedBooks stores three documents in the giving handle.
func seedBooks(h *memHandle) {
	h.docs = append(h.docs,
		kongo.Document{"_id": "b1", "title": "one"},
		kongo.Document{"_id": "b2", "title": "two"},
		kongo.Document{"_id": "b3", "title": "three"},
	)
}

//==============================================================================

// TestStreamEach validates that Each wraps every emitted document as a
// record of the owning collection.
func TestStreamEach(t *testing.T) {
	t.Logf("Given the need to iterate a query result")
	{
		t.Logf("\tWhen giving three stored documents")
		{
			col, h := newTestCollection("books")
			seedBooks(h)

			stream, err := col.Find(kongo.Document{})
			if err != nil || stream == nil {
				t.Fatalf("\t%s\tShould have opened a stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have opened a stream without error.", tests.Success)

			var titles []string

			err = stream.Each(func(rec *kongo.Record) error {
				titles = append(titles, rec.Get("title").(string))
				return nil
			})

			if err != nil {
				t.Fatalf("\t%s\tShould have iterated the stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have iterated the stream without error.", tests.Success)

			if len(titles) != 3 || titles[0] != "one" || titles[2] != "three" {
				t.Fatalf("\t%s\tShould have wrapped every document in order: %v", tests.Failed, titles)
			}
			t.Logf("\t%s\tShould have wrapped every document in order.", tests.Success)
		}
	}
}

//==============================================================================

// TestStreamLazySinglePass validates the lazy sequence drains the cursor
// exactly once and cannot be restarted.
func TestStreamLazySinglePass(t *testing.T) {
	t.Logf("Given the need for a lazy single-pass record sequence")
	{
		t.Logf("\tWhen giving a consumed sequence")
		{
			col, h := newTestCollection("books")
			seedBooks(h)

			stream, err := col.Find(kongo.Document{})
			if err != nil || stream == nil {
				t.Fatalf("\t%s\tShould have opened a stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have opened a stream without error.", tests.Success)

			next := stream.Lazy()

			var count int
			for {
				rec, err := next()
				if err != nil {
					t.Fatalf("\t%s\tShould have consumed the sequence without error: %q", tests.Failed, err)
				}
				if rec == nil {
					break
				}
				count++
			}

			if count != 3 {
				t.Fatalf("\t%s\tShould have produced every record once: %d", tests.Failed, count)
			}
			t.Logf("\t%s\tShould have produced every record once.", tests.Success)

			if rec, err := next(); rec != nil || err != nil {
				t.Fatalf("\t%s\tShould have stayed exhausted after draining", tests.Failed)
			}
			t.Logf("\t%s\tShould have stayed exhausted after draining.", tests.Success)
		}
	}
}

//==============================================================================

// TestStreamAll validates the eager drain into an ordered record list.
func TestStreamAll(t *testing.T) {
	t.Logf("Given the need to drain a stream eagerly")
	{
		t.Logf("\tWhen giving three stored documents")
		{
			col, h := newTestCollection("books")
			seedBooks(h)

			stream, err := col.Find(kongo.Document{})
			if err != nil || stream == nil {
				t.Fatalf("\t%s\tShould have opened a stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have opened a stream without error.", tests.Success)

			recs, err := stream.All()
			if err != nil {
				t.Fatalf("\t%s\tShould have drained the stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have drained the stream without error.", tests.Success)

			if len(recs) != 3 || recs[1].Get("title") != "two" {
				t.Fatalf("\t%s\tShould have returned the records in order: %d", tests.Failed, len(recs))
			}
			t.Logf("\t%s\tShould have returned the records in order.", tests.Success)
		}
	}
}

//==============================================================================

// TestStreamTransparency validates that cursor operations the stream does
// not redefine forward to the underlying cursor unchanged.
func TestStreamTransparency(t *testing.T) {
	t.Logf("Given the need to forward unknown operations to the cursor")
	{
		t.Logf("\tWhen giving cursor control calls on the stream")
		{
			col, h := newTestCollection("books")
			seedBooks(h)

			stream, err := col.Find(kongo.Document{})
			if err != nil || stream == nil {
				t.Fatalf("\t%s\tShould have opened a stream without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have opened a stream without error.", tests.Success)

			if stream.Timeout() {
				t.Fatalf("\t%s\tShould have forwarded Timeout to the cursor unchanged", tests.Failed)
			}
			t.Logf("\t%s\tShould have forwarded Timeout to the cursor unchanged.", tests.Success)

			if err := stream.Close(); err != nil {
				t.Fatalf("\t%s\tShould have forwarded Close to the cursor: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have forwarded Close to the cursor.", tests.Success)

			if !h.lastCursor.closed {
				t.Fatalf("\t%s\tShould have closed the underlying cursor", tests.Failed)
			}
			t.Logf("\t%s\tShould have closed the underlying cursor.", tests.Success)

			if stream.Raw() != kongo.Cursor(h.lastCursor) {
				t.Fatalf("\t%s\tShould have exposed the raw cursor escape hatch", tests.Failed)
			}
			t.Logf("\t%s\tShould have exposed the raw cursor escape hatch.", tests.Success)
		}
	}
}

//==============================================================================

// TestStreamNilCursor validates that a degenerate nil cursor from the handle
// passes through as a nil stream.
func TestStreamNilCursor(t *testing.T) {
	t.Logf("Given the need to pass degenerate results through unchanged")
	{
		t.Logf("\tWhen giving a handle returning no cursor")
		{
			col, h := newTestCollection("books")
			h.nilCursor = true

			stream, err := col.Find(kongo.Document{})
			if err != nil {
				t.Fatalf("\t%s\tShould have completed the find without error: %q", tests.Failed, err)
			}
			t.Logf("\t%s\tShould have completed the find without error.", tests.Success)

			if stream != nil {
				t.Fatalf("\t%s\tShould have passed the nil cursor through as a nil stream", tests.Failed)
			}
			t.Logf("\t%s\tShould have passed the nil cursor through as a nil stream.", tests.Success)
		}
	}
}

//==============================================================================
