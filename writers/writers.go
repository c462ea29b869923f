package writers

import (
	"errors"

	"github.com/influx6/faux/sumex"

	kongo "github.com/kballenegger/Kongo"
)

//==============================================================================

// EventLog defines event logger that allows us to record events for a specific
// action that occured.
type EventLog interface {
	Log(context interface{}, name string, message string, data ...interface{})
	Error(context interface{}, name string, err error, message string, data ...interface{})
}

//==============================================================================

// ErrInvalidRecordType is returned when a queued value is not a kongo
// record.
var ErrInvalidRecordType = errors.New("Invalid Record Type")

// Flush provides a sumex.Proc implementing struct which flushes the pending
// deltas of every record injected into its stream.
type Flush struct {
	Events EventLog
}

// Do performs the update for a single queued record.
func (f *Flush) Do(data interface{}, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}

	rec, ok := data.(*kongo.Record)
	if !ok {
		f.Events.Error("writers", "Flush.Do", ErrInvalidRecordType, "Completed")
		return nil, ErrInvalidRecordType
	}

	if err := rec.Update(nil); err != nil {
		return nil, err
	}

	return rec, nil
}

//==============================================================================

// Writer drains queued record updates through a worker pool, reporting
// failed flushes to its event log. It is an opt-in asynchronous path; the
// record protocol itself stays synchronous.
type Writer struct {
	Events EventLog
	stream sumex.Streams
}

// New returns a new Writer backed by the giving number of workers.
func New(workers int, events EventLog) *Writer {
	w := Writer{
		Events: events,
		stream: sumex.New(workers, events, &Flush{Events: events}),
	}

	// Drain the error port so failed updates surface in the event log.
	re, res := sumex.ReceiveError(w.stream)

	go func() {
		defer res.Shutdown()

		for eu := range re {
			if err, ok := eu.(error); ok {
				events.Error("writers", "Writer", err, "Update Failed")
			}
		}
	}()

	return &w
}

// Stream returns the underlying sumex stream for receivers that want the
// flushed records.
func (w *Writer) Stream() sumex.Streams {
	return w.stream
}

// Queue schedules the giving record's pending deltas for flushing.
func (w *Writer) Queue(rec *kongo.Record) {
	w.Events.Log("writers", "Writer.Queue", "Started : Record Queued")
	w.stream.Inject(rec)
	w.Events.Log("writers", "Writer.Queue", "Completed")
}

// Shutdown stops the writer's worker pool.
func (w *Writer) Shutdown() {
	w.stream.Shutdown()
}

//==============================================================================
