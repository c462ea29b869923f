package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/kit/log"

	kongo "github.com/kballenegger/Kongo"
	"github.com/kballenegger/Kongo/db/mongo"
	"github.com/kballenegger/Kongo/utils"
)

func init() {
	log.Init(os.Stdout, func() int { return log.DEV }, log.Ldefault)
}

//==============================================================================

var events eventlog

// eventlog provides a concrete implementation of a logger.
type eventlog struct{}

// Log logs all standard log reports.
func (l eventlog) Log(context interface{}, name string, message string, data ...interface{}) {
	log.Dev(fmt.Sprintf("%v", context), name, message, data...)
}

// Error logs all error reports.
func (l eventlog) Error(context interface{}, name string, err error, message string, data ...interface{}) {
	log.Error(fmt.Sprintf("%v", context), name, err, message, data...)
}

//==============================================================================

var context = "kongo-example"

//==============================================================================

func main() {

	kongo.RegisterHandleFunc(mongo.HandleFunc(events, mongo.Config{
		Host:   "127.0.0.1:27017",
		AuthDB: "contacts",
		DB:     "contacts",
	}))

	// Attach a greeting operation to every record of the users collection.
	kongo.Register(kongo.KindRecord, "users", kongo.Capability{
		Name: "greeter",
		Ops: map[string]kongo.Op{
			"greeting": func(target interface{}, args ...interface{}) (interface{}, error) {
				rec := target.(*kongo.Record)
				return fmt.Sprintf("hello, %v", rec.Get("name")), nil
			},
		},
	})

	users := kongo.NewCollection(events, "users")

	rec, err := users.Insert(kongo.Document{"name": "bob"})
	if err != nil {
		events.Error(context, "main", err, "Insert Failed")
		return
	}

	rec.Set("name", "alice")
	rec.Delta("$inc", kongo.Document{"logins": 1})

	if err := rec.Update(nil); err != nil {
		events.Error(context, "main", err, "Update Failed")
		return
	}

	greeting, err := rec.Invoke("greeting")
	if err != nil {
		events.Error(context, "main", err, "Greeting Failed")
		return
	}

	fmt.Printf("Greeting: %s\n", greeting)
	fmt.Printf("Record: %s\n", utils.Query.QueryIndent(rec.ToHash()))
}
