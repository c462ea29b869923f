// Package kongo wraps the documents of a mongo-backed store in mutable
// records which track their pending partial mutations (deltas) until they
// are flushed as one atomic update keyed by the record identifier. Instead
// of replacing whole documents on write, callers accumulate operator deltas
// on a record and flush them in a single call, never overwriting fields
// they did not touch.
// eg
/*

  users := kongo.NewCollection(events, "users")

  rec, _ := users.Insert(kongo.Document{"name": "bob"})
  rec.Set("name", "alice")
  rec.Delta("$inc", kongo.Document{"logins": 1})
  rec.Update(nil)

  update => db.users.update({_id: ...}, {$set: {name: "alice"}, $inc: {logins: 1}})

*/
// Collections and records also compose named capabilities registered for
// their collection name, letting independent libraries attach behaviour to
// one collection without touching a shared type.
package kongo
