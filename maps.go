package kongo

import "gopkg.in/mgo.v2/bson"

//==============================================================================

// CopyDocument copies a document into a raw map structure, cloning as
// necessary down the data trees.
func CopyDocument(doc Document) Document {
	to := make(Document)
	mapCopy(to, doc)
	return to
}

// mapCopy copies one map details, cloning as necessary down the data trees.
func mapCopy(to, from map[string]interface{}) {
	for key, value := range from {
		switch value.(type) {
		case bson.M:
			mn := make(map[string]interface{})
			bsonCopy(mn, value.(bson.M))
			to[key] = mn
			continue
		case map[string]interface{}:
			mn := make(map[string]interface{})
			mapCopy(mn, value.(map[string]interface{}))
			to[key] = mn
			continue
		default:
			to[key] = value
			continue
		}
	}
}

// bsonCopy copies one bson.M map, cloning as necessary down the data trees.
func bsonCopy(to map[string]interface{}, from bson.M) {
	for key, value := range from {
		switch value.(type) {
		case bson.M:
			mn := make(map[string]interface{})
			bsonCopy(mn, value.(bson.M))
			to[key] = mn
			continue
		case map[string]interface{}:
			mn := make(map[string]interface{})
			mapCopy(mn, value.(map[string]interface{}))
			to[key] = mn
			continue
		default:
			to[key] = value
			continue
		}
	}
}

//==============================================================================
