// Package utils provides the json stringifier used to render documents,
// selectors and deltas inside event log reports.
package utils

import "encoding/json"

//==========================================================================================

// Query provides a json stringifier for log payloads.
var Query query

type query struct{}

// Query returns a stringified version of the provided document or delta set
// using json.Marshal. Unencodable values render as an empty string rather
// than failing the log call.
func (q query) Query(ms interface{}) string {
	data, err := json.Marshal(ms)
	if err != nil {
		return ""
	}

	return string(data)
}

// QueryIndent returns the stringified version of the giving data indented
// for readability. Uses json.MarshalIndent underneath.
func (q query) QueryIndent(ms interface{}) string {
	data, err := json.MarshalIndent(ms, "", "  ")
	if err != nil {
		return ""
	}

	return string(data)
}

//==========================================================================================
