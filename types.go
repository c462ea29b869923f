package kongo

//==============================================================================

// Document defines the basic data type for a single document as received
// from and sent to the backing store. The reserved key "_id" holds the
// canonical identifier once assigned.
type Document map[string]interface{}

// Documents defines a lists of Document types.
type Documents []Document

// Deltas defines a mapping of update operator names to the field sets they
// apply. Operator names and values are stored and forwarded verbatim to the
// store's partial-update primitive, never interpreted by this layer.
type Deltas map[string]Document

//==============================================================================
