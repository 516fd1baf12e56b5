// Package catalog provides the persisted event store addressed by the
// (name, game) identity pair.
//
// The production store is a MongoDB collection with upsert-by-filter
// semantics and a non-unique compound index on the identity pair. An
// in-memory store with identical semantics backs tests and dry runs.
package catalog
