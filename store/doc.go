// Package store provides in-memory implementations of the core stores: a
// process-local encounter registry and a case-file store with JSON loading
// helpers. Both are safe for concurrent access and intentionally volatile;
// the engine holds no durable state.
package store
