// Package core provides the foundational domain types, interfaces and error
// taxonomy used by ClinMesh. It defines the core abstractions for:
//
//   - Case files (immutable hidden patient records plus ground truth)
//   - Diagnostic encounters (turn-ordered aggregates of actions, responses and costs)
//   - Capability interfaces for agent roles (Responder, SuggestionSource, Judge, PriceLookup)
//   - Pluggable stores for encounters and case files
//
// The package intentionally keeps implementation concerns (dispatch, pricing,
// evaluation, concrete agents) out of scope, exposing small interfaces so that
// scripted, rule-based and model-backed implementations are interchangeable.
package core
