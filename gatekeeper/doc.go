// Package gatekeeper implements the dispatch layer routing accepted actions
// to the correct specialized responder: questions to the Patient Responder,
// test orders to the Examination Responder. It also provides request
// validation that rejects overly broad questions and vague test orders with
// corrective guidance before a turn is consumed.
//
// Both built-in responders are model-backed; a scripted responder is included
// for tests, examples and offline runs. Responders receive the full case file
// read-only and must answer only the specific request.
package gatekeeper
