// Package model defines the abstract "ask the model" capability behind which
// all language-model-backed agents (responders, suggesters, judges) sit. The
// orchestration engine sees exactly one synchronous capability call per turn;
// providers are free to use asynchronous I/O internally.
//
// Provider adapters live in subpackages (openai, anthropic). MockModel offers
// deterministic completions for tests and examples.
package model
