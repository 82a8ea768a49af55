package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for encounters and cases.
//
// This function creates a UUID-based unique identifier that can be used
// for encounter tracking and correlation throughout the framework.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }
