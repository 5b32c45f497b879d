// Package id generates run identifiers for exported batches.
package id

import (
	"github.com/google/uuid"
)

// NewRun generates a unique run identifier.
func NewRun() string {
	return uuid.New().String()
}

// NewRunShort generates a shorter run identifier (first 8 chars of UUID).
func NewRunShort() string {
	return uuid.New().String()[:8]
}
