// Package idgen issues identifiers for patients who arrive without an MRN.
package idgen

import (
	"github.com/google/uuid"

	"github.com/example/wardnotes/internal/ports/secondary"
)

// UUIDGenerator implements secondary.IDGenerator with random (v4) UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a fresh lowercase hyphenated UUID.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

var _ secondary.IDGenerator = UUIDGenerator{}
