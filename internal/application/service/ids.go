package service

import "github.com/google/uuid"

// IDGenerator produces globally unique opaque identifiers
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random (v4) UUIDs
type UUIDGenerator struct{}

// NewID returns a new UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
