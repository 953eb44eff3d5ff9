package service

import "github.com/google/uuid"

// UUIDGenerator abstracts ID generation for testability
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator generates random UUIDv4 strings
type DefaultUUIDGenerator struct{}

func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
