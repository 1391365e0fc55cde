package util

import "github.com/google/uuid"

// IDGenerator hands out record identifiers.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return GenerateUUID()
}

func GenerateUUID() string {
	return uuid.NewString()
}
