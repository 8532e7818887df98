package models

import (
	"github.com/google/uuid"
)

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// IsUUID reports whether id could have come from NewUUID.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
