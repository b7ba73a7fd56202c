package utils

import (
	"github.com/google/uuid"
)

// GenerateResourceID returns a unique id for synthesized FHIR resources.
// UUIDs replace the old timestamp+random scheme so uniqueness does not need
// a collision check against already-written resources.
func GenerateResourceID() string {
	return uuid.NewString()
}

func GenerateRequestID() string {
	return uuid.NewString()
}
