package utils

import (
	"testing"

	"kpim-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
)

func TestResolveReferenceID(t *testing.T) {
	t.Run("Composite reference resolves to bare id", func(t *testing.T) {
		id := ResolveReferenceID(fhir_dto.Reference{Reference: "Patient/abc-123"})
		assert.Equal(t, "abc-123", id)
	})

	t.Run("Bare id passes through unchanged", func(t *testing.T) {
		id := ResolveReferenceID(fhir_dto.Reference{Reference: "abc-123"})
		assert.Equal(t, "abc-123", id)
	})

	t.Run("Absolute URL reference resolves to last segment", func(t *testing.T) {
		id := ResolveReferenceID(fhir_dto.Reference{Reference: "http://fhir.example.org/r4/Encounter/enc-9"})
		assert.Equal(t, "enc-9", id)
	})

	t.Run("Empty reference yields empty id", func(t *testing.T) {
		assert.Equal(t, "", ResolveReferenceID(fhir_dto.Reference{}))
		assert.Equal(t, "", ResolveReferenceID(fhir_dto.Reference{Reference: "   "}))
	})

	t.Run("Trailing slash yields empty id", func(t *testing.T) {
		assert.Equal(t, "", ResolveReferenceID(fhir_dto.Reference{Reference: "Patient/"}))
	})
}

func TestBuildReference(t *testing.T) {
	reference := BuildReference("Patient", "abc-123")
	assert.Equal(t, "Patient/abc-123", reference.Reference)
}

func TestChunkStrings(t *testing.T) {
	t.Run("Even split plus remainder", func(t *testing.T) {
		ids := make([]string, 120)
		for i := range ids {
			ids[i] = "id"
		}
		chunks := ChunkStrings(ids, 50)
		assert.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 50)
		assert.Len(t, chunks[1], 50)
		assert.Len(t, chunks[2], 20)
	})

	t.Run("Fewer ids than chunk size yields one chunk", func(t *testing.T) {
		chunks := ChunkStrings([]string{"a", "b"}, 50)
		assert.Len(t, chunks, 1)
		assert.Equal(t, []string{"a", "b"}, chunks[0])
	})

	t.Run("Empty input yields no chunks", func(t *testing.T) {
		assert.Nil(t, ChunkStrings(nil, 50))
	})

	t.Run("Non-positive chunk size yields no chunks", func(t *testing.T) {
		assert.Nil(t, ChunkStrings([]string{"a"}, 0))
	})
}
