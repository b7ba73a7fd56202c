package utils

import (
	"strings"

	"kpim-service/internal/pkg/fhir_dto"
)

// ResolveReferenceID extracts the bare resource id from a FHIR reference.
// Accepts "Type/<id>" and bare-id forms; returns "" for absent or malformed
// references so a linkage miss stays a data gap instead of an error.
func ResolveReferenceID(reference fhir_dto.Reference) string {
	raw := strings.TrimSpace(reference.Reference)
	if raw == "" {
		return ""
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}

// BuildReference renders the composite "Type/<id>" form used when writing
// resources. The composite form never travels past the fhir clients inward.
func BuildReference(resourceType, id string) fhir_dto.Reference {
	return fhir_dto.Reference{Reference: resourceType + "/" + id}
}

// ChunkStrings splits ids into fixed-size chunks, last chunk short.
func ChunkStrings(ids []string, chunkSize int) [][]string {
	if chunkSize <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
