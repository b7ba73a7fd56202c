package indicator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func patientIDOf(patient fhir_dto.Patient) string { return patient.ID }

func TestResolveReferencesDeduplicates(t *testing.T) {
	var fetchedIDs [][]string
	fetch := func(ctx context.Context, ids []string) ([]fhir_dto.Patient, error) {
		fetchedIDs = append(fetchedIDs, ids)
		patients := make([]fhir_dto.Patient, 0, len(ids))
		for _, id := range ids {
			patients = append(patients, fhir_dto.Patient{ID: id})
		}
		return patients, nil
	}

	stats := &models.LinkStats{}
	resolved := ResolveReferences(context.Background(), zap.NewNop(),
		[]string{"a", "b", "a", "", "c", "b"}, 50, fetch, patientIDOf, stats)

	assert.Len(t, resolved, 3)
	assert.Len(t, fetchedIDs, 1, "duplicates and empty ids must not reach the store")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, fetchedIDs[0])
}

func TestResolveReferencesChunking(t *testing.T) {
	ids := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		ids = append(ids, fmt.Sprintf("id-%d", i))
	}

	var chunkSizes []int
	fetch := func(ctx context.Context, chunk []string) ([]fhir_dto.Patient, error) {
		chunkSizes = append(chunkSizes, len(chunk))
		patients := make([]fhir_dto.Patient, 0, len(chunk))
		for _, id := range chunk {
			patients = append(patients, fhir_dto.Patient{ID: id})
		}
		return patients, nil
	}

	stats := &models.LinkStats{}
	resolved := ResolveReferences(context.Background(), zap.NewNop(), ids, 50, fetch, patientIDOf, stats)

	assert.Equal(t, []int{50, 50, 20}, chunkSizes)
	assert.Len(t, resolved, 120)
	assert.Equal(t, 0, stats.FailedFetchChunks)
}

func TestResolveReferencesFailedChunkIsolation(t *testing.T) {
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, fmt.Sprintf("id-%d", i))
	}

	call := 0
	fetch := func(ctx context.Context, chunk []string) ([]fhir_dto.Patient, error) {
		call++
		if call == 1 {
			return nil, errors.New("store unavailable")
		}
		patients := make([]fhir_dto.Patient, 0, len(chunk))
		for _, id := range chunk {
			patients = append(patients, fhir_dto.Patient{ID: id})
		}
		return patients, nil
	}

	stats := &models.LinkStats{}
	resolved := ResolveReferences(context.Background(), zap.NewNop(), ids, 50, fetch, patientIDOf, stats)

	assert.Len(t, resolved, 50, "the failed chunk is dropped, the surviving chunk is kept")
	assert.Equal(t, 1, stats.FailedFetchChunks)
	_, ok := resolved["id-60"]
	assert.True(t, ok)
	_, ok = resolved["id-10"]
	assert.False(t, ok, "a missing key means cannot-classify, not an error")
}

func TestResolveReferencesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, fmt.Sprintf("id-%d", i))
	}

	fetch := func(ctx context.Context, chunk []string) ([]fhir_dto.Patient, error) {
		// Abort after the first chunk completes.
		defer cancel()
		patients := make([]fhir_dto.Patient, 0, len(chunk))
		for _, id := range chunk {
			patients = append(patients, fhir_dto.Patient{ID: id})
		}
		return patients, nil
	}

	stats := &models.LinkStats{}
	resolved := ResolveReferences(ctx, zap.NewNop(), ids, 50, fetch, patientIDOf, stats)

	assert.Len(t, resolved, 50, "completed chunks stay valid after cancellation")
}
