package indicator

import (
	"context"

	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// FetchByIDs is the record-store collaborator for one resource type.
type FetchByIDs[T any] func(ctx context.Context, ids []string) ([]T, error)

// ResolveReferences deduplicates the collected reference ids, fetches them in
// fixed-size chunks and returns a lookup map keyed by resource id. A failed
// chunk yields zero results for that chunk only; the failure is counted on
// stats so the data loss stays observable. A missing key in the result means
// "cannot classify this case", never an error.
func ResolveReferences[T any](
	ctx context.Context,
	log *zap.Logger,
	ids []string,
	chunkSize int,
	fetch FetchByIDs[T],
	idOf func(T) string,
	stats *models.LinkStats,
) map[string]T {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	resolved := make(map[string]T, len(unique))
	for chunkIndex, chunk := range utils.ChunkStrings(unique, chunkSize) {
		select {
		case <-ctx.Done():
			// Aborted batches keep the chunks already resolved.
			return resolved
		default:
		}

		records, err := fetch(ctx, chunk)
		if err != nil {
			stats.FailedFetchChunks++
			log.Warn("reference chunk fetch failed, continuing with partial data",
				zap.Int(constvars.LoggingChunkIndexKey, chunkIndex),
				zap.Int(constvars.LoggingChunkSizeKey, len(chunk)),
				zap.Error(err),
			)
			continue
		}
		for _, record := range records {
			if id := idOf(record); id != "" {
				resolved[id] = record
			}
		}
	}
	return resolved
}
