package enrichment

import "context"

// Store persists enrichment payloads per (kind, date bucket).
// Merge overlays entries by match id and never touches other ids in the same store.
type Store interface {
	Merge(ctx context.Context, kind Kind, bucket DateBucket, entries map[int64]Payload) error
	Load(ctx context.Context, kind Kind, bucket DateBucket) (map[int64]Payload, error)
	Get(ctx context.Context, kind Kind, bucket DateBucket, matchID int64) (Payload, bool, error)
}

// Provider fetches one enrichment kind for one match.
type Provider interface {
	FetchEnrichment(ctx context.Context, matchID int64, kind Kind) (Payload, error)
}
