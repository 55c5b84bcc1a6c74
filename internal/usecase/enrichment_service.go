package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

const (
	defaultEnrichBatchSize     = 5
	defaultEnrichBatchInterval = time.Second
)

type EnrichmentConfig struct {
	Kinds         []enrichment.Kind
	BatchSize     int
	BatchInterval time.Duration
}

type EnrichmentReport struct {
	Bucket        enrichment.DateBucket `json:"date_bucket"`
	Requested     int                   `json:"requested"`
	Skipped       int                   `json:"skipped"`
	Enriched      int                   `json:"enriched"`
	Batches       int                   `json:"batches"`
	KindSuccesses int                   `json:"kind_successes"`
	KindFailures  int                   `json:"kind_failures"`
	StoreWrites   int                   `json:"store_writes"`
	StoreFailures int                   `json:"store_failures"`
}

// EnrichmentService fetches every configured kind for a set of matches and merges the
// results into the per-(kind, date bucket) store, one batch at a time.
type EnrichmentService struct {
	provider enrichment.Provider
	store    enrichment.Store
	cfg      EnrichmentConfig
	logger   *logging.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewEnrichmentService(provider enrichment.Provider, store enrichment.Store, cfg EnrichmentConfig, logger *logging.Logger) *EnrichmentService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = enrichment.AllKinds()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultEnrichBatchSize
	}
	if cfg.BatchInterval < 0 {
		cfg.BatchInterval = defaultEnrichBatchInterval
	}
	return &EnrichmentService{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// FetchMatch requests every kind for one match concurrently. Failed kinds are logged and left out.
func (s *EnrichmentService) FetchMatch(ctx context.Context, bucket enrichment.DateBucket, matchID int64) map[enrichment.Kind]enrichment.Payload {
	var mu sync.Mutex
	out := make(map[enrichment.Kind]enrichment.Payload, len(s.cfg.Kinds))

	tasks := pool.New().WithMaxGoroutines(len(s.cfg.Kinds))
	for _, kind := range s.cfg.Kinds {
		kind := kind
		tasks.Go(func() {
			payload, err := s.fetchKind(ctx, matchID, kind)
			if err != nil {
				s.logger.WarnContext(ctx, "enrichment fetch failed",
					"match_id", matchID,
					"kind", kind,
					"date_bucket", bucket,
					"error", err,
				)
				return
			}
			mu.Lock()
			out[kind] = payload
			mu.Unlock()
		})
	}
	tasks.Wait()

	return out
}

func (s *EnrichmentService) fetchKind(ctx context.Context, matchID int64, kind enrichment.Kind) (enrichment.Payload, error) {
	payload, err := s.provider.FetchEnrichment(ctx, matchID, kind)
	if err != nil {
		return nil, err
	}
	if payload.IsZero() {
		return nil, enrichment.ErrPayloadUnavailable
	}
	if kind != enrichment.KindIncidents {
		return payload, nil
	}

	summary, err := enrichment.ReduceIncidentPayload(matchID, payload)
	if err != nil {
		return nil, fmt.Errorf("reduce incidents: %w", err)
	}
	return enrichment.EncodePayload(summary)
}

// EnrichBucket processes ids in fixed-size batches. Each batch finishes all fetches before
// one merge per kind; the next batch starts after the configured pause. Cancelling ctx stops
// the run between batches and returns what was already persisted in the report.
func (s *EnrichmentService) EnrichBucket(ctx context.Context, bucket enrichment.DateBucket, matchIDs []int64) (EnrichmentReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.EnrichBucket")
	defer span.End()

	report := EnrichmentReport{Bucket: bucket, Requested: len(matchIDs)}

	ids := make([]int64, 0, len(matchIDs))
	seen := make(map[int64]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		if id <= 0 {
			report.Skipped++
			s.logger.DebugContext(ctx, "skip match without enrichable id", "match_id", id, "date_bucket", bucket)
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return report, nil
	}

	workers, err := ants.NewPool(s.cfg.BatchSize)
	if err != nil {
		return report, fmt.Errorf("create enrichment worker pool: %w", err)
	}
	defer workers.Release()

	for start := 0; start < len(ids); start += s.cfg.BatchSize {
		if start > 0 {
			if err := s.sleep(ctx, s.cfg.BatchInterval); err != nil {
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := min(start+s.cfg.BatchSize, len(ids))
		results, err := s.fetchBatch(ctx, workers, bucket, ids[start:end])
		if err != nil {
			return report, err
		}
		report.Batches++
		s.mergeBatch(ctx, bucket, ids[start:end], results, &report)
	}

	s.logger.InfoContext(ctx, "enrichment bucket complete",
		"date_bucket", bucket,
		"matches", report.Enriched,
		"batches", report.Batches,
		"kind_successes", report.KindSuccesses,
		"kind_failures", report.KindFailures,
	)
	return report, nil
}

func (s *EnrichmentService) fetchBatch(
	ctx context.Context,
	workers *ants.Pool,
	bucket enrichment.DateBucket,
	batch []int64,
) ([]map[enrichment.Kind]enrichment.Payload, error) {
	results := make([]map[enrichment.Kind]enrichment.Payload, len(batch))

	var wg sync.WaitGroup
	for idx, matchID := range batch {
		idx, matchID := idx, matchID
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			results[idx] = s.FetchMatch(ctx, bucket, matchID)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit enrichment task: %w", err)
		}
	}
	wg.Wait()

	return results, nil
}

func (s *EnrichmentService) mergeBatch(
	ctx context.Context,
	bucket enrichment.DateBucket,
	batch []int64,
	results []map[enrichment.Kind]enrichment.Payload,
	report *EnrichmentReport,
) {
	byKind := make(map[enrichment.Kind]map[int64]enrichment.Payload, len(s.cfg.Kinds))
	for idx, matchID := range batch {
		fetched := results[idx]
		if len(fetched) > 0 {
			report.Enriched++
		}
		report.KindSuccesses += len(fetched)
		report.KindFailures += len(s.cfg.Kinds) - len(fetched)
		for kind, payload := range fetched {
			entries, ok := byKind[kind]
			if !ok {
				entries = make(map[int64]enrichment.Payload, len(batch))
				byKind[kind] = entries
			}
			entries[matchID] = payload
		}
	}

	kinds := make([]enrichment.Kind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if err := s.store.Merge(ctx, kind, bucket, byKind[kind]); err != nil {
			report.StoreFailures++
			s.logger.ErrorContext(ctx, "merge enrichment store failed",
				"kind", kind,
				"date_bucket", bucket,
				"entries", len(byKind[kind]),
				"error", err,
			)
			continue
		}
		report.StoreWrites++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
