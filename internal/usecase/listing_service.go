package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/platform/cache"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

const snapshotCacheKey = "listing:snapshot"

type MatchCollector interface {
	Collect(ctx context.Context) (*match.Collection, CollectReport, error)
}

// ListingService serves aggregated snapshots and stored enrichment to the rendering side.
type ListingService struct {
	collector MatchCollector
	store     enrichment.Store
	opts      listing.Options
	snapshots *cache.Store[listing.Snapshot]
	logger    *logging.Logger
	now       func() time.Time
}

func NewListingService(collector MatchCollector, store enrichment.Store, opts listing.Options, cacheTTL time.Duration, logger *logging.Logger) *ListingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ListingService{
		collector: collector,
		store:     store,
		opts:      opts,
		snapshots: cache.NewStore[listing.Snapshot](cacheTTL),
		logger:    logger,
		now:       time.Now,
	}
}

// Snapshot returns the cached aggregation, rebuilding it from the sources when stale.
func (s *ListingService) Snapshot(ctx context.Context) (listing.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ListingService.Snapshot")
	defer span.End()

	return s.snapshots.GetOrLoad(ctx, snapshotCacheKey, s.build)
}

func (s *ListingService) build(ctx context.Context) (listing.Snapshot, error) {
	collection, _, err := s.collector.Collect(ctx)
	if err != nil {
		return listing.Snapshot{}, fmt.Errorf("%w: collect matches: %v", ErrSourceUnavailable, err)
	}
	return listing.Build(collection.Matches(), s.now(), s.opts), nil
}

// Invalidate drops the cached snapshot so the next read sees fresh source files.
func (s *ListingService) Invalidate() {
	s.snapshots.Delete(snapshotCacheKey)
}

func (s *ListingService) Matches(ctx context.Context) ([]match.Match, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Matches, nil
}

func (s *ListingService) Days(ctx context.Context) ([]listing.Day, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Days, nil
}

// Day accepts YYYY-MM-DD or YYYYMMDD.
func (s *ListingService) Day(ctx context.Context, date string) (listing.Day, error) {
	bucket, err := enrichment.ParseDateBucket(date)
	if err != nil {
		return listing.Day{}, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}
	key := bucket.Time().Format(listing.DayLayout)

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return listing.Day{}, err
	}
	day, ok := snapshot.Day(key)
	if !ok {
		return listing.Day{}, fmt.Errorf("%w: %s is outside the listing window", ErrDayNotListed, key)
	}
	return day, nil
}

func (s *ListingService) Channels(ctx context.Context) ([]listing.Channel, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Channels, nil
}

func (s *ListingService) Channel(ctx context.Context, nameOrSlug string) (listing.Channel, error) {
	nameOrSlug = strings.TrimSpace(nameOrSlug)
	if nameOrSlug == "" {
		return listing.Channel{}, fmt.Errorf("%w: channel is required", ErrInvalidInput)
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return listing.Channel{}, err
	}
	channel, ok := snapshot.Channel(nameOrSlug)
	if !ok {
		return listing.Channel{}, fmt.Errorf("%w: %q", ErrChannelNotIndexed, nameOrSlug)
	}
	return channel, nil
}

// GetEnrichment returns the stored payload; absence is reported through ok, not an error.
func (s *ListingService) GetEnrichment(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, matchID int64) (enrichment.Payload, bool, error) {
	if !kind.Valid() {
		return nil, false, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	if matchID <= 0 {
		return nil, false, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	payload, ok, err := s.store.Get(ctx, kind, bucket, matchID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return payload, ok, nil
}

// EnrichmentView decodes the stored payload into the typed view for kind. A missing payload
// yields the view's unavailable form.
func (s *ListingService) EnrichmentView(ctx context.Context, kind enrichment.Kind, bucket enrichment.DateBucket, matchID int64) (any, error) {
	payload, _, err := s.GetEnrichment(ctx, kind, bucket, matchID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case enrichment.KindH2H:
		return enrichment.DecodeH2H(payload), nil
	case enrichment.KindLineups:
		return enrichment.DecodeLineups(payload), nil
	case enrichment.KindStatistics:
		return enrichment.DecodeStatistics(payload), nil
	case enrichment.KindOdds:
		return enrichment.DecodeOdds(payload), nil
	case enrichment.KindForm:
		return enrichment.DecodeForm(payload), nil
	default:
		return enrichment.DecodeIncidents(payload), nil
	}
}
