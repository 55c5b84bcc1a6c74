package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	enrichmentmock "github.com/riskibarqy/matchday-feed/internal/mocks/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

func listingMatches() []match.Match {
	kickoff := time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC)
	return []match.Match{
		{
			ID: 42, Key: match.KeyFor(42, "", kickoff), Kickoff: kickoff,
			Fixture: "Arsenal vs Chelsea", League: "Premier League", LeagueID: 17,
			Broadcasts: []match.Broadcast{{Country: "UK", Channels: []string{"Sky Sports"}}},
		},
	}
}

func newListingService(t *testing.T, collector MatchCollector, store enrichment.Store) *ListingService {
	t.Helper()

	service := NewListingService(collector, store, listing.Options{
		Location: listing.FixedZone(5 * time.Hour),
		Window:   listing.WindowRolling,
		Days:     3,
		Priority: listing.NewPrioritySet(17),
	}, time.Minute, logging.NewNop())
	service.now = fixedClock(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	return service
}

func TestListingService_SnapshotIsCached(t *testing.T) {
	t.Parallel()

	collector := &collectorStub{matches: listingMatches()}
	service := newListingService(t, collector, enrichmentmock.NewStore(t))
	ctx := context.Background()

	if _, err := service.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := service.Days(ctx); err != nil {
		t.Fatalf("days: %v", err)
	}
	if collector.calls != 1 {
		t.Fatalf("expected cached snapshot, collector called %d times", collector.calls)
	}

	service.Invalidate()
	if _, err := service.Matches(ctx); err != nil {
		t.Fatalf("matches: %v", err)
	}
	if collector.calls != 2 {
		t.Fatalf("expected rebuild after invalidate, collector called %d times", collector.calls)
	}
}

func TestListingService_DayAndChannelLookups(t *testing.T) {
	t.Parallel()

	service := newListingService(t, &collectorStub{matches: listingMatches()}, enrichmentmock.NewStore(t))
	ctx := context.Background()

	day, err := service.Day(ctx, "20260111")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if len(day.Entries) != 1 || day.Entries[0].Match.ID != 42 {
		t.Fatalf("expected match 42 on 2026-01-11 local, got %+v", day.Entries)
	}

	if _, err := service.Day(ctx, "2026-02-01"); !errors.Is(err, ErrDayNotListed) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := service.Day(ctx, "tomorrow"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	channel, err := service.Channel(ctx, "sky-sports")
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	if channel.Name != "Sky Sports" || len(channel.Entries) != 1 {
		t.Fatalf("unexpected channel %+v", channel)
	}
	if _, err := service.Channel(ctx, "TBA"); !errors.Is(err, ErrChannelNotIndexed) {
		t.Fatalf("expected TBA to be absent from the index, got %v", err)
	}
}

func TestListingService_CollectFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	service := newListingService(t, &collectorStub{err: errors.New("io error")}, enrichmentmock.NewStore(t))
	if _, err := service.Snapshot(context.Background()); !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestListingService_GetEnrichment(t *testing.T) {
	t.Parallel()

	store := enrichmentmock.NewStore(t)
	store.On("Get", mock.Anything, enrichment.KindOdds, testBucket, int64(42)).
		Return(enrichment.Payload(`{"home":{"expected":40,"actual":55,"fractionalValue":"6/4"}}`), true, nil).
		Once()
	store.On("Get", mock.Anything, enrichment.KindLineups, testBucket, int64(42)).
		Return(nil, false, nil).
		Once()

	service := newListingService(t, &collectorStub{}, store)
	ctx := context.Background()

	payload, ok, err := service.GetEnrichment(ctx, enrichment.KindOdds, testBucket, 42)
	if err != nil || !ok || len(payload) == 0 {
		t.Fatalf("unexpected get: ok=%v err=%v", ok, err)
	}

	view, err := service.EnrichmentView(ctx, enrichment.KindLineups, testBucket, 42)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	lineups, isLineups := view.(enrichment.LineupsView)
	if !isLineups || lineups.Available {
		t.Fatalf("expected unavailable lineups view, got %#v", view)
	}

	if _, _, err := service.GetEnrichment(ctx, enrichment.Kind("weather"), testBucket, 42); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown kind, got %v", err)
	}
}
