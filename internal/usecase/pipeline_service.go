package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

const (
	EnrichIDSourceCollection = "collection"
	EnrichIDSourceSchedule   = "schedule"
)

type ScheduleRunner interface {
	Run(ctx context.Context) (ScheduleReport, error)
}

type BucketEnricher interface {
	EnrichBucket(ctx context.Context, bucket enrichment.DateBucket, matchIDs []int64) (EnrichmentReport, error)
}

// EventIDLister lists provider event ids for a date when enrichment ids come from the schedule.
type EventIDLister interface {
	FetchScheduledEventIDs(ctx context.Context, day time.Time) ([]int64, error)
}

type PipelineConfig struct {
	ScheduleEnabled  bool
	EnrichEnabled    bool
	EnrichDayOffsets []int
	EnrichIDSource   string
	Listing          listing.Options
}

type PipelineReport struct {
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Schedule   *ScheduleReport    `json:"schedule,omitempty"`
	Collect    CollectReport      `json:"collect"`
	Enrichment []EnrichmentReport `json:"enrichment"`
	Matches    int                `json:"matches"`
	Days       int                `json:"days"`
	Channels   int                `json:"channels"`
}

// PipelineService runs one full pass: schedule, collect, enrich, aggregate.
type PipelineService struct {
	schedule  ScheduleRunner
	collector MatchCollector
	enricher  BucketEnricher
	idLister  EventIDLister
	cfg       PipelineConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewPipelineService(
	schedule ScheduleRunner,
	collector MatchCollector,
	enricher BucketEnricher,
	idLister EventIDLister,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.EnrichIDSource == "" {
		cfg.EnrichIDSource = EnrichIDSourceCollection
	}
	return &PipelineService{
		schedule:  schedule,
		collector: collector,
		enricher:  enricher,
		idLister:  idLister,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PipelineService) Run(ctx context.Context) (PipelineReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	report := PipelineReport{StartedAt: s.now().UTC(), Enrichment: []EnrichmentReport{}}
	finish := func(err error) (PipelineReport, error) {
		report.FinishedAt = s.now().UTC()
		return report, err
	}

	if s.cfg.ScheduleEnabled && s.schedule != nil {
		scheduleReport, err := s.schedule.Run(ctx)
		report.Schedule = &scheduleReport
		if err != nil {
			return finish(fmt.Errorf("produce schedule: %w", err))
		}
	}

	collection, collectReport, err := s.collector.Collect(ctx)
	report.Collect = collectReport
	if err != nil {
		return finish(fmt.Errorf("collect matches: %w", err))
	}
	matches := collection.Matches()
	report.Matches = len(matches)

	if s.cfg.EnrichEnabled && s.enricher != nil {
		today := s.now().UTC()
		for _, offset := range s.cfg.EnrichDayOffsets {
			bucket := enrichment.BucketOf(today.AddDate(0, 0, offset))
			ids, err := s.enrichmentIDs(ctx, bucket, matches)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return finish(ctxErr)
				}
				s.logger.WarnContext(ctx, "skip enrichment bucket", "date_bucket", bucket, "error", err)
				continue
			}

			bucketReport, err := s.enricher.EnrichBucket(ctx, bucket, ids)
			report.Enrichment = append(report.Enrichment, bucketReport)
			if err != nil {
				return finish(fmt.Errorf("enrich bucket %s: %w", bucket, err))
			}
		}
	}

	snapshot := listing.Build(matches, s.now(), s.cfg.Listing)
	report.Days = len(snapshot.Days)
	report.Channels = len(snapshot.Channels)

	s.logger.InfoContext(ctx, "pipeline run complete",
		"matches", report.Matches,
		"days", report.Days,
		"channels", report.Channels,
		"enriched_buckets", len(report.Enrichment),
	)
	return finish(nil)
}

func (s *PipelineService) enrichmentIDs(ctx context.Context, bucket enrichment.DateBucket, matches []match.Match) ([]int64, error) {
	if s.cfg.EnrichIDSource == EnrichIDSourceSchedule {
		if s.idLister == nil {
			return nil, fmt.Errorf("%w: schedule id source is not configured", ErrInvalidInput)
		}
		return s.idLister.FetchScheduledEventIDs(ctx, bucket.Time())
	}
	return MatchIDsForBucket(matches, bucket), nil
}

// MatchIDsForBucket returns ids of matches whose UTC kickoff falls on bucket, in collection order.
func MatchIDsForBucket(matches []match.Match, bucket enrichment.DateBucket) []int64 {
	out := make([]int64, 0, len(matches))
	for _, m := range matches {
		if !m.HasID() || enrichment.BucketOf(m.Kickoff) != bucket {
			continue
		}
		out = append(out, m.ID)
	}
	return out
}
