package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/platform/cache"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

// Name the provider uses when a channel cannot be resolved; such entries are dropped.
const unknownChannelName = "Unknown Channel"

// ScheduleProvider is the slice of the provider API the schedule producer needs.
type ScheduleProvider interface {
	FetchScheduledEventIDs(ctx context.Context, day time.Time) ([]int64, error)
	FetchEventDetails(ctx context.Context, eventID int64) (match.SourceRecord, error)
	FetchCountryChannels(ctx context.Context, eventID int64) (map[string][]int64, error)
	FetchChannelName(ctx context.Context, channelID int64) (string, error)
}

type SourceWriter interface {
	Write(ctx context.Context, day match.SourceDay) (string, error)
}

type ScheduleConfig struct {
	DayOffsets      []int
	Workers         int
	ChannelRPS      float64
	ChannelCacheTTL time.Duration
	DayInterval     time.Duration
}

type ScheduleDayReport struct {
	Bucket  enrichment.DateBucket `json:"date_bucket"`
	Path    string                `json:"path,omitempty"`
	Events  int                   `json:"events"`
	Written int                   `json:"written"`
	Dropped int                   `json:"dropped"`
	Skipped bool                  `json:"skipped"`
	Reason  string                `json:"reason,omitempty"`
}

type ScheduleReport struct {
	Days []ScheduleDayReport `json:"days"`
}

// ScheduleService produces upcoming per-day source files from the provider's schedule.
type ScheduleService struct {
	provider ScheduleProvider
	writer   SourceWriter
	cfg      ScheduleConfig
	limiter  *rate.Limiter
	channels *cache.Store[string]
	logger   *logging.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewScheduleService(provider ScheduleProvider, writer SourceWriter, cfg ScheduleConfig, logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.DayOffsets) == 0 {
		cfg.DayOffsets = []int{1, 2, 3}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ChannelCacheTTL <= 0 {
		cfg.ChannelCacheTTL = 6 * time.Hour
	}

	limit := rate.Inf
	burst := 1
	if cfg.ChannelRPS > 0 {
		limit = rate.Limit(cfg.ChannelRPS)
		burst = max(1, int(cfg.ChannelRPS))
	}

	return &ScheduleService{
		provider: provider,
		writer:   writer,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, burst),
		channels: cache.NewStore[string](cfg.ChannelCacheTTL),
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Run produces one source file per configured day offset from UTC today.
func (s *ScheduleService) Run(ctx context.Context) (ScheduleReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Run")
	defer span.End()

	today := s.now().UTC()
	report := ScheduleReport{Days: make([]ScheduleDayReport, 0, len(s.cfg.DayOffsets))}
	for idx, offset := range s.cfg.DayOffsets {
		if idx > 0 {
			if err := s.sleep(ctx, s.cfg.DayInterval); err != nil {
				return report, err
			}
		}
		day, err := s.ProduceDay(ctx, today.AddDate(0, 0, offset))
		report.Days = append(report.Days, day)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ProduceDay writes the source file for the UTC date of day. A failed or empty schedule skips the day.
func (s *ScheduleService) ProduceDay(ctx context.Context, day time.Time) (ScheduleDayReport, error) {
	bucket := enrichment.BucketOf(day)
	report := ScheduleDayReport{Bucket: bucket}

	ids, err := s.provider.FetchScheduledEventIDs(ctx, day)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		report.Skipped = true
		report.Reason = "schedule fetch failed"
		s.logger.WarnContext(ctx, "skip schedule day", "date_bucket", bucket, "error", err)
		return report, nil
	}
	report.Events = len(ids)
	if len(ids) == 0 {
		report.Skipped = true
		report.Reason = "no events"
		s.logger.InfoContext(ctx, "no scheduled events", "date_bucket", bucket)
		return report, nil
	}

	records, err := s.fetchRecords(ctx, bucket, ids)
	if err != nil {
		return report, err
	}

	out := make([]match.SourceRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			out = append(out, *record)
		}
	}
	report.Written = len(out)
	report.Dropped = len(ids) - len(out)

	path, err := s.writer.Write(ctx, match.SourceDay{Bucket: string(bucket), Records: out})
	if err != nil {
		return report, fmt.Errorf("write source day %s: %w", bucket, err)
	}
	report.Path = path

	s.logger.InfoContext(ctx, "schedule day written",
		"date_bucket", bucket,
		"path", path,
		"events", report.Events,
		"dropped", report.Dropped,
	)
	return report, nil
}

func (s *ScheduleService) fetchRecords(ctx context.Context, bucket enrichment.DateBucket, ids []int64) ([]*match.SourceRecord, error) {
	workers, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create schedule worker pool: %w", err)
	}
	defer workers.Release()

	// Indexed by position so the file keeps the provider's schedule order.
	records := make([]*match.SourceRecord, len(ids))

	var wg sync.WaitGroup
	for idx, eventID := range ids {
		idx, eventID := idx, eventID
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			record, err := s.fetchRecord(ctx, eventID)
			if err != nil {
				s.logger.WarnContext(ctx, "drop scheduled event", "match_id", eventID, "date_bucket", bucket, "error", err)
				return
			}
			records[idx] = &record
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit schedule task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ScheduleService) fetchRecord(ctx context.Context, eventID int64) (match.SourceRecord, error) {
	record, err := s.provider.FetchEventDetails(ctx, eventID)
	if err != nil {
		return match.SourceRecord{}, err
	}
	record.TVChannels = s.fetchBroadcasts(ctx, eventID)
	return record, nil
}

// fetchBroadcasts resolves channel names per country. Lookup failures leave the event with no broadcasts.
func (s *ScheduleService) fetchBroadcasts(ctx context.Context, eventID int64) []match.SourceBroadcast {
	byCountry, err := s.provider.FetchCountryChannels(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch tv channels failed", "match_id", eventID, "error", err)
		return []match.SourceBroadcast{}
	}

	out := make([]match.SourceBroadcast, 0, len(byCountry))
	for country, channelIDs := range byCountry {
		names := make([]string, 0, len(channelIDs))
		seen := make(map[string]struct{}, len(channelIDs))
		for _, channelID := range channelIDs {
			name := s.channelName(ctx, channelID)
			if name == "" || name == unknownChannelName {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		if len(names) == 0 {
			names = []string{match.PlaceholderChannel}
		}
		out = append(out, match.SourceBroadcast{Country: country, Channels: names})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// channelName is cached per channel id and throttled; failures resolve to the unknown name.
func (s *ScheduleService) channelName(ctx context.Context, channelID int64) string {
	name, err := s.channels.GetOrLoad(ctx, "channel:"+strconv.FormatInt(channelID, 10), func(ctx context.Context) (string, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		return s.provider.FetchChannelName(ctx, channelID)
	})
	if err != nil {
		s.logger.DebugContext(ctx, "resolve channel name failed", "channel_id", channelID, "error", err)
		return unknownChannelName
	}
	return strings.TrimSpace(name)
}
