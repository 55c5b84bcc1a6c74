package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

// SourceReader lists and decodes per-day source files.
type SourceReader interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, path string) ([]match.RawRecord, error)
}

type CollectReport struct {
	FilesRead        int `json:"files_read"`
	FilesSkipped     int `json:"files_skipped"`
	RecordsAccepted  int `json:"records_accepted"`
	RecordsRejected  int `json:"records_rejected"`
	RecordsDuplicate int `json:"records_duplicate"`
}

type CollectorService struct {
	source SourceReader
	logger *logging.Logger
}

func NewCollectorService(source SourceReader, logger *logging.Logger) *CollectorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CollectorService{source: source, logger: logger}
}

// Collect merges every source file into one deduplicated collection. Files are visited in
// lexical order so the first record observed for a key is the same on every run.
func (s *CollectorService) Collect(ctx context.Context) (*match.Collection, CollectReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectorService.Collect")
	defer span.End()

	var report CollectReport
	out := match.NewCollection()

	paths, err := s.source.List(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("list source files: %w", err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		records, err := s.source.Read(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, report, err
			}
			report.FilesSkipped++
			s.logger.WarnContext(ctx, "skip unparsable source file", "path", path, "error", err)
			continue
		}
		report.FilesRead++

		for idx, raw := range records {
			m, err := match.Normalize(raw)
			if err != nil {
				report.RecordsRejected++
				s.logger.WarnContext(ctx, "drop invalid source record", "path", path, "index", idx, "error", err)
				continue
			}
			if !out.Add(m) {
				report.RecordsDuplicate++
				s.logger.DebugContext(ctx, "skip duplicate match", "path", path, "match_id", m.ID, "key", m.Key)
				continue
			}
			report.RecordsAccepted++
		}
	}

	s.logger.InfoContext(ctx, "source collection complete",
		"files_read", report.FilesRead,
		"files_skipped", report.FilesSkipped,
		"matches", out.Len(),
		"rejected", report.RecordsRejected,
		"duplicates", report.RecordsDuplicate,
	)
	return out, report, nil
}
