package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
	"github.com/riskibarqy/matchday-feed/internal/infrastructure/sourcedir"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

func TestCollectorService_FirstSeenAcrossDayFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := map[string]string{
		"20260110.json": `[{"match_id":42,"kickoff":1768068000,"fixture":"Arsenal vs Chelsea","league":"Premier League","venue":"Emirates Stadium"}]`,
		"20260111.json": `[{"match_id":42,"kickoff":1768154400000,"fixture":"Arsenal vs Chelsea (moved)","league":"EPL"},
			{"match_id":43,"kickoff":1768154400,"fixture":"Spurs vs Fulham"}]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	service := NewCollectorService(sourcedir.New(root), logging.NewNop())
	collection, report, err := service.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if collection.Len() != 2 {
		t.Fatalf("expected 2 matches, got %d", collection.Len())
	}
	got, ok := collection.ByID(42)
	if !ok {
		t.Fatalf("match 42 missing")
	}
	if got.Fixture != "Arsenal vs Chelsea" || got.League != "Premier League" || got.KickoffUnix() != 1768068000 {
		t.Fatalf("expected first-seen values, got %+v", got)
	}
	if report.FilesRead != 2 || report.RecordsAccepted != 2 || report.RecordsDuplicate != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	again, _, err := service.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect again: %v", err)
	}
	first, second := collection.Keys(), again.Keys()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("collection order differs between runs: %v vs %v", first, second)
		}
	}
}

func TestCollectorService_SkipsBadFilesAndRecords(t *testing.T) {
	t.Parallel()

	source := &sourceReaderStub{
		paths: []string{"date/20260109.json", "date/20260110.json"},
		errs:  map[string]error{"date/20260109.json": errors.New("unexpected end of input")},
		files: map[string][]match.RawRecord{
			"date/20260110.json": {
				{"match_id": int64(1), "kickoff": int64(1768068000), "fixture": "A vs B"},
				{"match_id": int64(2), "fixture": "C vs D"},
				{"kickoff": int64(1768068000)},
				{"kickoff": int64(1768068000), "fixture": "E vs F"},
			},
		},
	}

	collection, report, err := NewCollectorService(source, logging.NewNop()).Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if collection.Len() != 2 {
		t.Fatalf("expected 2 matches (one without id kept), got %d", collection.Len())
	}
	if report.FilesSkipped != 1 || report.FilesRead != 1 || report.RecordsRejected != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestCollectorService_NonObjectRecordDropsOnlyThatRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	body := `[1, {"match_id":42,"kickoff":1768068000,"fixture":"Arsenal vs Chelsea"}, "oops"]`
	if err := os.WriteFile(filepath.Join(root, "20260110.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}

	collection, report, err := NewCollectorService(sourcedir.New(root), logging.NewNop()).Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if collection.Len() != 1 {
		t.Fatalf("expected 1 match, got %d", collection.Len())
	}
	if report.FilesRead != 1 || report.FilesSkipped != 0 || report.RecordsRejected != 2 || report.RecordsAccepted != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestCollectorService_MissingDirectoryIsEmpty(t *testing.T) {
	t.Parallel()

	service := NewCollectorService(sourcedir.New(filepath.Join(t.TempDir(), "absent")), logging.NewNop())
	collection, _, err := service.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if collection.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", collection.Len())
	}
}

func TestCollectorService_ListErrorFails(t *testing.T) {
	t.Parallel()

	service := NewCollectorService(&sourceReaderStub{listErr: errors.New("permission denied")}, logging.NewNop())
	if _, _, err := service.Collect(context.Background()); err == nil {
		t.Fatalf("expected list error")
	}
}
