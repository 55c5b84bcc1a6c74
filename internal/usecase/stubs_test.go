package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

type sourceReaderStub struct {
	paths   []string
	files   map[string][]match.RawRecord
	errs    map[string]error
	listErr error
}

func (s *sourceReaderStub) List(context.Context) ([]string, error) {
	return s.paths, s.listErr
}

func (s *sourceReaderStub) Read(_ context.Context, path string) ([]match.RawRecord, error) {
	if err := s.errs[path]; err != nil {
		return nil, err
	}
	return s.files[path], nil
}

type providerStub struct {
	mu    sync.Mutex
	calls map[enrichment.Kind]int
	fetch func(matchID int64, kind enrichment.Kind) (enrichment.Payload, error)
}

func (p *providerStub) FetchEnrichment(_ context.Context, matchID int64, kind enrichment.Kind) (enrichment.Payload, error) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[enrichment.Kind]int)
	}
	p.calls[kind]++
	p.mu.Unlock()

	if p.fetch == nil {
		return enrichment.Payload(`{}`), nil
	}
	return p.fetch(matchID, kind)
}

type sourceWriterStub struct {
	days []match.SourceDay
	err  error
}

func (w *sourceWriterStub) Write(_ context.Context, day match.SourceDay) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.days = append(w.days, day)
	return "date/" + day.Bucket + ".json", nil
}

type collectorStub struct {
	mu      sync.Mutex
	calls   int
	matches []match.Match
	err     error
}

func (c *collectorStub) Collect(context.Context) (*match.Collection, CollectReport, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.err != nil {
		return nil, CollectReport{}, c.err
	}
	out := match.NewCollection()
	for _, m := range c.matches {
		out.Add(m)
	}
	return out, CollectReport{FilesRead: 1, RecordsAccepted: out.Len()}, nil
}

type enricherStub struct {
	buckets []enrichment.DateBucket
	ids     map[enrichment.DateBucket][]int64
	err     error
}

func (e *enricherStub) EnrichBucket(_ context.Context, bucket enrichment.DateBucket, ids []int64) (EnrichmentReport, error) {
	e.buckets = append(e.buckets, bucket)
	if e.ids == nil {
		e.ids = make(map[enrichment.DateBucket][]int64)
	}
	e.ids[bucket] = ids
	return EnrichmentReport{Bucket: bucket, Requested: len(ids)}, e.err
}

type scheduleRunnerStub struct {
	calls int
	err   error
}

func (s *scheduleRunnerStub) Run(context.Context) (ScheduleReport, error) {
	s.calls++
	return ScheduleReport{}, s.err
}

type idListerStub struct {
	ids map[string][]int64
}

func (l *idListerStub) FetchScheduledEventIDs(_ context.Context, day time.Time) ([]int64, error) {
	ids, ok := l.ids[day.Format(time.DateOnly)]
	if !ok {
		return nil, errors.New("schedule unavailable")
	}
	return ids, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
