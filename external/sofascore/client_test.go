package sofascore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
	"github.com/riskibarqy/matchday-feed/internal/platform/resilience"
	"github.com/riskibarqy/matchday-feed/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:         server.URL,
		ScheduleBaseURL: server.URL + "/",
		UserAgent:       "test-agent",
		Timeout:         2 * time.Second,
		Logger:          logging.NewNop(),
		CircuitBreaker:  breaker,
	})
}

func TestClient_FetchEnrichmentUsesKindPath(t *testing.T) {
	t.Parallel()

	var gotPath, gotAgent string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{ "home": { "expected": 41 } }`))
	}), resilience.CircuitBreakerConfig{})

	payload, err := client.FetchEnrichment(context.Background(), 42, enrichment.KindOdds)
	if err != nil {
		t.Fatalf("fetch enrichment: %v", err)
	}
	if gotPath != "/event/42/provider/1/winning-odds" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAgent != "test-agent" {
		t.Fatalf("unexpected user agent %q", gotAgent)
	}
	if string(payload) != `{"home":{"expected":41}}` {
		t.Fatalf("expected compact payload, got %s", payload)
	}
}

func TestClient_FetchEnrichmentNon200IsError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
	}), resilience.CircuitBreakerConfig{})

	_, err := client.FetchEnrichment(context.Background(), 42, enrichment.KindLineups)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected unexpected status error, got %v", err)
	}
}

func TestClient_FetchEnrichmentRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FetchEnrichment(context.Background(), 0, enrichment.KindH2H); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := client.FetchEnrichment(context.Background(), 1, enrichment.Kind("weather")); !errors.Is(err, enrichment.ErrUnknownKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestClient_ScheduleEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/sport/football/scheduled-events/2026-01-10", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"id":42},{"id":0},{"id":43}]}`))
	})
	mux.HandleFunc("/event/42", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"event":{"id":42,"startTimestamp":1768068000,
			"homeTeam":{"name":"Arsenal"},"awayTeam":{"name":"Chelsea"},
			"tournament":{"name":"Premier League","uniqueTournament":{"id":17}},
			"venue":{"name":"Emirates Stadium"}}}`))
	})
	mux.HandleFunc("/event/43", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"event":{"id":43,"startTimestamp":1768068000,"homeTeam":{"name":"Arsenal"}}}`))
	})
	mux.HandleFunc("/tv/event/42/country-channels", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"countryChannels":{"GB":[1,2],"US":[3]}}`))
	})
	mux.HandleFunc("/tv/channel/1/schedule", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"channel":{"id":1,"name":"Sky Sports"}}`))
	})

	client := newTestClient(t, mux, resilience.CircuitBreakerConfig{})
	ctx := context.Background()

	ids, err := client.FetchScheduledEventIDs(ctx, time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("scheduled events: %v", err)
	}
	if len(ids) != 2 || ids[0] != 42 || ids[1] != 43 {
		t.Fatalf("unexpected ids %v", ids)
	}

	record, err := client.FetchEventDetails(ctx, 42)
	if err != nil {
		t.Fatalf("event details: %v", err)
	}
	if record.Fixture != "Arsenal vs Chelsea" || record.LeagueID != 17 || record.League != "Premier League" ||
		record.Venue != "Emirates Stadium" || record.Kickoff != 1768068000 {
		t.Fatalf("unexpected record %+v", record)
	}
	if _, err := client.FetchEventDetails(ctx, 43); err == nil {
		t.Fatalf("expected error for event without away team")
	}

	channels, err := client.FetchCountryChannels(ctx, 42)
	if err != nil {
		t.Fatalf("country channels: %v", err)
	}
	if len(channels["GB"]) != 2 || channels["US"][0] != 3 {
		t.Fatalf("unexpected channels %v", channels)
	}

	name, err := client.FetchChannelName(ctx, 1)
	if err != nil || name != "Sky Sports" {
		t.Fatalf("unexpected channel name %q err=%v", name, err)
	}
	if _, err := client.FetchChannelName(ctx, 2); err == nil {
		t.Fatalf("expected error for unknown channel")
	}
}

func TestClient_ScheduleBreakerOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}), resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchCountryChannels(ctx, 42); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}

	_, err := client.FetchCountryChannels(ctx, 42)
	if !errors.Is(err, usecase.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open breaker to skip the request, got %d calls", calls.Load())
	}
	if client.BreakerState() != string(resilience.CircuitStateOpen) {
		t.Fatalf("unexpected breaker state %s", client.BreakerState())
	}

	// Enrichment requests bypass the breaker.
	if _, err := client.FetchEnrichment(ctx, 42, enrichment.KindForm); err == nil {
		t.Fatalf("expected enrichment failure from server")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected enrichment to reach the server, got %d calls", calls.Load())
	}
}
