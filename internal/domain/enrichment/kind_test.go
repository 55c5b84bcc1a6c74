package enrichment

import (
	"errors"
	"testing"
	"time"
)

func TestKindPath(t *testing.T) {
	t.Parallel()

	want := map[Kind]string{
		KindH2H:        "h2h",
		KindLineups:    "lineups",
		KindStatistics: "statistics",
		KindOdds:       "provider/1/winning-odds",
		KindForm:       "pregame-form",
		KindIncidents:  "incidents",
	}
	for _, kind := range AllKinds() {
		if got := kind.Path(); got != want[kind] {
			t.Fatalf("path for %s = %q, want %q", kind, got, want[kind])
		}
	}
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	kinds, err := ParseKinds([]string{"H2H", " odds ", "", "h2h"})
	if err != nil {
		t.Fatalf("parse kinds: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != KindH2H || kinds[1] != KindOdds {
		t.Fatalf("unexpected kinds: %v", kinds)
	}

	if _, err := ParseKinds([]string{"weather"}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDateBucket(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 10, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	if got := BucketOf(at); got != "20260111" {
		t.Fatalf("bucket = %s, want 20260111", got)
	}

	for _, raw := range []string{"20260110", "2026-01-10"} {
		bucket, err := ParseDateBucket(raw)
		if err != nil || bucket != "20260110" {
			t.Fatalf("parse %q = %s, %v", raw, bucket, err)
		}
	}
	if _, err := ParseDateBucket("2026/01/10"); !errors.Is(err, ErrInvalidDateBucket) {
		t.Fatalf("expected ErrInvalidDateBucket, got %v", err)
	}
}

func TestNewPayload(t *testing.T) {
	t.Parallel()

	p, err := NewPayload([]byte("{ \"a\" : [1, 2] }\n"))
	if err != nil {
		t.Fatalf("new payload: %v", err)
	}
	if string(p) != `{"a":[1,2]}` {
		t.Fatalf("unexpected compact payload %s", p)
	}
	if _, err := NewPayload([]byte("<html>")); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestViews_MarkMissingSections(t *testing.T) {
	t.Parallel()

	odds := DecodeOdds(Payload(`{"home":{"expected":45,"actual":50,"fractionalValue":"6/5"}}`))
	if !odds.Available || !odds.Home.Available || odds.Away.Available {
		t.Fatalf("unexpected odds availability: %+v", odds)
	}
	if odds.Home.Expected != 45 || odds.Home.Actual != 50 {
		t.Fatalf("unexpected odds values: %+v", odds.Home)
	}

	if view := DecodeForm(nil); view.Available {
		t.Fatalf("expected unavailable form view for missing payload")
	}

	lineups := DecodeLineups(Payload(`{"confirmed":true,"home":{"formation":"4-3-3","players":[
		{"player":{"name":"Raya"},"position":"G","shirtNumber":22},
		{"player":{"name":"Neto"},"position":"G","shirtNumber":"32","substitute":true}
	]}}`))
	if !lineups.Confirmed || lineups.Home.Formation != "4-3-3" || lineups.Away.Available {
		t.Fatalf("unexpected lineups view: %+v", lineups)
	}
	if len(lineups.Home.Starters) != 1 || len(lineups.Home.Bench) != 1 || lineups.Home.Bench[0].ShirtNumber != 32 {
		t.Fatalf("unexpected lineup split: %+v", lineups.Home)
	}
}
