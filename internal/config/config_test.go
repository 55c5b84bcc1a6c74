package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SourceDir != "date" || cfg.StoreDir != "data" || cfg.StoreDriver != StoreDriverFile {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.EnrichBatchSize != 5 || cfg.EnrichBatchInterval != time.Second || cfg.ProviderTimeout != 15*time.Second {
		t.Fatalf("unexpected enrichment defaults: size=%d interval=%s timeout=%s",
			cfg.EnrichBatchSize, cfg.EnrichBatchInterval, cfg.ProviderTimeout)
	}
	if len(cfg.EnrichKinds) != len(enrichment.AllKinds()) {
		t.Fatalf("expected all kinds by default, got %v", cfg.EnrichKinds)
	}
	if len(cfg.EnrichDayOffsets) != 7 || cfg.EnrichDayOffsets[0] != -3 || cfg.EnrichDayOffsets[6] != 3 {
		t.Fatalf("unexpected enrich day offsets: %v", cfg.EnrichDayOffsets)
	}
	if len(cfg.ScheduleDayOffsets) != 3 || cfg.ScheduleDayOffsets[0] != 1 {
		t.Fatalf("unexpected schedule day offsets: %v", cfg.ScheduleDayOffsets)
	}
	if cfg.ListingWindow != listing.WindowRolling || cfg.ListingSecondaryKey != listing.SecondaryLeague || cfg.ListingUTCOffset != 0 {
		t.Fatalf("unexpected listing defaults: %+v", cfg)
	}
	if len(cfg.ListingPriorityLeagueIDs) != 5 {
		t.Fatalf("expected default priority leagues, got %v", cfg.ListingPriorityLeagueIDs)
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORE_DRIVER=postgres without DB_URL")
	}

	t.Setenv("STORE_DRIVER", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORE_DRIVER")
	}
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ENRICH_KINDS", "h2h,weather")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown enrichment kind")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/1"`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn from otlp headers: %q", cfg.UptraceDSN)
	}
}

func TestParseUTCOffset(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "+05:00", want: 5 * time.Hour},
		{raw: "-03:30", want: -(3*time.Hour + 30*time.Minute)},
		{raw: "UTC+5", want: 5 * time.Hour},
		{raw: "5.5", want: 5*time.Hour + 30*time.Minute},
		{raw: "-2h", want: -2 * time.Hour},
		{raw: "Z", want: 0},
		{raw: "+15:00", wantErr: true},
		{raw: "+05:75", wantErr: true},
		{raw: "+-05:00", wantErr: true},
		{raw: "--05:00", wantErr: true},
		{raw: "+05:-10", wantErr: true},
		{raw: "+05:+10", wantErr: true},
		{raw: "+:30", wantErr: true},
		{raw: "soon", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseUTCOffset(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseUTCOffset(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseUTCOffset(%q) = %s, %v; want %s", tc.raw, got, err, tc.want)
		}
	}
}

func TestParseDayOffsets(t *testing.T) {
	t.Parallel()

	got, err := parseDayOffsets("2, 1, 2")
	if err != nil || len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("unexpected csv offsets: %v err=%v", got, err)
	}
	if _, err := parseDayOffsets("3..-3"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}
