package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"

	IDSourceCollection = "collection"
	IDSourceSchedule   = "schedule"
)

// Config stores runtime configuration for the pipeline and the read API.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	CacheTTL           time.Duration
	InternalJobToken   string

	SourceDir   string
	StoreDriver string
	StoreDir    string
	DBURL       string
	SQLitePath  string

	ProviderBaseURL               string
	ProviderScheduleBaseURL       string
	ProviderSport                 string
	ProviderTimeout               time.Duration
	ProviderUserAgent             string
	ProviderCircuitEnabled        bool
	ProviderCircuitFailureCount   int
	ProviderCircuitOpenTimeout    time.Duration
	ProviderCircuitHalfOpenMaxReq int

	EnrichEnabled       bool
	EnrichKinds         []enrichment.Kind
	EnrichBatchSize     int
	EnrichBatchInterval time.Duration
	EnrichDayOffsets    []int
	EnrichIDSource      string

	ScheduleEnabled    bool
	ScheduleDayOffsets []int
	ScheduleChannelRPS float64
	ScheduleWorkers    int

	ListingUTCOffset         time.Duration
	ListingWindow            listing.WindowMode
	ListingWindowDays        int
	ListingPriorityLeagueIDs []int64
	ListingSecondaryKey      listing.SecondaryKey

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Top five European competitions by provider unique tournament id.
const defaultPriorityLeagueIDs = "17,7,8,23,35"

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "matchday-feed"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logLevel,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SourceDir:          strings.TrimSpace(getEnv("SOURCE_DIR", "date")),
		StoreDir:           strings.TrimSpace(getEnv("STORE_DIR", "data")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		SQLitePath:         strings.TrimSpace(getEnv("SQLITE_PATH", "data/enrichment.db")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SourceDir == "" {
		return Config{}, fmt.Errorf("SOURCE_DIR cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	if err := loadStore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadProvider(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadEnrichment(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSchedule(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadListing(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStore(cfg *Config) error {
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverFile)))
	switch cfg.StoreDriver {
	case StoreDriverFile:
		if cfg.StoreDir == "" {
			return fmt.Errorf("STORE_DIR is required when STORE_DRIVER=file")
		}
	case StoreDriverSQLite:
		if cfg.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	case StoreDriverPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s, %s",
			cfg.StoreDriver, StoreDriverFile, StoreDriverSQLite, StoreDriverPostgres)
	}
	return nil
}

func loadProvider(cfg *Config) error {
	var err error
	cfg.ProviderBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PROVIDER_BASE_URL", "https://api.sofascore.com/api/v1")), "/")
	cfg.ProviderScheduleBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PROVIDER_SCHEDULE_BASE_URL", "https://www.sofascore.com/api/v1")), "/")
	cfg.ProviderSport = strings.TrimSpace(getEnv("PROVIDER_SPORT", "football"))
	cfg.ProviderUserAgent = getEnv("PROVIDER_USER_AGENT", defaultUserAgent)
	if cfg.ProviderBaseURL == "" || cfg.ProviderScheduleBaseURL == "" {
		return fmt.Errorf("PROVIDER_BASE_URL and PROVIDER_SCHEDULE_BASE_URL cannot be empty")
	}
	if cfg.ProviderTimeout, err = getEnvAsDuration("PROVIDER_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.ProviderCircuitEnabled, err = getEnvAsBool("PROVIDER_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if cfg.ProviderCircuitFailureCount, err = getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ProviderCircuitFailureCount < 1 {
		return fmt.Errorf("PROVIDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ProviderCircuitOpenTimeout, err = getEnvAsDuration("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.ProviderCircuitHalfOpenMaxReq, err = getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ProviderCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadEnrichment(cfg *Config) error {
	var err error
	if cfg.EnrichEnabled, err = getEnvAsBool("ENRICH_ENABLED", true); err != nil {
		return err
	}
	kinds, err := enrichment.ParseKinds(splitCSV(getEnv("ENRICH_KINDS", "h2h,lineups,statistics,odds,form,incidents")))
	if err != nil {
		return fmt.Errorf("parse ENRICH_KINDS: %w", err)
	}
	if len(kinds) == 0 {
		return fmt.Errorf("ENRICH_KINDS cannot be empty")
	}
	cfg.EnrichKinds = kinds

	if cfg.EnrichBatchSize, err = getEnvAsInt("ENRICH_BATCH_SIZE", 5); err != nil {
		return fmt.Errorf("parse ENRICH_BATCH_SIZE: %w", err)
	}
	if cfg.EnrichBatchSize < 1 {
		return fmt.Errorf("ENRICH_BATCH_SIZE must be >= 1")
	}
	if cfg.EnrichBatchInterval, err = time.ParseDuration(getEnv("ENRICH_BATCH_INTERVAL", "1s")); err != nil {
		return fmt.Errorf("parse ENRICH_BATCH_INTERVAL: %w", err)
	}
	if cfg.EnrichBatchInterval < 0 {
		return fmt.Errorf("ENRICH_BATCH_INTERVAL must be >= 0")
	}
	if cfg.EnrichDayOffsets, err = parseDayOffsets(getEnv("ENRICH_DAY_OFFSETS", "-3..3")); err != nil {
		return fmt.Errorf("parse ENRICH_DAY_OFFSETS: %w", err)
	}

	cfg.EnrichIDSource = strings.ToLower(strings.TrimSpace(getEnv("ENRICH_ID_SOURCE", IDSourceCollection)))
	switch cfg.EnrichIDSource {
	case IDSourceCollection, IDSourceSchedule:
	default:
		return fmt.Errorf("invalid ENRICH_ID_SOURCE %q: valid values are %s, %s", cfg.EnrichIDSource, IDSourceCollection, IDSourceSchedule)
	}
	return nil
}

func loadSchedule(cfg *Config) error {
	var err error
	if cfg.ScheduleEnabled, err = getEnvAsBool("SCHEDULE_ENABLED", false); err != nil {
		return err
	}
	if cfg.ScheduleDayOffsets, err = parseDayOffsets(getEnv("SCHEDULE_DAY_OFFSETS", "1,2,3")); err != nil {
		return fmt.Errorf("parse SCHEDULE_DAY_OFFSETS: %w", err)
	}
	if cfg.ScheduleChannelRPS, err = strconv.ParseFloat(strings.TrimSpace(getEnv("SCHEDULE_CHANNEL_RPS", "5")), 64); err != nil {
		return fmt.Errorf("parse SCHEDULE_CHANNEL_RPS: %w", err)
	}
	if cfg.ScheduleChannelRPS <= 0 {
		return fmt.Errorf("SCHEDULE_CHANNEL_RPS must be > 0")
	}
	if cfg.ScheduleWorkers, err = getEnvAsInt("SCHEDULE_WORKERS", 4); err != nil {
		return fmt.Errorf("parse SCHEDULE_WORKERS: %w", err)
	}
	if cfg.ScheduleWorkers < 1 {
		return fmt.Errorf("SCHEDULE_WORKERS must be >= 1")
	}
	return nil
}

func loadListing(cfg *Config) error {
	var err error
	if cfg.ListingUTCOffset, err = parseUTCOffset(getEnv("LISTING_UTC_OFFSET", "+00:00")); err != nil {
		return fmt.Errorf("parse LISTING_UTC_OFFSET: %w", err)
	}
	if cfg.ListingWindow, err = listing.ParseWindowMode(getEnv("LISTING_WINDOW", string(listing.WindowRolling))); err != nil {
		return fmt.Errorf("parse LISTING_WINDOW: %w", err)
	}
	if cfg.ListingWindowDays, err = getEnvAsInt("LISTING_WINDOW_DAYS", 7); err != nil {
		return fmt.Errorf("parse LISTING_WINDOW_DAYS: %w", err)
	}
	if cfg.ListingWindowDays < 1 {
		return fmt.Errorf("LISTING_WINDOW_DAYS must be >= 1")
	}
	if cfg.ListingPriorityLeagueIDs, err = parseIDList(getEnv("LISTING_PRIORITY_LEAGUE_IDS", defaultPriorityLeagueIDs)); err != nil {
		return fmt.Errorf("parse LISTING_PRIORITY_LEAGUE_IDS: %w", err)
	}
	if cfg.ListingSecondaryKey, err = listing.ParseSecondaryKey(getEnv("LISTING_SECONDARY_KEY", string(listing.SecondaryLeague))); err != nil {
		return fmt.Errorf("parse LISTING_SECONDARY_KEY: %w", err)
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration parses a strictly positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

// parseDayOffsets accepts a CSV list ("1,2,3") or an inclusive range ("-3..3").
func parseDayOffsets(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if from, to, ok := strings.Cut(raw, ".."); ok {
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", from, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", to, err)
		}
		if end < start {
			return nil, fmt.Errorf("range end %d is before start %d", end, start)
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out, nil
	}

	items := splitCSV(raw)
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one day offset is required")
	}
	out := make([]int, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid day offset %q: %w", item, err)
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out, nil
}

const maxUTCOffset = 14 * time.Hour

// parseUTCOffset accepts "+05:00", "-03:30", "UTC+5", "5" (hours) or a Go duration such as "5h30m".
func parseUTCOffset(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(strings.TrimPrefix(value, "UTC"), "utc")
	if value == "" || value == "Z" {
		return 0, nil
	}

	var out time.Duration
	switch {
	case strings.Contains(value, ":"):
		sign := time.Duration(1)
		switch value[0] {
		case '-':
			sign = -1
			value = value[1:]
		case '+':
			value = value[1:]
		}
		hours, minutes, _ := strings.Cut(value, ":")
		if hours == "" || hours[0] < '0' || hours[0] > '9' {
			return 0, fmt.Errorf("invalid offset hours %q", raw)
		}
		h, err := strconv.Atoi(hours)
		if err != nil {
			return 0, fmt.Errorf("invalid offset hours %q", raw)
		}
		if minutes == "" || minutes[0] < '0' || minutes[0] > '9' {
			return 0, fmt.Errorf("invalid offset minutes %q", raw)
		}
		m, err := strconv.Atoi(minutes)
		if err != nil || m >= 60 {
			return 0, fmt.Errorf("invalid offset minutes %q", raw)
		}
		out = sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	default:
		if hours, err := strconv.ParseFloat(value, 64); err == nil {
			out = time.Duration(hours * float64(time.Hour))
			break
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q", raw)
		}
		out = parsed
	}

	if out > maxUTCOffset || out < -maxUTCOffset {
		return 0, fmt.Errorf("offset %q is outside ±14h", raw)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
