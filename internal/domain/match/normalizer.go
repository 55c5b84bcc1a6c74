package match

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

// MillisecondThreshold is the smallest kickoff value read as milliseconds.
const MillisecondThreshold int64 = 10_000_000_000

var ErrMissingRequiredField = errors.New("missing_required_field")

var (
	matchIDFields  = []string{"match_id", "id", "event_id"}
	venueFields    = []string{"venue", "stadium", "venue_name", "ground"}
	leagueFields   = []string{"league", "tournament", "competition"}
	leagueIDFields = []string{"league_id", "tournament_id", "unique_tournament_id"}
)

var recordAPI = sonic.Config{UseInt64: true}.Froze()

// RawRecord is one decoded source record before normalization.
type RawRecord map[string]any

// DecodeRecords parses a source file body holding a JSON array of records.
// Elements that are not objects come back as nil records, which Normalize rejects.
func DecodeRecords(data []byte) ([]RawRecord, error) {
	var items []any
	if err := recordAPI.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode source records: %w", err)
	}
	records := make([]RawRecord, len(items))
	for i, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records[i] = RawRecord(obj)
		}
	}
	return records, nil
}

// Normalize converts a raw record into a canonical Match.
func Normalize(raw RawRecord) (Match, error) {
	fixture := strings.TrimSpace(getString(raw, "fixture"))
	if fixture == "" {
		return Match{}, fmt.Errorf("%w: fixture", ErrMissingRequiredField)
	}

	kickoffValue, ok := getInt64(raw, "kickoff")
	if !ok || kickoffValue <= 0 {
		kickoff, parsed := parseKickoffText(getString(raw, "kickoff"))
		if !parsed {
			return Match{}, fmt.Errorf("%w: kickoff", ErrMissingRequiredField)
		}
		kickoffValue = kickoff.Unix()
	}
	kickoff := time.Unix(NormalizeKickoff(kickoffValue), 0).UTC()

	id, _ := firstInt64(raw, matchIDFields...)
	if id < 0 {
		id = 0
	}
	leagueID, _ := firstInt64(raw, leagueIDFields...)
	if leagueID < 0 {
		leagueID = 0
	}

	return Match{
		ID:         id,
		Key:        KeyFor(id, fixture, kickoff),
		Kickoff:    kickoff,
		Fixture:    fixture,
		League:     firstNonEmpty(firstString(raw, leagueFields...), PlaceholderLeague),
		LeagueID:   leagueID,
		Venue:      firstNonEmpty(firstString(raw, venueFields...), PlaceholderVenue),
		Broadcasts: parseBroadcasts(raw["tv_channels"]),
	}, nil
}

// NormalizeKickoff returns seconds since epoch for a value given in seconds or milliseconds.
func NormalizeKickoff(value int64) int64 {
	if value >= MillisecondThreshold {
		return value / 1000
	}
	return value
}

func parseKickoffText(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseBroadcasts(raw any) []Broadcast {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil
	}

	out := make([]Broadcast, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		country := strings.TrimSpace(getString(entry, "country"))
		channels := make([]string, 0, 4)
		seen := make(map[string]struct{}, 4)
		if names, ok := entry["channels"].([]any); ok {
			for _, name := range names {
				value, ok := name.(string)
				if !ok {
					continue
				}
				value = strings.TrimSpace(value)
				if value == "" {
					continue
				}
				if _, dup := seen[value]; dup {
					continue
				}
				seen[value] = struct{}{}
				channels = append(channels, value)
			}
		}
		if country == "" && len(channels) == 0 {
			continue
		}
		out = append(out, Broadcast{Country: country, Channels: channels})
	}
	return out
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch value := src[key].(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		return ""
	}
}

func firstString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(getString(src, key)); value != "" {
			return value
		}
	}
	return ""
}

func getInt64(src map[string]any, key string) (int64, bool) {
	if src == nil {
		return 0, false
	}
	switch value := src[key].(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		return int64(value), true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, false
		}
		if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return parsed, true
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int64(parsed), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func firstInt64(src map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if value, ok := getInt64(src, key); ok && value != 0 {
			return value, true
		}
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
