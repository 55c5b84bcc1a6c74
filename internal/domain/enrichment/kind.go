package enrichment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownKind        = errors.New("unknown enrichment kind")
	ErrInvalidDateBucket  = errors.New("invalid date bucket")
	ErrInvalidPayload     = errors.New("invalid enrichment payload")
	ErrPayloadUnavailable = errors.New("enrichment payload unavailable")
)

// Kind names one category of auxiliary per-match data.
type Kind string

const (
	KindH2H        Kind = "h2h"
	KindLineups    Kind = "lineups"
	KindStatistics Kind = "statistics"
	KindOdds       Kind = "odds"
	KindForm       Kind = "form"
	KindIncidents  Kind = "incidents"
)

func AllKinds() []Kind {
	return []Kind{KindH2H, KindLineups, KindStatistics, KindOdds, KindForm, KindIncidents}
}

// Path returns the provider sub-path for the kind under /event/{id}/.
func (k Kind) Path() string {
	switch k {
	case KindOdds:
		return "provider/1/winning-odds"
	case KindForm:
		return "pregame-form"
	default:
		return string(k)
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindH2H, KindLineups, KindStatistics, KindOdds, KindForm, KindIncidents:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return kind, nil
}

// ParseKinds parses a list of names, dropping blanks and duplicates.
func ParseKinds(values []string) ([]Kind, error) {
	out := make([]Kind, 0, len(values))
	seen := make(map[Kind]struct{}, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		kind, err := ParseKind(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, kind)
	}
	return out, nil
}

const DateBucketLayout = "20060102"

// DateBucket is the UTC calendar day (YYYYMMDD) an enrichment store belongs to.
type DateBucket string

func BucketOf(t time.Time) DateBucket {
	return DateBucket(t.UTC().Format(DateBucketLayout))
}

// ParseDateBucket accepts YYYYMMDD or YYYY-MM-DD.
func ParseDateBucket(raw string) (DateBucket, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{DateBucketLayout, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return BucketOf(parsed), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDateBucket, raw)
}

// Time returns midnight UTC of the bucket day.
func (b DateBucket) Time() time.Time {
	parsed, err := time.Parse(DateBucketLayout, string(b))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func (b DateBucket) String() string {
	return string(b)
}
