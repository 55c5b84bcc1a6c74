package listing

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

const DayLayout = "2006-01-02"

type WindowMode string

const (
	WindowRolling  WindowMode = "rolling"
	WindowWeekly   WindowMode = "weekly"
	WindowObserved WindowMode = "observed"
)

func ParseWindowMode(raw string) (WindowMode, error) {
	switch mode := WindowMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case WindowRolling, WindowWeekly, WindowObserved:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown window mode %q", raw)
	}
}

// SecondaryKey selects the tie-break applied after league priority.
type SecondaryKey string

const (
	SecondaryLeague  SecondaryKey = "league"
	SecondaryMatchID SecondaryKey = "match_id"
)

func ParseSecondaryKey(raw string) (SecondaryKey, error) {
	switch key := SecondaryKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SecondaryLeague, SecondaryMatchID:
		return key, nil
	default:
		return "", fmt.Errorf("unknown secondary key %q", raw)
	}
}

// PrioritySet holds league ids listed ahead of everything else.
type PrioritySet map[int64]struct{}

func NewPrioritySet(ids ...int64) PrioritySet {
	out := make(PrioritySet, len(ids))
	for _, id := range ids {
		if id > 0 {
			out[id] = struct{}{}
		}
	}
	return out
}

func (p PrioritySet) Contains(id int64) bool {
	if id <= 0 {
		return false
	}
	_, ok := p[id]
	return ok
}

// Options configures one aggregation pass.
type Options struct {
	Location  *time.Location
	Window    WindowMode
	Days      int
	Priority  PrioritySet
	Secondary SecondaryKey
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Entry is a match placed in a listing with its localized kickoff.
type Entry struct {
	Match        match.Match
	LocalKickoff time.Time
	Priority     bool
}

// Day is one local calendar date and its ordered matches.
type Day struct {
	Date    time.Time
	Entries []Entry
}

func (d Day) Key() string {
	return d.Date.Format(DayLayout)
}

// LeagueGroup is a run of consecutive entries sharing a league.
type LeagueGroup struct {
	League  string
	Entries []Entry
}

// LeagueGroups splits the ordered day into consecutive league sections.
func (d Day) LeagueGroups() []LeagueGroup {
	out := make([]LeagueGroup, 0, 8)
	for _, entry := range d.Entries {
		if n := len(out); n > 0 && out[n-1].League == entry.Match.League {
			out[n-1].Entries = append(out[n-1].Entries, entry)
			continue
		}
		out = append(out, LeagueGroup{League: entry.Match.League, Entries: []Entry{entry}})
	}
	return out
}

// ChannelEntry is one match carried by a channel.
type ChannelEntry struct {
	Match        match.Match
	LocalKickoff time.Time
	League       string
}

type Channel struct {
	Name    string
	Slug    string
	Entries []ChannelEntry
}

// Snapshot is everything handed to the rendering collaborator for one pass.
type Snapshot struct {
	GeneratedAt time.Time
	Location    *time.Location
	Matches     []match.Match
	Days        []Day
	Channels    []Channel
}

func (s Snapshot) Day(key string) (Day, bool) {
	for _, day := range s.Days {
		if day.Key() == key {
			return day, true
		}
	}
	return Day{}, false
}

// Channel finds a channel by exact name or slug.
func (s Snapshot) Channel(nameOrSlug string) (Channel, bool) {
	slug := Slugify(nameOrSlug)
	for _, channel := range s.Channels {
		if channel.Name == nameOrSlug || (slug != "" && channel.Slug == slug) {
			return channel, true
		}
	}
	return Channel{}, false
}
