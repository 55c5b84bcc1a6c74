package match

import (
	"strconv"
	"strings"
	"time"
)

const (
	PlaceholderVenue   = "To Be Announced"
	PlaceholderLeague  = "Other Football"
	PlaceholderChannel = "TBA"
)

// Key identifies a match inside one collection pass.
type Key string

// Match represents one scheduled fixture instance.
type Match struct {
	ID         int64
	Key        Key
	Kickoff    time.Time
	Fixture    string
	League     string
	LeagueID   int64
	Venue      string
	Broadcasts []Broadcast
}

// Broadcast is a country-to-channels association for a match.
type Broadcast struct {
	Country  string
	Channels []string
}

func (m Match) HasID() bool {
	return m.ID > 0
}

func (m Match) HasLeagueID() bool {
	return m.LeagueID > 0
}

func (m Match) KickoffUnix() int64 {
	return m.Kickoff.Unix()
}

// LocalKickoff returns the kickoff instant expressed in loc.
func (m Match) LocalKickoff(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return m.Kickoff.In(loc)
}

// ChannelNames lists every channel carrying the match once, in first-seen order.
func (m Match) ChannelNames() []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, item := range m.Broadcasts {
		for _, name := range item.Channels {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// DisplayChannels returns the channels to render for the entry; an empty list renders as TBA.
func (b Broadcast) DisplayChannels() []string {
	if len(b.Channels) == 0 {
		return []string{PlaceholderChannel}
	}
	return append([]string(nil), b.Channels...)
}

// KeyFor builds the dedup key: the provider id when present, otherwise fixture plus kickoff.
func KeyFor(id int64, fixture string, kickoff time.Time) Key {
	if id > 0 {
		return Key("id:" + strconv.FormatInt(id, 10))
	}
	normalized := strings.Join(strings.Fields(fixture), " ")
	return Key("fx:" + normalized + "@" + strconv.FormatInt(kickoff.Unix(), 10))
}
