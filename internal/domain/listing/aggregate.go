package listing

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

// FixedZone returns a location at a fixed offset east of UTC.
func FixedZone(offset time.Duration) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	seconds := int(offset / time.Second)
	sign := "+"
	abs := seconds
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}

// LocalDate converts t to loc and truncates it to midnight.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// RollingWindow returns days contiguous dates starting at the local date of today.
func RollingWindow(today time.Time, days int, loc *time.Location) []time.Time {
	if days <= 0 {
		days = 1
	}
	start := LocalDate(today, loc)
	out := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

// WeeklyWindow returns the Friday-to-Thursday week containing the local date of today.
func WeeklyWindow(today time.Time, loc *time.Location) []time.Time {
	local := LocalDate(today, loc)
	back := (int(local.Weekday()) - int(time.Friday) + 7) % 7
	return RollingWindow(local.AddDate(0, 0, -back), 7, loc)
}

// ObservedWindow returns every distinct local date present in matches, ascending.
func ObservedWindow(matches []match.Match, loc *time.Location) []time.Time {
	seen := make(map[string]time.Time, 8)
	for _, m := range matches {
		date := LocalDate(m.Kickoff, loc)
		seen[date.Format(DayLayout)] = date
	}
	out := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		out = append(out, date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Window resolves the date list for opts.
func Window(today time.Time, matches []match.Match, opts Options) []time.Time {
	loc := opts.location()
	switch opts.Window {
	case WindowWeekly:
		return WeeklyWindow(today, loc)
	case WindowObserved:
		return ObservedWindow(matches, loc)
	default:
		return RollingWindow(today, opts.Days, loc)
	}
}

// BuildDays places each match on its local date and orders every day.
// Dates outside the window are not listed; window dates without matches are kept empty.
func BuildDays(matches []match.Match, dates []time.Time, opts Options) []Day {
	loc := opts.location()
	days := make([]Day, len(dates))
	index := make(map[string]int, len(dates))
	for i, date := range dates {
		date = LocalDate(date, loc)
		days[i] = Day{Date: date, Entries: []Entry{}}
		index[date.Format(DayLayout)] = i
	}

	for _, m := range matches {
		local := m.Kickoff.In(loc)
		pos, ok := index[LocalDate(m.Kickoff, loc).Format(DayLayout)]
		if !ok {
			continue
		}
		days[pos].Entries = append(days[pos].Entries, Entry{
			Match:        m,
			LocalKickoff: local,
			Priority:     opts.Priority.Contains(m.LeagueID),
		})
	}

	for i := range days {
		SortEntries(days[i].Entries, opts.Secondary)
	}
	return days
}

// SortEntries orders priority leagues first, then by the secondary key, then by kickoff.
// The sort is stable so equal entries keep their collection order.
func SortEntries(entries []Entry, secondary SecondaryKey) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i], entries[j]
		if left.Priority != right.Priority {
			return left.Priority
		}
		switch secondary {
		case SecondaryMatchID:
			if left.Match.ID != right.Match.ID {
				return left.Match.ID < right.Match.ID
			}
		default:
			if left.Match.League != right.Match.League {
				return left.Match.League < right.Match.League
			}
		}
		return left.Match.Kickoff.Before(right.Match.Kickoff)
	})
}

// BuildChannelIndex maps each named channel to the matches it carries, once per match, by kickoff.
// Names that share a slug form one channel under the first name seen; the TBA placeholder never forms a channel.
func BuildChannelIndex(matches []match.Match, loc *time.Location) []Channel {
	if loc == nil {
		loc = time.UTC
	}

	byName := make(map[string]*Channel, 32)
	seen := make(map[string]map[match.Key]struct{}, 32)
	for _, m := range matches {
		for _, name := range m.ChannelNames() {
			if name == "" || strings.EqualFold(name, match.PlaceholderChannel) {
				continue
			}
			slug := Slugify(name)
			key := slug
			if key == "" {
				key = name
			}
			channel, ok := byName[key]
			if !ok {
				channel = &Channel{Name: name, Slug: slug}
				byName[key] = channel
				seen[key] = make(map[match.Key]struct{}, 8)
			}
			if _, dup := seen[key][m.Key]; dup {
				continue
			}
			seen[key][m.Key] = struct{}{}
			channel.Entries = append(channel.Entries, ChannelEntry{
				Match:        m,
				LocalKickoff: m.Kickoff.In(loc),
				League:       m.League,
			})
		}
	}

	out := make([]Channel, 0, len(byName))
	for _, channel := range byName {
		sort.SliceStable(channel.Entries, func(i, j int) bool {
			return channel.Entries[i].Match.Kickoff.Before(channel.Entries[j].Match.Kickoff)
		})
		out = append(out, *channel)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slug != out[j].Slug {
			return out[i].Slug < out[j].Slug
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Build runs a full aggregation pass over matches.
func Build(matches []match.Match, now time.Time, opts Options) Snapshot {
	loc := opts.location()
	return Snapshot{
		GeneratedAt: now.UTC(),
		Location:    loc,
		Matches:     append([]match.Match(nil), matches...),
		Days:        BuildDays(matches, Window(now, matches, opts), opts),
		Channels:    BuildChannelIndex(matches, loc),
	}
}

var (
	slugInvalid   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparator = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases text and collapses it into a dash-separated url segment.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = slugInvalid.ReplaceAllString(text, "")
	text = slugSeparator.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
