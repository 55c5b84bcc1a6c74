package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday-feed/internal/domain/enrichment"
	"github.com/riskibarqy/matchday-feed/internal/domain/listing"
	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

const localTimeLayout = "15:04"

type broadcastDTO struct {
	Country  string   `json:"country"`
	Channels []string `json:"channels"`
}

type matchDTO struct {
	MatchID    int64          `json:"match_id,omitempty"`
	Key        string         `json:"key"`
	Kickoff    int64          `json:"kickoff"`
	KickoffAt  string         `json:"kickoff_at"`
	Fixture    string         `json:"fixture"`
	League     string         `json:"league"`
	LeagueID   int64          `json:"league_id,omitempty"`
	Venue      string         `json:"venue"`
	Broadcasts []broadcastDTO `json:"broadcasts"`
}

type dayEntryDTO struct {
	Match        matchDTO `json:"match"`
	LocalKickoff string   `json:"local_kickoff"`
	LocalTime    string   `json:"local_time"`
	Priority     bool     `json:"priority"`
}

type leagueGroupDTO struct {
	League  string        `json:"league"`
	Entries []dayEntryDTO `json:"entries"`
}

type dayDTO struct {
	Date       string           `json:"date"`
	Weekday    string           `json:"weekday"`
	MatchCount int              `json:"match_count"`
	Leagues    []leagueGroupDTO `json:"leagues"`
}

type channelSummaryDTO struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	MatchCount int    `json:"match_count"`
}

type channelEntryDTO struct {
	Match        matchDTO `json:"match"`
	LocalKickoff string   `json:"local_kickoff"`
	League       string   `json:"league"`
}

type channelDTO struct {
	Name    string            `json:"name"`
	Slug    string            `json:"slug"`
	Entries []channelEntryDTO `json:"entries"`
}

type enrichmentDTO struct {
	Kind       string             `json:"kind"`
	DateBucket string             `json:"date_bucket"`
	MatchID    int64              `json:"match_id"`
	Payload    enrichment.Payload `json:"payload"`
}

type enrichmentViewDTO struct {
	Kind       string `json:"kind"`
	DateBucket string `json:"date_bucket"`
	MatchID    int64  `json:"match_id"`
	View       any    `json:"view"`
}

func matchToDTO(m match.Match) matchDTO {
	broadcasts := make([]broadcastDTO, 0, len(m.Broadcasts))
	for _, item := range m.Broadcasts {
		broadcasts = append(broadcasts, broadcastDTO{
			Country:  item.Country,
			Channels: item.DisplayChannels(),
		})
	}

	return matchDTO{
		MatchID:    m.ID,
		Key:        string(m.Key),
		Kickoff:    m.KickoffUnix(),
		KickoffAt:  m.Kickoff.UTC().Format(time.RFC3339),
		Fixture:    m.Fixture,
		League:     m.League,
		LeagueID:   m.LeagueID,
		Venue:      m.Venue,
		Broadcasts: broadcasts,
	}
}

func dayEntryToDTO(entry listing.Entry) dayEntryDTO {
	return dayEntryDTO{
		Match:        matchToDTO(entry.Match),
		LocalKickoff: entry.LocalKickoff.Format(time.RFC3339),
		LocalTime:    entry.LocalKickoff.Format(localTimeLayout),
		Priority:     entry.Priority,
	}
}

func dayToDTO(day listing.Day) dayDTO {
	groups := day.LeagueGroups()
	leagues := make([]leagueGroupDTO, 0, len(groups))
	for _, group := range groups {
		entries := make([]dayEntryDTO, 0, len(group.Entries))
		for _, entry := range group.Entries {
			entries = append(entries, dayEntryToDTO(entry))
		}
		leagues = append(leagues, leagueGroupDTO{League: group.League, Entries: entries})
	}

	return dayDTO{
		Date:       day.Key(),
		Weekday:    day.Date.Weekday().String(),
		MatchCount: len(day.Entries),
		Leagues:    leagues,
	}
}

func channelToDTO(channel listing.Channel) channelDTO {
	entries := make([]channelEntryDTO, 0, len(channel.Entries))
	for _, entry := range channel.Entries {
		entries = append(entries, channelEntryDTO{
			Match:        matchToDTO(entry.Match),
			LocalKickoff: entry.LocalKickoff.Format(time.RFC3339),
			League:       entry.League,
		})
	}

	return channelDTO{
		Name:    channel.Name,
		Slug:    channel.Slug,
		Entries: entries,
	}
}
