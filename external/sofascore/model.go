package sofascore

import (
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-feed/internal/domain/match"
)

type scheduledEventsEnvelope struct {
	Events []struct {
		ID int64 `json:"id"`
	} `json:"events"`
}

type eventEnvelope struct {
	Event eventItem `json:"event"`
}

type eventItem struct {
	ID             int64       `json:"id"`
	StartTimestamp int64       `json:"startTimestamp"`
	HomeTeam       *namedThing `json:"homeTeam"`
	AwayTeam       *namedThing `json:"awayTeam"`
	Tournament     struct {
		Name             string `json:"name"`
		UniqueTournament struct {
			ID int64 `json:"id"`
		} `json:"uniqueTournament"`
	} `json:"tournament"`
	Venue *namedThing `json:"venue"`
}

type namedThing struct {
	Name string `json:"name"`
}

type countryChannelsEnvelope struct {
	CountryChannels map[string][]int64 `json:"countryChannels"`
}

type channelScheduleEnvelope struct {
	Channel namedThing `json:"channel"`
}

// toSourceRecord maps event details to the source file shape. Events without both team names are rejected.
func (e eventItem) toSourceRecord(requestedID int64) (match.SourceRecord, error) {
	home := nameOf(e.HomeTeam)
	away := nameOf(e.AwayTeam)
	if home == "" || away == "" {
		return match.SourceRecord{}, crerr.Newf("event %d is missing team names", requestedID)
	}

	id := e.ID
	if id <= 0 {
		id = requestedID
	}

	return match.SourceRecord{
		MatchID:  id,
		Kickoff:  e.StartTimestamp,
		Fixture:  home + " vs " + away,
		LeagueID: e.Tournament.UniqueTournament.ID,
		League:   strings.TrimSpace(e.Tournament.Name),
		Venue:    nameOf(e.Venue),
	}, nil
}

func nameOf(v *namedThing) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.Name)
}
