package enrichment

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	incidentTypeGoal  = "goal"
	unknownScorerName = "Unknown"
)

// Scorer is one goal entry in an incident summary.
type Scorer struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// IncidentSummary is the reduced form stored for the incidents kind.
type IncidentSummary struct {
	MatchID     int64    `json:"match_id"`
	HomeScore   int      `json:"home_score"`
	AwayScore   int      `json:"away_score"`
	HomeScorers []Scorer `json:"home_scorers"`
	AwayScorers []Scorer `json:"away_scorers"`
}

// IncidentEvent is one entry of the provider incident timeline.
type IncidentEvent struct {
	IncidentType string       `json:"incidentType"`
	Time         flexInt      `json:"time"`
	AddedTime    flexInt      `json:"addedTime"`
	IsHome       *bool        `json:"isHome"`
	Player       *eventPlayer `json:"player"`
	HomeScore    flexInt      `json:"homeScore"`
	AwayScore    flexInt      `json:"awayScore"`
}

type eventPlayer struct {
	Name string `json:"name"`
}

type incidentTimeline struct {
	Incidents []IncidentEvent `json:"incidents"`
}

// ReduceIncidentPayload decodes a raw provider timeline and reduces it.
func ReduceIncidentPayload(matchID int64, raw Payload) (IncidentSummary, error) {
	var timeline incidentTimeline
	if err := raw.Decode(&timeline); err != nil {
		return IncidentSummary{}, fmt.Errorf("decode incidents for match %d: %w", matchID, err)
	}
	return ReduceIncidents(matchID, timeline.Incidents), nil
}

// ReduceIncidents walks the timeline in order and keeps goal events only.
// Scores come from the event when present, else from the per-side scorer count; the last event wins.
func ReduceIncidents(matchID int64, events []IncidentEvent) IncidentSummary {
	summary := IncidentSummary{
		MatchID:     matchID,
		HomeScorers: []Scorer{},
		AwayScorers: []Scorer{},
	}

	for _, event := range events {
		if event.IncidentType != incidentTypeGoal {
			continue
		}

		scorer := Scorer{Name: unknownScorerName, Time: formatMinute(event.Time)}
		if event.Player != nil && strings.TrimSpace(event.Player.Name) != "" {
			scorer.Name = strings.TrimSpace(event.Player.Name)
		}

		if event.IsHome != nil && *event.IsHome {
			summary.HomeScorers = append(summary.HomeScorers, scorer)
		} else {
			summary.AwayScorers = append(summary.AwayScorers, scorer)
		}

		summary.HomeScore = event.HomeScore.Or(len(summary.HomeScorers))
		summary.AwayScore = event.AwayScore.Or(len(summary.AwayScorers))
	}

	return summary
}

func formatMinute(minute flexInt) string {
	if !minute.Valid {
		return "'"
	}
	return strconv.Itoa(minute.Value) + "'"
}

// DecodeIncidentSummary reads a stored summary back.
func DecodeIncidentSummary(raw Payload) (IncidentSummary, error) {
	var summary IncidentSummary
	if err := raw.Decode(&summary); err != nil {
		return IncidentSummary{}, err
	}
	return summary, nil
}

// flexInt accepts a JSON number, a numeric string or null.
type flexInt struct {
	Value int
	Valid bool
}

func (f flexInt) Or(fallback int) int {
	if f.Valid {
		return f.Value
	}
	return fallback
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	text := strings.Trim(string(data), `"`)
	if text == "" {
		*f = flexInt{}
		return nil
	}
	if parsed, err := strconv.Atoi(text); err == nil {
		*f = flexInt{Value: parsed, Valid: true}
		return nil
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		*f = flexInt{}
		return nil
	}
	*f = flexInt{Value: int(parsed), Valid: true}
	return nil
}
