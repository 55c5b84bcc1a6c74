package match

// SourceRecord is the wire shape of one entry in a per-day source file.
type SourceRecord struct {
	MatchID    int64             `json:"match_id"`
	Kickoff    int64             `json:"kickoff"`
	Fixture    string            `json:"fixture"`
	LeagueID   int64             `json:"league_id,omitempty"`
	League     string            `json:"league"`
	Venue      string            `json:"venue"`
	TVChannels []SourceBroadcast `json:"tv_channels"`
}

type SourceBroadcast struct {
	Country  string   `json:"country"`
	Channels []string `json:"channels"`
}

// SourceDay is the set of records the schedule producer emits for one UTC day.
type SourceDay struct {
	Bucket  string
	Records []SourceRecord
}
