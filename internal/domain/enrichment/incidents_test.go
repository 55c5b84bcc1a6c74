package enrichment

import "testing"

func TestReduceIncidentPayload_GoalsOnlyWithRunningScore(t *testing.T) {
	t.Parallel()

	raw := Payload(`{"incidents":[
		{"incidentType":"period","time":45},
		{"incidentType":"goal","time":12,"isHome":true,"player":{"name":"Saka"},"homeScore":1,"awayScore":0},
		{"incidentType":"card","time":30,"isHome":false,"player":{"name":"Rice"}},
		{"incidentType":"goal","time":"67","isHome":false,"player":{"name":"Palmer"},"homeScore":1,"awayScore":1},
		{"incidentType":"goal","time":90,"addedTime":3,"isHome":true,"homeScore":2,"awayScore":1}
	]}`)

	summary, err := ReduceIncidentPayload(42, raw)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}

	if summary.MatchID != 42 || summary.HomeScore != 2 || summary.AwayScore != 1 {
		t.Fatalf("unexpected score: %+v", summary)
	}
	if len(summary.HomeScorers) != 2 || summary.HomeScorers[0] != (Scorer{Name: "Saka", Time: "12'"}) {
		t.Fatalf("unexpected home scorers: %+v", summary.HomeScorers)
	}
	if summary.HomeScorers[1] != (Scorer{Name: "Unknown", Time: "90'"}) {
		t.Fatalf("expected unknown scorer fallback, got %+v", summary.HomeScorers[1])
	}
	if len(summary.AwayScorers) != 1 || summary.AwayScorers[0] != (Scorer{Name: "Palmer", Time: "67'"}) {
		t.Fatalf("unexpected away scorers: %+v", summary.AwayScorers)
	}
}

func TestReduceIncidents_FallsBackToScorerCounts(t *testing.T) {
	t.Parallel()

	home := true
	events := []IncidentEvent{
		{IncidentType: "goal", Time: flexInt{Value: 5, Valid: true}, IsHome: &home},
		{IncidentType: "goal", Time: flexInt{Value: 10, Valid: true}},
		{IncidentType: "goal", Time: flexInt{Value: 20, Valid: true}, IsHome: &home},
		{IncidentType: "substitution", Time: flexInt{Value: 60, Valid: true}, IsHome: &home},
	}

	summary := ReduceIncidents(7, events)
	if summary.HomeScore != 2 || summary.AwayScore != 1 {
		t.Fatalf("expected counted score 2-1, got %d-%d", summary.HomeScore, summary.AwayScore)
	}
}

func TestReduceIncidents_OnlyExactGoalType(t *testing.T) {
	t.Parallel()

	home := true
	events := []IncidentEvent{
		{IncidentType: "Goal", Time: flexInt{Value: 5, Valid: true}, IsHome: &home},
		{IncidentType: "GOAL", Time: flexInt{Value: 10, Valid: true}},
		{IncidentType: " goal", Time: flexInt{Value: 15, Valid: true}},
		{IncidentType: "goal", Time: flexInt{Value: 20, Valid: true}, IsHome: &home},
	}

	summary := ReduceIncidents(9, events)
	if len(summary.HomeScorers) != 1 || len(summary.AwayScorers) != 0 {
		t.Fatalf("expected one home scorer only, got %+v", summary)
	}
	if summary.HomeScorers[0].Time != "20'" || summary.HomeScore != 1 || summary.AwayScore != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestReduceIncidents_EmptyTimeline(t *testing.T) {
	t.Parallel()

	summary := ReduceIncidents(1, nil)
	if summary.HomeScore != 0 || summary.AwayScore != 0 {
		t.Fatalf("expected 0-0, got %+v", summary)
	}
	if summary.HomeScorers == nil || summary.AwayScorers == nil {
		t.Fatalf("expected empty, non-nil scorer lists")
	}

	encoded, err := EncodePayload(summary)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"match_id":1,"home_score":0,"away_score":0,"home_scorers":[],"away_scorers":[]}`
	if string(encoded) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", encoded, want)
	}
}
