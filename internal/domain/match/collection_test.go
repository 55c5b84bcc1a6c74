package match

import (
	"testing"
	"time"
)

func TestCollection_KeepsFirstObserved(t *testing.T) {
	t.Parallel()

	c := NewCollection()
	first := Match{ID: 42, Key: KeyFor(42, "A vs B", time.Unix(100, 0)), Fixture: "A vs B", Venue: "First"}
	second := Match{ID: 42, Key: KeyFor(42, "A vs B", time.Unix(200, 0)), Fixture: "A vs B", Venue: "Second"}

	if !c.Add(first) {
		t.Fatalf("expected first add to be stored")
	}
	if c.Add(second) {
		t.Fatalf("expected duplicate add to be rejected")
	}

	got, ok := c.ByID(42)
	if !ok || got.Venue != "First" {
		t.Fatalf("expected first-seen match, got %+v ok=%v", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 match, got %d", c.Len())
	}
}

func TestCollection_FallbackKeyDoesNotDropUnidentifiedRecords(t *testing.T) {
	t.Parallel()

	c := NewCollection()
	kickoff := time.Unix(1700000000, 0)
	c.Add(Match{Fixture: "A vs B", Kickoff: kickoff})
	c.Add(Match{Fixture: "A vs B", Kickoff: kickoff.Add(time.Hour)})
	c.Add(Match{Fixture: "A  vs B", Kickoff: kickoff})

	if c.Len() != 2 {
		t.Fatalf("expected 2 matches, got %d", c.Len())
	}

	keys := c.Keys()
	matches := c.Matches()
	for i := range keys {
		if matches[i].Key != keys[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, matches[i].Key, keys[i])
		}
	}
}

func TestMatch_ChannelNamesDeduplicates(t *testing.T) {
	t.Parallel()

	m := Match{Broadcasts: []Broadcast{
		{Country: "UK", Channels: []string{"beIN", "Sky"}},
		{Country: "FR", Channels: []string{"beIN"}},
	}}
	got := m.ChannelNames()
	if len(got) != 2 || got[0] != "beIN" || got[1] != "Sky" {
		t.Fatalf("unexpected channel names: %v", got)
	}
}
