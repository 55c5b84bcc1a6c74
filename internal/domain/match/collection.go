package match

// Collection holds the deduplicated matches of one ingestion pass.
// Map lookups serve identity; order keeps first observation for stable iteration.
type Collection struct {
	byKey map[Key]Match
	byID  map[int64]Key
	order []Key
}

func NewCollection() *Collection {
	return &Collection{
		byKey: make(map[Key]Match),
		byID:  make(map[int64]Key),
	}
}

// Add keeps the first match observed for a key and reports whether m was stored.
func (c *Collection) Add(m Match) bool {
	if m.Key == "" {
		m.Key = KeyFor(m.ID, m.Fixture, m.Kickoff)
	}
	if _, exists := c.byKey[m.Key]; exists {
		return false
	}

	c.byKey[m.Key] = m
	c.order = append(c.order, m.Key)
	if m.HasID() {
		c.byID[m.ID] = m.Key
	}
	return true
}

func (c *Collection) Get(key Key) (Match, bool) {
	if c == nil {
		return Match{}, false
	}
	m, ok := c.byKey[key]
	return m, ok
}

func (c *Collection) ByID(id int64) (Match, bool) {
	if c == nil {
		return Match{}, false
	}
	key, ok := c.byID[id]
	if !ok {
		return Match{}, false
	}
	return c.Get(key)
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Matches returns a copy of the collection in observation order.
func (c *Collection) Matches() []Match {
	if c == nil {
		return nil
	}
	out := make([]Match, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.byKey[key])
	}
	return out
}

func (c *Collection) Keys() []Key {
	if c == nil {
		return nil
	}
	return append([]Key(nil), c.order...)
}
