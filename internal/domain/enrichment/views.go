package enrichment

import "strings"

// Views are read-only projections of stored payloads used by rendering code.
// A section the provider did not send keeps Available == false.

type H2HView struct {
	Available bool       `json:"available"`
	TeamDuel  DuelRecord `json:"team_duel"`
	Manager   DuelRecord `json:"manager"`
}

type DuelRecord struct {
	Available bool `json:"available"`
	HomeWins  int  `json:"home_wins"`
	AwayWins  int  `json:"away_wins"`
	Draws     int  `json:"draws"`
}

type LineupsView struct {
	Available bool       `json:"available"`
	Confirmed bool       `json:"confirmed"`
	Home      TeamLineup `json:"home"`
	Away      TeamLineup `json:"away"`
}

type TeamLineup struct {
	Available bool           `json:"available"`
	Formation string         `json:"formation"`
	Starters  []LineupPlayer `json:"starters"`
	Bench     []LineupPlayer `json:"bench"`
}

type LineupPlayer struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirt_number"`
}

type StatisticsView struct {
	Available bool               `json:"available"`
	Periods   []StatisticsPeriod `json:"periods"`
}

type StatisticsPeriod struct {
	Period string            `json:"period"`
	Groups []StatisticsGroup `json:"groups"`
}

type StatisticsGroup struct {
	Name  string           `json:"name"`
	Items []StatisticsItem `json:"items"`
}

type StatisticsItem struct {
	Name string `json:"name"`
	Home string `json:"home"`
	Away string `json:"away"`
}

type OddsView struct {
	Available bool        `json:"available"`
	Home      WinningOdds `json:"home"`
	Away      WinningOdds `json:"away"`
}

type WinningOdds struct {
	Available  bool   `json:"available"`
	Expected   int    `json:"expected"`
	Actual     int    `json:"actual"`
	Fractional string `json:"fractional"`
}

type FormView struct {
	Available bool     `json:"available"`
	Label     string   `json:"label"`
	Home      TeamForm `json:"home"`
	Away      TeamForm `json:"away"`
}

type TeamForm struct {
	Available bool     `json:"available"`
	Form      []string `json:"form"`
	Position  int      `json:"position"`
	Value     string   `json:"value"`
	AvgRating string   `json:"avg_rating"`
}

type IncidentsView struct {
	Available bool            `json:"available"`
	Summary   IncidentSummary `json:"summary"`
}

type h2hPayload struct {
	TeamDuel    *duelPayload `json:"teamDuel"`
	ManagerDuel *duelPayload `json:"managerDuel"`
}

type duelPayload struct {
	HomeWins flexInt `json:"homeWins"`
	AwayWins flexInt `json:"awayWins"`
	Draws    flexInt `json:"draws"`
}

type lineupsPayload struct {
	Confirmed bool               `json:"confirmed"`
	Home      *teamLineupPayload `json:"home"`
	Away      *teamLineupPayload `json:"away"`
}

type teamLineupPayload struct {
	Formation string `json:"formation"`
	Players   []struct {
		Player struct {
			Name      string `json:"name"`
			ShortName string `json:"shortName"`
		} `json:"player"`
		Position    string  `json:"position"`
		ShirtNumber flexInt `json:"shirtNumber"`
		Substitute  bool    `json:"substitute"`
	} `json:"players"`
}

type statisticsPayload struct {
	Statistics []struct {
		Period string `json:"period"`
		Groups []struct {
			GroupName string `json:"groupName"`
			Items     []struct {
				Name string `json:"name"`
				Home string `json:"home"`
				Away string `json:"away"`
			} `json:"statisticsItems"`
		} `json:"groups"`
	} `json:"statistics"`
}

type oddsPayload struct {
	Home *winningOddsPayload `json:"home"`
	Away *winningOddsPayload `json:"away"`
}

type winningOddsPayload struct {
	Expected        flexInt `json:"expected"`
	Actual          flexInt `json:"actual"`
	FractionalValue string  `json:"fractionalValue"`
}

type formPayload struct {
	Label    string           `json:"label"`
	HomeTeam *teamFormPayload `json:"homeTeam"`
	AwayTeam *teamFormPayload `json:"awayTeam"`
}

type teamFormPayload struct {
	AvgRating string   `json:"avgRating"`
	Position  flexInt  `json:"position"`
	Value     string   `json:"value"`
	Form      []string `json:"form"`
}

func DecodeH2H(raw Payload) H2HView {
	var payload h2hPayload
	if err := raw.Decode(&payload); err != nil {
		return H2HView{}
	}
	return H2HView{
		Available: true,
		TeamDuel:  duelRecord(payload.TeamDuel),
		Manager:   duelRecord(payload.ManagerDuel),
	}
}

func duelRecord(p *duelPayload) DuelRecord {
	if p == nil {
		return DuelRecord{}
	}
	return DuelRecord{
		Available: true,
		HomeWins:  p.HomeWins.Or(0),
		AwayWins:  p.AwayWins.Or(0),
		Draws:     p.Draws.Or(0),
	}
}

func DecodeLineups(raw Payload) LineupsView {
	var payload lineupsPayload
	if err := raw.Decode(&payload); err != nil {
		return LineupsView{}
	}
	return LineupsView{
		Available: true,
		Confirmed: payload.Confirmed,
		Home:      teamLineup(payload.Home),
		Away:      teamLineup(payload.Away),
	}
}

func teamLineup(p *teamLineupPayload) TeamLineup {
	if p == nil {
		return TeamLineup{}
	}
	out := TeamLineup{Available: true, Formation: strings.TrimSpace(p.Formation)}
	for _, item := range p.Players {
		name := strings.TrimSpace(item.Player.Name)
		if name == "" {
			name = strings.TrimSpace(item.Player.ShortName)
		}
		player := LineupPlayer{
			Name:        name,
			Position:    item.Position,
			ShirtNumber: item.ShirtNumber.Or(0),
		}
		if item.Substitute {
			out.Bench = append(out.Bench, player)
			continue
		}
		out.Starters = append(out.Starters, player)
	}
	return out
}

func DecodeStatistics(raw Payload) StatisticsView {
	var payload statisticsPayload
	if err := raw.Decode(&payload); err != nil {
		return StatisticsView{}
	}
	view := StatisticsView{Available: len(payload.Statistics) > 0}
	for _, period := range payload.Statistics {
		out := StatisticsPeriod{Period: period.Period}
		for _, group := range period.Groups {
			g := StatisticsGroup{Name: group.GroupName}
			for _, item := range group.Items {
				g.Items = append(g.Items, StatisticsItem{Name: item.Name, Home: item.Home, Away: item.Away})
			}
			out.Groups = append(out.Groups, g)
		}
		view.Periods = append(view.Periods, out)
	}
	return view
}

func DecodeOdds(raw Payload) OddsView {
	var payload oddsPayload
	if err := raw.Decode(&payload); err != nil {
		return OddsView{}
	}
	return OddsView{
		Available: payload.Home != nil || payload.Away != nil,
		Home:      winningOdds(payload.Home),
		Away:      winningOdds(payload.Away),
	}
}

func winningOdds(p *winningOddsPayload) WinningOdds {
	if p == nil {
		return WinningOdds{}
	}
	return WinningOdds{
		Available:  true,
		Expected:   p.Expected.Or(0),
		Actual:     p.Actual.Or(0),
		Fractional: p.FractionalValue,
	}
}

func DecodeForm(raw Payload) FormView {
	var payload formPayload
	if err := raw.Decode(&payload); err != nil {
		return FormView{}
	}
	return FormView{
		Available: payload.HomeTeam != nil || payload.AwayTeam != nil,
		Label:     payload.Label,
		Home:      teamForm(payload.HomeTeam),
		Away:      teamForm(payload.AwayTeam),
	}
}

func teamForm(p *teamFormPayload) TeamForm {
	if p == nil {
		return TeamForm{}
	}
	return TeamForm{
		Available: true,
		Form:      append([]string(nil), p.Form...),
		Position:  p.Position.Or(0),
		Value:     p.Value,
		AvgRating: p.AvgRating,
	}
}

func DecodeIncidents(raw Payload) IncidentsView {
	summary, err := DecodeIncidentSummary(raw)
	if err != nil {
		return IncidentsView{}
	}
	return IncidentsView{Available: true, Summary: summary}
}
