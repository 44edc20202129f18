package memory

import (
	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/league"
)

// SeedLeagues lists the leagues tracked out of the box, keyed by the
// provider's league IDs.
func SeedLeagues() []league.League {
	return []league.League{
		{ID: 39, Name: "Premier League", Country: "England", Season: "2026"},
		{ID: 61, Name: "Ligue 1", Country: "France", Season: "2026"},
		{ID: 78, Name: "Bundesliga", Country: "Germany", Season: "2026"},
		{ID: 135, Name: "Serie A", Country: "Italy", Season: "2026"},
		{ID: 140, Name: "La Liga", Country: "Spain", Season: "2026"},
	}
}

// SeedAliases maps common league shorthand onto the seed leagues.
func SeedAliases() []alias.Alias {
	return []alias.Alias{
		{Namespace: alias.NamespaceLeague, Text: "prem", TargetID: 39},
		{Namespace: alias.NamespaceLeague, Text: "epl", TargetID: 39},
		{Namespace: alias.NamespaceLeague, Text: "ligue un", TargetID: 61},
		{Namespace: alias.NamespaceLeague, Text: "buli", TargetID: 78},
		{Namespace: alias.NamespaceLeague, Text: "serie a", TargetID: 135},
		{Namespace: alias.NamespaceLeague, Text: "la liga", TargetID: 140},
	}
}
