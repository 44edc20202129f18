package footballapi

import (
	"strings"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
)

type leaguesEnvelope struct {
	Response []struct {
		League struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"league"`
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
		Seasons []struct {
			Year    int  `json:"year"`
			Current bool `json:"current"`
		} `json:"seasons"`
	} `json:"response"`
}

type teamsEnvelope struct {
	Response []struct {
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Code string `json:"code"`
		} `json:"team"`
	} `json:"response"`
}

type fixtureRow struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID int64 `json:"id"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type fixturesEnvelope struct {
	Response []fixtureRow `json:"response"`
}

// Provider short status codes, mapped onto the domain's coarse states.
var statusByShortCode = map[string]string{
	"NS":   fixture.StatusScheduled,
	"TBD":  fixture.StatusScheduled,
	"FT":   fixture.StatusFinished,
	"AET":  fixture.StatusFinished,
	"PEN":  fixture.StatusFinished,
	"PST":  fixture.StatusPostponed,
	"CANC": fixture.StatusCancelled,
	"ABD":  fixture.StatusCancelled,
}

func mapFixtureRow(row fixtureRow) fixture.Fixture {
	out := fixture.Fixture{
		ID:         row.Fixture.ID,
		LeagueID:   row.League.ID,
		HomeTeamID: row.Teams.Home.ID,
		AwayTeamID: row.Teams.Away.ID,
		HomeTeam:   strings.TrimSpace(row.Teams.Home.Name),
		AwayTeam:   strings.TrimSpace(row.Teams.Away.Name),
		Status:     mapStatus(row.Fixture.Status.Short),
	}

	if parsed, err := time.Parse(time.RFC3339, row.Fixture.Date); err == nil {
		out.KickoffAt = parsed.UTC()
	}
	if fixture.IsFinishedStatus(out.Status) {
		out.HomeGoals = row.Goals.Home
		out.AwayGoals = row.Goals.Away
	}
	return out
}

func mapStatus(short string) string {
	short = strings.ToUpper(strings.TrimSpace(short))
	if mapped, ok := statusByShortCode[short]; ok {
		return mapped
	}
	return fixture.NormalizeStatus(short)
}
