package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/infrastructure/repository/memory"
	"github.com/matchdaybot/predictions/internal/platform/logging"
	"github.com/matchdaybot/predictions/internal/usecase"
)

const testJobToken = "job-secret"

// emptySource answers every lookup with "does not exist".
type emptySource struct{}

func (emptySource) Leagues(context.Context) ([]league.League, error) { return nil, nil }

func (emptySource) TeamsByLeague(context.Context, int64, string) ([]team.Team, error) {
	return nil, nil
}

func (emptySource) FixtureByID(context.Context, int64) (fixture.Fixture, bool, error) {
	return fixture.Fixture{}, false, nil
}

func (emptySource) FixturesByLeagueBetween(context.Context, int64, time.Time, time.Time) ([]fixture.Fixture, error) {
	return nil, nil
}

type routerFixture struct {
	router         http.Handler
	predictionRepo *memory.PredictionRepository
}

func newTestRouter(t *testing.T) routerFixture {
	t.Helper()

	goals := func(v int) *int { return &v }
	kickoffSoon := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	kickoffPast := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)

	leagueRepo := memory.NewLeagueRepository([]league.League{
		{ID: 39, Name: "Premier League", Country: "England", Season: "2026"},
	})
	teamRepo := memory.NewTeamRepository([]team.Team{
		{ID: 50, LeagueID: 39, Name: "Manchester City", Short: "MCI"},
		{ID: 42, LeagueID: 39, Name: "Arsenal", Short: "ARS"},
	})
	fixtureRepo := memory.NewFixtureRepository([]fixture.Fixture{
		{
			ID: 1001, LeagueID: 39, HomeTeamID: 50, AwayTeamID: 42,
			HomeTeam: "Manchester City", AwayTeam: "Arsenal",
			KickoffAt: kickoffSoon, Status: fixture.StatusScheduled,
		},
		{
			ID: 2001, LeagueID: 39, HomeTeamID: 42, AwayTeamID: 50,
			HomeTeam: "Arsenal", AwayTeam: "Manchester City",
			KickoffAt: kickoffPast, Status: fixture.StatusFinished,
			HomeGoals: goals(2), AwayGoals: goals(1),
		},
	})
	predictionRepo := memory.NewPredictionRepository(fixtureRepo)
	boardRepo := memory.NewLeaderboardRepository()
	aliasRepo := memory.NewAliasRepository([]alias.Alias{
		{Namespace: alias.NamespaceLeague, Text: "prem", TargetID: 39},
		{Namespace: alias.NamespaceFixture, Text: "derby", TargetID: 1001},
		{Namespace: alias.NamespaceUser, Text: "dave", TargetID: 7},
		{Namespace: alias.NamespaceUser, Text: "erin", TargetID: 8},
	})

	source := emptySource{}
	logger := logging.NewNop()

	aliasService := usecase.NewAliasService(aliasRepo)
	leagueService := usecase.NewLeagueService(leagueRepo, teamRepo)
	fixtureService := usecase.NewFixtureService(fixtureRepo, leagueRepo, source)
	predictionService := usecase.NewPredictionService(predictionRepo, fixtureRepo, fixtureService)
	scoringService := usecase.NewScoringService(fixtureRepo, predictionRepo, boardRepo, fixtureService)
	leaderboardService := usecase.NewLeaderboardService(boardRepo, leagueRepo, aliasRepo)
	refreshService := usecase.NewRefreshService(leagueRepo, fixtureRepo, source, scoringService, logger, 2)

	handler := NewHandler(
		aliasService,
		leagueService,
		fixtureService,
		predictionService,
		scoringService,
		leaderboardService,
		refreshService,
		teamRepo,
		logger,
	)

	return routerFixture{
		router:         NewRouter(handler, aliasService, logger, []string{"*"}, testJobToken),
		predictionRepo: predictionRepo,
	}
}

func doJSON(t *testing.T, router http.Handler, method, target, userToken, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userToken != "" {
		req.Header.Set("X-User-ID", userToken)
	}
	if strings.Contains(target, "/internal/") {
		req.Header.Set("X-Internal-Job-Token", testJobToken)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal envelope for %s %s: %v", method, target, err)
		}
	}
	return rec, envelope
}

func envelopeData(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %v", envelope["data"])
	}
	return data
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)
	rec, envelope := doJSON(t, tf.router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := envelopeData(t, envelope)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %v", got)
	}
}

func TestRouter_SubmitPredictionFlow(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, envelope := doJSON(t, tf.router, http.MethodPost, "/v1/predictions", "Dave",
		`{"fixture_id":"derby","home_goals":2,"away_goals":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	data := envelopeData(t, envelope)
	if got := data["fixtureId"]; got != float64(1001) {
		t.Fatalf("expected fixtureId 1001, got %v", got)
	}
	if got := data["userId"]; got != float64(7) {
		t.Fatalf("expected userId 7, got %v", got)
	}

	rec, envelope = doJSON(t, tf.router, http.MethodGet, "/v1/predictions/me", "dave", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	items, ok := envelope["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one stored prediction, got %v", envelope["data"])
	}
}

func TestRouter_SubmitPredictionRequiresUser(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, _ := doJSON(t, tf.router, http.MethodPost, "/v1/predictions", "",
		`{"fixture_id":"1001","home_goals":1,"away_goals":0}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec, _ = doJSON(t, tf.router, http.MethodPost, "/v1/predictions", "stranger",
		`{"fixture_id":"1001","home_goals":1,"away_goals":0}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestRouter_SubmitPredictionWindowClosed(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, envelope := doJSON(t, tf.router, http.MethodPost, "/v1/predictions", "dave",
		`{"fixture_id":"2001","home_goals":1,"away_goals":0}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", errorObj)
	}
}

func TestRouter_AliasLifecycle(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, envelope := doJSON(t, tf.router, http.MethodPut, "/v1/aliases/team/City", "",
		`{"target_id":50}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("set: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := envelopeData(t, envelope)["alias"]; got != "city" {
		t.Fatalf("expected normalized alias city, got %v", got)
	}

	rec, envelope = doJSON(t, tf.router, http.MethodGet, "/v1/aliases/team/CITY/resolve", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", rec.Code)
	}
	if got := envelopeData(t, envelope)["targetId"]; got != float64(50) {
		t.Fatalf("expected target 50, got %v", got)
	}

	rec, _ = doJSON(t, tf.router, http.MethodDelete, "/v1/aliases/team/city", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec, _ = doJSON(t, tf.router, http.MethodGet, "/v1/aliases/team/city", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestRouter_ScoreThenLeaderboard(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)
	ctx := context.Background()

	// Predictions stored before kickoff; the fixture has since finished 2-1.
	seed := []prediction.Prediction{
		{UserID: 7, FixtureID: 2001, HomeGoals: 2, AwayGoals: 1, SubmittedAt: time.Now().UTC().Add(-48 * time.Hour)},
		{UserID: 8, FixtureID: 2001, HomeGoals: 1, AwayGoals: 0, SubmittedAt: time.Now().UTC().Add(-48 * time.Hour)},
	}
	for _, p := range seed {
		if err := tf.predictionRepo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed prediction: %v", err)
		}
	}

	rec, envelope := doJSON(t, tf.router, http.MethodPost, "/v1/internal/fixtures/2001/score", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	scores, _ := envelopeData(t, envelope)["scores"].([]any)
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %v", scores)
	}

	rec, _ = doJSON(t, tf.router, http.MethodPost, "/v1/internal/fixtures/2001/score", "", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("rescore without correction: expected 409, got %d", rec.Code)
	}

	rec, envelope = doJSON(t, tf.router, http.MethodGet, "/v1/leagues/prem/leaderboard?mode=table", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", rec.Code)
	}
	data := envelopeData(t, envelope)
	entries, _ := data["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %v", data["entries"])
	}
	first, _ := entries[0].(map[string]any)
	if first["userId"] != float64(7) || first["points"] != float64(3) {
		t.Fatalf("expected user 7 leading with 3 points, got %v", first)
	}
	if first["displayName"] != "dave" {
		t.Fatalf("expected display name dave, got %v", first["displayName"])
	}
	table, _ := data["table"].(string)
	if !strings.Contains(table, "dave") || !strings.Contains(table, "PTS") {
		t.Fatalf("expected rendered table, got %q", table)
	}
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", strings.NewReader(""))
	rec := httptest.NewRecorder()
	tf.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouter_RefreshJob(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, envelope := doJSON(t, tf.router, http.MethodPost, "/v1/internal/jobs/refresh", "",
		`{"league_id":"prem"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	data := envelopeData(t, envelope)
	if data["league_id"] != float64(39) {
		t.Fatalf("expected league 39, got %v", data["league_id"])
	}
	if data["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", data["status"])
	}
}

func TestRouter_FixtureListings(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)

	rec, envelope := doJSON(t, tf.router, http.MethodGet, "/v1/leagues/prem/fixtures/upcoming", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("upcoming: expected 200, got %d", rec.Code)
	}
	items, _ := envelope["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 upcoming fixture, got %v", envelope["data"])
	}
	item, _ := items[0].(map[string]any)
	if item["id"] != float64(1001) {
		t.Fatalf("expected fixture 1001, got %v", item["id"])
	}

	rec, envelope = doJSON(t, tf.router, http.MethodGet, "/v1/leagues/39/fixtures/results", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("results: expected 200, got %d", rec.Code)
	}
	items, _ = envelope["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 result, got %v", envelope["data"])
	}

	rec, _ = doJSON(t, tf.router, http.MethodGet, "/v1/leagues/prem/fixtures?from=bogus", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad range: expected 400, got %d", rec.Code)
	}

	rec, _ = doJSON(t, tf.router, http.MethodGet, "/v1/leagues/unknown-league/fixtures/upcoming", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown league: expected 404, got %d", rec.Code)
	}
}

func TestRouter_RescoreFixture(t *testing.T) {
	t.Parallel()

	tf := newTestRouter(t)
	ctx := context.Background()

	if err := tf.predictionRepo.Upsert(ctx, prediction.Prediction{
		UserID: 7, FixtureID: 2001, HomeGoals: 3, AwayGoals: 0,
		SubmittedAt: time.Now().UTC().Add(-48 * time.Hour),
	}); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}

	rec, _ := doJSON(t, tf.router, http.MethodPost, "/v1/internal/fixtures/2001/score", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d", rec.Code)
	}

	// The provider later corrects the result to 3-0, turning the miss into
	// an exact hit.
	rec, envelope := doJSON(t, tf.router, http.MethodPost, "/v1/internal/fixtures/2001/rescore", "",
		`{"home_goals":3,"away_goals":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("rescore: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	scores, _ := envelopeData(t, envelope)["scores"].([]any)
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %v", scores)
	}
	score, _ := scores[0].(map[string]any)
	if score["points"] != float64(3) {
		t.Fatalf("expected 3 points after correction, got %v", score["points"])
	}

	rec, envelope = doJSON(t, tf.router, http.MethodGet, "/v1/fixtures/2001", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get fixture: expected 200, got %d", rec.Code)
	}
	if got := envelopeData(t, envelope)["homeGoals"]; got != float64(3) {
		t.Fatalf("expected corrected home goals 3, got %v", got)
	}
}

func TestRouter_SetAliasBatch(t *testing.T) {
	t.Parallel()

	fx := newTestRouter(t)

	body := `{"aliases":[{"alias":"City","target_id":50},{"alias":"99","target_id":42}]}`
	rec, envelope := doJSON(t, fx.router, http.MethodPost, "/v1/aliases/team/batch", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	items, ok := envelope["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 outcomes, got %v", envelope["data"])
	}

	first := items[0].(map[string]any)
	if first["alias"] != "city" || first["error"] != nil {
		t.Fatalf("first outcome got=%v", first)
	}
	second := items[1].(map[string]any)
	if second["error"] == nil {
		t.Fatal("numeric alias should report an error")
	}

	rec, envelope = doJSON(t, fx.router, http.MethodGet, "/v1/aliases/team/CITY/resolve", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status got=%d body=%s", rec.Code, rec.Body.String())
	}
	data := envelopeData(t, envelope)
	if data["targetId"].(float64) != 50 {
		t.Fatalf("resolve targetId got=%v want=50", data["targetId"])
	}
}
