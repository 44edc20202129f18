package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/fixtures", handler.ListFixturesByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/fixtures/upcoming", handler.ListUpcomingFixtures)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/fixtures/results", handler.ListFixtureResults)
	mux.HandleFunc("GET /v1/leagues/{leagueToken}/fixtures/today", handler.ListTodayFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureToken}", handler.GetFixture)

	mux.HandleFunc("PUT /v1/aliases/{namespace}/{alias}", handler.SetAlias)
	mux.HandleFunc("POST /v1/aliases/{namespace}/batch", handler.SetAliasBatch)
	mux.HandleFunc("GET /v1/aliases/{namespace}/{alias}", handler.GetAlias)
	mux.HandleFunc("DELETE /v1/aliases/{namespace}/{alias}", handler.DeleteAlias)
	mux.HandleFunc("GET /v1/aliases/{namespace}/{alias}/resolve", handler.ResolveAlias)
	mux.HandleFunc("GET /v1/targets/{namespace}/{targetID}/aliases", handler.ListAliasesForTarget)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, resolver UserResolver) {
	mux.Handle("POST /v1/predictions", RequireUser(resolver, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("POST /v1/predictions/batch", RequireUser(resolver, http.HandlerFunc(handler.SubmitPredictionBatch)))
	mux.Handle("GET /v1/predictions/me", RequireUser(resolver, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("GET /v1/predictions/me/fixtures/{fixtureToken}", RequireUser(resolver, http.HandlerFunc(handler.GetMyPrediction)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshJob)))
	mux.Handle("POST /v1/internal/jobs/sync-leagues", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLeaguesJob)))
	mux.Handle("POST /v1/internal/fixtures/{fixtureToken}/score", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreFixtureJob)))
	mux.Handle("POST /v1/internal/fixtures/{fixtureToken}/rescore", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRescoreFixtureJob)))
}
