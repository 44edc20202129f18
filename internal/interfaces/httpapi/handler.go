package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/leaderboard"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/platform/logging"
	"github.com/matchdaybot/predictions/internal/usecase"
)

type Handler struct {
	aliasService       *usecase.AliasService
	leagueService      *usecase.LeagueService
	fixtureService     *usecase.FixtureService
	predictionService  *usecase.PredictionService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	refreshService     *usecase.RefreshService
	teamRepo           team.Repository
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	aliasService *usecase.AliasService,
	leagueService *usecase.LeagueService,
	fixtureService *usecase.FixtureService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	refreshService *usecase.RefreshService,
	teamRepo team.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		aliasService:       aliasService,
		leagueService:      leagueService,
		fixtureService:     fixtureService,
		predictionService:  predictionService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		refreshService:     refreshService,
		teamRepo:           teamRepo,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// resolveLeague maps a league path token (numeric ID or alias) to a league ID.
func (h *Handler) resolveLeague(ctx context.Context, token string) (int64, error) {
	return h.aliasService.Resolve(ctx, alias.NamespaceLeague, token)
}

// resolveFixture maps a fixture path token (numeric ID or alias) to a fixture ID.
func (h *Handler) resolveFixture(ctx context.Context, token string) (int64, error) {
	return h.aliasService.Resolve(ctx, alias.NamespaceFixture, token)
}

// parseTimeQuery accepts RFC 3339 timestamps or plain dates. Plain dates are
// read as UTC midnight. An empty value parses to the zero time.
func parseTimeQuery(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s value %q, want RFC 3339 or YYYY-MM-DD", usecase.ErrInvalidInput, name, value)
	}
	return parsed, nil
}

func parseLimitQuery(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	var limit int
	if _, err := fmt.Sscanf(value, "%d", &limit); err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: invalid limit value %q", usecase.ErrInvalidInput, value)
	}
	return limit, nil
}

type submitPredictionRequest struct {
	FixtureID string `json:"fixture_id" validate:"required"`
	HomeGoals int    `json:"home_goals" validate:"gte=0,lte=99"`
	AwayGoals int    `json:"away_goals" validate:"gte=0,lte=99"`
}

type submitPredictionBatchRequest struct {
	Predictions []submitPredictionRequest `json:"predictions" validate:"required,min=1,max=20,dive"`
}

type setAliasRequest struct {
	TargetID int64 `json:"target_id" validate:"required,gt=0"`
}

type setAliasBatchEntry struct {
	Alias    string `json:"alias" validate:"required"`
	TargetID int64  `json:"target_id" validate:"required,gt=0"`
}

type setAliasBatchRequest struct {
	Aliases []setAliasBatchEntry `json:"aliases" validate:"required,min=1,max=50,dive"`
}

type rescoreFixtureRequest struct {
	HomeGoals int `json:"home_goals" validate:"gte=0,lte=99"`
	AwayGoals int `json:"away_goals" validate:"gte=0,lte=99"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Season  string `json:"season"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	LeagueID int64  `json:"leagueId"`
	Name     string `json:"name"`
	Short    string `json:"short,omitempty"`
}

type fixtureDTO struct {
	ID         int64  `json:"id"`
	LeagueID   int64  `json:"leagueId"`
	HomeTeamID int64  `json:"homeTeamId,omitempty"`
	AwayTeamID int64  `json:"awayTeamId,omitempty"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	KickoffAt  string `json:"kickoffAt"`
	Status     string `json:"status"`
	HomeGoals  *int   `json:"homeGoals,omitempty"`
	AwayGoals  *int   `json:"awayGoals,omitempty"`
}

type predictionDTO struct {
	UserID      int64  `json:"userId"`
	FixtureID   int64  `json:"fixtureId"`
	HomeGoals   int    `json:"homeGoals"`
	AwayGoals   int    `json:"awayGoals"`
	SubmittedAt string `json:"submittedAt"`
}

type userPredictionDTO struct {
	Prediction predictionDTO `json:"prediction"`
	Fixture    fixtureDTO    `json:"fixture"`
}

type submitOutcomeDTO struct {
	FixtureID  int64          `json:"fixtureId"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type setAliasOutcomeDTO struct {
	Alias    string `json:"alias"`
	Replaced bool   `json:"replaced"`
	Error    string `json:"error,omitempty"`
}

type aliasDTO struct {
	Namespace string `json:"namespace"`
	Alias     string `json:"alias"`
	TargetID  int64  `json:"targetId"`
	Replaced  bool   `json:"replaced,omitempty"`
}

type leaderboardEntryDTO struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Points      int    `json:"points"`
	ExactScores int    `json:"exactScores"`
	Results     int    `json:"results"`
	Fixtures    int    `json:"fixtures"`
}

type leaderboardDTO struct {
	LeagueID int64                 `json:"leagueId"`
	League   string                `json:"league"`
	Entries  []leaderboardEntryDTO `json:"entries"`
	Table    string                `json:"table,omitempty"`
}

type fixtureScoreDTO struct {
	UserID  int64  `json:"userId"`
	Points  int    `json:"points"`
	Outcome string `json:"outcome"`
}

type scoreReportDTO struct {
	LeagueID  int64             `json:"leagueId"`
	FixtureID int64             `json:"fixtureId"`
	HomeGoals int               `json:"homeGoals"`
	AwayGoals int               `json:"awayGoals"`
	Scores    []fixtureScoreDTO `json:"scores"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:      v.ID,
		Name:    v.Name,
		Country: v.Country,
		Season:  v.Season,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:       v.ID,
		LeagueID: v.LeagueID,
		Name:     v.Name,
		Short:    v.Short,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         v.ID,
		LeagueID:   v.LeagueID,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		HomeTeam:   v.HomeTeam,
		AwayTeam:   v.AwayTeam,
		KickoffAt:  v.KickoffAt.UTC().Format(time.RFC3339),
		Status:     fixture.NormalizeStatus(v.Status),
		HomeGoals:  v.HomeGoals,
		AwayGoals:  v.AwayGoals,
	}
}

func fixturesToDTOs(fixtures []fixture.Fixture) []fixtureDTO {
	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}
	return items
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		UserID:      v.UserID,
		FixtureID:   v.FixtureID,
		HomeGoals:   v.HomeGoals,
		AwayGoals:   v.AwayGoals,
		SubmittedAt: v.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func aliasToDTO(v alias.Alias, replaced bool) aliasDTO {
	return aliasDTO{
		Namespace: string(v.Namespace),
		Alias:     v.Text,
		TargetID:  v.TargetID,
		Replaced:  replaced,
	}
}

func leaderboardEntryToDTO(v leaderboard.Entry, displayName string) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:        v.Rank,
		UserID:      v.UserID,
		DisplayName: displayName,
		Points:      v.Points,
		ExactScores: v.ExactScores,
		Results:     v.Results,
		Fixtures:    v.Fixtures,
	}
}

func scoreReportToDTO(v usecase.ScoreReport) scoreReportDTO {
	scores := make([]fixtureScoreDTO, 0, len(v.Scores))
	for _, s := range v.Scores {
		scores = append(scores, fixtureScoreDTO{
			UserID:  s.UserID,
			Points:  s.Points,
			Outcome: string(s.Outcome),
		})
	}

	return scoreReportDTO{
		LeagueID:  v.LeagueID,
		FixtureID: v.FixtureID,
		HomeGoals: v.HomeGoals,
		AwayGoals: v.AwayGoals,
		Scores:    scores,
	}
}
