package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
	"github.com/matchdaybot/predictions/internal/domain/scoring"
	"github.com/matchdaybot/predictions/internal/domain/team"
)

var errStubSourceDown = errors.New("stub source down")

type aliasKey struct {
	ns   alias.Namespace
	text string
}

type stubAliasRepository struct {
	mu    sync.Mutex
	items map[aliasKey]alias.Alias
}

func newStubAliasRepository() *stubAliasRepository {
	return &stubAliasRepository{items: make(map[aliasKey]alias.Alias)}
}

func (r *stubAliasRepository) Set(_ context.Context, a alias.Alias) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := aliasKey{ns: a.Namespace, text: a.Text}
	_, replaced := r.items[key]
	r.items[key] = a
	return replaced, nil
}

func (r *stubAliasRepository) Get(_ context.Context, ns alias.Namespace, text string) (alias.Alias, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[aliasKey{ns: ns, text: text}]
	return item, ok, nil
}

func (r *stubAliasRepository) Delete(_ context.Context, ns alias.Namespace, text string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := aliasKey{ns: ns, text: text}
	_, ok := r.items[key]
	delete(r.items, key)
	return ok, nil
}

func (r *stubAliasRepository) ListByTarget(_ context.Context, ns alias.Namespace, targetID int64) ([]alias.Alias, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]alias.Alias, 0)
	for _, item := range r.items {
		if item.Namespace == ns && item.TargetID == targetID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (r *stubAliasRepository) ListByNamespace(_ context.Context, ns alias.Namespace) ([]alias.Alias, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]alias.Alias, 0)
	for _, item := range r.items {
		if item.Namespace == ns {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

type stubLeagueRepository struct {
	byID map[int64]league.League
}

func (r *stubLeagueRepository) List(_ context.Context) ([]league.League, error) {
	out := make([]league.League, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	item, ok := r.byID[leagueID]
	return item, ok, nil
}

func (r *stubLeagueRepository) Upsert(_ context.Context, leagues []league.League) error {
	if r.byID == nil {
		r.byID = make(map[int64]league.League)
	}
	for _, item := range leagues {
		r.byID[item.ID] = item
	}
	return nil
}

type stubTeamRepository struct {
	byLeague map[int64][]team.Team
}

func (r *stubTeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	return r.byLeague[leagueID], nil
}

func (r *stubTeamRepository) Upsert(_ context.Context, teams []team.Team) error {
	if r.byLeague == nil {
		r.byLeague = make(map[int64][]team.Team)
	}
	for _, item := range teams {
		r.byLeague[item.LeagueID] = append(r.byLeague[item.LeagueID], item)
	}
	return nil
}

type stubFixtureRepository struct {
	mu   sync.Mutex
	byID map[int64]fixture.Fixture
}

func newStubFixtureRepository(fixtures ...fixture.Fixture) *stubFixtureRepository {
	repo := &stubFixtureRepository{byID: make(map[int64]fixture.Fixture)}
	for _, fx := range fixtures {
		repo.byID[fx.ID] = fx
	}
	return repo
}

func (r *stubFixtureRepository) Upsert(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fx := range fixtures {
		r.byID[fx.ID] = fx
	}
	return nil
}

func (r *stubFixtureRepository) Get(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fx, ok := r.byID[fixtureID]
	return fx, ok, nil
}

func (r *stubFixtureRepository) list() []fixture.Fixture {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]fixture.Fixture, 0, len(r.byID))
	for _, fx := range r.byID {
		out = append(out, fx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *stubFixtureRepository) ListByLeagueBetween(_ context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0)
	for _, fx := range r.list() {
		if fx.LeagueID != leagueID {
			continue
		}
		if fx.KickoffAt.Before(from) || !fx.KickoffAt.Before(to) {
			continue
		}
		out = append(out, fx)
	}
	return out, nil
}

func (r *stubFixtureRepository) ListUpcomingByLeague(_ context.Context, leagueID int64, after time.Time, limit int) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0)
	for _, fx := range r.list() {
		if fx.LeagueID != leagueID || !fx.KickoffAt.After(after) {
			continue
		}
		out = append(out, fx)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubFixtureRepository) ListResultsByLeague(_ context.Context, leagueID int64, limit int) ([]fixture.Fixture, error) {
	all := r.list()
	out := make([]fixture.Fixture, 0)
	for i := len(all) - 1; i >= 0; i-- {
		fx := all[i]
		if fx.LeagueID != leagueID || !fx.IsFinished() {
			continue
		}
		out = append(out, fx)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubFixtureRepository) ListFinishedByLeague(_ context.Context, leagueID int64) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0)
	for _, fx := range r.list() {
		if fx.LeagueID == leagueID && fx.IsFinished() {
			out = append(out, fx)
		}
	}
	return out, nil
}

type predictionKey struct {
	userID    int64
	fixtureID int64
}

type stubPredictionRepository struct {
	mu    sync.Mutex
	items map[predictionKey]prediction.Prediction
}

func newStubPredictionRepository() *stubPredictionRepository {
	return &stubPredictionRepository{items: make(map[predictionKey]prediction.Prediction)}
}

func (r *stubPredictionRepository) Upsert(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[predictionKey{userID: p.UserID, fixtureID: p.FixtureID}] = p
	return nil
}

func (r *stubPredictionRepository) Get(_ context.Context, userID, fixtureID int64) (prediction.Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[predictionKey{userID: userID, fixtureID: fixtureID}]
	return p, ok, nil
}

func (r *stubPredictionRepository) ListByFixture(_ context.Context, fixtureID int64) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.FixtureID == fixtureID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *stubPredictionRepository) ListByUserBetween(_ context.Context, userID int64, _, _ time.Time) ([]prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })
	return out, nil
}

type boardKey struct {
	leagueID  int64
	fixtureID int64
}

type stubLeaderboardRepository struct {
	mu      sync.Mutex
	applied map[boardKey][]scoring.FixtureScore
}

func newStubLeaderboardRepository() *stubLeaderboardRepository {
	return &stubLeaderboardRepository{applied: make(map[boardKey][]scoring.FixtureScore)}
}

func (r *stubLeaderboardRepository) Apply(_ context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := boardKey{leagueID: leagueID, fixtureID: fixtureID}
	if _, ok := r.applied[key]; ok {
		return false, nil
	}
	r.applied[key] = append([]scoring.FixtureScore(nil), scores...)
	return true, nil
}

func (r *stubLeaderboardRepository) Correct(_ context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied[boardKey{leagueID: leagueID, fixtureID: fixtureID}] = append([]scoring.FixtureScore(nil), scores...)
	return nil
}

func (r *stubLeaderboardRepository) Applied(_ context.Context, leagueID, fixtureID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.applied[boardKey{leagueID: leagueID, fixtureID: fixtureID}]
	return ok, nil
}

func (r *stubLeaderboardRepository) ListByLeague(_ context.Context, leagueID int64) ([]scoring.FixtureScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]scoring.FixtureScore, 0)
	for key, scores := range r.applied {
		if key.leagueID == leagueID {
			out = append(out, scores...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FixtureID != out[j].FixtureID {
			return out[i].FixtureID < out[j].FixtureID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

type stubFixtureSource struct {
	mu        sync.Mutex
	byID      map[int64]fixture.Fixture
	leagues   []league.League
	teams     map[int64][]team.Team
	down      bool
	fetches   int
	byLeague  map[int64][]fixture.Fixture
	leagueErr map[int64]error
}

func newStubFixtureSource(fixtures ...fixture.Fixture) *stubFixtureSource {
	src := &stubFixtureSource{
		byID:     make(map[int64]fixture.Fixture),
		byLeague: make(map[int64][]fixture.Fixture),
	}
	for _, fx := range fixtures {
		src.byID[fx.ID] = fx
		src.byLeague[fx.LeagueID] = append(src.byLeague[fx.LeagueID], fx)
	}
	return src
}

func (s *stubFixtureSource) Leagues(_ context.Context) ([]league.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStubSourceDown
	}
	return s.leagues, nil
}

func (s *stubFixtureSource) TeamsByLeague(_ context.Context, leagueID int64, _ string) ([]team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStubSourceDown
	}
	return s.teams[leagueID], nil
}

func (s *stubFixtureSource) FixtureByID(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return fixture.Fixture{}, false, errStubSourceDown
	}
	s.fetches++
	fx, ok := s.byID[fixtureID]
	return fx, ok, nil
}

func (s *stubFixtureSource) FixturesByLeagueBetween(_ context.Context, leagueID int64, _, _ time.Time) ([]fixture.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStubSourceDown
	}
	if err := s.leagueErr[leagueID]; err != nil {
		return nil, err
	}
	return s.byLeague[leagueID], nil
}
