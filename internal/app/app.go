package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchdaybot/predictions/internal/config"
	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/leaderboard"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/infrastructure/repository/memory"
	"github.com/matchdaybot/predictions/internal/infrastructure/repository/postgres"
	"github.com/matchdaybot/predictions/internal/infrastructure/source/cached"
	"github.com/matchdaybot/predictions/internal/infrastructure/source/footballapi"
	"github.com/matchdaybot/predictions/internal/interfaces/httpapi"
	"github.com/matchdaybot/predictions/internal/observability"
	"github.com/matchdaybot/predictions/internal/platform/cache"
	"github.com/matchdaybot/predictions/internal/platform/logging"
	"github.com/matchdaybot/predictions/internal/platform/resilience"
	"github.com/matchdaybot/predictions/internal/scheduler"
	"github.com/matchdaybot/predictions/internal/usecase"
)

const (
	dbMaxOpenConns    = 16
	dbMaxIdleConns    = 8
	dbConnMaxLifetime = 30 * time.Minute
)

type repositories struct {
	leagues     league.Repository
	teams       team.Repository
	fixtures    fixture.Repository
	predictions prediction.Repository
	aliases     alias.Repository
	board       leaderboard.Repository
}

// App owns everything with a lifecycle: the HTTP server, the refresh
// scheduler, the optional pprof server, and the telemetry exporters.
type App struct {
	Server *http.Server

	cfg           config.Config
	logger        *logging.Logger
	db            *sqlx.DB
	scheduler     *scheduler.Scheduler
	pprofServer   *http.Server
	stopTracing   func(context.Context) error
	stopProfiling func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	stopTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init profiling: %w", err)
	}

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start pprof server: %w", err)
	}

	var db *sqlx.DB
	var repos repositories
	if cfg.UseMemoryStore {
		repos = newMemoryRepositories()
		logger.Info("storage ready", "driver", "memory")
	} else {
		db, err = openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repos = newPostgresRepositories(db)
		logger.Info("storage ready", "driver", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	}

	var source usecase.FixtureSource = footballapi.NewClient(footballapi.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
		},
	})
	if cfg.CacheEnabled {
		source = cached.NewSource(source, cache.NewStore(cfg.CacheTTL))
	}

	aliasService := usecase.NewAliasService(repos.aliases)
	leagueService := usecase.NewLeagueService(repos.leagues, repos.teams)
	fixtureService := usecase.NewFixtureService(repos.fixtures, repos.leagues, source)
	predictionService := usecase.NewPredictionService(repos.predictions, repos.fixtures, fixtureService)
	scoringService := usecase.NewScoringService(repos.fixtures, repos.predictions, repos.board, fixtureService)
	leaderboardService := usecase.NewLeaderboardService(repos.board, repos.leagues, repos.aliases)
	refreshService := usecase.NewRefreshService(repos.leagues, repos.fixtures, source, scoringService, logger, cfg.RefreshWorkers)

	handler := httpapi.NewHandler(
		aliasService,
		leagueService,
		fixtureService,
		predictionService,
		scoringService,
		leaderboardService,
		refreshService,
		repos.teams,
		logger,
	)
	router := httpapi.NewRouter(handler, aliasService, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	sched, err := scheduler.NewScheduler(refreshService, repos.teams, cfg.RefreshInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	return &App{
		Server:        server,
		cfg:           cfg,
		logger:        logger,
		db:            db,
		scheduler:     sched,
		pprofServer:   pprofServer,
		stopTracing:   stopTracing,
		stopProfiling: stopProfiling,
	}, nil
}

// Start launches the background refresh scheduler. The HTTP server is left
// to the caller so it can decide how to run and stop it.
func (a *App) Start() error {
	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("refresh scheduler started", "interval", a.cfg.RefreshInterval.String())
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if err := a.scheduler.Stop(); err != nil {
		a.logger.Error("scheduler shutdown failed", "error", err)
		firstErr = err
	}

	if err := a.Server.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if err := observability.StopPprofServer(a.pprofServer, a.logger, 5*time.Second); err != nil {
		a.logger.Error("pprof server shutdown failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("db close failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.stopProfiling != nil {
		if err := a.stopProfiling(); err != nil {
			a.logger.Error("profiler shutdown failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.stopTracing != nil {
		if err := a.stopTracing(ctx); err != nil {
			a.logger.Error("tracing shutdown failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryResult)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	return db, nil
}

func newMemoryRepositories() repositories {
	fixtureRepo := memory.NewFixtureRepository(nil)
	return repositories{
		leagues:     memory.NewLeagueRepository(memory.SeedLeagues()),
		teams:       memory.NewTeamRepository(nil),
		fixtures:    fixtureRepo,
		predictions: memory.NewPredictionRepository(fixtureRepo),
		aliases:     memory.NewAliasRepository(memory.SeedAliases()),
		board:       memory.NewLeaderboardRepository(),
	}
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		leagues:     postgres.NewLeagueRepository(db),
		teams:       postgres.NewTeamRepository(db),
		fixtures:    postgres.NewFixtureRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		aliases:     postgres.NewAliasRepository(db),
		board:       postgres.NewLeaderboardRepository(db),
	}
}
