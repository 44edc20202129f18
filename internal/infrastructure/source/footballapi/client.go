// Package footballapi implements the fixture source against the API-Football
// HTTP provider.
package footballapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/platform/logging"
	"github.com/matchdaybot/predictions/internal/platform/resilience"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	apiKeyHeader    = "x-apisports-key"
	maxResponseSize = 6 << 20
	queryDateLayout = "2006-01-02"
)

var apiKeyTextRegex = regexp.MustCompile(`(?i)x-apisports-key:\s*\S+`)
var errProviderTransient = crerr.New("football api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the provider. It satisfies the usecase fixture source
// contract: found flags for existence, plain errors for transport failure.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Leagues(ctx context.Context) ([]league.League, error) {
	var envelope leaguesEnvelope
	if err := c.doJSON(ctx, "/leagues", map[string]string{"current": "true"}, &envelope); err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(envelope.Response))
	for _, row := range envelope.Response {
		if row.League.ID <= 0 {
			continue
		}
		item := league.League{
			ID:      row.League.ID,
			Name:    strings.TrimSpace(row.League.Name),
			Country: strings.TrimSpace(row.Country.Name),
		}
		for _, season := range row.Seasons {
			if season.Current {
				item.Season = strconv.Itoa(season.Year)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) TeamsByLeague(ctx context.Context, leagueID int64, season string) ([]team.Team, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	query := map[string]string{"league": strconv.FormatInt(leagueID, 10)}
	if season = strings.TrimSpace(season); season != "" {
		query["season"] = season
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "/teams", query, &envelope); err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(envelope.Response))
	for _, row := range envelope.Response {
		if row.Team.ID <= 0 {
			continue
		}
		out = append(out, team.Team{
			ID:       row.Team.ID,
			LeagueID: leagueID,
			Name:     strings.TrimSpace(row.Team.Name),
			Short:    strings.TrimSpace(row.Team.Code),
		})
	}
	return out, nil
}

func (c *Client) FixtureByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	if fixtureID <= 0 {
		return fixture.Fixture{}, false, fmt.Errorf("fixture id must be greater than zero")
	}

	var envelope fixturesEnvelope
	err := c.doJSON(ctx, "/fixtures", map[string]string{"id": strconv.FormatInt(fixtureID, 10)}, &envelope)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	if len(envelope.Response) == 0 {
		return fixture.Fixture{}, false, nil
	}

	return mapFixtureRow(envelope.Response[0]), true, nil
}

func (c *Client) FixturesByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}
	if !to.After(from) {
		return nil, fmt.Errorf("range end must be after range start")
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"from":   from.UTC().Format(queryDateLayout),
		"to":     to.UTC().Format(queryDateLayout),
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(envelope.Response))
	for _, row := range envelope.Response {
		if row.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixtureRow(row))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		var raw []byte
		var permanentErr error
		run := func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			if reqErr != nil && !crerr.Is(reqErr, errProviderTransient) {
				// Non-transient provider answers must not trip the breaker.
				permanentErr = reqErr
				return nil
			}
			return reqErr
		}

		var execErr error
		if c.circuitEnabled {
			execErr = c.breaker.Execute(run)
			if crerr.Is(execErr, resilience.ErrCircuitOpen) {
				c.logger.WarnContext(ctx, "football api circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("football data provider is temporarily unavailable")
			}
		} else {
			execErr = run()
		}
		if execErr != nil {
			return nil, execErr
		}
		if permanentErr != nil {
			return nil, permanentErr
		}
		return raw, nil
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}

func sanitizeSensitiveText(text string) string {
	return apiKeyTextRegex.ReplaceAllString(text, apiKeyHeader+": [redacted]")
}
