package yunite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/pable/go-br-leaderboard/internal/model"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("yunite: not found")

// Client is a Yunite API client scoped to one guild.
type Client struct {
	apiKey  string
	baseURL string
	guildID string
	timeout time.Duration
	client  *fasthttp.Client

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo is the last rate-limit state reported by the API.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	// seconds until reset
	Reset     int
	UpdatedAt time.Time
}

// NewClient creates a client. timeout bounds each request that has no ctx deadline.
func NewClient(apiKey, baseURL, guildID string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		guildID: guildID,
		timeout: timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// RateLimit returns the last observed rate-limit headers.
func (c *Client) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Limit"))); err == nil {
		c.rateLimit.Limit = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Remaining"))); err == nil {
		c.rateLimit.Remaining = v
	}
	if v, err := strconv.Atoi(string(resp.Header.Peek("X-Ratelimit-Reset"))); err == nil {
		c.rateLimit.Reset = v
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// Tournaments lists every tournament of the guild.
func (c *Client) Tournaments(ctx context.Context) ([]model.Tournament, error) {
	dtos, err := doRequest[[]tournamentDTO](ctx, c, c.guildPath("tournaments"))
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	out := make([]model.Tournament, 0, len(*dtos))
	for _, d := range *dtos {
		t, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Tournament fetches one tournament with its rules.
func (c *Client) Tournament(ctx context.Context, id string) (*model.Tournament, error) {
	dto, err := doRequest[tournamentDTO](ctx, c, c.guildPath("tournaments", id))
	if err != nil {
		return nil, fmt.Errorf("get tournament %s: %w", id, err)
	}
	t, err := dto.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Teams fetches the team leaderboard of a tournament.
func (c *Client) Teams(ctx context.Context, tournamentID string) ([]model.Record, error) {
	dtos, err := doRequest[[]teamDTO](ctx, c, c.guildPath("tournaments", tournamentID, "leaderboard"))
	if err != nil {
		return nil, fmt.Errorf("get leaderboard %s: %w", tournamentID, err)
	}
	out := make([]model.Record, len(*dtos))
	for i, d := range *dtos {
		out[i] = d.toModel()
	}
	return out, nil
}

// Sessions fetches the match sessions of a tournament.
func (c *Client) Sessions(ctx context.Context, tournamentID string) ([]model.MatchSession, error) {
	dtos, err := doRequest[[]sessionDTO](ctx, c, c.guildPath("tournaments", tournamentID, "matches"))
	if err != nil {
		return nil, fmt.Errorf("get matches %s: %w", tournamentID, err)
	}
	out := make([]model.MatchSession, len(*dtos))
	for i, d := range *dtos {
		out[i] = d.toModel()
	}
	return out, nil
}

// SessionTeamCount returns how many teams are on a session's leaderboard.
func (c *Client) SessionTeamCount(ctx context.Context, tournamentID, sessionID string) (int, error) {
	dtos, err := doRequest[[]json.RawMessage](ctx, c,
		c.guildPath("tournaments", tournamentID, "matches", sessionID, "leaderboard"))
	if err != nil {
		return 0, fmt.Errorf("get match leaderboard %s: %w", sessionID, err)
	}
	return len(*dtos), nil
}

func (c *Client) guildPath(parts ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/guild/")
	b.WriteString(url.PathEscape(c.guildID))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

func doRequest[T any](ctx context.Context, c *Client, uri string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Y-Api-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok && c.timeout > 0 {
		deadline, ok = time.Now().Add(c.timeout), true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	c.updateRateLimit(resp)

	switch code := resp.StatusCode(); {
	case code == fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case code != fasthttp.StatusOK:
		return nil, fmt.Errorf("API error: %d", code)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", uri, err)
	}
	return &result, nil
}
