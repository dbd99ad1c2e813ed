package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultClientTimeout bounds each fire-and-forget request.
const DefaultClientTimeout = 5 * time.Second

// Client talks to the score service.
type Client struct {
	base    string
	http    *http.Client
	log     *slog.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
		Timeout: DefaultClientTimeout,
	}
}

// SubmitScore records a round score; the service keeps the best.
func (c *Client) SubmitScore(ctx context.Context, userID, username string, score int64) (SaveResult, error) {
	var res SaveResult
	err := c.do(ctx, http.MethodPost, "/api/scores", SubmitRequest{UserID: userID, Username: username, Score: score}, &res)
	return res, err
}

// Score fetches a user's best score.
func (c *Client) Score(ctx context.Context, userID string) (Entry, error) {
	var e Entry
	err := c.do(ctx, http.MethodGet, "/api/scores/"+url.PathEscape(userID), nil, &e)
	return e, err
}

// Leaderboard fetches the top entries.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]Entry, error) {
	var es []Entry
	err := c.do(ctx, http.MethodGet, "/api/leaderboard?limit="+strconv.Itoa(ClampLimit(limit)), nil, &es)
	return es, err
}

// SaveLocation stores loc under key.
func (c *Client) SaveLocation(ctx context.Context, key string, loc Location) error {
	return c.do(ctx, http.MethodPut, "/api/location/"+url.PathEscape(key), loc, nil)
}

// Location fetches the location stored under key.
func (c *Client) Location(ctx context.Context, key string) (Location, error) {
	var loc Location
	err := c.do(ctx, http.MethodGet, "/api/location/"+url.PathEscape(key), nil, &loc)
	return loc, err
}

// Locate asks the service where the caller is.
func (c *Client) Locate(ctx context.Context) (Located, error) {
	var l Located
	err := c.do(ctx, http.MethodGet, "/api/locate", nil, &l)
	return l, err
}

// SubmitScoreAsync submits in the background, logging failures. done, if
// not nil, runs on the submitting goroutine with the outcome.
func (c *Client) SubmitScoreAsync(userID, username string, score int64, done func(SaveResult, error)) {
	c.goTimeout(func(ctx context.Context) {
		res, err := c.SubmitScore(ctx, userID, username, score)
		if err != nil {
			c.log.Warn("score submit failed", "user", userID, "score", score, "err", err)
		}
		if done != nil {
			done(res, err)
		}
	})
}

// SaveLocationAsync saves in the background, logging failures.
func (c *Client) SaveLocationAsync(key string, loc Location) {
	c.goTimeout(func(ctx context.Context) {
		if err := c.SaveLocation(ctx, key, loc); err != nil {
			c.log.Warn("location save failed", "key", key, "err", err)
		}
	})
}

// Wait blocks until every background request has finished.
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) goTimeout(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("score: encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("score: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("score: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&e)
		return fmt.Errorf("score: %s %s: %s: %s", method, path, resp.Status, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("score: decode response: %w", err)
	}
	return nil
}
