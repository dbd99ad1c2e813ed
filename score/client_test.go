package score

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func newTestServer(t *testing.T, loc Locator) (*Client, *MemoryStore) {
	t.Helper()
	h, store := newTestRouter(loc)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", quietLogger()), store
}

func TestClient_Scores(t *testing.T) {
	c, _ := newTestServer(t, nil)
	ctx := context.Background()

	if _, err := c.Score(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	res, err := c.SubmitScore(ctx, "u1", "Ann", 250)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NewBest || res.Entry.Score != 250 {
		t.Errorf("res = %+v", res)
	}
	if _, err := c.SubmitScore(ctx, "u2", "Bo", 300); err != nil {
		t.Fatal(err)
	}

	e, err := c.Score(ctx, "u1")
	if err != nil || e.Score != 250 {
		t.Errorf("Score = %+v, %v", e, err)
	}
	es, err := c.Leaderboard(ctx, 5)
	if err != nil || len(es) != 2 || es[0].UserID != "u2" {
		t.Errorf("Leaderboard = %+v, %v", es, err)
	}
}

func TestClient_ServerError(t *testing.T) {
	c, _ := newTestServer(t, nil)
	_, err := c.SubmitScore(context.Background(), "", "Ann", 1)
	if err == nil || !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "user id") {
		t.Errorf("err = %v", err)
	}
}

func TestClient_Locations(t *testing.T) {
	c, _ := newTestServer(t, nil)
	ctx := context.Background()
	if err := c.SaveLocation(ctx, "post1", Location{Lat: -33.9, Lng: 151.2, FeatureID: "AUS"}); err != nil {
		t.Fatal(err)
	}
	loc, err := c.Location(ctx, "post1")
	if err != nil || loc.FeatureID != "AUS" || loc.Lat != -33.9 {
		t.Errorf("Location = %+v, %v", loc, err)
	}
	if _, err := c.Location(ctx, "other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestClient_Async(t *testing.T) {
	c, store := newTestServer(t, nil)
	var mu sync.Mutex
	var got []SaveResult
	for _, s := range []int64{10, 30, 20} {
		c.SubmitScoreAsync("u1", "Ann", s, func(r SaveResult, err error) {
			if err != nil {
				t.Errorf("async submit: %v", err)
			}
			mu.Lock()
			got = append(got, r)
			mu.Unlock()
		})
	}
	c.SaveLocationAsync("last", Location{Lat: 1, Lng: 2})
	c.Wait()

	if len(got) != 3 {
		t.Fatalf("callbacks = %d", len(got))
	}
	e, err := store.Score(context.Background(), "u1")
	if err != nil || e.Score != 30 {
		t.Errorf("best = %+v, %v", e, err)
	}
	if _, err := store.Location(context.Background(), "last"); err != nil {
		t.Errorf("async location not saved: %v", err)
	}
}

func TestClient_AsyncFailureIsLogged(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", quietLogger())
	done := make(chan error, 1)
	c.SubmitScoreAsync("u1", "Ann", 1, func(_ SaveResult, err error) { done <- err })
	c.Wait()
	if err := <-done; err == nil {
		t.Error("expected a connection error")
	}
}

func TestClient_Locate(t *testing.T) {
	c, _ := newTestServer(t, stubLocator{"127.0.0.1": {IP: "127.0.0.1", Country: "ZZ"}})
	l, err := c.Locate(context.Background())
	if err != nil || l.Country != "ZZ" {
		t.Errorf("Locate = %+v, %v", l, err)
	}
}
