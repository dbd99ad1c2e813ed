package score

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing score", func(t *testing.T) {
		if _, err := s.Score(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("keeps the best", func(t *testing.T) {
		res, err := s.SaveScore(ctx, "u1", "Ann", 100)
		if err != nil {
			t.Fatal(err)
		}
		if !res.NewBest || res.Previous != 0 || res.Entry.Score != 100 || res.Entry.Username != "Ann" {
			t.Errorf("first save = %+v", res)
		}

		res, err = s.SaveScore(ctx, "u1", "Ann", 50)
		if err != nil {
			t.Fatal(err)
		}
		if res.NewBest || res.Previous != 100 || res.Entry.Score != 100 {
			t.Errorf("lower save = %+v", res)
		}

		res, err = s.SaveScore(ctx, "u1", "Annie", 150)
		if err != nil {
			t.Fatal(err)
		}
		if !res.NewBest || res.Previous != 100 || res.Entry.Score != 150 || res.Entry.Username != "Annie" {
			t.Errorf("higher save = %+v", res)
		}

		e, err := s.Score(ctx, "u1")
		if err != nil || e.Score != 150 || e.UserID != "u1" {
			t.Errorf("Score = %+v, %v", e, err)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		if _, err := s.SaveScore(ctx, "", "x", 1); err == nil {
			t.Error("empty user id accepted")
		}
		if _, err := s.SaveScore(ctx, "u9", "x", -1); err == nil {
			t.Error("negative score accepted")
		}
	})

	t.Run("leaderboard", func(t *testing.T) {
		for _, e := range []Entry{{UserID: "u2", Username: "Bo", Score: 300}, {UserID: "u3", Username: "", Score: 150}} {
			if _, err := s.SaveScore(ctx, e.UserID, e.Username, e.Score); err != nil {
				t.Fatal(err)
			}
		}
		es, err := s.Leaderboard(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, e := range es {
			ids = append(ids, e.UserID)
		}
		if got := strings.Join(ids, ","); got != "u2,u1,u3" {
			t.Errorf("order = %s, want u2,u1,u3", got)
		}
		if es[2].Username != AnonymousName {
			t.Errorf("empty username stored as %q", es[2].Username)
		}

		top, err := s.Leaderboard(ctx, 1)
		if err != nil || len(top) != 1 || top[0].UserID != "u2" {
			t.Errorf("top = %+v, %v", top, err)
		}
	})

	t.Run("locations", func(t *testing.T) {
		if _, err := s.Location(ctx, "post1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		want := Location{Lat: 48.85, Lng: 2.35, FeatureID: "FRA", Name: "France"}
		if err := s.SaveLocation(ctx, "post1", want); err != nil {
			t.Fatal(err)
		}
		got, err := s.Location(ctx, "post1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Lat != want.Lat || got.Lng != want.Lng || got.FeatureID != "FRA" || got.Name != "France" {
			t.Errorf("got %+v", got)
		}
		if got.UpdatedAt.IsZero() {
			t.Error("UpdatedAt not stamped")
		}
		if err := s.SaveLocation(ctx, "post1", Location{Lat: 91}); err == nil {
			t.Error("out of range latitude accepted")
		}
		if err := s.SaveLocation(ctx, "", want); err == nil {
			t.Error("empty key accepted")
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping = %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := OpenRedis(mr.Addr(), "", 0)
	defer rdb.Close()
	testStore(t, NewRedisStore(rdb))

	if !mr.Exists(redisLeaderboardKey) || !mr.Exists(redisLocationPrefix+"post1") {
		t.Error("expected keys missing from redis")
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := OpenRedis(mr.Addr(), "", 0)
	defer rdb.Close()
	s := NewRedisStore(rdb)
	mr.Close()

	ctx := context.Background()
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping should fail with redis down")
	}
	if _, err := s.Score(ctx, "u1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want a connection error", err)
	}
}

// TestPostgresStore needs a live database: set GLOBE_TEST_PG_DSN to run it.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GLOBE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("GLOBE_TEST_PG_DSN not set")
	}
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS globe_scores, globe_locations`); err != nil {
		t.Fatal(err)
	}
	s, err := NewPostgresStore(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestCleanUsername(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Ann ", "Ann"},
		{"", AnonymousName},
		{"   ", AnonymousName},
		{strings.Repeat("é", 40), strings.Repeat("é", MaxUsernameLen)},
	}
	for _, tt := range tests {
		if got := CleanUsername(tt.in); got != tt.want {
			t.Errorf("CleanUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{50, 50},
		{1000, MaxLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseIP(t *testing.T) {
	tests := []struct{ in, want string }{
		{"81.2.69.142", "81.2.69.142"},
		{"81.2.69.142:5123", "81.2.69.142"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"2001:db8::1", "2001:db8::1"},
	}
	for _, tt := range tests {
		ip := ParseIP(tt.in)
		if ip == nil || ip.String() != tt.want {
			t.Errorf("ParseIP(%q) = %v, want %s", tt.in, ip, tt.want)
		}
	}
	if ParseIP("not-an-ip") != nil {
		t.Error("garbage parsed as an address")
	}
}
