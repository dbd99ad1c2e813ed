// Package score persists players' best scores, a leaderboard and the last
// location clicked on a shared globe, and serves them over HTTP.
package score

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a user or location has no stored value.
var ErrNotFound = errors.New("score: not found")

// Limits applied to stored values.
const (
	DefaultLimit     = 10
	MaxLimit         = 100
	MaxUsernameLen   = 32
	AnonymousName    = "Anonymous"
	maxIdentifierLen = 128
)

// Entry is one user's best score.
type Entry struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveResult reports what SaveScore did. Previous is zero when the user
// had no score.
type SaveResult struct {
	Entry    Entry `json:"entry"`
	Previous int64 `json:"previous"`
	NewBest  bool  `json:"newBest"`
}

// Location is a point on the globe saved under a key, typically the last
// place a player clicked.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	FeatureID string    `json:"featureId,omitempty"`
	Name      string    `json:"name,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the coordinate ranges.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("score: location (%g, %g) out of range", l.Lat, l.Lng)
	}
	return nil
}

// Store is the persistence behind the score service. SaveScore keeps the
// higher of the stored and the submitted score.
type Store interface {
	SaveScore(ctx context.Context, userID, username string, score int64) (SaveResult, error)
	Score(ctx context.Context, userID string) (Entry, error)
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
	SaveLocation(ctx context.Context, key string, loc Location) error
	Location(ctx context.Context, key string) (Location, error)
	Ping(ctx context.Context) error
}

// CleanUsername trims and truncates a display name, substituting
// AnonymousName for an empty one.
func CleanUsername(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnonymousName
	}
	if r := []rune(s); len(r) > MaxUsernameLen {
		s = string(r[:MaxUsernameLen])
	}
	return s
}

// CheckID validates a user id or location key.
func CheckID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("score: empty %s", kind)
	}
	if len(id) > maxIdentifierLen {
		return fmt.Errorf("score: %s longer than %d bytes", kind, maxIdentifierLen)
	}
	return nil
}

// ClampLimit maps a requested leaderboard size into [1, MaxLimit], with
// DefaultLimit for zero or negative values.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}

// MemoryStore keeps everything in process memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	scores    map[string]Entry
	locations map[string]Location
	now       func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scores:    make(map[string]Entry),
		locations: make(map[string]Location),
		now:       time.Now,
	}
}

func (s *MemoryStore) SaveScore(_ context.Context, userID, username string, score int64) (SaveResult, error) {
	if err := CheckID("user id", userID); err != nil {
		return SaveResult{}, err
	}
	if score < 0 {
		return SaveResult{}, fmt.Errorf("score: negative score %d", score)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.scores[userID]
	res := SaveResult{Previous: prev.Score}
	e := prev
	e.UserID = userID
	e.Username = CleanUsername(username)
	if !had || score > prev.Score {
		e.Score = score
		e.UpdatedAt = s.now().UTC()
		res.NewBest = true
	}
	s.scores[userID] = e
	res.Entry = e
	return res, nil
}

func (s *MemoryStore) Score(_ context.Context, userID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.scores[userID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Leaderboard(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.scores))
	for _, e := range s.scores {
		out = append(out, e)
	}
	s.mu.RUnlock()
	SortEntries(out)
	if n := ClampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) SaveLocation(_ context.Context, key string, loc Location) error {
	if err := CheckID("location key", key); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = s.now().UTC()
	}
	s.mu.Lock()
	s.locations[key] = loc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Location(_ context.Context, key string) (Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[key]
	if !ok {
		return Location{}, ErrNotFound
	}
	return loc, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// SortEntries orders entries by score, highest first, breaking ties by
// user id so the order is stable.
func SortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Score != es[j].Score {
			return es[i].Score > es[j].Score
		}
		return es[i].UserID < es[j].UserID
	})
}
