// Package game holds the mini-games played on the globe. Each game is an
// Adapter: it consumes feature clicks, reports score changes and exposes
// the highlight set the renderer should draw. A Manager routes clicks to
// whichever game is active.
package game

import (
	"log/slog"

	"github.com/phanxgames/globe"
)

// ScoreDelta is the outcome of one selection.
type ScoreDelta struct {
	Points    int    // points earned by this selection, usually zero until a round ends
	RoundOver bool   // true when the selection completed the round
	Message   string // short status line for the host UI
}

// Adapter is a game driven by feature clicks.
type Adapter interface {
	Name() string
	Active() bool
	Start()
	Quit()
	SelectFeature(f *globe.Feature) ScoreDelta
	Highlights() globe.HighlightSet
}

// Submitter is implemented by games that score on request rather than on
// the click that completes a selection.
type Submitter interface {
	Submit() ScoreDelta
}

// Manager owns the games and routes globe clicks to the active one. At most
// one game is active at a time.
type Manager struct {
	games []Adapter
	g     *globe.Globe
	log   *slog.Logger

	handle globe.CallbackHandle

	// OnScore runs after a selection that earned points or ended a round.
	OnScore func(game string, d ScoreDelta)
	// OnLocation runs for feature clicks made while no game is active.
	OnLocation func(f *globe.Feature, at globe.LatLng)
	// OnMessage receives every non-empty status line.
	OnMessage func(msg string)
}

// NewManager creates a manager for the given games.
func NewManager(log *slog.Logger, games ...Adapter) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{games: games, log: log}
}

// Attach subscribes the manager to g's feature clicks. Attaching again
// moves the subscription to the new globe.
func (m *Manager) Attach(g *globe.Globe) {
	m.handle.Remove()
	m.g = g
	m.handle = g.OnFeatureClick(func(ctx globe.FeatureClickContext) {
		m.HandleClick(ctx.Feature, ctx.At)
	})
}

// Detach removes the click subscription.
func (m *Manager) Detach() {
	m.handle.Remove()
	m.handle = globe.CallbackHandle{}
	m.g = nil
}

// Game returns the game with the given name, or nil.
func (m *Manager) Game(name string) Adapter {
	for _, a := range m.games {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Active returns the running game, or nil.
func (m *Manager) Active() Adapter {
	for _, a := range m.games {
		if a.Active() {
			return a
		}
	}
	return nil
}

// Start quits any running game and starts the named one. It reports false
// for an unknown name.
func (m *Manager) Start(name string) bool {
	next := m.Game(name)
	if next == nil {
		return false
	}
	for _, a := range m.games {
		if a != next && a.Active() {
			a.Quit()
		}
	}
	next.Start()
	m.log.Info("game started", "game", name)
	m.refresh()
	return true
}

// Quit stops the running game, if any.
func (m *Manager) Quit() {
	if a := m.Active(); a != nil {
		a.Quit()
		m.log.Info("game quit", "game", a.Name())
	}
	m.refresh()
}

// HandleClick routes a feature click: to the active game if there is one,
// else to OnLocation.
func (m *Manager) HandleClick(f *globe.Feature, at globe.LatLng) ScoreDelta {
	a := m.Active()
	if a == nil {
		if m.OnLocation != nil {
			m.OnLocation(f, at)
		}
		return ScoreDelta{}
	}
	d := a.SelectFeature(f)
	m.log.Debug("selection", "game", a.Name(), "feature", f.ID, "points", d.Points, "round_over", d.RoundOver)
	m.report(a.Name(), d)
	m.refresh()
	return d
}

func (m *Manager) report(name string, d ScoreDelta) {
	if d.Message != "" && m.OnMessage != nil {
		m.OnMessage(d.Message)
	}
	if (d.Points != 0 || d.RoundOver) && m.OnScore != nil {
		m.OnScore(name, d)
	}
}

// Submit submits the active game when it is a Submitter.
func (m *Manager) Submit() ScoreDelta {
	a := m.Active()
	s, ok := a.(Submitter)
	if !ok {
		return ScoreDelta{}
	}
	d := s.Submit()
	m.report(a.Name(), d)
	m.refresh()
	return d
}

// Refresh pushes the active game's highlights to the attached globe.
// Games that change state outside of a click (a quiz submit, for example)
// need it called afterwards.
func (m *Manager) Refresh() { m.refresh() }

func (m *Manager) refresh() {
	if m.g == nil {
		return
	}
	if a := m.Active(); a != nil {
		m.g.SetHighlights(a.Highlights())
		return
	}
	m.g.SetHighlights()
}
