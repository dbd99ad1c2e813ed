// Globe opens an interactive orthographic globe with two mini-games.
//
// Drag to rotate, scroll or pinch to zoom, click a country to select it.
//
//	P      start the population game
//	Q      start the quiz
//	Enter  submit the quiz answer
//	Esc    quit the running game
//	H      toggle the population heat map
//	F      fly to the last saved location
//
// Settings come from the environment (see the config package) and may be
// overridden with flags. -script runs a JSON test script and -shots sets
// where its screenshots go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/globe"
	"github.com/phanxgames/globe/config"
	"github.com/phanxgames/globe/game"
	"github.com/phanxgames/globe/internal/logger"
	"github.com/phanxgames/globe/score"
)

// lastLocationKey is the shared key the last clicked place is saved under.
const lastLocationKey = "last"

type app struct {
	cfg    config.Config
	g      *globe.Globe
	mgr    *game.Manager
	pop    *game.Population
	quiz   *game.Quiz
	client *score.Client
	log    *slog.Logger

	loaded   chan []*globe.Feature
	located  chan score.Located
	flyTo    chan score.Location
	status   string
	statusAt time.Time
}

func main() {
	log := logger.Setup()
	cfg, err := config.Load()
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	cfg.GlobeFlags(flag.CommandLine)
	flag.Parse()

	g := globe.NewGlobe(globe.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Stars:  cfg.Stars,
		Logger: log,
	})
	g.ScreenshotDir = cfg.ScreenshotDir

	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			log.Error("read test script", "path", cfg.Script, "err", err)
			os.Exit(1)
		}
		runner, err := globe.LoadTestScript(data)
		if err != nil {
			log.Error("load test script", "path", cfg.Script, "err", err)
			os.Exit(1)
		}
		g.SetTestRunner(runner)
	}

	a := newApp(cfg, g, log)
	a.start()

	err = globe.Run(g, globe.RunConfig{
		Title:     cfg.Title,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Resizable: true,
		ShowFPS:   cfg.ShowFPS,
		Debug:     cfg.Debug,
		Game:      a,
	})
	if a.client != nil {
		a.client.Wait()
	}
	if err != nil {
		log.Error("globe exited", "err", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config, g *globe.Globe, log *slog.Logger) *app {
	a := &app{
		cfg:     cfg,
		g:       g,
		log:     log,
		pop:     game.NewPopulation(nil),
		quiz:    game.NewQuiz(nil, nil),
		loaded:  make(chan []*globe.Feature, 1),
		located: make(chan score.Located, 1),
		flyTo:   make(chan score.Location, 1),
	}
	a.mgr = game.NewManager(log, a.pop, a.quiz)
	a.mgr.Attach(g)
	a.mgr.OnMessage = a.setStatus
	a.mgr.OnScore = a.onScore
	a.mgr.OnLocation = a.onLocation
	if cfg.ScoreURL != "" {
		a.client = score.NewClient(cfg.ScoreURL, log)
	}
	return a
}

// start kicks off the background work: loading features and, with a score
// service, asking where the player is. Results come back over channels and
// are applied in Update so the globe is only touched from the game loop.
func (a *app) start() {
	go func() {
		a.loaded <- globe.LoadFeaturesOrFallback(a.cfg.DataPath, a.log)
	}()
	if a.client == nil || a.cfg.Script != "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), score.DefaultClientTimeout)
		defer cancel()
		l, err := a.client.Locate(ctx)
		if err != nil {
			a.log.Debug("locate skipped", "err", err)
			return
		}
		a.located <- l
	}()
}

func (a *app) Update() error {
	located := a.located
	if len(a.g.Features()) == 0 {
		located = nil
	}
	select {
	case feats := <-a.loaded:
		a.g.SetFeatures(feats)
		a.setStatus(fmt.Sprintf("%d countries loaded", len(feats)))
	case l := <-located:
		a.flyToLocated(l)
	case loc := <-a.flyTo:
		a.g.FlyTo(loc.Lat, loc.Lng, 0, 1.2)
		if loc.Name != "" {
			a.g.SetMarker(&globe.Marker{At: globe.LatLng{Lat: loc.Lat, Lng: loc.Lng}, Label: loc.Name})
		}
	default:
	}
	a.handleKeys()
	return a.g.Update()
}

func (a *app) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.mgr.Start(game.PopulationName)
		a.setStatus(fmt.Sprintf("Pick %d countries totalling %d people", game.PopulationPicks, a.pop.Target()))
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		a.mgr.Start(game.QuizName)
		if q := a.quiz.Question(); q != nil {
			a.setStatus(q.Text)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.mgr.Submit()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.mgr.Quit()
		a.setStatus("")
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		if a.g.ColorScheme() == globe.SchemeHeat {
			a.g.SetColorScheme(globe.SchemeCountry)
		} else {
			a.g.SetColorScheme(globe.SchemeHeat)
		}
		a.setStatus("Colors: " + a.g.ColorScheme().String())
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		a.fetchLastLocation()
	}
}

func (a *app) Draw(screen *ebiten.Image) {
	a.g.Draw(screen)
	ebitenutil.DebugPrintAt(screen, a.hud(), 8, 8)
}

func (a *app) Layout(w, h int) (int, int) {
	return a.g.Layout(w, h)
}

func (a *app) hud() string {
	var b strings.Builder
	switch act := a.mgr.Active(); act {
	case nil:
		b.WriteString("P population  Q quiz  H heat map  F last location")
	case game.Adapter(a.pop):
		fmt.Fprintf(&b, "Population  round %d  score %d  streak %d\n", a.pop.Round(), a.pop.Score(), a.pop.Streak())
		fmt.Fprintf(&b, "Target %d  selected %d/%d  total %d", a.pop.Target(), len(a.pop.Selected()), game.PopulationPicks, a.pop.Total())
	case game.Adapter(a.quiz):
		fmt.Fprintf(&b, "Quiz (%s)  round %d  score %d  streak %d\n", a.quiz.Difficulty(), a.quiz.Round(), a.quiz.Score(), a.quiz.Streak())
		if q := a.quiz.Question(); q != nil {
			fmt.Fprintf(&b, "%s  [%d/%d]  Enter to submit", q.Text, len(a.quiz.Selected()), len(q.Answers))
			if a.quiz.Revealed() {
				b.WriteString("\n" + q.Explanation)
			}
		}
	}
	if a.status != "" && time.Since(a.statusAt) < 4*time.Second {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func (a *app) setStatus(msg string) {
	a.status = msg
	a.statusAt = time.Now()
}

func (a *app) onScore(name string, d game.ScoreDelta) {
	a.log.Info("round scored", "game", name, "points", d.Points)
	if a.client == nil || d.Points <= 0 {
		return
	}
	a.client.SubmitScoreAsync(a.cfg.UserID, a.cfg.Username, int64(d.Points), func(r score.SaveResult, err error) {
		if err == nil && r.NewBest {
			a.log.Info("new best score", "score", r.Entry.Score, "previous", r.Previous)
		}
	})
}

func (a *app) onLocation(f *globe.Feature, at globe.LatLng) {
	if a.client == nil {
		return
	}
	a.client.SaveLocationAsync(lastLocationKey, score.Location{
		Lat: at.Lat, Lng: at.Lng, FeatureID: f.ID, Name: f.Name,
	})
}

func (a *app) fetchLastLocation() {
	if a.client == nil {
		if m := a.g.Marker(); m != nil {
			a.g.FlyTo(m.At.Lat, m.At.Lng, 0, 1.2)
		}
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), score.DefaultClientTimeout)
		defer cancel()
		loc, err := a.client.Location(ctx, lastLocationKey)
		if err != nil {
			a.log.Warn("last location unavailable", "err", err)
			return
		}
		select {
		case a.flyTo <- loc:
		default:
		}
	}()
}

// flyToLocated centres the globe on the player's position, or on their
// country when the database has no coordinates.
func (a *app) flyToLocated(l score.Located) {
	if l.HasCoords {
		a.g.FlyTo(l.Lat, l.Lng, 0, 1.5)
		return
	}
	for _, f := range a.g.Features() {
		if strings.EqualFold(f.Name, l.Name) {
			if c, ok := f.Centroid(); ok {
				a.g.FlyTo(c.Lat, c.Lng, 0, 1.5)
			}
			return
		}
	}
}
