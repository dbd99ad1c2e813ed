package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/phanxgames/globe"
)

// Population game constants.
const (
	PopulationName    = "population"
	PopulationPicks   = 4
	MinTarget         = 10_000_000
	MaxTarget         = 500_000_000
	MinRoundScore     = 100
	MaxStreakBonus    = 5
	streakAccuracyCap = 0.1
)

// Population asks the player to pick exactly PopulationPicks countries whose
// populations add up as close as possible to a random target.
type Population struct {
	rng *rand.Rand

	active   bool
	finished bool
	target   int64
	selected []*globe.Feature
	score    int
	round    int
	streak   int
}

// NewPopulation creates the game. rng drives the targets and the accuracy
// bonus; nil seeds one from the runtime.
func NewPopulation(rng *rand.Rand) *Population {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Population{rng: rng}
}

func (p *Population) Name() string { return PopulationName }
func (p *Population) Active() bool { return p.active }

// Start begins a new game, resetting score and streak.
func (p *Population) Start() {
	p.active = true
	p.score = 0
	p.round = 0
	p.streak = 0
	p.nextRound()
}

// Quit ends the game and clears the selection.
func (p *Population) Quit() {
	p.active = false
	p.finished = false
	p.selected = nil
	p.target = 0
}

func (p *Population) nextRound() {
	p.round++
	p.finished = false
	p.selected = p.selected[:0]
	p.target = MinTarget + p.rng.Int64N(MaxTarget-MinTarget+1)
}

// SelectFeature adds f to the selection. The pick that completes the set
// scores the round; the next pick after that starts a new round.
func (p *Population) SelectFeature(f *globe.Feature) ScoreDelta {
	if !p.active || f == nil {
		return ScoreDelta{}
	}
	if p.finished {
		p.nextRound()
	}
	if slices.ContainsFunc(p.selected, func(s *globe.Feature) bool { return s.ID == f.ID }) {
		return ScoreDelta{Message: fmt.Sprintf("%s is already selected", f.Name)}
	}
	p.selected = append(p.selected, f)
	if len(p.selected) < PopulationPicks {
		return ScoreDelta{Message: fmt.Sprintf("%s added (%d/%d)", f.Name, len(p.selected), PopulationPicks)}
	}

	total := p.Total()
	diff := Difference(total, p.target)
	pts := RoundScore(total, p.target, len(p.selected), p.rng)
	if diff < streakAccuracyCap {
		p.streak++
	} else {
		p.streak = 0
	}
	pts = StreakBonus(pts, p.streak)
	p.score += pts
	p.finished = true
	return ScoreDelta{
		Points:    pts,
		RoundOver: true,
		Message:   fmt.Sprintf("Total %d vs target %d: +%d", total, p.target, pts),
	}
}

// Highlights marks every selected country.
func (p *Population) Highlights() globe.HighlightSet {
	hs := make(globe.HighlightSet, len(p.selected))
	for _, f := range p.selected {
		hs[f.ID] = globe.TierGameSelected
	}
	return hs
}

// Target returns the population to match this round.
func (p *Population) Target() int64 { return p.target }

// Selected returns the countries picked this round.
func (p *Population) Selected() []*globe.Feature { return p.selected }

// Total returns the summed population of the selection.
func (p *Population) Total() int64 {
	var sum int64
	for _, f := range p.selected {
		sum += f.Population
	}
	return sum
}

// Score returns the points accumulated since Start.
func (p *Population) Score() int { return p.score }

// Round returns the 1-based round number.
func (p *Population) Round() int { return p.round }

// Streak returns the number of consecutive rounds within 10% of target.
func (p *Population) Streak() int { return p.streak }

// Difference returns |total-target|/target, or 1 for a zero target.
func Difference(total, target int64) float64 {
	if target <= 0 {
		return 1
	}
	return math.Abs(float64(total-target)) / float64(target)
}

// RoundScore scores a finished round. Closeness to the target dominates,
// larger targets and more countries scale it up, and an accuracy bonus or
// penalty with a random component drawn from rng is applied last. The
// result is never below MinRoundScore.
func RoundScore(total, target int64, count int, rng *rand.Rand) int {
	if target <= 0 {
		return MinRoundScore
	}
	diff := Difference(total, target)
	base := math.Floor(1000 * math.Pow(0.9, diff*10))
	popFactor := math.Log10(float64(target)) / 5
	countFactor := 1 + float64(count)/10
	s := int(math.Floor(base * popFactor * countFactor))
	s = accuracyBonus(s, diff, rng)
	return max(MinRoundScore, s)
}

func accuracyBonus(s int, diff float64, rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case diff < 0.01:
		return s + int(math.Floor(float64(s)*(0.3+r*0.2)))
	case diff < 0.05:
		return s + int(math.Floor(float64(s)*(0.1+r*0.15)))
	case diff < 0.1:
		return s + int(math.Floor(float64(s)*(0.05+r*0.05)))
	case diff > 0.5:
		return s - int(math.Floor(float64(s)*(0.1+r*0.2)))
	}
	return s
}

// StreakBonus adds 10% per streak step, capped at MaxStreakBonus steps.
// Streaks of one or less add nothing.
func StreakBonus(s, streak int) int {
	if streak <= 1 {
		return s
	}
	return s + int(math.Floor(float64(s)*0.1*float64(min(streak, MaxStreakBonus))))
}
