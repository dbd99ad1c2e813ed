package game

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/phanxgames/globe"
)

// QuizName is the quiz adapter's name.
const QuizName = "quiz"

// Difficulty scales the points of a correct answer.
type Difficulty uint8

const (
	Medium Difficulty = iota
	Easy
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	}
	return "medium"
}

// Multiplier returns the per-answer score multiplier.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 0.8
	case Hard:
		return 1.5
	}
	return 1.0
}

// ParseDifficulty maps easy, medium or hard to a Difficulty. Anything else
// is Medium.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "easy", "Easy":
		return Easy
	case "hard", "Hard":
		return Hard
	}
	return Medium
}

// Question is one quiz prompt with its set of correct country codes.
type Question struct {
	ID          int
	Text        string
	Answers     []string
	Difficulty  Difficulty
	Category    string
	Explanation string
}

// Result is the outcome of validating a selection against a question.
type Result struct {
	Correct   []string
	Incorrect []string
	Missed    []string
	Accuracy  float64 // share of the answers that were selected
	Complete  bool    // every answer selected and nothing else
	Points    int
}

// Validate compares the selected codes with the correct ones.
func Validate(selected, answers []string) Result {
	var r Result
	for _, id := range selected {
		if slices.Contains(answers, id) {
			r.Correct = append(r.Correct, id)
		} else {
			r.Incorrect = append(r.Incorrect, id)
		}
	}
	for _, id := range answers {
		if !slices.Contains(selected, id) {
			r.Missed = append(r.Missed, id)
		}
	}
	if len(answers) > 0 {
		r.Accuracy = float64(len(r.Correct)) / float64(len(answers))
	}
	r.Complete = len(r.Correct) == len(answers) && len(r.Incorrect) == 0
	return r
}

// QuizScore returns floor(10·correct·multiplier − 5·incorrect), never below
// zero.
func QuizScore(correct, incorrect int, multiplier float64) int {
	return max(0, int(math.Floor(10*float64(correct)*multiplier-5*float64(incorrect))))
}

// Quiz asks a question whose answer is a set of countries. The player
// selects up to as many countries as there are answers and then submits.
type Quiz struct {
	rng  *rand.Rand
	bank []Question

	difficulty Difficulty
	filter     bool

	active   bool
	revealed bool
	question *Question
	selected []string
	last     Result
	score    int
	round    int
	streak   int
}

// NewQuiz creates a quiz over bank, or DefaultQuestions when bank is empty.
func NewQuiz(rng *rand.Rand, bank []Question) *Quiz {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(bank) == 0 {
		bank = DefaultQuestions
	}
	return &Quiz{rng: rng, bank: bank}
}

func (q *Quiz) Name() string { return QuizName }
func (q *Quiz) Active() bool { return q.active }

// SetDifficulty sets the scoring multiplier and restricts new questions to
// that difficulty when the bank has any.
func (q *Quiz) SetDifficulty(d Difficulty) {
	q.difficulty = d
	q.filter = true
}

// Difficulty returns the current difficulty.
func (q *Quiz) Difficulty() Difficulty { return q.difficulty }

// Start begins a new quiz with score and streak reset.
func (q *Quiz) Start() {
	q.active = true
	q.score = 0
	q.round = 0
	q.streak = 0
	q.Next()
}

// Quit ends the quiz.
func (q *Quiz) Quit() {
	q.active = false
	q.revealed = false
	q.question = nil
	q.selected = nil
}

// Next moves on to a new random question.
func (q *Quiz) Next() {
	pool := q.bank
	if q.filter {
		var same []Question
		for _, qq := range q.bank {
			if qq.Difficulty == q.difficulty {
				same = append(same, qq)
			}
		}
		if len(same) > 0 {
			pool = same
		}
	}
	q.question = &pool[q.rng.IntN(len(pool))]
	q.round++
	q.revealed = false
	q.selected = q.selected[:0]
	q.last = Result{}
}

// Question returns the current question, or nil when inactive.
func (q *Quiz) Question() *Question { return q.question }

// Selected returns the selected country codes in click order.
func (q *Quiz) Selected() []string { return q.selected }

// Revealed reports whether the current question has been submitted.
func (q *Quiz) Revealed() bool { return q.revealed }

// Last returns the result of the most recent submit.
func (q *Quiz) Last() Result { return q.last }

// Score returns the points accumulated since Start.
func (q *Quiz) Score() int { return q.score }

// Round returns the 1-based question number.
func (q *Quiz) Round() int { return q.round }

// Streak returns the number of consecutive fully correct answers.
func (q *Quiz) Streak() int { return q.streak }

// SelectFeature adds f until the selection holds as many countries as the
// question has answers. After a submit the next click moves on to a new
// question.
func (q *Quiz) SelectFeature(f *globe.Feature) ScoreDelta {
	if !q.active || f == nil || q.question == nil {
		return ScoreDelta{}
	}
	if q.revealed {
		q.Next()
	}
	if slices.Contains(q.selected, f.ID) {
		return ScoreDelta{Message: fmt.Sprintf("%s is already selected", f.Name)}
	}
	if len(q.selected) >= len(q.question.Answers) {
		return ScoreDelta{Message: "Selection is full, submit your answer"}
	}
	q.selected = append(q.selected, f.ID)
	return ScoreDelta{Message: fmt.Sprintf("%s selected (%d/%d)", f.Name, len(q.selected), len(q.question.Answers))}
}

// Submit validates the selection, scores it and reveals the answers.
// Submitting twice scores once.
func (q *Quiz) Submit() ScoreDelta {
	if !q.active || q.question == nil || q.revealed {
		return ScoreDelta{}
	}
	r := Validate(q.selected, q.question.Answers)
	r.Points = QuizScore(len(r.Correct), len(r.Incorrect), q.difficulty.Multiplier())
	if r.Complete {
		q.streak++
	} else {
		q.streak = 0
	}
	q.last = r
	q.score += r.Points
	q.revealed = true
	return ScoreDelta{
		Points:    r.Points,
		RoundOver: true,
		Message: fmt.Sprintf("%d correct, %d wrong, %d missed: +%d",
			len(r.Correct), len(r.Incorrect), len(r.Missed), r.Points),
	}
}

// Highlights marks the selection and, once revealed, the correct answers.
// A revealed answer outranks a selection of the same country.
func (q *Quiz) Highlights() globe.HighlightSet {
	hs := make(globe.HighlightSet, len(q.selected))
	for _, id := range q.selected {
		hs[id] = globe.TierQuizSelected
	}
	if q.revealed && q.question != nil {
		for _, id := range q.question.Answers {
			hs[id] = globe.TierQuizCorrect
		}
	}
	return hs
}
