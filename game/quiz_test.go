package game

import (
	"slices"
	"testing"

	"github.com/phanxgames/globe"
)

func TestValidate(t *testing.T) {
	r := Validate([]string{"A", "C", "D"}, []string{"A", "B"})
	if !slices.Equal(r.Correct, []string{"A"}) {
		t.Errorf("Correct = %v", r.Correct)
	}
	if !slices.Equal(r.Incorrect, []string{"C", "D"}) {
		t.Errorf("Incorrect = %v", r.Incorrect)
	}
	if !slices.Equal(r.Missed, []string{"B"}) {
		t.Errorf("Missed = %v", r.Missed)
	}
	if r.Accuracy != 0.5 || r.Complete {
		t.Errorf("Accuracy=%f Complete=%v", r.Accuracy, r.Complete)
	}

	if r := Validate([]string{"B", "A"}, []string{"A", "B"}); !r.Complete || r.Accuracy != 1 {
		t.Errorf("full answer = %+v", r)
	}
	if r := Validate(nil, nil); r.Accuracy != 0 || !r.Complete {
		t.Errorf("empty = %+v", r)
	}
}

func TestQuizScore(t *testing.T) {
	tests := []struct {
		c, i int
		m    float64
		want int
	}{
		{3, 0, 1.5, 45},
		{5, 0, 1.0, 50},
		{2, 1, 0.8, 11},
		{1, 1, 1.0, 5},
		{0, 2, 1.0, 0},
		{1, 4, 1.5, 0},
	}
	for _, tt := range tests {
		if got := QuizScore(tt.c, tt.i, tt.m); got != tt.want {
			t.Errorf("QuizScore(%d, %d, %.1f) = %d, want %d", tt.c, tt.i, tt.m, got, tt.want)
		}
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		mult float64
	}{
		{"easy", Easy, 0.8},
		{"Hard", Hard, 1.5},
		{"medium", Medium, 1.0},
		{"", Medium, 1.0},
	}
	for _, tt := range tests {
		d := ParseDifficulty(tt.in)
		if d != tt.want || d.Multiplier() != tt.mult {
			t.Errorf("ParseDifficulty(%q) = %v (%f)", tt.in, d, d.Multiplier())
		}
	}
	if Hard.String() != "hard" || Difficulty(0).String() != "medium" {
		t.Error("String mismatch")
	}
}

func TestQuiz_SelectSubmitReveal(t *testing.T) {
	q := NewQuiz(testRand(), []Question{{ID: 1, Text: "Pick A and B", Answers: []string{"A", "B"}}})
	q.Start()
	if q.Question() == nil || q.Round() != 1 {
		t.Fatal("Start should pose a question")
	}

	q.SelectFeature(country("A", 0))
	if d := q.SelectFeature(country("A", 0)); d.Message == "" || len(q.Selected()) != 1 {
		t.Error("duplicate selection should be refused")
	}
	q.SelectFeature(country("C", 0))
	if d := q.SelectFeature(country("D", 0)); len(q.Selected()) != 2 || d.Message == "" {
		t.Errorf("selection past the answer count: %v", q.Selected())
	}

	hs := q.Highlights()
	if hs["A"] != globe.TierQuizSelected || hs["C"] != globe.TierQuizSelected || len(hs) != 2 {
		t.Errorf("highlights before submit = %v", hs)
	}

	d := q.Submit()
	if !d.RoundOver || d.Points != 5 || q.Score() != 5 {
		t.Errorf("submit = %+v score=%d", d, q.Score())
	}
	if !q.Revealed() || !slices.Equal(q.Last().Missed, []string{"B"}) {
		t.Errorf("last = %+v", q.Last())
	}

	hs = q.Highlights()
	want := globe.HighlightSet{"A": globe.TierQuizCorrect, "B": globe.TierQuizCorrect, "C": globe.TierQuizSelected}
	for id, tier := range want {
		if hs[id] != tier {
			t.Errorf("%s tier = %v, want %v", id, hs[id], tier)
		}
	}

	if d := q.Submit(); d != (ScoreDelta{}) || q.Score() != 5 {
		t.Error("second submit should not score again")
	}

	// A click after the reveal opens the next question.
	q.SelectFeature(country("B", 0))
	if q.Round() != 2 || q.Revealed() || !slices.Equal(q.Selected(), []string{"B"}) {
		t.Errorf("round=%d revealed=%v selected=%v", q.Round(), q.Revealed(), q.Selected())
	}
}

func TestQuiz_Streak(t *testing.T) {
	q := NewQuiz(testRand(), []Question{{ID: 1, Answers: []string{"A"}}})
	q.Start()
	for i := 1; i <= 2; i++ {
		q.SelectFeature(country("A", 0))
		q.Submit()
		if q.Streak() != i {
			t.Fatalf("streak = %d, want %d", q.Streak(), i)
		}
		q.Next()
	}
	q.SelectFeature(country("Z", 0))
	q.Submit()
	if q.Streak() != 0 {
		t.Errorf("wrong answer should reset the streak, got %d", q.Streak())
	}
}

func TestQuiz_DifficultyFilter(t *testing.T) {
	q := NewQuiz(testRand(), nil)
	q.SetDifficulty(Hard)
	q.Start()
	for i := 0; i < 10; i++ {
		if q.Question().Difficulty != Hard {
			t.Fatalf("question %d has difficulty %v", q.Question().ID, q.Question().Difficulty)
		}
		q.Next()
	}
}

func TestQuiz_InactiveIgnoresClicks(t *testing.T) {
	q := NewQuiz(testRand(), nil)
	if d := q.SelectFeature(country("A", 0)); d != (ScoreDelta{}) {
		t.Error("inactive quiz should ignore clicks")
	}
	q.Start()
	q.Quit()
	if q.Active() || q.Question() != nil || len(q.Highlights()) != 0 {
		t.Error("Quit should clear the quiz")
	}
}

func TestDefaultQuestions(t *testing.T) {
	seen := map[int]bool{}
	for _, q := range DefaultQuestions {
		if seen[q.ID] {
			t.Errorf("duplicate id %d", q.ID)
		}
		seen[q.ID] = true
		if q.Text == "" || len(q.Answers) == 0 {
			t.Errorf("question %d is incomplete", q.ID)
		}
		for _, a := range q.Answers {
			if len(a) != 3 {
				t.Errorf("question %d: answer %q is not an alpha-3 code", q.ID, a)
			}
		}
	}
}
