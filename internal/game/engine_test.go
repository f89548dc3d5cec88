package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/litclass/litclass-lms/internal/bank"
)

func choiceBank(n int) []*bank.BankQuestion {
	qs := make([]*bank.BankQuestion, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, &bank.BankQuestion{
			ID:      fmt.Sprintf("q%d", i),
			Type:    bank.TypeChoice,
			Text:    fmt.Sprintf("Câu hỏi %d", i),
			Options: []string{"A", "B", "C", "D"},
			Correct: bank.IndexAnswer(0),
		})
	}
	return qs
}

func fixedBank(qs []*bank.BankQuestion) BankFunc {
	return func(context.Context) ([]*bank.BankQuestion, error) { return qs, nil }
}

type submitRecorder struct {
	calls int
	score float64
	done  bool
}

func (r *submitRecorder) fn(_ context.Context, _ string, score float64, completed bool) error {
	r.calls++
	r.score = score
	r.done = completed
	return nil
}

func newTestEngine(t *testing.T, qs []*bank.BankQuestion, cfg *Config, rec *submitRecorder) *Engine {
	t.Helper()
	g := &Game{ID: "g1", Title: "Vua tiếng Việt", Type: KindQuiz, QuizConfig: cfg, IsActive: true}
	return NewEngine(g, fixedBank(qs), rec.fn, WithRand(rand.New(rand.NewSource(1))))
}

// playLevel answers every question in the current draw, getting exactly
// correct of them right, then closes the level.
func playLevel(t *testing.T, e *Engine, correct int) {
	t.Helper()
	n := len(e.LevelQuestions())
	for i := 0; i < n; i++ {
		q, _, ok := e.CurrentQuestion()
		if !ok {
			t.Fatalf("no current question at %d", i)
		}
		pick := q.Correct.Index
		if i >= correct {
			pick = (q.Correct.Index + 1) % len(q.Options)
		}
		if _, err := e.Answer(pick); err != nil {
			t.Fatal(err)
		}
		if err := e.Next(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSampleFiltersAndDrawsWithoutReplacement(t *testing.T) {
	qs := choiceBank(10)
	qs = append(qs,
		nil,
		&bank.BankQuestion{ID: "fill", Type: bank.TypeFill, Text: "điền từ", Correct: bank.TextAnswer("x")},
		&bank.BankQuestion{ID: "one-opt", Type: bank.TypeChoice, Text: "hỏng", Options: []string{"A"}},
	)
	rng := rand.New(rand.NewSource(7))
	draw := Sample(rng, qs, 5)
	if len(draw) != 5 {
		t.Fatalf("draw %d, want 5", len(draw))
	}
	seen := map[string]bool{}
	for _, q := range draw {
		if q.Type != bank.TypeChoice || len(q.Options) < 2 {
			t.Errorf("unplayable question drawn: %+v", q)
		}
		if seen[q.ID] {
			t.Errorf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleRandomizesAcrossDraws(t *testing.T) {
	qs := choiceBank(20)
	rng := rand.New(rand.NewSource(42))
	first := Sample(rng, qs, 20)
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := Sample(rng, qs, 20)
		for j := range next {
			if next[j].ID != first[j].ID {
				different = true
				break
			}
		}
	}
	if !different {
		t.Error("expected draws to vary across calls")
	}
}

func TestEmptyBankFailsLevelStart(t *testing.T) {
	rec := &submitRecorder{}
	e := newTestEngine(t, nil, nil, rec)
	if err := e.Start(context.Background()); err != ErrEmptyBank {
		t.Fatalf("err %v, want ErrEmptyBank", err)
	}
	if e.State() != StateIntro {
		t.Errorf("state %s, want intro", e.State())
	}
}

func TestAnswerLockIsIdempotent(t *testing.T) {
	rec := &submitRecorder{}
	e := newTestEngine(t, choiceBank(10), nil, rec)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	q, _, _ := e.CurrentQuestion()
	wrong := (q.Correct.Index + 1) % len(q.Options)

	fb1, err := e.Answer(wrong)
	if err != nil {
		t.Fatal(err)
	}
	if fb1.Correct || fb1.CorrectIndex != q.Correct.Index || fb1.Selected != wrong {
		t.Errorf("feedback %+v", fb1)
	}
	// A second click, even on the right option, must be a no-op.
	fb2, err := e.Answer(q.Correct.Index)
	if err != nil {
		t.Fatal(err)
	}
	if fb2 != fb1 {
		t.Errorf("lock broken: %+v vs %+v", fb2, fb1)
	}
	if e.TotalScore() != 0 {
		t.Errorf("score %v after wrong answer", e.TotalScore())
	}
}

func TestLevelPassBoundary(t *testing.T) {
	// 5 questions per level: 2 correct fails, 3 passes.
	for correct, wantState := range map[int]State{2: StateLevelFail, 3: StateLevelSuccess} {
		rec := &submitRecorder{}
		e := newTestEngine(t, choiceBank(10), &Config{LevelCount: 2, QuestionsPerLevel: 5, PointsPerLevel: 10}, rec)
		if err := e.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		if e.PassThreshold() != 3 {
			t.Fatalf("threshold %d, want 3", e.PassThreshold())
		}
		playLevel(t, e, correct)
		if e.State() != wantState {
			t.Errorf("%d correct: state %s, want %s", correct, e.State(), wantState)
		}
	}
}

func TestScoreAccumulationAndSingleSubmit(t *testing.T) {
	rec := &submitRecorder{}
	cfg := &Config{LevelCount: 2, QuestionsPerLevel: 3, PointsPerLevel: 10}
	e := newTestEngine(t, choiceBank(8), cfg, rec)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Level 1: all 3 correct -> 3 question points + 10 bonus.
	playLevel(t, e, 3)
	if e.State() != StateLevelSuccess {
		t.Fatalf("state %s", e.State())
	}
	if e.TotalScore() != 13 {
		t.Errorf("score %v, want 13", e.TotalScore())
	}
	if rec.calls != 0 {
		t.Error("submitted before final level")
	}

	if err := e.Continue(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Level() != 2 {
		t.Errorf("level %d", e.Level())
	}

	// Level 2: 2 of 3 correct (threshold 2) -> +2 points + 10 bonus.
	playLevel(t, e, 2)
	if e.State() != StateComplete {
		t.Fatalf("state %s, want complete", e.State())
	}
	if e.TotalScore() != 25 {
		t.Errorf("score %v, want 25", e.TotalScore())
	}
	if rec.calls != 1 || rec.score != 25 || !rec.done {
		t.Errorf("submit %+v", rec)
	}
}

func TestFailedLevelRetriesWithFreshDraw(t *testing.T) {
	rec := &submitRecorder{}
	e := newTestEngine(t, choiceBank(30), &Config{LevelCount: 1, QuestionsPerLevel: 10, PointsPerLevel: 5}, rec)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	firstDraw := ids(e.LevelQuestions())

	playLevel(t, e, 0)
	if e.State() != StateLevelFail {
		t.Fatalf("state %s", e.State())
	}

	if err := e.Continue(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Level() != 1 {
		t.Errorf("retry level %d, want 1", e.Level())
	}
	if e.CorrectInLevel() != 0 {
		t.Errorf("correct count not reset")
	}
	if same(firstDraw, ids(e.LevelQuestions())) {
		t.Error("retry reused the identical draw; expected a re-sample")
	}
	if rec.calls != 0 {
		t.Error("failed run must not be submitted")
	}
}

func TestExitAbandonsRun(t *testing.T) {
	rec := &submitRecorder{}
	e := newTestEngine(t, choiceBank(10), nil, rec)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	q, _, _ := e.CurrentQuestion()
	if _, err := e.Answer(q.Correct.Index); err != nil {
		t.Fatal(err)
	}
	e.Exit()
	if e.State() != StateIntro || e.TotalScore() != 0 {
		t.Errorf("state %s score %v after exit", e.State(), e.TotalScore())
	}
	if rec.calls != 0 {
		t.Error("exit must not persist anything")
	}
}

func TestConfigDefaults(t *testing.T) {
	rec := &submitRecorder{}
	e := newTestEngine(t, choiceBank(10), nil, rec)
	cfg := e.Config()
	if cfg.LevelCount != DefaultLevelCount || cfg.QuestionsPerLevel != DefaultQuestionsPerLevel || cfg.PointsPerLevel != DefaultPointsPerLevel {
		t.Errorf("defaults %+v", cfg)
	}
}

func ids(qs []*bank.BankQuestion) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func same(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
