package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/litclass/litclass-lms/internal/bank"
)

type State string

const (
	StateIntro        State = "intro"
	StatePlaying      State = "playing"
	StateLevelSuccess State = "level-success"
	StateLevelFail    State = "level-fail"
	StateComplete     State = "game-complete"
)

// ErrEmptyBank means no playable question exists; the level cannot start.
var ErrEmptyBank = errors.New("question bank has no playable questions")

// BankFunc fetches the question bank to sample from.
type BankFunc func(ctx context.Context) ([]*bank.BankQuestion, error)

// SubmitFunc persists a finished play-through. It is called exactly once,
// on completing the final level; partial runs are never submitted.
type SubmitFunc func(ctx context.Context, gameID string, score float64, completed bool) error

// Feedback is what the UI shows right after an answer is locked in.
type Feedback struct {
	Selected     int
	CorrectIndex int
	Correct      bool
	PointsAdded  float64
}

// Engine drives one play-through of a quiz game.
type Engine struct {
	game   *Game
	cfg    Config
	fetch  BankFunc
	submit SubmitFunc
	rng    *rand.Rand

	state      State
	level      int
	totalScore float64

	questions []*bank.BankQuestion
	qIndex    int
	correct   int

	answered bool
	feedback Feedback
}

type EngineOption func(*Engine)

// WithRand injects the randomness source, mainly for tests. The default is
// an unseeded-equivalent per-engine source; reproducibility is not a goal.
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

func NewEngine(g *Game, fetch BankFunc, submit SubmitFunc, opts ...EngineOption) *Engine {
	e := &Engine{
		game:   g,
		cfg:    g.QuizConfig.withDefaults(),
		fetch:  fetch,
		submit: submit,
		state:  StateIntro,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

func (e *Engine) State() State        { return e.state }
func (e *Engine) Level() int          { return e.level }
func (e *Engine) TotalLevels() int    { return e.cfg.LevelCount }
func (e *Engine) TotalScore() float64 { return e.totalScore }
func (e *Engine) CorrectInLevel() int { return e.correct }
func (e *Engine) Config() Config      { return e.cfg }

// Game returns the game being played.
func (e *Engine) Game() *Game { return e.game }

// LevelQuestions exposes the current draw (read-only use expected).
func (e *Engine) LevelQuestions() []*bank.BankQuestion { return e.questions }

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion() (*bank.BankQuestion, int, bool) {
	if e.state != StatePlaying || e.qIndex >= len(e.questions) {
		return nil, 0, false
	}
	return e.questions[e.qIndex], e.qIndex, true
}

// PassThreshold is the strict-majority bar for the current draw:
// ceil(n/2) correct answers.
func (e *Engine) PassThreshold() int { return (len(e.questions) + 1) / 2 }

// Start begins level 1 from the intro screen.
func (e *Engine) Start(ctx context.Context) error {
	if e.state != StateIntro {
		return fmt.Errorf("cannot start from state %s", e.state)
	}
	return e.startLevel(ctx, 1)
}

// startLevel draws a fresh question set. On failure the engine returns to
// intro so the player can exit cleanly.
func (e *Engine) startLevel(ctx context.Context, level int) error {
	qs, err := e.fetch(ctx)
	if err != nil {
		e.state = StateIntro
		return err
	}
	draw := Sample(e.rng, qs, e.cfg.QuestionsPerLevel)
	if len(draw) == 0 {
		e.state = StateIntro
		return ErrEmptyBank
	}
	e.questions = draw
	e.level = level
	e.qIndex = 0
	e.correct = 0
	e.answered = false
	e.feedback = Feedback{}
	e.state = StatePlaying
	return nil
}

// Answer locks in an option for the current question. The first call
// scores and returns feedback; repeated calls are no-ops returning the
// original feedback.
func (e *Engine) Answer(option int) (Feedback, error) {
	if e.state != StatePlaying {
		return Feedback{}, fmt.Errorf("not playing (state %s)", e.state)
	}
	if e.answered {
		return e.feedback, nil
	}
	q := e.questions[e.qIndex]
	if option < 0 || option >= len(q.Options) {
		return Feedback{}, fmt.Errorf("option %d out of range", option)
	}

	correctIdx := -1
	if q.Correct != nil && q.Correct.IsIndex {
		correctIdx = q.Correct.Index
	}
	fb := Feedback{Selected: option, CorrectIndex: correctIdx, Correct: option == correctIdx}
	if fb.Correct {
		e.correct++
		fb.PointsAdded = q.PointsOrDefault()
		e.totalScore += fb.PointsAdded
	}
	e.answered = true
	e.feedback = fb
	return fb, nil
}

// Next moves to the following question, or closes out the level after the
// last one. Closing the final level of the game submits the score.
func (e *Engine) Next(ctx context.Context) error {
	if e.state != StatePlaying {
		return fmt.Errorf("not playing (state %s)", e.state)
	}
	if !e.answered {
		return errors.New("answer the current question first")
	}
	if e.qIndex < len(e.questions)-1 {
		e.qIndex++
		e.answered = false
		e.feedback = Feedback{}
		return nil
	}
	return e.finishLevel(ctx)
}

func (e *Engine) finishLevel(ctx context.Context) error {
	if e.correct < e.PassThreshold() {
		e.state = StateLevelFail
		return nil
	}
	e.totalScore += float64(e.cfg.PointsPerLevel)
	if e.level >= e.cfg.LevelCount {
		e.state = StateComplete
		if e.submit != nil {
			if err := e.submit(ctx, e.game.ID, e.totalScore, true); err != nil {
				return fmt.Errorf("save game result: %w", err)
			}
		}
		return nil
	}
	e.state = StateLevelSuccess
	return nil
}

// Continue advances past a level verdict: next level after a success, a
// fresh draw of the same level after a fail.
func (e *Engine) Continue(ctx context.Context) error {
	switch e.state {
	case StateLevelSuccess:
		return e.startLevel(ctx, e.level+1)
	case StateLevelFail:
		return e.startLevel(ctx, e.level)
	default:
		return fmt.Errorf("nothing to continue from state %s", e.state)
	}
}

// Exit abandons the play-through. Nothing is persisted.
func (e *Engine) Exit() {
	e.state = StateIntro
	e.level = 0
	e.totalScore = 0
	e.questions = nil
	e.qIndex = 0
	e.correct = 0
	e.answered = false
	e.feedback = Feedback{}
}
