package lms

import (
	"context"
	"math/rand"
	"time"

	"github.com/litclass/litclass-lms/internal/bank"
	"github.com/litclass/litclass-lms/internal/game"
)

// gameWire is the backend row for a game: the quiz config travels in a
// quizConfigJson column. Older rows may still carry quizConfig directly,
// so reads accept both.
type gameWire struct {
	game.Game
	QuizConfigJSON *game.Config `json:"quizConfigJson,omitempty"`
}

// Games lists games, resolving the config column.
func (s *Service) Games(ctx context.Context) ([]*game.Game, error) {
	var raw []*gameWire
	if err := s.gw.CallInto(ctx, "games.list", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]*game.Game, 0, len(raw))
	for _, w := range raw {
		if w == nil {
			continue
		}
		g := w.Game
		if w.QuizConfigJSON != nil {
			g.QuizConfig = w.QuizConfigJSON
		}
		out = append(out, &g)
	}
	return out, nil
}

// SaveGame moves the config into the column field and routes add/update.
func (s *Service) SaveGame(ctx context.Context, g *game.Game) error {
	w := gameWire{Game: *g, QuizConfigJSON: g.QuizConfig}
	w.Game.QuizConfig = nil
	action := "games.update"
	if isNew(g.ID) {
		action = "games.add"
	}
	_, err := s.gw.Call(ctx, action, &w)
	return err
}

func (s *Service) DeleteGame(ctx context.Context, id string) error {
	_, err := s.gw.Call(ctx, "games.remove", idPayload{ID: id})
	return err
}

type gameResultPayload struct {
	StudentID   string  `json:"studentId"`
	GameID      string  `json:"gameId"`
	Score       float64 `json:"score"`
	IsCompleted bool    `json:"isCompleted"`
}

// SaveGameResult records a finished play-through for the current student.
// The backend accumulates totalScore and awards the game badge.
func (s *Service) SaveGameResult(ctx context.Context, gameID string, score float64, completed bool) error {
	u, err := s.CurrentUser()
	if err != nil {
		return err
	}
	_, err = s.gw.Call(ctx, "games.saveResult", gameResultPayload{
		StudentID:   u.ID,
		GameID:      gameID,
		Score:       score,
		IsCompleted: completed,
	})
	return err
}

// RandomQuestions draws n playable questions from the whole bank, the
// same sampling the arcade engine does per level.
func (s *Service) RandomQuestions(ctx context.Context, n int) ([]*bank.BankQuestion, error) {
	qs, err := s.Questions(ctx, BankAll)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return game.Sample(rng, qs, n), nil
}

// NewGameEngine wires a game to this service's question bank and result
// sink, ready to play.
func (s *Service) NewGameEngine(g *game.Game) *game.Engine {
	return game.NewEngine(g,
		func(ctx context.Context) ([]*bank.BankQuestion, error) { return s.Questions(ctx, BankAll) },
		s.SaveGameResult,
	)
}
