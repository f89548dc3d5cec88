// Package game implements the leveled arcade quiz: random draws from the
// question bank, one level at a time, majority-correct to advance.
package game

// Difficulty is the teacher-assigned label shown on the game card.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type Kind string

const (
	// KindExternal links out to a third-party game URL.
	KindExternal Kind = "external"
	// KindQuiz is the built-in arcade quiz over the question bank.
	KindQuiz Kind = "quiz"
)

// Config shapes one quiz game.
type Config struct {
	LevelCount        int `json:"levelCount"`
	QuestionsPerLevel int `json:"questionsPerLevel"`
	PointsPerLevel    int `json:"pointsPerLevel"`
	TimePerLevel      int `json:"timePerLevel,omitempty"` // seconds
}

// Defaults used when the teacher saved a game without a config.
const (
	DefaultLevelCount        = 3
	DefaultQuestionsPerLevel = 5
	DefaultPointsPerLevel    = 10
)

func (c *Config) withDefaults() Config {
	out := Config{
		LevelCount:        DefaultLevelCount,
		QuestionsPerLevel: DefaultQuestionsPerLevel,
		PointsPerLevel:    DefaultPointsPerLevel,
	}
	if c == nil {
		return out
	}
	if c.LevelCount > 0 {
		out.LevelCount = c.LevelCount
	}
	if c.QuestionsPerLevel > 0 {
		out.QuestionsPerLevel = c.QuestionsPerLevel
	}
	if c.PointsPerLevel > 0 {
		out.PointsPerLevel = c.PointsPerLevel
	}
	out.TimePerLevel = c.TimePerLevel
	return out
}

type Game struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Level       Difficulty `json:"level"`
	Type        Kind       `json:"type"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	GameURL     string     `json:"gameUrl,omitempty"`
	QuizConfig  *Config    `json:"quizConfig,omitempty"`
	IsActive    bool       `json:"isActive"`
}
