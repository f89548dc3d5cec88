package scoring

import (
	"reflect"
	"testing"

	"github.com/litclass/litclass-lms/internal/bank"
)

func choiceQ(correct int, points float64) *Q {
	return &Q{Type: bank.TypeChoice, Points: points, Correct: bank.IndexAnswer(correct)}
}

func textQ(t bank.QuestionType, key string, points float64) *Q {
	return &Q{Type: t, Points: points, Correct: bank.TextAnswer(key)}
}

func TestChoiceStrictIndexEquality(t *testing.T) {
	qs := []*Q{choiceQ(2, 0)}

	for idx, want := range map[int]int{2: 1, 0: 0, 1: 0, 3: 0} {
		res := Score(qs, []*bank.Answer{bank.IndexAnswer(idx)})
		if res.CorrectCount != want {
			t.Errorf("answer %d: correct=%d, want %d", idx, res.CorrectCount, want)
		}
	}

	// A text answer to a choice question never matches.
	res := Score(qs, []*bank.Answer{bank.TextAnswer("2")})
	if res.CorrectCount != 0 {
		t.Errorf("text answer graded as correct")
	}
}

func TestTextMatchCaseAndWhitespaceInsensitive(t *testing.T) {
	tests := []struct {
		key, answer string
		want        bool
	}{
		{"hà nội", " Hà Nội ", true},
		{"Hà Nội", "hà nội", true},
		{"Hà Nội", "Ha Noi", false}, // no diacritic folding
		{"đáp án", "đáp án", true},
		{"x", "", false},
	}
	for _, tc := range tests {
		res := Score([]*Q{textQ(bank.TypeFill, tc.key, 0)}, []*bank.Answer{bank.TextAnswer(tc.answer)})
		if got := res.CorrectCount == 1; got != tc.want {
			t.Errorf("key %q answer %q: correct=%v, want %v", tc.key, tc.answer, got, tc.want)
		}
	}
}

func TestEmptyAnswerNeverMatchesEmptyKey(t *testing.T) {
	res := Score([]*Q{textQ(bank.TypeShort, "   ", 0)}, []*bank.Answer{bank.TextAnswer("  ")})
	if res.CorrectCount != 0 || res.EarnedPoints != 0 {
		t.Errorf("empty answer matched empty key: %+v", res)
	}
}

func TestEssayCountsPointsButStaysPending(t *testing.T) {
	qs := []*Q{
		choiceQ(0, 2),
		{Type: bank.TypeEssay, Points: 3},
	}
	ans := []*bank.Answer{bank.IndexAnswer(0), bank.TextAnswer("my essay")}

	res := Score(qs, ans)
	if res.CorrectCount != 1 {
		t.Errorf("correct=%d, want 1", res.CorrectCount)
	}
	if res.EarnedPoints != 2 {
		t.Errorf("earned=%v, want 2", res.EarnedPoints)
	}
	if res.TotalPoints != 5 {
		t.Errorf("total=%v, want 5", res.TotalPoints)
	}
	if res.PendingEssayCount != 1 {
		t.Errorf("pending=%d, want 1", res.PendingEssayCount)
	}
}

func TestNilQuestionsSkippedNotWrong(t *testing.T) {
	qs := []*Q{choiceQ(1, 0), nil, choiceQ(0, 0)}
	ans := []*bank.Answer{bank.IndexAnswer(1), nil, bank.IndexAnswer(0)}

	res := Score(qs, ans)
	want := Result{CorrectCount: 2, EarnedPoints: 2, TotalPoints: 2}
	if res != want {
		t.Errorf("got %+v, want %+v", res, want)
	}
}

func TestDefaultPointIsOne(t *testing.T) {
	res := Score([]*Q{choiceQ(0, 0)}, []*bank.Answer{bank.IndexAnswer(0)})
	if res.EarnedPoints != 1 || res.TotalPoints != 1 {
		t.Errorf("got %+v, want 1/1", res)
	}
}

func TestScoreIsIdempotentAndNonMutating(t *testing.T) {
	qs := []*Q{choiceQ(1, 2), textQ(bank.TypeShort, "ngữ văn", 1), {Type: bank.TypeEssay}}
	ans := []*bank.Answer{bank.IndexAnswer(1), bank.TextAnswer(" Ngữ Văn "), bank.TextAnswer("bài luận")}

	qsCopy := make([]*Q, len(qs))
	for i, q := range qs {
		c := *q
		qsCopy[i] = &c
	}

	first := Score(qs, ans)
	second := Score(qs, ans)
	if first != second {
		t.Errorf("not idempotent: %+v vs %+v", first, second)
	}
	for i := range qs {
		if !reflect.DeepEqual(*qs[i], *qsCopy[i]) {
			t.Errorf("question %d mutated", i)
		}
	}
}

func TestExamModeShowsPendingReviewNotVerdict(t *testing.T) {
	// One choice question worth 2 answered correctly, one essay worth 3
	// answered with text.
	qs := []*Q{choiceQ(0, 2), {Type: bank.TypeEssay, Points: 3}}
	ans := []*bank.Answer{bank.IndexAnswer(0), bank.TextAnswer("đoạn văn")}

	out := Judge(Score(qs, ans), 0)
	if !out.PendingReview {
		t.Fatal("exam mode must report pending review")
	}
	if out.Passed {
		t.Error("exam mode must not emit a pass verdict")
	}
	if out.EarnedPoints != 2 || out.PendingEssayCount != 1 {
		t.Errorf("got earned=%v pending=%d, want 2/1", out.EarnedPoints, out.PendingEssayCount)
	}
}

func TestJudgeAbsoluteThreshold(t *testing.T) {
	res := Result{EarnedPoints: 8}
	if !Judge(res, 8).Passed {
		t.Error("8 points at threshold 8 should pass")
	}
	if Judge(Result{EarnedPoints: 7.5}, 8).Passed {
		t.Error("7.5 points at threshold 8 should fail")
	}
}

func TestMissingAnswersGradeAsEmpty(t *testing.T) {
	qs := []*Q{choiceQ(0, 0), textQ(bank.TypeFill, "a", 0)}
	res := Score(qs, nil)
	if res.CorrectCount != 0 || res.TotalPoints != 2 {
		t.Errorf("got %+v", res)
	}
}
