package bank

import (
	"encoding/json"
	"testing"
)

func TestAnswerCodec(t *testing.T) {
	cases := []struct {
		in   string
		want Answer
	}{
		{"2", Answer{Index: 2, IsIndex: true}},
		{"0", Answer{Index: 0, IsIndex: true}},
		{`"Tố Hữu"`, Answer{Text: "Tố Hữu"}},
		{`""`, Answer{}},
		{"null", Answer{}},
	}
	for _, tc := range cases {
		var got Answer
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Errorf("%s: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.in, got, tc.want)
		}
	}

	if _, err := json.Marshal(IndexAnswer(3)); err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(IndexAnswer(3))
	if string(b) != "3" {
		t.Errorf("index marshals as %s", b)
	}
	b, _ = json.Marshal(TextAnswer("Hà Nội"))
	if string(b) != `"Hà Nội"` {
		t.Errorf("text marshals as %s", b)
	}

	var bad Answer
	if err := json.Unmarshal([]byte("true"), &bad); err == nil {
		t.Error("bool should not decode as answer")
	}
}

func TestAnswerEmpty(t *testing.T) {
	var nilAns *Answer
	if !nilAns.Empty() {
		t.Error("nil answer should be empty")
	}
	if !TextAnswer("").Empty() {
		t.Error("blank text should be empty")
	}
	if IndexAnswer(0).Empty() {
		t.Error("index 0 is a real selection")
	}
	if TextAnswer("x").Empty() {
		t.Error("text should not be empty")
	}
}

func TestSnapshotQuestionsDeepCopy(t *testing.T) {
	src := []*BankQuestion{
		{ID: "q1", Type: TypeChoice, Text: "A?", Options: []string{"x", "y"}, Correct: IndexAnswer(1), Points: 2},
		nil,
		{ID: "q2", Type: TypeEssay, Text: "Viết đoạn văn."},
	}
	snap := SnapshotQuestions(src)
	if len(snap) != 2 {
		t.Fatalf("len %d", len(snap))
	}

	snap[0].Options[0] = "mutated"
	snap[0].Correct.Index = 99
	if src[0].Options[0] != "x" || src[0].Correct.Index != 1 {
		t.Error("snapshot shares memory with the bank")
	}
	if snap[1].Correct != nil {
		t.Error("essay has no key")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		q    BankQuestion
		ok   bool
	}{
		{"choice ok", BankQuestion{Type: TypeChoice, Text: "?", Options: []string{"a", "b"}, Correct: IndexAnswer(1)}, true},
		{"choice one option", BankQuestion{Type: TypeChoice, Text: "?", Options: []string{"a"}, Correct: IndexAnswer(0)}, false},
		{"choice index out of range", BankQuestion{Type: TypeChoice, Text: "?", Options: []string{"a", "b"}, Correct: IndexAnswer(2)}, false},
		{"choice text answer", BankQuestion{Type: TypeChoice, Text: "?", Options: []string{"a", "b"}, Correct: TextAnswer("a")}, false},
		{"fill ok", BankQuestion{Type: TypeFill, Text: "?", Correct: TextAnswer("đáp án")}, true},
		{"fill with options", BankQuestion{Type: TypeFill, Text: "?", Options: []string{"a"}, Correct: TextAnswer("x")}, false},
		{"fill blank key", BankQuestion{Type: TypeFill, Text: "?", Correct: TextAnswer("  ")}, false},
		{"essay ok", BankQuestion{Type: TypeEssay, Text: "Viết."}, true},
		{"no text", BankQuestion{Type: TypeEssay, Text: "  "}, false},
		{"unknown type", BankQuestion{Type: "matching", Text: "?"}, false},
	}
	for _, tc := range cases {
		err := tc.q.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
