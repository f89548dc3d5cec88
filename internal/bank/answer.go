package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is the tagged variant behind the backend's mixed answer columns:
// a zero-based option index for choice questions, free text for everything
// else. The spreadsheet gateway sends whichever JSON type it stored, so the
// codec accepts numbers, strings and null.
type Answer struct {
	Index   int
	Text    string
	IsIndex bool
}

// IndexAnswer tags a choice-option index.
func IndexAnswer(i int) *Answer { return &Answer{Index: i, IsIndex: true} }

// TextAnswer tags free text.
func TextAnswer(s string) *Answer { return &Answer{Text: s} }

// Empty reports whether the answer carries nothing gradeable.
func (a *Answer) Empty() bool {
	if a == nil {
		return true
	}
	return !a.IsIndex && a.Text == ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.IsIndex {
		return []byte(strconv.Itoa(a.Index)), nil
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Answer{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Answer{Text: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("answer: expected number or string: %w", err)
	}
	*a = Answer{Index: int(f), IsIndex: true}
	return nil
}
