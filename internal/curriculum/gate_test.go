package curriculum

import (
	"testing"
	"time"
)

func lessonsFixture() []*Lesson {
	return []*Lesson{
		{ID: "lesson-1", Order: 1, IsPublished: true},
		{ID: "lesson-2", Order: 2, IsPublished: true},
		{ID: "lesson-3", Order: 3, IsPublished: true},
	}
}

func TestSequenceGate(t *testing.T) {
	lessons := lessonsFixture()
	gate := NewGate(nil)
	progress := ProgressMap{
		"lesson-1": {LessonID: "lesson-1", Score: 9, Passed: true},
	}

	if !gate.IsUnlocked(lessons[0], lessons, progress) {
		t.Error("lesson 1 must always be unlocked")
	}
	if !gate.IsUnlocked(lessons[1], lessons, progress) {
		t.Error("lesson 2 should unlock once lesson 1 passed")
	}
	if gate.IsUnlocked(lessons[2], lessons, progress) {
		t.Error("lesson 3 should stay locked while lesson 2 unattempted")
	}
}

func TestSequenceGateToleratesOrderGaps(t *testing.T) {
	lessons := []*Lesson{
		{ID: "a", Order: 1, IsPublished: true},
		{ID: "b", Order: 5, IsPublished: true},
		{ID: "c", Order: 9, IsPublished: true},
	}
	gate := NewGate(nil)
	progress := ProgressMap{"a": {LessonID: "a", Passed: true}}

	if !gate.IsUnlocked(lessons[1], lessons, progress) {
		t.Error("order 5 should unlock from its sequence predecessor, not order arithmetic")
	}
	if gate.IsUnlocked(lessons[2], lessons, progress) {
		t.Error("order 9 should stay locked")
	}
}

func TestFirstPublishedLessonUnlockedEvenWithoutOrderOne(t *testing.T) {
	lessons := []*Lesson{
		{ID: "b", Order: 2, IsPublished: true},
		{ID: "c", Order: 3, IsPublished: true},
	}
	gate := NewGate(nil)
	if !gate.IsUnlocked(lessons[0], lessons, ProgressMap{}) {
		t.Error("first lesson of the published sequence should be open")
	}
}

func TestMonthGate(t *testing.T) {
	lessons := []*Lesson{{ID: "x", Order: 1, MonthUnlock: 11, IsPublished: true}}
	gate := NewGate(MonthGate)
	gate.Now = func() time.Time { return time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC) }

	if gate.IsUnlocked(lessons[0], lessons, ProgressMap{}) {
		t.Error("November lesson should be month-locked in September")
	}

	gate.Now = func() time.Time { return time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC) }
	if !gate.IsUnlocked(lessons[0], lessons, ProgressMap{}) {
		t.Error("November lesson should open in November")
	}
}

func TestDefaultGateIgnoresMonth(t *testing.T) {
	lessons := []*Lesson{{ID: "x", Order: 1, MonthUnlock: 12, IsPublished: true}}
	if !NewGate(nil).IsUnlocked(lessons[0], lessons, ProgressMap{}) {
		t.Error("default time gate must be a no-op")
	}
}

func TestStatusOf(t *testing.T) {
	lessons := lessonsFixture()
	gate := NewGate(nil)
	progress := ProgressMap{"lesson-1": {LessonID: "lesson-1", Passed: true}}

	if got := gate.StatusOf(lessons[0], lessons, progress); got != StatusCompleted {
		t.Errorf("lesson 1 status=%s, want completed", got)
	}
	if got := gate.StatusOf(lessons[1], lessons, progress); got != StatusUnlocked {
		t.Errorf("lesson 2 status=%s, want unlocked", got)
	}
	if got := gate.StatusOf(lessons[2], lessons, progress); got != StatusLocked {
		t.Errorf("lesson 3 status=%s, want locked", got)
	}
}

func TestPublishedFiltersAndSorts(t *testing.T) {
	lessons := []*Lesson{
		{ID: "c", Order: 3, IsPublished: true},
		{ID: "draft", Order: 2, IsPublished: false},
		{ID: "a", Order: 1, IsPublished: true},
		nil,
	}
	pub := Published(lessons)
	if len(pub) != 2 || pub[0].ID != "a" || pub[1].ID != "c" {
		t.Errorf("unexpected published set: %#v", pub)
	}
}

func TestIntBoolDecoding(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "0": false, "true": true, `"1"`: true, "null": false, "2": false} {
		var b IntBool
		if err := b.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if bool(b) != want {
			t.Errorf("decode %q = %v, want %v", raw, b, want)
		}
	}
}
