package curriculum

import "time"

// PassingScore is the fixed lesson-quiz threshold (out of 10). Lesson n+1
// unlocks only after lesson n scores at least this.
const PassingScore = 8

// TimeGate decides whether a lesson's month has arrived. It is pluggable
// because deployments differ on whether month gating is on at all.
type TimeGate func(monthUnlock int, now time.Time) bool

// AlwaysUnlocked is the default gate: month gating off.
func AlwaysUnlocked(int, time.Time) bool { return true }

// MonthGate enforces monthUnlock against the calendar month.
func MonthGate(monthUnlock int, now time.Time) bool {
	if monthUnlock < 1 || monthUnlock > 12 {
		return true
	}
	return int(now.Month()) >= monthUnlock
}

type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

// Gate evaluates lesson availability for one student.
type Gate struct {
	Time TimeGate
	Now  func() time.Time
}

func NewGate(tg TimeGate) *Gate {
	if tg == nil {
		tg = AlwaysUnlocked
	}
	return &Gate{Time: tg, Now: time.Now}
}

// IsUnlocked reports whether the student may enter the lesson. published
// must contain only published lessons; it is re-sorted by order here so
// callers can pass it unsorted. The sequence gate looks at the immediate
// predecessor in the sorted sequence, not at order-1 arithmetic, so gaps
// in order values are tolerated.
func (g *Gate) IsUnlocked(lesson *Lesson, published []*Lesson, progress ProgressMap) bool {
	if lesson == nil {
		return false
	}
	if !g.Time(lesson.MonthUnlock, g.Now()) {
		return false
	}
	if lesson.Order == 1 {
		return true
	}
	prev := previousLesson(lesson, published)
	if prev == nil {
		// First in the published sequence unlocks unconditionally.
		return true
	}
	return progress[prev.ID].Passed
}

// StatusOf folds unlock state and completion into the display status.
func (g *Gate) StatusOf(lesson *Lesson, published []*Lesson, progress ProgressMap) Status {
	if lesson != nil && progress[lesson.ID].Passed {
		return StatusCompleted
	}
	if g.IsUnlocked(lesson, published, progress) {
		return StatusUnlocked
	}
	return StatusLocked
}

func previousLesson(lesson *Lesson, published []*Lesson) *Lesson {
	ordered := make([]*Lesson, len(published))
	copy(ordered, published)
	SortByOrder(ordered)
	for i, l := range ordered {
		if l.ID == lesson.ID {
			if i == 0 {
				return nil
			}
			return ordered[i-1]
		}
	}
	return nil
}
