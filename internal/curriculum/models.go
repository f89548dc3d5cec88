// Package curriculum models the lesson path and decides which lessons a
// student may enter.
package curriculum

import (
	"sort"
)

type SubLessonType string

const (
	SubMainText SubLessonType = "vb"
	SubConnect  SubLessonType = "connect"
	SubExtend   SubLessonType = "extend"
	SubPractice SubLessonType = "practice"
	SubWrite    SubLessonType = "write"
	SubReview   SubLessonType = "review"
)

type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourceDocument ResourceType = "document"
)

type Resource struct {
	Type  ResourceType `json:"type"`
	Title string       `json:"title"`
	URL   string       `json:"url"`
}

type SubLesson struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Type        SubLessonType `json:"type"`
	Description string        `json:"description"`
	ContentHTML string        `json:"contentHtml"`
	Resources   []Resource    `json:"resources,omitempty"`
}

type Lesson struct {
	ID               string      `json:"id"`
	Order            int         `json:"order"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	MonthUnlock      int         `json:"monthUnlock"`
	IntroductionHTML string      `json:"introductionHtml"`
	SubLessons       []SubLesson `json:"subLessons"`
	IsPublished      bool        `json:"-"`

	// The backend stores the published flag as 0/1.
	PublishedFlag IntBool `json:"isPublished"`
}

// Normalize fixes up a lesson decoded from the gateway: the 0/1 published
// flag becomes a bool and a missing subLessons array becomes empty.
func (l *Lesson) Normalize() {
	l.IsPublished = bool(l.PublishedFlag)
	if l.SubLessons == nil {
		l.SubLessons = []SubLesson{}
	}
}

// PrepareSave mirrors Normalize for the write path.
func (l *Lesson) PrepareSave() {
	l.PublishedFlag = IntBool(l.IsPublished)
}

// SortByOrder sorts lessons in curriculum sequence. The sort is stable so
// backend insertion order breaks ties deterministically.
func SortByOrder(lessons []*Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
}

// Published filters to published lessons, sorted by order.
func Published(lessons []*Lesson) []*Lesson {
	out := make([]*Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l != nil && l.IsPublished {
			out = append(out, l)
		}
	}
	SortByOrder(out)
	return out
}

// StudentProgress is the per-(student,lesson) record: best score out of 10
// and whether the lesson quiz was passed.
type StudentProgress struct {
	StudentID string  `json:"studentId,omitempty"`
	LessonID  string  `json:"lessonId"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
	UpdatedAt int64   `json:"updatedAt"`
}

// ProgressMap indexes progress records by lesson id.
type ProgressMap map[string]StudentProgress

// BuildProgressMap collapses a progress list into a map, skipping nil-ish
// rows with no lesson id.
func BuildProgressMap(list []StudentProgress) ProgressMap {
	m := make(ProgressMap, len(list))
	for _, p := range list {
		if p.LessonID == "" {
			continue
		}
		m[p.LessonID] = p
	}
	return m
}
