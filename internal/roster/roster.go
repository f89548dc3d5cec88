// Package roster models student accounts: classification tiers, the
// leaderboard ordering, and the single canonical rank derivation.
package roster

import (
	"sort"

	"github.com/litclass/litclass-lms/internal/session"
)

// StudentAccount extends the session user with the fields the teacher
// console manages.
type StudentAccount struct {
	session.User
	Password       string   `json:"password,omitempty"` // write-only, admin management
	ParentName     string   `json:"parentName,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	TotalScore     float64  `json:"totalScore"`
	StudyTime      int      `json:"studyTime"` // minutes
	Classification string   `json:"classification,omitempty"`
	Badges         []string `json:"badges,omitempty"`
	Rank           int      `json:"rank,omitempty"`
}

// Classification derives the tier label from accumulated score and study
// time. Thresholds come straight from the course's grading scale.
func Classification(totalScore float64, studyTimeMinutes int) string {
	switch {
	case totalScore >= 90:
		return "Xuất sắc"
	case totalScore >= 80:
		return "Giỏi"
	case totalScore >= 65:
		return "Khá"
	case totalScore >= 50:
		return "Trung bình"
	default:
		return "Cần cố gắng"
	}
}

// SortByScore orders students for the leaderboard: total score descending,
// stable so equal scores keep backend order.
func SortByScore(students []*StudentAccount) {
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].TotalScore > students[j].TotalScore
	})
}

// Rank returns the 1-based leaderboard position of studentID, or 0 when
// absent. This is the one rank derivation; every surface uses it.
func Rank(students []*StudentAccount, studentID string) int {
	ordered := make([]*StudentAccount, len(students))
	copy(ordered, students)
	SortByScore(ordered)
	for i, s := range ordered {
		if s != nil && s.ID == studentID {
			return i + 1
		}
	}
	return 0
}

// Normalize fills derived fields on a student list fetched from the
// gateway: classification when the backend stored none, plus rank.
func Normalize(students []*StudentAccount) []*StudentAccount {
	out := make([]*StudentAccount, 0, len(students))
	for _, s := range students {
		if s == nil {
			continue
		}
		if s.Classification == "" {
			s.Classification = Classification(s.TotalScore, s.StudyTime)
		}
		out = append(out, s)
	}
	SortByScore(out)
	for i, s := range out {
		s.Rank = i + 1
	}
	return out
}
