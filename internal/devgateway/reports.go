package devgateway

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/litclass/litclass-lms/internal/session"
)

// Overview mirrors the client's dashboard shape.
type overview struct {
	TotalStudents  int              `json:"totalStudents"`
	CompletionRate float64          `json:"completionRate"`
	AtRiskCount    int              `json:"atRiskCount"`
	Students       []studentProfile `json:"students"`
}

type studentProfile struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AvgScore        float64 `json:"avgScore"`
	MissedDeadlines int     `json:"missedDeadlines"`
	IsAtRisk        bool    `json:"isAtRisk"`
}

// A student is at risk below this graded average (0..10 scale) or after
// missing two deadlines.
const (
	atRiskAvg    = 5.0
	atRiskMissed = 2
)

func (s *Server) handleClassOverview(ctx context.Context, _ *Claims, _ json.RawMessage) (interface{}, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, "")
	if err != nil {
		return nil, err
	}
	progress, err := s.store.ListProgress(ctx, "")
	if err != nil {
		return nil, err
	}

	published := 0
	for _, l := range lessons {
		if l.IsPublished {
			published++
		}
	}
	now := time.Now().UnixMilli()
	passedByStudent := map[string]int{}
	for _, p := range progress {
		if p.Passed {
			passedByStudent[p.StudentID]++
		}
	}

	out := overview{Students: []studentProfile{}}
	totalPassed := 0
	for _, u := range users {
		if u.Role != session.RoleStudent {
			continue
		}
		out.TotalStudents++
		totalPassed += passedByStudent[u.ID]

		var gradeSum float64
		var gradeN int
		submitted := map[string]bool{}
		for _, sub := range subs {
			if sub.StudentID != u.ID {
				continue
			}
			submitted[sub.AssignmentID] = true
			if sub.Grade != nil {
				gradeSum += *sub.Grade
				gradeN++
			}
		}
		missed := 0
		for _, a := range assignments {
			if a.Deadline > 0 && a.Deadline < now && !submitted[a.ID] {
				missed++
			}
		}
		avg := 0.0
		if gradeN > 0 {
			avg = math.Round(gradeSum/float64(gradeN)*10) / 10
		}
		p := studentProfile{
			ID:              u.ID,
			Name:            u.Name,
			AvgScore:        avg,
			MissedDeadlines: missed,
			IsAtRisk:        (gradeN > 0 && avg < atRiskAvg) || missed >= atRiskMissed,
		}
		if p.IsAtRisk {
			out.AtRiskCount++
		}
		out.Students = append(out.Students, p)
	}

	if out.TotalStudents > 0 && published > 0 {
		rate := float64(totalPassed) / float64(out.TotalStudents*published) * 100
		out.CompletionRate = math.Round(rate*10) / 10
	}
	return out, nil
}
