package lms

import "context"

// StudentProfile is one row of the class overview.
type StudentProfile struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AvgScore        float64 `json:"avgScore"`
	MissedDeadlines int     `json:"missedDeadlines"`
	IsAtRisk        bool    `json:"isAtRisk"`
}

// DashboardStats is the teacher dashboard summary.
type DashboardStats struct {
	TotalStudents  int              `json:"totalStudents"`
	CompletionRate float64          `json:"completionRate"` // percentage
	AtRiskCount    int              `json:"atRiskCount"`
	Students       []StudentProfile `json:"students"`
}

type classCriteria struct {
	ClassID string `json:"classId"`
}

// ClassOverview fetches the dashboard report for the whole class.
func (s *Service) ClassOverview(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := s.gw.CallInto(ctx, "reports.classOverview", classCriteria{ClassID: "all"}, &stats); err != nil {
		return DashboardStats{}, err
	}
	if stats.Students == nil {
		stats.Students = []StudentProfile{}
	}
	return stats, nil
}
