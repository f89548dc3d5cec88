package devgateway

import "strings"

// RolePermissions maps a role onto the actions it may dispatch. Patterns
// support a trailing wildcard ("lessons.*").
var RolePermissions = map[string][]string{
	"student": {
		"lessons.list",
		"users.list", // leaderboard
		"questions.list",
		"exams.list",
		"games.list",
		"games.saveResult",
		"assignments.list",
		"progress.listByStudent",
		"progress.update",
		"submissions.listByStudent",
		"submissions.submit",
	},
	"teacher": {
		"*",
	},
}

type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role, action string) bool {
	perms, ok := c.RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if matchAction(p, action) {
			return true
		}
	}
	return false
}

func matchAction(pattern, action string) bool {
	if pattern == "*" || pattern == action {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(action, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
