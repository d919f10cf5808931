package scheduling

import "strings"

// DefaultDurationMinutes applies when no keyword matches and the caller
// gave no duration.
const DefaultDurationMinutes = 30

// durationRules is an ordered rule table evaluated first-match. Order
// matters: more specific phrases sit above the bare keywords they contain,
// so "quick sync" wins before "sync" would.
var durationRules = []struct {
	keyword string
	minutes int
}{
	{"quick sync", 15},
	{"quick chat", 15},
	{"quick call", 15},
	{"stand-up", 15},
	{"standup", 15},
	{"check-in", 15},
	{"check in", 15},
	{"catch up", 15},
	{"quick", 15},
	{"sync", 15},
	{"kickoff", 60},
	{"kick-off", 60},
	{"planning", 60},
	{"workshop", 60},
	{"brainstorm", 60},
	{"interview", 60},
	{"deep dive", 60},
}

// InferDuration maps a free-text event title to a duration in minutes.
// Best-effort heuristic: it never fails, and the confirmation step always
// restates the duration so the user can object.
func InferDuration(title string) int {
	lower := strings.ToLower(title)
	for _, rule := range durationRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.minutes
		}
	}
	return DefaultDurationMinutes
}
