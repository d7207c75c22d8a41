package board

import "strings"

// MatchKind selects how a Matcher compares group names.
type MatchKind int

const (
	// MatchExact compares whole names, ignoring case and surrounding space.
	MatchExact MatchKind = iota
	// MatchPrefix matches names starting with the pattern, ignoring case.
	MatchPrefix
)

// Matcher recognises a legacy group name.
type Matcher struct {
	Kind    MatchKind
	Pattern string
}

// Match reports whether name is matched.
func (m Matcher) Match(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	pattern := strings.ToLower(m.Pattern)
	switch m.Kind {
	case MatchPrefix:
		return strings.HasPrefix(name, pattern)
	default:
		return name == pattern
	}
}

// Action is what happens to a group matched by a migration.
type Action int

const (
	// ActionRename renames the group to the target, or merges it when the
	// target already exists.
	ActionRename Action = iota
	// ActionMerge moves the group's tasks into the target and deletes it.
	ActionMerge
)

func (a Action) String() string {
	if a == ActionMerge {
		return "merge"
	}
	return "rename"
}

// Migration maps legacy group names onto a fixed group.
type Migration struct {
	Version int
	Match   Matcher
	Action  Action
	Target  string
}

// Migrations run in order on every reconciliation.
var Migrations = []Migration{
	{Version: 1, Match: Matcher{MatchExact, "Sick"}, Action: ActionRename, Target: "Sick Carers"},
	{Version: 2, Match: Matcher{MatchPrefix, "Sick Carers Returned"}, Action: ActionMerge, Target: "Sick Carers"},
	{Version: 2, Match: Matcher{MatchExact, "Returned Sick Carers"}, Action: ActionMerge, Target: "Sick Carers"},
	{Version: 3, Match: Matcher{MatchExact, "Introductions"}, Action: ActionRename, Target: "Introduction"},
	{Version: 3, Match: Matcher{MatchExact, "Client Introductions"}, Action: ActionMerge, Target: "Introduction"},
	{Version: 4, Match: Matcher{MatchExact, "Coordinator"}, Action: ActionRename, Target: "Coordinators"},
	{Version: 4, Match: Matcher{MatchExact, "Supervisor"}, Action: ActionRename, Target: "Supervisors"},
	{Version: 5, Match: Matcher{MatchExact, "Sheets"}, Action: ActionRename, Target: "Sheets Needed"},
}
