package board

import (
	"strings"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// FixedGroup is a group the board guarantees to exist exactly once.
type FixedGroup struct {
	Name   string
	Anchor string
	Color  api.Color
	// Intro marks the Introduction family: scheduled tasks, two-line rows.
	Intro bool
}

// Registry lists the fixed groups in priority order.
var Registry = []FixedGroup{
	{Name: "Introduction", Anchor: "introduction", Color: api.ColorCyan, Intro: true},
	{Name: "Coordinators", Anchor: "coordinators", Color: api.ColorYellow},
	{Name: "Supervisors", Anchor: "supervisors", Color: api.ColorGreen},
	{Name: "Sheets Needed", Anchor: "sheets-needed", Color: api.ColorOrange},
	{Name: "Sick Carers", Anchor: "sick-carers", Color: api.ColorPink},
}

// LookupFixed returns the registry entry whose canonical name is name.
func LookupFixed(name string) (FixedGroup, bool) {
	for _, f := range Registry {
		if f.Name == strings.TrimSpace(name) {
			return f, true
		}
	}
	return FixedGroup{}, false
}

// fixedByAnchor returns the registry entry for anchor.
func fixedByAnchor(anchor string) (FixedGroup, bool) {
	for _, f := range Registry {
		if f.Anchor == anchor {
			return f, true
		}
	}
	return FixedGroup{}, false
}

// MatchFixed resolves name to a fixed group, either canonically or
// through a legacy synonym from Migrations. Merge-only synonyms are
// reported as deprecated.
func MatchFixed(name string) (f FixedGroup, deprecated, ok bool) {
	if f, ok := LookupFixed(name); ok {
		return f, false, true
	}
	for _, f := range Registry {
		if strings.EqualFold(strings.TrimSpace(name), f.Name) {
			return f, false, true
		}
	}
	for _, m := range Migrations {
		if !m.Match.Match(name) {
			continue
		}
		f, ok := LookupFixed(m.Target)
		if !ok {
			continue
		}
		return f, m.Action == ActionMerge, true
	}
	return FixedGroup{}, false, false
}

// IsIntroFamily reports whether a group named name uses scheduled,
// two-line rendering.
func IsIntroFamily(name string) bool {
	f, _, ok := MatchFixed(name)
	if ok {
		return f.Intro
	}
	return strings.Contains(strings.ToLower(name), "introduction")
}
