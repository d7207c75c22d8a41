package board

import (
	"testing"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

func visibleTitles(g *Grid) map[string]bool {
	out := map[string]bool{}
	for _, c := range g.VisibleCards() {
		out[c.Title()] = true
	}
	return out
}

func TestFilterBySickShowsOnlySickCarers(t *testing.T) {
	g := boundGrid()
	g.Render(snapshot())

	g.ApplyFilter("sick")
	visible := visibleTitles(g)
	if !visible["To Do - Sick Carers"] {
		t.Error("expected To Do - Sick Carers visible")
	}
	if visible["To Do - Sheets Needed"] {
		t.Error("expected To Do - Sheets Needed hidden")
	}
	for title := range visible {
		if title != "To Do - Sick Carers" && title != "Tasks done - Sick Carers" {
			t.Errorf("unexpected visible card %q", title)
		}
	}

	g.ApplyFilter("")
	visible = visibleTitles(g)
	if !visible["To Do - Sick Carers"] || !visible["To Do - Sheets Needed"] {
		t.Error("expected empty query to restore every card")
	}
}

func TestFilterRows(t *testing.T) {
	g := boundGrid()
	g.Render([]api.Group{
		{ID: "2", Name: "Coordinators", Tasks: []api.Task{
			todo("1", "2", "Call agency", "2024-03-08 09:00:00"),
			todo("2", "2", "Book van", "2024-03-08 11:00:00"),
			todo("3", "2", "Pay invoice", "2024-03-09 09:00:00"),
		}},
	})
	card := cardByTitle(g, "To Do - Coordinators")

	tests := []struct {
		name        string
		query       string
		wantTasks   []api.ID
		wantHeaders []string
		cardVisible bool
	}{
		{"task text reveals its header", "invoice", []api.ID{"3"}, []string{"09/03/24 - Saturday"}, true},
		{"header text reveals its day", "08/03", []api.ID{"1", "2"}, []string{"08/03/24 - Friday"}, true},
		{"weekday", "saturday", []api.ID{"3"}, []string{"09/03/24 - Saturday"}, true},
		{"card title keeps all rows", "coordinators", []api.ID{"1", "2", "3"}, []string{"08/03/24 - Friday", "09/03/24 - Saturday"}, true},
		{"no match hides card", "zebra", nil, nil, false},
		{"case and space insensitive", "  BOOK ", []api.ID{"2"}, []string{"08/03/24 - Friday"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.ApplyFilter(tt.query)
			items := card.VisibleItems()
			if got := taskIDs(items); len(got) != len(tt.wantTasks) || (len(got) > 0 && !equalIDs(got, tt.wantTasks)) {
				t.Errorf("expected tasks %v, got %v", tt.wantTasks, got)
			}
			if got := headers(items); len(got) != len(tt.wantHeaders) || (len(got) > 0 && !equalStrings(got, tt.wantHeaders)) {
				t.Errorf("expected headers %v, got %v", tt.wantHeaders, got)
			}
			if card.Visible() != tt.cardVisible {
				t.Errorf("expected card visible %v", tt.cardVisible)
			}
		})
	}
}

func TestFilterSurvivesRender(t *testing.T) {
	g := boundGrid()
	g.ApplyFilter("gloves")
	g.Render(snapshot())

	visible := visibleTitles(g)
	if len(visible) != 1 || !visible["To Do - Group 4821"] {
		t.Errorf("expected filter reapplied after render, got %v", visible)
	}
}

func equalIDs(a, b []api.ID) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
