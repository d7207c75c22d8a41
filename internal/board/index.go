package board

import (
	"strings"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// GroupRef describes the group a task was rendered under.
type GroupRef struct {
	ID    api.ID
	Name  string
	Intro bool
	Fixed bool
}

// Index holds the tasks of the last render by id.
type Index map[api.ID]api.Task

// Task returns the task with id from the last render and the group it
// was rendered under.
func (g *Grid) Task(id api.ID) (api.Task, GroupRef, bool) {
	t, ok := g.index[id]
	if !ok {
		return api.Task{}, GroupRef{}, false
	}
	return t, g.groups[t.GroupID], true
}

// Group returns the group with id from the last render or binding.
func (g *Grid) Group(id api.ID) (GroupRef, bool) {
	if ref, ok := g.groups[id]; ok {
		return ref, true
	}
	for _, c := range g.Cards {
		if id != "" && c.GroupID == id && (c.bound || !c.Fixed()) {
			return GroupRef{ID: id, Name: c.GroupName, Intro: c.Intro, Fixed: c.Fixed()}, true
		}
	}
	return GroupRef{}, false
}

// TodoTitles returns the titles of the todo tasks in group id.
func (g *Grid) TodoTitles(id api.ID) []string {
	var out []string
	for _, t := range g.index {
		if t.GroupID == id && !t.IsDone() {
			out = append(out, t.Title)
		}
	}
	return out
}

// Len is the number of indexed tasks.
func (g *Grid) Len() int {
	return len(g.index)
}

func hasTitle(titles []string, title string) bool {
	title = strings.TrimSpace(title)
	for _, t := range titles {
		if strings.EqualFold(strings.TrimSpace(t), title) {
			return true
		}
	}
	return false
}
