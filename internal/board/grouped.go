package board

import (
	"sort"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// SortField is the task timestamp a list is ordered and bucketed by.
type SortField string

const (
	SortCreatedAt   SortField = "created_at"
	SortCompletedAt SortField = "completed_at"
	SortScheduledAt SortField = "scheduled_at"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Layout selects how task rows are drawn.
type Layout int

const (
	// LayoutStandard: priority dot, title and an added/completed date.
	LayoutStandard Layout = iota
	// LayoutIntroduction: scheduled time and title, then a subtitle line.
	LayoutIntroduction
)

// ListOptions configures RenderList.
type ListOptions struct {
	Field    SortField
	Order    SortOrder
	Layout   Layout
	Location *time.Location
	// Names resolves created_by for introduction subtitles. May be nil.
	Names *Names
}

func taskDate(t *api.Task, field SortField, loc *time.Location) (time.Time, bool) {
	switch field {
	case SortCompletedAt:
		return parsePtr(t.CompletedAt, loc)
	case SortScheduledAt:
		return parsePtr(t.ScheduledAt, loc)
	default:
		return ParseDate(t.CreatedAt, loc)
	}
}

// RenderList sorts tasks by the chosen date and interleaves a header
// whenever the calendar day changes. Tasks without a usable date go last
// for Asc and first for Desc, and get no header.
func RenderList(tasks []api.Task, opts ListOptions) []Item {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	type keyed struct {
		task api.Task
		at   time.Time
		ok   bool
	}
	rows := make([]keyed, len(tasks))
	for i := range tasks {
		at, ok := taskDate(&tasks[i], opts.Field, loc)
		rows[i] = keyed{task: tasks[i], at: at, ok: ok}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ok != b.ok {
			if opts.Order == Desc {
				return !a.ok
			}
			return a.ok
		}
		if !a.ok {
			return false
		}
		if opts.Order == Desc {
			return a.at.After(b.at)
		}
		return a.at.Before(b.at)
	})

	items := make([]Item, 0, len(rows)*2)
	lastLabel := ""
	header := -1
	for _, r := range rows {
		if r.ok {
			label := DayLabel(r.at)
			if label != lastLabel {
				items = append(items, Item{Label: label, header: -1})
				header = len(items) - 1
				lastLabel = label
			}
		} else {
			header = -1
			lastLabel = ""
		}

		it := taskItem(r.task, opts, loc)
		it.header = header
		items = append(items, it)
	}
	return items
}

func taskItem(t api.Task, opts ListOptions, loc *time.Location) Item {
	it := Item{
		TaskID:   t.ID,
		Label:    t.Title,
		Priority: t.Priority,
	}

	if opts.Layout == LayoutIntroduction {
		it.Intro = true
		if at, ok := parsePtr(t.ScheduledAt, loc); ok {
			it.Time = at.Format("15:04")
		}
		switch {
		case t.Description != "":
			it.Subtitle = t.Description
		case opts.Names.Name(t.CreatedBy) != "":
			it.Subtitle = "Added by " + opts.Names.Name(t.CreatedBy)
		}
		return it
	}

	if at, ok := parsePtr(t.CompletedAt, loc); ok {
		it.Note = "completed on " + at.Format(AnnotationLayout)
	} else if at, ok := ParseDate(t.CreatedAt, loc); ok {
		it.Note = "added on " + at.Format(AnnotationLayout)
	}
	return it
}
