package board

import (
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/sirupsen/logrus"
)

// Render rebuilds the grid from a freshly fetched snapshot. Fixed cards
// keep their place and only lose their rows; dynamic cards are replaced.
// The returned groups carry deprecated legacy names and hold no tasks, so
// the caller may delete them remotely. Rendering the same snapshot twice
// yields the same grid.
func (g *Grid) Render(groups []api.Group) []api.Group {
	fixedIDs := make(map[api.ID]string)
	for _, c := range g.Cards {
		if c.Fixed() && c.bound {
			fixedIDs[c.GroupID] = c.Anchor
		}
	}
	for _, grp := range groups {
		if f, ok := LookupFixed(grp.Name); ok {
			fixedIDs[grp.ID] = f.Anchor
		}
	}

	kept := g.Cards[:0]
	for _, c := range g.Cards {
		if c.Fixed() {
			c.Items = nil
			kept = append(kept, c)
		}
	}
	g.Cards = kept
	g.index = make(Index)
	g.groups = make(map[api.ID]GroupRef)

	anchorTasks := make(map[string][]api.Task)
	var dynamic []api.Group
	var deprecated []api.Group

	for _, grp := range groups {
		anchor, fixed := fixedIDs[grp.ID]
		if !fixed {
			f, isDeprecated, ok := MatchFixed(grp.Name)
			switch {
			case ok && isDeprecated:
				if len(grp.Tasks) == 0 {
					deprecated = append(deprecated, grp)
				} else {
					g.log.WithFields(logrus.Fields{"group": grp.Name, "tasks": len(grp.Tasks)}).
						Warn("deprecated group still holds tasks, waiting for reconcile")
				}
				continue
			case ok:
				anchor, fixed = f.Anchor, true
			}
		}

		if fixed {
			f, _ := fixedByAnchor(anchor)
			g.groups[grp.ID] = GroupRef{ID: grp.ID, Name: f.Name, Intro: f.Intro, Fixed: true}
			anchorTasks[anchor] = append(anchorTasks[anchor], grp.Tasks...)
			g.bindFallback(anchor, grp)
		} else {
			g.groups[grp.ID] = GroupRef{ID: grp.ID, Name: grp.Name, Intro: IsIntroFamily(grp.Name)}
			dynamic = append(dynamic, grp)
		}
		g.indexTasks(grp.Tasks)
	}

	for _, c := range g.Cards {
		c.Items = g.renderCard(c.Type, c.Intro, anchorTasks[c.Anchor])
	}

	for _, grp := range dynamic {
		intro := IsIntroFamily(grp.Name)
		for _, typ := range []CardType{CardTodo, CardDone} {
			g.Cards = append(g.Cards, &Card{
				GroupID:   grp.ID,
				GroupName: grp.Name,
				Type:      typ,
				Color:     grp.Color,
				Intro:     intro,
				Items:     g.renderCard(typ, intro, grp.Tasks),
			})
		}
	}

	g.ApplyFilter(g.query)
	return deprecated
}

// bindFallback binds an anchor that no reconciliation has bound yet to a
// group carrying the canonical name.
func (g *Grid) bindFallback(anchor string, grp api.Group) {
	f, ok := fixedByAnchor(anchor)
	if !ok || grp.Name != f.Name {
		return
	}
	for _, c := range g.anchorCards(anchor) {
		if c.bound {
			return
		}
	}
	g.Bind(Bindings{f.Name: grp.ID})
}

func (g *Grid) indexTasks(tasks []api.Task) {
	for _, t := range tasks {
		if !t.Consistent() {
			g.log.WithFields(logrus.Fields{"task": t.ID, "status": t.Status}).
				Warn("completion fields disagree with status")
		}
		g.index[t.ID] = t
	}
}

func (g *Grid) renderCard(typ CardType, intro bool, tasks []api.Task) []Item {
	var subset []api.Task
	for _, t := range tasks {
		if t.IsDone() == (typ == CardDone) {
			subset = append(subset, t)
		}
	}

	opts := ListOptions{Location: g.loc, Names: g.names}
	switch {
	case typ == CardDone:
		opts.Field, opts.Order, opts.Layout = SortCompletedAt, Desc, LayoutStandard
	case intro:
		opts.Field, opts.Order, opts.Layout = SortScheduledAt, Asc, LayoutIntroduction
	default:
		opts.Field, opts.Order, opts.Layout = SortCreatedAt, Asc, LayoutStandard
	}
	return RenderList(subset, opts)
}
