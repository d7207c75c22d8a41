package board

import (
	"context"
	"strings"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/sirupsen/logrus"
)

// Remote is the subset of the data layer the reconciler writes through.
type Remote interface {
	CreateGroup(ctx context.Context, name string, color api.Color) *api.Group
	RenameGroup(ctx context.Context, id api.ID, name string) bool
	DeleteGroup(ctx context.Context, id api.ID) bool
	MoveTask(ctx context.Context, id, groupID api.ID) bool
}

// Bindings maps canonical fixed-group names to their remote ids.
type Bindings map[string]api.ID

// Report counts the writes a reconciliation performed.
type Report struct {
	Renames  int
	Merges   int
	Moves    int
	Creates  int
	Deletes  int
	Failures int
}

// Writes is the number of successful remote writes.
func (r Report) Writes() int {
	return r.Renames + r.Moves + r.Creates + r.Deletes
}

// Reconciler makes the remote group list match Registry.
type Reconciler struct {
	remote Remote
	log    logrus.FieldLogger
}

// NewReconciler returns a reconciler writing through remote.
func NewReconciler(remote Remote, log logrus.FieldLogger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{remote: remote, log: log.WithField("component", "reconciler")}
}

// Run migrates legacy names, merges duplicates and creates missing fixed
// groups, then returns the id bound to each fixed name. Every step is best
// effort: failures are logged and left for the next run, which finds the
// already-migrated state and does nothing.
func (r *Reconciler) Run(ctx context.Context, groups []api.Group) (Bindings, Report) {
	var rep Report
	state := make([]*api.Group, 0, len(groups))
	for i := range groups {
		g := groups[i]
		g.Tasks = append([]api.Task(nil), g.Tasks...)
		state = append(state, &g)
	}

	for _, m := range Migrations {
		for _, g := range append([]*api.Group(nil), state...) {
			if !m.Match.Match(g.Name) || strings.EqualFold(strings.TrimSpace(g.Name), m.Target) {
				continue
			}
			main := findExact(state, m.Target)
			if main == nil {
				// Nothing to merge into yet, so the synonym becomes canonical.
				r.rename(ctx, g, m.Target, &rep)
				continue
			}
			state = r.merge(ctx, state, main, g, &rep)
		}
	}

	bindings := make(Bindings, len(Registry))
	for _, f := range Registry {
		var matches []*api.Group
		for _, g := range state {
			if strings.EqualFold(strings.TrimSpace(g.Name), f.Name) {
				matches = append(matches, g)
			}
		}

		if len(matches) == 0 {
			created := r.remote.CreateGroup(ctx, f.Name, f.Color)
			if created == nil {
				rep.Failures++
				r.log.WithField("group", f.Name).Warn("failed to create fixed group")
				continue
			}
			rep.Creates++
			r.log.WithField("group", f.Name).Info("created fixed group")
			state = append(state, created)
			bindings[f.Name] = created.ID
			continue
		}

		// Server order is creation order, so the first match is the oldest.
		main := matches[0]
		if main.Name != f.Name {
			r.rename(ctx, main, f.Name, &rep)
		}
		for _, dup := range matches[1:] {
			state = r.merge(ctx, state, main, dup, &rep)
		}
		bindings[f.Name] = main.ID
	}

	if rep.Writes() > 0 || rep.Failures > 0 {
		r.log.WithFields(logrus.Fields{
			"renames":  rep.Renames,
			"merges":   rep.Merges,
			"moves":    rep.Moves,
			"creates":  rep.Creates,
			"deletes":  rep.Deletes,
			"failures": rep.Failures,
		}).Info("reconciled fixed groups")
	}
	return bindings, rep
}

func (r *Reconciler) rename(ctx context.Context, g *api.Group, name string, rep *Report) {
	if !r.remote.RenameGroup(ctx, g.ID, name) {
		rep.Failures++
		r.log.WithFields(logrus.Fields{"group": g.Name, "target": name}).Warn("failed to rename group")
		return
	}
	rep.Renames++
	r.log.WithFields(logrus.Fields{"group": g.Name, "target": name}).Info("renamed group")
	g.Name = name
}

// merge moves every task of secondary into main one at a time, then deletes
// secondary. A failed move leaves secondary in place for the next run.
func (r *Reconciler) merge(ctx context.Context, state []*api.Group, main, secondary *api.Group, rep *Report) []*api.Group {
	log := r.log.WithFields(logrus.Fields{"group": secondary.Name, "target": main.Name})
	moved := 0
	for _, t := range secondary.Tasks {
		if !r.remote.MoveTask(ctx, t.ID, main.ID) {
			rep.Failures++
			log.WithField("task", t.ID).Warn("failed to move task, merge postponed")
			secondary.Tasks = secondary.Tasks[moved:]
			return state
		}
		rep.Moves++
		t.GroupID = main.ID
		main.Tasks = append(main.Tasks, t)
		moved++
	}
	secondary.Tasks = nil

	if !r.remote.DeleteGroup(ctx, secondary.ID) {
		rep.Failures++
		log.Warn("failed to delete merged group")
		return state
	}
	rep.Deletes++
	rep.Merges++
	log.WithField("moved", moved).Info("merged group")

	out := state[:0]
	for _, g := range state {
		if g != secondary {
			out = append(out, g)
		}
	}
	return out
}

func findExact(state []*api.Group, name string) *api.Group {
	for _, g := range state {
		if g.Name == name {
			return g
		}
	}
	return nil
}
