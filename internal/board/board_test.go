package board

import (
	"context"
	"testing"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/apitest"
	"github.com/hy4ri/whiteboard-tui/internal/data"
	"github.com/hy4ri/whiteboard-tui/internal/logging"
)

func strPtr(s string) *string { return &s }

func newRemote(t *testing.T) (*data.Source, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	log := logging.Discard()
	return data.New(api.NewClient(srv.URL, "tok", log), log), srv
}

func newTestGrid() *Grid {
	return NewGrid(time.UTC, NewNames(), logging.Discard())
}

func todo(id, group, title, created string) api.Task {
	return api.Task{ID: api.ID(id), GroupID: api.ID(group), Title: title, Status: api.StatusTodo, Priority: api.PriorityNormal, CreatedAt: created}
}

func done(id, group, title, created, completed string) api.Task {
	t := todo(id, group, title, created)
	t.Status = api.StatusDone
	t.CompletedAt = strPtr(completed)
	t.CompletedBy = "1"
	return t
}

func cardByTitle(g *Grid, title string) *Card {
	for _, c := range g.Cards {
		if c.Title() == title {
			return c
		}
	}
	return nil
}

func taskIDs(items []Item) []api.ID {
	var out []api.ID
	for _, it := range items {
		if !it.IsHeader() {
			out = append(out, it.TaskID)
		}
	}
	return out
}

func headers(items []Item) []string {
	var out []string
	for _, it := range items {
		if it.IsHeader() {
			out = append(out, it.Label)
		}
	}
	return out
}

// reconciledGrid runs a reconcile against srv and renders the result.
func reconciledGrid(t *testing.T, src *data.Source) *Grid {
	t.Helper()
	ctx := context.Background()
	g := newTestGrid()
	b, _ := NewReconciler(src, logging.Discard()).Run(ctx, src.Groups(ctx))
	g.Bind(b)
	g.Render(src.Groups(ctx))
	return g
}
