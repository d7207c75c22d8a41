package data

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/apitest"
	"github.com/hy4ri/whiteboard-tui/internal/logging"
)

func newSource(t *testing.T, token string) (*Source, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	log := logging.Discard()
	return New(api.NewClient(srv.URL, token, log), log), srv
}

func TestReadsDegradeToEmpty(t *testing.T) {
	src, srv := newSource(t, "")
	srv.FailNext(http.MethodGet, "/groups", http.StatusInternalServerError)
	srv.FailNext(http.MethodGet, "/users", http.StatusBadGateway)

	ctx := context.Background()
	if groups := src.Groups(ctx); groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil groups, got %#v", groups)
	}
	if users := src.Users(ctx); users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil users, got %#v", users)
	}
}

func TestFetchGroupsReportsFailure(t *testing.T) {
	src, srv := newSource(t, "")
	srv.FailNext(http.MethodGet, "/groups", http.StatusInternalServerError)

	groups, err := src.FetchGroups(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil groups, got %#v", groups)
	}

	srv.AddGroup("Coordinators", api.ColorYellow)
	groups, err = src.FetchGroups(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(groups))
	}
}

func TestWritesDegradeToFalse(t *testing.T) {
	src, srv := newSource(t, "tok")
	ctx := context.Background()
	title := "x"

	tests := []struct {
		name   string
		method string
		path   string
		call   func() bool
	}{
		{"rename group", http.MethodPatch, "/groups/", func() bool { return src.RenameGroup(ctx, "1", "A") }},
		{"delete group", http.MethodDelete, "/groups/", func() bool { return src.DeleteGroup(ctx, "1") }},
		{"update task", http.MethodPatch, "/tasks/", func() bool {
			return src.UpdateTask(ctx, "1", api.UpdateTaskRequest{Title: &title})
		}},
		{"delete task", http.MethodDelete, "/tasks/", func() bool { return src.DeleteTask(ctx, "1") }},
		{"update status", http.MethodPatch, "/users/status", func() bool { return src.UpdateStatus(ctx, api.UserBusy) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.FailNext(tt.method, tt.path, http.StatusInternalServerError)
			if tt.call() {
				t.Error("expected false on server error")
			}
		})
	}

	srv.FailNext(http.MethodPost, "/groups", http.StatusBadRequest)
	if g := src.CreateGroup(ctx, "A", api.ColorPink); g != nil {
		t.Errorf("expected nil group, got %+v", g)
	}
}

func TestCreateTaskPropagatesError(t *testing.T) {
	src, srv := newSource(t, "tok")
	srv.FailNext(http.MethodPost, "/tasks", http.StatusBadRequest)

	task, err := src.CreateTask(context.Background(), api.CreateTaskRequest{GroupID: "1", Title: "A"})
	if err == nil || task != nil {
		t.Fatalf("expected error and nil task, got %+v, %v", task, err)
	}
	apiErr, ok := api.IsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 APIError, got %v", err)
	}
}

func TestCreateTaskSuccess(t *testing.T) {
	src, srv := newSource(t, "tok")
	gid := srv.AddGroup("Coordinators", api.ColorYellow)

	task, err := src.CreateTask(context.Background(), api.CreateTaskRequest{GroupID: gid, Title: "Renew badge", Priority: api.PriorityHigh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != api.StatusTodo || task.GroupID != gid {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestUnauthorizedHook(t *testing.T) {
	src, srv := newSource(t, "stale")
	srv.RequireAuth = true

	calls := 0
	src.OnUnauthorized = func() { calls++ }

	if src.DeleteTask(context.Background(), "1") {
		t.Error("expected delete to fail")
	}
	if calls != 1 {
		t.Errorf("expected hook to fire once, got %d", calls)
	}

	// Unauthenticated reads never force a logout.
	src.Logout()
	srv.FailNext(http.MethodGet, "/groups", http.StatusUnauthorized)
	src.Groups(context.Background())
	if calls != 1 {
		t.Errorf("expected hook not to fire without a token, got %d", calls)
	}
}

func TestRegister(t *testing.T) {
	src, srv := newSource(t, "")
	srv.AddUser("Kim", "kim@x.io", "pw", api.UserFree)
	ctx := context.Background()

	if err := src.Register(ctx, "Kim", "KIM@x.io", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if err := src.Register(ctx, "Lee", "lee@x.io", "pw"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := src.Register(ctx, "Nobody", "", "pw"); err == nil {
		t.Error("expected validation error for empty email")
	}
}

func TestLogin(t *testing.T) {
	src, srv := newSource(t, "")
	srv.AddUser("Kim", "kim@x.io", "pw", api.UserFree)
	ctx := context.Background()

	if _, err := src.Login(ctx, "kim@x.io", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	resp, err := src.Login(ctx, " kim@x.io ", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Client().Token() != resp.Token {
		t.Errorf("expected client token %q, got %q", resp.Token, src.Client().Token())
	}

	srv.RequireAuth = true
	if !src.UpdateStatus(ctx, api.UserMeeting) {
		t.Error("expected authenticated status update to succeed")
	}
}
