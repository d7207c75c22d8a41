// Package data is the board's single access point to the backend. Reads
// degrade to empty values and writes to false so callers never branch on
// transport errors; task creation is the one call that hands its error back.
package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/sirupsen/logrus"
)

// ErrEmailTaken is returned by Register when the email already has an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned by Login on a rejected email/password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Source wraps the API client with the board's failure policy.
type Source struct {
	client *api.Client
	log    logrus.FieldLogger

	// OnUnauthorized is called when an authenticated call is rejected with
	// 401 or 403. The session is no longer usable.
	OnUnauthorized func()
}

// New returns a Source backed by client.
func New(client *api.Client, log logrus.FieldLogger) *Source {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Source{client: client, log: log.WithField("component", "data")}
}

// Client exposes the underlying API client.
func (s *Source) Client() *api.Client {
	return s.client
}

func (s *Source) fail(op string, err error) {
	s.log.WithError(err).WithField("op", op).Warn("request failed")
	if api.IsAuthFailure(err) && s.client.Token() != "" && s.OnUnauthorized != nil {
		s.OnUnauthorized()
	}
}

// Groups returns every group with embedded tasks, or an empty slice.
func (s *Source) Groups(ctx context.Context) []api.Group {
	groups, _ := s.FetchGroups(ctx)
	return groups
}

// FetchGroups is Groups for callers that must tell an empty board from a
// failed fetch. The slice is never nil.
func (s *Source) FetchGroups(ctx context.Context) ([]api.Group, error) {
	groups, err := s.client.GetGroups(ctx)
	if err != nil {
		s.fail("groups", err)
		return []api.Group{}, err
	}
	return groups, nil
}

// CreateGroup creates a group, returning nil on failure.
func (s *Source) CreateGroup(ctx context.Context, name string, color api.Color) *api.Group {
	g, err := s.client.CreateGroup(ctx, api.CreateGroupRequest{Name: name, Color: color})
	if err != nil {
		s.fail("create group", err)
		return nil
	}
	return g
}

// RenameGroup reports whether the rename was stored.
func (s *Source) RenameGroup(ctx context.Context, id api.ID, name string) bool {
	if err := s.client.RenameGroup(ctx, id, name); err != nil {
		s.fail("rename group", err)
		return false
	}
	return true
}

// DeleteGroup reports whether the group was deleted.
func (s *Source) DeleteGroup(ctx context.Context, id api.ID) bool {
	if err := s.client.DeleteGroup(ctx, id); err != nil {
		s.fail("delete group", err)
		return false
	}
	return true
}

// CreateTask creates a task. Unlike the other writes it returns the error
// so the modal can show what went wrong.
func (s *Source) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error) {
	t, err := s.client.CreateTask(ctx, req)
	if err != nil {
		s.fail("create task", err)
		return nil, err
	}
	return t, nil
}

// UpdateTask reports whether the partial update was stored.
func (s *Source) UpdateTask(ctx context.Context, id api.ID, req api.UpdateTaskRequest) bool {
	if err := s.client.UpdateTask(ctx, id, req); err != nil {
		s.fail("update task", err)
		return false
	}
	return true
}

// MoveTask reports whether the task now belongs to groupID.
func (s *Source) MoveTask(ctx context.Context, id, groupID api.ID) bool {
	if err := s.client.MoveTask(ctx, id, groupID); err != nil {
		s.fail("move task", err)
		return false
	}
	return true
}

// DeleteTask reports whether the task was deleted.
func (s *Source) DeleteTask(ctx context.Context, id api.ID) bool {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		s.fail("delete task", err)
		return false
	}
	return true
}

// Users returns every user, or an empty slice.
func (s *Source) Users(ctx context.Context) []api.User {
	users, err := s.client.GetUsers(ctx)
	if err != nil {
		s.fail("users", err)
		return []api.User{}
	}
	return users
}

// UpdateStatus reports whether the signed-in user's status was stored.
func (s *Source) UpdateStatus(ctx context.Context, status api.UserStatus) bool {
	if err := s.client.UpdateStatus(ctx, status); err != nil {
		s.fail("update status", err)
		return false
	}
	return true
}

// Register creates an account.
func (s *Source) Register(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	err := s.client.Register(ctx, api.RegisterRequest{Name: strings.TrimSpace(name), Email: email, Password: password})
	if err == nil {
		return nil
	}
	s.log.WithError(err).WithField("op", "register").Warn("request failed")
	if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsConflict() {
		return ErrEmailTaken
	}
	return err
}

// Login exchanges credentials for a session token. On success the client
// starts sending the token.
func (s *Source) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	resp, err := s.client.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		s.log.WithError(err).WithField("op", "login").Warn("request failed")
		if api.IsAuthFailure(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	s.client.SetToken(resp.Token)
	return resp, nil
}

// Logout forgets the token on the client.
func (s *Source) Logout() {
	s.client.SetToken("")
}
