// Package api provides a client for the whiteboard REST API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque server-assigned identifier. The backend hands out
// auto-increment integers, but nothing here depends on that.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so the backend's integer
// columns compare correctly, and everything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Color is a group's card colour.
type Color string

const (
	ColorCyan   Color = "cyan"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
)

// DynamicColors are the colours handed out to user-created groups.
var DynamicColors = []Color{ColorPurple, ColorOrange, ColorCyan, ColorPink}

// Priority is a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists the priorities in ascending order.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// Status is a task status.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// UserStatus is a teammate's live availability.
type UserStatus string

const (
	UserFree    UserStatus = "free"
	UserBusy    UserStatus = "busy"
	UserMeeting UserStatus = "meeting"
	UserOnCall  UserStatus = "on-call"
	UserAway    UserStatus = "away"
	UserBreak   UserStatus = "break"
	UserHoliday UserStatus = "holiday"
	UserOffline UserStatus = "offline"
)

// UserStatuses lists every status a user can pick.
var UserStatuses = []UserStatus{
	UserFree, UserBusy, UserMeeting, UserOnCall, UserAway, UserBreak, UserHoliday, UserOffline,
}

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	for _, v := range UserStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Group is a named column of tasks.
type Group struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Color Color  `json:"color"`
	Tasks []Task `json:"tasks"`
}

// Task is a single whiteboard task.
type Task struct {
	ID          ID       `json:"id"`
	GroupID     ID       `json:"group_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt *string  `json:"completed_at"`
	CreatedBy   ID       `json:"created_by"`
	CompletedBy ID       `json:"completed_by"`
	ScheduledAt *string  `json:"scheduled_at"`
	Solution    *string  `json:"solution"`
}

// IsDone reports whether the task has been completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// Consistent reports whether completion fields agree with the status.
func (t *Task) Consistent() bool {
	completed := t.CompletedAt != nil && *t.CompletedAt != ""
	return completed == t.IsDone()
}

// SolutionText returns the solution note or "".
func (t *Task) SolutionText() string {
	if t.Solution == nil {
		return ""
	}
	return *t.Solution
}

// User is a registered teammate.
type User struct {
	ID     ID         `json:"id"`
	Name   *string    `json:"name"`
	Email  string     `json:"email"`
	Status UserStatus `json:"status"`
}

// DisplayName returns the user's name, or the capitalised local part of
// their email when no name was registered.
func (u *User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	local := u.Email
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	if local == "" {
		return ""
	}
	r := []rune(local)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// RenameGroupRequest is the body of PATCH /groups/:id.
type RenameGroupRequest struct {
	Name string `json:"name"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	GroupID     ID       `json:"group_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	ScheduledAt *string  `json:"scheduled_at,omitempty"`
	CreatedBy   ID       `json:"created_by,omitempty"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Nil fields are left
// untouched by the server.
type UpdateTaskRequest struct {
	Status      *Status   `json:"status,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
	CompletedBy *ID       `json:"completed_by,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	GroupID     *ID       `json:"group_id,omitempty"`
	Solution    *string   `json:"solution,omitempty"`
	ScheduledAt *string   `json:"scheduled_at,omitempty"`
}

// Empty reports whether the request would change nothing.
func (r UpdateTaskRequest) Empty() bool {
	return r == UpdateTaskRequest{}
}

// UpdateStatusRequest is the body of PATCH /users/status.
type UpdateStatusRequest struct {
	Status UserStatus `json:"status"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
