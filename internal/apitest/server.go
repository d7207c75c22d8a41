// Package apitest provides an in-memory whiteboard backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// Call records one request handled by the server.
type Call struct {
	Method string
	Path   string
	Body   string
}

// IsWrite reports whether the call mutates server state.
func (c Call) IsWrite() bool {
	return c.Method != http.MethodGet
}

type failure struct {
	method string
	prefix string
	status int
}

type account struct {
	user     api.User
	password string
}

// Server is a fake of the whiteboard REST API backed by memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	groups   []api.Group
	tasks    []api.Task
	accounts []account
	tokens   map[string]api.ID
	calls    []Call
	failures []failure
	now      func() time.Time

	// RequireAuth makes every mutating endpoint demand a known bearer token.
	RequireAuth bool
}

// NewServer starts a fake backend. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		nextID: 1,
		tokens: make(map[string]api.ID),
		now:    time.Now,
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/groups", s.listGroups).Methods(http.MethodGet)
	r.HandleFunc("/groups", s.authed(s.createGroup)).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", s.authed(s.renameGroup)).Methods(http.MethodPatch)
	r.HandleFunc("/groups/{id}", s.authed(s.deleteGroup)).Methods(http.MethodDelete)
	r.HandleFunc("/tasks", s.authed(s.createTask)).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", s.authed(s.updateTask)).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{id}", s.authed(s.deleteTask)).Methods(http.MethodDelete)
	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/status", s.authed(s.updateStatus)).Methods(http.MethodPatch)
	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// SetClock replaces the server's notion of now, used for created_at.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// FailNext makes the next request matching method and path prefix answer
// with status instead of being handled.
func (s *Server) FailNext(method, pathPrefix string, status int) {
	s.mu.Lock()
	s.failures = append(s.failures, failure{method: method, prefix: pathPrefix, status: status})
	s.mu.Unlock()
}

// AddGroup seeds a group and returns its id.
func (s *Server) AddGroup(name string, color api.Color) api.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := api.Group{ID: s.newID(), Name: name, Color: color}
	s.groups = append(s.groups, g)
	return g.ID
}

// AddTask seeds a task in groupID and returns its id.
func (s *Server) AddTask(groupID api.ID, t api.Task) api.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.newID()
	t.GroupID = groupID
	if t.Status == "" {
		t.Status = api.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = api.PriorityNormal
	}
	if t.CreatedAt == "" {
		t.CreatedAt = s.now().Format(time.DateTime)
	}
	s.tasks = append(s.tasks, t)
	return t.ID
}

// AddUser seeds an account and returns a valid bearer token for it.
func (s *Server) AddUser(name, email, password string, status api.UserStatus) (api.ID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := api.User{ID: s.newID(), Email: email, Status: status}
	if name != "" {
		u.Name = &name
	}
	s.accounts = append(s.accounts, account{user: u, password: password})
	token := "token-" + string(u.ID)
	s.tokens[token] = u.ID
	return u.ID, token
}

// Groups returns a snapshot of the server's groups with embedded tasks.
func (s *Server) Groups() []api.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Task returns the stored task with id.
func (s *Server) Task(id api.ID) (api.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

// Calls returns every request recorded so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Writes returns the recorded mutating requests.
func (s *Server) Writes() []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.IsWrite() {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the request log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

func (s *Server) newID() api.ID {
	id := api.ID(strconv.Itoa(s.nextID))
	s.nextID++
	return id
}

func (s *Server) snapshot() []api.Group {
	out := make([]api.Group, 0, len(s.groups))
	for _, g := range s.groups {
		g.Tasks = []api.Task{}
		for _, t := range s.tasks {
			if t.GroupID == g.ID {
				g.Tasks = append(g.Tasks, t)
			}
		}
		out = append(out, g)
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = readAll(r)
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		for i, f := range s.failures {
			if f.method == r.Method && strings.HasPrefix(r.URL.Path, f.prefix) {
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				s.mu.Unlock()
				writeError(w, f.status, "injected failure")
				return
			}
		}
		s.mu.Unlock()
		next.ServeHTTP(w, withBody(r, body))
	})
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.RequireAuth {
			h(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		h(w, r)
	}
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	groups := s.snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.mu.Lock()
	g := api.Group{ID: s.newID(), Name: req.Name, Color: req.Color}
	s.groups = append(s.groups, g)
	s.mu.Unlock()
	g.Tasks = []api.Task{}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) renameGroup(w http.ResponseWriter, r *http.Request) {
	id := api.ID(mux.Vars(r)["id"])
	var req api.RenameGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groups {
		if s.groups[i].ID == id {
			s.groups[i].Name = req.Name
			writeJSON(w, http.StatusOK, map[string]string{"message": "Group updated successfully"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "group not found")
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id := api.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.groups[:0]
	for _, g := range s.groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.groups = kept
	tasks := s.tasks[:0]
	for _, t := range s.tasks {
		if t.GroupID != id {
			tasks = append(tasks, t)
		}
	}
	s.tasks = tasks
	writeJSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad body")
		return
	}
	if req.Status == "" {
		req.Status = api.StatusTodo
	}
	s.mu.Lock()
	t := api.Task{
		ID:          s.newID(),
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		CreatedAt:   s.now().Format(time.DateTime),
		CreatedBy:   req.CreatedBy,
		ScheduledAt: req.ScheduledAt,
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := api.ID(mux.Vars(r)["id"])
	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad body")
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.ID != id {
			continue
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.CompletedAt != nil {
			t.CompletedAt = req.CompletedAt
		}
		if req.CompletedBy != nil {
			t.CompletedBy = *req.CompletedBy
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.GroupID != nil {
			t.GroupID = *req.GroupID
		}
		if req.Solution != nil {
			t.Solution = req.Solution
		}
		if req.ScheduledAt != nil {
			t.ScheduledAt = req.ScheduledAt
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated successfully"})
		return
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := api.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]api.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	for i := range s.accounts {
		if s.accounts[i].user.ID == uid {
			s.accounts[i].user.Status = req.Status
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	s.mu.Lock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, req.Email) {
			s.mu.Unlock()
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
	}
	s.mu.Unlock()
	s.AddUser(req.Name, req.Email, req.Password, api.UserFree)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, req.Email) && a.password == req.Password {
			token := "token-" + string(a.user.ID)
			s.tokens[token] = a.user.ID
			writeJSON(w, http.StatusOK, api.LoginResponse{Token: token, User: a.user})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid email or password")
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func withBody(r *http.Request, body []byte) *http.Request {
	r.Body = io.NopCloser(bytes.NewReader(body))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
