package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// Modal errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrScheduleRequired = errors.New("schedule is required for introductions")
	ErrDuplicateTitle   = errors.New("task with this name already exists in this group")
	ErrReadOnly         = errors.New("completed tasks are read-only")
	ErrNoChanges        = errors.New("nothing to save")
	ErrUnknownTask      = errors.New("task is no longer on the board")
	ErrUnknownGroup     = errors.New("group is no longer on the board")
	ErrBusy             = errors.New("a save is already in progress")
	ErrInvalidPriority  = errors.New("unknown priority")
)

// ModalState is the modal's position in its state machine.
type ModalState int

const (
	StateClosed ModalState = iota
	StateCreate
	StateView
	StateConfirm
	StateSaving
)

func (s ModalState) String() string {
	switch s {
	case StateCreate:
		return "create"
	case StateView:
		return "view"
	case StateConfirm:
		return "confirm"
	case StateSaving:
		return "saving"
	default:
		return "closed"
	}
}

// Field is an editable modal input.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldPriority
	FieldSchedule
	FieldSolution
)

// MutationKind says which remote call a Mutation needs.
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationComplete
	MutationDelete
)

// Mutation is a write the caller must persist, followed by a full reload.
type Mutation struct {
	Kind   MutationKind
	TaskID api.ID
	Create api.CreateTaskRequest
	Update api.UpdateTaskRequest
}

// TaskLookup resolves tasks and groups from the last render.
type TaskLookup interface {
	Task(id api.ID) (api.Task, GroupRef, bool)
	Group(id api.ID) (GroupRef, bool)
	TodoTitles(groupID api.ID) []string
}

// Form holds the modal's input values.
type Form struct {
	Title       string
	Description string
	Priority    api.Priority
	Schedule    string
	Solution    string
}

// Modal drives the create/view/complete/delete flow of a single task.
type Modal struct {
	lookup TaskLookup
	loc    *time.Location
	user   api.ID

	state    ModalState
	group    GroupRef
	task     *api.Task
	form     Form
	busy     bool
	err      error
	returnTo ModalState
}

// NewModal returns a closed modal. user is stamped as creator and completer.
func NewModal(lookup TaskLookup, loc *time.Location, user api.ID) *Modal {
	if loc == nil {
		loc = time.Local
	}
	return &Modal{lookup: lookup, loc: loc, user: user}
}

// SetUser changes the signed-in user.
func (m *Modal) SetUser(id api.ID) { m.user = id }

func (m *Modal) State() ModalState { return m.state }
func (m *Modal) Form() Form        { return m.form }
func (m *Modal) Group() GroupRef   { return m.group }
func (m *Modal) Err() error        { return m.err }
func (m *Modal) Busy() bool        { return m.busy }

// Task returns the snapshot being viewed, or nil.
func (m *Modal) Task() *api.Task {
	return m.task
}

// Done reports whether the viewed task is completed.
func (m *Modal) Done() bool {
	return m.task != nil && m.task.IsDone()
}

// TitleLabel is "Client/Carer Name" for introductions, "Title" otherwise.
func (m *Modal) TitleLabel() string {
	if m.group.Intro {
		return "Client/Carer Name"
	}
	return "Title"
}

// Visible reports whether f is shown in the current state.
func (m *Modal) Visible(f Field) bool {
	switch f {
	case FieldSchedule:
		return m.group.Intro
	case FieldSolution:
		return m.task != nil
	default:
		return m.state != StateClosed
	}
}

// Editable reports whether f accepts input in the current state.
func (m *Modal) Editable(f Field) bool {
	if !m.Visible(f) || m.busy {
		return false
	}
	switch m.state {
	case StateCreate:
		return f != FieldSolution
	case StateView:
		return !m.Done()
	default:
		return false
	}
}

// CanComplete reports whether the complete action is offered.
func (m *Modal) CanComplete() bool {
	return m.state == StateView && !m.Done() && !m.busy
}

// OpenCreate opens an empty form for a new task in groupID.
func (m *Modal) OpenCreate(groupID api.ID) error {
	ref, ok := m.lookup.Group(groupID)
	if !ok {
		return ErrUnknownGroup
	}
	m.reset()
	m.state = StateCreate
	m.group = ref
	m.form.Priority = api.PriorityNormal
	return nil
}

// OpenView shows taskID as it was last rendered.
func (m *Modal) OpenView(taskID api.ID) error {
	t, ref, ok := m.lookup.Task(taskID)
	if !ok {
		return ErrUnknownTask
	}
	m.reset()
	m.state = StateView
	m.group = ref
	m.task = &t
	m.form = Form{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Solution:    t.SolutionText(),
	}
	if at, ok := parsePtr(t.ScheduledAt, m.loc); ok {
		m.form.Schedule = at.Format(StorageLayout)
	}
	return nil
}

// SetField updates one input.
func (m *Modal) SetField(f Field, value string) error {
	if m.state == StateView && m.Done() {
		return ErrReadOnly
	}
	if !m.Editable(f) {
		return fmt.Errorf("field is not editable in %s state", m.state)
	}
	switch f {
	case FieldTitle:
		m.form.Title = value
	case FieldDescription:
		m.form.Description = value
	case FieldPriority:
		p := api.Priority(value)
		if !validPriority(p) {
			return ErrInvalidPriority
		}
		m.form.Priority = p
	case FieldSchedule:
		m.form.Schedule = value
	case FieldSolution:
		m.form.Solution = value
	}
	return nil
}

// Submit validates the create form and returns the task to create.
// Introductions need a schedule and may repeat titles; other groups reject
// a title already used by one of their todo tasks.
func (m *Modal) Submit() (Mutation, error) {
	if m.state != StateCreate {
		return Mutation{}, fmt.Errorf("cannot submit in %s state", m.state)
	}
	if m.busy {
		return Mutation{}, ErrBusy
	}

	title := strings.TrimSpace(m.form.Title)
	if title == "" {
		return Mutation{}, m.fail(ErrTitleRequired)
	}

	req := api.CreateTaskRequest{
		GroupID:     m.group.ID,
		Title:       title,
		Description: strings.TrimSpace(m.form.Description),
		Priority:    m.priority(),
		Status:      api.StatusTodo,
		CreatedBy:   m.user,
	}

	if m.group.Intro {
		sched, err := m.schedule()
		if err != nil {
			return Mutation{}, m.fail(err)
		}
		req.ScheduledAt = &sched
	} else if hasTitle(m.lookup.TodoTitles(m.group.ID), title) {
		return Mutation{}, m.fail(ErrDuplicateTitle)
	}

	m.busy, m.err = true, nil
	return Mutation{Kind: MutationCreate, Create: req}, nil
}

// SaveEdits returns the changed fields of a todo task being viewed.
func (m *Modal) SaveEdits() (Mutation, error) {
	if m.state != StateView || m.task == nil {
		return Mutation{}, fmt.Errorf("cannot save in %s state", m.state)
	}
	if m.Done() {
		return Mutation{}, m.fail(ErrReadOnly)
	}
	if m.busy {
		return Mutation{}, ErrBusy
	}

	var req api.UpdateTaskRequest
	title := strings.TrimSpace(m.form.Title)
	if title == "" {
		return Mutation{}, m.fail(ErrTitleRequired)
	}
	if title != m.task.Title {
		if !m.group.Intro && !strings.EqualFold(title, m.task.Title) && hasTitle(m.lookup.TodoTitles(m.group.ID), title) {
			return Mutation{}, m.fail(ErrDuplicateTitle)
		}
		req.Title = &title
	}
	if desc := strings.TrimSpace(m.form.Description); desc != m.task.Description {
		req.Description = &desc
	}
	if p := m.priority(); p != m.task.Priority {
		req.Priority = &p
	}
	if m.group.Intro {
		sched, err := m.schedule()
		if err != nil {
			return Mutation{}, m.fail(err)
		}
		orig, ok := parsePtr(m.task.ScheduledAt, m.loc)
		if !ok || sched != orig.Format(StorageLayout) {
			req.ScheduledAt = &sched
		}
	}
	if sol := strings.TrimSpace(m.form.Solution); sol != m.task.SolutionText() {
		req.Solution = &sol
	}
	if req.Empty() {
		return Mutation{}, m.fail(ErrNoChanges)
	}

	m.busy, m.err = true, nil
	return Mutation{Kind: MutationUpdate, TaskID: m.task.ID, Update: req}, nil
}

// Complete marks the viewed todo task done at now, keeping any solution
// text typed so far.
func (m *Modal) Complete(now time.Time) (Mutation, error) {
	if m.state != StateView || m.task == nil {
		return Mutation{}, fmt.Errorf("cannot complete in %s state", m.state)
	}
	if m.Done() {
		return Mutation{}, m.fail(ErrReadOnly)
	}
	if m.busy {
		return Mutation{}, ErrBusy
	}

	status := api.StatusDone
	stamp := FormatStorage(now, m.loc)
	req := api.UpdateTaskRequest{Status: &status, CompletedAt: &stamp}
	if m.user != "" {
		user := m.user
		req.CompletedBy = &user
	}
	if sol := strings.TrimSpace(m.form.Solution); sol != "" {
		req.Solution = &sol
	}

	m.busy, m.err = true, nil
	return Mutation{Kind: MutationComplete, TaskID: m.task.ID, Update: req}, nil
}

// RequestDelete asks for confirmation before deleting the viewed task.
func (m *Modal) RequestDelete() error {
	if m.state != StateView || m.task == nil {
		return fmt.Errorf("cannot delete in %s state", m.state)
	}
	if m.busy {
		return ErrBusy
	}
	m.returnTo = m.state
	m.state = StateConfirm
	return nil
}

// ConfirmDelete returns the delete to persist.
func (m *Modal) ConfirmDelete() (Mutation, error) {
	if m.state != StateConfirm || m.task == nil {
		return Mutation{}, fmt.Errorf("cannot confirm in %s state", m.state)
	}
	if m.busy {
		return Mutation{}, ErrBusy
	}
	m.busy = true
	return Mutation{Kind: MutationDelete, TaskID: m.task.ID}, nil
}

// CancelDelete returns to the task view.
func (m *Modal) CancelDelete() {
	if m.state == StateConfirm && !m.busy {
		m.state = m.returnTo
	}
}

// Persisted records that the last mutation was stored; the modal waits for
// the reload before closing.
func (m *Modal) Persisted() {
	if !m.busy {
		return
	}
	m.busy = false
	m.err = nil
	m.state = StateSaving
}

// Failed records that the last mutation was rejected. The form stays open
// with its values so the user can retry.
func (m *Modal) Failed(err error) {
	m.busy = false
	m.err = err
	if m.state == StateConfirm {
		m.state = m.returnTo
	}
}

// ReloadDone closes the modal once the post-save reload has rendered.
func (m *Modal) ReloadDone() {
	if m.state == StateSaving {
		m.reset()
	}
}

// Close discards the modal and everything it held.
func (m *Modal) Close() {
	m.reset()
}

func (m *Modal) reset() {
	m.state = StateClosed
	m.group = GroupRef{}
	m.task = nil
	m.form = Form{}
	m.busy = false
	m.err = nil
	m.returnTo = StateClosed
}

func (m *Modal) fail(err error) error {
	m.err = err
	return err
}

func (m *Modal) priority() api.Priority {
	if validPriority(m.form.Priority) {
		return m.form.Priority
	}
	return api.PriorityNormal
}

func (m *Modal) schedule() (string, error) {
	if strings.TrimSpace(m.form.Schedule) == "" {
		return "", ErrScheduleRequired
	}
	return NormalizeSchedule(m.form.Schedule, m.loc)
}

func validPriority(p api.Priority) bool {
	for _, v := range api.Priorities {
		if v == p {
			return true
		}
	}
	return false
}
