package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := time.ParseInLocation(StorageLayout, s, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return at
}

func modalGrid() *Grid {
	g := boundGrid()
	intro := todo("40", "1", "Mrs Smith", "2024-03-01 08:00:00")
	intro.ScheduledAt = strPtr("2024-03-10T09:00:00.000Z")
	g.Render([]api.Group{
		{ID: "1", Name: "Introduction", Tasks: []api.Task{intro}},
		{ID: "2", Name: "Coordinators", Tasks: []api.Task{
			todo("10", "2", "renew badge", "2024-03-08 09:00:00"),
			todo("14", "2", "Order pads", "2024-03-08 10:00:00"),
			done("11", "2", "Rota", "2024-03-01 09:00:00", "2024-03-09 12:00:00"),
		}},
	})
	return g
}

func TestCreateRejectsDuplicateTitle(t *testing.T) {
	src, srv := newRemote(t)
	g := reconciledGrid(t, src)
	coord := cardByTitle(g, "To Do - Coordinators").GroupID
	srv.AddTask(coord, api.Task{Title: "renew badge"})
	g.Render(src.Groups(context.Background()))
	srv.ResetCalls()

	m := NewModal(g, time.UTC, "1")
	if err := m.OpenCreate(coord); err != nil {
		t.Fatal(err)
	}
	m.SetField(FieldTitle, "Renew badge")

	mut, err := m.Submit()
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
	if mut != (Mutation{}) {
		t.Errorf("expected no mutation, got %+v", mut)
	}
	if len(srv.Writes()) != 0 {
		t.Errorf("expected no remote writes, got %+v", srv.Writes())
	}
	if m.State() != StateCreate || m.Err() == nil {
		t.Errorf("expected form to stay open with error, state %s", m.State())
	}
}

func TestCreateStandardTask(t *testing.T) {
	g := modalGrid()
	m := NewModal(g, time.UTC, "7")

	if err := m.OpenCreate("2"); err != nil {
		t.Fatal(err)
	}
	if m.Visible(FieldSchedule) || m.TitleLabel() != "Title" {
		t.Error("standard groups hide the schedule")
	}

	if _, err := m.Submit(); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}

	m.SetField(FieldTitle, "  Phone Jo  ")
	m.SetField(FieldPriority, string(api.PriorityUrgent))
	mut, err := m.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if mut.Kind != MutationCreate || mut.Create.Title != "Phone Jo" || mut.Create.Priority != api.PriorityUrgent {
		t.Errorf("unexpected mutation %+v", mut)
	}
	if mut.Create.ScheduledAt != nil || mut.Create.CreatedBy != "7" || mut.Create.Status != api.StatusTodo {
		t.Errorf("unexpected create request %+v", mut.Create)
	}

	if _, err := m.Submit(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while saving, got %v", err)
	}
	m.Persisted()
	if m.State() != StateSaving {
		t.Errorf("expected saving, got %s", m.State())
	}
	m.ReloadDone()
	if m.State() != StateClosed || m.Form() != (Form{}) {
		t.Errorf("expected closed and reset, got %s %+v", m.State(), m.Form())
	}
}

func TestCreateIntroduction(t *testing.T) {
	g := modalGrid()
	m := NewModal(g, time.UTC, "7")

	if err := m.OpenCreate("1"); err != nil {
		t.Fatal(err)
	}
	if !m.Visible(FieldSchedule) || m.TitleLabel() != "Client/Carer Name" {
		t.Error("introductions show the schedule and client label")
	}

	m.SetField(FieldTitle, "Mrs Smith")
	if _, err := m.Submit(); !errors.Is(err, ErrScheduleRequired) {
		t.Errorf("expected ErrScheduleRequired, got %v", err)
	}

	m.SetField(FieldSchedule, "2024-03-17T09:00")
	mut, err := m.Submit()
	if err != nil {
		t.Fatalf("repeat client titles are allowed: %v", err)
	}
	if mut.Create.ScheduledAt == nil || *mut.Create.ScheduledAt != "2024-03-17 09:00:00" {
		t.Errorf("expected normalised schedule, got %v", mut.Create.ScheduledAt)
	}
}

func TestViewDoneTaskIsReadOnly(t *testing.T) {
	m := NewModal(modalGrid(), time.UTC, "7")
	if err := m.OpenView("11"); err != nil {
		t.Fatal(err)
	}

	for _, f := range []Field{FieldTitle, FieldDescription, FieldPriority, FieldSolution} {
		if m.Editable(f) {
			t.Errorf("field %d should be read-only", f)
		}
	}
	if err := m.SetField(FieldTitle, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if m.CanComplete() {
		t.Error("done tasks cannot be completed again")
	}
	if _, err := m.Complete(time.Now()); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestViewTodoEditAndComplete(t *testing.T) {
	m := NewModal(modalGrid(), time.UTC, "7")
	if err := m.OpenView("14"); err != nil {
		t.Fatal(err)
	}
	if !m.Editable(FieldSolution) || !m.CanComplete() {
		t.Fatal("todo tasks accept a solution and can be completed")
	}

	if _, err := m.SaveEdits(); !errors.Is(err, ErrNoChanges) {
		t.Errorf("expected ErrNoChanges, got %v", err)
	}

	m.SetField(FieldTitle, "Renew Badge")
	if _, err := m.SaveEdits(); !errors.Is(err, ErrDuplicateTitle) {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}

	m.SetField(FieldTitle, "Order pads")
	m.SetField(FieldDescription, "two boxes")
	mut, err := m.SaveEdits()
	if err != nil {
		t.Fatal(err)
	}
	if mut.Update.Title != nil || mut.Update.Description == nil || *mut.Update.Description != "two boxes" {
		t.Errorf("expected only the description to change, got %+v", mut.Update)
	}
	m.Failed(errors.New("offline"))
	if m.State() != StateView || m.Busy() || m.Form().Description != "two boxes" {
		t.Errorf("expected form kept after failure, got %s %+v", m.State(), m.Form())
	}

	m.SetField(FieldSolution, "  delivered  ")
	mut, err = m.Complete(mustTime(t, "2024-03-10 14:05:00"))
	if err != nil {
		t.Fatal(err)
	}
	u := mut.Update
	if mut.Kind != MutationComplete || *u.Status != api.StatusDone || *u.CompletedAt != "2024-03-10 14:05:00" {
		t.Errorf("unexpected completion %+v", u)
	}
	if u.CompletedBy == nil || *u.CompletedBy != "7" || *u.Solution != "delivered" {
		t.Errorf("expected completer and solution, got %+v", u)
	}
}

func TestIntroScheduleRoundTrips(t *testing.T) {
	m := NewModal(modalGrid(), time.UTC, "7")
	if err := m.OpenView("40"); err != nil {
		t.Fatal(err)
	}
	if m.Form().Schedule != "2024-03-10 09:00:00" {
		t.Errorf("expected schedule in storage format, got %q", m.Form().Schedule)
	}
	m.SetField(FieldDescription, "daughter present")
	mut, err := m.SaveEdits()
	if err != nil {
		t.Fatal(err)
	}
	if mut.Update.ScheduledAt != nil {
		t.Errorf("unchanged schedule must not be sent, got %q", *mut.Update.ScheduledAt)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := NewModal(modalGrid(), time.UTC, "7")
	if _, err := m.ConfirmDelete(); err == nil {
		t.Error("expected error confirming without a request")
	}

	m.OpenView("10")
	if err := m.RequestDelete(); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateConfirm {
		t.Fatalf("expected confirm, got %s", m.State())
	}
	m.CancelDelete()
	if m.State() != StateView {
		t.Fatalf("expected back in view, got %s", m.State())
	}

	m.RequestDelete()
	mut, err := m.ConfirmDelete()
	if err != nil || mut.Kind != MutationDelete || mut.TaskID != "10" {
		t.Fatalf("unexpected delete %+v, %v", mut, err)
	}
	m.Persisted()
	m.ReloadDone()
	if m.State() != StateClosed || m.Task() != nil {
		t.Errorf("expected closed modal, got %s", m.State())
	}
}

func TestOpenUnknown(t *testing.T) {
	m := NewModal(modalGrid(), time.UTC, "7")
	if err := m.OpenView("999"); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
	if err := m.OpenCreate("999"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestGroupHelpers(t *testing.T) {
	at := time.UnixMilli(1710000004821)
	if got := NewGroupName(at); got != "Group 4821" {
		t.Errorf("expected Group 4821, got %q", got)
	}
	if _, err := ValidateRename(GroupRef{Fixed: true}, "x"); !errors.Is(err, ErrFixedGroup) {
		t.Errorf("expected ErrFixedGroup, got %v", err)
	}
	if _, err := ValidateRename(GroupRef{}, "Sick"); err == nil {
		t.Error("expected reserved name rejected")
	}
	if name, err := ValidateRename(GroupRef{}, "  Night shift "); err != nil || name != "Night shift" {
		t.Errorf("unexpected rename result %q, %v", name, err)
	}
}
