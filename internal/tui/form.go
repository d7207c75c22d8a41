package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/board"
)

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

func newPasswordInput(placeholder string) textinput.Model {
	in := newInput(placeholder, 128)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

// loginForm is the sign-in screen.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	remember bool
	focus    int
	busy     bool
	err      string
}

const (
	loginEmail = iota
	loginPassword
	loginRemember
	loginFieldCount
)

func newLoginForm(rememberedEmail string) *loginForm {
	f := &loginForm{
		email:    newInput("you@example.com", 254),
		password: newPasswordInput("Password"),
	}
	if rememberedEmail != "" {
		f.email.SetValue(rememberedEmail)
		f.remember = true
		f.focus = loginPassword
	}
	f.focusCurrent()
	return f
}

func (f *loginForm) focusCurrent() {
	f.email.Blur()
	f.password.Blur()
	switch f.focus {
	case loginEmail:
		f.email.Focus()
	case loginPassword:
		f.password.Focus()
	}
}

// Update handles a key press. submit is true when the form should be sent.
func (f *loginForm) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	if f.busy {
		return false, nil
	}
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % loginFieldCount
		f.focusCurrent()
		return false, nil
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + loginFieldCount) % loginFieldCount
		f.focusCurrent()
		return false, nil
	case "enter":
		if strings.TrimSpace(f.email.Value()) == "" || f.password.Value() == "" {
			f.err = "Email and password are required"
			return false, nil
		}
		f.err = ""
		f.busy = true
		return true, nil
	case " ":
		if f.focus == loginRemember {
			f.remember = !f.remember
			return false, nil
		}
	}

	switch f.focus {
	case loginEmail:
		f.email, cmd = f.email.Update(msg)
	case loginPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return false, cmd
}

// registerForm is the account creation screen.
type registerForm struct {
	inputs []textinput.Model
	focus  int
	busy   bool
	err    string
}

const (
	registerName = iota
	registerEmail
	registerPassword
	registerConfirm
)

func newRegisterForm() *registerForm {
	f := &registerForm{
		inputs: []textinput.Model{
			newInput("Your name", 100),
			newInput("you@example.com", 254),
			newPasswordInput("Password"),
			newPasswordInput("Confirm password"),
		},
	}
	f.focusCurrent()
	return f
}

func (f *registerForm) focusCurrent() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *registerForm) value(i int) string {
	return f.inputs[i].Value()
}

// validate checks the form before it is sent.
func (f *registerForm) validate() error {
	email := strings.TrimSpace(f.value(registerEmail))
	switch {
	case email == "" || f.value(registerPassword) == "":
		return errors.New("email and password are required")
	case !strings.Contains(email, "@"):
		return errors.New("enter a valid email address")
	case f.value(registerPassword) != f.value(registerConfirm):
		return errors.New("passwords do not match")
	}
	return nil
}

// Update handles a key press. submit is true when the form should be sent.
func (f *registerForm) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	if f.busy {
		return false, nil
	}
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.inputs)
		f.focusCurrent()
		return false, nil
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
		f.focusCurrent()
		return false, nil
	case "enter":
		if err := f.validate(); err != nil {
			f.err = err.Error()
			return false, nil
		}
		f.err = ""
		f.busy = true
		return true, nil
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

// taskForm holds the text inputs of the task window. Every edit is pushed
// into the board modal, which owns validation.
type taskForm struct {
	inputs [board.FieldSolution + 1]textinput.Model
	focus  board.Field
}

var fieldOrder = []board.Field{
	board.FieldTitle,
	board.FieldDescription,
	board.FieldPriority,
	board.FieldSchedule,
	board.FieldSolution,
}

func newTaskForm(m *board.Modal) *taskForm {
	f := &taskForm{}
	f.inputs[board.FieldTitle] = newInput(m.TitleLabel(), 200)
	f.inputs[board.FieldDescription] = newInput("Description (optional)", 2000)
	f.inputs[board.FieldSchedule] = newInput("2024-03-10 09:00", 19)
	f.inputs[board.FieldSolution] = newInput("How was it solved? (optional)", 2000)

	form := m.Form()
	f.inputs[board.FieldTitle].SetValue(form.Title)
	f.inputs[board.FieldDescription].SetValue(form.Description)
	f.inputs[board.FieldSchedule].SetValue(form.Schedule)
	f.inputs[board.FieldSolution].SetValue(form.Solution)

	f.focus = board.FieldTitle
	if fields := f.fields(m); len(fields) > 0 {
		f.focus = fields[0]
	}
	f.focusCurrent()
	return f
}

// fields lists the editable fields in tab order.
func (f *taskForm) fields(m *board.Modal) []board.Field {
	var out []board.Field
	for _, fld := range fieldOrder {
		if m.Editable(fld) {
			out = append(out, fld)
		}
	}
	return out
}

func (f *taskForm) focusCurrent() {
	for i := range f.inputs {
		if board.Field(i) == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *taskForm) move(m *board.Modal, delta int) {
	fields := f.fields(m)
	if len(fields) == 0 {
		return
	}
	idx := 0
	for i, fld := range fields {
		if fld == f.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	f.focus = fields[idx]
	f.focusCurrent()
}

// Update forwards a key to the focused input and mirrors the value into m.
func (f *taskForm) Update(m *board.Modal, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.move(m, 1)
		return nil
	case "shift+tab", "up":
		f.move(m, -1)
		return nil
	}
	if !m.Editable(f.focus) {
		return nil
	}

	if f.focus == board.FieldPriority {
		delta := 0
		switch msg.String() {
		case "left", "h":
			delta = -1
		case "right", "l", " ":
			delta = 1
		}
		if delta != 0 {
			_ = m.SetField(board.FieldPriority, string(cyclePriority(m.Form().Priority, delta)))
		}
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	_ = m.SetField(f.focus, f.inputs[f.focus].Value())
	return cmd
}

func cyclePriority(p api.Priority, delta int) api.Priority {
	idx := 1
	for i, v := range api.Priorities {
		if v == p {
			idx = i
			break
		}
	}
	n := len(api.Priorities)
	return api.Priorities[(idx+delta+n)%n]
}
