package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/board"
	"github.com/hy4ri/whiteboard-tui/internal/data"
	"github.com/hy4ri/whiteboard-tui/internal/session"
	"github.com/sirupsen/logrus"
)

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Reserve space for the header (2 lines) and status bar (1 line).
		vpHeight := msg.Height - 3
		if vpHeight < 5 {
			vpHeight = 5
		}
		vpWidth := a.boardWidth()
		if !a.viewportReady {
			a.viewport = viewport.New(vpWidth, vpHeight)
			a.viewport.Style = lipgloss.NewStyle()
			a.viewport.MouseWheelEnabled = true
			a.viewportReady = true
		} else {
			a.viewport.Width = vpWidth
			a.viewport.Height = vpHeight
		}
		a.refreshViewport()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.FocusMsg:
		// Coming back to the terminal refreshes whatever went stale.
		if a.screen != ScreenBoard {
			return a, nil
		}
		a.lifecycle.Polled(a.now())
		return a, a.requestReload()

	case reloadedMsg:
		return a, a.handleReloaded(msg)

	case mutationDoneMsg:
		return a, a.handleMutationDone(msg)

	case groupDoneMsg:
		if a.screen != ScreenBoard {
			return a, nil
		}
		return a, tea.Batch(a.showToast(msg.text(), msg.err != nil), a.requestReload())

	case usersLoadedMsg:
		var cmd tea.Cmd
		if msg.statusErr != nil {
			cmd = a.showToast(msg.statusErr.Error(), true)
		}
		if a.screen == ScreenBoard {
			a.setUsers(msg.users)
		}
		return a, cmd

	case loginDoneMsg:
		return a, a.handleLoginDone(msg)

	case registerDoneMsg:
		return a, a.handleRegisterDone(msg)

	case lifecycleTickMsg:
		return a, a.handleTick(msg)

	case toastMsg:
		return a, a.showToast(msg.text, msg.err)

	case toastExpiredMsg:
		if msg.gen == a.toastGen {
			a.toast = ""
			a.toastErr = false
		}
		return a, nil

	case SessionExpiredMsg:
		if a.screen != ScreenBoard {
			return a, nil
		}
		a.log.Warn("session rejected by server")
		return a, a.signOut("Your session has expired, please log in again")
	}

	return a, nil
}

func (a *App) handleReloaded(msg reloadedMsg) tea.Cmd {
	if a.screen != ScreenBoard {
		return nil
	}
	if msg.seq <= a.epoch {
		// Issued for a previous session.
		return nil
	}
	if msg.reconcile {
		a.reconciling = false
	}
	if msg.reconciled {
		a.reconciled = true
		a.grid.Bind(msg.bindings)
	}
	a.loading = false

	var cmds []tea.Cmd
	if msg.err != nil {
		cmds = append(cmds, a.showToast("Could not load the board", true))
	}

	a.setUsers(msg.users)
	for _, g := range a.grid.Render(msg.groups) {
		cmds = append(cmds, a.purgeCmd(g))
	}

	if msg.seq >= a.savedSeq {
		a.modal.ReloadDone()
	}
	if a.modal.State() == board.StateClosed {
		a.task = nil
	}

	a.log.WithFields(logrus.Fields{
		"seq":    msg.seq,
		"groups": len(msg.groups),
		"tasks":  a.grid.Len(),
	}).Debug("board rendered")

	a.clampCursors()
	a.refreshViewport()
	return tea.Batch(cmds...)
}

func (a *App) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if a.screen != ScreenBoard {
		return nil
	}
	if msg.err != nil {
		a.modal.Failed(msg.err)
		return tea.Batch(a.showToast("Save failed: "+msg.err.Error(), true), a.requestReload())
	}
	a.modal.Persisted()
	reload := a.requestReload()
	a.savedSeq = a.reloadSeq
	return tea.Batch(a.showToast(msg.success(), false), reload)
}

func (a *App) handleLoginDone(msg loginDoneMsg) tea.Cmd {
	a.login.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, data.ErrInvalidCredentials) {
			a.login.err = "Invalid email or password"
		} else {
			a.login.err = "Could not reach the server"
		}
		return nil
	}

	sess := &session.Session{Token: msg.resp.Token, User: msg.resp.User}
	if err := a.store.Save(*sess, msg.remember); err != nil {
		a.log.WithError(err).Warn("failed to persist session")
	}
	remembered := ""
	if msg.remember {
		remembered = msg.email
	}
	if err := a.store.SetRememberedEmail(remembered); err != nil {
		a.log.WithError(err).Warn("failed to update remembered email")
	}

	a.resetBoard()
	a.signIn(sess)
	a.log.WithField("user", sess.User.ID).Info("signed in")
	return tea.Batch(a.startBoard(), a.showToast("Welcome, "+sess.User.DisplayName(), false))
}

func (a *App) handleRegisterDone(msg registerDoneMsg) tea.Cmd {
	a.register.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, data.ErrEmailTaken) {
			a.register.err = "That email is already registered"
		} else {
			a.register.err = msg.err.Error()
		}
		return nil
	}
	a.register = newRegisterForm()
	a.login = newLoginForm(msg.email)
	a.screen = ScreenLogin
	return a.showToast("Account created, please log in", false)
}

func (a *App) handleTick(msg lifecycleTickMsg) tea.Cmd {
	if msg.gen != a.tickGen || !a.lifecycle.Running() {
		return nil
	}
	due := a.lifecycle.Due(msg.at)
	if due.Logout {
		a.log.Info("daily logout")
		return a.signOut("Signed out for the day")
	}
	cmds := []tea.Cmd{tickCmd(a.tickGen, a.lifecycle.NextWake(msg.at))}
	if due.Poll {
		cmds = append(cmds, a.requestReload())
	}
	return tea.Batch(cmds...)
}

// setUsers replaces the users list and the name cache, and refreshes the
// signed-in user's own record.
func (a *App) setUsers(users []api.User) {
	a.users = users
	a.names.Replace(users)
	if a.sess != nil {
		for _, u := range users {
			if u.ID == a.sess.User.ID {
				a.sess.User = u
				a.store.UpdateUser(u)
				break
			}
		}
	}
	if a.userCursor >= len(a.users) {
		a.userCursor = len(a.users) - 1
	}
	if a.userCursor < 0 {
		a.userCursor = 0
	}
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch a.screen {
	case ScreenLogin:
		return a.handleLoginKey(msg)
	case ScreenRegister:
		return a.handleRegisterKey(msg)
	}

	switch {
	case a.showHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		}
		return nil
	case a.modal.State() != board.StateClosed:
		return a.handleModalKey(msg)
	case a.dialog != dialogNone:
		return a.handleDialogKey(msg)
	case a.filtering:
		return a.handleFilterKey(msg)
	}
	return a.handleBoardKey(msg)
}

func (a *App) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+r":
		if !a.login.busy {
			a.screen = ScreenRegister
			a.register.err = ""
		}
		return textinput.Blink
	case "esc":
		return tea.Quit
	}
	submit, cmd := a.login.Update(msg)
	if submit {
		return a.loginCmd(a.login.email.Value(), a.login.password.Value(), a.login.remember)
	}
	return cmd
}

func (a *App) handleRegisterKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		if !a.register.busy {
			a.screen = ScreenLogin
		}
		return textinput.Blink
	}
	submit, cmd := a.register.Update(msg)
	if submit {
		f := a.register
		return a.registerCmd(f.value(registerName), f.value(registerEmail), f.value(registerPassword))
	}
	return cmd
}

func (a *App) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	m := a.modal
	if m.Busy() || m.State() == board.StateSaving {
		return nil
	}

	if m.State() == board.StateConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			mut, err := m.ConfirmDelete()
			if err != nil {
				return a.showToast(err.Error(), true)
			}
			return a.persist(mut)
		case "n", "N", "esc":
			m.CancelDelete()
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		m.Close()
		a.task = nil
		return nil
	case "ctrl+s", "enter":
		var (
			mut board.Mutation
			err error
		)
		if m.State() == board.StateCreate {
			mut, err = m.Submit()
		} else {
			if m.Done() {
				m.Close()
				a.task = nil
				return nil
			}
			mut, err = m.SaveEdits()
		}
		if err != nil {
			return a.showToast(err.Error(), true)
		}
		return a.persist(mut)
	case "ctrl+o":
		if !m.CanComplete() {
			return nil
		}
		mut, err := m.Complete(a.now())
		if err != nil {
			return a.showToast(err.Error(), true)
		}
		return a.persist(mut)
	case "ctrl+x":
		if m.State() == board.StateView {
			_ = m.RequestDelete()
		}
		return nil
	case "ctrl+y":
		form := m.Form()
		text := form.Title
		if form.Description != "" {
			text += "\n\n" + form.Description
		}
		return copyCmd(text, "task")
	}

	if a.task == nil {
		a.task = newTaskForm(m)
	}
	return a.task.Update(m, msg)
}

func (a *App) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch a.dialog {
	case dialogRenameGroup:
		switch msg.String() {
		case "esc":
			a.closeDialog()
			return nil
		case "enter":
			name, err := board.ValidateRename(a.dialogGroup, a.groupInput.Value())
			if err != nil {
				return a.showToast(err.Error(), true)
			}
			id := a.dialogGroup.ID
			a.closeDialog()
			if name == a.dialogGroup.Name {
				return nil
			}
			return a.renameGroupCmd(id, name)
		}
		var cmd tea.Cmd
		a.groupInput, cmd = a.groupInput.Update(msg)
		return cmd

	case dialogDeleteGroup:
		switch msg.String() {
		case "y", "Y", "enter":
			ref := a.dialogGroup
			a.closeDialog()
			return a.deleteGroupCmd(ref.ID, ref.Name)
		case "n", "N", "esc":
			a.closeDialog()
		}
		return nil

	case dialogStatus:
		switch msg.String() {
		case "j", "down":
			if a.statusCursor < len(api.UserStatuses)-1 {
				a.statusCursor++
			}
		case "k", "up":
			if a.statusCursor > 0 {
				a.statusCursor--
			}
		case "enter":
			status := api.UserStatuses[a.statusCursor]
			a.closeDialog()
			return a.changeStatus(status)
		case "esc", "q":
			a.closeDialog()
		}
	}
	return nil
}

func (a *App) closeDialog() {
	a.dialog = dialogNone
	a.groupInput.Blur()
}

// changeStatus shows the new status at once and then stores it.
func (a *App) changeStatus(status api.UserStatus) tea.Cmd {
	if a.sess == nil {
		return nil
	}
	for i := range a.users {
		if a.users[i].ID == a.sess.User.ID {
			a.users[i].Status = status
		}
	}
	a.sess.User.Status = status
	a.store.UpdateUser(a.sess.User)
	return a.setStatusCmd(status)
}

func (a *App) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.filtering = false
		a.filterInput.Blur()
		a.filterInput.SetValue("")
		a.applyFilter("")
		return nil
	case "enter":
		a.filtering = false
		a.filterInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.applyFilter(a.filterInput.Value())
	return cmd
}

func (a *App) applyFilter(query string) {
	a.grid.ApplyFilter(query)
	a.clampCursors()
	a.refreshViewport()
}

func (a *App) handleBoardKey(msg tea.KeyMsg) tea.Cmd {
	action, ok := a.keyState.HandleKey(msg, a.keymap)
	if !ok || action == "" {
		return nil
	}

	if a.pane == PaneUsers {
		switch action {
		case "up":
			if a.userCursor > 0 {
				a.userCursor--
			}
			return nil
		case "down":
			if a.userCursor < len(a.users)-1 {
				a.userCursor++
			}
			return nil
		case "select":
			if a.userCursor < len(a.users) && a.users[a.userCursor].ID == a.me() {
				a.openStatusDialog()
			}
			return nil
		}
	}

	switch action {
	case "quit":
		return tea.Quit
	case "help":
		a.showHelp = true
	case "switch_pane":
		if a.pane == PaneBoard {
			a.pane = PaneUsers
		} else {
			a.pane = PaneBoard
		}
		a.refreshViewport()
	case "up":
		if a.rowCursor > 0 {
			a.rowCursor--
		}
		a.refreshViewport()
	case "down":
		a.rowCursor++
		a.clampCursors()
		a.refreshViewport()
	case "top":
		a.rowCursor = 0
		a.refreshViewport()
	case "bottom":
		a.rowCursor = len(a.taskRows(a.selectedCard())) - 1
		a.clampCursors()
		a.refreshViewport()
	case "left":
		if a.cardCursor > 0 {
			a.cardCursor--
			a.rowCursor = 0
		}
		a.refreshViewport()
	case "right":
		if a.cardCursor < len(a.grid.VisibleCards())-1 {
			a.cardCursor++
			a.rowCursor = 0
		}
		a.refreshViewport()
	case "select":
		return a.openSelectedTask()
	case "add":
		card := a.selectedCard()
		if card == nil {
			return nil
		}
		if err := a.modal.OpenCreate(card.GroupID); err != nil {
			return a.showToast(err.Error(), true)
		}
		a.task = newTaskForm(a.modal)
		return textinput.Blink
	case "delete":
		if cmd := a.openSelectedTask(); cmd != nil || a.modal.State() != board.StateView {
			return cmd
		}
		if err := a.modal.RequestDelete(); err != nil {
			return a.showToast(err.Error(), true)
		}
	case "copy":
		if it := a.selectedItem(); it != nil {
			return copyCmd(it.Label, fmt.Sprintf("%q", it.Label))
		}
	case "search":
		a.filtering = true
		a.filterInput.SetValue(a.grid.Query())
		a.filterInput.Focus()
		return textinput.Blink
	case "back":
		if a.grid.Query() != "" {
			a.filterInput.SetValue("")
			a.applyFilter("")
		}
	case "refresh":
		a.lifecycle.Polled(a.now())
		return a.requestReload()
	case "logout":
		return a.signOut("Logged out")
	case "status":
		a.openStatusDialog()
	case "new_group":
		return a.createGroupCmd(board.NewGroupName(a.now()), board.PickColor(a.rng))
	case "rename_group":
		ref, ok := a.selectedGroup()
		if !ok {
			return nil
		}
		if ref.Fixed {
			return a.showToast(board.ErrFixedGroup.Error(), true)
		}
		a.dialog = dialogRenameGroup
		a.dialogGroup = ref
		a.groupInput.SetValue(ref.Name)
		a.groupInput.CursorEnd()
		a.groupInput.Focus()
		return textinput.Blink
	case "delete_group":
		ref, ok := a.selectedGroup()
		if !ok {
			return nil
		}
		if err := board.ValidateDelete(ref); err != nil {
			return a.showToast(err.Error(), true)
		}
		a.dialog = dialogDeleteGroup
		a.dialogGroup = ref
	}
	return nil
}

func (a *App) openStatusDialog() {
	if a.sess == nil {
		return
	}
	a.dialog = dialogStatus
	a.statusCursor = 0
	for i, s := range api.UserStatuses {
		if s == a.sess.User.Status {
			a.statusCursor = i
		}
	}
}

// openSelectedTask opens the task under the cursor. It returns a command
// only when the task could not be opened.
func (a *App) openSelectedTask() tea.Cmd {
	it := a.selectedItem()
	if it == nil {
		return nil
	}
	if err := a.modal.OpenView(it.TaskID); err != nil {
		return a.showToast(err.Error(), true)
	}
	a.task = newTaskForm(a.modal)
	return nil
}

func (a *App) selectedCard() *board.Card {
	cards := a.grid.VisibleCards()
	if a.cardCursor < 0 || a.cardCursor >= len(cards) {
		return nil
	}
	return cards[a.cardCursor]
}

func (a *App) selectedGroup() (board.GroupRef, bool) {
	card := a.selectedCard()
	if card == nil {
		return board.GroupRef{}, false
	}
	return a.grid.Group(card.GroupID)
}

// taskRows returns the visible task rows of card, skipping date headers.
func (a *App) taskRows(card *board.Card) []board.Item {
	if card == nil {
		return nil
	}
	var out []board.Item
	for _, it := range card.VisibleItems() {
		if !it.IsHeader() {
			out = append(out, it)
		}
	}
	return out
}

func (a *App) selectedItem() *board.Item {
	rows := a.taskRows(a.selectedCard())
	if a.rowCursor < 0 || a.rowCursor >= len(rows) {
		return nil
	}
	return &rows[a.rowCursor]
}

func (a *App) clampCursors() {
	cards := a.grid.VisibleCards()
	if a.cardCursor >= len(cards) {
		a.cardCursor = len(cards) - 1
	}
	if a.cardCursor < 0 {
		a.cardCursor = 0
	}
	rows := a.taskRows(a.selectedCard())
	if a.rowCursor >= len(rows) {
		a.rowCursor = len(rows) - 1
	}
	if a.rowCursor < 0 {
		a.rowCursor = 0
	}
}
