package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/board"
	"github.com/hy4ri/whiteboard-tui/internal/tui/styles"
)

const (
	minCardWidth     = 34
	usersPanelWidth  = 30
	wideLayoutWidth  = 100
	modalMaxWidth    = 72
	checkboxChecked  = "[x]"
	checkboxUnticked = "[ ]"

	deleteWarning = "This cannot be undone."
)

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.screen {
	case ScreenLogin:
		return a.renderLogin()
	case ScreenRegister:
		return a.renderRegister()
	}

	body := a.viewport.View()
	if a.usersPanelShown() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, a.renderUsers(a.viewport.Height))
	}

	switch {
	case a.showHelp:
		body = overlay(body, a.renderHelp(), a.width)
	case a.modal.State() != board.StateClosed:
		body = overlay(body, a.renderModal(), a.width)
	case a.dialog != dialogNone:
		body = overlay(body, a.renderDialog(), a.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderStatusBar())
}

func (a *App) usersPanelShown() bool {
	return a.width >= wideLayoutWidth || a.pane == PaneUsers
}

func (a *App) boardWidth() int {
	w := a.width
	if a.usersPanelShown() {
		w -= usersPanelWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// refreshViewport repaints the board into the viewport and scrolls the
// selected row into view.
func (a *App) refreshViewport() {
	if !a.viewportReady {
		return
	}
	a.viewport.Width = a.boardWidth()
	content, sel := a.renderBoard(a.viewport.Width)
	a.viewport.SetContent(content)

	switch {
	case sel < a.viewport.YOffset:
		a.viewport.SetYOffset(sel)
	case sel >= a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(sel - a.viewport.Height + 2)
	}
}

// renderBoard lays the visible cards out in rows and returns the content
// with the line number of the selected row.
func (a *App) renderBoard(width int) (string, int) {
	cards := a.grid.VisibleCards()
	if len(cards) == 0 {
		switch {
		case a.loading:
			return styles.Empty.Render("Loading board..."), 0
		case a.grid.Query() != "":
			return styles.Empty.Render("Nothing matches \"" + a.grid.Query() + "\""), 0
		default:
			return styles.Empty.Render("No groups yet. Press N to add one."), 0
		}
	}

	cols := width / minCardWidth
	if cols < 1 {
		cols = 1
	}
	if cols > len(cards) {
		cols = len(cards)
	}
	cardWidth := width / cols

	var rows []string
	line, sel := 0, 0
	for i := 0; i < len(cards); i += cols {
		var rendered []string
		for j := i; j < i+cols && j < len(cards); j++ {
			focused := j == a.cardCursor && a.pane == PaneBoard
			card, selLine := a.renderCard(cards[j], focused, cardWidth)
			if j == a.cardCursor {
				sel = line + selLine
			}
			rendered = append(rendered, card)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
		rows = append(rows, row)
		line += lipgloss.Height(row)
	}
	return strings.Join(rows, "\n"), sel
}

// renderCard returns the framed card and the line of its selected row.
func (a *App) renderCard(c *board.Card, focused bool, width int) (string, int) {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	title := styles.CardTitle.Foreground(styles.GroupColor(c.Color)).Render(truncateString(c.Title(), inner))
	lines := []string{title}
	selLine := 0

	items := c.VisibleItems()
	if len(items) == 0 {
		lines = append(lines, styles.Empty.Render("No tasks"))
	}
	row := 0
	for _, it := range items {
		if it.IsHeader() {
			lines = append(lines, styles.DateGroupHeader.Render(truncateString(it.Label, inner)))
			continue
		}
		selected := focused && row == a.rowCursor
		if selected {
			// +1 for the top border.
			selLine = len(lines) + 1
		}
		lines = append(lines, renderRow(it, selected, inner)...)
		row++
	}

	return styles.CardBorder(c.Color, focused).Width(width - 2).Render(strings.Join(lines, "\n")), selLine
}

func renderRow(it board.Item, selected bool, inner int) []string {
	style := styles.TaskItem
	if selected {
		style = styles.TaskSelected
	}

	var head string
	if it.Intro && it.Time != "" {
		label := truncateString(it.Label, inner-len(it.Time)-3)
		head = styles.IntroTime.Render(it.Time) + " " + style.Render(label)
	} else {
		head = style.Render(truncateString(it.Label, inner-2))
	}
	out := []string{styles.PriorityDot(it.Priority) + " " + head}

	sub := it.Note
	if it.Intro {
		sub = it.Subtitle
	}
	if sub != "" {
		out = append(out, "  "+styles.Faint.Render(truncateString(sub, inner-2)))
	}
	return out
}

func (a *App) renderUsers(height int) string {
	inner := usersPanelWidth - 4
	lines := []string{styles.Title.Render("Team")}
	if len(a.users) == 0 {
		lines = append(lines, styles.Empty.Render("No teammates"))
	}
	for i, u := range a.users {
		mine := u.ID == a.me()
		limit := inner - 2
		if mine {
			limit -= len(" (You)")
		}
		name := truncateString(u.DisplayName(), limit)
		if a.pane == PaneUsers && i == a.userCursor {
			name = styles.TaskSelected.Render(name)
		}
		if mine {
			name += styles.Me.Render(" (You)")
		}
		lines = append(lines,
			styles.StatusDot(u.Status)+" "+name,
			"  "+styles.Faint.Render(string(u.Status)),
		)
	}

	style := styles.UsersPanel
	if a.pane == PaneUsers {
		style = styles.UsersPanelFocused
	}
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Width(usersPanelWidth - 2).Render(strings.Join(lines, "\n"))
}

func (a *App) renderHeader() string {
	left := styles.Title.Render("Whiteboard")
	if a.sess != nil {
		left += "  " + styles.StatusDot(a.sess.User.Status) + " " + a.sess.User.DisplayName()
	}
	if a.loading {
		left += "  " + a.spinner.View()
	}

	var right string
	switch {
	case a.filtering:
		right = a.filterInput.View()
	case a.grid.Query() != "":
		right = styles.Subtitle.Render("filter: " + a.grid.Query() + " (esc clears)")
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	rule := styles.Subtitle.Render(strings.Repeat("─", a.width))
	return left + strings.Repeat(" ", gap) + right + "\n" + rule
}

func (a *App) renderStatusBar() string {
	if a.toast != "" {
		if a.toastErr {
			return styles.ToastError.Render(truncateString(a.toast, a.width-2))
		}
		return styles.ToastSuccess.Render(truncateString(a.toast, a.width-2))
	}

	hints := [][2]string{
		{"enter", "open"},
		{a.keymap.AddTask.Key, "add"},
		{a.keymap.Search.Key, "filter"},
		{a.keymap.NewGroup.Key, "group"},
		{a.keymap.SwitchPane.Key, "team"},
		{a.keymap.SetStatus.Key, "status"},
		{a.keymap.Help.Key, "help"},
		{a.keymap.Quit.Key, "quit"},
	}
	var parts []string
	for _, h := range hints {
		parts = append(parts, styles.StatusBarKey.Render(h[0])+styles.StatusBarText.Render(" "+h[1]))
	}
	bar := strings.Join(parts, styles.StatusBarText.Render(" • "))
	if a.lifecycle.Running() {
		bar += styles.StatusBarText.Render("  │ logout " + a.lifecycle.LogoutAt().In(a.loc).Format("15:04"))
	}
	return styles.StatusBar.Width(a.width).Render(bar)
}

func (a *App) modalWidth() int {
	w := a.width - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a *App) renderModal() string {
	m := a.modal
	width := a.modalWidth()
	inner := width - 6

	if m.State() == board.StateConfirm {
		body := styles.DialogTitle.Foreground(styles.ErrorColor).Render("Delete task?") + "\n" +
			fmt.Sprintf("%q will be permanently deleted for everyone.", truncateString(m.Form().Title, max(inner-40, 12))) + "\n" +
			deleteWarning + "\n\n" +
			styles.HelpDesc.Render("y: delete • n: cancel")
		if m.Busy() {
			body += "\n" + a.spinner.View() + " Deleting..."
		}
		return styles.DangerDialog.Width(width).Render(body)
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(a.modalTitle()))
	b.WriteString("\n")

	if m.State() == board.StateSaving || m.Busy() {
		b.WriteString(a.spinner.View() + " Saving...")
		return styles.Dialog.Width(width).Render(b.String())
	}

	for _, f := range fieldOrder {
		if !m.Visible(f) {
			continue
		}
		b.WriteString(styles.InputLabel.Render(a.fieldLabel(f)))
		b.WriteString("\n")
		b.WriteString(a.fieldView(f, inner))
		b.WriteString("\n")
	}

	if meta := a.taskMeta(); meta != "" {
		b.WriteString(styles.Faint.Render(meta))
		b.WriteString("\n")
	}
	if err := m.Err(); err != nil {
		b.WriteString("\n" + styles.ErrorText.Render(err.Error()) + "\n")
	}

	var hint string
	switch {
	case m.State() == board.StateCreate:
		hint = "enter: save • tab: next field • esc: cancel"
	case m.Done():
		hint = "ctrl+y: copy • esc: close"
	default:
		hint = "ctrl+s: save • ctrl+o: done • ctrl+x: delete • ctrl+y: copy • esc: close"
	}
	b.WriteString("\n" + styles.HelpDesc.Render(hint))
	return styles.Dialog.Width(width).Render(b.String())
}

func (a *App) modalTitle() string {
	m := a.modal
	group := m.Group().Name
	switch {
	case m.State() == board.StateCreate:
		return "New task · " + group
	case m.Done():
		return "Completed task · " + group
	default:
		return "Task · " + group
	}
}

func (a *App) fieldLabel(f board.Field) string {
	switch f {
	case board.FieldTitle:
		return a.modal.TitleLabel()
	case board.FieldDescription:
		return "Description"
	case board.FieldPriority:
		return "Priority"
	case board.FieldSchedule:
		return "Scheduled for (YYYY-MM-DD HH:MM)"
	default:
		return "Solution"
	}
}

func (a *App) fieldView(f board.Field, inner int) string {
	m := a.modal
	form := m.Form()
	editable := m.Editable(f) && a.task != nil
	focused := editable && a.task.focus == f

	if f == board.FieldPriority {
		label := styles.PriorityLabel(form.Priority)
		if !editable {
			return label
		}
		if focused {
			return styles.HelpKey.Render("‹ ") + label + styles.HelpKey.Render(" ›")
		}
		return "‹ " + label + " ›"
	}

	if editable {
		style := styles.Input
		if focused {
			style = styles.InputFocused
		}
		return style.Width(inner - 2).Render(a.task.inputs[f].View())
	}

	var value string
	switch f {
	case board.FieldTitle:
		value = form.Title
	case board.FieldDescription:
		value = form.Description
	case board.FieldSchedule:
		value = form.Schedule
	case board.FieldSolution:
		value = form.Solution
	}
	if strings.TrimSpace(value) == "" {
		return styles.Faint.Render("—")
	}
	if f == board.FieldDescription || f == board.FieldSolution {
		return renderMarkdown(value, inner)
	}
	return styles.ReadOnly.Width(inner - 2).Render(value)
}

// taskMeta describes who added and completed the task being viewed.
func (a *App) taskMeta() string {
	t := a.modal.Task()
	if t == nil {
		return ""
	}
	var parts []string
	if at, ok := board.ParseDate(t.CreatedAt, a.loc); ok {
		s := "Added " + at.Format(board.AnnotationLayout)
		if name := a.names.Name(t.CreatedBy); name != "" {
			s += " by " + name
		}
		parts = append(parts, s)
	}
	if t.IsDone() && t.CompletedAt != nil {
		if at, ok := board.ParseDate(*t.CompletedAt, a.loc); ok {
			s := "completed " + at.Format(board.AnnotationLayout)
			if name := a.names.Name(t.CompletedBy); name != "" {
				s += " by " + name
			}
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (a *App) renderDialog() string {
	switch a.dialog {
	case dialogRenameGroup:
		body := styles.DialogTitle.Render("Rename group") + "\n" +
			styles.InputFocused.Render(a.groupInput.View()) + "\n\n" +
			styles.HelpDesc.Render("enter: rename • esc: cancel")
		return styles.Dialog.Width(50).Render(body)

	case dialogDeleteGroup:
		body := styles.DialogTitle.Foreground(styles.ErrorColor).Render("Delete group?") + "\n" +
			fmt.Sprintf("%q and all of its tasks will be deleted.", a.dialogGroup.Name) + "\n\n" +
			styles.HelpDesc.Render("y: delete • n: cancel")
		return styles.DangerDialog.Width(50).Render(body)

	case dialogStatus:
		var b strings.Builder
		b.WriteString(styles.DialogTitle.Render("Set your status"))
		b.WriteString("\n")
		for i, s := range api.UserStatuses {
			cursor := "  "
			label := string(s)
			if i == a.statusCursor {
				cursor = styles.HelpKey.Render("> ")
				label = styles.TaskSelected.Render(label)
			}
			b.WriteString(cursor + styles.StatusDot(s) + " " + label + "\n")
		}
		b.WriteString("\n" + styles.HelpDesc.Render("enter: set • esc: cancel"))
		return styles.Dialog.Width(34).Render(b.String())
	}
	return ""
}

func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	for _, item := range a.keymap.HelpItems() {
		switch {
		case item[0] == "" && item[1] == "":
			b.WriteString("\n")
		case item[1] == "":
			b.WriteString(styles.Title.Render(item[0]) + "\n")
		default:
			b.WriteString(fmt.Sprintf("  %s %s\n", styles.HelpKey.Width(14).Render(item[0]), styles.HelpDesc.Render(item[1])))
		}
	}
	return styles.Dialog.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderLogin() string {
	f := a.login
	var b strings.Builder
	b.WriteString(styles.Title.Render("Whiteboard") + "\n")
	b.WriteString(styles.Subtitle.Render("Log in to the team board") + "\n\n")

	b.WriteString(styles.InputLabel.Render("Email") + "\n")
	b.WriteString(inputBox(f.email.View(), f.focus == loginEmail) + "\n")
	b.WriteString(styles.InputLabel.Render("Password") + "\n")
	b.WriteString(inputBox(f.password.View(), f.focus == loginPassword) + "\n")

	box := checkboxUnticked
	if f.remember {
		box = checkboxChecked
	}
	remember := box + " Remember me"
	if f.focus == loginRemember {
		remember = styles.HelpKey.Render(remember)
	}
	b.WriteString(remember + "\n")

	if f.err != "" {
		b.WriteString("\n" + styles.ErrorText.Render(f.err) + "\n")
	}
	if f.busy {
		b.WriteString("\n" + a.spinner.View() + " Signing in...\n")
	}
	b.WriteString("\n" + styles.HelpDesc.Render("enter: log in • tab: next • space: toggle • ctrl+r: create account • esc: quit"))

	return a.centerScreen(styles.Dialog.Width(56).Render(b.String()))
}

func (a *App) renderRegister() string {
	f := a.register
	labels := []string{"Name", "Email", "Password", "Confirm password"}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Create account") + "\n\n")
	for i, in := range f.inputs {
		b.WriteString(styles.InputLabel.Render(labels[i]) + "\n")
		b.WriteString(inputBox(in.View(), f.focus == i) + "\n")
	}
	if f.err != "" {
		b.WriteString("\n" + styles.ErrorText.Render(f.err) + "\n")
	}
	if f.busy {
		b.WriteString("\n" + a.spinner.View() + " Creating account...\n")
	}
	b.WriteString("\n" + styles.HelpDesc.Render("enter: register • tab: next • esc: back to login"))

	return a.centerScreen(styles.Dialog.Width(56).Render(b.String()))
}

func inputBox(view string, focused bool) string {
	if focused {
		return styles.InputFocused.Width(46).Render(view)
	}
	return styles.Input.Width(46).Render(view)
}

// centerScreen places box in the middle of the terminal above the toast line.
func (a *App) centerScreen(box string) string {
	h := a.height - 1
	if h < lipgloss.Height(box) {
		h = lipgloss.Height(box)
	}
	screen := lipgloss.Place(a.width, h, lipgloss.Center, lipgloss.Center, box)
	status := ""
	if a.toast != "" {
		style := styles.ToastSuccess
		if a.toastErr {
			style = styles.ToastError
		}
		status = style.Render(truncateString(a.toast, a.width-2))
	}
	return screen + "\n" + status
}
