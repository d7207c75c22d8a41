// Package tui provides the terminal user interface for the whiteboard.
package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/board"
	"github.com/hy4ri/whiteboard-tui/internal/config"
	"github.com/hy4ri/whiteboard-tui/internal/data"
	"github.com/hy4ri/whiteboard-tui/internal/lifecycle"
	"github.com/hy4ri/whiteboard-tui/internal/session"
	"github.com/hy4ri/whiteboard-tui/internal/tui/styles"
	"github.com/sirupsen/logrus"
)

// Screen is the top-level screen being shown.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenBoard
)

// Pane is the focused half of the board screen.
type Pane int

const (
	PaneBoard Pane = iota
	PaneUsers
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogRenameGroup
	dialogDeleteGroup
	dialogStatus
)

// App is the main Bubble Tea model for the application.
type App struct {
	// Dependencies
	cfg   *config.Config
	src   *data.Source
	store *session.Store
	log   logrus.FieldLogger
	loc   *time.Location
	now   func() time.Time
	rng   *rand.Rand

	screen Screen
	pane   Pane
	sess   *session.Session

	// Board state
	grid        *board.Grid
	names       *board.Names
	modal       *board.Modal
	reconciler  *board.Reconciler
	reconciled  bool
	reconciling bool
	users       []api.User

	// Every reload carries a sequence number. Each completed response
	// repaints the board from its own snapshot; epoch marks where the
	// current session's reloads start.
	reloadSeq int
	savedSeq  int
	epoch     int

	lifecycle *lifecycle.Controller
	tickGen   int

	// Cursor state
	cardCursor int
	rowCursor  int
	userCursor int

	// UI state
	loading  bool
	toast    string
	toastErr bool
	toastGen int
	showHelp bool
	width    int
	height   int

	// Filter
	filterInput textinput.Model
	filtering   bool

	// Forms
	login    *loginForm
	register *registerForm
	task     *taskForm

	// Group and status dialogs
	dialog       dialogKind
	dialogGroup  board.GroupRef
	groupInput   textinput.Model
	statusCursor int

	// Components
	spinner       spinner.Model
	keyState      KeyState
	keymap        Keymap
	viewport      viewport.Model
	viewportReady bool
}

// New creates the application. A remembered session skips the login screen.
func New(cfg *config.Config, src *data.Source, store *session.Store, log logrus.FieldLogger) (*App, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.LogoutClock()
	if err != nil {
		return nil, err
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter cards and tasks..."
	filterInput.CharLimit = 100
	filterInput.Width = 40

	groupInput := textinput.New()
	groupInput.Placeholder = "Group name"
	groupInput.CharLimit = 80
	groupInput.Width = 40

	a := &App{
		cfg:         cfg,
		src:         src,
		store:       store,
		log:         log.WithField("component", "tui"),
		loc:         loc,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		screen:      ScreenLogin,
		reconciler:  board.NewReconciler(src, log),
		lifecycle:   lifecycle.New(cfg.Board.PollInterval, hour, minute, loc),
		filterInput: filterInput,
		groupInput:  groupInput,
		spinner:     s,
		keymap:      DefaultKeymap(),
	}
	a.resetBoard()
	a.login = newLoginForm(store.RememberedEmail())
	a.register = newRegisterForm()

	sess, err := store.Load()
	if err != nil {
		a.log.WithError(err).Warn("failed to restore session")
	}
	if sess != nil {
		a.signIn(sess)
	}
	return a, nil
}

// Screen returns the screen being shown.
func (a *App) Screen() Screen {
	return a.screen
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenBoard {
		return tea.Batch(a.spinner.Tick, a.startBoard())
	}
	return tea.Batch(a.spinner.Tick, textinput.Blink)
}

// resetBoard drops everything rendered for the previous user.
func (a *App) resetBoard() {
	a.names = board.NewNames()
	a.grid = board.NewGrid(a.loc, a.names, a.log)
	var user api.ID
	if a.sess != nil {
		user = a.sess.User.ID
	}
	a.modal = board.NewModal(a.grid, a.loc, user)
	a.task = nil
	a.users = nil
	a.reconciled = false
	a.reconciling = false
	a.epoch = a.reloadSeq
	a.cardCursor, a.rowCursor, a.userCursor = 0, 0, 0
	a.dialog = dialogNone
	a.filtering = false
	a.filterInput.SetValue("")
}

func (a *App) signIn(sess *session.Session) {
	a.sess = sess
	a.src.Client().SetToken(sess.Token)
	a.modal.SetUser(sess.User.ID)
	a.screen = ScreenBoard
	a.pane = PaneBoard
}

// startBoard starts the lifecycle clock and loads the board.
func (a *App) startBoard() tea.Cmd {
	now := a.now()
	a.loading = true
	a.lifecycle.Start(now)
	a.tickGen++
	a.log.WithField("logout_at", a.lifecycle.LogoutAt().Format(time.RFC3339)).Info("board started")
	return tea.Batch(a.requestReload(), tickCmd(a.tickGen, a.lifecycle.NextWake(now)))
}

// signOut ends the session everywhere and returns to the login screen.
func (a *App) signOut(reason string) tea.Cmd {
	a.lifecycle.Stop()
	a.tickGen++
	a.src.Logout()
	if err := a.store.Clear(); err != nil {
		a.log.WithError(err).Warn("failed to clear session")
	}
	a.sess = nil
	a.resetBoard()
	a.screen = ScreenLogin
	a.login = newLoginForm(a.store.RememberedEmail())
	a.loading = false
	return tea.Batch(textinput.Blink, a.showToast(reason, false))
}

func (a *App) me() api.ID {
	if a.sess == nil {
		return ""
	}
	return a.sess.User.ID
}

// Message types
type reloadedMsg struct {
	seq        int
	reconcile  bool
	groups     []api.Group
	users      []api.User
	err        error
	reconciled bool
	bindings   board.Bindings
	report     board.Report
}
type mutationDoneMsg struct {
	kind board.MutationKind
	err  error
}
type groupDoneMsg struct {
	verb string
	name string
	err  error
}
type usersLoadedMsg struct {
	users     []api.User
	statusErr error
}
type loginDoneMsg struct {
	resp     *api.LoginResponse
	email    string
	remember bool
	err      error
}
type registerDoneMsg struct {
	email string
	err   error
}
type lifecycleTickMsg struct {
	gen int
	at  time.Time
}
type toastMsg struct {
	text string
	err  bool
}
type toastExpiredMsg struct{ gen int }

// SessionExpiredMsg tells the app the server rejected its token.
type SessionExpiredMsg struct{}

func (m mutationDoneMsg) success() string {
	switch m.kind {
	case board.MutationCreate:
		return "Task added"
	case board.MutationComplete:
		return "Task completed"
	case board.MutationDelete:
		return "Task deleted"
	default:
		return "Task updated"
	}
}

func (m groupDoneMsg) text() string {
	if m.err != nil {
		return fmt.Sprintf("Could not %s group: %v", m.verb, m.err)
	}
	return fmt.Sprintf("Group %q %sd", m.name, m.verb)
}
