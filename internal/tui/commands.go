package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/hy4ri/whiteboard-tui/internal/board"
	"golang.org/x/sync/errgroup"
)

var (
	errSaveFailed   = errors.New("the server did not save the task")
	errDeleteFailed = errors.New("the server did not delete the task")
	errGroupFailed  = errors.New("the server rejected the change")
	errStatusFailed = errors.New("could not update your status")
)

// requestReload issues a full reload. Every reload whose fetch succeeds
// also reconciles the fixed groups, unless a pass is already in flight.
func (a *App) requestReload() tea.Cmd {
	a.reloadSeq++
	seq := a.reloadSeq
	reconcile := !a.reconciling
	if reconcile {
		a.reconciling = true
	}
	src, rec := a.src, a.reconciler

	return func() tea.Msg {
		ctx := context.Background()
		msg := reloadedMsg{seq: seq, reconcile: reconcile}

		var g errgroup.Group
		g.Go(func() error {
			msg.groups, msg.err = src.FetchGroups(ctx)
			return nil
		})
		g.Go(func() error {
			msg.users = src.Users(ctx)
			return nil
		})
		_ = g.Wait()

		if reconcile && msg.err == nil {
			msg.bindings, msg.report = rec.Run(ctx, msg.groups)
			msg.reconciled = true
			if msg.report.Writes() > 0 {
				msg.groups, msg.err = src.FetchGroups(ctx)
			}
		}
		return msg
	}
}

// persist writes a modal mutation.
func (a *App) persist(m board.Mutation) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch m.Kind {
		case board.MutationCreate:
			_, err = src.CreateTask(ctx, m.Create)
		case board.MutationUpdate, board.MutationComplete:
			if !src.UpdateTask(ctx, m.TaskID, m.Update) {
				err = errSaveFailed
			}
		case board.MutationDelete:
			if !src.DeleteTask(ctx, m.TaskID) {
				err = errDeleteFailed
			}
		}
		return mutationDoneMsg{kind: m.Kind, err: err}
	}
}

func (a *App) createGroupCmd(name string, color api.Color) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		msg := groupDoneMsg{verb: "create", name: name}
		if src.CreateGroup(context.Background(), name, color) == nil {
			msg.err = errGroupFailed
		}
		return msg
	}
}

func (a *App) renameGroupCmd(id api.ID, name string) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		msg := groupDoneMsg{verb: "rename", name: name}
		if !src.RenameGroup(context.Background(), id, name) {
			msg.err = errGroupFailed
		}
		return msg
	}
}

func (a *App) deleteGroupCmd(id api.ID, name string) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		msg := groupDoneMsg{verb: "delete", name: name}
		if !src.DeleteGroup(context.Background(), id) {
			msg.err = errGroupFailed
		}
		return msg
	}
}

// purgeCmd removes an empty deprecated group found while rendering.
func (a *App) purgeCmd(g api.Group) tea.Cmd {
	src, log := a.src, a.log
	return func() tea.Msg {
		if src.DeleteGroup(context.Background(), g.ID) {
			log.WithField("group", g.Name).Info("deleted deprecated group")
		}
		return nil
	}
}

// setStatusCmd stores the new status and refreshes the users list.
func (a *App) setStatusCmd(status api.UserStatus) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		ctx := context.Background()
		var msg usersLoadedMsg
		if !src.UpdateStatus(ctx, status) {
			msg.statusErr = errStatusFailed
		}
		msg.users = src.Users(ctx)
		return msg
	}
}

func (a *App) loginCmd(email, password string, remember bool) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		resp, err := src.Login(context.Background(), email, password)
		return loginDoneMsg{resp: resp, email: strings.TrimSpace(email), remember: remember, err: err}
	}
}

func (a *App) registerCmd(name, email, password string) tea.Cmd {
	src := a.src
	return func() tea.Msg {
		err := src.Register(context.Background(), name, email, password)
		return registerDoneMsg{email: strings.TrimSpace(email), err: err}
	}
}

func copyCmd(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return toastMsg{text: "Failed to copy: " + err.Error(), err: true}
		}
		return toastMsg{text: "Copied " + what}
	}
}

// tickCmd wakes the lifecycle controller after d.
func tickCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return lifecycleTickMsg{gen: gen, at: t}
	})
}

// showToast displays text in the status bar until the toast timeout and
// mirrors it to the desktop when enabled.
func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast = text
	a.toastErr = isErr
	a.toastGen++
	gen := a.toastGen

	cmds := []tea.Cmd{
		tea.Tick(a.cfg.ToastDuration(), func(time.Time) tea.Msg {
			return toastExpiredMsg{gen: gen}
		}),
	}
	if a.cfg.UI.DesktopNotifications {
		log := a.log
		cmds = append(cmds, func() tea.Msg {
			if err := beeep.Notify("Whiteboard", text, ""); err != nil {
				log.WithError(err).Debug("desktop notification failed")
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}
