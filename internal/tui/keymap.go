package tui

import tea "github.com/charmbracelet/bubbletea"

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// Keymap contains the board screen's key bindings.
type Keymap struct {
	// Navigation
	Up     Key
	Down   Key
	Left   Key
	Right  Key
	Top    Key
	Bottom Key

	// Actions
	Select  Key
	Back    Key
	Quit    Key
	Help    Key
	Refresh Key
	Search  Key
	Copy    Key
	Logout  Key

	// Task actions
	AddTask    Key
	DeleteTask Key

	// Group actions
	NewGroup    Key
	RenameGroup Key
	DeleteGroup Key

	// Users panel
	SwitchPane Key
	SetStatus  Key
}

// DefaultKeymap returns the default Vim-style key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:     Key{Key: "k", Help: "up"},
		Down:   Key{Key: "j", Help: "down"},
		Left:   Key{Key: "h", Help: "previous card"},
		Right:  Key{Key: "l", Help: "next card"},
		Top:    Key{Key: "g", Help: "top (gg)"},
		Bottom: Key{Key: "G", Help: "bottom"},

		Select:  Key{Key: "enter", Help: "open task"},
		Back:    Key{Key: "esc", Help: "back"},
		Quit:    Key{Key: "q", Help: "quit"},
		Help:    Key{Key: "?", Help: "help"},
		Refresh: Key{Key: "r", Help: "refresh"},
		Search:  Key{Key: "/", Help: "filter"},
		Copy:    Key{Key: "y", Help: "copy task"},
		Logout:  Key{Key: "ctrl+l", Help: "log out"},

		AddTask:    Key{Key: "a", Help: "add task"},
		DeleteTask: Key{Key: "d", Help: "delete (dd)"},

		NewGroup:    Key{Key: "N", Help: "new group"},
		RenameGroup: Key{Key: "R", Help: "rename group"},
		DeleteGroup: Key{Key: "D", Help: "delete group"},

		SwitchPane: Key{Key: "tab", Help: "board/users"},
		SetStatus:  Key{Key: "s", Help: "set my status"},
	}
}

// KeyState tracks multi-key sequences (like 'gg' or 'dd').
type KeyState struct {
	WaitingG bool
	WaitingD bool
}

// HandleKey processes a key press and returns the action to take.
// Returns the action name and whether the key was consumed.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, keymap Keymap) (string, bool) {
	key := msg.String()

	if ks.WaitingG {
		ks.WaitingG = false
		if key == keymap.Top.Key {
			return "top", true
		}
	}
	if ks.WaitingD {
		ks.WaitingD = false
		if key == keymap.DeleteTask.Key {
			return "delete", true
		}
	}

	if key == keymap.Top.Key {
		ks.WaitingG = true
		return "", true
	}
	if key == keymap.DeleteTask.Key {
		ks.WaitingD = true
		return "", true
	}

	switch key {
	case keymap.Up.Key, "up":
		return "up", true
	case keymap.Down.Key, "down":
		return "down", true
	case keymap.Left.Key, "left":
		return "left", true
	case keymap.Right.Key, "right":
		return "right", true
	case keymap.Bottom.Key:
		return "bottom", true
	case keymap.Select.Key:
		return "select", true
	case keymap.Back.Key:
		return "back", true
	case keymap.Quit.Key, "ctrl+c":
		return "quit", true
	case keymap.Help.Key:
		return "help", true
	case keymap.Refresh.Key:
		return "refresh", true
	case keymap.Search.Key:
		return "search", true
	case keymap.Copy.Key:
		return "copy", true
	case keymap.Logout.Key:
		return "logout", true
	case keymap.AddTask.Key:
		return "add", true
	case keymap.NewGroup.Key:
		return "new_group", true
	case keymap.RenameGroup.Key:
		return "rename_group", true
	case keymap.DeleteGroup.Key:
		return "delete_group", true
	case keymap.SwitchPane.Key:
		return "switch_pane", true
	case keymap.SetStatus.Key:
		return "status", true
	}

	return "", false
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
	ks.WaitingD = false
}

// HelpItems returns a slice of key-description pairs for the help view.
func (k Keymap) HelpItems() [][]string {
	return [][]string{
		{"Navigation", ""},
		{k.Up.Key + "/" + k.Down.Key, "Move between tasks"},
		{k.Left.Key + "/" + k.Right.Key, "Move between cards"},
		{"gg/G", "First/last task"},
		{k.SwitchPane.Key, "Switch board/users"},
		{"", ""},
		{"Tasks", ""},
		{k.Select.Key, "Open task"},
		{k.AddTask.Key, "Add task to card"},
		{"dd", "Delete task"},
		{k.Copy.Key, "Copy task"},
		{"", ""},
		{"Groups", ""},
		{k.NewGroup.Key, "New group"},
		{k.RenameGroup.Key, "Rename group"},
		{k.DeleteGroup.Key, "Delete group"},
		{"", ""},
		{"Task window", ""},
		{"tab/shift+tab", "Next/previous field"},
		{"ctrl+s", "Save"},
		{"ctrl+o", "Mark done"},
		{"ctrl+x", "Delete"},
		{"ctrl+y", "Copy title and description"},
		{"", ""},
		{"General", ""},
		{k.Search.Key, "Filter board"},
		{k.SetStatus.Key, "Set my status"},
		{k.Refresh.Key, "Refresh"},
		{k.Logout.Key, "Log out"},
		{k.Help.Key, "Toggle help"},
		{k.Back.Key, "Back / cancel"},
		{k.Quit.Key, "Quit"},
	}
}
