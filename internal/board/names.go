package board

import (
	"sync"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// Names caches user display names by id. It is replaced wholesale on every
// user refresh.
type Names struct {
	mu    sync.RWMutex
	names map[api.ID]string
}

// NewNames returns an empty cache.
func NewNames() *Names {
	return &Names{names: make(map[api.ID]string)}
}

// Replace swaps the cache contents for users.
func (n *Names) Replace(users []api.User) {
	m := make(map[api.ID]string, len(users))
	for i := range users {
		m[users[i].ID] = users[i].DisplayName()
	}
	n.mu.Lock()
	n.names = m
	n.mu.Unlock()
}

// Name returns the display name for id, or "".
func (n *Names) Name(id api.ID) string {
	if n == nil || id == "" {
		return ""
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.names[id]
}
