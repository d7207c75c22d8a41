package board

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
)

// ErrFixedGroup is returned when renaming or deleting a registry group.
var ErrFixedGroup = errors.New("fixed groups cannot be renamed or deleted")

// NewGroupName names a freshly added group after the last four digits of
// the millisecond clock, e.g. "Group 4821".
func NewGroupName(now time.Time) string {
	return fmt.Sprintf("Group %04d", now.UnixMilli()%10000)
}

// PickColor chooses a colour for a new dynamic group.
func PickColor(r *rand.Rand) api.Color {
	if r == nil {
		return api.DynamicColors[rand.Intn(len(api.DynamicColors))]
	}
	return api.DynamicColors[r.Intn(len(api.DynamicColors))]
}

// ValidateRename returns the trimmed new name for group ref.
func ValidateRename(ref GroupRef, name string) (string, error) {
	if ref.Fixed {
		return "", ErrFixedGroup
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("group name is required")
	}
	if _, _, ok := MatchFixed(name); ok {
		return "", fmt.Errorf("%q is reserved for a fixed group", name)
	}
	return name, nil
}

// ValidateDelete reports whether group ref may be deleted.
func ValidateDelete(ref GroupRef) error {
	if ref.Fixed {
		return ErrFixedGroup
	}
	return nil
}
