// Package board holds the whiteboard's client-side model: the fixed-group
// registry and reconciler, the view tree the TUI paints, and the task
// modal and filter state machines that mutate it.
package board

import (
	"strings"
	"time"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/sirupsen/logrus"
)

// Item is one row of a card: a date header or a task.
type Item struct {
	// TaskID is empty for headers.
	TaskID   api.ID
	Label    string
	Priority api.Priority
	// Note is the inline date annotation of standard rows.
	Note string
	// Time and Subtitle are set for introduction rows.
	Time     string
	Subtitle string
	Intro    bool
	Hidden   bool

	header int
}

// IsHeader reports whether the item is a date-section header.
func (it *Item) IsHeader() bool {
	return it.TaskID == ""
}

// Text is the item's searchable text.
func (it *Item) Text() string {
	parts := []string{it.Time, it.Label, it.Note, it.Subtitle}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// CardType distinguishes a group's todo and done cards.
type CardType string

const (
	CardTodo CardType = "todo"
	CardDone CardType = "done"
)

// Card is one column of the board.
type Card struct {
	GroupID   api.ID
	GroupName string
	Type      CardType
	Color     api.Color
	// Anchor is set on fixed cards, which are never removed from the grid.
	Anchor string
	Intro  bool
	Items  []Item

	bound    bool
	filtered bool
}

// Fixed reports whether the card belongs to a registry group.
func (c *Card) Fixed() bool {
	return c.Anchor != ""
}

// Visible reports whether the card should be painted.
func (c *Card) Visible() bool {
	if c.Fixed() && !c.bound {
		return false
	}
	return !c.filtered
}

// Title is the card heading, e.g. "To Do - Sick Carers".
func (c *Card) Title() string {
	if c.Type == CardDone {
		return "Tasks done - " + c.GroupName
	}
	return "To Do - " + c.GroupName
}

// VisibleItems returns the rows that survive the current filter.
func (c *Card) VisibleItems() []Item {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if !it.Hidden {
			out = append(out, it)
		}
	}
	return out
}

// Grid is the board's view tree.
type Grid struct {
	Cards []*Card

	loc    *time.Location
	names  *Names
	log    logrus.FieldLogger
	index  Index
	groups map[api.ID]GroupRef
	query  string
}

// NewGrid returns a grid holding the hidden placeholder cards of every
// fixed group.
func NewGrid(loc *time.Location, names *Names, log logrus.FieldLogger) *Grid {
	if loc == nil {
		loc = time.Local
	}
	if names == nil {
		names = NewNames()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	g := &Grid{
		loc:    loc,
		names:  names,
		log:    log.WithField("component", "board"),
		index:  Index{},
		groups: map[api.ID]GroupRef{},
	}
	for _, f := range Registry {
		for _, typ := range []CardType{CardTodo, CardDone} {
			g.Cards = append(g.Cards, &Card{
				GroupName: f.Name,
				Type:      typ,
				Color:     f.Color,
				Anchor:    f.Anchor,
				Intro:     f.Intro,
			})
		}
	}
	return g
}

// Location is the zone timestamps are rendered in.
func (g *Grid) Location() *time.Location {
	return g.loc
}

// Bind gives every fixed card its real group id and registry colour and
// reveals it.
func (g *Grid) Bind(b Bindings) {
	for _, c := range g.Cards {
		if !c.Fixed() {
			continue
		}
		f, ok := fixedByAnchor(c.Anchor)
		if !ok {
			continue
		}
		id, ok := b[f.Name]
		if !ok || id == "" {
			continue
		}
		c.GroupID = id
		c.Color = f.Color
		c.bound = true
	}
}

// Query returns the active filter text.
func (g *Grid) Query() string {
	return g.query
}

// VisibleCards returns the cards to paint in order.
func (g *Grid) VisibleCards() []*Card {
	out := make([]*Card, 0, len(g.Cards))
	for _, c := range g.Cards {
		if c.Visible() {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) anchorCards(anchor string) []*Card {
	var out []*Card
	for _, c := range g.Cards {
		if c.Anchor == anchor {
			out = append(out, c)
		}
	}
	return out
}
