package board

import "strings"

// ApplyFilter shows only what matches query, case-insensitively. A task
// row matches on its own text or its day header; a header stays visible
// whenever one of its rows does. A card whose title matches keeps all of
// its rows. Cards without a visible row are hidden. An empty query shows
// everything.
func (g *Grid) ApplyFilter(query string) {
	g.query = query
	q := strings.ToLower(strings.TrimSpace(query))

	for _, c := range g.Cards {
		if q == "" {
			c.filtered = false
			for i := range c.Items {
				c.Items[i].Hidden = false
			}
			continue
		}

		titleMatch := strings.Contains(strings.ToLower(c.Title()), q)
		anyTask := false

		for i := range c.Items {
			it := &c.Items[i]
			if it.IsHeader() {
				it.Hidden = !titleMatch && !contains(it.Label, q)
			}
		}
		for i := range c.Items {
			it := &c.Items[i]
			if it.IsHeader() {
				continue
			}
			headerMatch := it.header >= 0 && contains(c.Items[it.header].Label, q)
			it.Hidden = !titleMatch && !headerMatch && !contains(it.Text(), q)
			if it.Hidden {
				continue
			}
			anyTask = true
			if it.header >= 0 {
				c.Items[it.header].Hidden = false
			}
		}

		c.filtered = !titleMatch && !anyTask
	}
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
