package registry

import (
	"sort"
	"strings"

	"github.com/torrejon/vecinored/internal/domain/neighbor"
)

// Column describes one fixed board bucket.
type Column struct {
	Status neighbor.Status `json:"status"`
	Label  string          `json:"label"`
	Icon   string          `json:"icon"`
}

// Columns is the board layout in display order. A record whose status is
// not listed here appears in no bucket.
var Columns = []Column{
	{Status: neighbor.StatusNew, Label: "Nuevos en Torrejón", Icon: "fa-sparkles"},
	{Status: neighbor.StatusActive, Label: "Activos", Icon: "fa-house-user"},
	{Status: neighbor.StatusAway, Label: "Ausentes", Icon: "fa-plane"},
}

// Bucket is a board column with its records.
type Bucket struct {
	Column
	Count     int                 `json:"count"`
	Neighbors []neighbor.Neighbor `json:"neighbors"`
}

// GroupByStatus splits neighbors into the fixed board buckets, keeping
// collection order inside each bucket.
func GroupByStatus(neighbors []neighbor.Neighbor) []Bucket {
	buckets := make([]Bucket, len(Columns))
	index := make(map[neighbor.Status]int, len(Columns))
	for i, col := range Columns {
		buckets[i] = Bucket{Column: col, Neighbors: []neighbor.Neighbor{}}
		index[col.Status] = i
	}
	for _, n := range neighbors {
		i, ok := index[n.Status]
		if !ok {
			continue
		}
		buckets[i].Neighbors = append(buckets[i].Neighbors, n)
		buckets[i].Count++
	}
	return buckets
}

// Board groups the current collection.
func (c *Controller) Board() []Bucket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GroupByStatus(c.neighbors)
}

// SortKey orders the list view.
type SortKey string

const (
	SortNone    SortKey = ""
	SortName    SortKey = "name"
	SortCreated SortKey = "created"
)

// ListQuery filters and orders the list view.
type ListQuery struct {
	Text string
	Sort SortKey
}

// FilterList applies q to neighbors without modifying them. With an empty
// query the result is the collection in insertion order.
func FilterList(neighbors []neighbor.Neighbor, q ListQuery) []neighbor.Neighbor {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]neighbor.Neighbor, 0, len(neighbors))
	for _, n := range neighbors {
		if text != "" && !matches(n, text) {
			continue
		}
		out = append(out, n)
	}

	switch q.Sort {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func matches(n neighbor.Neighbor, text string) bool {
	for _, field := range []string{n.Name, n.Address, n.Phone} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// List returns the collection for the list view.
func (c *Controller) List(q ListQuery) []neighbor.Neighbor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterList(c.neighbors, q)
}
