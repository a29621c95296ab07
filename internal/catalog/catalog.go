// Package catalog provides the built-in mock book catalog users can search
// and add books from.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Entry is one catalog record. Cover is empty when no artwork exists.
type Entry struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Cover  string `json:"cover"`
}

// Catalog is an immutable, ordered list of entries.
type Catalog struct {
	entries []Entry
	folded  []string
}

// defaultEntries is the catalog shipped with the server.
var defaultEntries = []Entry{
	{ID: 1, Title: "The Little Prince", Author: "Antoine de Saint-Exupéry"},
	{ID: 2, Title: "1984", Author: "George Orwell"},
	{ID: 3, Title: "Pride and Prejudice", Author: "Jane Austen"},
}

// New builds a catalog over entries. The slice is copied.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: append([]Entry(nil), entries...),
		folded:  make([]string, len(entries)),
	}
	for i, e := range c.entries {
		c.folded[i] = fold(e.Title)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultEntries)
}

// Search returns entries whose title contains query, ignoring case.
// The query is matched as given, whitespace included. An empty query
// matches every entry. Results keep catalog order.
func (c *Catalog) Search(query string) []Entry {
	q := fold(query)

	results := []Entry{}
	for i, e := range c.entries {
		if strings.Contains(c.folded[i], q) {
			results = append(results, e)
		}
	}
	return results
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id int) (Entry, bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// All returns every entry in catalog order.
func (c *Catalog) All() []Entry {
	return append([]Entry(nil), c.entries...)
}

// fold normalizes s for caseless comparison. Casers are not safe for
// concurrent use, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
