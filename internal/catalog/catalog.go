// Package catalog aggregates extracted messages across source files and
// serializes them as an Application Resource Bundle (ARB).
package catalog

import (
	"fmt"
	"sort"

	"github.com/phobologic/intlextract/internal/message"
)

// Catalog is an insertion-ordered, name-keyed message collection.
type Catalog struct {
	Locale  string
	names   []string
	records map[string]*message.Message
}

// New creates an empty catalog for the given locale.
func New(locale string) *Catalog {
	return &Catalog{Locale: locale, records: make(map[string]*message.Message)}
}

// Len returns the number of messages in the catalog.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns the message names in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the record for name, or nil.
func (c *Catalog) Get(name string) *message.Message {
	return c.records[name]
}

// Add inserts one record, applying the duplicate policy: the first
// occurrence of a name wins. It returns false with a reason when the record
// collides with a differing existing message.
func (c *Catalog) Add(rec *message.Message) (ok bool, reason string) {
	existing, found := c.records[rec.Name]
	if !found {
		c.names = append(c.names, rec.Name)
		c.records[rec.Name] = rec
		return true, ""
	}
	if existing.CanonicalForm() == rec.CanonicalForm() {
		return true, ""
	}
	return false, fmt.Sprintf("duplicate message name %q in %s (first defined in %s); keeping the first definition",
		rec.Name, rec.Origin, existing.Origin)
}

// Merge folds one file's extraction results into the catalog, reporting
// cross-file duplicates through warn. Records are merged in name order so
// output and warnings are deterministic.
func (c *Catalog) Merge(records map[string]*message.Message, warn func(string)) {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ok, reason := c.Add(records[name]); !ok && warn != nil {
			warn(reason)
		}
	}
}
