// Package registry holds the fixed catalogs of valid pickup and drop
// locations. Catalogs are immutable after construction, so lookups are safe
// for concurrent use without locking.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"carpool/internal/domain/entities"
)

// Catalog is an ordered, immutable set of locations. Users select an entry
// by its menu key: the 1-based position they see in the rendered menu.
type Catalog struct {
	title     string
	locations []entities.Location
}

// NewCatalog builds a catalog from a fixed location list.
func NewCatalog(title string, locations []entities.Location) *Catalog {
	return &Catalog{title: title, locations: locations}
}

// Lookup resolves a raw user input to a location. The key must be the
// decimal menu number of an entry; anything else — non-numeric text, zero,
// out of range — fails.
func (c *Catalog) Lookup(key string) (entities.Location, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || n < 1 || n > len(c.locations) {
		return entities.Location{}, false
	}
	return c.locations[n-1], true
}

// All returns the catalog entries in menu order.
func (c *Catalog) All() []entities.Location {
	out := make([]entities.Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Menu renders the numbered selection block shown in prompts.
func (c *Catalog) Menu() string {
	var b strings.Builder
	b.WriteString(c.title)
	for i, loc := range c.locations {
		fmt.Fprintf(&b, "\n%d. %s", i+1, loc.Label())
	}
	return b.String()
}

// Registry bundles the two disjoint catalogs.
type Registry struct {
	Pickups *Catalog
	Drops   *Catalog
}

// NewDefault returns the built-in catalogs.
func NewDefault() *Registry {
	return &Registry{
		Pickups: NewCatalog("Where should we pick you up?", []entities.Location{
			{ID: 1, Name: "Airport", Glyph: "✈️"},
			{ID: 2, Name: "Railway Station", Glyph: "🚉"},
			{ID: 3, Name: "Bus Stand", Glyph: "🚌"},
			{ID: 4, Name: "City Center", Glyph: "🏙️"},
		}),
		Drops: NewCatalog("Where are you headed?", []entities.Location{
			{ID: 1, Name: "Tiger Circle", Glyph: "🐯"},
			{ID: 2, Name: "Main Gate", Glyph: "🚪"},
			{ID: 3, Name: "Hostel Circle", Glyph: "🏠"},
			{ID: 4, Name: "Central Library", Glyph: "📚"},
		}),
	}
}
