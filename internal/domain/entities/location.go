package entities

// Location is one entry of a fixed pickup or drop catalog. The two catalogs
// are disjoint: a pickup and a drop never compare equal even when they share
// a name, so identity checks only ever happen within one role.
type Location struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// Equal reports whether two locations are the same catalog entry.
func (l Location) Equal(other Location) bool {
	return l.ID == other.ID
}

// Label renders the location for user-facing text, glyph first.
func (l Location) Label() string {
	if l.Glyph == "" {
		return l.Name
	}
	return l.Glyph + " " + l.Name
}
