package model

// Zone is a named ordering slot within a store layout. Ordinal positions
// come from the layout's zone order; Categories is the set of categories
// the zone accepts, checked first-match-wins at lookup time.
type Zone struct {
	Name       string
	Categories []Category
}

// Accepts reports whether the zone's category set contains c.
func (z Zone) Accepts(c Category) bool {
	for _, zc := range z.Categories {
		if zc == c {
			return true
		}
	}
	return false
}

// StoreLayout is an ordered sequence of zones for one store, or one
// store+postal-code variant. Layouts are read-only snapshots at use time;
// only the storage layer ever mutates them.
type StoreLayout struct {
	StoreName  string
	PostalCode string
	Zones      []Zone
}

// ZoneFor returns the name of the first zone (in declared order) that
// accepts c, or ok=false when no zone does.
func (l StoreLayout) ZoneFor(c Category) (string, bool) {
	for _, z := range l.Zones {
		if z.Accepts(c) {
			return z.Name, true
		}
	}
	return "", false
}

// Store describes a registered store location.
type Store struct {
	Name       string
	Chain      string
	City       string
	State      string
	PostalCode string
	ID         int64
	LocationID int64
}

// Group is one output unit of an organize call: a zone's display name
// plus the items assigned to it, in input order.
type Group struct {
	Zone  string   `json:"zone"`
	Items []string `json:"items"`
}
