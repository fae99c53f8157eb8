// Package serialize turns linked models into plain maps for response bodies.
//
// Output is produced by walking outward from the root entity. Every
// relationship declares the entity kinds it passes through; a relationship is
// left out whenever one of those kinds is already on the path from the root.
// Because the schema has three kinds, no path can be longer than three nodes
// and the walk always ends without keeping a visited set of instances.
package serialize

import "strings"

// Kind names an entity type
type Kind string

const (
	KindCustomer Kind = "customer"
	KindItem     Kind = "item"
	KindReview   Kind = "review"
)

// Relation is a named edge from one kind to another. Via lists every kind the
// edge passes through, ending with To.
type Relation struct {
	Name string
	From Kind
	To   Kind
	Via  []Kind
}

var (
	// CustomerItems is the projection of a customer's reviews onto their items
	CustomerItems  = Relation{Name: "items", From: KindCustomer, To: KindItem, Via: []Kind{KindReview, KindItem}}
	ItemReviews    = Relation{Name: "reviews", From: KindItem, To: KindReview, Via: []Kind{KindReview}}
	ReviewCustomer = Relation{Name: "customer", From: KindReview, To: KindCustomer, Via: []Kind{KindCustomer}}
	ReviewItem     = Relation{Name: "item", From: KindReview, To: KindItem, Via: []Kind{KindItem}}
)

// Relations returns the relationships rendered for kind, in output order.
func Relations(kind Kind) []Relation {
	switch kind {
	case KindCustomer:
		return []Relation{CustomerItems}
	case KindItem:
		return []Relation{ItemReviews}
	case KindReview:
		return []Relation{ReviewCustomer, ReviewItem}
	}
	return nil
}

// Path is the sequence of kinds between the root and the node being rendered
type Path []Kind

// Contains reports whether k is on the path
func (p Path) Contains(k Kind) bool {
	for _, v := range p {
		if v == k {
			return true
		}
	}
	return false
}

// Extend returns a new path that has followed rel. p is not modified.
func (p Path) Extend(rel Relation) Path {
	next := make(Path, 0, len(p)+len(rel.Via))
	next = append(next, p...)
	return append(next, rel.Via...)
}

// Suppressed reports whether rel must be left out when rendering the last
// node of path: following it would pass through a kind that is already on the
// path and so lead back toward an ancestor.
func Suppressed(path Path, rel Relation) bool {
	for _, k := range rel.Via {
		if path.Contains(k) {
			return true
		}
	}
	return false
}

// SuppressedPaths lists, as "-a.b" rules, every relationship path the walk
// drops when rendering a root of the given kind.
func SuppressedPaths(root Kind) []string {
	out := []string{}

	var walk func(kind Kind, path Path, prefix []string)
	walk = func(kind Kind, path Path, prefix []string) {
		for _, rel := range Relations(kind) {
			name := append(append([]string{}, prefix...), rel.Name)
			if Suppressed(path, rel) {
				out = append(out, "-"+strings.Join(name, "."))
				continue
			}
			walk(rel.To, path.Extend(rel), name)
		}
	}
	walk(root, Path{root}, nil)

	return out
}
