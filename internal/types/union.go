package types

import "sort"

// TaggedUnion is an unordered set of two or more distinct types treated as a
// single sum type. Singletons never reach this type: a union of one member
// degenerates to that member (see NormalizeMembers and Module.UnionOf).
type TaggedUnion struct {
	Members []Type // deduplicated by identity, sorted by String() for determinism
}

func (u *TaggedUnion) typeMarker() {}

func (u *TaggedUnion) String() string {
	s := "union("
	for i, m := range u.Members {
		if i > 0 {
			s += ", "
		}
		s += m.String()
	}
	return s + ")"
}

// Includes reports whether target is one of u's members.
func (u *TaggedUnion) Includes(target Type) bool {
	for _, m := range u.Members {
		if m == target {
			return true
		}
	}
	return false
}

// NormalizeMembers flattens nested unions, removes duplicates by pointer
// identity, and returns a deterministically sorted slice. It does not
// intern or collapse to a hierarchy type — that is Module.UnionOf's job,
// since only the Module knows the class hierarchy and holds the
// intern table. Mirrors the flatten/dedup half of a typesystem's
// NormalizeUnion.
func NormalizeMembers(operands []Type) []Type {
	flat := make([]Type, 0, len(operands))
	for _, t := range operands {
		if t == nil {
			continue
		}
		if u, ok := t.(*TaggedUnion); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, t)
		}
	}

	seen := make(map[Type]bool, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return unique
}
