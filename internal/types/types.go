// Package types implements a type lattice: a fixed set of primitive object
// types, nominal object types with a method table and instance-variable
// map, generic classes and their instantiations, hierarchy (class-family)
// types, and tagged unions. All types are intended to be interned inside a
// Module (see the symbols package) and compared by pointer identity,
// mirroring the way a Hindley-Milner typesystem treats TCon/TApp/TUnion as
// the sole vocabulary for a much larger lattice.
package types

import (
	"sort"
	"strings"
)

// Type is satisfied by every member of the lattice. All concrete
// implementations are pointer types so that "==" is identity comparison:
// every type is interned and identity-compared.
type Type interface {
	String() string
	typeMarker()
}

// MethodNode is the minimal shape an inference core needs from a method
// declaration in order to store it on an ObjectType's method table. It is
// satisfied by ast.Def without this package importing the ast package,
// which would otherwise create an ast<->types import cycle (ast nodes carry
// a Type field; see internal/ast for the concrete implementation).
type MethodNode interface {
	MethodName() string
	Arity() int
}

// ObjectType is a nominal class: a primitive, a plain user-defined class, an
// uninstantiated generic class (TypeParams non-empty, GenericOf nil), or a
// generic instantiation (GenericOf non-nil, TypeArgs populated). All of
// these shapes share representation: a generic class is just an object type
// carrying type parameter names, not a distinct kind.
type ObjectType struct {
	Name       string
	Superclass *ObjectType // nil only for the root Object type
	Primitive  bool

	Methods      map[string][]MethodNode // overload set per name, disambiguated by arity
	InstanceVars map[string]Type         // @name -> type; always Nil or a union including Nil

	// TypeParams holds the ordered type-variable names of an uninstantiated
	// generic class, e.g. ["T"] for `class Box(T)`. Empty for non-generic
	// classes and for instantiations.
	TypeParams []string

	// GenericOf and TypeArgs are set only on a generic instantiation: the
	// class it instantiates and the bound type-variable map. Two
	// instantiations of the same GenericOf with equal TypeArgs are the same
	// *ObjectType pointer (interned by Module.GenericOf).
	GenericOf *ObjectType
	TypeArgs  map[string]Type

	hierarchy *HierarchyType // lazily created cache, see HierarchyOf
}

func (t *ObjectType) typeMarker() {}

func (t *ObjectType) String() string {
	if t.GenericOf != nil {
		names := make([]string, 0, len(t.TypeArgs))
		for n := range t.TypeArgs {
			names = append(names, n)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = n + "=" + t.TypeArgs[n].String()
		}
		return t.GenericOf.Name + "(" + strings.Join(parts, ", ") + ")"
	}
	if len(t.TypeParams) > 0 {
		return t.Name + "(" + strings.Join(t.TypeParams, ", ") + ")"
	}
	return t.Name
}

// IsGeneric reports whether c is an uninstantiated generic class declaration.
func (t *ObjectType) IsGeneric() bool {
	return len(t.TypeParams) > 0 && t.GenericOf == nil
}

// IsSubclassOf walks the superclass chain (inclusive) looking for anc.
func (t *ObjectType) IsSubclassOf(anc *ObjectType) bool {
	for c := t; c != nil; c = c.Superclass {
		if c == anc {
			return true
		}
	}
	return false
}

// LookupMethod walks t's superclass chain and returns the first method
// matching name and arity.
func (t *ObjectType) LookupMethod(name string, arity int) (MethodNode, bool) {
	for c := t; c != nil; c = c.Superclass {
		for _, m := range c.Methods[name] {
			if m.Arity() == arity {
				return m, true
			}
		}
	}
	return nil, false
}

// HasMethodName reports whether any overload named name is defined
// anywhere on t's superclass chain, regardless of arity. Used to
// distinguish "no such method" from "wrong number of arguments".
func (t *ObjectType) HasMethodName(name string) bool {
	for c := t; c != nil; c = c.Superclass {
		if len(c.Methods[name]) > 0 {
			return true
		}
	}
	return false
}

// AddMethod registers m under its name, replacing any prior method of the
// same name and arity (redefinition) and otherwise extending the overload
// set.
func (t *ObjectType) AddMethod(m MethodNode) {
	set := t.Methods[m.MethodName()]
	for i, existing := range set {
		if existing.Arity() == m.Arity() {
			set[i] = m
			t.Methods[m.MethodName()] = set
			return
		}
	}
	t.Methods[m.MethodName()] = append(set, m)
}

// Hierarchy returns the cached HierarchyType for this class, or nil if
// HierarchyOf has not been called for it yet.
func (t *ObjectType) Hierarchy() *HierarchyType { return t.hierarchy }

// SetHierarchy caches h as this class's hierarchy type. Only Module.HierarchyOf
// should call this.
func (t *ObjectType) SetHierarchy(h *HierarchyType) { t.hierarchy = h }

// LookupInstanceVar returns the type recorded for @name on this exact
// class; ivars are not inherited.
func (t *ObjectType) LookupInstanceVar(name string) (Type, bool) {
	v, ok := t.InstanceVars[name]
	return v, ok
}
