// Package symbols implements the Module root environment (primitive/class
// registry, type interning caches, method instantiation cache) and the
// Scope chain used for local, instance-variable and constant lookup. It is
// a narrowed adaptation of a SymbolTable: the trait/kind/pattern/module-alias
// machinery a Hindley-Milner language needs has no analogue in a nominal
// single-inheritance class system and is dropped (see DESIGN.md), while the
// enclosed-scope-chain shape (NewEnclosedSymbolTable/Outer) is kept.
package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/classlang/typecore/internal/types"
)

// Module is the process-wide state of a single inference run: every
// registered top-level type (primitives and user classes), every interned
// union/generic-instantiation/hierarchy type, and the method-instantiation
// cache. A Module is owned exclusively by the run that created it; parallel
// compilation of independent programs means independent Modules.
type Module struct {
	types map[string]types.Type

	nilType    *types.ObjectType
	boolType   *types.ObjectType
	intType    *types.ObjectType
	floatType  *types.ObjectType
	doubleType *types.ObjectType
	charType   *types.ObjectType
	objectType *types.ObjectType

	unionCache    map[string]*types.TaggedUnion
	genericCache  map[string]*types.ObjectType
	instantiation map[string]*MethodInstance
}

// NewModule creates a Module seeded with the fixed set of primitive object
// types, all rooted at Object.
func NewModule() *Module {
	m := &Module{
		types:         make(map[string]types.Type),
		unionCache:    make(map[string]*types.TaggedUnion),
		genericCache:  make(map[string]*types.ObjectType),
		instantiation: make(map[string]*MethodInstance),
	}

	m.objectType = m.defineClass("Object", nil, true)
	m.nilType = m.defineClass("Nil", m.objectType, true)
	m.boolType = m.defineClass("Bool", m.objectType, true)
	m.intType = m.defineClass("Int", m.objectType, true)
	m.floatType = m.defineClass("Float", m.objectType, true)
	m.doubleType = m.defineClass("Double", m.objectType, true)
	m.charType = m.defineClass("Char", m.objectType, true)

	return m
}

func (m *Module) defineClass(name string, super *types.ObjectType, primitive bool) *types.ObjectType {
	c := &types.ObjectType{
		Name:         name,
		Superclass:   super,
		Primitive:    primitive,
		Methods:      make(map[string][]types.MethodNode),
		InstanceVars: make(map[string]types.Type),
	}
	m.types[name] = c
	return c
}

// Primitive accessors
func (m *Module) Nil() *types.ObjectType    { return m.nilType }
func (m *Module) Bool() *types.ObjectType   { return m.boolType }
func (m *Module) Int() *types.ObjectType    { return m.intType }
func (m *Module) Float() *types.ObjectType  { return m.floatType }
func (m *Module) Double() *types.ObjectType { return m.doubleType }
func (m *Module) Char() *types.ObjectType   { return m.charType }
func (m *Module) Object() *types.ObjectType { return m.objectType }

// Types looks up a registered top-level type (primitive or user class) by
// name.
func (m *Module) Types(name string) (types.Type, bool) {
	t, ok := m.types[name]
	return t, ok
}

// DefineClass registers a brand-new class named name with the given
// superclass (Object if super is nil) and returns it. Callers must first
// confirm the name is not already registered.
func (m *Module) DefineClass(name string, super *types.ObjectType, typeParams []string) *types.ObjectType {
	if super == nil {
		super = m.objectType
	}
	c := m.defineClass(name, super, false)
	c.TypeParams = typeParams
	return c
}

// UnionOf flattens operands, dedupes by identity, collapses a singleton to
// its one member, interns the result, and collapses to a HierarchyType when
// the members are exactly a class and one or more of its (currently known)
// subclasses.
func (m *Module) UnionOf(operands ...types.Type) types.Type {
	members := types.NormalizeMembers(operands)
	if len(members) == 0 {
		return m.nilType
	}
	if len(members) == 1 {
		return members[0]
	}

	if root := commonAncestor(members); root != nil {
		return m.HierarchyOf(root)
	}

	key := unionKey(members)
	if u, ok := m.unionCache[key]; ok {
		return u
	}
	u := &types.TaggedUnion{Members: members}
	m.unionCache[key] = u
	return u
}

// commonAncestor returns a member of members that every other member is a
// subclass of (or equal to), if one exists.
func commonAncestor(members []types.Type) *types.ObjectType {
	for _, cand := range members {
		root, ok := cand.(*types.ObjectType)
		if !ok {
			continue
		}
		allRelated := true
		for _, other := range members {
			o, ok := other.(*types.ObjectType)
			if !ok || !o.IsSubclassOf(root) {
				allRelated = false
				break
			}
		}
		if allRelated {
			return root
		}
	}
	return nil
}

func unionKey(members []types.Type) string {
	parts := make([]string, len(members))
	for i, t := range members {
		parts[i] = fmt.Sprintf("%p:%s", t, t.String())
	}
	return strings.Join(parts, "|")
}

// HierarchyOf returns the one HierarchyType for root, created lazily and
// cached on the class itself so repeated calls return the same pointer.
func (m *Module) HierarchyOf(root *types.ObjectType) *types.HierarchyType {
	if root.Hierarchy() != nil {
		return root.Hierarchy()
	}
	h := &types.HierarchyType{Root: root}
	root.SetHierarchy(h)
	return h
}

// KnownSubclasses returns every registered class (including root itself)
// that is root or a transitive subclass of it, used to dispatch a call
// across every variant of a hierarchy type. Because inference is a single
// flow-insensitive pass, this reflects only classes registered so far when
// the call is resolved.
func (m *Module) KnownSubclasses(root *types.ObjectType) []*types.ObjectType {
	var out []*types.ObjectType
	for _, t := range m.types {
		c, ok := t.(*types.ObjectType)
		if !ok || c.GenericOf != nil {
			continue
		}
		if c.IsSubclassOf(root) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GenericOf returns the interned instantiation of generic class c with the
// given type-var bindings, created on miss with a fresh empty instance-var
// map.
func (m *Module) GenericOf(c *types.ObjectType, bindings map[string]types.Type) *types.ObjectType {
	key := genericKey(c, bindings)
	if inst, ok := m.genericCache[key]; ok {
		return inst
	}
	inst := &types.ObjectType{
		Name:         c.Name,
		Superclass:   c.Superclass,
		Methods:      c.Methods,
		InstanceVars: make(map[string]types.Type),
		GenericOf:    c,
		TypeArgs:     bindings,
	}
	m.genericCache[key] = inst
	return inst
}

func genericKey(c *types.ObjectType, bindings map[string]types.Type) string {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + fmt.Sprintf("%p", bindings[n])
	}
	return c.Name + "<" + strings.Join(parts, ",") + ">"
}

// MethodInstance is a monomorphized method: a receiver/argument-specific
// typed clone of a Def plus its finalized return type. Def is stored as an
// interface{} holding an *ast.Def to avoid a symbols<->ast import cycle;
// internal/analyzer, which imports both packages, performs the type
// assertion.
type MethodInstance struct {
	Def        interface{}
	ReturnType types.Type
	finalized  bool
}

// Instantiation looks up a cached method instance by key.
func (m *Module) Instantiation(key string) (*MethodInstance, bool) {
	inst, ok := m.instantiation[key]
	return inst, ok
}

// InstallInstantiation registers inst under key, used to pre-install a
// placeholder before body inference so recursive self-calls terminate.
func (m *Module) InstallInstantiation(key string, inst *MethodInstance) {
	m.instantiation[key] = inst
}
