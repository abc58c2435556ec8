package symbols

import "github.com/classlang/typecore/internal/types"

// Scope implements nested name resolution. A Scope chain has an outer link
// (EnterClass/EnterMethod and Outer mirror NewEnclosedSymbolTable/Outer), a
// self type used for
// both instance-variable ownership and implicit-receiver calls, and a flat
// map of local bindings introduced by Def parameters and plain-Var
// assignment targets.
type Scope struct {
	outer *Scope
	self  *types.ObjectType // the class owning @-lookups and bare method calls here
	class *types.ObjectType // the class whose body is being processed (for constant lookup), may equal self
	locals map[string]types.Type
}

// NewModuleScope is the root scope: self is the module's synthetic
// top-level receiver (an instance of Object; the implicit receiver at top
// level is the module itself).
func NewModuleScope(module *Module) *Scope {
	return &Scope{self: module.Object(), locals: make(map[string]types.Type)}
}

// EnterClass returns a scope for a ClassDef body: self/class become c, and
// locals start empty.
func (s *Scope) EnterClass(c *types.ObjectType) *Scope {
	return &Scope{outer: s, self: c, class: c, locals: make(map[string]types.Type)}
}

// EnterMethod returns a nested scope for a block body: self is unchanged,
// locals start with the block's bound parameters chained under s, so a
// block can still see the locals of the method or block it appears inside.
func (s *Scope) EnterMethod(receiver *types.ObjectType, params map[string]types.Type) *Scope {
	locals := make(map[string]types.Type, len(params))
	for k, v := range params {
		locals[k] = v
	}
	return &Scope{outer: s, self: receiver, class: receiver, locals: locals}
}

// NewMethodScope returns a root scope for a method body being instantiated:
// self is the receiver the call dispatched on, locals start with the bound
// parameters, and outer is nil regardless of the call site's own scope — a
// method body never sees the caller's locals, only its own parameters and
// whatever it defines or reads through @-instance-variables and constants.
func NewMethodScope(receiver *types.ObjectType, params map[string]types.Type) *Scope {
	locals := make(map[string]types.Type, len(params))
	for k, v := range params {
		locals[k] = v
	}
	return &Scope{self: receiver, class: receiver, locals: locals}
}

// Outer returns the enclosing scope, or nil at the root.
func (s *Scope) Outer() *Scope { return s.outer }

// Self is the receiver type for implicit-receiver calls and instance
// variable ownership in this scope.
func (s *Scope) Self() *types.ObjectType { return s.self }

// LookupLocal walks outward from s looking for a local binding named name.
// The walk stops at whatever root the scope chain was built from: a method
// body's scope is rooted by NewMethodScope with a nil outer, so it never
// sees a caller's locals; a block's scope is nested under EnterMethod, so it
// does see the locals of whatever it lexically appears inside.
func (s *Scope) LookupLocal(name string) (types.Type, bool) {
	for c := s; c != nil; c = c.outer {
		if t, ok := c.locals[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DefineLocal binds name to t in s (not in any outer scope). A local is
// produced by a plain (non-@, non-uppercase-constant) Var assignment target
// or a Def/Block parameter.
func (s *Scope) DefineLocal(name string, t types.Type) {
	s.locals[name] = t
}
