// Package ast is a tagged-variant AST model: every node carries an optional
// source Position, a weak Parent back-link, and an inferred Type populated
// by the type inference pass. It replaces a metaprogrammed per-node-class
// Accept/visit_*/end_visit_* generation scheme with the same double-dispatch
// contract expressed directly as tagged Go structs plus one shared Visitor
// interface.
package ast

import (
	"github.com/classlang/typecore/internal/token"
	"github.com/classlang/typecore/internal/types"
)

// Node is the interface every AST variant implements.
type Node interface {
	Accept(v Visitor)
	Position() token.Position
	Parent() Node
	SetParent(Node)
	ResolvedType() types.Type
	SetType(types.Type)
	Clone() Node
	Equal(Node) bool
}

// Base is embedded by every concrete node and supplies the bookkeeping
// fields common to all variants. Parent is a weak reference: it is never
// followed during Clone or Equal and never owns its target.
type Base struct {
	Pos    token.Position
	parent Node
	Type   types.Type
}

func (b *Base) Position() token.Position   { return b.Pos }
func (b *Base) Parent() Node               { return b.parent }
func (b *Base) SetParent(p Node)           { b.parent = p }
func (b *Base) ResolvedType() types.Type   { return b.Type }
func (b *Base) SetType(t types.Type)       { b.Type = t }

// setParent is a small helper used by every node's constructor/Clone to
// bind a child's back-link without repeating the nil check everywhere.
func setParent(child Node, parent Node) {
	if child != nil {
		child.SetParent(parent)
	}
}

// Expressions is an ordered sequence of nodes; it is also the type of an AST
// root. Its own type, once inferred, is the type of its last child (or Nil
// if empty or if the last child is an untyped Def).
type Expressions struct {
	Base
	Nodes []Node
}

// From normalizes x into an *Expressions: nil becomes
// empty, an existing *Expressions passes through, a []Node is wrapped, any
// other Node becomes a singleton, and a value that is not a Node yields an
// empty sequence.
func From(x interface{}) *Expressions {
	switch v := x.(type) {
	case nil:
		return &Expressions{}
	case *Expressions:
		return v
	case []Node:
		return NewExpressions(v)
	case Node:
		return NewExpressions([]Node{v})
	default:
		return &Expressions{}
	}
}

func NewExpressions(nodes []Node) *Expressions {
	e := &Expressions{Nodes: nodes}
	for _, n := range nodes {
		setParent(n, e)
	}
	return e
}

func (e *Expressions) Accept(v Visitor) {
	if v.VisitExpressions(e) {
		for _, n := range e.Nodes {
			n.Accept(v)
		}
	}
	v.EndVisitExpressions(e)
}

func (e *Expressions) Clone() Node {
	nodes := make([]Node, len(e.Nodes))
	for i, n := range e.Nodes {
		nodes[i] = n.Clone()
	}
	clone := NewExpressions(nodes)
	clone.Pos = e.Pos
	return clone
}

func (e *Expressions) Equal(other Node) bool {
	o, ok := other.(*Expressions)
	if !ok || len(o.Nodes) != len(e.Nodes) {
		return false
	}
	for i, n := range e.Nodes {
		if !n.Equal(o.Nodes[i]) {
			return false
		}
	}
	return true
}

// Last returns the trailing child, or nil if empty.
func (e *Expressions) Last() Node {
	if len(e.Nodes) == 0 {
		return nil
	}
	return e.Nodes[len(e.Nodes)-1]
}
