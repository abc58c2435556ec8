package ast

import "strings"

// Var is a local, instance (@-prefixed) or constant (leading uppercase)
// identifier reference.
type Var struct {
	Base
	Name string
}

func NewVar(name string) *Var { return &Var{Name: name} }

// IsInstanceVar reports whether this identifier names an instance variable.
func (n *Var) IsInstanceVar() bool { return strings.HasPrefix(n.Name, "@") }

// IsConstant reports whether this identifier names a constant (class): a
// non-@ identifier whose first letter is uppercase.
func (n *Var) IsConstant() bool {
	if n.IsInstanceVar() || n.Name == "" {
		return false
	}
	first := n.Name[0]
	return first >= 'A' && first <= 'Z'
}

func (n *Var) Accept(v Visitor) {
	v.VisitVar(n)
	v.EndVisitVar(n)
}
func (n *Var) Clone() Node {
	return &Var{Base: Base{Pos: n.Pos}, Name: n.Name}
}
func (n *Var) Equal(o Node) bool {
	other, ok := o.(*Var)
	return ok && other.Name == n.Name
}

// Assign is target :- value (or `target = value` in the surface syntax);
// Target is always a *Var. Accept only descends into Value: the target is
// an lvalue name, not a read, and inference handles it
// directly in EndVisitAssign rather than through Var's read semantics.
type Assign struct {
	Base
	Target *Var
	Value  Node
}

func NewAssign(target *Var, value Node) *Assign {
	a := &Assign{Target: target, Value: value}
	setParent(target, a)
	setParent(value, a)
	return a
}

func (n *Assign) Accept(v Visitor) {
	if v.VisitAssign(n) {
		n.Value.Accept(v)
	}
	v.EndVisitAssign(n)
}
func (n *Assign) Clone() Node {
	c := NewAssign(n.Target.Clone().(*Var), n.Value.Clone())
	c.Pos = n.Pos
	return c
}
func (n *Assign) Equal(o Node) bool {
	other, ok := o.(*Assign)
	return ok && n.Target.Equal(other.Target) && n.Value.Equal(other.Value)
}

// If is a two-armed conditional; Else may be nil (an absent else behaves as
// Nil).
type If struct {
	Base
	Cond, Then, Else Node
}

func NewIf(cond, then, els Node) *If {
	n := &If{Cond: cond, Then: then, Else: els}
	setParent(cond, n)
	setParent(then, n)
	setParent(els, n)
	return n
}

func (n *If) Accept(v Visitor) {
	if v.VisitIf(n) {
		n.Cond.Accept(v)
		n.Then.Accept(v)
		if n.Else != nil {
			n.Else.Accept(v)
		}
	}
	v.EndVisitIf(n)
}
func (n *If) Clone() Node {
	var els Node
	if n.Else != nil {
		els = n.Else.Clone()
	}
	c := NewIf(n.Cond.Clone(), n.Then.Clone(), els)
	c.Pos = n.Pos
	return c
}
func (n *If) Equal(o Node) bool {
	other, ok := o.(*If)
	if !ok || !n.Cond.Equal(other.Cond) || !n.Then.Equal(other.Then) {
		return false
	}
	if (n.Else == nil) != (other.Else == nil) {
		return false
	}
	if n.Else == nil {
		return true
	}
	return n.Else.Equal(other.Else)
}

// While loops; its type is always Nil.
type While struct {
	Base
	Cond, Body Node
}

func NewWhile(cond, body Node) *While {
	n := &While{Cond: cond, Body: body}
	setParent(cond, n)
	setParent(body, n)
	return n
}

func (n *While) Accept(v Visitor) {
	if v.VisitWhile(n) {
		n.Cond.Accept(v)
		n.Body.Accept(v)
	}
	v.EndVisitWhile(n)
}
func (n *While) Clone() Node {
	c := NewWhile(n.Cond.Clone(), n.Body.Clone())
	c.Pos = n.Pos
	return c
}
func (n *While) Equal(o Node) bool {
	other, ok := o.(*While)
	return ok && n.Cond.Equal(other.Cond) && n.Body.Equal(other.Body)
}

// Block is a method block argument (`{ |args| body }`). Block-local
// variable capture semantics are underdetermined by the observed behavior;
// see DESIGN.md for the scope adopted here.
type Block struct {
	Base
	Args []*Formal
	Body Node
}

func NewBlock(args []*Formal, body Node) *Block {
	n := &Block{Args: args, Body: body}
	for _, a := range args {
		setParent(a, n)
	}
	setParent(body, n)
	return n
}

func (n *Block) Accept(v Visitor) {
	if v.VisitBlock(n) {
		for _, a := range n.Args {
			a.Accept(v)
		}
		if n.Body != nil {
			n.Body.Accept(v)
		}
	}
	v.EndVisitBlock(n)
}
func (n *Block) Clone() Node {
	args := make([]*Formal, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone().(*Formal)
	}
	var body Node
	if n.Body != nil {
		body = n.Body.Clone()
	}
	c := NewBlock(args, body)
	c.Pos = n.Pos
	return c
}
func (n *Block) Equal(o Node) bool {
	other, ok := o.(*Block)
	if !ok || len(n.Args) != len(other.Args) {
		return false
	}
	for i, a := range n.Args {
		if !a.Equal(other.Args[i]) {
			return false
		}
	}
	if (n.Body == nil) != (other.Body == nil) {
		return false
	}
	if n.Body == nil {
		return true
	}
	return n.Body.Equal(other.Body)
}

// Call is `obj.name(args) { block }`; Obj is nil for a self/implicit-module
// receiver call. TargetDef is populated by the inference pass once the
// call has been resolved and monomorphized.
type Call struct {
	Base
	Obj       Node // nil => implicit receiver
	Name      string
	Args      []Node
	Block     *Block // nil if no block given
	TargetDef *Def
}

func NewCall(obj Node, name string, args []Node, block *Block) *Call {
	n := &Call{Obj: obj, Name: name, Args: args, Block: block}
	setParent(obj, n)
	for _, a := range args {
		setParent(a, n)
	}
	if block != nil {
		setParent(block, n)
	}
	return n
}

func (n *Call) Accept(v Visitor) {
	if v.VisitCall(n) {
		if n.Obj != nil {
			n.Obj.Accept(v)
		}
		for _, a := range n.Args {
			a.Accept(v)
		}
		if n.Block != nil {
			n.Block.Accept(v)
		}
	}
	v.EndVisitCall(n)
}
func (n *Call) Clone() Node {
	var obj Node
	if n.Obj != nil {
		obj = n.Obj.Clone()
	}
	args := make([]Node, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone()
	}
	var block *Block
	if n.Block != nil {
		block = n.Block.Clone().(*Block)
	}
	c := NewCall(obj, n.Name, args, block)
	c.Pos = n.Pos
	// TargetDef deliberately not copied: a clone is re-inferred from scratch
	// (e.g. during method instantiation) and must resolve its own calls.
	return c
}
func (n *Call) Equal(o Node) bool {
	other, ok := o.(*Call)
	if !ok || n.Name != other.Name || len(n.Args) != len(other.Args) {
		return false
	}
	if (n.Obj == nil) != (other.Obj == nil) {
		return false
	}
	if n.Obj != nil && !n.Obj.Equal(other.Obj) {
		return false
	}
	for i, a := range n.Args {
		if !a.Equal(other.Args[i]) {
			return false
		}
	}
	if (n.Block == nil) != (other.Block == nil) {
		return false
	}
	if n.Block == nil {
		return true
	}
	return n.Block.Equal(other.Block)
}
