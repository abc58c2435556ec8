package ast

// Formal is a method or block parameter, optionally annotated with a type
// name (a concrete class name, or a type-variable name belonging to the
// enclosing generic class, e.g. `value : T`).
type Formal struct {
	Base
	Name       string
	TypeAnnot  string // "" if unannotated
}

func NewFormal(name, typeAnnot string) *Formal {
	return &Formal{Name: name, TypeAnnot: typeAnnot}
}

func (n *Formal) Accept(v Visitor) {
	// Formal has no dedicated visit pair: it carries no expression to infer,
	// only a name/annotation consumed directly by Def and Block handling.
}
func (n *Formal) Clone() Node {
	return &Formal{Base: Base{Pos: n.Pos}, Name: n.Name, TypeAnnot: n.TypeAnnot}
}
func (n *Formal) Equal(o Node) bool {
	other, ok := o.(*Formal)
	return ok && n.Name == other.Name && n.TypeAnnot == other.TypeAnnot
}

// ClassDef declares (or reopens) a class. Superclass is "" when omitted,
// meaning "inherits from Object".
type ClassDef struct {
	Base
	Name       string
	Superclass string
	// TypeParams holds the ordered type-variable names of a generic class
	// declaration, e.g. ["T"] for `class Box(T) ... end`. Empty for a
	// non-generic class.
	TypeParams []string
	Body       *Expressions
}

func NewClassDef(name, superclass string, typeParams []string, body *Expressions) *ClassDef {
	n := &ClassDef{Name: name, Superclass: superclass, TypeParams: typeParams, Body: body}
	setParent(body, n)
	return n
}

func (n *ClassDef) Accept(v Visitor) {
	if v.VisitClassDef(n) {
		n.Body.Accept(v)
	}
	v.EndVisitClassDef(n)
}
func (n *ClassDef) Clone() Node {
	c := NewClassDef(n.Name, n.Superclass, append([]string(nil), n.TypeParams...), n.Body.Clone().(*Expressions))
	c.Pos = n.Pos
	return c
}
func (n *ClassDef) Equal(o Node) bool {
	other, ok := o.(*ClassDef)
	if !ok || n.Name != other.Name || n.Superclass != other.Superclass || len(n.TypeParams) != len(other.TypeParams) {
		return false
	}
	for i, p := range n.TypeParams {
		if p != other.TypeParams[i] {
			return false
		}
	}
	return n.Body.Equal(other.Body)
}

// Def declares a method. Receiver is non-nil only for a singleton/class
// method (`def self.name`); nil means an ordinary instance method (or a
// module-level method when the Def sits outside any ClassDef).
//
// A Def registers itself but its Body is never inferred by the top-down
// pass (VisitDef always returns false); the body is instead typed once per
// unique call signature, see internal/analyzer.
type Def struct {
	Base
	Receiver *Var
	Name     string
	Args     []*Formal
	Body     Node
}

func NewDef(receiver *Var, name string, args []*Formal, body Node) *Def {
	n := &Def{Receiver: receiver, Name: name, Args: args, Body: body}
	if receiver != nil {
		setParent(receiver, n)
	}
	for _, a := range args {
		setParent(a, n)
	}
	setParent(body, n)
	return n
}

// MethodName and Arity implement types.MethodNode.
func (n *Def) MethodName() string { return n.Name }
func (n *Def) Arity() int         { return len(n.Args) }

func (n *Def) Accept(v Visitor) {
	// VisitDef controls whether children are walked; the inference visitor
	// answers false here so that the children below are never walked during
	// the normal top-down registration pass.
	if v.VisitDef(n) {
		if n.Receiver != nil {
			n.Receiver.Accept(v)
		}
		for _, a := range n.Args {
			a.Accept(v)
		}
		if n.Body != nil {
			n.Body.Accept(v)
		}
	}
	v.EndVisitDef(n)
}
func (n *Def) Clone() Node {
	var recv *Var
	if n.Receiver != nil {
		recv = n.Receiver.Clone().(*Var)
	}
	args := make([]*Formal, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Clone().(*Formal)
	}
	var body Node
	if n.Body != nil {
		body = n.Body.Clone()
	}
	c := NewDef(recv, n.Name, args, body)
	c.Pos = n.Pos
	return c
}
func (n *Def) Equal(o Node) bool {
	other, ok := o.(*Def)
	if !ok || n.Name != other.Name || len(n.Args) != len(other.Args) {
		return false
	}
	if (n.Receiver == nil) != (other.Receiver == nil) {
		return false
	}
	if n.Receiver != nil && !n.Receiver.Equal(other.Receiver) {
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
