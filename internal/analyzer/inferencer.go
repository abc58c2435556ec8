// Package analyzer implements the flow-insensitive type inference pass: a
// single AST walk that assigns a resolved type to every expression node,
// grows class instance-variable types as assignments are discovered, and
// drives per-call-signature method monomorphization. It embeds
// ast.BaseVisitor and overrides only the End_<kind> methods that produce a
// type (plus the three Visit_<kind> methods that need to control descent or
// push scope: VisitClassDef, VisitDef and VisitBlock).
package analyzer

import (
	"github.com/classlang/typecore/internal/ast"
	"github.com/classlang/typecore/internal/diagnostics"
	"github.com/classlang/typecore/internal/symbols"
	"github.com/classlang/typecore/internal/types"
)

// Inferencer runs one inference pass over a program against a Module. It is
// not safe for reuse across unrelated programs; construct a fresh one (with
// a fresh Module) per compilation.
type Inferencer struct {
	ast.BaseVisitor

	module *symbols.Module
	scope  *symbols.Scope

	// returns and yields are stacks of accumulators, one per method body
	// (returns) or block body (yields) currently being inferred. A Return
	// contributes to the innermost returns accumulator; a Yield to the
	// innermost yields accumulator. Both are empty outside any method/block.
	returns []*unionAcc
	yields  []*unionAcc

	// generic tracks which *ast.Call nodes were resolved as an explicit
	// generic-instantiation application (ClassName(TypeArg, ...)), so a
	// following .new/.allocate on that call's result is recognized as
	// constructing that instantiation rather than dispatching an ordinary
	// method named "new"/"allocate".
	generic map[*ast.Call]bool
}

// New returns an Inferencer that resolves constants and dispatches methods
// against module, starting from module scope.
func New(module *symbols.Module) *Inferencer {
	return &Inferencer{
		module:  module,
		scope:   symbols.NewModuleScope(module),
		generic: make(map[*ast.Call]bool),
	}
}

// Infer type-checks root, decorating every expression node with a resolved
// type. It returns the single fatal fault raised during inference, if any;
// nil means every expression node in root now carries a resolved type and
// every Call node a non-nil TargetDef. Def nodes themselves, their Formals,
// and the original (uncloned) method bodies are not typed: a method body is
// typed only in the per-call-signature clones made by instantiateCall.
func (inf *Inferencer) Infer(root ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*diagnostics.Fault); ok {
				err = f
				return
			}
			panic(r)
		}
	}()
	root.Accept(inf)
	return nil
}

func (inf *Inferencer) fail(f *diagnostics.Fault) {
	panic(f)
}

// unionAcc accumulates a running union_of over zero or more contributed
// types, defaulting to Nil if nothing was ever contributed.
type unionAcc struct {
	t types.Type
}

func (u *unionAcc) add(m *symbols.Module, t types.Type) {
	if t == nil {
		return
	}
	if u.t == nil {
		u.t = t
		return
	}
	u.t = m.UnionOf(u.t, t)
}

func (u *unionAcc) result(m *symbols.Module) types.Type {
	if u.t == nil {
		return m.Nil()
	}
	return u.t
}

// EndVisitExpressions types a sequence as its last child's type, or Nil if
// empty or if the last child is an untyped declaration (a Def).
func (inf *Inferencer) EndVisitExpressions(n *ast.Expressions) {
	if last := n.Last(); last != nil && last.ResolvedType() != nil {
		n.SetType(last.ResolvedType())
		return
	}
	n.SetType(inf.module.Nil())
}

// Literals: types are fixed regardless of context.

func (inf *Inferencer) EndVisitNilLit(n *ast.NilLit) {
	n.SetType(inf.module.Nil())
}

func (inf *Inferencer) EndVisitBoolLit(n *ast.BoolLit) {
	n.SetType(inf.module.Bool())
}

func (inf *Inferencer) EndVisitIntLit(n *ast.IntLit) {
	n.SetType(inf.module.Int())
}

func (inf *Inferencer) EndVisitFloatLit(n *ast.FloatLit) {
	n.SetType(inf.module.Float())
}

func (inf *Inferencer) EndVisitCharLit(n *ast.CharLit) {
	n.SetType(inf.module.Char())
}

// EndVisitVar resolves a local, instance-variable, or constant reference.
func (inf *Inferencer) EndVisitVar(n *ast.Var) {
	if n.IsInstanceVar() {
		self := inf.scope.Self()
		t, ok := self.LookupInstanceVar(n.Name)
		if !ok {
			t = inf.module.Nil()
			self.InstanceVars[n.Name] = t
		}
		n.SetType(t)
		return
	}
	if t, ok := inf.scope.LookupLocal(n.Name); ok {
		n.SetType(t)
		return
	}
	if n.IsConstant() {
		t, ok := inf.module.Types(n.Name)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(n.Position(), n.Name))
		}
		n.SetType(t)
		return
	}
	inf.fail(diagnostics.UndefinedName(n.Position(), n.Name))
}

// EndVisitAssign implements target := value: an instance-variable target
// accumulates union_of(previous_or_Nil, value's type) on the owning class;
// a local target simply rebinds.
func (inf *Inferencer) EndVisitAssign(n *ast.Assign) {
	valType := n.Value.ResolvedType()
	target := n.Target

	if target.IsInstanceVar() {
		self := inf.scope.Self()
		prev, ok := self.LookupInstanceVar(target.Name)
		if !ok {
			prev = inf.module.Nil()
		}
		accumulated := inf.module.UnionOf(prev, valType)
		self.InstanceVars[target.Name] = accumulated
		target.SetType(accumulated)
		n.SetType(accumulated)
		return
	}

	// A local is produced only by a plain (non-@, non-uppercase-constant)
	// target; an uppercase-constant target still types, but is never bound
	// into scope as a local.
	if !target.IsConstant() {
		inf.scope.DefineLocal(target.Name, valType)
	}
	target.SetType(valType)
	n.SetType(valType)
}

// EndVisitIf: no flow-sensitive narrowing, so the result is simply the
// union of both arms (an absent else behaves as Nil).
func (inf *Inferencer) EndVisitIf(n *ast.If) {
	elseType := types.Type(inf.module.Nil())
	if n.Else != nil {
		elseType = n.Else.ResolvedType()
	}
	n.SetType(inf.module.UnionOf(n.Then.ResolvedType(), elseType))
}

func (inf *Inferencer) EndVisitWhile(n *ast.While) {
	n.SetType(inf.module.Nil())
}

// VisitBlock enters a fresh scope for the block's parameters (annotated
// params resolve their named type; unannotated ones start at Nil) and
// pushes a yield accumulator. EndVisitBlock pops both and types the block
// as the union of everything yielded from it together with its body's
// type (just the body's type if nothing was yielded).
func (inf *Inferencer) VisitBlock(n *ast.Block) bool {
	locals := make(map[string]types.Type, len(n.Args))
	for _, a := range n.Args {
		t := types.Type(inf.module.Nil())
		if a.TypeAnnot != "" {
			if named, ok := inf.module.Types(a.TypeAnnot); ok {
				t = named
			}
		}
		locals[a.Name] = t
	}
	inf.scope = inf.scope.EnterMethod(inf.scope.Self(), locals)
	inf.yields = append(inf.yields, &unionAcc{})
	return true
}

func (inf *Inferencer) EndVisitBlock(n *ast.Block) {
	acc := inf.yields[len(inf.yields)-1]
	inf.yields = inf.yields[:len(inf.yields)-1]
	if n.Body != nil {
		acc.add(inf.module, n.Body.ResolvedType())
	}
	inf.scope = inf.scope.Outer()
	n.SetType(acc.result(inf.module))
}

// EndVisitControlExit routes Return into the innermost method's return-type
// accumulator and Yield into the innermost block's yield-type accumulator.
// Break and Next carry values (per the AST model) but feed no accumulator.
func (inf *Inferencer) EndVisitControlExit(n *ast.ControlExit) {
	valType := types.Type(inf.module.Nil())
	if last := n.LastOrNil(); last != nil {
		valType = last.ResolvedType()
	}
	switch n.Kind {
	case ast.ExitReturn:
		if len(inf.returns) > 0 {
			inf.returns[len(inf.returns)-1].add(inf.module, valType)
		}
	case ast.ExitYield:
		if len(inf.yields) > 0 {
			inf.yields[len(inf.yields)-1].add(inf.module, valType)
		}
	}
	n.SetType(valType)
}

// VisitClassDef registers (or reopens) the named class and enters its
// scope; the body is then walked by the normal Accept descent.
// EndVisitClassDef restores the enclosing scope.
func (inf *Inferencer) VisitClassDef(n *ast.ClassDef) bool {
	var super *types.ObjectType
	if n.Superclass != "" {
		st, ok := inf.module.Types(n.Superclass)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(n.Position(), n.Superclass))
		}
		superObj, ok := st.(*types.ObjectType)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(n.Position(), n.Superclass))
		}
		super = superObj
	}

	var class *types.ObjectType
	if existing, ok := inf.module.Types(n.Name); ok {
		classObj, ok := existing.(*types.ObjectType)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(n.Position(), n.Name))
		}
		effective := super
		if effective == nil {
			effective = inf.module.Object()
		}
		if classObj.Superclass != effective {
			inf.fail(diagnostics.SuperclassMismatch(n.Position(), n.Name, effective.Name, classObj.Superclass.Name))
		}
		class = classObj
	} else {
		class = inf.module.DefineClass(n.Name, super, n.TypeParams)
	}

	n.SetType(class)
	inf.scope = inf.scope.EnterClass(class)
	return true
}

func (inf *Inferencer) EndVisitClassDef(n *ast.ClassDef) {
	inf.scope = inf.scope.Outer()
}

// VisitDef registers the method on the enclosing class (or the module's
// top-level receiver) and always answers false: a Def's body is never
// inferred here. It is instead cloned and typed once per unique call
// signature the first time a matching Call resolves to it (see calls.go).
func (inf *Inferencer) VisitDef(n *ast.Def) bool {
	inf.scope.Self().AddMethod(n)
	return false
}

func (inf *Inferencer) EndVisitDef(n *ast.Def) {}
