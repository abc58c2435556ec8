package analyzer

import (
	"fmt"

	"github.com/classlang/typecore/internal/ast"
	"github.com/classlang/typecore/internal/config"
	"github.com/classlang/typecore/internal/diagnostics"
	"github.com/classlang/typecore/internal/symbols"
	"github.com/classlang/typecore/internal/token"
	"github.com/classlang/typecore/internal/types"
)

// EndVisitCall resolves obj.name(args) { block }: construction (new/allocate
// on a class reference), the built-in `||` disjunction, an explicit generic
// application (ClassName(Args...)), or an ordinary method dispatch against
// the receiver's type — which, for a hierarchy or tagged-union receiver,
// means dispatching against every live member and unioning the results.
func (inf *Inferencer) EndVisitCall(n *ast.Call) {
	if n.Obj == nil {
		if app := inf.tryGenericApplication(n); app {
			return
		}
		self := inf.scope.Self()
		if !self.HasMethodName(n.Name) {
			if _, ok := inf.scope.LookupLocal(n.Name); !ok {
				inf.fail(diagnostics.UndefinedName(n.Position(), n.Name))
			}
		}
		inf.dispatchOn(n, self)
		return
	}

	objType := n.Obj.ResolvedType()

	if n.Name == config.DisjunctionOpName {
		rhs := n.Args[0].ResolvedType()
		n.SetType(inf.module.UnionOf(objType, rhs))
		n.TargetDef = inf.syntheticDef(n.Name, n.Position())
		return
	}

	if n.Name == config.NewMethodName || n.Name == config.AllocateMethodName {
		if class, ok := inf.classConstructorReceiver(n.Obj); ok {
			n.SetType(inf.resolveConstruction(n, class))
			n.TargetDef = inf.syntheticDef(n.Name, n.Position())
			return
		}
	}

	switch recv := objType.(type) {
	case *types.HierarchyType:
		members := inf.module.KnownSubclasses(recv.Root)
		acc := &unionAcc{}
		var lastDef *ast.Def
		for _, m := range members {
			t, def := inf.resolveMethod(n, m)
			acc.add(inf.module, t)
			lastDef = def
		}
		n.SetType(acc.result(inf.module))
		n.TargetDef = lastDef
	case *types.TaggedUnion:
		acc := &unionAcc{}
		var lastDef *ast.Def
		for _, member := range recv.Members {
			if member == inf.module.Nil() {
				continue
			}
			obj, ok := member.(*types.ObjectType)
			if !ok {
				continue
			}
			t, def := inf.resolveMethod(n, obj)
			acc.add(inf.module, t)
			lastDef = def
		}
		n.SetType(acc.result(inf.module))
		n.TargetDef = lastDef
	case *types.ObjectType:
		inf.dispatchOn(n, recv)
	default:
		inf.fail(diagnostics.UndefinedMethod(n.Position(), n.Name, objType.String()))
	}
}

// dispatchOn resolves n against receiver and sets n's type and TargetDef.
func (inf *Inferencer) dispatchOn(n *ast.Call, receiver *types.ObjectType) {
	t, def := inf.resolveMethod(n, receiver)
	n.SetType(t)
	n.TargetDef = def
}

// resolveMethod looks up n.Name/arity on receiver, reporting an arity
// mismatch if the name exists at a different arity and an undefined-method
// fault otherwise, then instantiates (or reuses) the monomorphized clone for
// this exact receiver/argument signature.
func (inf *Inferencer) resolveMethod(n *ast.Call, receiver *types.ObjectType) (types.Type, *ast.Def) {
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = a.ResolvedType()
	}

	method, ok := receiver.LookupMethod(n.Name, len(n.Args))
	if !ok {
		if receiver.HasMethodName(n.Name) {
			inf.fail(diagnostics.WrongNumberOfArguments(n.Position()))
		}
		inf.fail(diagnostics.UndefinedMethod(n.Position(), n.Name, receiver.String()))
	}
	def, ok := method.(*ast.Def)
	if !ok {
		inf.fail(diagnostics.UndefinedMethod(n.Position(), n.Name, receiver.String()))
	}

	var blockSig string
	if n.Block != nil {
		blockSig = fmt.Sprintf("{%d}", len(n.Block.Args))
	}

	return inf.instantiateCall(def, receiver, argTypes, blockSig)
}

// instantiateCall returns the monomorphized return type of def called on
// receiver with argTypes (and, if present, a block of blockSig arity),
// reusing a cached instance for an identical signature. A placeholder Nil
// return is installed before the body is inferred so a recursive self-call
// hits the cache instead of looping forever; the placeholder is overwritten
// once the real body has been typed.
func (inf *Inferencer) instantiateCall(def *ast.Def, receiver *types.ObjectType, argTypes []types.Type, blockSig string) (types.Type, *ast.Def) {
	key := instantiationKey(def, receiver, argTypes, blockSig)
	if inst, ok := inf.module.Instantiation(key); ok {
		return inst.ReturnType, inst.Def.(*ast.Def)
	}

	clone := def.Clone().(*ast.Def)
	placeholder := &symbols.MethodInstance{Def: clone, ReturnType: inf.module.Nil()}
	inf.module.InstallInstantiation(key, placeholder)

	inf.seedInstanceVars(receiver, clone.Body)

	// A parameter annotated with a type variable the receiver instantiation
	// binds (`v : T` on Foo(T=Double)) takes that binding; any other
	// parameter takes its argument's type.
	params := make(map[string]types.Type, len(def.Args)+1)
	for i, formal := range def.Args {
		params[formal.Name] = argTypes[i]
		if bound, ok := receiver.TypeArgs[formal.TypeAnnot]; ok && formal.TypeAnnot != "" {
			params[formal.Name] = bound
		}
	}

	savedScope := inf.scope
	inf.scope = symbols.NewMethodScope(receiver, params)
	inf.returns = append(inf.returns, &unionAcc{})

	if clone.Body != nil {
		clone.Body.Accept(inf)
	}

	acc := inf.returns[len(inf.returns)-1]
	inf.returns = inf.returns[:len(inf.returns)-1]
	inf.scope = savedScope

	bodyType := types.Type(inf.module.Nil())
	if clone.Body != nil {
		bodyType = clone.Body.ResolvedType()
	}
	acc.add(inf.module, bodyType)
	returnType := acc.result(inf.module)

	inf.module.InstallInstantiation(key, &symbols.MethodInstance{Def: clone, ReturnType: returnType})
	return returnType, clone
}

// instantiationKey identifies a unique method-monomorphization signature:
// the declaring Def, the receiver type, each argument's type, and the
// block's arity if a block was passed. Two calls with an identical key
// resolve to the same clone.
func instantiationKey(def *ast.Def, receiver *types.ObjectType, argTypes []types.Type, blockSig string) string {
	key := fmt.Sprintf("%p|%p", def, receiver)
	for _, a := range argTypes {
		key += "|" + a.String()
	}
	if blockSig != "" {
		key += "|" + blockSig
	}
	return key
}

// seedInstanceVars pre-scans body for direct `@ivar = ClassName.new` (or
// .allocate) assignments and seeds owner's instance-variable map with
// union_of(existing_or_Nil, ClassName) before the real inference pass walks
// the body. Without this, a method that reads an instance variable on one
// branch and only assigns it on another (the recursive linked-structure
// idiom `if @next; @next.op; else; @next = Node.new; end`) would see the
// variable as bare Nil on the read branch, since a single top-down pass
// visits it before the assignment. The scan is intentionally shallow: it
// recognizes only the direct pattern, not values threaded through locals.
func (inf *Inferencer) seedInstanceVars(owner *types.ObjectType, body ast.Node) {
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case nil:
			return
		case *ast.Expressions:
			for _, c := range v.Nodes {
				walk(c)
			}
		case *ast.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ast.While:
			walk(v.Cond)
			walk(v.Body)
		case *ast.Block:
			walk(v.Body)
		case *ast.ControlExit:
			for _, e := range v.Exps {
				walk(e)
			}
		case *ast.Assign:
			if v.Target.IsInstanceVar() {
				if class, ok := inf.constructedClassType(v.Value); ok {
					prev, ok := owner.LookupInstanceVar(v.Target.Name)
					if !ok {
						prev = inf.module.Nil()
					}
					owner.InstanceVars[v.Target.Name] = inf.module.UnionOf(prev, class)
				}
			}
			walk(v.Value)
		case *ast.Call:
			walk(v.Obj)
			for _, a := range v.Args {
				walk(a)
			}
			if v.Block != nil {
				walk(v.Block)
			}
		}
	}
	walk(body)
}

// constructedClassType recognizes `ClassName.new`/`ClassName.allocate` and
// returns the class it names; a generic class is not recognized.
func (inf *Inferencer) constructedClassType(n ast.Node) (*types.ObjectType, bool) {
	call, ok := n.(*ast.Call)
	if !ok || call.Obj == nil || (call.Name != config.NewMethodName && call.Name != config.AllocateMethodName) {
		return nil, false
	}
	ref, ok := call.Obj.(*ast.Var)
	if !ok || !ref.IsConstant() {
		return nil, false
	}
	t, ok := inf.module.Types(ref.Name)
	if !ok {
		return nil, false
	}
	obj, ok := t.(*types.ObjectType)
	if !ok || obj.IsGeneric() {
		return nil, false
	}
	return obj, true
}

// classConstructorReceiver reports whether obj names a valid receiver for
// new/allocate: either a bare constant naming a registered class — generic
// or not, since resolveConstruction infers a generic receiver's type
// arguments from initialize's annotated params — or a Call that this pass
// already recognized as an explicit generic-instantiation application
// (Foo(Int)).
func (inf *Inferencer) classConstructorReceiver(obj ast.Node) (*types.ObjectType, bool) {
	if call, ok := obj.(*ast.Call); ok && inf.generic[call] {
		return obj.ResolvedType().(*types.ObjectType), true
	}
	v, ok := obj.(*ast.Var)
	if !ok || !v.IsConstant() {
		return nil, false
	}
	t, ok := inf.module.Types(v.Name)
	if !ok {
		return nil, false
	}
	obj2, ok := t.(*types.ObjectType)
	if !ok {
		return nil, false
	}
	return obj2, true
}

// resolveConstruction types `new`/`allocate` on class: if class defines
// `initialize`, its argument types (annotated with a class's own type
// parameters) bind the generic instantiation's type variables and its body
// is inferred like any other method call, purely for its instance-variable
// side effects (a constructor's own return value is always the instance,
// never whatever initialize returns).
func (inf *Inferencer) resolveConstruction(n *ast.Call, class *types.ObjectType) types.Type {
	instance := class
	if class.IsGeneric() {
		bindings := inf.bindGenericFromInitialize(n, class)
		instance = inf.module.GenericOf(class, bindings)
	}

	if n.Name == config.NewMethodName {
		if init, ok := instance.LookupMethod(config.InitializeMethodName, len(n.Args)); ok {
			if def, ok := init.(*ast.Def); ok {
				argTypes := make([]types.Type, len(n.Args))
				for i, a := range n.Args {
					argTypes[i] = a.ResolvedType()
				}
				inf.instantiateCall(def, instance, argTypes, "")
			}
		} else if instance.HasMethodName(config.InitializeMethodName) || len(n.Args) > 0 {
			// Either initialize exists but at a different arity, or no
			// initialize exists at all and the call still passed arguments
			// to the implicit zero-arg constructor.
			inf.fail(diagnostics.WrongNumberOfArguments(n.Position()))
		}
	}

	return instance
}

// bindGenericFromInitialize binds class's type parameters from initialize's
// annotated formal parameters matched positionally against the call's
// argument types. A type variable bound more than once (two annotated
// parameters naming the same variable) takes the type of the last matching
// argument; a parameter left unbound by any annotation defaults to Nil.
func (inf *Inferencer) bindGenericFromInitialize(n *ast.Call, class *types.ObjectType) map[string]types.Type {
	bindings := make(map[string]types.Type, len(class.TypeParams))
	for _, p := range class.TypeParams {
		bindings[p] = inf.module.Nil()
	}

	init, ok := class.LookupMethod(config.InitializeMethodName, len(n.Args))
	if !ok {
		return bindings
	}
	def, ok := init.(*ast.Def)
	if !ok {
		return bindings
	}

	isParam := make(map[string]bool, len(class.TypeParams))
	for _, p := range class.TypeParams {
		isParam[p] = true
	}

	for i, formal := range def.Args {
		if i >= len(n.Args) {
			break
		}
		if formal.TypeAnnot != "" && isParam[formal.TypeAnnot] {
			bindings[formal.TypeAnnot] = n.Args[i].ResolvedType()
		}
	}
	return bindings
}

// tryGenericApplication recognizes a call with no explicit receiver whose
// name matches a registered generic class and whose arguments are each a
// bare constant naming a bound type — the AST model has no dedicated
// "generic type application" node, so `Foo(Int)` surfaces as
// Call(Obj=nil, Name="Foo", Args=[Var("Int")]). On a match it sets n's type
// to the interned instantiation and records n in inf.generic so a following
// .new/.allocate on it is recognized as constructing that instantiation.
func (inf *Inferencer) tryGenericApplication(n *ast.Call) bool {
	t, ok := inf.module.Types(n.Name)
	if !ok {
		return false
	}
	class, ok := t.(*types.ObjectType)
	if !ok || !class.IsGeneric() || len(n.Args) != len(class.TypeParams) {
		return false
	}

	bindings := make(map[string]types.Type, len(class.TypeParams))
	for i, param := range class.TypeParams {
		argVar, ok := n.Args[i].(*ast.Var)
		if !ok || !argVar.IsConstant() {
			return false
		}
		argType, ok := inf.module.Types(argVar.Name)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(n.Args[i].Position(), argVar.Name))
		}
		bindings[param] = argType
	}

	instance := inf.module.GenericOf(class, bindings)
	n.SetType(instance)
	n.TargetDef = inf.syntheticDef(n.Name, n.Position())
	inf.generic[n] = true
	return true
}

// syntheticDef produces a throwaway, unregistered Def used only to satisfy
// TargetDef on a Call resolved without going through instantiateCall (new,
// allocate, ||, an explicit generic application): none of these correspond
// to a user-defined method, but every Call still carries a non-nil target.
func (inf *Inferencer) syntheticDef(name string, pos token.Position) *ast.Def {
	def := ast.NewDef(nil, name, nil, ast.NewExpressions(nil))
	def.Pos = pos
	return def
}
