package analyzer

import (
	"testing"

	"github.com/classlang/typecore/internal/ast"
	"github.com/classlang/typecore/internal/symbols"
	"github.com/classlang/typecore/internal/types"
)

// TestUnionOfAlgebra checks the identity, idempotence, and associativity
// properties union_of is required to satisfy.
func TestUnionOfAlgebra(t *testing.T) {
	m := symbols.NewModule()
	a, b, c := m.Int(), m.Bool(), m.Char()

	if got := m.UnionOf(a); got != a {
		t.Errorf("union_of(A) = %s, want A", got)
	}
	if got := m.UnionOf(a, a); got != a {
		t.Errorf("union_of(A, A) = %s, want A", got)
	}

	left := m.UnionOf(m.UnionOf(a, b), c)
	right := m.UnionOf(a, b, c)
	if left != right {
		t.Errorf("union_of(union_of(A, B), C) = %s, want union_of(A, B, C) = %s", left, right)
	}
}

// TestGenericInstantiationIdentity checks that two instantiations of the
// same generic class with equal type-var maps are the same pointer.
func TestGenericInstantiationIdentity(t *testing.T) {
	m := symbols.NewModule()
	box := m.DefineClass("Box", nil, []string{"T"})

	i1 := m.GenericOf(box, map[string]types.Type{"T": m.Int()})
	i2 := m.GenericOf(box, map[string]types.Type{"T": m.Int()})
	if i1 != i2 {
		t.Error("GenericOf(Box, {T: Int}) called twice produced distinct pointers")
	}

	i3 := m.GenericOf(box, map[string]types.Type{"T": m.Bool()})
	if i1 == i3 {
		t.Error("GenericOf with different bindings produced the same pointer")
	}
}

// TestHierarchyTypeIdentity checks that HierarchyOf is pointer-stable per
// root class.
func TestHierarchyTypeIdentity(t *testing.T) {
	m := symbols.NewModule()
	foo := m.DefineClass("Foo", nil, nil)
	if m.HierarchyOf(foo) != m.HierarchyOf(foo) {
		t.Error("HierarchyOf(Foo) is not pointer-stable")
	}
}

// TestCloneStructuralEquality checks that Clone produces a structurally
// equal AST with a disjoint parent graph.
func TestCloneStructuralEquality(t *testing.T) {
	original := ast.NewIf(
		ast.NewVar("@next"),
		call(ast.NewVar("@next"), "add"),
		ast.NewAssign(ast.NewVar("@next"), call(ast.NewVar("Node"), "new")),
	)
	clone := original.Clone()

	if !original.Equal(clone) {
		t.Fatal("clone is not structurally equal to the original")
	}
	if clone.Parent() != nil {
		t.Error("a freshly cloned root must have no parent")
	}

	cloneIf := clone.(*ast.If)
	if cloneIf.Cond.Parent() != clone {
		t.Error("clone did not rewire its children's parent links to itself")
	}
	if cloneIf.Cond == original.Cond {
		t.Error("clone must be a deep copy, not a shared subtree")
	}
}

// TestEveryExpressionNodeIsTyped walks a successfully inferred program and
// asserts that every expression node (excluding the ClassDef and Def
// declarations themselves, whose own types the walk does not check)
// carries a resolved type, and
// that every Call carries a non-nil TargetDef.
func TestEveryExpressionNodeIsTyped(t *testing.T) {
	addDef := def("add", nil,
		ast.NewIf(
			ast.NewVar("@next"),
			call(ast.NewVar("@next"), "add"),
			ast.NewAssign(ast.NewVar("@next"), call(ast.NewVar("Node"), "new")),
		),
	)
	nAssign := ast.NewAssign(ast.NewVar("n"), call(ast.NewVar("Node"), "new"))
	nAdd := call(ast.NewVar("n"), "add")
	nRead := ast.NewVar("n")

	_, root := run(t, classDef("Node", "", nil, addDef), nAssign, nAdd, nRead)

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case nil:
			return
		case *ast.ClassDef:
			walk(v.Body)
			return
		case *ast.Def:
			// A Def's own body is only typed lazily, per call signature; it
			// is not itself an expression node requiring a resolved type.
			return
		case *ast.Call:
			if v.TargetDef == nil {
				t.Errorf("Call %s: TargetDef is nil", v.Name)
			}
			walk(v.Obj)
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ast.Assign:
			walk(v.Value)
		case *ast.Expressions:
			for _, c := range v.Nodes {
				walk(c)
			}
		}
		if n.ResolvedType() == nil {
			t.Errorf("%T: ResolvedType is nil", n)
		}
	}
	walk(root)
}

// TestMethodScopeDoesNotSeeCallerLocals checks that a method body cannot
// resolve a plain identifier bound as a local at its call site: locals are
// per-invocation, never inherited across a dispatch boundary.
//
//	x = 5; class Foo; def bar; x; end; end; Foo.new.bar
func TestMethodScopeDoesNotSeeCallerLocals(t *testing.T) {
	xAssign := ast.NewAssign(ast.NewVar("x"), &ast.IntLit{Value: 5})
	barDef := def("bar", nil, ast.NewVar("x"))
	fooDef := classDef("Foo", "", nil, barDef)
	callBar := call(call(ast.NewVar("Foo"), "new"), "bar")

	expectFault(t, "undefined local variable or method 'x'", xAssign, fooDef, callBar)
}

// TestReceiverlessUndefinedNameFault checks that a receiverless call
// matching no method and no local faults as an undefined name, not as an
// undefined method on the implicit receiver.
func TestReceiverlessUndefinedNameFault(t *testing.T) {
	expectFault(t, "undefined local variable or method 'mystery'", call(nil, "mystery"))
}

// TestGenericInstantiationIvarsAlwaysNilable checks that every instance
// variable recorded on a generic instantiation is a union including Nil,
// never a bare non-nilable type — an ivar is always "possibly unset".
func TestGenericInstantiationIvarsAlwaysNilable(t *testing.T) {
	boxDef := classDef("Box", "", []string{"T"},
		def("initialize", []*ast.Formal{ast.NewFormal("value", "T")},
			ast.NewAssign(ast.NewVar("@value"), ast.NewVar("value"))))
	newCall := call(ast.NewVar("Box"), "new", &ast.IntLit{Value: 7})

	module, _ := run(t, boxDef, newCall)

	boxType := newCall.ResolvedType().(*types.ObjectType)
	value, ok := boxType.LookupInstanceVar("@value")
	if !ok {
		t.Fatal("Box.@value was never recorded")
	}
	union, ok := value.(*types.TaggedUnion)
	if !ok || !union.Includes(module.Nil()) {
		t.Errorf("Box.@value: got %s, want a union including Nil", value)
	}
}
