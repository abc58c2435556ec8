package analyzer

import (
	"testing"

	"github.com/classlang/typecore/internal/ast"
	"github.com/classlang/typecore/internal/symbols"
	"github.com/classlang/typecore/internal/types"
)

// run builds a fresh Module, runs Infer over nodes wrapped in an
// Expressions root, and fails the test on an unexpected fault.
func run(t *testing.T, nodes ...ast.Node) (*symbols.Module, *ast.Expressions) {
	t.Helper()
	module := symbols.NewModule()
	root := ast.NewExpressions(nodes)
	if err := New(module).Infer(root); err != nil {
		t.Fatalf("unexpected inference fault: %v", err)
	}
	return module, root
}

// expectFault runs nodes and asserts inference fails with exactly msg.
func expectFault(t *testing.T, msg string, nodes ...ast.Node) {
	t.Helper()
	module := symbols.NewModule()
	root := ast.NewExpressions(nodes)
	err := New(module).Infer(root)
	if err == nil {
		t.Fatalf("expected fault %q, got none", msg)
	}
	if err.Error() != msg {
		t.Fatalf("expected fault %q, got %q", msg, err.Error())
	}
}

func classDef(name, super string, typeParams []string, body ...ast.Node) *ast.ClassDef {
	return ast.NewClassDef(name, super, typeParams, ast.NewExpressions(body))
}

func def(name string, args []*ast.Formal, body ...ast.Node) *ast.Def {
	return ast.NewDef(nil, name, args, ast.NewExpressions(body))
}

func call(obj ast.Node, name string, args ...ast.Node) *ast.Call {
	return ast.NewCall(obj, name, args, nil)
}

// Scenario 1: class Foo; end; Foo.allocate -> Foo.
func TestScenario1_AllocateBareClass(t *testing.T) {
	alloc := call(ast.NewVar("Foo"), "allocate")
	_, root := run(t, classDef("Foo", "", nil), alloc)

	foo := root.Nodes[0].ResolvedType()
	if alloc.ResolvedType() != foo {
		t.Errorf("Foo.allocate: got %s, want %s", alloc.ResolvedType(), foo)
	}
	if alloc.TargetDef == nil {
		t.Error("Foo.allocate: TargetDef is nil")
	}
}

// Scenario 2: class Foo; def coco; 1; end; end; Foo.new.coco -> Int.
func TestScenario2_MethodReturnsLiteralType(t *testing.T) {
	newCall := call(ast.NewVar("Foo"), "new")
	cocoCall := call(newCall, "coco")

	module, _ := run(t,
		classDef("Foo", "", nil, def("coco", nil, &ast.IntLit{Value: 1})),
		cocoCall,
	)

	if cocoCall.ResolvedType() != module.Int() {
		t.Errorf("Foo.new.coco: got %s, want Int", cocoCall.ResolvedType())
	}
	if cocoCall.TargetDef == nil {
		t.Error("Foo.new.coco: TargetDef is nil")
	}
}

// Scenario 3: explicit generic instantiation, two independent bindings.
//
//	class Foo(T); def set(v : T); @coco = v; end; end
//	f = Foo(Int).new; f.set 2
//	g = Foo(Double).new; g.set 2.5
func TestScenario3_ExplicitGenericInstantiation(t *testing.T) {
	module := symbols.NewModule()

	classFoo := classDef("Foo", "", []string{"T"},
		def("set", []*ast.Formal{ast.NewFormal("v", "T")},
			ast.NewAssign(ast.NewVar("@coco"), ast.NewVar("v"))))

	fAssign := ast.NewAssign(ast.NewVar("f"),
		call(call(nil, "Foo", ast.NewVar("Int")), "new"))
	fSet := call(ast.NewVar("f"), "set", &ast.IntLit{Value: 2})

	gAssign := ast.NewAssign(ast.NewVar("g"),
		call(call(nil, "Foo", ast.NewVar("Double")), "new"))
	gSet := call(ast.NewVar("g"), "set", &ast.FloatLit{Value: 2.5})

	root := ast.NewExpressions([]ast.Node{classFoo, fAssign, fSet, gAssign, gSet})
	if err := New(module).Infer(root); err != nil {
		t.Fatalf("unexpected inference fault: %v", err)
	}

	fType, ok := fAssign.ResolvedType().(*types.ObjectType)
	if !ok || fType.GenericOf == nil || fType.TypeArgs["T"] != module.Int() {
		t.Fatalf("f: got %s, want Foo(T=Int)", fAssign.ResolvedType())
	}
	coco, ok := fType.LookupInstanceVar("@coco")
	if !ok {
		t.Fatal("f: @coco not recorded")
	}
	if union, ok := coco.(*types.TaggedUnion); !ok || !union.Includes(module.Nil()) || !union.Includes(module.Int()) {
		t.Errorf("f.@coco: got %s, want union(Nil, Int)", coco)
	}

	gType, ok := gAssign.ResolvedType().(*types.ObjectType)
	if !ok || gType.GenericOf == nil || gType.TypeArgs["T"] != module.Double() {
		t.Fatalf("g: got %s, want Foo(T=Double)", gAssign.ResolvedType())
	}
	if gType == fType {
		t.Error("Foo(T=Int) and Foo(T=Double) must be distinct instantiations")
	}
	gCoco, ok := gType.LookupInstanceVar("@coco")
	if !ok {
		t.Fatal("g: @coco not recorded")
	}
	if union, ok := gCoco.(*types.TaggedUnion); !ok || !union.Includes(module.Nil()) || !union.Includes(module.Double()) {
		t.Errorf("g.@coco: got %s, want union(Nil, Double)", gCoco)
	}
}

// Scenario 4: the recursive linked-node idiom must terminate.
//
//	class Node
//	  def add
//	    if @next; @next.add; else; @next = Node.new; end
//	  end
//	end
//	n = Node.new; n.add; n
func TestScenario4_RecursiveSelfReferentialMethod(t *testing.T) {
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

	module, _ := run(t, classDef("Node", "", nil, addDef), nAssign, nAdd, nRead)

	nodeType, _ := module.Types("Node")
	if nRead.ResolvedType() != nodeType {
		t.Errorf("n: got %s, want Node", nRead.ResolvedType())
	}
	if nAdd.TargetDef == nil {
		t.Error("n.add: TargetDef is nil")
	}

	obj := nodeType.(*types.ObjectType)
	next, ok := obj.LookupInstanceVar("@next")
	if !ok {
		t.Fatal("Node.@next was never recorded")
	}
	union, ok := next.(*types.TaggedUnion)
	if !ok || !union.Includes(module.Nil()) || !union.Includes(nodeType) {
		t.Errorf("Node.@next: got %s, want union(Nil, Node)", next)
	}
}

// Scenario 5: disjunction of related classes collapses to a hierarchy type.
//
//	class Foo; end; class Bar < Foo; end; a = Foo.new || Bar.new
func TestScenario5_DisjunctionCollapsesToHierarchy(t *testing.T) {
	aAssign := ast.NewAssign(ast.NewVar("a"),
		call(call(ast.NewVar("Foo"), "new"), "||", call(ast.NewVar("Bar"), "new")))

	module, _ := run(t,
		classDef("Foo", "", nil),
		classDef("Bar", "Foo", nil),
		aAssign,
	)

	fooType, _ := module.Types("Foo")
	hierarchy, ok := aAssign.ResolvedType().(*types.HierarchyType)
	if !ok || hierarchy.Root != fooType {
		t.Errorf("a: got %s, want hierarchy(Foo)", aAssign.ResolvedType())
	}
}

// Scenario 6: implicit generic binding from initialize's annotated params.
//
//	class Box(T); def initialize(x, value : T); @value = value; end; end
//	Box.new(1, false) -> Box(T=Bool)
func TestScenario6_ImplicitGenericBindingFromInitialize(t *testing.T) {
	boxDef := classDef("Box", "", []string{"T"},
		def("initialize", []*ast.Formal{ast.NewFormal("x", ""), ast.NewFormal("value", "T")},
			ast.NewAssign(ast.NewVar("@value"), ast.NewVar("value"))))

	newCall := call(ast.NewVar("Box"), "new", &ast.IntLit{Value: 1}, &ast.BoolLit{Value: false})

	module, _ := run(t, boxDef, newCall)

	boxType, ok := newCall.ResolvedType().(*types.ObjectType)
	if !ok || boxType.GenericOf == nil || boxType.TypeArgs["T"] != module.Bool() {
		t.Fatalf("Box.new(1, false): got %s, want Box(T=Bool)", newCall.ResolvedType())
	}
	value, ok := boxType.LookupInstanceVar("@value")
	if !ok {
		t.Fatal("Box.@value was never recorded")
	}
	union, ok := value.(*types.TaggedUnion)
	if !ok || !union.Includes(module.Nil()) || !union.Includes(module.Bool()) {
		t.Errorf("Box.@value: got %s, want union(Nil, Bool)", value)
	}
}

// Scenario 7: constructing an undefined class fails.
func TestScenario7_UndefinedConstantOnConstruction(t *testing.T) {
	expectFault(t, "uninitialized constant Foo", call(ast.NewVar("Foo"), "new"))
}

// Scenario 8: calling new with the wrong argument count fails.
//
//	class Foo; def initialize(x,y); end; end; Foo.new
func TestScenario8_WrongNumberOfArgumentsOnConstruction(t *testing.T) {
	fooDef := classDef("Foo", "", nil,
		def("initialize", []*ast.Formal{ast.NewFormal("x", ""), ast.NewFormal("y", "")}))
	expectFault(t, "wrong number of arguments", fooDef, call(ast.NewVar("Foo"), "new"))
}

// Scenario 9: reopening a class with a conflicting superclass fails.
//
//	class Foo; end; class Bar; end; class Foo < Bar; end
func TestScenario9_SuperclassMismatchOnReopen(t *testing.T) {
	expectFault(t, "superclass mismatch for class Foo (Bar for Object)",
		classDef("Foo", "", nil),
		classDef("Bar", "", nil),
		classDef("Foo", "Bar", nil),
	)
}
