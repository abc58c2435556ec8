package ast

// Visitor implements a double-dispatch protocol: one Visit_<kind>
// (pre-order, return value controls descent) and one End_<kind>
// (post-order) per AST variant.
type Visitor interface {
	VisitExpressions(*Expressions) bool
	EndVisitExpressions(*Expressions)

	VisitNilLit(*NilLit) bool
	EndVisitNilLit(*NilLit)
	VisitBoolLit(*BoolLit) bool
	EndVisitBoolLit(*BoolLit)
	VisitIntLit(*IntLit) bool
	EndVisitIntLit(*IntLit)
	VisitFloatLit(*FloatLit) bool
	EndVisitFloatLit(*FloatLit)
	VisitCharLit(*CharLit) bool
	EndVisitCharLit(*CharLit)

	VisitVar(*Var) bool
	EndVisitVar(*Var)
	VisitAssign(*Assign) bool
	EndVisitAssign(*Assign)
	VisitIf(*If) bool
	EndVisitIf(*If)
	VisitWhile(*While) bool
	EndVisitWhile(*While)
	VisitBlock(*Block) bool
	EndVisitBlock(*Block)
	VisitCall(*Call) bool
	EndVisitCall(*Call)
	VisitControlExit(*ControlExit) bool
	EndVisitControlExit(*ControlExit)

	VisitClassDef(*ClassDef) bool
	EndVisitClassDef(*ClassDef)
	VisitDef(*Def) bool
	EndVisitDef(*Def)
}

// BaseVisitor implements Visitor with defaults: every Visit_<kind> descends
// (returns true), every End_<kind> is inert. Embed it in a concrete visitor
// and override only the methods that need behavior.
type BaseVisitor struct{}

func (BaseVisitor) VisitExpressions(*Expressions) bool { return true }
func (BaseVisitor) EndVisitExpressions(*Expressions)   {}

func (BaseVisitor) VisitNilLit(*NilLit) bool { return true }
func (BaseVisitor) EndVisitNilLit(*NilLit)   {}
func (BaseVisitor) VisitBoolLit(*BoolLit) bool { return true }
func (BaseVisitor) EndVisitBoolLit(*BoolLit)   {}
func (BaseVisitor) VisitIntLit(*IntLit) bool { return true }
func (BaseVisitor) EndVisitIntLit(*IntLit)   {}
func (BaseVisitor) VisitFloatLit(*FloatLit) bool { return true }
func (BaseVisitor) EndVisitFloatLit(*FloatLit)   {}
func (BaseVisitor) VisitCharLit(*CharLit) bool { return true }
func (BaseVisitor) EndVisitCharLit(*CharLit)   {}

func (BaseVisitor) VisitVar(*Var) bool { return true }
func (BaseVisitor) EndVisitVar(*Var)   {}
func (BaseVisitor) VisitAssign(*Assign) bool { return true }
func (BaseVisitor) EndVisitAssign(*Assign)   {}
func (BaseVisitor) VisitIf(*If) bool { return true }
func (BaseVisitor) EndVisitIf(*If)   {}
func (BaseVisitor) VisitWhile(*While) bool { return true }
func (BaseVisitor) EndVisitWhile(*While)   {}
func (BaseVisitor) VisitBlock(*Block) bool { return true }
func (BaseVisitor) EndVisitBlock(*Block)   {}
func (BaseVisitor) VisitCall(*Call) bool { return true }
func (BaseVisitor) EndVisitCall(*Call)   {}
func (BaseVisitor) VisitControlExit(*ControlExit) bool { return true }
func (BaseVisitor) EndVisitControlExit(*ControlExit)   {}

func (BaseVisitor) VisitClassDef(*ClassDef) bool { return true }
func (BaseVisitor) EndVisitClassDef(*ClassDef)   {}
func (BaseVisitor) VisitDef(*Def) bool { return true }
func (BaseVisitor) EndVisitDef(*Def)   {}
