// Package diagnostics implements an error taxonomy where inference raises a
// single fatal Fault carrying a message and an optional source location,
// never a partial result. This is a deliberate narrowing of a
// diagnostics.DiagnosticError convention that accumulates many deduplicated
// errors across a whole module: here, errors are fatal to the entire
// inference run and there is no per-node recovery, so this core stops at
// the first fault instead of collecting a batch.
package diagnostics

import (
	"fmt"

	"github.com/classlang/typecore/internal/token"
)

// Kind enumerates the error kinds an inference run can raise. The message
// text produced by Fault.Error is matched by tests, so kinds are
// informational only; Fault.Error never dispatches on Kind, it just returns
// the message that was formatted when the Fault was raised.
type Kind int

const (
	KindUnresolvedConstant Kind = iota
	KindUnresolvedMethod
	KindUnresolvedName
	KindSuperclassMismatch
	KindArityMismatch
)

// Fault is the single fatal error an inference run can produce.
type Fault struct {
	Kind     Kind
	Message  string
	Position token.Position
	HasPos   bool
}

func (f *Fault) Error() string { return f.Message }

func newFault(kind Kind, pos token.Position, format string, args ...interface{}) *Fault {
	return &Fault{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		HasPos:   !pos.IsZero(),
	}
}

// UninitializedConstant reports "uninitialized constant <Name>".
func UninitializedConstant(pos token.Position, name string) *Fault {
	return newFault(KindUnresolvedConstant, pos, "uninitialized constant %s", name)
}

// UndefinedMethod reports "undefined method '<name>' for <TypeName>".
func UndefinedMethod(pos token.Position, name, typeName string) *Fault {
	return newFault(KindUnresolvedMethod, pos, "undefined method '%s' for %s", name, typeName)
}

// UndefinedName reports "undefined local variable or method '<name>'".
func UndefinedName(pos token.Position, name string) *Fault {
	return newFault(KindUnresolvedName, pos, "undefined local variable or method '%s'", name)
}

// SuperclassMismatch reports
// "superclass mismatch for class <C> (<attempted> for <previous>)", matching
// a documented example verbatim: reopening `class Foo; end` (superclass
// defaults to Object) as `class Foo < Bar; end` reports
// "superclass mismatch for class Foo (Bar for Object)" — the newly attempted
// superclass first, the class's already-recorded one second.
func SuperclassMismatch(pos token.Position, class, attempted, previous string) *Fault {
	return newFault(KindSuperclassMismatch, pos, "superclass mismatch for class %s (%s for %s)", class, attempted, previous)
}

// WrongNumberOfArguments reports "wrong number of arguments".
func WrongNumberOfArguments(pos token.Position) *Fault {
	return newFault(KindArityMismatch, pos, "wrong number of arguments")
}
