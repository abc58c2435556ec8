// Package fixture decodes the JSON AST fixture format the typecore driver
// accepts: a plain tagged-variant encoding of the same node shapes
// internal/ast defines, used to hand the driver a program without a real
// parser front-end (the lexer/parser is an explicit non-goal of this core;
// see SPEC_FULL.md).
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/classlang/typecore/internal/ast"
)

// Program is the top-level fixture document: {"program": <Expressions>}.
type Program struct {
	Root *ast.Expressions
}

func (p *Program) UnmarshalJSON(data []byte) error {
	var doc struct {
		Program json.RawMessage `json:"program"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	n, err := decodeNode(doc.Program)
	if err != nil {
		return err
	}
	exprs, ok := n.(*ast.Expressions)
	if !ok {
		return fmt.Errorf("fixture: top-level \"program\" must be an Expressions node, got %T", n)
	}
	p.Root = exprs
	return nil
}

// node is the tagged-variant envelope every fixture node shares; fields
// unused by a given kind are simply left at their zero value.
type node struct {
	Kind       string            `json:"kind"`
	Value      json.RawMessage   `json:"value"`
	Name       string            `json:"name"`
	Superclass string            `json:"superclass"`
	TypeParams []string          `json:"typeParams"`
	TypeAnnot  string            `json:"typeAnnot"`
	Nodes      []json.RawMessage `json:"nodes"`
	Target     json.RawMessage   `json:"target"`
	Obj        json.RawMessage   `json:"obj"`
	Cond       json.RawMessage   `json:"cond"`
	Then       json.RawMessage   `json:"then"`
	Else       json.RawMessage   `json:"else"`
	Body       json.RawMessage   `json:"body"`
	Args       []json.RawMessage `json:"args"`
	Block      json.RawMessage   `json:"block"`
	Receiver   json.RawMessage   `json:"receiver"`
	ExitKind   string            `json:"exitKind"`
	Exps       []json.RawMessage `json:"exps"`
}

// decodeNode dispatches on the "kind" tag to build the matching ast.Node.
// raw may be null/empty, which decodes to a nil Node (used for an absent
// Else, Obj, Block, Receiver, or Body).
func decodeNode(raw json.RawMessage) (ast.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("fixture: decoding node: %w", err)
	}

	switch n.Kind {
	case "Expressions":
		nodes, err := decodeNodes(n.Nodes)
		if err != nil {
			return nil, err
		}
		return ast.NewExpressions(nodes), nil

	case "NilLit":
		return &ast.NilLit{}, nil

	case "BoolLit":
		var v bool
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: BoolLit value: %w", err)
		}
		return &ast.BoolLit{Value: v}, nil

	case "IntLit":
		var v int64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: IntLit value: %w", err)
		}
		return &ast.IntLit{Value: v}, nil

	case "FloatLit":
		var v float64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("fixture: FloatLit value: %w", err)
		}
		return &ast.FloatLit{Value: v}, nil

	case "CharLit":
		var v string
		if err := json.Unmarshal(n.Value, &v); err != nil || len([]rune(v)) != 1 {
			return nil, fmt.Errorf("fixture: CharLit value must be a single character")
		}
		return &ast.CharLit{Value: []rune(v)[0]}, nil

	case "Var":
		return ast.NewVar(n.Name), nil

	case "Assign":
		target, err := decodeNode(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		tv, ok := target.(*ast.Var)
		if !ok {
			return nil, fmt.Errorf("fixture: Assign target must be a Var")
		}
		return ast.NewAssign(tv, value), nil

	case "If":
		cond, err := decodeNode(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNode(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeNode(n.Else)
		if err != nil {
			return nil, err
		}
		return ast.NewIf(cond, then, els), nil

	case "While":
		cond, err := decodeNode(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(cond, body), nil

	case "Block":
		formals := make([]*ast.Formal, len(n.Args))
		for i, a := range n.Args {
			f, err := decodeFormal(a)
			if err != nil {
				return nil, err
			}
			formals[i] = f
		}
		body, err := decodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(formals, body), nil

	case "Call":
		obj, err := decodeNode(n.Obj)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodes(n.Args)
		if err != nil {
			return nil, err
		}
		var block *ast.Block
		if blk, err := decodeNode(n.Block); err != nil {
			return nil, err
		} else if blk != nil {
			b, ok := blk.(*ast.Block)
			if !ok {
				return nil, fmt.Errorf("fixture: Call block must be a Block node")
			}
			block = b
		}
		return ast.NewCall(obj, n.Name, args, block), nil

	case "ControlExit":
		kind, err := decodeExitKind(n.ExitKind)
		if err != nil {
			return nil, err
		}
		exps, err := decodeNodes(n.Exps)
		if err != nil {
			return nil, err
		}
		return ast.NewControlExit(kind, exps), nil

	case "ClassDef":
		body, err := decodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		exprs, ok := body.(*ast.Expressions)
		if !ok {
			if body == nil {
				exprs = ast.NewExpressions(nil)
			} else {
				return nil, fmt.Errorf("fixture: ClassDef body must be an Expressions node")
			}
		}
		return ast.NewClassDef(n.Name, n.Superclass, n.TypeParams, exprs), nil

	case "Def":
		var recv *ast.Var
		if r, err := decodeNode(n.Receiver); err != nil {
			return nil, err
		} else if r != nil {
			rv, ok := r.(*ast.Var)
			if !ok {
				return nil, fmt.Errorf("fixture: Def receiver must be a Var node")
			}
			recv = rv
		}
		formals := make([]*ast.Formal, len(n.Args))
		for i, a := range n.Args {
			f, err := decodeFormal(a)
			if err != nil {
				return nil, err
			}
			formals[i] = f
		}
		body, err := decodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.NewDef(recv, n.Name, formals, body), nil

	default:
		return nil, fmt.Errorf("fixture: unknown node kind %q", n.Kind)
	}
}

func decodeNodes(raws []json.RawMessage) ([]ast.Node, error) {
	nodes := make([]ast.Node, len(raws))
	for i, r := range raws {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func decodeFormal(raw json.RawMessage) (*ast.Formal, error) {
	var f struct {
		Name      string `json:"name"`
		TypeAnnot string `json:"typeAnnot"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("fixture: decoding formal: %w", err)
	}
	return ast.NewFormal(f.Name, f.TypeAnnot), nil
}

func decodeExitKind(s string) (ast.ExitKind, error) {
	switch s {
	case "return":
		return ast.ExitReturn, nil
	case "break":
		return ast.ExitBreak, nil
	case "next":
		return ast.ExitNext, nil
	case "yield":
		return ast.ExitYield, nil
	default:
		return 0, fmt.Errorf("fixture: unknown exitKind %q", s)
	}
}
