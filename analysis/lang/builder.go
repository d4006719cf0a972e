// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lang

import "fmt"

// ProgramBuilder assembles a Program bottom-up: expressions first, then the
// statements that contain them, then declarations and source files. Each
// node is attached to exactly one parent. The parser adapter and the tests
// are the two clients.
//
// Shape conventions (the accessors in this package rely on them):
//
//	if_statement        [cond, then, else?]
//	while_statement     [cond, body]
//	do_while_statement  [body, cond]
//	for_statement       [init, cond, update, body] (absent pieces are desugared,
//	                    see For)
//	try_statement       [attempted call, body, catch_clause...]
//	call_expression     [callee, args...]
//	member_expression   [base], member name in Text
//	assignment          [lhs, rhs], operator in Text
type ProgramBuilder struct {
	prog     *Program
	nextLine int32
}

// NewProgramBuilder returns an empty builder.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{prog: &Program{}, nextLine: 1}
}

// Build returns the assembled program. The builder must not be reused.
func (b *ProgramBuilder) Build() *Program {
	return b.prog
}

func (b *ProgramBuilder) newNode(kind Kind, text string, children ...Node) Node {
	idx := int32(len(b.prog.nodes))
	d := nodeData{
		kind:    kind,
		text:    text,
		parent:  -1,
		file:    -1,
		line:    b.nextLine,
		col:     1,
		endLine: b.nextLine,
		endCol:  1 + int32(len(text)),
	}
	b.nextLine++
	for _, c := range children {
		if !c.Valid() {
			continue
		}
		if c.prog != b.prog {
			panic(fmt.Sprintf("builder: child %s belongs to another program", c.Kind()))
		}
		if b.prog.nodes[c.idx].parent >= 0 {
			panic(fmt.Sprintf("builder: node %s already attached", c.Kind()))
		}
		b.prog.nodes[c.idx].parent = idx
		d.children = append(d.children, c.idx)
	}
	b.prog.nodes = append(b.prog.nodes, d)
	return Node{b.prog, idx}
}

// File creates a source_file holding the given declarations. Nodes created
// after this call belong to the next file.
func (b *ProgramBuilder) File(name string, decls ...Node) Node {
	fileIdx := int32(len(b.prog.files))
	b.prog.files = append(b.prog.files, name)
	n := b.newNode(KindSourceFile, name, decls...)
	// stamp the file on the nodes built since the previous File call
	for i := range b.prog.nodes {
		if b.prog.nodes[i].file < 0 {
			b.prog.nodes[i].file = fileIdx
		}
	}
	return n
}

// Declarations

// Contract creates a contract_declaration named name from bases, state
// variables, functions, modifiers and an optional constructor.
func (b *ProgramBuilder) Contract(name string, parts ...Node) Node {
	return b.newNode(KindContract, name, parts...)
}

// Interface creates an interface_declaration.
func (b *ProgramBuilder) Interface(name string, parts ...Node) Node {
	return b.newNode(KindInterface, name, parts...)
}

// Library creates a library_declaration.
func (b *ProgramBuilder) Library(name string, parts ...Node) Node {
	return b.newNode(KindLibrary, name, parts...)
}

// Abstract marks the enclosing contract declaration as abstract.
func (b *ProgramBuilder) Abstract() Node {
	return b.newNode(KindAbstract, "abstract")
}

// Base creates an inheritance_specifier naming a direct base contract.
func (b *ProgramBuilder) Base(name string) Node {
	return b.newNode(KindInheritance, name)
}

// StateVar creates a state_variable_declaration without initializer.
func (b *ProgramBuilder) StateVar(name, typ string) Node {
	return b.newNode(KindStateVariable, name, b.TypeName(typ))
}

// StateVarInit creates a state_variable_declaration with an initializer.
func (b *ProgramBuilder) StateVarInit(name, typ string, init Node) Node {
	return b.newNode(KindStateVariable, name, b.TypeName(typ), init)
}

// Function creates a function_definition. Parts are visibility, virtual,
// override, parameters, modifier invocations, and at most one body block;
// a function without a body block is unimplemented.
func (b *ProgramBuilder) Function(name string, parts ...Node) Node {
	return b.newNode(KindFunction, name, parts...)
}

// Constructor creates a constructor_definition.
func (b *ProgramBuilder) Constructor(parts ...Node) Node {
	return b.newNode(KindConstructor, "constructor", parts...)
}

// ModifierDef creates a modifier_definition; its body should contain a
// Placeholder statement where the wrapped function splices in.
func (b *ProgramBuilder) ModifierDef(name string, parts ...Node) Node {
	return b.newNode(KindModifierDef, name, parts...)
}

// Param creates a parameter with its type.
func (b *ProgramBuilder) Param(name, typ string) Node {
	return b.newNode(KindParameter, name, b.TypeName(typ))
}

// TypeName creates a type_name leaf.
func (b *ProgramBuilder) TypeName(typ string) Node {
	return b.newNode(KindTypeName, typ)
}

// Visibility creates a visibility leaf ("public", "external", "internal", "private").
func (b *ProgramBuilder) Visibility(v string) Node {
	return b.newNode(KindVisibility, v)
}

// Virtual creates the virtual marker.
func (b *ProgramBuilder) Virtual() Node {
	return b.newNode(KindVirtual, "virtual")
}

// Override creates an override_specifier marker.
func (b *ProgramBuilder) Override() Node {
	return b.newNode(KindOverride, "override")
}

// ModifierCall creates a modifier_invocation with its arguments.
func (b *ProgramBuilder) ModifierCall(name string, args ...Node) Node {
	return b.newNode(KindModifierCall, name, args...)
}

// Statements

// Block creates a block_statement.
func (b *ProgramBuilder) Block(stmts ...Node) Node {
	return b.newNode(KindBlock, "", stmts...)
}

// ExprStmt wraps an expression in an expression_statement.
func (b *ProgramBuilder) ExprStmt(e Node) Node {
	return b.newNode(KindExprStatement, "", e)
}

// DeclStmt creates a variable_declaration_statement; pass an invalid Node
// for init to omit the initializer.
func (b *ProgramBuilder) DeclStmt(name, typ string, init Node) Node {
	return b.newNode(KindVarDeclStmt, name, b.TypeName(typ), init)
}

// If creates an if_statement without an else branch.
func (b *ProgramBuilder) If(cond, then Node) Node {
	return b.newNode(KindIf, "", cond, then)
}

// IfElse creates an if_statement with both branches.
func (b *ProgramBuilder) IfElse(cond, then, els Node) Node {
	return b.newNode(KindIf, "", cond, then, els)
}

// While creates a while_statement.
func (b *ProgramBuilder) While(cond, body Node) Node {
	return b.newNode(KindWhile, "", cond, body)
}

// DoWhile creates a do_while_statement; the body runs before the condition.
func (b *ProgramBuilder) DoWhile(body, cond Node) Node {
	return b.newNode(KindDoWhile, "", body, cond)
}

// For creates a for_statement. Absent pieces are desugared so that the
// statement always has four children: a missing init becomes an empty
// block, a missing cond becomes the literal true, a missing update becomes
// an empty tuple.
func (b *ProgramBuilder) For(init, cond, update, body Node) Node {
	if !init.Valid() {
		init = b.Block()
	}
	if !cond.Valid() {
		cond = b.BoolLit(true)
	}
	if !update.Valid() {
		update = b.TupleOf()
	}
	return b.newNode(KindFor, "", init, cond, update, body)
}

// Return creates a return_statement; pass an invalid Node for a bare return.
func (b *ProgramBuilder) Return(expr Node) Node {
	return b.newNode(KindReturn, "", expr)
}

// Break creates a break_statement.
func (b *ProgramBuilder) Break() Node {
	return b.newNode(KindBreak, "")
}

// Continue creates a continue_statement.
func (b *ProgramBuilder) Continue() Node {
	return b.newNode(KindContinue, "")
}

// Placeholder creates the modifier placeholder statement (`_;`).
func (b *ProgramBuilder) Placeholder() Node {
	return b.newNode(KindPlaceholder, "_")
}

// Try creates a try_statement over an attempted call.
func (b *ProgramBuilder) Try(call, body Node, catches ...Node) Node {
	parts := append([]Node{call, body}, catches...)
	return b.newNode(KindTry, "", parts...)
}

// Catch creates a catch_clause with its body.
func (b *ProgramBuilder) Catch(body Node) Node {
	return b.newNode(KindCatch, "", body)
}

// Emit creates an emit_statement over an event call.
func (b *ProgramBuilder) Emit(call Node) Node {
	return b.newNode(KindEmit, "", call)
}

// Revert creates a revert_statement; the argument call may be invalid.
func (b *ProgramBuilder) Revert(call Node) Node {
	return b.newNode(KindRevert, "", call)
}

// Assembly creates an opaque assembly_statement leaf.
func (b *ProgramBuilder) Assembly(text string) Node {
	return b.newNode(KindAssembly, text)
}

// Expressions

// Ident creates an identifier leaf.
func (b *ProgramBuilder) Ident(name string) Node {
	return b.newNode(KindIdentifier, name)
}

// Number creates a number_literal leaf.
func (b *ProgramBuilder) Number(text string) Node {
	return b.newNode(KindNumber, text)
}

// Str creates a string_literal leaf.
func (b *ProgramBuilder) Str(text string) Node {
	return b.newNode(KindString, text)
}

// BoolLit creates a boolean_literal leaf.
func (b *ProgramBuilder) BoolLit(v bool) Node {
	if v {
		return b.newNode(KindBool, "true")
	}
	return b.newNode(KindBool, "false")
}

// This creates a this_expression.
func (b *ProgramBuilder) This() Node {
	return b.newNode(KindThis, "this")
}

// Super creates a super_expression.
func (b *ProgramBuilder) Super() Node {
	return b.newNode(KindSuper, "super")
}

// Binary creates a binary_expression with the operator in Text.
func (b *ProgramBuilder) Binary(op string, lhs, rhs Node) Node {
	return b.newNode(KindBinary, op, lhs, rhs)
}

// Unary creates a unary_expression.
func (b *ProgramBuilder) Unary(op string, operand Node) Node {
	return b.newNode(KindUnary, op, operand)
}

// Update creates an update_expression ("++" or "--").
func (b *ProgramBuilder) Update(op string, operand Node) Node {
	return b.newNode(KindUpdate, op, operand)
}

// Assign creates an assignment_expression lhs = rhs.
func (b *ProgramBuilder) Assign(lhs, rhs Node) Node {
	return b.newNode(KindAssignment, "=", lhs, rhs)
}

// AugAssign creates an augmented assignment such as lhs += rhs.
func (b *ProgramBuilder) AugAssign(op string, lhs, rhs Node) Node {
	return b.newNode(KindAugAssignment, op, lhs, rhs)
}

// Ternary creates cond ? then : else.
func (b *ProgramBuilder) Ternary(cond, then, els Node) Node {
	return b.newNode(KindTernary, "", cond, then, els)
}

// CallExpr creates a call_expression; the callee is the first child.
func (b *ProgramBuilder) CallExpr(callee Node, args ...Node) Node {
	parts := append([]Node{callee}, args...)
	return b.newNode(KindCall, "", parts...)
}

// Member creates base.member with the member name in Text.
func (b *ProgramBuilder) Member(base Node, member string) Node {
	return b.newNode(KindMember, member, base)
}

// IndexOf creates base[index].
func (b *ProgramBuilder) IndexOf(base, index Node) Node {
	return b.newNode(KindIndex, "", base, index)
}

// TupleOf creates a tuple_expression.
func (b *ProgramBuilder) TupleOf(elems ...Node) Node {
	return b.newNode(KindTuple, "", elems...)
}

// Paren creates a parenthesized_expression.
func (b *ProgramBuilder) Paren(inner Node) Node {
	return b.newNode(KindParenthesized, "", inner)
}

// New creates a new-contract expression with the created contract name in Text.
func (b *ProgramBuilder) New(contract string, args ...Node) Node {
	return b.newNode(KindNewExpr, contract, args...)
}
