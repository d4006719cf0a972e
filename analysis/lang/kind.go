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

// Kind is the grammar kind tag of a syntax node.
type Kind string

// Node kinds, named after the grammar productions of the parsed language.
const (
	KindSourceFile Kind = "source_file"

	// Declarations
	KindContract      Kind = "contract_declaration"
	KindInterface     Kind = "interface_declaration"
	KindLibrary       Kind = "library_declaration"
	KindInheritance   Kind = "inheritance_specifier"
	KindStateVariable Kind = "state_variable_declaration"
	KindFunction      Kind = "function_definition"
	KindConstructor   Kind = "constructor_definition"
	KindModifierDef   Kind = "modifier_definition"
	KindParameter     Kind = "parameter"
	KindTypeName      Kind = "type_name"
	KindVisibility    Kind = "visibility"
	KindVirtual       Kind = "virtual"
	KindOverride      Kind = "override_specifier"
	KindAbstract      Kind = "abstract"

	// Statements
	KindBlock         Kind = "block_statement"
	KindExprStatement Kind = "expression_statement"
	KindVarDeclStmt   Kind = "variable_declaration_statement"
	KindIf            Kind = "if_statement"
	KindWhile         Kind = "while_statement"
	KindDoWhile       Kind = "do_while_statement"
	KindFor           Kind = "for_statement"
	KindReturn        Kind = "return_statement"
	KindBreak         Kind = "break_statement"
	KindContinue      Kind = "continue_statement"
	KindTry           Kind = "try_statement"
	KindCatch         Kind = "catch_clause"
	KindEmit          Kind = "emit_statement"
	KindAssembly      Kind = "assembly_statement"
	KindPlaceholder   Kind = "placeholder_statement"
	KindRevert        Kind = "revert_statement"

	// Expressions
	KindBinary        Kind = "binary_expression"
	KindUnary         Kind = "unary_expression"
	KindUpdate        Kind = "update_expression"
	KindAssignment    Kind = "assignment_expression"
	KindAugAssignment Kind = "augmented_assignment_expression"
	KindTernary       Kind = "ternary_expression"
	KindCall          Kind = "call_expression"
	KindMember        Kind = "member_expression"
	KindIndex         Kind = "index_access"
	KindTuple         Kind = "tuple_expression"
	KindParenthesized Kind = "parenthesized_expression"
	KindModifierCall  Kind = "modifier_invocation"
	KindIdentifier    Kind = "identifier"
	KindNumber        Kind = "number_literal"
	KindString        Kind = "string_literal"
	KindBool          Kind = "boolean_literal"
	KindThis          Kind = "this_expression"
	KindSuper         Kind = "super_expression"
	KindNewExpr       Kind = "new_expression"
)

// IsStatement reports whether k is a statement production.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindExprStatement, KindVarDeclStmt, KindIf, KindWhile, KindDoWhile,
		KindFor, KindReturn, KindBreak, KindContinue, KindTry, KindCatch, KindEmit,
		KindAssembly, KindPlaceholder, KindRevert:
		return true
	}
	return false
}

// IsExpression reports whether k is an expression production.
func (k Kind) IsExpression() bool {
	switch k {
	case KindBinary, KindUnary, KindUpdate, KindAssignment, KindAugAssignment,
		KindTernary, KindCall, KindMember, KindIndex, KindTuple, KindParenthesized,
		KindIdentifier, KindNumber, KindString, KindBool, KindThis, KindSuper, KindNewExpr:
		return true
	}
	return false
}

// IsCallable reports whether k declares a function-like body.
func (k Kind) IsCallable() bool {
	return k == KindFunction || k == KindConstructor || k == KindModifierDef
}

// IsContractLike reports whether k declares a contract, interface or library.
func (k Kind) IsContractLike() bool {
	return k == KindContract || k == KindInterface || k == KindLibrary
}
