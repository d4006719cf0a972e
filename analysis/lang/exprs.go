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

import "strings"

// IsAssignmentExpr reports whether n writes to its first operand.
func IsAssignmentExpr(n Node) bool {
	switch n.Kind() {
	case KindAssignment, KindAugAssignment, KindUpdate:
		return true
	}
	return false
}

// AssignTarget returns the written operand of an assignment, augmented
// assignment or update expression.
func AssignTarget(n Node) Node {
	if IsAssignmentExpr(n) {
		return n.Child(0)
	}
	return Node{}
}

// AssignSource returns the read operand of an assignment; for update
// expressions (x++) the operand itself is also the source.
func AssignSource(n Node) Node {
	switch n.Kind() {
	case KindAssignment, KindAugAssignment:
		return n.Child(1)
	case KindUpdate:
		return n.Child(0)
	}
	return Node{}
}

// OperatorOf returns the operator token of an operator expression.
func OperatorOf(n Node) string {
	switch n.Kind() {
	case KindBinary, KindUnary, KindUpdate, KindAugAssignment:
		return n.Text()
	}
	return ""
}

// IsValuePreservingOp reports whether the operator propagates the value of
// its operands into its result: arithmetic and bitwise operators do,
// comparison and boolean-logic operators do not (their result is a fresh
// boolean independent of the operands' data).
func IsValuePreservingOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "**",
		"<<", ">>", "&", "|", "^", "~",
		"++", "--",
		"+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=", "^=":
		return true
	}
	return false
}

// IsComparisonOrLogicalOp reports whether the operator produces a boolean
// that does not carry its operands' data.
func IsComparisonOrLogicalOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||", "!":
		return true
	}
	return false
}

// Callee returns the callee expression of a call_expression.
func Callee(call Node) Node {
	if call.Kind() != KindCall {
		return Node{}
	}
	return call.Child(0)
}

// CallArgs returns the argument expressions of a call_expression in order.
// A call with no argument list yields zero arguments.
func CallArgs(call Node) []Node {
	if call.Kind() != KindCall || call.NumChildren() <= 1 {
		return nil
	}
	return call.Children()[1:]
}

// CalleeName returns the called method name: the identifier for f(...),
// the member name for base.f(...). Empty when the callee has another shape.
func CalleeName(call Node) string {
	callee := Callee(call)
	switch callee.Kind() {
	case KindIdentifier:
		return callee.Text()
	case KindMember:
		return callee.Text()
	}
	return ""
}

// CalleeBase returns the base expression of a member-form callee
// (base in base.f(...)); invalid for an unqualified call.
func CalleeBase(call Node) Node {
	callee := Callee(call)
	if callee.Kind() == KindMember {
		return callee.Child(0)
	}
	return Node{}
}

// IsLowLevelCallName reports whether name is one of the address members that
// perform a raw external call or value transfer.
func IsLowLevelCallName(name string) bool {
	switch name {
	case "call", "delegatecall", "staticcall", "send", "transfer":
		return true
	}
	return false
}

// IsBuiltinNamespace reports whether name is a builtin library namespace:
// member calls on it (abi.encode, string.concat, bytes.concat) are pure
// value transformers, not dispatches.
func IsBuiltinNamespace(name string) bool {
	switch name {
	case "abi", "string", "bytes":
		return true
	}
	return false
}

// IsExternalCallExpr reports whether the call expression dispatches outside
// the current contract: a low-level address call, or any member call whose
// base is neither super nor a builtin namespace. Super calls stay internal.
func IsExternalCallExpr(call Node) bool {
	base := CalleeBase(call)
	if !base.Valid() {
		return false
	}
	if base.Kind() == KindSuper {
		return false
	}
	if base.Kind() == KindIdentifier && IsBuiltinNamespace(base.Text()) {
		return false
	}
	return true
}

// AmbientRead classifies reads of the execution environment: msg.sender,
// msg.value, msg.data, tx.origin, block members. It returns the dotted name
// and true when n is such a read.
func AmbientRead(n Node) (string, bool) {
	if n.Kind() != KindMember {
		return "", false
	}
	base := n.Child(0)
	if base.Kind() != KindIdentifier {
		return "", false
	}
	switch base.Text() {
	case "msg", "tx", "block":
		return base.Text() + "." + n.Text(), true
	}
	return "", false
}

// IsContainerType reports whether the type is a mapping or an array, the
// types subject to whole-container aliasing.
func IsContainerType(typ string) bool {
	return strings.HasPrefix(typ, "mapping") || strings.HasSuffix(typ, "]")
}

// ContainerBaseName resolves the root identifier of an element access chain,
// e.g. balances for balances[msg.sender] and m for m[i][j]. Empty when the
// access is not rooted at an identifier.
func ContainerBaseName(n Node) string {
	cur := n
	for {
		switch cur.Kind() {
		case KindIndex:
			cur = cur.Child(0)
		case KindMember:
			cur = cur.Child(0)
		case KindIdentifier:
			return cur.Text()
		default:
			return ""
		}
	}
}

// DisplayString renders a node for diagnostics: leaf text where present,
// otherwise the kind name.
func DisplayString(n Node) string {
	if !n.Valid() {
		return "<none>"
	}
	if n.Text() != "" {
		return n.Text()
	}
	return string(n.Kind())
}
