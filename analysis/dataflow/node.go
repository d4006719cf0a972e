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

package dataflow

import (
	"fmt"

	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/analysis/ssagraph"
)

// NodeTag discriminates the FlowNode sum. The set is closed: every
// consumer switches exhaustively over it.
type NodeTag int

const (
	// TagExpression is the value of an expression
	TagExpression NodeTag = iota
	// TagParameter is a declared parameter
	TagParameter
	// TagSsaDef is an SSA definition
	TagSsaDef
	// TagReturn is a return statement's value
	TagReturn
	// TagCallResult is the value a call evaluates to
	TagCallResult
	// TagArgument is the i-th argument at a call or modifier invocation
	TagArgument
	// TagPostUpdate is the written place just after an assignment
	TagPostUpdate
	// TagStateRead is a read of a state variable or of one of its elements
	TagStateRead
	// TagStateWrite is a write to a state variable or to one of its elements
	TagStateWrite
)

func (t NodeTag) String() string {
	switch t {
	case TagExpression:
		return "expr"
	case TagParameter:
		return "param"
	case TagSsaDef:
		return "ssaDef"
	case TagReturn:
		return "return"
	case TagCallResult:
		return "callResult"
	case TagArgument:
		return "argument"
	case TagPostUpdate:
		return "postUpdate"
	case TagStateRead:
		return "stateRead"
	case TagStateWrite:
		return "stateWrite"
	}
	return "unknown"
}

// FlowNode is one node of the polymorphic data-flow graph. The zero value
// is not a valid node. FlowNode is comparable; equality is structural.
type FlowNode struct {
	tag    NodeTag
	syntax lang.Node
	def    ssagraph.Definition
	index  int32
}

// ExprNode wraps an expression's value.
func ExprNode(e lang.Node) FlowNode {
	return FlowNode{tag: TagExpression, syntax: e}
}

// ParamNode wraps a parameter declaration.
func ParamNode(p lang.Parameter) FlowNode {
	return FlowNode{tag: TagParameter, syntax: p.Node}
}

// SsaDefNode wraps an SSA definition.
func SsaDefNode(d ssagraph.Definition) FlowNode {
	return FlowNode{tag: TagSsaDef, def: d}
}

// ReturnNode wraps a return statement.
func ReturnNode(ret lang.Node) FlowNode {
	return FlowNode{tag: TagReturn, syntax: ret}
}

// CallResultNode wraps the value a call or new expression evaluates to.
func CallResultNode(call lang.Node) FlowNode {
	return FlowNode{tag: TagCallResult, syntax: call}
}

// ArgumentNode wraps the index-th argument of a call or modifier invocation.
func ArgumentNode(call lang.Node, index int) FlowNode {
	return FlowNode{tag: TagArgument, syntax: call, index: int32(index)}
}

// PostUpdateNode wraps the written place of an assignment, seen after the
// write happened.
func PostUpdateNode(target lang.Node) FlowNode {
	return FlowNode{tag: TagPostUpdate, syntax: target}
}

// StateReadNode wraps an expression reading a state variable.
func StateReadNode(read lang.Node) FlowNode {
	return FlowNode{tag: TagStateRead, syntax: read}
}

// StateWriteNode wraps the target expression of a state variable write.
func StateWriteNode(write lang.Node) FlowNode {
	return FlowNode{tag: TagStateWrite, syntax: write}
}

// Tag returns the node's variety.
func (n FlowNode) Tag() NodeTag {
	return n.tag
}

// Valid reports whether the node carries a payload.
func (n FlowNode) Valid() bool {
	return n.syntax.Valid() || n.def.Valid()
}

// AsExpression returns the wrapped expression for expression-backed tags.
func (n FlowNode) AsExpression() (lang.Node, bool) {
	switch n.tag {
	case TagExpression, TagCallResult, TagPostUpdate, TagStateRead, TagStateWrite:
		return n.syntax, true
	}
	return lang.Node{}, false
}

// AsParameter returns the wrapped parameter, if the node is one.
func (n FlowNode) AsParameter() (lang.Parameter, bool) {
	if n.tag == TagParameter {
		return lang.Parameter{Node: n.syntax}, true
	}
	return lang.Parameter{}, false
}

// AsSsaDefinition returns the wrapped SSA definition, if the node is one.
func (n FlowNode) AsSsaDefinition() (ssagraph.Definition, bool) {
	if n.tag == TagSsaDef {
		return n.def, true
	}
	return ssagraph.Definition{}, false
}

// Syntax returns the syntax payload of the node; invalid for SSA
// definition nodes, whose payload is the definition.
func (n FlowNode) Syntax() lang.Node {
	return n.syntax
}

// ArgIndex returns the argument position of an Argument node, -1 otherwise.
func (n FlowNode) ArgIndex() int {
	if n.tag != TagArgument {
		return -1
	}
	return int(n.index)
}

// EnclosingCallable returns the function, constructor or modifier the node
// belongs to.
func (n FlowNode) EnclosingCallable() lang.Node {
	if n.tag == TagSsaDef {
		if !n.def.Valid() {
			return lang.Node{}
		}
		return n.def.Info().Graph().Callable()
	}
	if n.syntax.Kind().IsCallable() {
		return n.syntax
	}
	return n.syntax.EnclosingCallable()
}

// Location returns the source location of the node.
func (n FlowNode) Location() lang.Location {
	if n.tag == TagSsaDef {
		if site := n.def.Site(); site.Valid() {
			return site.Location()
		}
		return lang.Location{}
	}
	return n.syntax.Location()
}

// DisplayString renders the node for reports.
func (n FlowNode) DisplayString() string {
	switch n.tag {
	case TagSsaDef:
		return fmt.Sprintf("%s %s", n.tag, n.def)
	case TagArgument:
		return fmt.Sprintf("%s %d of %s", n.tag, n.index, lang.DisplayString(n.syntax))
	default:
		return fmt.Sprintf("%s %s", n.tag, lang.DisplayString(n.syntax))
	}
}
