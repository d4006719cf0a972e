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
	"github.com/solgraph/solgraph/analysis/callgraph"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
)

// LocalSteps enumerates the one-step local flow successors of n: flow that
// stays within one callable, plus the name-based storage aliasing edges
// within one contract.
func (s *State) LocalSteps(n FlowNode) []FlowNode {
	switch n.Tag() {
	case TagExpression:
		e := n.Syntax()
		// calls evaluate to their CallResult node
		if e.Kind() == lang.KindCall || e.Kind() == lang.KindNewExpr {
			return []FlowNode{CallResultNode(e)}
		}
		// a state variable read routes through its StateRead node
		if s.isStateVarRead(e) {
			return []FlowNode{StateReadNode(e)}
		}
		return s.exprContextSteps(e)

	case TagParameter:
		p := lang.Parameter{Node: n.Syntax()}
		callable := p.EnclosingCallable()
		if !callable.Valid() {
			return nil
		}
		if def, ok := s.SsaOf(callable).DefAtSite(p.Node); ok {
			return []FlowNode{SsaDefNode(def)}
		}
		return nil

	case TagSsaDef:
		def, _ := n.AsSsaDefinition()
		if !def.Valid() {
			return nil
		}
		var out []FlowNode
		for _, use := range def.Info().UsesOf(def) {
			out = append(out, ExprNode(use))
		}
		for _, phi := range def.Info().PhisUsing(def) {
			out = append(out, SsaDefNode(phi))
		}
		return out

	case TagCallResult:
		return s.exprContextSteps(n.Syntax())

	case TagPostUpdate:
		target := n.Syntax()
		var out []FlowNode
		write := target.Parent() // the assignment or update expression
		if lang.IsAssignmentExpr(write) {
			callable := write.EnclosingCallable()
			if callable.Valid() {
				if def, ok := s.SsaOf(callable).DefAtSite(write); ok {
					out = append(out, SsaDefNode(def))
				}
			}
			// the assignment expression's own value is the assigned value
			out = append(out, s.exprContextSteps(write)...)
		}
		if s.isStateVarPlace(target) {
			out = append(out, StateWriteNode(target))
		}
		return out

	case TagStateRead:
		return s.exprContextSteps(n.Syntax())

	case TagStateWrite:
		// name-based whole-container aliasing: the write is visible to
		// every read of the same container in the same contract
		return s.aliasedReads(n.Syntax())

	case TagReturn, TagArgument:
		// these step across callables; see JumpSteps
		return nil
	}
	return nil
}

// JumpSteps enumerates the one-step flow successors of n that cross a
// resolved call or modifier edge.
func (s *State) JumpSteps(n FlowNode) []FlowNode {
	switch n.Tag() {
	case TagArgument:
		site := n.Syntax()
		i := n.ArgIndex()
		if site.Kind() == lang.KindModifierCall {
			// modifier argument to modifier parameter
			if m, ok := s.Calls.ResolveModifier(site); ok {
				params := m.Params()
				if i < len(params) {
					return []FlowNode{ParamNode(params[i])}
				}
			}
			return nil
		}
		r := s.Calls.Resolve(site)
		if r.Kind == callgraph.Unresolved {
			return nil
		}
		params := r.Callee.Params()
		if i < len(params) {
			return []FlowNode{ParamNode(params[i])}
		}
		return nil

	case TagReturn:
		// callee return to call result, at every caller of the callable
		callable := n.EnclosingCallable()
		if !callable.Valid() {
			return nil
		}
		var out []FlowNode
		for _, site := range s.CallersOf(callable) {
			out = append(out, CallResultNode(site))
		}
		return out
	}
	return nil
}

// LocalFlowStep reports whether b is a one-step local flow successor of a.
func (s *State) LocalFlowStep(a, b FlowNode) bool {
	return funcutil.Contains(s.LocalSteps(a), b)
}

// JumpStep reports whether b is a one-step jump successor of a.
func (s *State) JumpStep(a, b FlowNode) bool {
	return funcutil.Contains(s.JumpSteps(a), b)
}

// exprContextSteps enumerates where the value of e flows based on its
// position in its parent.
func (s *State) exprContextSteps(e lang.Node) []FlowNode {
	parent := e.Parent()
	if !parent.Valid() {
		return nil
	}
	switch parent.Kind() {
	case lang.KindParenthesized, lang.KindTuple:
		return []FlowNode{ExprNode(parent)}

	case lang.KindTernary:
		// branch values flow to the ternary; the condition's does not
		if parent.Child(0) != e {
			return []FlowNode{ExprNode(parent)}
		}
		return nil

	case lang.KindBinary, lang.KindUnary, lang.KindUpdate:
		// operator classification is load-bearing: arithmetic and bitwise
		// operators propagate their operands' values, comparison and
		// boolean-logic operators produce a fresh boolean
		if lang.IsValuePreservingOp(lang.OperatorOf(parent)) {
			return []FlowNode{ExprNode(parent)}
		}
		return nil

	case lang.KindIndex:
		if parent.Child(0) == e {
			return []FlowNode{ExprNode(parent)}
		}
		return nil

	case lang.KindMember:
		if parent.Child(0) == e {
			return []FlowNode{ExprNode(parent)}
		}
		return nil

	case lang.KindAssignment, lang.KindAugAssignment:
		if parent.Child(1) == e {
			return []FlowNode{PostUpdateNode(parent.Child(0))}
		}
		return nil

	case lang.KindVarDeclStmt:
		callable := parent.EnclosingCallable()
		if callable.Valid() {
			if def, ok := s.SsaOf(callable).DefAtSite(parent); ok {
				return []FlowNode{SsaDefNode(def)}
			}
		}
		return nil

	case lang.KindReturn:
		return []FlowNode{ReturnNode(parent)}

	case lang.KindCall:
		if parent.Child(0) == e {
			// the callee expression is not data flowing into the result
			return nil
		}
		for i, arg := range lang.CallArgs(parent) {
			if arg == e {
				return []FlowNode{ArgumentNode(parent, i)}
			}
		}
		return nil

	case lang.KindNewExpr, lang.KindModifierCall:
		for i, arg := range parent.Children() {
			if arg == e {
				return []FlowNode{ArgumentNode(parent, i)}
			}
		}
		return nil
	}
	return nil
}

// isStateVarRead reports whether e is an identifier reading a state
// variable visible in its contract. Identifiers on the written spine of an
// assignment target are places, not reads.
func (s *State) isStateVarRead(e lang.Node) bool {
	if e.Kind() != lang.KindIdentifier {
		return false
	}
	if !s.isStateVarPlace(e) {
		return false
	}
	return !onWriteSpine(e)
}

// isStateVarPlace reports whether the expression designates a state
// variable or an element of one: an identifier or an access chain rooted
// at a state variable name of the enclosing contract.
func (s *State) isStateVarPlace(e lang.Node) bool {
	name := rootName(e)
	if name == "" {
		return false
	}
	contractNode := e.EnclosingContract()
	if !contractNode.Valid() {
		return false
	}
	vars := s.StateVarNames(lang.Contract{Node: contractNode})
	if _, ok := vars[name]; !ok {
		return false
	}
	// locals and parameters shadow state variables
	callable := e.EnclosingCallable()
	if callable.Valid() {
		for _, p := range (lang.Function{Node: callable}).Params() {
			if p.Name() == name {
				return false
			}
		}
		shadowed := false
		callable.PreOrder(func(n lang.Node) bool {
			if n.Kind() == lang.KindVarDeclStmt && n.Text() == name {
				shadowed = true
			}
			return !shadowed
		})
		if shadowed {
			return false
		}
	}
	return true
}

func rootName(e lang.Node) string {
	if e.Kind() == lang.KindIdentifier {
		return e.Text()
	}
	return lang.ContainerBaseName(e)
}

// onWriteSpine reports whether the identifier lies on the chain from an
// assignment target down to its root, i.e. it is being written, not read.
// Index expressions hanging off the spine (m[k] in m[k] = v) are still
// reads of k, but the spine itself is a place.
func onWriteSpine(e lang.Node) bool {
	cur := e
	for {
		parent := cur.Parent()
		if !parent.Valid() {
			return false
		}
		switch parent.Kind() {
		case lang.KindIndex, lang.KindMember:
			if parent.Child(0) != cur {
				return false
			}
			cur = parent
		case lang.KindAssignment:
			return parent.Child(0) == cur
		case lang.KindAugAssignment, lang.KindUpdate:
			// augmented assignments and updates read the old value too
			return false
		default:
			return false
		}
	}
}

// aliasedReads returns the StateRead nodes of every read of the written
// container across the callables of the same contract.
func (s *State) aliasedReads(writeTarget lang.Node) []FlowNode {
	name := rootName(writeTarget)
	if name == "" {
		return nil
	}
	contractNode := writeTarget.EnclosingContract()
	if !contractNode.Valid() {
		return nil
	}
	contract := lang.Contract{Node: contractNode}
	var out []FlowNode
	for _, callable := range s.CallablesOfContract(contract) {
		body := lang.Function{Node: callable}.Body()
		if !body.Valid() {
			continue
		}
		body.PreOrder(func(e lang.Node) bool {
			if e.Kind() == lang.KindIdentifier && e.Text() == name && s.isStateVarRead(e) {
				out = append(out, StateReadNode(e))
			}
			return true
		})
	}
	return out
}
