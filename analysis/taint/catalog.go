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

package taint

import (
	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/dataflow"
	"github.com/solgraph/solgraph/analysis/lang"
)

// SourceKind labels why a node is a source of untrusted data.
type SourceKind string

const (
	// SourceAmbient is a read of the transaction environment
	SourceAmbient SourceKind = "ambient"
	// SourceParameter is a parameter of an externally callable function
	SourceParameter SourceKind = "parameter"
	// SourceExternalReturn is the result of an external call
	SourceExternalReturn SourceKind = "external-return"
)

// SourceKindOf classifies n as one of the remote source kinds. The second
// result is false when n is not a remote source.
func SourceKindOf(s *dataflow.State, n dataflow.FlowNode) (SourceKind, bool) {
	switch n.Tag() {
	case dataflow.TagExpression:
		if _, ok := lang.AmbientRead(n.Syntax()); ok {
			return SourceAmbient, true
		}
	case dataflow.TagParameter:
		p, _ := n.AsParameter()
		callable := p.EnclosingCallable()
		if callable.Valid() && callable.Kind() == lang.KindFunction &&
			(lang.Function{Node: callable}).IsExternal() {
			return SourceParameter, true
		}
	case dataflow.TagCallResult:
		call := n.Syntax()
		if call.Kind() == lang.KindCall && lang.IsExternalCallExpr(call) {
			return SourceExternalReturn, true
		}
	}
	return "", false
}

// RemoteSourcesConfiguration marks everything an outside caller controls:
// reads of msg, tx and block, parameters of external and public functions,
// and the results of external calls. Sinks, barriers and refinements come
// from the optional yaml spec.
type RemoteSourcesConfiguration struct {
	Base
	Spec *config.TaintSpec
}

// RemoteSources returns the untrusted-input configuration, optionally
// refined by a yaml taint problem contributing sinks and barriers.
func RemoteSources(spec *config.TaintSpec) *RemoteSourcesConfiguration {
	return &RemoteSourcesConfiguration{Spec: spec}
}

func (c *RemoteSourcesConfiguration) IsSource(s *dataflow.State, n dataflow.FlowNode) bool {
	_, ok := SourceKindOf(s, n)
	return ok
}

func (c *RemoteSourcesConfiguration) IsSink(s *dataflow.State, n dataflow.FlowNode) bool {
	if isCriticalSink(s, n) {
		return true
	}
	return c.Spec != nil && matchesAny(c.Spec.Sinks, n)
}

func (c *RemoteSourcesConfiguration) IsBarrier(s *dataflow.State, n dataflow.FlowNode) bool {
	return c.Spec != nil && matchesAny(c.Spec.Barriers, n)
}

// CriticalSinksConfiguration marks the operations where attacker-controlled
// data does damage. It carries no sources of its own; pair it with a source
// predicate or use RemoteSources, which includes these sinks.
type CriticalSinksConfiguration struct {
	Base
}

// CriticalSinks returns the critical-operation sink configuration.
func CriticalSinks() *CriticalSinksConfiguration {
	return &CriticalSinksConfiguration{}
}

func (c *CriticalSinksConfiguration) IsSink(s *dataflow.State, n dataflow.FlowNode) bool {
	return isCriticalSink(s, n)
}

// isCriticalSink recognizes the built-in sinks: the target and arguments
// of external calls, transferred value amounts, delegatecall targets, the
// selfdestruct beneficiary, and array index positions.
func isCriticalSink(s *dataflow.State, n dataflow.FlowNode) bool {
	switch n.Tag() {
	case dataflow.TagArgument:
		call := n.Syntax()
		if call.Kind() != lang.KindCall {
			return false
		}
		name := lang.CalleeName(call)
		if lang.IsLowLevelCallName(name) || name == "selfdestruct" {
			return true
		}
		return lang.IsExternalCallExpr(call)
	case dataflow.TagExpression:
		e := n.Syntax()
		parent := e.Parent()
		if !parent.Valid() {
			return false
		}
		// the target of an external or low-level call
		if parent.Kind() == lang.KindMember && parent.Child(0) == e {
			grand := parent.Parent()
			if grand.Valid() && grand.Kind() == lang.KindCall &&
				lang.Callee(grand) == parent && lang.IsExternalCallExpr(grand) {
				return true
			}
		}
		// an index position into a container
		if parent.Kind() == lang.KindIndex && parent.Child(0) != e {
			return true
		}
		return false
	}
	return false
}

// ReentrancyConfiguration finds state writes that a reentering caller can
// observe mid-update: the source is the result of an external call, the
// sinks are writes to state that was already read before the call. A
// recognized guard modifier on the calling function suppresses the flow.
type ReentrancyConfiguration struct {
	Base
}

// Reentrancy returns the reentrancy detection configuration.
func Reentrancy() *ReentrancyConfiguration {
	return &ReentrancyConfiguration{}
}

func (c *ReentrancyConfiguration) IsSource(s *dataflow.State, n dataflow.FlowNode) bool {
	if n.Tag() != dataflow.TagCallResult {
		return false
	}
	call := n.Syntax()
	return call.Kind() == lang.KindCall && lang.IsExternalCallExpr(call)
}

func (c *ReentrancyConfiguration) IsSink(s *dataflow.State, n dataflow.FlowNode) bool {
	return n.Tag() == dataflow.TagStateWrite
}

// ExtraTaintStep connects an external call's result to each later write of
// state that the callable already read before the call. This is the
// reentrancy window: between the read and the write, control was handed to
// the callee. Functions protected by a guard modifier contribute no such
// edges.
func (c *ReentrancyConfiguration) ExtraTaintStep(s *dataflow.State, n dataflow.FlowNode) []dataflow.FlowNode {
	if !c.IsSource(s, n) {
		return nil
	}
	call := n.Syntax()
	callable := call.EnclosingCallable()
	if !callable.Valid() {
		return nil
	}
	if hasReentrancyGuard(s, callable) {
		return nil
	}
	g := s.CfgOf(callable)
	callPoint, ok := g.PointFor(enclosingStatement(call))
	if !ok {
		return nil
	}
	readBefore := map[string]bool{}
	body := lang.Function{Node: callable}.Body()
	if !body.Valid() {
		return nil
	}
	body.PreOrder(func(e lang.Node) bool {
		if e.Kind() != lang.KindIdentifier || !isStateName(s, e) || isWrittenPlace(e) {
			return true
		}
		p, ok := g.PointFor(enclosingStatement(e))
		if ok && p != callPoint && g.Reachable(p, callPoint) {
			readBefore[e.Text()] = true
		}
		return true
	})
	var out []dataflow.FlowNode
	body.PreOrder(func(e lang.Node) bool {
		if !lang.IsAssignmentExpr(e) {
			return true
		}
		target := lang.AssignTarget(e)
		name := containerName(target)
		if name == "" || !readBefore[name] || !isStateName(s, target) {
			return true
		}
		p, ok := g.PointFor(enclosingStatement(e))
		if ok && p != callPoint && g.Reachable(callPoint, p) {
			out = append(out, dataflow.StateWriteNode(target))
		}
		return true
	})
	return out
}

// hasReentrancyGuard reports whether the function carries a modifier of
// the nonReentrant shape: the modifier both checks and writes the same
// state flag before its placeholder.
func hasReentrancyGuard(s *dataflow.State, callable lang.Node) bool {
	f := lang.Function{Node: callable}
	contract := f.Contract()
	for _, inv := range f.ModifierInvocations() {
		m, ok := s.Calls.ResolveModifier(inv)
		if !ok {
			m, ok = contract.ModifierNamed(inv.Text())
		}
		if !ok {
			continue
		}
		if modifierGuardsState(s, m) {
			return true
		}
	}
	return false
}

// modifierGuardsState reports whether the modifier body reads and writes a
// state variable before reaching its placeholder.
func modifierGuardsState(s *dataflow.State, m lang.Modifier) bool {
	body := m.Body()
	if !body.Valid() {
		return false
	}
	sawPlaceholder := false
	readsFlag := map[string]bool{}
	writesFlag := map[string]bool{}
	body.PreOrder(func(e lang.Node) bool {
		if sawPlaceholder {
			return false
		}
		switch {
		case e.Kind() == lang.KindPlaceholder:
			sawPlaceholder = true
			return false
		case lang.IsAssignmentExpr(e):
			if name := containerName(lang.AssignTarget(e)); name != "" && isStateName(s, lang.AssignTarget(e)) {
				writesFlag[name] = true
			}
		case e.Kind() == lang.KindIdentifier && isStateName(s, e) && !isWrittenPlace(e):
			readsFlag[e.Text()] = true
		}
		return true
	})
	for name := range writesFlag {
		if readsFlag[name] {
			return true
		}
	}
	return false
}

// isStateName reports whether the expression is rooted at a state variable
// of the enclosing contract.
func isStateName(s *dataflow.State, e lang.Node) bool {
	name := containerName(e)
	if name == "" {
		return false
	}
	c := e.EnclosingContract()
	if !c.Valid() {
		return false
	}
	_, ok := s.StateVarNames(lang.Contract{Node: c})[name]
	return ok
}

// isWrittenPlace reports whether the identifier roots the target of an
// assignment, so that its occurrence is a write, not a read.
func isWrittenPlace(e lang.Node) bool {
	cur := e
	for {
		p := cur.Parent()
		if !p.Valid() {
			return false
		}
		switch p.Kind() {
		case lang.KindIndex, lang.KindMember:
			if p.Child(0) != cur {
				return false
			}
			cur = p
		default:
			return p.Kind() == lang.KindAssignment && p.Child(0) == cur
		}
	}
}

// enclosingStatement walks up from an expression to the statement carrying
// its program point.
func enclosingStatement(e lang.Node) lang.Node {
	cur := e
	for cur.Valid() {
		if cur.Kind().IsStatement() {
			return cur
		}
		cur = cur.Parent()
	}
	return lang.Node{}
}
