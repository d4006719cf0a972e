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
	"github.com/solgraph/solgraph/analysis/dataflow"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
)

// Result is the outcome of one reachability traversal. Truncated is set
// when the depth ceiling cut the traversal short; Reached then holds what
// was found up to the ceiling, never nothing.
type Result struct {
	Reached   []dataflow.FlowNode
	Truncated bool
}

// Contains reports whether the traversal reached n.
func (r Result) Contains(n dataflow.FlowNode) bool {
	return funcutil.Contains(r.Reached, n)
}

// An Analyzer runs traversals for one configuration over one analysis
// state, memoizing successor computation across traversals.
type Analyzer struct {
	state *dataflow.State
	cfg   Configuration
	taint bool

	succs map[dataflow.FlowNode][]dataflow.FlowNode
}

// NewAnalyzer prepares traversals for cfg. When taint is true the
// traversal additionally follows the built-in taint steps and the
// configuration's ExtraTaintStep edges.
func NewAnalyzer(s *dataflow.State, cfg Configuration, taint bool) *Analyzer {
	return &Analyzer{
		state: s,
		cfg:   cfg,
		taint: taint,
		succs: map[dataflow.FlowNode][]dataflow.FlowNode{},
	}
}

func (a *Analyzer) maxDepth() int {
	if d := a.cfg.MaxDepth(); d > 0 {
		return d
	}
	return a.state.MaxDepth()
}

// successors returns every one-step successor of n under the analyzer's
// step relation, memoized. Barriers have no successors.
func (a *Analyzer) successors(n dataflow.FlowNode) []dataflow.FlowNode {
	if out, ok := a.succs[n]; ok {
		return out
	}
	var out []dataflow.FlowNode
	if !a.cfg.IsBarrier(a.state, n) {
		out = append(out, a.state.LocalSteps(n)...)
		out = append(out, a.state.JumpSteps(n)...)
		out = append(out, a.cfg.ExtraFlowStep(a.state, n)...)
		if a.taint {
			out = append(out, builtinTaintSteps(a.state, n)...)
			out = append(out, a.cfg.ExtraTaintStep(a.state, n)...)
		}
	}
	a.succs[n] = out
	return out
}

type visit struct {
	node  dataflow.FlowNode
	depth int
}

// ReachableFrom computes every node reachable from src. The depth of a
// visit counts the callables crossed on the way; visits beyond the
// ceiling are dropped and the result is marked truncated.
func (a *Analyzer) ReachableFrom(src dataflow.FlowNode) Result {
	max := a.maxDepth()
	seen := map[dataflow.FlowNode]int{src: 0}
	queue := []visit{{src, 0}}
	res := Result{Reached: []dataflow.FlowNode{src}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := cur.node.EnclosingCallable()
		for _, next := range a.successors(cur.node) {
			depth := cur.depth
			if to := next.EnclosingCallable(); to != from {
				depth++
			}
			if depth > max {
				res.Truncated = true
				continue
			}
			if prev, ok := seen[next]; ok && prev <= depth {
				continue
			}
			if _, ok := seen[next]; !ok {
				res.Reached = append(res.Reached, next)
			}
			seen[next] = depth
			queue = append(queue, visit{next, depth})
		}
	}
	return res
}

// ReachableFrom computes taint reachability from src under cfg.
func ReachableFrom(s *dataflow.State, src dataflow.FlowNode, cfg Configuration) Result {
	return NewAnalyzer(s, cfg, true).ReachableFrom(src)
}

// HasFlow reports whether data flows from src to dst following only
// value-preserving steps.
func HasFlow(s *dataflow.State, src, dst dataflow.FlowNode, cfg Configuration) bool {
	return NewAnalyzer(s, cfg, false).ReachableFrom(src).Contains(dst)
}

// HasTaintFlow reports whether taint propagates from src to dst,
// additionally following the taint-specific steps.
func HasTaintFlow(s *dataflow.State, src, dst dataflow.FlowNode, cfg Configuration) bool {
	return NewAnalyzer(s, cfg, true).ReachableFrom(src).Contains(dst)
}

// A Finding pairs a source with a sink it reaches. Truncated findings
// come from traversals cut at the depth ceiling; the flow up to the sink
// was still observed.
type Finding struct {
	Source    dataflow.FlowNode
	Sink      dataflow.FlowNode
	Truncated bool
}

// Analyze runs the configuration over the whole program: it enumerates
// the configuration's sources, propagates taint from each, and reports
// every sink reached.
func Analyze(s *dataflow.State, cfg Configuration) []Finding {
	a := NewAnalyzer(s, cfg, true)
	var findings []Finding
	for _, src := range SourceNodes(s, cfg) {
		res := a.ReachableFrom(src)
		sinks := funcutil.Filter(res.Reached, func(n dataflow.FlowNode) bool {
			return cfg.IsSink(s, n)
		})
		for _, n := range sinks {
			findings = append(findings, Finding{Source: src, Sink: n, Truncated: res.Truncated})
		}
	}
	return findings
}

// SourceNodes enumerates the flow nodes of the program the configuration
// marks as sources, in deterministic program order.
func SourceNodes(s *dataflow.State, cfg Configuration) []dataflow.FlowNode {
	var out []dataflow.FlowNode
	consider := func(n dataflow.FlowNode) {
		if cfg.IsSource(s, n) {
			out = append(out, n)
		}
	}
	for _, contract := range s.Hierarchy.Contracts() {
		for _, callable := range s.CallablesOfContract(contract) {
			f := lang.Function{Node: callable}
			for _, p := range f.Params() {
				consider(dataflow.ParamNode(p))
			}
			body := f.Body()
			if !body.Valid() {
				continue
			}
			body.PreOrder(func(e lang.Node) bool {
				switch e.Kind() {
				case lang.KindCall, lang.KindNewExpr:
					consider(dataflow.CallResultNode(e))
				case lang.KindMember:
					if _, ok := lang.AmbientRead(e); ok {
						consider(dataflow.ExprNode(e))
					}
				case lang.KindIdentifier:
					consider(dataflow.ExprNode(e))
				}
				return true
			})
		}
	}
	return out
}
