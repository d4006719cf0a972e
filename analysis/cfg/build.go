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

package cfg

import (
	"github.com/solgraph/solgraph/analysis/lang"
)

// builder carries the redirection targets of the enclosing loops while the
// graph is built by structural recursion over the statement tree.
type builder struct {
	g *Graph

	breakTargets    []int32
	continueTargets []int32
}

// Build constructs the control-flow graph of a function, constructor or
// modifier definition. It never fails: a callable without a body yields the
// minimal entry->exit graph, and unmodeled statement kinds become opaque
// fallthrough points.
func Build(callable lang.Node) *Graph {
	g := &Graph{
		callable:  callable,
		points:    map[lang.Node]int32{},
		reachFrom: map[int32]map[int32]bool{},
	}
	g.entry = g.newSynthetic("entry")
	g.exit = g.newSynthetic("exit")

	b := &builder{g: g}
	body := lang.Function{Node: callable}.Body()
	if !body.Valid() {
		g.addEdge(g.entry, g.exit)
		return g
	}
	exits := b.stmt(body, []int32{g.entry})
	for _, e := range exits {
		g.addEdge(e, g.exit)
	}
	return g
}

// stmt wires the statement n after the given predecessors and returns the
// nodes that fall through to whatever follows n. An empty result means
// control never falls through (return, break, continue, revert).
func (b *builder) stmt(n lang.Node, preds []int32) []int32 {
	g := b.g
	switch n.Kind() {
	case lang.KindBlock:
		cur := preds
		for _, child := range n.Children() {
			cur = b.stmt(child, cur)
		}
		return cur

	case lang.KindIf:
		cond := g.newPoint(n.Child(0))
		b.wire(preds, cond)
		// then branch first so successor order stays then-before-else
		exits := b.stmt(n.Child(1), []int32{cond})
		els := n.Child(2)
		if els.Valid() {
			exits = append(exits, b.stmt(els, []int32{cond})...)
		} else {
			exits = append(exits, cond)
		}
		join := g.newSynthetic("join")
		b.wire(exits, join)
		return []int32{join}

	case lang.KindWhile:
		cond := g.newPoint(n.Child(0))
		b.wire(preds, cond)
		loopExit := g.newSynthetic("loop_exit")
		b.pushLoop(loopExit, cond)
		bodyExits := b.stmt(n.Child(1), []int32{cond})
		b.popLoop()
		// back-edge from the body to the condition
		b.wire(bodyExits, cond)
		// the false branch leaves the loop, after the body edge
		g.addEdge(cond, loopExit)
		return []int32{loopExit}

	case lang.KindDoWhile:
		head := g.newSynthetic("loop_head")
		b.wire(preds, head)
		cond := g.newPoint(n.Child(1))
		loopExit := g.newSynthetic("loop_exit")
		b.pushLoop(loopExit, cond)
		bodyExits := b.stmt(n.Child(0), []int32{head})
		b.popLoop()
		b.wire(bodyExits, cond)
		g.addEdge(cond, head)
		g.addEdge(cond, loopExit)
		return []int32{loopExit}

	case lang.KindFor:
		initExits := b.stmt(n.Child(0), preds)
		cond := g.newPoint(n.Child(1))
		b.wire(initExits, cond)
		update := g.newPoint(n.Child(2))
		loopExit := g.newSynthetic("loop_exit")
		b.pushLoop(loopExit, update)
		bodyExits := b.stmt(n.Child(3), []int32{cond})
		b.popLoop()
		b.wire(bodyExits, update)
		g.addEdge(update, cond)
		g.addEdge(cond, loopExit)
		return []int32{loopExit}

	case lang.KindReturn:
		p := g.newPoint(n)
		b.wire(preds, p)
		g.addEdge(p, g.exit)
		return nil

	case lang.KindRevert:
		p := g.newPoint(n)
		b.wire(preds, p)
		g.addEdge(p, g.exit)
		return nil

	case lang.KindBreak:
		p := g.newPoint(n)
		b.wire(preds, p)
		if t, ok := b.breakTarget(); ok {
			g.addEdge(p, t)
		} else {
			// break outside a loop; treat as leaving the callable
			g.addEdge(p, g.exit)
		}
		return nil

	case lang.KindContinue:
		p := g.newPoint(n)
		b.wire(preds, p)
		if t, ok := b.continueTarget(); ok {
			g.addEdge(p, t)
		} else {
			g.addEdge(p, g.exit)
		}
		return nil

	case lang.KindTry:
		// the attempted call is a program point; each catch clause is
		// entered from it in addition to the normal body
		call := g.newPoint(n.Child(0))
		b.wire(preds, call)
		exits := b.stmt(n.Child(1), []int32{call})
		for i := 2; i < n.NumChildren(); i++ {
			clause := n.Child(i)
			if clause.Kind() != lang.KindCatch {
				continue
			}
			exits = append(exits, b.stmt(clause.Child(0), []int32{call})...)
		}
		return exits

	default:
		// expression statements, declarations, emits, placeholders, opaque
		// assembly regions and anything unmodeled: one sequential point
		p := g.newPoint(n)
		b.wire(preds, p)
		return []int32{p}
	}
}

func (b *builder) wire(from []int32, to int32) {
	for _, f := range from {
		b.g.addEdge(f, to)
	}
}

func (b *builder) pushLoop(breakTarget, continueTarget int32) {
	b.breakTargets = append(b.breakTargets, breakTarget)
	b.continueTargets = append(b.continueTargets, continueTarget)
}

func (b *builder) popLoop() {
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.continueTargets = b.continueTargets[:len(b.continueTargets)-1]
}

func (b *builder) breakTarget() (int32, bool) {
	if len(b.breakTargets) == 0 {
		return 0, false
	}
	return b.breakTargets[len(b.breakTargets)-1], true
}

func (b *builder) continueTarget() (int32, bool) {
	if len(b.continueTargets) == 0 {
		return 0, false
	}
	return b.continueTargets[len(b.continueTargets)-1], true
}
