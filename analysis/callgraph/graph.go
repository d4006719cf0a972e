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

package callgraph

import (
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
	"github.com/solgraph/solgraph/internal/graphutil"
)

// CallSitesIn returns the call and new expressions in the callable's body,
// in source order.
func CallSitesIn(callable lang.Node) []lang.Node {
	body := lang.Function{Node: callable}.Body()
	if !body.Valid() {
		return nil
	}
	var out []lang.Node
	body.PreOrder(func(n lang.Node) bool {
		if n.Kind() == lang.KindCall || n.Kind() == lang.KindNewExpr {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Callables returns every function, constructor and modifier definition in
// the program, in declaration order.
func (g *Graph) Callables() []lang.Node {
	var out []lang.Node
	for _, c := range g.prog.Contracts() {
		for _, f := range c.Functions() {
			out = append(out, f.Node)
		}
		if ctor, ok := c.Constructor(); ok {
			out = append(out, ctor.Node)
		}
		for _, m := range c.Modifiers() {
			out = append(out, m.Node)
		}
	}
	return out
}

// CalleesOf returns the resolved callees of the callable's call sites, in
// source order, skipping unresolved sites.
func (g *Graph) CalleesOf(callable lang.Node) []lang.Function {
	var out []lang.Function
	for _, site := range CallSitesIn(callable) {
		r := g.Resolve(site)
		if r.Kind != Unresolved {
			out = append(out, r.Callee)
		}
	}
	return out
}

// RecursiveCallables returns the callables that can call themselves back,
// directly or through a cycle of resolved call edges. Traversals bound
// their depth when walking into this set.
func (g *Graph) RecursiveCallables() map[lang.Node]bool {
	callables := g.Callables()
	id := make(map[lang.Node]int, len(callables))
	for i, c := range callables {
		id[c] = i
	}

	ig := graphutil.NewIndexGraph(len(callables))
	for i, c := range callables {
		ig.AddNode(int64(i), lang.Function{Node: c}.Name())
	}
	selfLoop := map[int]bool{}
	for i, c := range callables {
		for _, callee := range g.CalleesOf(c) {
			j, ok := id[callee.Node]
			if !ok {
				continue
			}
			ig.AddEdge(int64(i), int64(j))
			if i == j {
				selfLoop[i] = true
			}
		}
	}

	inCycle := map[lang.Node]bool{}
	for _, component := range graphutil.StronglyConnected(ig) {
		for _, i := range component {
			inCycle[callables[i]] = true
		}
	}
	direct := map[lang.Node]bool{}
	for i := range selfLoop {
		direct[callables[i]] = true
	}
	return funcutil.Union(inCycle, direct)
}
