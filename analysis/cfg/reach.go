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

// reachableSet computes and memoizes the set of nodes reachable from src by
// following successor edges. Loops make the graph cyclic, so the worklist
// carries a visited set.
func (g *Graph) reachableSet(src int32) map[int32]bool {
	if seen, ok := g.reachFrom[src]; ok {
		return seen
	}
	seen := map[int32]bool{}
	worklist := []int32{src}
	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, next := range g.succs[cur] {
			if !seen[next] {
				seen[next] = true
				worklist = append(worklist, next)
			}
		}
	}
	g.reachFrom[src] = seen
	return seen
}

// Reachable reports whether b is reachable from a by following one or more
// successor edges.
func (g *Graph) Reachable(a, b Node) bool {
	if a.g != g || b.g != g {
		return false
	}
	return g.reachableSet(a.id)[b.id]
}

// ReachableFromEntry reports whether n is the entry node or reachable from it.
func (g *Graph) ReachableFromEntry(n Node) bool {
	if n.g != g {
		return false
	}
	return n.id == g.entry || g.reachableSet(g.entry)[n.id]
}

// DeadNodes returns every program point that is not reachable from the
// entry. Dead points keep their own successor structure; they are reported,
// never merged into a live path.
func (g *Graph) DeadNodes() []Node {
	live := g.reachableSet(g.entry)
	var dead []Node
	for i := range g.nodes {
		id := int32(i)
		if id == g.entry || live[id] {
			continue
		}
		if g.nodes[i].synthetic != "" {
			continue
		}
		dead = append(dead, Node{g, id})
	}
	return dead
}
