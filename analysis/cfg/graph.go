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
	"fmt"

	"github.com/solgraph/solgraph/analysis/lang"
)

// Graph is the control-flow graph of one callable body.
type Graph struct {
	callable lang.Node

	nodes []nodeInfo
	succs [][]int32
	preds [][]int32

	entry int32
	exit  int32

	points map[lang.Node]int32

	// memoized reachability, per source node
	reachFrom map[int32]map[int32]bool
}

type nodeInfo struct {
	syntax    lang.Node
	synthetic string // "entry", "exit", "join", "loop_head", "loop_exit"; empty for program points
}

// Node is a handle on a CFG node. The zero Node is invalid.
type Node struct {
	g  *Graph
	id int32
}

// Callable returns the function, constructor or modifier definition the
// graph was built for.
func (g *Graph) Callable() lang.Node {
	return g.callable
}

// Entry returns the synthetic entry node.
func (g *Graph) Entry() Node {
	return Node{g, g.entry}
}

// Exit returns the synthetic exit node.
func (g *Graph) Exit() Node {
	return Node{g, g.exit}
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NodeAt returns the i-th node of the graph.
func (g *Graph) NodeAt(i int) Node {
	if i < 0 || i >= len(g.nodes) {
		return Node{}
	}
	return Node{g, int32(i)}
}

// PointFor returns the program point wrapping the given syntax node, if one
// was created for it.
func (g *Graph) PointFor(syntax lang.Node) (Node, bool) {
	id, ok := g.points[syntax]
	if !ok {
		return Node{}, false
	}
	return Node{g, id}, true
}

// Succs returns the successors of n in deterministic order.
func (g *Graph) Succs(n Node) []Node {
	if n.g != g || int(n.id) >= len(g.succs) {
		return nil
	}
	out := make([]Node, 0, len(g.succs[n.id]))
	for _, s := range g.succs[n.id] {
		out = append(out, Node{g, s})
	}
	return out
}

// Preds returns the predecessors of n in insertion order.
func (g *Graph) Preds(n Node) []Node {
	if n.g != g || int(n.id) >= len(g.preds) {
		return nil
	}
	out := make([]Node, 0, len(g.preds[n.id]))
	for _, s := range g.preds[n.id] {
		out = append(out, Node{g, s})
	}
	return out
}

// Valid reports whether the handle points at a node.
func (n Node) Valid() bool {
	return n.g != nil
}

// ID returns the node's index in its graph, unique within the graph.
func (n Node) ID() int {
	return int(n.id)
}

// Graph returns the graph the node belongs to.
func (n Node) Graph() *Graph {
	return n.g
}

// IsEntry reports whether n is the synthetic entry.
func (n Node) IsEntry() bool {
	return n.g != nil && n.id == n.g.entry
}

// IsExit reports whether n is the synthetic exit.
func (n Node) IsExit() bool {
	return n.g != nil && n.id == n.g.exit
}

// IsSynthetic reports whether n is any synthetic marker rather than a
// program point.
func (n Node) IsSynthetic() bool {
	return n.g != nil && n.g.nodes[n.id].synthetic != ""
}

// Syntax returns the syntax node the program point wraps; invalid for
// synthetic nodes.
func (n Node) Syntax() lang.Node {
	if n.g == nil {
		return lang.Node{}
	}
	return n.g.nodes[n.id].syntax
}

func (n Node) String() string {
	if n.g == nil {
		return "<invalid>"
	}
	info := n.g.nodes[n.id]
	if info.synthetic != "" {
		return fmt.Sprintf("[%d:%s]", n.id, info.synthetic)
	}
	return fmt.Sprintf("[%d:%s]", n.id, lang.DisplayString(info.syntax))
}

func (g *Graph) newSynthetic(label string) int32 {
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, nodeInfo{synthetic: label})
	g.succs = append(g.succs, nil)
	g.preds = append(g.preds, nil)
	return id
}

func (g *Graph) newPoint(syntax lang.Node) int32 {
	if id, ok := g.points[syntax]; ok {
		return id
	}
	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, nodeInfo{syntax: syntax})
	g.succs = append(g.succs, nil)
	g.preds = append(g.preds, nil)
	g.points[syntax] = id
	return id
}

func (g *Graph) addEdge(from, to int32) {
	for _, s := range g.succs[from] {
		if s == to {
			return
		}
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}
