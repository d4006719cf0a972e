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

// Package graphutil implements generic operations over directed graphs with
// int64-indexed nodes. The analysis packages hand it their derived graphs
// (inheritance edges, call edges) to detect cycles and strongly connected
// components without re-implementing the algorithms per client.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// IndexGraph is a directed graph over dense int64 node ids. It implements
// both yourbasic/graph.Iterator and gonum's graph.Graph so that either
// library's algorithms can run on it directly.
type IndexGraph struct {
	// The order of the graph
	order int

	// Labels maps node ids to a display label, for diagnostics
	Labels map[int64]string

	// Keys are all the node IDs, sorted
	Keys []int64

	// Edges is an adjacency set: Edges[x][y] means there is a directed edge from x to y
	Edges map[int64]map[int64]bool
}

// NewIndexGraph returns an empty graph of the given order. Node ids must be
// in [0, order).
func NewIndexGraph(order int) *IndexGraph {
	return &IndexGraph{
		order:  order,
		Labels: make(map[int64]string, order),
		Edges:  make(map[int64]map[int64]bool, order),
	}
}

// AddNode registers a node id with its label. Re-adding a node updates the label.
func (c *IndexGraph) AddNode(id int64, label string) {
	if _, ok := c.Labels[id]; !ok {
		c.Keys = append(c.Keys, id)
		sort.Slice(c.Keys, func(i, j int) bool { return c.Keys[i] < c.Keys[j] })
		c.Edges[id] = map[int64]bool{}
	}
	c.Labels[id] = label
	if int(id) >= c.order {
		c.order = int(id) + 1
	}
}

// AddEdge adds a directed edge between two registered nodes.
func (c *IndexGraph) AddEdge(from, to int64) {
	if c.Edges[from] == nil {
		c.Edges[from] = map[int64]bool{}
	}
	c.Edges[from][to] = true
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and Labels are the same as in the original, meaning that node indices stay consistent
// across subgraphs.
func Subgraph(original *IndexGraph, include []int64) *IndexGraph {
	keep := make(map[int64]bool, len(include))
	keys := make([]int64, len(include))
	for j, i := range include {
		keys[j] = i
		keep[i] = true
	}

	edges := make(map[int64]map[int64]bool, len(include))
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if keep[e] {
				edges[i][e] = true
			}
		}
	}

	return &IndexGraph{
		order:  original.Order(),
		Labels: original.Labels,
		Edges:  edges,
		Keys:   keys,
	}
}

// Order implements the order of the graph.Iterator interface for the IndexGraph
func (c *IndexGraph) Order() int {
	return c.order
}

// Visit implements the yourbasic graph.Iterator interface for the IndexGraph
func (c *IndexGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** gonum Graph interface implementation **********************

// Node implements the Graph interface
func (c *IndexGraph) Node(v int64) graph.Node {
	if _, ok := c.Labels[v]; !ok {
		return nil
	}
	return IndexNode{id: v, label: c.Labels[v]}
}

// Nodes returns the set of nodes in the graph
func (c *IndexGraph) Nodes() graph.Nodes {
	ids := make([]int64, len(c.Keys))
	copy(ids, c.Keys)
	return &NodeSet{graph: c, ids: ids}
}

// From returns the set of nodes reachable by one edge from the id
func (c *IndexGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range c.Edges[id] {
		ids = append(ids, out)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &NodeSet{graph: c, ids: ids}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c *IndexGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c *IndexGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return IndexEdge{from: c.Node(uid), to: c.Node(vid)}
	}
	return nil
}

// HasEdgeFromTo reports whether a directed edge uid->vid exists.
func (c *IndexGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// To returns the set of nodes with an edge into id.
func (c *IndexGraph) To(id int64) graph.Nodes {
	var ids []int64
	for _, from := range c.Keys {
		if c.Edges[from][id] {
			ids = append(ids, from)
		}
	}
	return &NodeSet{graph: c, ids: ids}
}

// IndexNode is a labeled node implementing the gonum graph.Node interface
type IndexNode struct {
	id    int64
	label string
}

// ID returns the id of the node
func (n IndexNode) ID() int64 {
	return n.id
}

func (n IndexNode) String() string {
	return n.label
}

// IndexEdge implements the gonum graph.Edge interface
type IndexEdge struct {
	from graph.Node
	to   graph.Node
}

// From returns the origin node of the edge
func (e IndexEdge) From() graph.Node { return e.from }

// To returns the destination node of the edge
func (e IndexEdge) To() graph.Node { return e.to }

// ReversedEdge returns the edge with origin and destination swapped
func (e IndexEdge) ReversedEdge() graph.Edge { return IndexEdge{from: e.to, to: e.from} }

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	graph *IndexGraph
	ids   []int64
	cur   int
}

// Len returns the number of remaining nodes in the iterator
func (s *NodeSet) Len() int {
	return len(s.ids) - s.cur
}

// Next advances the iterator; it must be called before the first node is accessible
func (s *NodeSet) Next() bool {
	if s.cur < len(s.ids) {
		s.cur++
		return true
	}
	return false
}

// Node returns the current node
func (s *NodeSet) Node() graph.Node {
	if s.cur == 0 || s.cur > len(s.ids) {
		return nil
	}
	return s.graph.Node(s.ids[s.cur-1])
}

// Reset rewinds the iterator
func (s *NodeSet) Reset() {
	s.cur = 0
}
