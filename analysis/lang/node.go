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

import "fmt"

// Program is an immutable arena of syntax nodes for one parsed program.
// Nodes are identified by their index in the arena; a Node handle is the
// pair (program, index) and is comparable, so derived relations can use
// nodes directly as map keys.
type Program struct {
	files []string
	nodes []nodeData
}

type nodeData struct {
	kind     Kind
	text     string
	parent   int32
	children []int32
	file     int32
	line     int32
	col      int32
	endLine  int32
	endCol   int32
}

// Node is a handle on a syntax node. The zero Node is invalid.
type Node struct {
	prog *Program
	idx  int32
}

// Location is a source position: file plus start/end line and column.
type Location struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Valid reports whether the handle points at a node.
func (n Node) Valid() bool {
	return n.prog != nil && int(n.idx) < len(n.prog.nodes)
}

// Program returns the program the node belongs to.
func (n Node) Program() *Program {
	return n.prog
}

// Index returns the arena index of the node, unique within its program.
func (n Node) Index() int {
	return int(n.idx)
}

// Kind returns the grammar kind tag of the node.
func (n Node) Kind() Kind {
	if !n.Valid() {
		return ""
	}
	return n.prog.nodes[n.idx].kind
}

// Text returns the token text of a leaf, or the decoration of an interior
// node (an operator for binary_expression, a declared name for
// declarations, a member name for member_expression). Empty when the node
// carries no text.
func (n Node) Text() string {
	if !n.Valid() {
		return ""
	}
	return n.prog.nodes[n.idx].text
}

// Parent returns the parent node; the returned node is invalid at a root.
func (n Node) Parent() Node {
	if !n.Valid() || n.prog.nodes[n.idx].parent < 0 {
		return Node{}
	}
	return Node{n.prog, n.prog.nodes[n.idx].parent}
}

// NumChildren returns the number of children of the node.
func (n Node) NumChildren() int {
	if !n.Valid() {
		return 0
	}
	return len(n.prog.nodes[n.idx].children)
}

// Child returns the i-th child in source order; invalid when out of range,
// so that absent optional children read as absence rather than a failure.
func (n Node) Child(i int) Node {
	if !n.Valid() || i < 0 || i >= len(n.prog.nodes[n.idx].children) {
		return Node{}
	}
	return Node{n.prog, n.prog.nodes[n.idx].children[i]}
}

// Children returns all children in source order.
func (n Node) Children() []Node {
	if !n.Valid() {
		return nil
	}
	out := make([]Node, 0, len(n.prog.nodes[n.idx].children))
	for _, c := range n.prog.nodes[n.idx].children {
		out = append(out, Node{n.prog, c})
	}
	return out
}

// ChildOfKind returns the first child with the given kind, if any.
func (n Node) ChildOfKind(k Kind) Node {
	for _, c := range n.Children() {
		if c.Kind() == k {
			return c
		}
	}
	return Node{}
}

// Location returns the source location of the node.
func (n Node) Location() Location {
	if !n.Valid() {
		return Location{}
	}
	d := n.prog.nodes[n.idx]
	file := ""
	if d.file >= 0 && int(d.file) < len(n.prog.files) {
		file = n.prog.files[d.file]
	}
	return Location{
		File:      file,
		Line:      int(d.line),
		Column:    int(d.col),
		EndLine:   int(d.endLine),
		EndColumn: int(d.endCol),
	}
}

// Root returns the source_file ancestor of the node.
func (n Node) Root() Node {
	cur := n
	for cur.Parent().Valid() {
		cur = cur.Parent()
	}
	return cur
}

// Ancestors visits the parents of n from the closest outward, stopping when
// visit returns false.
func (n Node) Ancestors(visit func(Node) bool) {
	for cur := n.Parent(); cur.Valid(); cur = cur.Parent() {
		if !visit(cur) {
			return
		}
	}
}

// EnclosingOfKind returns the nearest ancestor with the given kind, if any.
func (n Node) EnclosingOfKind(k Kind) Node {
	var found Node
	n.Ancestors(func(a Node) bool {
		if a.Kind() == k {
			found = a
			return false
		}
		return true
	})
	return found
}

// EnclosingCallable returns the nearest function, constructor or modifier
// definition enclosing n, if any.
func (n Node) EnclosingCallable() Node {
	var found Node
	n.Ancestors(func(a Node) bool {
		if a.Kind().IsCallable() {
			found = a
			return false
		}
		return true
	})
	return found
}

// EnclosingContract returns the contract-like declaration enclosing n, if any.
func (n Node) EnclosingContract() Node {
	var found Node
	n.Ancestors(func(a Node) bool {
		if a.Kind().IsContractLike() {
			found = a
			return false
		}
		return true
	})
	return found
}

// PreOrder visits n and all its descendants in source order, stopping the
// descent below any node for which visit returns false.
func (n Node) PreOrder(visit func(Node) bool) {
	if !n.Valid() {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		c.PreOrder(visit)
	}
}

// NumNodes returns the number of nodes in the program arena.
func (p *Program) NumNodes() int {
	return len(p.nodes)
}

// NodeAt returns the node at the given arena index.
func (p *Program) NodeAt(i int) Node {
	if i < 0 || i >= len(p.nodes) {
		return Node{}
	}
	return Node{p, int32(i)}
}

// Files returns the file names of the program's source units.
func (p *Program) Files() []string {
	out := make([]string, len(p.files))
	copy(out, p.files)
	return out
}

// Roots returns the source_file nodes of the program in file order.
func (p *Program) Roots() []Node {
	var roots []Node
	for i, d := range p.nodes {
		if d.kind == KindSourceFile {
			roots = append(roots, Node{p, int32(i)})
		}
	}
	return roots
}
