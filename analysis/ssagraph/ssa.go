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

package ssagraph

import (
	"fmt"

	"github.com/solgraph/solgraph/analysis/cfg"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
)

// DefKind distinguishes the four definition variants.
type DefKind int

const (
	// Param is the implicit definition of a parameter at function entry
	Param DefKind = iota
	// Assign is a definition by assignment, augmented assignment or update
	Assign
	// Decl is a definition by local variable declaration or the implicit
	// entry definition of a state variable at its declaration site
	Decl
	// Phi aggregates two or more definitions reaching a control-flow merge
	Phi
)

func (k DefKind) String() string {
	switch k {
	case Param:
		return "param"
	case Assign:
		return "assign"
	case Decl:
		return "decl"
	case Phi:
		return "phi"
	}
	return "unknown"
}

// Definition is a handle on one SSA definition.
type Definition struct {
	info *Info
	id   int32
}

type defData struct {
	kind     DefKind
	variable string
	// site is the syntactic write site: the parameter node, the assignment
	// expression, or the declaration. Phi definitions have no single write
	// site and record the merge's CFG node instead.
	site     lang.Node
	mergeAt  int32
	operands map[int32]bool
}

// Info holds the SSA view of one callable.
type Info struct {
	graph *cfg.Graph
	defs  []defData

	// reaching definition per variable, per CFG node, on entry to the node
	in map[int32]map[string]int32

	// phi definitions, keyed by merge node and variable
	phiAt map[int32]map[string]int32

	// use -> definition and definition -> uses edges
	useDef  map[lang.Node]int32
	defUses map[int32][]lang.Node
}

// Valid reports whether the handle points at a definition.
func (d Definition) Valid() bool {
	return d.info != nil
}

// Info returns the SSA view the definition belongs to.
func (d Definition) Info() *Info {
	return d.info
}

// Kind returns the definition variant.
func (d Definition) Kind() DefKind {
	return d.info.defs[d.id].kind
}

// Variable returns the defined variable's name.
func (d Definition) Variable() string {
	return d.info.defs[d.id].variable
}

// Site returns the syntactic write site; invalid for a Phi.
func (d Definition) Site() lang.Node {
	return d.info.defs[d.id].site
}

// MergeNode returns the CFG merge node of a Phi definition.
func (d Definition) MergeNode() cfg.Node {
	if d.Kind() != Phi {
		return cfg.Node{}
	}
	return d.info.graph.NodeAt(int(d.info.defs[d.id].mergeAt))
}

// Operands returns the definitions a Phi aggregates, in increasing id
// order. Empty for non-phi definitions.
func (d Definition) Operands() []Definition {
	data := d.info.defs[d.id]
	if data.kind != Phi {
		return nil
	}
	var out []Definition
	for _, id := range funcutil.SortedKeys(data.operands) {
		out = append(out, Definition{d.info, id})
	}
	return out
}

func (d Definition) String() string {
	if !d.Valid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s(%s)", d.Kind(), d.Variable())
}

// Graph returns the control-flow graph the SSA view was computed over.
func (s *Info) Graph() *cfg.Graph {
	return s.graph
}

// Definitions returns every definition in creation order.
func (s *Info) Definitions() []Definition {
	out := make([]Definition, 0, len(s.defs))
	for i := range s.defs {
		out = append(out, Definition{s, int32(i)})
	}
	return out
}

// DefinitionAt returns the i-th definition.
func (s *Info) DefinitionAt(i int) Definition {
	if i < 0 || i >= len(s.defs) {
		return Definition{}
	}
	return Definition{s, int32(i)}
}

// DefOf resolves a variable use (an identifier read) to its unique direct
// reaching definition. The second result is false for nodes that are not
// resolved uses.
func (s *Info) DefOf(use lang.Node) (Definition, bool) {
	id, ok := s.useDef[use]
	if !ok {
		return Definition{}, false
	}
	return Definition{s, id}, true
}

// UsesOf returns the identifier reads resolved to the definition, in source
// order.
func (s *Info) UsesOf(d Definition) []lang.Node {
	if d.info != s {
		return nil
	}
	return s.defUses[d.id]
}

// DefAtSite returns the definition created at the given write site (a
// parameter node, assignment expression or declaration).
func (s *Info) DefAtSite(site lang.Node) (Definition, bool) {
	for i := range s.defs {
		if s.defs[i].kind != Phi && s.defs[i].site == site {
			return Definition{s, int32(i)}, true
		}
	}
	return Definition{}, false
}

// PhisUsing returns the phi definitions that aggregate d as an operand.
func (s *Info) PhisUsing(d Definition) []Definition {
	if d.info != s {
		return nil
	}
	var out []Definition
	for i := range s.defs {
		if s.defs[i].kind == Phi && s.defs[i].operands[d.id] {
			out = append(out, Definition{s, int32(i)})
		}
	}
	return out
}

// ReachingAt returns the definition of the variable reaching the entry of
// the given CFG node, if any.
func (s *Info) ReachingAt(n cfg.Node, variable string) (Definition, bool) {
	m, ok := s.in[int32(n.ID())]
	if !ok {
		return Definition{}, false
	}
	id, ok := m[variable]
	if !ok {
		return Definition{}, false
	}
	return Definition{s, id}, true
}
