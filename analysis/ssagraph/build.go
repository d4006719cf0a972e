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
	"github.com/solgraph/solgraph/analysis/cfg"
	"github.com/solgraph/solgraph/analysis/lang"
)

// Build computes the SSA view over a callable's control-flow graph. The
// tracked variables are the callable's parameters, its local declarations,
// and the state variables of the enclosing contract; state variables get an
// implicit entry definition at their declaration site.
func Build(g *cfg.Graph) *Info {
	s := &Info{
		graph:   g,
		in:      map[int32]map[string]int32{},
		phiAt:   map[int32]map[string]int32{},
		useDef:  map[lang.Node]int32{},
		defUses: map[int32][]lang.Node{},
	}

	entryDefs := map[string]int32{}
	callable := g.Callable()

	// parameters are defined at entry
	for _, p := range (lang.Function{Node: callable}).Params() {
		id := s.newDef(Param, p.Name(), p.Node)
		entryDefs[p.Name()] = id
	}
	// state variables of the enclosing contract are conservatively defined
	// at entry, anchored at their declaration
	contract := callable.EnclosingContract()
	if contract.Valid() {
		for _, v := range (lang.Contract{Node: contract}).StateVars() {
			if _, taken := entryDefs[v.Name()]; !taken {
				entryDefs[v.Name()] = s.newDef(Decl, v.Name(), v.Node)
			}
		}
	}

	// per-node write sites, in source order
	gen := make(map[int32][]int32, g.NumNodes())
	tracked := map[string]bool{}
	for name := range entryDefs {
		tracked[name] = true
	}
	// declarations extend the tracked set before writes are collected
	for i := 0; i < g.NumNodes(); i++ {
		n := g.NodeAt(i)
		if n.IsSynthetic() {
			continue
		}
		if n.Syntax().Kind() == lang.KindVarDeclStmt {
			tracked[n.Syntax().Text()] = true
		}
	}
	for i := 0; i < g.NumNodes(); i++ {
		n := g.NodeAt(i)
		if n.IsSynthetic() {
			continue
		}
		gen[int32(i)] = s.collectWrites(n.Syntax(), tracked)
	}

	s.iterate(entryDefs, gen)
	s.resolveUses(tracked)
	return s
}

func (s *Info) newDef(kind DefKind, variable string, site lang.Node) int32 {
	id := int32(len(s.defs))
	s.defs = append(s.defs, defData{kind: kind, variable: variable, site: site})
	return id
}

// collectWrites finds the definitions created by one program point: local
// declarations and assignment/update expressions whose target is a tracked
// variable. A write to an element of a container counts as a write to the
// container's variable.
func (s *Info) collectWrites(stmt lang.Node, tracked map[string]bool) []int32 {
	var out []int32
	if stmt.Kind() == lang.KindVarDeclStmt {
		out = append(out, s.newDef(Decl, stmt.Text(), stmt))
	}
	stmt.PreOrder(func(n lang.Node) bool {
		// do not cross into nested statements; they have their own points
		if n != stmt && n.Kind().IsStatement() {
			return false
		}
		if lang.IsAssignmentExpr(n) {
			target := lang.AssignTarget(n)
			name := targetVariable(target)
			if name != "" && tracked[name] {
				out = append(out, s.newDef(Assign, name, n))
			}
		}
		return true
	})
	return out
}

// targetVariable resolves the written variable of an assignment target:
// the identifier itself, or the root of an element-access chain.
func targetVariable(target lang.Node) string {
	if target.Kind() == lang.KindIdentifier {
		return target.Text()
	}
	return lang.ContainerBaseName(target)
}

// iterate runs reaching definitions to a fixpoint. At a merge whose
// predecessors disagree on a variable, a phi definition keyed by (node,
// variable) aggregates the incoming definitions; the phi is the single
// definition seen downstream.
func (s *Info) iterate(entryDefs map[string]int32, gen map[int32][]int32) {
	out := map[int32]map[string]int32{}
	entry := int32(s.graph.Entry().ID())
	numNodes := s.graph.NumNodes()

	changed := true
	for changed {
		changed = false
		for i := 0; i < numNodes; i++ {
			id := int32(i)
			n := s.graph.NodeAt(i)

			// join over predecessors
			inMap := map[string]int32{}
			if id == entry {
				for v, d := range entryDefs {
					inMap[v] = d
				}
			} else {
				incoming := map[string]map[int32]bool{}
				for _, p := range s.graph.Preds(n) {
					for v, d := range out[int32(p.ID())] {
						if incoming[v] == nil {
							incoming[v] = map[int32]bool{}
						}
						incoming[v][d] = true
					}
				}
				for v, defs := range incoming {
					if len(defs) == 1 {
						for d := range defs {
							inMap[v] = d
						}
						continue
					}
					phi := s.phiFor(id, v)
					for d := range defs {
						if d != phi {
							s.defs[phi].operands[d] = true
						}
					}
					inMap[v] = phi
				}
			}

			if !sameDefs(s.in[id], inMap) {
				s.in[id] = inMap
				changed = true
			}

			// transfer: the last write to a variable wins
			outMap := map[string]int32{}
			for v, d := range inMap {
				outMap[v] = d
			}
			for _, d := range gen[id] {
				outMap[s.defs[d].variable] = d
			}
			if !sameDefs(out[id], outMap) {
				out[id] = outMap
				changed = true
			}
		}
	}
}

func (s *Info) phiFor(node int32, variable string) int32 {
	if s.phiAt[node] == nil {
		s.phiAt[node] = map[string]int32{}
	}
	if id, ok := s.phiAt[node][variable]; ok {
		return id
	}
	id := int32(len(s.defs))
	s.defs = append(s.defs, defData{
		kind:     Phi,
		variable: variable,
		mergeAt:  node,
		operands: map[int32]bool{},
	})
	s.phiAt[node][variable] = id
	return id
}

func sameDefs(a, b map[string]int32) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// resolveUses maps every identifier read in every program point to the
// definition reaching the point.
func (s *Info) resolveUses(tracked map[string]bool) {
	for i := 0; i < s.graph.NumNodes(); i++ {
		n := s.graph.NodeAt(i)
		if n.IsSynthetic() {
			continue
		}
		stmt := n.Syntax()
		inMap := s.in[int32(i)]
		stmt.PreOrder(func(node lang.Node) bool {
			if node != stmt && node.Kind().IsStatement() {
				return false
			}
			if node.Kind() != lang.KindIdentifier || !tracked[node.Text()] {
				return true
			}
			if isPureWriteTarget(node) {
				return true
			}
			if def, ok := inMap[node.Text()]; ok {
				s.useDef[node] = def
				s.defUses[def] = append(s.defUses[def], node)
			}
			return true
		})
	}
}

// isPureWriteTarget reports whether the identifier is the directly written
// operand of a plain assignment. Augmented assignments and updates read the
// old value, so their targets remain uses.
func isPureWriteTarget(ident lang.Node) bool {
	parent := ident.Parent()
	return parent.Kind() == lang.KindAssignment && parent.Child(0) == ident
}
