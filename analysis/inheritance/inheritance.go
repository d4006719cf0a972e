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

// Package inheritance computes the contract hierarchy: direct and
// transitive ancestor edges, per-contract linearizations, override and
// abstraction facts, diamond conflicts, and inheritance cycles.
//
// Structural inconsistencies are surfaced as queryable facts, never as
// failures: contracts on an inheritance cycle get an empty linearization
// and appear in Cycles; diamonds without a disambiguating override appear
// in DiamondConflicts. Analysis of the rest of the program is unaffected.
package inheritance

import (
	"gonum.org/v1/gonum/graph/topo"

	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
	"github.com/solgraph/solgraph/internal/graphutil"
)

// Hierarchy is the inheritance view of one program, built once and shared
// read-only by the other analyses.
type Hierarchy struct {
	prog      *lang.Program
	contracts []lang.Contract
	index     map[string]int

	direct [][]int
	linear [][]int
	bases  *graphutil.IndexGraph

	cycles      [][]string
	onCycle     map[int]bool
	missing     map[string][]string
	depth       []int
	diamonds    []DiamondConflict
	c3Conflicts []string
}

// Build computes the hierarchy of the program. Base names that do not
// resolve to a declaration in the program are recorded in MissingBases and
// otherwise ignored.
func Build(p *lang.Program, log *config.LogGroup) *Hierarchy {
	h := &Hierarchy{
		prog:    p,
		index:   map[string]int{},
		onCycle: map[int]bool{},
		missing: map[string][]string{},
	}
	h.contracts = p.Contracts()
	for i, c := range h.contracts {
		h.index[c.Name()] = i
	}

	h.direct = make([][]int, len(h.contracts))
	g := graphutil.NewIndexGraph(len(h.contracts))
	for i, c := range h.contracts {
		g.AddNode(int64(i), c.Name())
	}
	for i, c := range h.contracts {
		for _, baseName := range c.BaseNames() {
			j, ok := h.index[baseName]
			if !ok {
				h.missing[c.Name()] = append(h.missing[c.Name()], baseName)
				log.Warnf("contract %s inherits unknown base %s", c.Name(), baseName)
				continue
			}
			h.direct[i] = append(h.direct[i], j)
			g.AddEdge(int64(i), int64(j))
		}
	}

	// a contract that is its own ancestor is a structural error, not a
	// silently ignored edge
	for _, component := range graphutil.StronglyConnected(g) {
		var names []string
		for _, id := range component {
			h.onCycle[id] = true
			names = append(names, h.contracts[id].Name())
		}
		h.cycles = append(h.cycles, names)
		log.Warnf("inheritance cycle: %v", names)
	}
	for _, cyc := range graphutil.FindAllElementaryCycles(g) {
		if len(cyc) == 2 && cyc[0] == cyc[1] {
			id := int(cyc[0])
			if !h.onCycle[id] {
				h.onCycle[id] = true
				h.cycles = append(h.cycles, []string{h.contracts[id].Name()})
				log.Warnf("contract %s inherits itself", h.contracts[id].Name())
			}
		}
	}

	h.bases = g
	h.linearizeAll()
	for _, name := range h.c3Conflicts {
		log.Warnf("no consistent base order for %s; using depth-first order", name)
	}
	h.computeDepths()
	h.findDiamonds()
	return h
}

// BaseFirstOrder returns the contracts ordered so that every base precedes
// the contracts deriving from it. Contracts on an inheritance cycle are
// appended at the end in declaration order.
func (h *Hierarchy) BaseFirstOrder() []lang.Contract {
	sorted, err := topo.Sort(h.bases)
	var out []lang.Contract
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] == nil {
			continue
		}
		out = append(out, h.contracts[sorted[i].ID()])
	}
	if err != nil {
		for i := range h.contracts {
			if h.onCycle[i] {
				out = append(out, h.contracts[i])
			}
		}
	}
	return out
}

// Contracts returns the contracts of the program in declaration order.
func (h *Hierarchy) Contracts() []lang.Contract {
	return h.contracts
}

// ContractNamed returns the contract with the given name.
func (h *Hierarchy) ContractNamed(name string) (lang.Contract, bool) {
	i, ok := h.index[name]
	if !ok {
		return lang.Contract{}, false
	}
	return h.contracts[i], true
}

// DirectBases returns the direct bases of c in declaration order.
func (h *Hierarchy) DirectBases(c lang.Contract) []lang.Contract {
	i, ok := h.index[c.Name()]
	if !ok {
		return nil
	}
	return funcutil.Map(h.direct[i], func(j int) lang.Contract { return h.contracts[j] })
}

// Linearization returns the ancestor ordering of c used to resolve
// overrides, most-derived first, starting with c itself. Contracts on an
// inheritance cycle have an empty linearization.
func (h *Hierarchy) Linearization(c lang.Contract) []lang.Contract {
	i, ok := h.index[c.Name()]
	if !ok {
		return nil
	}
	return funcutil.Map(h.linear[i], func(j int) lang.Contract { return h.contracts[j] })
}

// IsAncestor reports whether base is a transitive ancestor of derived.
func (h *Hierarchy) IsAncestor(base, derived lang.Contract) bool {
	if base.Name() == derived.Name() {
		return false
	}
	return funcutil.Exists(h.Linearization(derived), func(a lang.Contract) bool {
		return a.Name() == base.Name()
	})
}

// InheritanceDepth returns the length of the longest base chain above c.
// Contracts on a cycle report zero.
func (h *Hierarchy) InheritanceDepth(c lang.Contract) int {
	i, ok := h.index[c.Name()]
	if !ok {
		return 0
	}
	return h.depth[i]
}

// Cycles returns the inheritance cycles found in the program, each as the
// list of contract names on the cycle.
func (h *Hierarchy) Cycles() [][]string {
	return h.cycles
}

// LinearizationConflicts returns the names of contracts whose bases admit
// no consistent C3 order. Their linearization is the depth-first fallback
// order, so queries still answer.
func (h *Hierarchy) LinearizationConflicts() []string {
	return h.c3Conflicts
}

// MissingBases returns, per contract name, the base names that did not
// resolve to any declaration.
func (h *Hierarchy) MissingBases() map[string][]string {
	return h.missing
}

// IsAbstract reports whether c cannot be deployed: it is an interface, is
// marked abstract, or some member visible in its linearization has no
// implementation.
func (h *Hierarchy) IsAbstract(c lang.Contract) bool {
	if c.IsInterface() || c.IsMarkedAbstract() {
		return true
	}
	seen := map[string]bool{}
	for _, a := range h.Linearization(c) {
		for _, f := range a.Functions() {
			if seen[f.Name()] {
				continue
			}
			seen[f.Name()] = true
			if _, ok := h.MostDerivedImpl(c, f.Name()); !ok {
				return true
			}
		}
	}
	return false
}

// MostDerivedImpl returns the most-derived implemented override of the
// named method along c's linearization. This is the declaration an
// unqualified call inside c dispatches to, not the textually nearest one.
func (h *Hierarchy) MostDerivedImpl(c lang.Contract, method string) (lang.Function, bool) {
	for _, a := range h.Linearization(c) {
		if f, ok := a.FunctionNamed(method); ok && f.IsImplemented() {
			return f, true
		}
	}
	return lang.Function{}, false
}

// MostDerivedDecl returns the most-derived declaration of the named
// method, implemented or not.
func (h *Hierarchy) MostDerivedDecl(c lang.Contract, method string) (lang.Function, bool) {
	for _, a := range h.Linearization(c) {
		if f, ok := a.FunctionNamed(method); ok {
			return f, true
		}
	}
	return lang.Function{}, false
}

// SuperImpl returns the implementation an explicit parent call inside
// current resolves to: the nearest implemented declaration in the
// linearization of derived after skipping current itself.
func (h *Hierarchy) SuperImpl(derived, current lang.Contract, method string) (lang.Function, bool) {
	past := false
	for _, a := range h.Linearization(derived) {
		if a.Name() == current.Name() {
			past = true
			continue
		}
		if !past {
			continue
		}
		if f, ok := a.FunctionNamed(method); ok && f.IsImplemented() {
			return f, true
		}
	}
	return lang.Function{}, false
}

// MostDerivedModifier returns the most-derived modifier declaration with
// the given name along c's linearization.
func (h *Hierarchy) MostDerivedModifier(c lang.Contract, name string) (lang.Modifier, bool) {
	for _, a := range h.Linearization(c) {
		if m, ok := a.ModifierNamed(name); ok {
			return m, true
		}
	}
	return lang.Modifier{}, false
}

// IsOverride reports whether f overrides a declaration in some ancestor of
// its contract.
func (h *Hierarchy) IsOverride(f lang.Function) bool {
	return len(h.Overridden(f)) > 0
}

// Overridden returns the ancestor declarations that f overrides, in
// linearization order.
func (h *Hierarchy) Overridden(f lang.Function) []lang.Function {
	c := f.Contract()
	var out []lang.Function
	for _, a := range h.Linearization(c) {
		if a.Name() == c.Name() {
			continue
		}
		if g, ok := a.FunctionNamed(f.Name()); ok {
			out = append(out, g)
		}
	}
	return out
}

// OverriddenBy returns the declarations in derived contracts that override f.
func (h *Hierarchy) OverriddenBy(f lang.Function) []lang.Function {
	base := f.Contract()
	var out []lang.Function
	for _, c := range h.contracts {
		if c.Name() == base.Name() || !h.IsAncestor(base, c) {
			continue
		}
		if g, ok := c.FunctionNamed(f.Name()); ok {
			out = append(out, g)
		}
	}
	return out
}

func (h *Hierarchy) computeDepths() {
	h.depth = make([]int, len(h.contracts))
	memo := make([]int, len(h.contracts))
	for i := range memo {
		memo[i] = -1
	}
	var depthOf func(i int) int
	depthOf = func(i int) int {
		if h.onCycle[i] {
			return 0
		}
		if memo[i] >= 0 {
			return memo[i]
		}
		memo[i] = 0 // cut re-entry on malformed graphs
		best := 0
		for _, j := range h.direct[i] {
			if d := depthOf(j) + 1; d > best {
				best = d
			}
		}
		memo[i] = best
		return best
	}
	for i := range h.contracts {
		h.depth[i] = depthOf(i)
	}
}
