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
	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/inheritance"
	"github.com/solgraph/solgraph/analysis/lang"
)

// ResolutionKind classifies how a call site binds to its callee.
type ResolutionKind int

const (
	// Internal: direct call to a function declared in the current contract
	Internal ResolutionKind = iota
	// Inherited: unqualified call binding to an ancestor's declaration
	Inherited
	// Super: explicit parent call, bound past the current contract
	Super
	// ThisExternal: call through the contract's own external interface;
	// a genuine external dispatch, not equivalent to an internal call
	ThisExternal
	// InterfaceDispatch: call through an interface-typed reference with a
	// statically known implementer
	InterfaceDispatch
	// ParameterDispatch: call through a contract-typed reference such as a
	// typed parameter, state variable or local
	ParameterDispatch
	// Unresolved: not statically determinable; expected for opaque
	// addresses and unknown identifiers
	Unresolved
)

func (k ResolutionKind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Inherited:
		return "inherited"
	case Super:
		return "super"
	case ThisExternal:
		return "thisExternal"
	case InterfaceDispatch:
		return "interfaceDispatch"
	case ParameterDispatch:
		return "parameterDispatch"
	case Unresolved:
		return "unresolved"
	}
	return "unknown"
}

// Resolution is the outcome of resolving one call site.
type Resolution struct {
	// Callee is the resolved declaration; invalid when Kind is Unresolved
	Callee lang.Function

	// Kind records how the binding was found
	Kind ResolutionKind
}

// Graph resolves and caches call and modifier bindings for one program.
// It is read-only after construction aside from its internal caches and
// can be shared across per-function analyses.
type Graph struct {
	prog *lang.Program
	hier *inheritance.Hierarchy
	log  *config.LogGroup

	calls     map[lang.Node]Resolution
	modifiers map[lang.Node]lang.Modifier
}

// NewGraph returns a resolver over the program and its hierarchy.
func NewGraph(p *lang.Program, h *inheritance.Hierarchy, log *config.LogGroup) *Graph {
	return &Graph{
		prog:      p,
		hier:      h,
		log:       log,
		calls:     map[lang.Node]Resolution{},
		modifiers: map[lang.Node]lang.Modifier{},
	}
}

// Hierarchy returns the inheritance hierarchy the resolver uses.
func (g *Graph) Hierarchy() *inheritance.Hierarchy {
	return g.hier
}

// Resolve resolves a call site to its callee declaration. The result is
// cached; resolving the same site twice yields the same resolution.
func (g *Graph) Resolve(site lang.Node) Resolution {
	if r, ok := g.calls[site]; ok {
		return r
	}
	r := g.resolve(site)
	g.calls[site] = r
	if r.Kind == Unresolved {
		g.log.Debugf("unresolved call at %s", site.Location())
	}
	return r
}

// IsUnresolved reports whether the call site does not bind statically.
func (g *Graph) IsUnresolved(site lang.Node) bool {
	return g.Resolve(site).Kind == Unresolved
}

func (g *Graph) resolve(site lang.Node) Resolution {
	if site.Kind() == lang.KindNewExpr {
		return g.resolveNew(site)
	}
	if site.Kind() != lang.KindCall {
		return Resolution{Kind: Unresolved}
	}

	contractNode := site.EnclosingContract()
	if !contractNode.Valid() {
		return Resolution{Kind: Unresolved}
	}
	current := lang.Contract{Node: contractNode}
	name := lang.CalleeName(site)
	if name == "" {
		return Resolution{Kind: Unresolved}
	}

	base := lang.CalleeBase(site)
	switch {
	case base.Valid() && base.Kind() == lang.KindSuper:
		// the parent's implementation: nearest in the linearization past
		// the current contract
		if f, ok := g.hier.SuperImpl(current, current, name); ok {
			return Resolution{Callee: f, Kind: Super}
		}
		return Resolution{Kind: Unresolved}

	case base.Valid() && base.Kind() == lang.KindThis:
		// dispatch through the contract's own external interface
		if f, ok := g.hier.MostDerivedImpl(current, name); ok && f.IsExternal() {
			return Resolution{Callee: f, Kind: ThisExternal}
		}
		return Resolution{Kind: Unresolved}

	case !base.Valid():
		// unqualified: the most-derived override visible here, not the
		// textually nearest declaration
		if f, ok := g.hier.MostDerivedImpl(current, name); ok {
			kind := Internal
			if f.Contract().Name() != current.Name() {
				kind = Inherited
			}
			return Resolution{Callee: f, Kind: kind}
		}
		if f, ok := g.hier.MostDerivedDecl(current, name); ok {
			// only an unimplemented declaration is visible
			kind := Internal
			if f.Contract().Name() != current.Name() {
				kind = Inherited
			}
			return Resolution{Callee: f, Kind: kind}
		}
		return Resolution{Kind: Unresolved}

	default:
		return g.resolveTyped(site, current, base, name)
	}
}

// resolveTyped handles base.f() where base is a reference with a declared
// contract or interface type.
func (g *Graph) resolveTyped(site lang.Node, current lang.Contract, base lang.Node, name string) Resolution {
	if base.Kind() != lang.KindIdentifier {
		return Resolution{Kind: Unresolved}
	}
	typeName := g.declaredTypeOf(site, current, base.Text())
	if typeName == "" {
		return Resolution{Kind: Unresolved}
	}
	target, ok := g.prog.ContractNamed(typeName)
	if !ok {
		// opaque type (address, uint, unknown import): expected unresolved
		return Resolution{Kind: Unresolved}
	}

	if target.IsInterface() {
		if f, ok := g.uniqueImplementer(target, name); ok {
			return Resolution{Callee: f, Kind: InterfaceDispatch}
		}
		return Resolution{Kind: Unresolved}
	}
	if f, ok := g.hier.MostDerivedImpl(target, name); ok {
		return Resolution{Callee: f, Kind: ParameterDispatch}
	}
	return Resolution{Kind: Unresolved}
}

func (g *Graph) resolveNew(site lang.Node) Resolution {
	target, ok := g.prog.ContractNamed(site.Text())
	if !ok {
		return Resolution{Kind: Unresolved}
	}
	if ctor, ok := target.Constructor(); ok {
		return Resolution{Callee: ctor, Kind: Internal}
	}
	return Resolution{Kind: Unresolved}
}

// declaredTypeOf finds the declared type of an identifier used inside a
// call site: a parameter of the enclosing callable, a local declaration in
// scope, or a state variable of the current contract.
func (g *Graph) declaredTypeOf(site lang.Node, current lang.Contract, ident string) string {
	callable := site.EnclosingCallable()
	if callable.Valid() {
		for _, p := range (lang.Function{Node: callable}).Params() {
			if p.Name() == ident {
				return p.TypeText()
			}
		}
		var typ string
		callable.PreOrder(func(n lang.Node) bool {
			if n.Kind() == lang.KindVarDeclStmt && n.Text() == ident && typ == "" {
				typ = n.ChildOfKind(lang.KindTypeName).Text()
			}
			return typ == ""
		})
		if typ != "" {
			return typ
		}
	}
	// state variables visible through the linearization
	for _, a := range g.hier.Linearization(current) {
		if v, ok := a.StateVarNamed(ident); ok {
			return v.TypeText()
		}
	}
	return ""
}

// uniqueImplementer returns the method when exactly one concrete contract
// in the program implements the interface member; more than one statically
// possible implementer stays unresolved.
func (g *Graph) uniqueImplementer(iface lang.Contract, method string) (lang.Function, bool) {
	var found lang.Function
	count := 0
	for _, c := range g.hier.Contracts() {
		if c.IsInterface() || c.Name() == iface.Name() {
			continue
		}
		if !g.hier.IsAncestor(iface, c) {
			continue
		}
		if f, ok := g.hier.MostDerivedImpl(c, method); ok {
			// several contracts may share one inherited implementation
			if count == 0 || f.Node == found.Node {
				found = f
				count = 1
			} else {
				count++
			}
		}
	}
	if count == 1 {
		return found, true
	}
	return lang.Function{}, false
}

// ResolveModifier resolves a modifier invocation on a function to the
// most-derived modifier declaration in the function's contract
// linearization, the same lookup used for method overrides.
func (g *Graph) ResolveModifier(invocation lang.Node) (lang.Modifier, bool) {
	if m, ok := g.modifiers[invocation]; ok {
		return m, m.Valid()
	}
	contractNode := invocation.EnclosingContract()
	if invocation.Kind() != lang.KindModifierCall || !contractNode.Valid() {
		return lang.Modifier{}, false
	}
	m, ok := g.hier.MostDerivedModifier(lang.Contract{Node: contractNode}, invocation.Text())
	g.modifiers[invocation] = m
	if !ok {
		g.log.Debugf("unresolved modifier %s at %s", invocation.Text(), invocation.Location())
	}
	return m, ok
}
