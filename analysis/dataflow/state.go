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

package dataflow

import (
	"fmt"

	"github.com/solgraph/solgraph/analysis/callgraph"
	"github.com/solgraph/solgraph/analysis/cfg"
	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/inheritance"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/analysis/ssagraph"
)

// State holds the derived views of one program: the inheritance hierarchy
// and call resolution built once, and per-callable control-flow and SSA
// graphs built on demand and cached. It is the analysis context threaded
// through every traversal; there is no ambient global state.
type State struct {
	// Program is the analyzed program
	Program *lang.Program

	// Logger is used during the analysis to control output
	Logger *config.LogGroup

	// Config is the analysis configuration
	Config *config.Config

	// Hierarchy is the inheritance view, shared read-only
	Hierarchy *inheritance.Hierarchy

	// Calls resolves call sites and modifier invocations
	Calls *callgraph.Graph

	cfgs map[lang.Node]*cfg.Graph
	ssas map[lang.Node]*ssagraph.Info

	callersOf map[lang.Node][]lang.Node

	// notes records per-callable analysis failures; a failure in one
	// callable never prevents analysis of the rest of the program
	notes []string
}

// NewState builds the program-wide views. Per-callable graphs are built
// lazily by CfgOf and SsaOf.
func NewState(p *lang.Program, cfgFile *config.Config, logger *config.LogGroup) *State {
	if cfgFile == nil {
		cfgFile = config.NewDefault()
	}
	h := inheritance.Build(p, logger)
	return &State{
		Program:   p,
		Logger:    logger,
		Config:    cfgFile,
		Hierarchy: h,
		Calls:     callgraph.NewGraph(p, h, logger),
		cfgs:      map[lang.Node]*cfg.Graph{},
		ssas:      map[lang.Node]*ssagraph.Info{},
	}
}

// CfgOf returns the control-flow graph of the callable, building and
// caching it on first use. A construction failure is recorded as a note
// and yields the minimal entry-exit graph so that the rest of the program
// still analyzes.
func (s *State) CfgOf(callable lang.Node) *cfg.Graph {
	if g, ok := s.cfgs[callable]; ok {
		return g
	}
	g := s.buildCfg(callable)
	s.cfgs[callable] = g
	return g
}

func (s *State) buildCfg(callable lang.Node) (g *cfg.Graph) {
	defer func() {
		if r := recover(); r != nil {
			note := fmt.Sprintf("cfg construction failed for %s: %v",
				lang.DisplayString(callable), r)
			s.notes = append(s.notes, note)
			s.Logger.Warnf("%s", note)
			// minimal entry-exit graph stands in for the failed callable
			g = cfg.Build(lang.Node{})
		}
	}()
	return cfg.Build(callable)
}

// SsaOf returns the SSA view of the callable, building and caching it on
// first use.
func (s *State) SsaOf(callable lang.Node) *ssagraph.Info {
	if info, ok := s.ssas[callable]; ok {
		return info
	}
	info := ssagraph.Build(s.CfgOf(callable))
	s.ssas[callable] = info
	return info
}

// Notes returns the per-callable analysis failures recorded so far.
func (s *State) Notes() []string {
	return s.notes
}

// MaxDepth returns the configured traversal bound.
func (s *State) MaxDepth() int {
	if s.Config != nil && s.Config.MaxDepth > 0 {
		return s.Config.MaxDepth
	}
	return config.DefaultMaxDepth
}

// CallersOf returns the call sites across the program that resolve to the
// given callable. The reverse index is built once on first use.
func (s *State) CallersOf(callable lang.Node) []lang.Node {
	if s.callersOf == nil {
		s.callersOf = map[lang.Node][]lang.Node{}
		for _, caller := range s.Calls.Callables() {
			for _, site := range callgraph.CallSitesIn(caller) {
				r := s.Calls.Resolve(site)
				if r.Kind != callgraph.Unresolved {
					s.callersOf[r.Callee.Node] = append(s.callersOf[r.Callee.Node], site)
				}
			}
		}
	}
	return s.callersOf[callable]
}

// StateVarNames returns the names of the state variables visible in the
// contract through its linearization, mapped to their declarations.
func (s *State) StateVarNames(contract lang.Contract) map[string]lang.StateVariable {
	out := map[string]lang.StateVariable{}
	for _, a := range s.Hierarchy.Linearization(contract) {
		for _, v := range a.StateVars() {
			if _, ok := out[v.Name()]; !ok {
				out[v.Name()] = v
			}
		}
	}
	return out
}

// CallablesOfContract returns the callables whose bodies execute in the
// contract's context: its own declarations plus inherited ones through the
// linearization.
func (s *State) CallablesOfContract(contract lang.Contract) []lang.Node {
	var out []lang.Node
	for _, a := range s.Hierarchy.Linearization(contract) {
		for _, f := range a.Functions() {
			out = append(out, f.Node)
		}
		if ctor, ok := a.Constructor(); ok {
			out = append(out, ctor.Node)
		}
		for _, m := range a.Modifiers() {
			out = append(out, m.Node)
		}
	}
	return out
}
