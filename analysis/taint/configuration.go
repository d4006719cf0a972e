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

package taint

import (
	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/dataflow"
	"github.com/solgraph/solgraph/analysis/lang"
)

// A Configuration defines one flow problem: where flows of interest start,
// where they must not arrive, where they are cut, and which extra edges
// the traversal may follow beyond the data-flow graph proper.
type Configuration interface {
	// IsSource reports whether n starts a flow of interest.
	IsSource(s *dataflow.State, n dataflow.FlowNode) bool

	// IsSink reports whether a flow arriving at n is a finding.
	IsSink(s *dataflow.State, n dataflow.FlowNode) bool

	// IsBarrier reports whether the traversal must stop at n. Nothing is
	// reachable through a barrier.
	IsBarrier(s *dataflow.State, n dataflow.FlowNode) bool

	// ExtraFlowStep returns additional successors of n followed by every
	// traversal, value-preserving and taint-tracking alike.
	ExtraFlowStep(s *dataflow.State, n dataflow.FlowNode) []dataflow.FlowNode

	// ExtraTaintStep returns additional successors of n followed only by
	// taint-tracking traversals.
	ExtraTaintStep(s *dataflow.State, n dataflow.FlowNode) []dataflow.FlowNode

	// MaxDepth bounds the number of call edges a traversal follows. 0
	// defers to the analysis configuration.
	MaxDepth() int
}

// Base is a Configuration with no sources, no sinks, no barriers, no
// extra steps and the default depth. Embed it and override what the
// problem needs.
type Base struct{}

func (Base) IsSource(*dataflow.State, dataflow.FlowNode) bool { return false }
func (Base) IsSink(*dataflow.State, dataflow.FlowNode) bool   { return false }
func (Base) IsBarrier(*dataflow.State, dataflow.FlowNode) bool {
	return false
}
func (Base) ExtraFlowStep(*dataflow.State, dataflow.FlowNode) []dataflow.FlowNode {
	return nil
}
func (Base) ExtraTaintStep(*dataflow.State, dataflow.FlowNode) []dataflow.FlowNode {
	return nil
}
func (Base) MaxDepth() int { return 0 }

// SpecConfiguration interprets a yaml taint problem: every source, sink
// and barrier is a CodeIdentifier matched against the node's contract,
// method, variable and node kind.
type SpecConfiguration struct {
	Base
	Spec *config.TaintSpec
}

// FromSpec wraps one taint-problems entry of the yaml config.
func FromSpec(spec *config.TaintSpec) *SpecConfiguration {
	return &SpecConfiguration{Spec: spec}
}

func (c *SpecConfiguration) IsSource(s *dataflow.State, n dataflow.FlowNode) bool {
	return matchesAny(c.Spec.Sources, n)
}

func (c *SpecConfiguration) IsSink(s *dataflow.State, n dataflow.FlowNode) bool {
	return matchesAny(c.Spec.Sinks, n)
}

func (c *SpecConfiguration) IsBarrier(s *dataflow.State, n dataflow.FlowNode) bool {
	return matchesAny(c.Spec.Barriers, n)
}

func matchesAny(cids []config.CodeIdentifier, n dataflow.FlowNode) bool {
	contract, method, variable, kind := describe(n)
	return config.ExistsCid(cids, func(cid config.CodeIdentifier) bool {
		return cid.MatchesOnNonEmptyFields(contract, method, variable, kind)
	})
}

// describe renders a flow node as the four fields a CodeIdentifier
// matches on.
func describe(n dataflow.FlowNode) (contract, method, variable, kind string) {
	kind = n.Tag().String()
	callable := n.EnclosingCallable()
	if callable.Valid() {
		method = callable.Text()
		if c := callable.EnclosingContract(); c.Valid() {
			contract = (lang.Contract{Node: c}).Name()
		}
	}
	switch n.Tag() {
	case dataflow.TagParameter:
		p, _ := n.AsParameter()
		variable = p.Name()
	case dataflow.TagSsaDef:
		d, _ := n.AsSsaDefinition()
		variable = d.Variable()
	case dataflow.TagStateRead, dataflow.TagStateWrite:
		variable = containerName(n.Syntax())
	case dataflow.TagExpression, dataflow.TagPostUpdate:
		if e := n.Syntax(); e.Kind() == lang.KindIdentifier {
			variable = e.Text()
		} else {
			variable = lang.ContainerBaseName(e)
		}
	}
	return contract, method, variable, kind
}

func containerName(e lang.Node) string {
	if e.Kind() == lang.KindIdentifier {
		return e.Text()
	}
	return lang.ContainerBaseName(e)
}
