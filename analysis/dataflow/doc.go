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

// Package dataflow implements the data-flow node model and the flow step
// relations the taint engine traverses.
//
// FlowNode is a closed sum over the nine node varieties the analyses
// consume; its identity is structural (tag plus payload), so two FlowNode
// values built independently for the same program element compare equal
// and can key memoization tables.
//
// Local steps stay within one callable: assignment right-hand side to the
// written place, SSA definition to use, sub-expression to enclosing
// expression (gated by operator classification), return expression to
// return node. Jump steps cross callables along resolved call and
// modifier edges: argument to parameter and callee return to call result.
// Storage aliasing is deliberately name-based: a write to any element of a
// named container is visible to every read of that container in the same
// contract, a conservative over-approximation that avoids unsound
// omissions at the cost of index precision.
//
// The State value aggregates the per-program facts (hierarchy, call
// resolution) and the lazily built per-callable graphs; it is the explicit
// context threaded through every step function.
package dataflow
