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

// Package ssagraph computes a static-single-assignment view of one
// callable: one Definition per syntactic write (parameter, assignment,
// declaration) plus Phi definitions inserted at control-flow merges where
// more than one definition reaches. Reaching definitions are computed by
// iterated forward dataflow over the control-flow graph until convergence.
//
// The invariant the rest of the engine relies on: every variable use
// resolves to exactly one direct reaching definition, possibly a phi.
package ssagraph
