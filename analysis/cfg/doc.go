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

// Package cfg builds the per-callable control-flow graph.
//
// A Graph has one synthetic entry and one synthetic exit node plus one
// program point per statement and per control-deciding expression
// (conditions, loop updates). Successor order is deterministic: the then
// branch precedes the else branch, the loop body precedes the loop exit.
// Constructs the builder does not model (inline assembly, unknown
// statements) become sequential opaque points with implicit fallthrough;
// construction never fails on them.
package cfg
