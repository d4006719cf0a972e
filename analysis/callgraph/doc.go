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

// Package callgraph resolves call sites and modifier invocations to their
// callee declarations, using the inheritance hierarchy's linearizations.
//
// Resolution is a first-match cascade: explicit parent calls, then the
// most-derived override visible in the current contract, then external
// self-dispatch through this, then interface- and parameter-typed
// dispatch, and finally Unresolved. Unresolved is an expected outcome for
// opaque addresses and dynamic dispatch, not an error. Resolution results
// are cached per call site, so resolving twice is idempotent.
package callgraph
