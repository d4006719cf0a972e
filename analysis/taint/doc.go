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

// Package taint answers reachability questions over the data-flow graph
// built by the dataflow package. A Configuration names the sources, sinks
// and barriers of one problem; the traversal follows local and jump steps,
// plus taint-specific steps for value transformers such as hashing and abi
// encoding, stops at barriers, and bounds the number of call edges it
// follows. Results hit at the ceiling are returned truncated rather than
// discarded.
//
// The catalog in this package provides ready-made configurations for the
// common problems: untrusted remote input reaching critical operations,
// and state writes reachable after an external call (reentrancy). Custom
// problems can be expressed programmatically or loaded from the yaml
// config's taint-problems section.
package taint
