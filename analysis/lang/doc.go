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

// Package lang implements the syntax access layer the analyses are built on.
//
// A Program is an immutable arena of syntax nodes for one already-parsed
// Solidity program. Node kinds follow the grammar's names
// (contract_declaration, function_definition, binary_expression, ...).
// Nodes expose their kind, parent, ordered children, leaf text and source
// location; everything else in this repository is derived from those five
// facts.
//
// The external parser is out of scope here: a ProgramBuilder assembles
// programs in memory, and is what both the parser adapter and the tests use.
// Optional syntax (visibility, argument lists, else branches) is represented
// by absence; accessors return documented defaults instead of failing.
package lang
