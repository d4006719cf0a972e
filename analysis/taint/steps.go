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
	"github.com/solgraph/solgraph/analysis/dataflow"
	"github.com/solgraph/solgraph/analysis/lang"
	"github.com/solgraph/solgraph/internal/funcutil"
)

// builtinTaintSteps returns the taint-only successors of n: edges through
// language builtins that transform a value without preserving it. A hash
// of a tainted value is itself tainted even though no data-flow edge
// relates them.
func builtinTaintSteps(s *dataflow.State, n dataflow.FlowNode) []dataflow.FlowNode {
	if n.Tag() != dataflow.TagArgument {
		return nil
	}
	call := n.Syntax()
	if call.Kind() != lang.KindCall {
		return nil
	}
	if !isTaintTransformerCall(call) {
		return nil
	}
	return []dataflow.FlowNode{dataflow.CallResultNode(call)}
}

// TaintStep reports whether one taint-only step leads from a to b.
func TaintStep(s *dataflow.State, a, b dataflow.FlowNode) bool {
	return funcutil.Contains(builtinTaintSteps(s, a), b)
}

// isTaintTransformerCall recognizes the builtins through which taint
// propagates from arguments to result: hashing, abi encoding and decoding,
// concatenation, modular arithmetic, and a raw call's payload reaching its
// returned data.
func isTaintTransformerCall(call lang.Node) bool {
	name := lang.CalleeName(call)
	base := lang.CalleeBase(call)
	if base.Valid() && base.Kind() == lang.KindIdentifier {
		switch base.Text() {
		case "abi":
			switch name {
			case "encode", "encodePacked", "encodeWithSelector", "encodeWithSignature", "encodeCall", "decode":
				return true
			}
			return false
		case "string", "bytes":
			return name == "concat"
		}
	}
	switch name {
	case "keccak256", "sha256", "ripemd160", "addmod", "mulmod":
		return true
	}
	if lang.IsLowLevelCallName(name) && lang.IsExternalCallExpr(call) {
		// the payload handed to call or delegatecall flows into the
		// returned data
		return true
	}
	return false
}
