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
	"fmt"
	"testing"

	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/dataflow"
	"github.com/solgraph/solgraph/analysis/lang"
)

func newTestState(p *lang.Program) *dataflow.State {
	return dataflow.NewState(p, config.NewDefault(), config.NewLogGroup(config.NewDefault()))
}

// buildWithdraw builds the classic withdraw shape: balance checked, value
// sent through a low-level call, balance zeroed after the call.
func buildWithdraw(guarded bool) (*lang.Program, lang.Node, lang.Node) {
	b := lang.NewProgramBuilder()
	check := b.ExprStmt(b.CallExpr(b.Ident("require"),
		b.Binary(">=",
			b.IndexOf(b.Ident("balances"), b.Member(b.Ident("msg"), "sender")),
			b.Ident("amount"))))
	call := b.CallExpr(
		b.Member(b.Member(b.Ident("msg"), "sender"), "call"),
		b.Ident("amount"))
	send := b.DeclStmt("ok", "bool", call)
	writeTarget := b.IndexOf(b.Ident("balances"), b.Member(b.Ident("msg"), "sender"))
	clear := b.ExprStmt(b.Assign(writeTarget, b.Number("0")))

	parts := []lang.Node{b.Param("amount", "uint256")}
	if guarded {
		parts = append(parts, b.ModifierCall("nonReentrant"))
	}
	parts = append(parts, b.Block(check, send, clear))
	withdraw := b.Function("withdraw", parts...)

	contractParts := []lang.Node{
		b.StateVar("balances", "mapping(address => uint256)"),
		withdraw,
	}
	if guarded {
		contractParts = append(contractParts,
			b.StateVar("locked", "bool"),
			b.ModifierDef("nonReentrant", b.Block(
				b.ExprStmt(b.CallExpr(b.Ident("require"), b.Unary("!", b.Ident("locked")))),
				b.ExprStmt(b.Assign(b.Ident("locked"), b.BoolLit(true))),
				b.Placeholder(),
				b.ExprStmt(b.Assign(b.Ident("locked"), b.BoolLit(false))),
			)))
	}
	b.File("vault.sol", b.Contract("Vault", contractParts...))
	return b.Build(), call, writeTarget
}

func TestReentrancyDetected(t *testing.T) {
	p, call, writeTarget := buildWithdraw(false)
	s := newTestState(p)
	cfg := Reentrancy()

	res := ReachableFrom(s, dataflow.CallResultNode(call), cfg)
	if !res.Contains(dataflow.StateWriteNode(writeTarget)) {
		t.Fatal("the post-call balance write should be reachable from the external call")
	}
	findings := Analyze(s, cfg)
	if len(findings) == 0 {
		t.Fatal("Analyze should report the reentrancy window")
	}
	f := findings[0]
	if f.Source != dataflow.CallResultNode(call) {
		t.Errorf("finding source = %v, want the external call result", f.Source)
	}
	if f.Sink.Tag() != dataflow.TagStateWrite {
		t.Errorf("finding sink tag = %v, want a state write", f.Sink.Tag())
	}
}

func TestReentrancyGuardSuppresses(t *testing.T) {
	p, call, writeTarget := buildWithdraw(true)
	s := newTestState(p)
	cfg := Reentrancy()

	res := ReachableFrom(s, dataflow.CallResultNode(call), cfg)
	if res.Contains(dataflow.StateWriteNode(writeTarget)) {
		t.Errorf("a nonReentrant modifier should suppress the window")
	}
	// the locked flag writes inside the guarded contract are still sinks,
	// but nothing connects the call to them
	for _, f := range Analyze(s, cfg) {
		if f.Source == dataflow.CallResultNode(call) && f.Sink == dataflow.StateWriteNode(writeTarget) {
			t.Errorf("Analyze should not pair the call with the balance write")
		}
	}
}

func TestBuiltinCallIsNotExternalSource(t *testing.T) {
	b := lang.NewProgramBuilder()
	encode := b.CallExpr(b.Member(b.Ident("abi"), "encode"), b.Ident("x"))
	f := b.Function("pack",
		b.Param("x", "uint256"),
		b.Visibility("public"),
		b.Block(
			b.ExprStmt(b.Binary("+", b.Ident("total"), b.Number("1"))),
			b.DeclStmt("blob", "bytes", encode),
			b.ExprStmt(b.Assign(b.Ident("total"), b.Number("0"))),
		))
	b.File("a.sol", b.Contract("Codec",
		b.StateVar("total", "uint256"), f))
	s := newTestState(b.Build())

	if kind, ok := SourceKindOf(s, dataflow.CallResultNode(encode)); ok {
		t.Errorf("abi.encode result classified as source kind %q, want none", kind)
	}
	for _, finding := range Analyze(s, Reentrancy()) {
		if finding.Source == dataflow.CallResultNode(encode) {
			t.Errorf("a builtin encode call must not seed a reentrancy window")
		}
	}
}

func TestRemoteSourceKinds(t *testing.T) {
	b := lang.NewProgramBuilder()
	sender := b.Member(b.Ident("msg"), "sender")
	extCall := b.CallExpr(b.Member(b.Ident("token"), "balanceOf"), sender)
	f := b.Function("f",
		b.Visibility("external"),
		b.Param("token", "address"),
		b.Block(b.DeclStmt("bal", "uint256", extCall)))
	internal := b.Function("g",
		b.Param("x", "uint256"),
		b.Block(b.Return(b.Ident("x"))))
	b.File("a.sol", b.Contract("C", f, internal))
	s := newTestState(b.Build())

	extParam := lang.Function{Node: f}.Params()[0]
	if kind, ok := SourceKindOf(s, dataflow.ParamNode(extParam)); !ok || kind != SourceParameter {
		t.Errorf("an external function's parameter is a parameter source, got %v %v", kind, ok)
	}
	intParam := lang.Function{Node: internal}.Params()[0]
	if _, ok := SourceKindOf(s, dataflow.ParamNode(intParam)); ok {
		t.Errorf("an internal function's parameter is not remote input")
	}
	if kind, ok := SourceKindOf(s, dataflow.ExprNode(sender)); !ok || kind != SourceAmbient {
		t.Errorf("msg.sender is an ambient source, got %v %v", kind, ok)
	}
	if kind, ok := SourceKindOf(s, dataflow.CallResultNode(extCall)); !ok || kind != SourceExternalReturn {
		t.Errorf("an external call result is an external-return source, got %v %v", kind, ok)
	}
}

func TestUntrustedInputReachesCriticalSink(t *testing.T) {
	b := lang.NewProgramBuilder()
	payloadUse := b.Ident("payload")
	call := b.CallExpr(b.Member(b.Ident("target"), "call"), payloadUse)
	f := b.Function("forward",
		b.Visibility("external"),
		b.Param("target", "address"),
		b.Param("payload", "bytes"),
		b.Block(b.ExprStmt(call)))
	b.File("a.sol", b.Contract("Relay", f))
	s := newTestState(b.Build())

	cfg := RemoteSources(nil)
	payload := lang.Function{Node: f}.Params()[1]
	if !HasTaintFlow(s, dataflow.ParamNode(payload), dataflow.ArgumentNode(call, 0), cfg) {
		t.Fatal("the external payload should reach the low-level call argument")
	}
	findings := Analyze(s, cfg)
	found := false
	for _, fd := range findings {
		if fd.Source == dataflow.ParamNode(payload) && fd.Sink == dataflow.ArgumentNode(call, 0) {
			found = true
		}
	}
	if !found {
		t.Errorf("Analyze should pair the payload parameter with the call argument, got %v", findings)
	}
}

func TestTaintThroughHash(t *testing.T) {
	b := lang.NewProgramBuilder()
	arg := b.Ident("secret")
	hash := b.CallExpr(b.Ident("keccak256"), arg)
	f := b.Function("f",
		b.Param("secret", "bytes"),
		b.Block(b.DeclStmt("h", "bytes32", hash)))
	b.File("a.sol", b.Contract("C", f))
	s := newTestState(b.Build())

	cfg := CriticalSinks()
	if !HasTaintFlow(s, dataflow.ExprNode(arg), dataflow.CallResultNode(hash), cfg) {
		t.Errorf("taint should cross keccak256 from argument to result")
	}
	if HasFlow(s, dataflow.ExprNode(arg), dataflow.CallResultNode(hash), cfg) {
		t.Errorf("plain value flow should not cross the hash")
	}
	if !TaintStep(s, dataflow.ArgumentNode(hash, 0), dataflow.CallResultNode(hash)) {
		t.Errorf("argument to result of keccak256 should be a single taint step")
	}
}

type barrierOnVariable struct {
	Base
	variable string
}

func (c barrierOnVariable) IsBarrier(s *dataflow.State, n dataflow.FlowNode) bool {
	d, ok := n.AsSsaDefinition()
	return ok && d.Variable() == c.variable
}

func TestBarrierBlocksDownstream(t *testing.T) {
	b := lang.NewProgramBuilder()
	vUse := b.Ident("v")
	declA := b.DeclStmt("a", "uint256", vUse)
	aUse := b.Ident("a")
	declB := b.DeclStmt("b", "uint256", aUse)
	f := b.Function("f",
		b.Param("v", "uint256"),
		b.Block(declA, declB))
	b.File("a.sol", b.Contract("C", f))
	s := newTestState(b.Build())

	param := lang.Function{Node: f}.Params()[0]
	open := Base{}
	if !HasFlow(s, dataflow.ParamNode(param), dataflow.ExprNode(aUse), open) {
		t.Fatal("without a barrier, v flows through a to its use")
	}
	blocked := barrierOnVariable{variable: "a"}
	if HasFlow(s, dataflow.ParamNode(param), dataflow.ExprNode(aUse), blocked) {
		t.Errorf("a barrier on a's definition should cut everything downstream")
	}
	// the flow up to the barrier is unaffected
	if !HasFlow(s, dataflow.ParamNode(param), dataflow.ExprNode(vUse), blocked) {
		t.Errorf("the barrier should not cut the flow upstream of it")
	}
}

func TestDepthCeilingTruncates(t *testing.T) {
	b := lang.NewProgramBuilder()
	const chain = 30
	var funcs [chain]lang.Node
	last := b.Function(fmt.Sprintf("step%d", chain-1),
		b.Param("x", "uint256"),
		b.Block(b.Return(b.Ident("x"))))
	funcs[chain-1] = last
	for i := chain - 2; i >= 0; i-- {
		funcs[i] = b.Function(fmt.Sprintf("step%d", i),
			b.Param("x", "uint256"),
			b.Block(b.ExprStmt(
				b.CallExpr(b.Ident(fmt.Sprintf("step%d", i+1)), b.Ident("x")))))
	}
	var parts []lang.Node
	for i := chain - 1; i >= 0; i-- {
		parts = append(parts, funcs[i])
	}
	b.File("chain.sol", b.Contract("C", parts...))
	s := newTestState(b.Build())

	first := lang.Function{Node: funcs[0]}.Params()[0]
	res := ReachableFrom(s, dataflow.ParamNode(first), Base{})
	if !res.Truncated {
		t.Fatal("a call chain deeper than the ceiling should truncate")
	}
	if len(res.Reached) == 0 {
		t.Fatal("a truncated traversal still returns what it reached")
	}
	lastParam := lang.Function{Node: funcs[chain-1]}.Params()[0]
	if res.Contains(dataflow.ParamNode(lastParam)) {
		t.Errorf("the end of the chain lies beyond the depth ceiling")
	}
	nearParam := lang.Function{Node: funcs[5]}.Params()[0]
	if !res.Contains(dataflow.ParamNode(nearParam)) {
		t.Errorf("callables within the ceiling should be reached")
	}
}

func TestRecursionTerminates(t *testing.T) {
	b := lang.NewProgramBuilder()
	recCall := b.CallExpr(b.Ident("loop"), b.Binary("-", b.Ident("n"), b.Number("1")))
	f := b.Function("loop",
		b.Param("n", "uint256"),
		b.Block(
			b.If(b.Binary(">", b.Ident("n"), b.Number("0")),
				b.Block(b.ExprStmt(recCall)))))
	b.File("a.sol", b.Contract("C", f))
	s := newTestState(b.Build())

	param := lang.Function{Node: f}.Params()[0]
	// self-recursion revisits the same finite node set; the traversal must
	// terminate and still report the recursive argument flow
	res := ReachableFrom(s, dataflow.ParamNode(param), Base{})
	if !res.Contains(dataflow.ArgumentNode(recCall, 0)) {
		t.Errorf("n should flow into the recursive call's argument")
	}
}

func TestSpecConfigurationMatching(t *testing.T) {
	b := lang.NewProgramBuilder()
	use := b.Ident("price")
	f := b.Function("update",
		b.Param("price", "uint256"),
		b.Block(b.Return(use)))
	b.File("a.sol", b.Contract("Oracle", f))
	s := newTestState(b.Build())

	spec := config.TaintSpec{
		Sources: []config.CodeIdentifier{
			{Contract: "Oracle", Method: "update", Variable: "price", Kind: "param"},
		},
	}
	for i := range spec.Sources {
		spec.Sources[i] = config.CompileRegexes(spec.Sources[i])
	}
	cfg := FromSpec(&spec)
	param := lang.Function{Node: f}.Params()[0]
	if !cfg.IsSource(s, dataflow.ParamNode(param)) {
		t.Errorf("the yaml identifier should match the parameter node")
	}
	if cfg.IsSource(s, dataflow.ExprNode(use)) {
		t.Errorf("the identifier's kind field should reject expression nodes")
	}
}
