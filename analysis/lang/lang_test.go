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

package lang

import "testing"

func buildSingleContract() (*Program, Contract) {
	b := NewProgramBuilder()
	setFlag := b.Function("set",
		b.Visibility("public"),
		b.Param("v", "uint256"),
		b.Block(
			b.ExprStmt(b.Assign(b.Ident("stored"), b.Ident("v"))),
		))
	getFlag := b.Function("get",
		b.Visibility("external"),
		b.Block(b.Return(b.Ident("stored"))))
	helper := b.Function("helper",
		b.Block(b.Return(b.Number("0"))))
	contract := b.Contract("Store",
		b.StateVar("stored", "uint256"),
		b.StateVar("balances", "mapping(address => uint256)"),
		setFlag, getFlag, helper)
	b.File("store.sol", contract)
	p := b.Build()
	return p, Contract{contract}
}

func TestContractViews(t *testing.T) {
	_, c := buildSingleContract()
	if c.Name() != "Store" {
		t.Errorf("Name() = %q, want Store", c.Name())
	}
	if len(c.Functions()) != 3 {
		t.Errorf("Functions() = %d functions, want 3", len(c.Functions()))
	}
	if len(c.StateVars()) != 2 {
		t.Errorf("StateVars() = %d, want 2", len(c.StateVars()))
	}
	v, ok := c.StateVarNamed("balances")
	if !ok {
		t.Fatal("StateVarNamed(balances) not found")
	}
	if !v.IsContainer() {
		t.Errorf("balances should be a container type")
	}
	if s, _ := c.StateVarNamed("stored"); s.IsContainer() {
		t.Errorf("stored should not be a container type")
	}
}

func TestFunctionVisibility(t *testing.T) {
	_, c := buildSingleContract()
	tests := []struct {
		name       string
		visibility string
		external   bool
	}{
		{"set", "public", true},
		{"get", "external", true},
		{"helper", "internal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := c.FunctionNamed(tt.name)
			if !ok {
				t.Fatalf("FunctionNamed(%s) not found", tt.name)
			}
			if got := f.Visibility(); got != tt.visibility {
				t.Errorf("Visibility() = %q, want %q", got, tt.visibility)
			}
			if got := f.IsExternal(); got != tt.external {
				t.Errorf("IsExternal() = %v, want %v", got, tt.external)
			}
		})
	}
}

func TestEnclosingCallable(t *testing.T) {
	_, c := buildSingleContract()
	f, _ := c.FunctionNamed("set")
	body := f.Body()
	if !body.Valid() {
		t.Fatal("set has no body")
	}
	var ident Node
	body.PreOrder(func(n Node) bool {
		if n.Kind() == KindIdentifier && n.Text() == "v" {
			ident = n
		}
		return true
	})
	if !ident.Valid() {
		t.Fatal("identifier v not found")
	}
	if got := ident.EnclosingCallable(); got != f.Node {
		t.Errorf("EnclosingCallable() = %v, want the set function", got)
	}
	if got := ident.EnclosingContract(); got != c.Node {
		t.Errorf("EnclosingContract() = %v, want Store", got)
	}
}

func TestOperatorClassification(t *testing.T) {
	tests := []struct {
		op         string
		preserving bool
		boolean    bool
	}{
		{"+", true, false},
		{"-", true, false},
		{"*", true, false},
		{"<<", true, false},
		{"&", true, false},
		{"==", false, true},
		{"<", false, true},
		{"&&", false, true},
		{"!", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			if got := IsValuePreservingOp(tt.op); got != tt.preserving {
				t.Errorf("IsValuePreservingOp(%q) = %v, want %v", tt.op, got, tt.preserving)
			}
			if got := IsComparisonOrLogicalOp(tt.op); got != tt.boolean {
				t.Errorf("IsComparisonOrLogicalOp(%q) = %v, want %v", tt.op, got, tt.boolean)
			}
		})
	}
}

func TestAmbientRead(t *testing.T) {
	b := NewProgramBuilder()
	sender := b.Member(b.Ident("msg"), "sender")
	origin := b.Member(b.Ident("tx"), "origin")
	other := b.Member(b.Ident("token"), "balanceOf")
	body := b.Block(b.ExprStmt(sender), b.ExprStmt(origin), b.ExprStmt(other))
	f := b.Function("f", body)
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	if name, ok := AmbientRead(sender); !ok || name != "msg.sender" {
		t.Errorf("AmbientRead(msg.sender) = %q, %v", name, ok)
	}
	if name, ok := AmbientRead(origin); !ok || name != "tx.origin" {
		t.Errorf("AmbientRead(tx.origin) = %q, %v", name, ok)
	}
	if _, ok := AmbientRead(other); ok {
		t.Errorf("AmbientRead(token.balanceOf) should not classify")
	}
}

func TestContainerBaseName(t *testing.T) {
	b := NewProgramBuilder()
	access := b.IndexOf(b.IndexOf(b.Ident("m"), b.Ident("i")), b.Ident("j"))
	b.File("a.sol", b.Contract("C", b.Function("f", b.Block(b.ExprStmt(access)))))
	b.Build()
	if got := ContainerBaseName(access); got != "m" {
		t.Errorf("ContainerBaseName(m[i][j]) = %q, want m", got)
	}
}

func TestCalleeHelpers(t *testing.T) {
	b := NewProgramBuilder()
	direct := b.CallExpr(b.Ident("f"), b.Number("1"))
	member := b.CallExpr(b.Member(b.Ident("token"), "transfer"), b.Ident("to"))
	b.File("a.sol", b.Contract("C", b.Function("g", b.Block(
		b.ExprStmt(direct), b.ExprStmt(member)))))
	b.Build()

	if got := CalleeName(direct); got != "f" {
		t.Errorf("CalleeName(f(1)) = %q", got)
	}
	if got := CalleeName(member); got != "transfer" {
		t.Errorf("CalleeName(token.transfer(to)) = %q", got)
	}
	if got := len(CallArgs(member)); got != 1 {
		t.Errorf("CallArgs(token.transfer(to)) = %d args, want 1", got)
	}
	if !IsExternalCallExpr(member) {
		t.Errorf("token.transfer(to) should be external")
	}
	if IsExternalCallExpr(direct) {
		t.Errorf("f(1) should not be external")
	}
}

func TestBuiltinNamespaceCallsAreNotExternal(t *testing.T) {
	b := NewProgramBuilder()
	encode := b.CallExpr(b.Member(b.Ident("abi"), "encode"), b.Ident("x"))
	concat := b.CallExpr(b.Member(b.Ident("string"), "concat"), b.Ident("a"), b.Ident("b"))
	external := b.CallExpr(b.Member(b.Ident("target"), "call"), b.Ident("payload"))
	b.File("a.sol", b.Contract("C", b.Function("g", b.Block(
		b.ExprStmt(encode), b.ExprStmt(concat), b.ExprStmt(external)))))
	b.Build()

	if IsExternalCallExpr(encode) {
		t.Errorf("abi.encode(x) should not be an external dispatch")
	}
	if IsExternalCallExpr(concat) {
		t.Errorf("string.concat(a, b) should not be an external dispatch")
	}
	if !IsExternalCallExpr(external) {
		t.Errorf("target.call(payload) should be an external dispatch")
	}
}

func TestFileStamping(t *testing.T) {
	b := NewProgramBuilder()
	c1 := b.Contract("A")
	b.File("a.sol", c1)
	c2 := b.Contract("B")
	b.File("b.sol", c2)
	b.Build()

	if got := c1.Location().File; got != "a.sol" {
		t.Errorf("A located in %q, want a.sol", got)
	}
	if got := c2.Location().File; got != "b.sol" {
		t.Errorf("B located in %q, want b.sol", got)
	}
}
