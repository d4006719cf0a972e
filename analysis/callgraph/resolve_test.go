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

package callgraph

import (
	"testing"

	"github.com/solgraph/solgraph/analysis/config"
	"github.com/solgraph/solgraph/analysis/inheritance"
	"github.com/solgraph/solgraph/analysis/lang"
)

func newTestGraph(p *lang.Program) *Graph {
	log := config.NewLogGroup(config.NewDefault())
	return NewGraph(p, inheritance.Build(p, log), log)
}

func TestUnqualifiedMostDerived(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Ident("f"))
	base := b.Contract("Base",
		b.Function("f", b.Virtual(), b.Block(b.Return(b.Number("1")))),
		b.Function("g", b.Block(b.ExprStmt(call))))
	derived := b.Contract("Derived", b.Base("Base"),
		b.Function("f", b.Override(), b.Block(b.Return(b.Number("2")))))
	b.File("a.sol", base, derived)
	p := b.Build()
	_ = derived

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind == Unresolved {
		t.Fatal("f() inside Base should resolve")
	}
	// the call lexically sits in Base, so resolution happens in Base's
	// context and binds Base's own f
	if r.Callee.Contract().Name() != "Base" {
		t.Errorf("callee declared in %s, want Base", r.Callee.Contract().Name())
	}
	if r.Kind != Internal {
		t.Errorf("Kind = %v, want Internal", r.Kind)
	}
}

func TestInheritedCall(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Ident("helper"))
	base := b.Contract("Base",
		b.Function("helper", b.Block(b.Return(b.Number("1")))))
	derived := b.Contract("Derived", b.Base("Base"),
		b.Function("run", b.Block(b.ExprStmt(call))))
	b.File("a.sol", base, derived)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind != Inherited {
		t.Fatalf("Kind = %v, want Inherited", r.Kind)
	}
	if r.Callee.Contract().Name() != "Base" {
		t.Errorf("callee declared in %s, want Base", r.Callee.Contract().Name())
	}
}

func TestSuperCall(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Super(), "f"))
	base := b.Contract("Base",
		b.Function("f", b.Virtual(), b.Block(b.Return(b.Number("1")))))
	derived := b.Contract("Derived", b.Base("Base"),
		b.Function("f", b.Override(), b.Block(b.Return(call))))
	b.File("a.sol", base, derived)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind != Super {
		t.Fatalf("Kind = %v, want Super", r.Kind)
	}
	if r.Callee.Contract().Name() != "Base" {
		t.Errorf("super.f() from Derived should bind Base.f, got %s", r.Callee.Contract().Name())
	}
}

func TestThisExternalCall(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.This(), "deposit"))
	c := b.Contract("Vault",
		b.Function("deposit", b.Visibility("public"), b.Block(b.Return(b.Number("1")))),
		b.Function("run", b.Block(b.ExprStmt(call))))
	b.File("a.sol", c)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind != ThisExternal {
		t.Fatalf("Kind = %v, want ThisExternal", r.Kind)
	}
	if r.Callee.Name() != "deposit" {
		t.Errorf("callee = %s, want deposit", r.Callee.Name())
	}
}

func TestInterfaceUniqueImplementer(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Ident("token"), "transfer"), b.Ident("to"))
	iface := b.Interface("IToken",
		b.Function("transfer", b.Visibility("external"), b.Param("to", "address")))
	impl := b.Contract("Token", b.Base("IToken"),
		b.Function("transfer", b.Visibility("external"), b.Override(),
			b.Param("to", "address"), b.Block(b.Return(b.BoolLit(true)))))
	caller := b.Contract("App",
		b.Function("pay",
			b.Param("token", "IToken"),
			b.Param("to", "address"),
			b.Block(b.ExprStmt(call))))
	b.File("a.sol", iface, impl, caller)
	p := b.Build()
	_ = impl

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind != InterfaceDispatch {
		t.Fatalf("Kind = %v, want InterfaceDispatch", r.Kind)
	}
	if r.Callee.Contract().Name() != "Token" {
		t.Errorf("callee declared in %s, want the single implementer Token", r.Callee.Contract().Name())
	}
}

func TestInterfaceTwoImplementersUnresolved(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Ident("token"), "transfer"))
	iface := b.Interface("IToken",
		b.Function("transfer", b.Visibility("external")))
	implA := b.Contract("TokenA", b.Base("IToken"),
		b.Function("transfer", b.Visibility("external"), b.Override(),
			b.Block(b.Return(b.BoolLit(true)))))
	implB := b.Contract("TokenB", b.Base("IToken"),
		b.Function("transfer", b.Visibility("external"), b.Override(),
			b.Block(b.Return(b.BoolLit(false)))))
	caller := b.Contract("App",
		b.Function("pay",
			b.Param("token", "IToken"),
			b.Block(b.ExprStmt(call))))
	b.File("a.sol", iface, implA, implB, caller)
	p := b.Build()

	g := newTestGraph(p)
	if !g.IsUnresolved(call) {
		t.Errorf("two possible implementers should stay unresolved")
	}
}

func TestAddressParamUnresolved(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Ident("target"), "call"), b.Ident("payload"))
	c := b.Contract("Caller",
		b.Function("forward",
			b.Param("target", "address"),
			b.Param("payload", "bytes"),
			b.Block(b.ExprStmt(call))))
	b.File("a.sol", c)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(call)
	// an opaque address is the expected unresolved outcome, not an error
	if r.Kind != Unresolved {
		t.Errorf("Kind = %v, want Unresolved", r.Kind)
	}
	if r.Callee.Valid() {
		t.Errorf("an unresolved site has no callee")
	}
}

func TestParameterDispatchThroughStateVar(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Ident("vault"), "deposit"))
	vault := b.Contract("Vault",
		b.Function("deposit", b.Visibility("public"), b.Block(b.Return(b.Number("1")))))
	user := b.Contract("User",
		b.StateVar("vault", "Vault"),
		b.Function("run", b.Block(b.ExprStmt(call))))
	b.File("a.sol", vault, user)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(call)
	if r.Kind != ParameterDispatch {
		t.Fatalf("Kind = %v, want ParameterDispatch", r.Kind)
	}
	if r.Callee.Contract().Name() != "Vault" {
		t.Errorf("callee declared in %s, want Vault", r.Callee.Contract().Name())
	}
}

func TestResolveIdempotent(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Ident("f"))
	c := b.Contract("C",
		b.Function("f", b.Block(b.Return(b.Number("1")))),
		b.Function("g", b.Block(b.ExprStmt(call))))
	b.File("a.sol", c)
	p := b.Build()

	g := newTestGraph(p)
	first := g.Resolve(call)
	second := g.Resolve(call)
	if first != second {
		t.Errorf("Resolve() should be idempotent: %v vs %v", first, second)
	}
}

func TestResolveNew(t *testing.T) {
	b := lang.NewProgramBuilder()
	newExpr := b.New("Vault", b.Number("1"))
	vault := b.Contract("Vault",
		b.Constructor(b.Param("cap", "uint256"), b.Block()))
	factory := b.Contract("Factory",
		b.Function("make", b.Block(b.ExprStmt(newExpr))))
	b.File("a.sol", vault, factory)
	p := b.Build()

	g := newTestGraph(p)
	r := g.Resolve(newExpr)
	if r.Kind == Unresolved {
		t.Fatal("new Vault(1) should bind the constructor")
	}
	if r.Callee.Node.Kind() != lang.KindConstructor {
		t.Errorf("callee kind = %v, want the constructor", r.Callee.Node.Kind())
	}
}

func TestResolveModifierInherited(t *testing.T) {
	b := lang.NewProgramBuilder()
	inv := b.ModifierCall("onlyOwner")
	base := b.Contract("Ownable",
		b.ModifierDef("onlyOwner", b.Block(b.Placeholder())))
	derived := b.Contract("Vault", b.Base("Ownable"),
		b.Function("withdraw", inv, b.Block(b.Return(b.Number("1")))))
	b.File("a.sol", base, derived)
	p := b.Build()

	g := newTestGraph(p)
	m, ok := g.ResolveModifier(inv)
	if !ok {
		t.Fatal("onlyOwner should resolve through the linearization")
	}
	if m.Contract().Name() != "Ownable" {
		t.Errorf("modifier declared in %s, want Ownable", m.Contract().Name())
	}
}

func TestRecursiveCallables(t *testing.T) {
	b := lang.NewProgramBuilder()
	selfCall := b.CallExpr(b.Ident("loop"))
	pingCall := b.CallExpr(b.Ident("pong"))
	pongCall := b.CallExpr(b.Ident("ping"))
	c := b.Contract("C",
		b.Function("loop", b.Block(b.ExprStmt(selfCall))),
		b.Function("ping", b.Block(b.ExprStmt(pingCall))),
		b.Function("pong", b.Block(b.ExprStmt(pongCall))),
		b.Function("leaf", b.Block(b.Return(b.Number("1")))))
	b.File("a.sol", c)
	p := b.Build()

	g := newTestGraph(p)
	rec := map[string]bool{}
	for f := range g.RecursiveCallables() {
		rec[lang.Function{Node: f}.Name()] = true
	}
	if !rec["loop"] {
		t.Errorf("self-recursive loop should be reported")
	}
	if !rec["ping"] || !rec["pong"] {
		t.Errorf("the ping/pong cycle should be reported")
	}
	if rec["leaf"] {
		t.Errorf("leaf is not recursive")
	}
}
