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

package cfg

import (
	"testing"

	"github.com/solgraph/solgraph/analysis/lang"
)

func TestBuildEmptyBody(t *testing.T) {
	b := lang.NewProgramBuilder()
	f := b.Function("f", b.Block())
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	if !g.Reachable(g.Entry(), g.Exit()) {
		t.Errorf("exit should be reachable from entry")
	}
	if got := len(g.DeadNodes()); got != 0 {
		t.Errorf("DeadNodes() = %d, want 0", got)
	}
}

func TestBuildNoBody(t *testing.T) {
	b := lang.NewProgramBuilder()
	f := b.Function("f", b.Visibility("external"))
	b.File("a.sol", b.Interface("I", f))
	b.Build()

	g := Build(f)
	if !g.Reachable(g.Entry(), g.Exit()) {
		t.Errorf("an unimplemented callable still has entry->exit")
	}
}

func TestIfJoin(t *testing.T) {
	b := lang.NewProgramBuilder()
	thenStmt := b.ExprStmt(b.Assign(b.Ident("x"), b.Number("1")))
	elseStmt := b.ExprStmt(b.Assign(b.Ident("x"), b.Number("2")))
	after := b.ExprStmt(b.Ident("x"))
	f := b.Function("f", b.Block(
		b.IfElse(b.Ident("c"), b.Block(thenStmt), b.Block(elseStmt)),
		after,
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	thenPoint, ok := g.PointFor(thenStmt)
	if !ok {
		t.Fatal("then statement has no point")
	}
	elsePoint, ok := g.PointFor(elseStmt)
	if !ok {
		t.Fatal("else statement has no point")
	}
	afterPoint, ok := g.PointFor(after)
	if !ok {
		t.Fatal("statement after the if has no point")
	}
	if !g.Reachable(thenPoint, afterPoint) || !g.Reachable(elsePoint, afterPoint) {
		t.Errorf("both branches should reach the join")
	}
	if g.Reachable(thenPoint, elsePoint) {
		t.Errorf("branches should not reach each other")
	}
}

func TestThenBeforeElseOrder(t *testing.T) {
	b := lang.NewProgramBuilder()
	cond := b.Ident("c")
	thenStmt := b.ExprStmt(b.Ident("a"))
	elseStmt := b.ExprStmt(b.Ident("b"))
	f := b.Function("f", b.Block(
		b.IfElse(cond, b.Block(thenStmt), b.Block(elseStmt)),
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	condPoint, _ := g.PointFor(cond)
	succs := g.Succs(condPoint)
	if len(succs) != 2 {
		t.Fatalf("condition has %d successors, want 2", len(succs))
	}
	if succs[0].Syntax() != thenStmt || succs[1].Syntax() != elseStmt {
		t.Errorf("successor order should be then branch before else branch")
	}
}

func TestWhileLoop(t *testing.T) {
	b := lang.NewProgramBuilder()
	cond := b.Binary("<", b.Ident("i"), b.Number("10"))
	bodyStmt := b.ExprStmt(b.Update("++", b.Ident("i")))
	after := b.ExprStmt(b.Ident("i"))
	f := b.Function("f", b.Block(
		b.While(cond, b.Block(bodyStmt)),
		after,
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	condPoint, _ := g.PointFor(cond)
	bodyPoint, _ := g.PointFor(bodyStmt)
	if !g.Reachable(bodyPoint, condPoint) {
		t.Errorf("loop body should reach the condition through the back edge")
	}
	if !g.Reachable(condPoint, bodyPoint) {
		t.Errorf("condition should reach the body")
	}
	// body-before-exit successor order at the condition
	succs := g.Succs(condPoint)
	if len(succs) < 2 || succs[0].Syntax() != bodyStmt {
		t.Errorf("loop body should come before loop exit in successor order")
	}
	afterPoint, _ := g.PointFor(after)
	if !g.Reachable(condPoint, afterPoint) {
		t.Errorf("loop exit should be reachable")
	}
}

func TestBreakContinueTargets(t *testing.T) {
	b := lang.NewProgramBuilder()
	brk := b.Break()
	cont := b.Continue()
	cond := b.Ident("c")
	inner := b.Ident("d")
	f := b.Function("f", b.Block(
		b.While(cond, b.Block(
			b.If(inner, b.Block(brk)),
			cont,
		)),
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	brkPoint, _ := g.PointFor(brk)
	contPoint, _ := g.PointFor(cont)
	condPoint, _ := g.PointFor(cond)
	if g.Reachable(brkPoint, condPoint) {
		t.Errorf("break should leave the loop, not return to the condition")
	}
	if !g.Reachable(contPoint, condPoint) {
		t.Errorf("continue should return to the condition")
	}
	if !g.Reachable(brkPoint, g.Exit()) {
		t.Errorf("break should flow toward the exit")
	}
}

func TestDeadAfterReturn(t *testing.T) {
	b := lang.NewProgramBuilder()
	ret := b.Return(b.Number("1"))
	dead := b.ExprStmt(b.Ident("x"))
	f := b.Function("f", b.Block(ret, dead))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	deadPoint, ok := g.PointFor(dead)
	if !ok {
		t.Fatal("dead statement has no point")
	}
	if g.ReachableFromEntry(deadPoint) {
		t.Errorf("the statement after return should be unreachable")
	}
	found := false
	for _, n := range g.DeadNodes() {
		if n == deadPoint {
			found = true
		}
	}
	if !found {
		t.Errorf("DeadNodes() should contain the statement after return")
	}
}

func TestRevertEndsFlow(t *testing.T) {
	b := lang.NewProgramBuilder()
	rev := b.Revert(lang.Node{})
	dead := b.ExprStmt(b.Ident("x"))
	f := b.Function("f", b.Block(
		b.If(b.Ident("bad"), b.Block(rev)),
		dead,
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	revPoint, _ := g.PointFor(rev)
	deadPoint, _ := g.PointFor(dead)
	if g.Reachable(revPoint, deadPoint) {
		t.Errorf("revert should not fall through")
	}
	if !g.ReachableFromEntry(deadPoint) {
		t.Errorf("the false branch of the if still reaches the next statement")
	}
}

func TestTryCatchBranches(t *testing.T) {
	b := lang.NewProgramBuilder()
	call := b.CallExpr(b.Member(b.Ident("token"), "transfer"), b.Ident("to"))
	okStmt := b.ExprStmt(b.Ident("ok"))
	catchStmt := b.ExprStmt(b.Ident("failed"))
	f := b.Function("f", b.Block(
		b.Try(call, b.Block(okStmt), b.Catch(b.Block(catchStmt))),
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	g := Build(f)
	callPoint, ok := g.PointFor(call)
	if !ok {
		t.Fatal("attempted call has no point")
	}
	okPoint, _ := g.PointFor(okStmt)
	catchPoint, _ := g.PointFor(catchStmt)
	if !g.Reachable(callPoint, okPoint) {
		t.Errorf("the try body should be reachable from the call")
	}
	if !g.Reachable(callPoint, catchPoint) {
		t.Errorf("the catch clause should be reachable from the call")
	}
}

func TestForLoopTerminates(t *testing.T) {
	b := lang.NewProgramBuilder()
	bodyStmt := b.ExprStmt(b.Ident("x"))
	f := b.Function("f", b.Block(
		b.For(lang.Node{}, lang.Node{}, lang.Node{}, b.Block(bodyStmt)),
	))
	b.File("a.sol", b.Contract("C", f))
	b.Build()

	// an infinite loop must still produce a finite graph with working
	// reachability queries
	g := Build(f)
	bodyPoint, ok := g.PointFor(bodyStmt)
	if !ok {
		t.Fatal("loop body has no point")
	}
	if !g.ReachableFromEntry(bodyPoint) {
		t.Errorf("loop body should be reachable")
	}
	if !g.Reachable(bodyPoint, bodyPoint) {
		t.Errorf("the body should reach itself around the loop")
	}
}
