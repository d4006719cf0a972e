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

// Contract is a view over a contract, interface or library declaration node.
type Contract struct {
	Node
}

// Function is a view over a function_definition or constructor_definition node.
type Function struct {
	Node
}

// Modifier is a view over a modifier_definition node.
type Modifier struct {
	Node
}

// Parameter is a view over a parameter node.
type Parameter struct {
	Node
}

// StateVariable is a view over a state_variable_declaration node.
type StateVariable struct {
	Node
}

// Contracts returns every contract-like declaration of the program in file
// and source order.
func (p *Program) Contracts() []Contract {
	var out []Contract
	for _, root := range p.Roots() {
		for _, c := range root.Children() {
			if c.Kind().IsContractLike() {
				out = append(out, Contract{c})
			}
		}
	}
	return out
}

// ContractNamed returns the contract-like declaration with the given name.
func (p *Program) ContractNamed(name string) (Contract, bool) {
	for _, c := range p.Contracts() {
		if c.Name() == name {
			return c, true
		}
	}
	return Contract{}, false
}

// Name returns the declared name of the contract.
func (c Contract) Name() string {
	return c.Text()
}

// IsInterface reports whether the declaration is an interface.
func (c Contract) IsInterface() bool {
	return c.Kind() == KindInterface
}

// IsLibrary reports whether the declaration is a library.
func (c Contract) IsLibrary() bool {
	return c.Kind() == KindLibrary
}

// IsMarkedAbstract reports whether the contract carries the abstract keyword.
func (c Contract) IsMarkedAbstract() bool {
	return c.ChildOfKind(KindAbstract).Valid()
}

// BaseNames returns the names of the direct bases in declaration order.
func (c Contract) BaseNames() []string {
	var out []string
	for _, ch := range c.Children() {
		if ch.Kind() == KindInheritance {
			out = append(out, ch.Text())
		}
	}
	return out
}

// Functions returns the functions declared directly in the contract,
// excluding the constructor.
func (c Contract) Functions() []Function {
	var out []Function
	for _, ch := range c.Children() {
		if ch.Kind() == KindFunction {
			out = append(out, Function{ch})
		}
	}
	return out
}

// Constructor returns the constructor declared in the contract, if any.
func (c Contract) Constructor() (Function, bool) {
	ch := c.ChildOfKind(KindConstructor)
	if ch.Valid() {
		return Function{ch}, true
	}
	return Function{}, false
}

// FunctionNamed returns the function with the given name declared directly
// in the contract.
func (c Contract) FunctionNamed(name string) (Function, bool) {
	for _, f := range c.Functions() {
		if f.Name() == name {
			return f, true
		}
	}
	return Function{}, false
}

// Modifiers returns the modifiers declared directly in the contract.
func (c Contract) Modifiers() []Modifier {
	var out []Modifier
	for _, ch := range c.Children() {
		if ch.Kind() == KindModifierDef {
			out = append(out, Modifier{ch})
		}
	}
	return out
}

// ModifierNamed returns the modifier with the given name declared directly
// in the contract.
func (c Contract) ModifierNamed(name string) (Modifier, bool) {
	for _, m := range c.Modifiers() {
		if m.Name() == name {
			return m, true
		}
	}
	return Modifier{}, false
}

// StateVars returns the state variables declared directly in the contract.
func (c Contract) StateVars() []StateVariable {
	var out []StateVariable
	for _, ch := range c.Children() {
		if ch.Kind() == KindStateVariable {
			out = append(out, StateVariable{ch})
		}
	}
	return out
}

// StateVarNamed returns the state variable with the given name declared
// directly in the contract.
func (c Contract) StateVarNamed(name string) (StateVariable, bool) {
	for _, v := range c.StateVars() {
		if v.Name() == name {
			return v, true
		}
	}
	return StateVariable{}, false
}

// Name returns the declared name of the function ("constructor" for constructors).
func (f Function) Name() string {
	return f.Text()
}

// Visibility returns the declared visibility. A missing visibility child
// defaults to "internal".
func (f Function) Visibility() string {
	v := f.ChildOfKind(KindVisibility)
	if !v.Valid() || v.Text() == "" {
		return "internal"
	}
	return v.Text()
}

// IsExternal reports whether the function is callable from outside the
// contract (external or public visibility).
func (f Function) IsExternal() bool {
	v := f.Visibility()
	return v == "external" || v == "public"
}

// IsVirtual reports whether the function carries the virtual marker, or is
// declared in an interface (interface members are implicitly virtual).
func (f Function) IsVirtual() bool {
	if f.ChildOfKind(KindVirtual).Valid() {
		return true
	}
	encl := f.EnclosingContract()
	return encl.Valid() && encl.Kind() == KindInterface
}

// HasOverrideSpec reports whether the function carries an override specifier.
func (f Function) HasOverrideSpec() bool {
	return f.ChildOfKind(KindOverride).Valid()
}

// Params returns the declared parameters in order.
func (f Function) Params() []Parameter {
	var out []Parameter
	for _, ch := range f.Children() {
		if ch.Kind() == KindParameter {
			out = append(out, Parameter{ch})
		}
	}
	return out
}

// Body returns the body block; the node is invalid for an unimplemented
// function (interface member or abstract declaration).
func (f Function) Body() Node {
	return f.ChildOfKind(KindBlock)
}

// IsImplemented reports whether the function has a body.
func (f Function) IsImplemented() bool {
	return f.Body().Valid()
}

// ModifierInvocations returns the modifier_invocation nodes on the function.
func (f Function) ModifierInvocations() []Node {
	var out []Node
	for _, ch := range f.Children() {
		if ch.Kind() == KindModifierCall {
			out = append(out, ch)
		}
	}
	return out
}

// Contract returns the contract the function is declared in.
func (f Function) Contract() Contract {
	return Contract{f.EnclosingContract()}
}

// Name returns the declared name of the modifier.
func (m Modifier) Name() string {
	return m.Text()
}

// Params returns the modifier's parameters in order.
func (m Modifier) Params() []Parameter {
	var out []Parameter
	for _, ch := range m.Children() {
		if ch.Kind() == KindParameter {
			out = append(out, Parameter{ch})
		}
	}
	return out
}

// Body returns the modifier's body block.
func (m Modifier) Body() Node {
	return m.ChildOfKind(KindBlock)
}

// Contract returns the contract the modifier is declared in.
func (m Modifier) Contract() Contract {
	return Contract{m.EnclosingContract()}
}

// Name returns the parameter name.
func (p Parameter) Name() string {
	return p.Text()
}

// TypeText returns the declared type of the parameter; empty when the type
// is absent.
func (p Parameter) TypeText() string {
	return p.ChildOfKind(KindTypeName).Text()
}

// Position returns the zero-based index of the parameter in its callable's
// parameter list, or -1 if detached.
func (p Parameter) Position() int {
	parent := p.Parent()
	if !parent.Valid() {
		return -1
	}
	i := 0
	for _, ch := range parent.Children() {
		if ch.Kind() == KindParameter {
			if ch == p.Node {
				return i
			}
			i++
		}
	}
	return -1
}

// Name returns the state variable name.
func (v StateVariable) Name() string {
	return v.Text()
}

// TypeText returns the declared type; empty when absent.
func (v StateVariable) TypeText() string {
	return v.ChildOfKind(KindTypeName).Text()
}

// IsContainer reports whether the variable is a mapping or array type, the
// types subject to whole-container aliasing.
func (v StateVariable) IsContainer() bool {
	return IsContainerType(v.TypeText())
}

// Initializer returns the initializing expression, if any.
func (v StateVariable) Initializer() Node {
	for _, ch := range v.Children() {
		if ch.Kind().IsExpression() {
			return ch
		}
	}
	return Node{}
}

// Contract returns the declaring contract.
func (v StateVariable) Contract() Contract {
	return Contract{v.EnclosingContract()}
}
