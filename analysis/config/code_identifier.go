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

package config

import "regexp"

// A CodeIdentifier identifies a program element that is a source, sink or
// barrier. An element can be identified from its contract, its method, a
// state variable name, or a node kind, or any combination of those. Empty
// fields match anything.
type CodeIdentifier struct {
	Contract string `yaml:"contract"`
	Method   string `yaml:"method"`
	Variable string `yaml:"variable"`
	Kind     string `yaml:"kind"`
	// not part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	contractRegex *regexp.Regexp
	methodRegex   *regexp.Regexp
	variableRegex *regexp.Regexp
	kindRegex     *regexp.Regexp
}

// CompileRegexes compiles the strings in the code identifier into regexes.
// It compiles all identifiers into regexes or none: if any field fails to
// compile, matching falls back to string equality on every field.
func CompileRegexes(cid CodeIdentifier) CodeIdentifier {
	contractRegex, err := regexp.Compile(cid.Contract)
	if err != nil {
		return cid
	}
	methodRegex, err := regexp.Compile(cid.Method)
	if err != nil {
		return cid
	}
	variableRegex, err := regexp.Compile(cid.Variable)
	if err != nil {
		return cid
	}
	kindRegex, err := regexp.Compile(cid.Kind)
	if err != nil {
		return cid
	}
	cid.computedRegexs = &codeIdentifierRegex{contractRegex, methodRegex, variableRegex, kindRegex}
	return cid
}

// MatchesOnNonEmptyFields returns true if each of the receiver's non-empty
// fields matches the corresponding field of the candidate element.
func (cid *CodeIdentifier) MatchesOnNonEmptyFields(contract, method, variable, kind string) bool {
	if cid.computedRegexs != nil {
		return (cid.Contract == "" || cid.computedRegexs.contractRegex.MatchString(contract)) &&
			(cid.Method == "" || cid.computedRegexs.methodRegex.MatchString(method)) &&
			(cid.Variable == "" || cid.computedRegexs.variableRegex.MatchString(variable)) &&
			(cid.Kind == "" || cid.computedRegexs.kindRegex.MatchString(kind))
	}
	return (cid.Contract == "" || cid.Contract == contract) &&
		(cid.Method == "" || cid.Method == method) &&
		(cid.Variable == "" || cid.Variable == variable) &&
		(cid.Kind == "" || cid.Kind == kind)
}

// ExistsCid is true if there is some x in a such that f(x) is true.
// O(len(a))
func ExistsCid(a []CodeIdentifier, f func(identifier CodeIdentifier) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}
