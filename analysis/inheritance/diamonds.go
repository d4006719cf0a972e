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

package inheritance

import "github.com/solgraph/solgraph/analysis/lang"

// DiamondConflict records a shared base reachable through two or more
// distinct ancestors of a contract, where a member of that base is
// overridden on several branches and the contract supplies no
// disambiguating override of its own. Conflicts are reported, never
// silently resolved.
type DiamondConflict struct {
	// Derived is the contract at the bottom of the diamond
	Derived string

	// Base is the shared ancestor at the top of the diamond
	Base string

	// Method is the conflicted member
	Method string

	// Candidates are the competing most-derived overrides, none of which
	// dominates the others
	Candidates []lang.Function
}

// DiamondConflicts returns the diamond conflicts of the program.
func (h *Hierarchy) DiamondConflicts() []DiamondConflict {
	return h.diamonds
}

func (h *Hierarchy) findDiamonds() {
	for i := range h.contracts {
		if h.onCycle[i] {
			continue
		}
		h.findDiamondsAt(i)
	}
}

func (h *Hierarchy) findDiamondsAt(i int) {
	derived := h.contracts[i]

	// visit ancestors in linearization order so reports are deterministic
	for _, b := range h.linear[i] {
		if b == i {
			continue
		}
		// a diamond base is reachable through at least two distinct direct
		// bases of the derived contract
		routes := 0
		for _, d := range h.direct[i] {
			if d == b || h.strictAncestors(d)[b] {
				routes++
			}
		}
		if routes < 2 {
			continue
		}

		base := h.contracts[b]
		for _, f := range base.Functions() {
			method := f.Name()
			if _, declared := derived.FunctionNamed(method); declared {
				// the derived contract disambiguates the member itself
				continue
			}
			candidates := h.maximalOverriders(h.linear[i], b, method)
			if len(candidates) >= 2 {
				h.diamonds = append(h.diamonds, DiamondConflict{
					Derived:    derived.Name(),
					Base:       base.Name(),
					Method:     method,
					Candidates: candidates,
				})
			}
		}
	}
}

// maximalOverriders returns the overriders of base's method among the given
// ancestors that are not themselves overridden by another candidate. The
// ancestor list is in linearization order and includes the derived contract
// itself, which is skipped.
func (h *Hierarchy) maximalOverriders(ancestors []int, base int, method string) []lang.Function {
	var overriders []int
	for k, a := range ancestors {
		if k == 0 || a == base {
			continue
		}
		if !h.strictAncestors(a)[base] {
			continue
		}
		if _, ok := h.contracts[a].FunctionNamed(method); ok {
			overriders = append(overriders, a)
		}
	}
	var out []lang.Function
	for _, a := range overriders {
		dominated := false
		for _, other := range overriders {
			if other != a && h.strictAncestors(other)[a] {
				dominated = true
				break
			}
		}
		if !dominated {
			f, _ := h.contracts[a].FunctionNamed(method)
			out = append(out, f)
		}
	}
	return out
}

// strictAncestors returns the set of ancestor indices of i, excluding i.
func (h *Hierarchy) strictAncestors(i int) map[int]bool {
	out := map[int]bool{}
	for _, j := range h.linear[i] {
		if j != i {
			out[j] = true
		}
	}
	return out
}
