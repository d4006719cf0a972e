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

// linearizeAll computes the C3 linearization of every contract, most
// derived first. C3 guarantees that every contract precedes its bases and
// that the relative order of bases is preserved, which is what makes
// override resolution deterministic. Contracts on a cycle get an empty
// linearization; a C3 merge conflict falls back to depth-first ancestor
// order so that queries still answer, and the conflict is recorded as a
// fact surfaced through LinearizationConflicts.
func (h *Hierarchy) linearizeAll() {
	h.linear = make([][]int, len(h.contracts))
	memo := map[int][]int{}
	for i := range h.contracts {
		h.linear[i] = h.linearize(i, memo)
	}
}

func (h *Hierarchy) linearize(i int, memo map[int][]int) []int {
	if h.onCycle[i] {
		return nil
	}
	if l, ok := memo[i]; ok {
		return l
	}
	memo[i] = nil // guards recursion on malformed graphs

	bases := h.direct[i]
	var seqs [][]int
	for _, b := range bases {
		lb := h.linearize(b, memo)
		if len(lb) > 0 {
			cp := make([]int, len(lb))
			copy(cp, lb)
			seqs = append(seqs, cp)
		}
	}
	if len(bases) > 0 {
		cp := make([]int, len(bases))
		copy(cp, bases)
		seqs = append(seqs, cp)
	}

	merged, ok := c3Merge(seqs)
	if !ok {
		h.c3Conflicts = append(h.c3Conflicts, h.contracts[i].Name())
		out := h.dfsOrder(i)
		memo[i] = out
		return out
	}
	out := append([]int{i}, merged...)
	memo[i] = out
	return out
}

// c3Merge merges the base linearizations: repeatedly take the head of some
// sequence that appears in no other sequence's tail. Failure to find such a
// head is a merge conflict.
func c3Merge(seqs [][]int) ([]int, bool) {
	var out []int
	work := make([][]int, 0, len(seqs))
	for _, s := range seqs {
		if len(s) > 0 {
			work = append(work, s)
		}
	}
	for len(work) > 0 {
		picked := -1
		for _, s := range work {
			head := s[0]
			inTail := false
			for _, t := range work {
				for _, x := range t[1:] {
					if x == head {
						inTail = true
						break
					}
				}
				if inTail {
					break
				}
			}
			if !inTail {
				picked = head
				break
			}
		}
		if picked < 0 {
			return nil, false
		}
		out = append(out, picked)
		next := work[:0]
		for _, s := range work {
			if s[0] == picked {
				s = s[1:]
			} else {
				// picked never appears in a tail, by selection
				filtered := s[:0]
				for _, x := range s {
					if x != picked {
						filtered = append(filtered, x)
					}
				}
				s = filtered
			}
			if len(s) > 0 {
				next = append(next, s)
			}
		}
		work = next
	}
	return out, true
}

// dfsOrder is the fallback ancestor order: self, then bases depth-first in
// declaration order, deduplicated keeping the first occurrence.
func (h *Hierarchy) dfsOrder(i int) []int {
	var out []int
	seen := map[int]bool{}
	var visit func(j int)
	visit = func(j int) {
		if seen[j] || h.onCycle[j] {
			return
		}
		seen[j] = true
		out = append(out, j)
		for _, b := range h.direct[j] {
			visit(b)
		}
	}
	visit(i)
	return out
}
