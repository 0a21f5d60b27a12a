/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package transform

import "sort"

// suffixArray orders the suffixes of data by rank-doubling: start with
// every suffix ranked by its first byte, then repeatedly double the
// comparison window (first k bytes, then 2k, then 4k, ...) until every
// suffix has a distinct rank. A suffix shorter than the current window
// compares as if padded with a byte smaller than any real one, which is
// exactly the tie-break a missing end-of-text sentinel needs: it makes
// the suffix that runs out first sort first whenever the two share a
// common prefix. Runs in O(n log^2 n): log n doubling rounds, each
// paying a full sort over n suffixes.
func suffixArray(data []byte) []int {
	n := len(data)
	sa := make([]int, n)
	rank := make([]int, n)
	for i := range sa {
		sa[i] = i
		rank[i] = int(data[i])
	}

	rankAt := func(i int) int {
		if i >= n {
			return -1
		}
		return rank[i]
	}

	nextRank := make([]int, n)

	for window := 1; ; window *= 2 {
		lessPair := func(a, b int) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			return rankAt(a+window) < rankAt(b+window)
		}

		sort.Slice(sa, func(i, j int) bool { return lessPair(sa[i], sa[j]) })

		nextRank[sa[0]] = 0
		for i := 1; i < n; i++ {
			nextRank[sa[i]] = nextRank[sa[i-1]]
			if lessPair(sa[i-1], sa[i]) {
				nextRank[sa[i]]++
			}
		}
		copy(rank, nextRank)

		if rank[sa[n-1]] == n-1 || window >= n {
			break
		}
	}

	return sa
}

// suffixArrayToBWT derives the Burrows-Wheeler permutation and the
// 0-based primary index from a suffix array built over text (n >= 2).
// The conceptual sorted-rotation matrix has n+1 rows: row 0 is the
// empty suffix, whose preceding byte is text[n-1], and row i+1 is the
// suffix starting at sa[i], whose preceding byte is text[sa[i]-1].
// The row whose suffix starts at 0 (the whole text) has no preceding
// byte; it becomes the primary index and is left out of L, so L holds
// n bytes and callers skip that row, exactly as FMIndex's endIdx does.
func suffixArrayToBWT(text []byte, sa []int) ([]byte, int) {
	n := len(text)
	l := make([]byte, 0, n)
	l = append(l, text[n-1])
	primaryIndex := 0

	for i, start := range sa {
		if start == 0 {
			primaryIndex = i + 1
			continue
		}
		l = append(l, text[start-1])
	}

	return l, primaryIndex
}
