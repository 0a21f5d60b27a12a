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

// Package transform implements the Burrows-Wheeler Transform primitive
// that FMIndex builds on: a pure function from a byte string to its BWT
// permutation and primary index, plus the matching inverse used by
// reconstruction tests.
//
// Forward is built on a suffix array of the text (suffixArray, in
// suffixarray.go): sorting suffixes gives the same row order as sorting
// full rotations once a missing byte is treated as smaller than any
// real one, so no rotation buffer or explicit sentinel byte is needed.
// Inverse walks the LF-mapping implied by L and the primary index
// directly; it is independent of how L was produced. Multi-chunk
// parallel inversion is not supported: there is exactly one chunk.
package transform

import (
	"fmt"

	"github.com/ocfnash/fm-index-go/fmerr"
)

const alphabetSize = 256

// Forward computes the Burrows-Wheeler Transform of text. It returns
// the permuted bytes L and the 0-based primary index: the row of the
// conceptual sorted-rotation matrix whose "previous character" does not
// exist (the end-of-text sentinel row used throughout this module as
// endIdx). Zero-length input returns (nil, 0, nil); this function never
// fails on an empty string — callers that require non-empty text
// (FMIndex) enforce that themselves.
func Forward(text []byte) ([]byte, int, error) {
	n := len(text)

	if n == 0 {
		return nil, 0, nil
	}
	if n == 1 {
		return append([]byte(nil), text...), 1, nil
	}

	sa := suffixArray(text)
	l, primaryIndex := suffixArrayToBWT(text, sa)

	return l, primaryIndex, nil
}

// Inverse reconstructs the original text from a BWT permutation l and
// its 0-based primary index, the inverse of Forward. It is independent
// of how l was produced: only the LF-mapping implied by l and
// primaryIndex is used.
//
// The rows are those of the (n+1)-row matrix Forward describes: row 0
// is the empty suffix and primaryIndex is the row left out of l, so
// row r reads l[r] below primaryIndex and l[r-1] above it. The
// LF-mapping sends a row holding byte c at l[i] to
// 1 + C[c] + rank(c, i), where C[c] is the count of bytes less than c
// anywhere in l (firstOccurrence below) and rank(c, i) is how many
// times c has already appeared in l[0:i] (occurrenceRank below,
// computed once in a single left-to-right pass). Walking that mapping
// from row 0, one row at a time, reconstructs the text from its last
// byte to its first. A primaryIndex outside [1, n], or one the walk
// reaches early, is rejected.
func Inverse(l []byte, primaryIndex int) ([]byte, error) {
	n := len(l)

	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		return append([]byte(nil), l...), nil
	}
	if primaryIndex < 1 || primaryIndex > n {
		return nil, fmt.Errorf("invalid BWT primary index %d for length %d: %w", primaryIndex, n, fmerr.ErrOutOfRange)
	}

	var counts [alphabetSize]int
	for _, c := range l {
		counts[c]++
	}

	var firstOccurrence [alphabetSize]int
	total := 0
	for c, count := range counts {
		firstOccurrence[c] = total
		total += count
	}

	occurrenceRank := make([]int, n)
	var seen [alphabetSize]int
	for i, c := range l {
		occurrenceRank[i] = seen[c]
		seen[c]++
	}

	out := make([]byte, n)
	row := 0
	for i := n - 1; i >= 0; i-- {
		if row == primaryIndex {
			return nil, fmt.Errorf("BWT primary index %d is inconsistent with L: %w", primaryIndex, fmerr.ErrOutOfRange)
		}
		pos := row
		if row > primaryIndex {
			pos = row - 1
		}
		out[i] = l[pos]
		row = 1 + firstOccurrence[l[pos]] + occurrenceRank[pos]
	}

	return out, nil
}
