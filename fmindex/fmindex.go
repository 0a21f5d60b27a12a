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

// Package fmindex implements the FM-index proper: two wavelet trees
// (over the BWT of the text and over the BWT of its reverse), the
// cumulative-frequency table C, backward search, and the bidirectional
// iterator that walks the indexed text forward or backward through the
// LF-mapping.
//
// It is grounded on original_source/FM-Index/FMIndex.h and FMIndex.cpp:
// construction, backward_search, msd_sort and the const_iterator class
// are ported algorithm-for-algorithm, with C++ exceptions replaced by
// Go error returns and explicit ownership replaced by the wavelet and
// bitvector packages' existing types.
package fmindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ocfnash/fm-index-go/fmerr"
	"github.com/ocfnash/fm-index-go/transform"
	"github.com/ocfnash/fm-index-go/wavelet"
)

const defaultMaxContext = 100

// FMIndex is an immutable, in-memory self-index over a byte string. It
// never stores the indexed text directly; everything is reconstructed
// from WT_fwd, WT_rev and C.
type FMIndex struct {
	wtFwd, wtRev       *wavelet.Tree
	endIdxFwd, endIdxRev int
	cumFreq            map[byte]int
	upperBound         map[byte]int
	size               int
}

// Match pairs a forward-scanning iterator with a backward-scanning one,
// both anchored at the same occurrence of a pattern: After starts at
// the character immediately following the match, Before starts at the
// character immediately preceding it.
type Match struct {
	After  *Iterator
	Before *Iterator
}

// New builds an FMIndex over text. Empty text fails with a length
// error.
func New(text []byte) (*FMIndex, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("cannot construct FMIndex over zero-length text: %w", fmerr.ErrLength)
	}

	lFwd, pFwd, err := transform.Forward(text)
	if err != nil {
		return nil, err
	}
	wtFwd, err := wavelet.New(lFwd)
	if err != nil {
		return nil, err
	}

	reversed := reverseBytes(text)
	lRev, pRev, err := transform.Forward(reversed)
	if err != nil {
		return nil, err
	}
	wtRev, err := wavelet.New(lRev)
	if err != nil {
		return nil, err
	}

	idx := &FMIndex{
		wtFwd:      wtFwd,
		wtRev:      wtRev,
		endIdxFwd:  pFwd,
		endIdxRev:  pRev,
		size:       len(text),
	}
	idx.populateC()
	return idx, nil
}

// populateC derives the cumulative-frequency table from WT_fwd's
// alphabet, along with each key's upper row bound (the next key's
// cumulative frequency, or n for the alphabet maximum) used directly by
// backwardSearch.
func (idx *FMIndex) populateC() {
	alphabet := idx.wtFwd.Alphabet()
	idx.cumFreq = make(map[byte]int, len(alphabet))
	idx.upperBound = make(map[byte]int, len(alphabet))

	for _, c := range alphabet {
		idx.cumFreq[c] = idx.wtFwd.CumFreq(c)
	}
	for i, c := range alphabet {
		if i+1 < len(alphabet) {
			idx.upperBound[c] = idx.cumFreq[alphabet[i+1]]
		} else {
			idx.upperBound[c] = idx.wtFwd.Size()
		}
	}
}

// Size returns n, the length of the indexed text.
func (idx *FMIndex) Size() int {
	return idx.size
}

// Begin returns a forward iterator at text position 0.
func (idx *FMIndex) Begin() (*Iterator, error) {
	return newIterator(idx.wtRev, idx.endIdxRev, idx.cumFreq, 0)
}

// backwardSearch runs the classical FM-index backward search over wt,
// consuming chars in the given order (the caller arranges reversal for
// WT_fwd versus natural order for WT_rev). It returns the half-open row
// interval [lb, ub) of rotations matching the consumed characters, or
// ok == false if no rotation matches.
func (idx *FMIndex) backwardSearch(chars []byte, wt *wavelet.Tree, endIdx int) (lb, ub int, ok bool, err error) {
	first := chars[0]
	base, found := idx.cumFreq[first]
	if !found {
		return 0, 0, false, nil
	}

	lb = base
	ub = idx.upperBound[first]

	for _, c := range chars[1:] {
		cBase, found := idx.cumFreq[c]
		if !found {
			return 0, 0, false, nil
		}

		posLb := lb
		if lb >= endIdx {
			posLb = lb - 1
		}
		rankLb, err := wt.Rank(posLb, c)
		if err != nil {
			return 0, 0, false, err
		}

		posUb := ub
		if ub >= endIdx {
			posUb = ub - 1
		}
		rankUb, err := wt.Rank(posUb, c)
		if err != nil {
			return 0, 0, false, err
		}

		lb = cBase + rankLb
		ub = cBase + rankUb
		if ub <= lb {
			return 0, 0, false, nil
		}
	}

	return lb + 1, ub + 1, true, nil
}

// Count returns the number of (possibly overlapping) occurrences of
// pattern in the indexed text.
func (idx *FMIndex) Count(pattern []byte) (int, error) {
	if len(pattern) == 0 {
		return 0, fmt.Errorf("cannot search for zero-length pattern: %w", fmerr.ErrLength)
	}

	lb, ub, ok, err := idx.backwardSearch(reverseBytes(pattern), idx.wtFwd, idx.endIdxFwd)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return ub - lb, nil
}

// Find locates every occurrence of pattern and returns one Match per
// occurrence, paired and ordered by lexicographic order of the forward
// text starting at that occurrence (up to maxContext bytes of
// look-ahead; ties beyond that remain in arbitrary order).
func (idx *FMIndex) Find(pattern []byte, maxContext int) ([]Match, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("cannot search for zero-length pattern: %w", fmerr.ErrLength)
	}

	lb, ub, ok, err := idx.backwardSearch(reverseBytes(pattern), idx.wtFwd, idx.endIdxFwd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	lbr, _, ok, err := idx.backwardSearch(pattern, idx.wtRev, idx.endIdxRev)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	n := ub - lb

	textIters := make([]*Iterator, n)
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		it, err := newIterator(idx.wtRev, idx.endIdxRev, idx.cumFreq, lbr+i)
		if err != nil {
			return nil, err
		}
		textIters[i] = it
		perm[i] = i
	}

	msdSort(perm, textIters, maxContext)

	matches := make([]Match, n)
	for k := 0; k < n; k++ {
		after, err := newIterator(idx.wtRev, idx.endIdxRev, idx.cumFreq, lbr+perm[k])
		if err != nil {
			return nil, err
		}
		before, err := newIterator(idx.wtFwd, idx.endIdxFwd, idx.cumFreq, lb+k)
		if err != nil {
			return nil, err
		}
		matches[k] = Match{After: after, Before: before}
	}

	return matches, nil
}

// msdSort is a hybrid of most-significant-digit radix sort and a
// comparison sort: it orders perm by the characters text_iters reveal,
// advancing every iterator exactly once per recursion level. Ended
// iterators compare greater than any live byte.
func msdSort(perm []int, iters []*Iterator, depthLeft int) {
	sort.SliceStable(perm, func(a, b int) bool {
		ia, ib := iters[perm[a]], iters[perm[b]]
		if ib.AtEnd() {
			return !ia.AtEnd()
		}
		if ia.AtEnd() {
			return false
		}
		ca, _ := ia.Char()
		cb, _ := ib.Char()
		return ca < cb
	})

	advance := func(idx int) int {
		it := iters[idx]
		if it.AtEnd() {
			return -1
		}
		c, _ := it.Char()
		it.Advance()
		return int(c)
	}

	c := advance(perm[0])
	j := 0

	for i := 1; i < len(perm); i++ {
		cc := advance(perm[i])
		if cc != c {
			if i-j > 1 && depthLeft > 0 {
				msdSort(perm[j:i], iters, depthLeft-1)
			}
			j = i
			c = cc
		}
	}

	if len(perm)-j > 1 && depthLeft > 0 {
		msdSort(perm[j:], iters, depthLeft-1)
	}
}

// FindLines returns, for each occurrence of pattern, the textual line
// containing it: up to maxContext bytes of context on either side,
// bounded by sep, reconstructed purely from the index.
func (idx *FMIndex) FindLines(pattern []byte, sep byte, maxContext int) ([]string, error) {
	matches, err := idx.Find(pattern, maxContext)
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(matches))
	for i, m := range matches {
		before := scanUntil(m.Before, sep, maxContext)
		reverseBytesInPlace(before)
		after := scanUntil(m.After, sep, maxContext)

		var sb strings.Builder
		sb.Write(before)
		sb.Write(pattern)
		sb.Write(after)
		lines[i] = sb.String()
	}

	return lines, nil
}

// scanUntil copies up to maxContext bytes from it, stopping early at
// sep or at end of text. End-of-text during the scan is not an error:
// it quietly ends that side.
func scanUntil(it *Iterator, sep byte, maxContext int) []byte {
	buf := make([]byte, 0, maxContext)

	for n := 0; n < maxContext; n++ {
		if it.AtEnd() {
			break
		}
		c, err := it.Char()
		if err != nil {
			break
		}
		if c == sep {
			break
		}
		buf = append(buf, c)
		if err := it.Advance(); err != nil {
			break
		}
	}

	return buf
}

// Serialize writes the FMIndex using a fixed layout: the forward
// wavelet tree, its end index, the reverse wavelet tree, then its end
// index, with end indices as little-endian u64.
func (idx *FMIndex) Serialize(w io.Writer) error {
	if err := idx.wtFwd.Serialize(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(idx.endIdxFwd)); err != nil {
		return err
	}
	if err := idx.wtRev.Serialize(w); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint64(idx.endIdxRev))
}

// Deserialize reads an FMIndex previously written by Serialize.
func Deserialize(r io.Reader) (*FMIndex, error) {
	wtFwd, err := wavelet.Deserialize(r)
	if err != nil {
		return nil, err
	}
	var endIdxFwd uint64
	if err := binary.Read(r, binary.LittleEndian, &endIdxFwd); err != nil {
		return nil, err
	}

	wtRev, err := wavelet.Deserialize(r)
	if err != nil {
		return nil, err
	}
	var endIdxRev uint64
	if err := binary.Read(r, binary.LittleEndian, &endIdxRev); err != nil {
		return nil, err
	}

	idx := &FMIndex{
		wtFwd:     wtFwd,
		wtRev:     wtRev,
		endIdxFwd: int(endIdxFwd),
		endIdxRev: int(endIdxRev),
		size:      wtFwd.Size(),
	}
	idx.populateC()
	return idx, nil
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func reverseBytesInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
