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

package fmindex

import (
	"fmt"

	"github.com/ocfnash/fm-index-go/fmerr"
	"github.com/ocfnash/fm-index-go/wavelet"
)

// Iterator is a bidirectional text iterator anchored somewhere in the
// indexed text. It aliases its owning FMIndex: it carries only a
// wavelet-tree pointer, an end index, a shared cumulative-frequency
// table and a row, never a copy of the tree itself. Its direction is
// implied by which wavelet tree it was built over: an iterator over
// the reverse-BWT tree scans T forward; one over the forward-BWT tree
// scans T backward.
type Iterator struct {
	wt     *wavelet.Tree
	endIdx int
	cumFreq map[byte]int
	row    int
	c      byte
}

// newIterator builds an iterator at row i of the hypothetical
// sorted-rotation matrix whose last column is wt. i ranges over
// [0, wt.Size()]; i == endIdx marks the end-of-text position.
func newIterator(wt *wavelet.Tree, endIdx int, cumFreq map[byte]int, row int) (*Iterator, error) {
	if row < 0 || row > wt.Size() {
		return nil, fmt.Errorf("iterator row %d out of range [0, %d]: %w", row, wt.Size(), fmerr.ErrOutOfRange)
	}

	it := &Iterator{wt: wt, endIdx: endIdx, cumFreq: cumFreq, row: row}
	if it.AtEnd() {
		return it, nil
	}

	pos, err := bwtPos(row, endIdx)
	if err != nil {
		return nil, err
	}
	c, err := wt.Select(pos)
	if err != nil {
		return nil, err
	}
	it.c = c
	return it, nil
}

// AtEnd reports whether the iterator has reached the end-of-text row.
func (it *Iterator) AtEnd() bool {
	return it.row == it.endIdx
}

// Char returns the character at the iterator's current position. It
// fails with an overflow error if the iterator is at end.
func (it *Iterator) Char() (byte, error) {
	if it.AtEnd() {
		return 0, fmt.Errorf("read from ended iterator: %w", fmerr.ErrOverflow)
	}
	return it.c, nil
}

// Advance moves the iterator one step via the LF-mapping. It fails with
// an overflow error if the iterator is already at end.
func (it *Iterator) Advance() error {
	if it.AtEnd() {
		return fmt.Errorf("advance past end of iterator: %w", fmerr.ErrOverflow)
	}

	base, ok := it.cumFreq[it.c]
	if !ok {
		return fmt.Errorf("character %q missing from cumulative-frequency table: %w", it.c, fmerr.ErrOutOfRange)
	}

	pos, err := bwtPos(it.row, it.endIdx)
	if err != nil {
		return err
	}
	rk, err := it.wt.Rank(pos, it.c)
	if err != nil {
		return err
	}

	it.row = base + rk
	if it.AtEnd() {
		return nil
	}

	nextPos, err := bwtPos(it.row, it.endIdx)
	if err != nil {
		return err
	}
	c, err := it.wt.Select(nextPos)
	if err != nil {
		return err
	}
	it.c = c
	return nil
}

// Equal reports structural equality: same underlying tree, same end
// index and same row. Two iterators built from the same FMIndex always
// share the same cumFreq table, so it is not compared separately.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.wt == other.wt && it.endIdx == other.endIdx && it.row == other.row
}

// bwtPos maps a row of the hypothetical n+1-row sorted-rotation matrix
// to a position in the n-byte BWT string stored in the wavelet tree,
// skipping the end-of-text row.
func bwtPos(i, endIdx int) (int, error) {
	if i == endIdx {
		return 0, fmt.Errorf("no BWT position corresponds to row end_idx %d: %w", endIdx, fmerr.ErrOutOfRange)
	}
	if i > endIdx {
		return i - 1, nil
	}
	return i, nil
}
