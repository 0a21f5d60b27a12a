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

// Package wavelet implements a balanced binary wavelet tree over a byte
// alphabet, reducing character rank/select to bit-vector rank/select.
package wavelet

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/ocfnash/fm-index-go/bitvector"
	"github.com/ocfnash/fm-index-go/fmerr"
	"github.com/ocfnash/fm-index-go/internal"
)

// Tree is a node of the wavelet tree. The root is built owning the full
// alphabet; in-memory children hold slices into the root's alphabet
// array rather than duplicating it. Deserialised nodes each
// carry their own alphabet copy, which is observationally equivalent.
type Tree struct {
	alphabet []byte
	data     *bitvector.BitVector
	left     *Tree
	right    *Tree
}

// New builds a wavelet tree over s, inferring the alphabet by scanning
// s for its distinct bytes.
func New(s []byte) (*Tree, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("cannot construct zero-length WaveletTree: %w", fmerr.ErrLength)
	}

	return newNode(s, buildAlphabet(s))
}

func buildAlphabet(s []byte) []byte {
	var freqs [256]int
	internal.ComputeHistogram(s, freqs[:])

	alphabet := make([]byte, 0, 256)
	for c, n := range freqs {
		if n > 0 {
			alphabet = append(alphabet, byte(c))
		}
	}

	// freqs is already in ascending byte-value order, but Sort keeps
	// this explicit rather than relying on range order.
	slices.Sort(alphabet)
	return alphabet
}

func newNode(s []byte, alphabet []byte) (*Tree, error) {
	this := &Tree{alphabet: alphabet}

	bits := make([]bool, len(s))
	sLeft := make([]byte, 0, len(s))
	sRight := make([]byte, 0, len(s))

	for i, c := range s {
		if this.belongsLeft(c) {
			bits[i] = true
			sLeft = append(sLeft, c)
		} else {
			sRight = append(sRight, c)
		}
	}

	data, err := bitvector.New(bits)
	if err != nil {
		return nil, err
	}
	this.data = data

	if len(alphabet) <= 2 {
		return this, nil
	}

	splitPoint := (len(alphabet) + 1) / 2
	left, err := newNode(sLeft, alphabet[:splitPoint])
	if err != nil {
		return nil, err
	}
	right, err := newNode(sRight, alphabet[splitPoint:])
	if err != nil {
		return nil, err
	}
	this.left = left
	this.right = right
	return this, nil
}

func (this *Tree) isLeaf() bool {
	return this.left == nil
}

// belongsLeft reports whether c belongs to the left subtree: the split
// is unambiguous for any byte in this node's alphabet and yields a
// deterministic tree shape.
func (this *Tree) belongsLeft(c byte) bool {
	mid := (len(this.alphabet)+1)/2 - 1
	return c <= this.alphabet[mid]
}

// Size returns the number of bytes represented at this node.
func (this *Tree) Size() int {
	return this.data.Size()
}

// Alphabet returns the distinct bytes represented at this node, in
// ascending order.
func (this *Tree) Alphabet() []byte {
	return this.alphabet
}

// CumFreq returns the number of bytes strictly less than c in the
// represented sequence.
func (this *Tree) CumFreq(c byte) int {
	if this.isLeaf() {
		if this.belongsLeft(c) {
			return 0
		}
		rk, _ := this.data.Rank1(this.Size() - 1)
		return rk
	}

	if this.belongsLeft(c) {
		return this.left.CumFreq(c)
	}
	return this.left.Size() + this.right.CumFreq(c)
}

// Rank returns the number of occurrences of c in positions [0, i] of
// the represented sequence.
func (this *Tree) Rank(i int, c byte) (int, error) {
	if i < 0 || i >= this.Size() {
		return 0, fmt.Errorf("WaveletTree rank out of range [0, %d): %w", this.Size(), fmerr.ErrOutOfRange)
	}

	return this.rank(i, c), nil
}

func (this *Tree) rank(i int, c byte) int {
	if this.isLeaf() {
		if c != this.alphabet[0] && c != this.alphabet[len(this.alphabet)-1] {
			return 0
		}
		if this.belongsLeft(c) {
			rk, _ := this.data.Rank1(i)
			return rk
		}
		rk, _ := this.data.Rank0(i)
		return rk
	}

	if this.belongsLeft(c) {
		k, _ := this.data.Rank1(i)
		if k == 0 {
			return 0
		}
		return this.left.rank(k-1, c)
	}

	k, _ := this.data.Rank0(i)
	if k == 0 {
		return 0
	}
	return this.right.rank(k-1, c)
}

// Select returns the byte at position i. As in the reference design,
// the name is historical: this is random access by position, not a
// select-by-rank query.
func (this *Tree) Select(i int) (byte, error) {
	if i < 0 || i >= this.Size() {
		return 0, fmt.Errorf("WaveletTree select out of range [0, %d): %w", this.Size(), fmerr.ErrOutOfRange)
	}

	return this.sel(i), nil
}

func (this *Tree) sel(i int) byte {
	if this.isLeaf() {
		bit, _ := this.data.Select(i)
		if bit {
			return this.alphabet[0]
		}
		return this.alphabet[len(this.alphabet)-1]
	}

	bit, _ := this.data.Select(i)
	if bit {
		k, _ := this.data.Rank1(i)
		return this.left.sel(k - 1)
	}
	k, _ := this.data.Rank0(i)
	return this.right.sel(k - 1)
}

// Serialize writes the tree using a fixed layout: alphabet size,
// alphabet bytes, the node's BitVector, then a child count (0 or 2)
// and the children in order.
func (this *Tree) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(this.alphabet))); err != nil {
		return err
	}
	if _, err := w.Write(this.alphabet); err != nil {
		return err
	}
	if err := this.data.Serialize(w); err != nil {
		return err
	}

	if this.isLeaf() {
		_, err := w.Write([]byte{0})
		return err
	}

	if _, err := w.Write([]byte{2}); err != nil {
		return err
	}
	if err := this.left.Serialize(w); err != nil {
		return err
	}
	return this.right.Serialize(w)
}

// Deserialize reads a tree previously written by Serialize. Every node
// produced this way owns its own alphabet copy.
func Deserialize(r io.Reader) (*Tree, error) {
	var alphabetSize uint64
	if err := binary.Read(r, binary.LittleEndian, &alphabetSize); err != nil {
		return nil, err
	}

	alphabet := make([]byte, alphabetSize)
	if _, err := io.ReadFull(r, alphabet); err != nil {
		return nil, err
	}

	data, err := bitvector.Deserialize(r)
	if err != nil {
		return nil, err
	}

	this := &Tree{alphabet: alphabet, data: data}

	var nChildren [1]byte
	if _, err := io.ReadFull(r, nChildren[:]); err != nil {
		return nil, err
	}

	switch nChildren[0] {
	case 0:
		return this, nil
	case 2:
		left, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		right, err := Deserialize(r)
		if err != nil {
			return nil, err
		}
		this.left = left
		this.right = right
		return this, nil
	default:
		return nil, fmt.Errorf("WaveletTree stream has child count %d, want 0 or 2: %w", nChildren[0], fmerr.ErrFormat)
	}
}
