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

// Package bitvector implements an immutable succinct bit vector
// supporting O(1) rank (via a two-level superblock/word structure) and
// O(1) positional bit access.
package bitvector

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ocfnash/fm-index-go/fmerr"
)

const (
	// wordBits is the width of block_t in the reference design.
	wordBits = 64
	// superblockBits must be a multiple of wordBits.
	superblockBits = 512
	wordsPerBlock  = superblockBits / wordBits
)

// BitVector is a fixed bit sequence built once from a caller-supplied
// slice of bools. It never mutates after construction.
type BitVector struct {
	words          []uint64
	superblockRank []uint32
	q              int // number of full superblocks
	r              int // bits left over beyond q full superblocks
}

// New builds a BitVector from bits[0..len(bits)). The zero-length input
// is rejected: a BitVector always represents at least one bit.
func New(bits []bool) (*BitVector, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("cannot construct zero-length BitVector: %w", fmerr.ErrLength)
	}

	m := len(bits)
	bv := &BitVector{
		q: m / superblockBits,
		r: m % superblockBits,
	}
	bv.superblockRank = make([]uint32, bv.q)
	bv.words = make([]uint64, 1+m/wordBits)

	var rk uint64
	var x uint64
	j := 0

	for i, bit := range bits {
		if i%superblockBits == 0 && i > 0 {
			if rk >= uint64(1)<<32 {
				return nil, fmt.Errorf("superblock rank overflow at bit %d: %w", i, fmerr.ErrOverflow)
			}
			bv.superblockRank[i/superblockBits-1] = uint32(rk)
		}

		if i%wordBits == 0 && i > 0 {
			bv.words[j] = x
			j++
			x = 0
		}

		if bit {
			rk++
			x = (x << 1) | 1
		} else {
			x = x << 1
		}
	}

	if m%wordBits != 0 {
		x <<= uint(wordBits - m%wordBits)
	}
	bv.words[j] = x

	return bv, nil
}

// Size returns the number of bits represented.
func (this *BitVector) Size() int {
	return this.r + this.q*superblockBits
}

// Rank1 returns the number of 1-bits in positions [0, i] inclusive.
func (this *BitVector) Rank1(i int) (int, error) {
	if i < 0 || i >= this.Size() {
		return 0, fmt.Errorf("BitVector rank out of range [0, %d): %w", this.Size(), fmerr.ErrOutOfRange)
	}

	qq := i / superblockBits
	i1 := qq * wordsPerBlock
	i2 := i / wordBits
	rr := i % wordBits

	var rk int
	if qq > 0 {
		rk = int(this.superblockRank[qq-1])
	}

	for j := i1; j < i2; j++ {
		rk += popcount(this.words[j])
	}

	rk += popcount(this.words[i2] >> uint(wordBits-rr-1))
	return rk, nil
}

// Rank0 returns the number of 0-bits in positions [0, i] inclusive.
func (this *BitVector) Rank0(i int) (int, error) {
	rk1, err := this.Rank1(i)
	if err != nil {
		return 0, err
	}
	return i + 1 - rk1, nil
}

// Select returns the bit value at position i. Despite the name
// inherited from the reference design this is a plain positional read,
// not a select-by-rank operator.
func (this *BitVector) Select(i int) (bool, error) {
	if i < 0 || i >= this.Size() {
		return false, fmt.Errorf("BitVector select out of range [0, %d): %w", this.Size(), fmerr.ErrOutOfRange)
	}

	qq := i / wordBits
	rr := i % wordBits
	return (this.words[qq]>>uint(wordBits-rr-1))&1 == 1, nil
}

func popcount(x uint64) int {
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}

// Serialize writes the BitVector using a fixed little-endian layout:
// two structural check fields, q, r, the packed words, then the
// superblock ranks.
func (this *BitVector) Serialize(w io.Writer) error {
	fields := []uint64{
		superblockBits,
		wordBits,
		uint64(this.q),
		uint64(this.r),
	}

	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	for _, word := range this.words {
		if err := binary.Write(w, binary.LittleEndian, word); err != nil {
			return err
		}
	}

	for _, rank := range this.superblockRank {
		if err := binary.Write(w, binary.LittleEndian, rank); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize reads a BitVector previously written by Serialize. It
// refuses streams whose structural check fields don't match this
// implementation's superblock/word bit widths.
func Deserialize(r io.Reader) (*BitVector, error) {
	var checkSuperblock, checkWord, q, rRem uint64

	for _, dst := range []*uint64{&checkSuperblock, &checkWord, &q, &rRem} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}

	if checkSuperblock != superblockBits {
		return nil, fmt.Errorf("BitVector stream has superblock size %d, want %d: %w", checkSuperblock, superblockBits, fmerr.ErrFormat)
	}
	if checkWord != wordBits {
		return nil, fmt.Errorf("BitVector stream has word size %d, want %d: %w", checkWord, wordBits, fmerr.ErrFormat)
	}

	bv := &BitVector{q: int(q), r: int(rRem)}
	nWords := 1 + bv.Size()/wordBits
	bv.words = make([]uint64, nWords)

	for i := range bv.words {
		if err := binary.Read(r, binary.LittleEndian, &bv.words[i]); err != nil {
			return nil, err
		}
	}

	bv.superblockRank = make([]uint32, bv.q)
	for i := range bv.superblockRank {
		if err := binary.Read(r, binary.LittleEndian, &bv.superblockRank[i]); err != nil {
			return nil, err
		}
	}

	return bv, nil
}
