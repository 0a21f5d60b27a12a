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

package bitvector

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocfnash/fm-index-go/fmerr"
)

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, fmerr.ErrLength)
}

func TestSizeMatchesInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for _, m := range []int{1, 2, 63, 64, 65, 511, 512, 513, 1537} {
		bits := randomBits(rnd, m)
		bv, err := New(bits)
		require.NoError(t, err)
		require.Equal(t, m, bv.Size())
	}
}

func TestRank1MatchesNaiveSum(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for _, m := range []int{1, 17, 512, 513, 1024, 2049} {
		bits := randomBits(rnd, m)
		bv, err := New(bits)
		require.NoError(t, err)

		naive := 0
		for i := 0; i < m; i++ {
			if bits[i] {
				naive++
			}
			got, err := bv.Rank1(i)
			require.NoError(t, err)
			require.Equalf(t, naive, got, "rank1(%d)", i)
		}
	}
}

func TestRank0PlusRank1(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))
	bits := randomBits(rnd, 1000)
	bv, err := New(bits)
	require.NoError(t, err)

	for i := 0; i < len(bits); i++ {
		r1, err := bv.Rank1(i)
		require.NoError(t, err)
		r0, err := bv.Rank0(i)
		require.NoError(t, err)
		require.Equal(t, i+1, r0+r1)
	}
}

func TestSelectMatchesInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	bits := randomBits(rnd, 777)
	bv, err := New(bits)
	require.NoError(t, err)

	for i, want := range bits {
		got, err := bv.Select(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestOutOfRange(t *testing.T) {
	bv, err := New([]bool{true, false, true})
	require.NoError(t, err)

	_, err = bv.Rank1(3)
	require.ErrorIs(t, err, fmerr.ErrOutOfRange)

	_, err = bv.Select(3)
	require.ErrorIs(t, err, fmerr.ErrOutOfRange)
}

func TestSerializeRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(321))

	for _, m := range []int{1, 64, 513, 4097} {
		bits := randomBits(rnd, m)
		bv, err := New(bits)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, bv.Serialize(&buf))

		back, err := Deserialize(&buf)
		require.NoError(t, err)
		require.Equal(t, bv.Size(), back.Size())

		for i := 0; i < m; i++ {
			want, err := bv.Select(i)
			require.NoError(t, err)
			got, err := back.Select(i)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestDeserializeRejectsBadHeader(t *testing.T) {
	bv, err := New([]bool{true, false})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bv.Serialize(&buf))
	corrupted := buf.Bytes()
	corrupted[0] = 0xFF

	_, err = Deserialize(bytes.NewReader(corrupted))
	require.ErrorIs(t, err, fmerr.ErrFormat)
}

func randomBits(rnd *rand.Rand, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rnd.Intn(2) == 1
	}
	return bits
}
