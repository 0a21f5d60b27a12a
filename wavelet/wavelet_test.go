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

package wavelet

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ocfnash/fm-index-go/fmerr"
)

var corpus = [][]byte{
	[]byte("mississippi"),
	[]byte("a"),
	[]byte("aaaaa"),
	[]byte("this\nshould\ncause\ntrouble"),
	[]byte("SIX.MIXED.PIXIES.SIFT.SIXTY.PIXIE.DUST.BOXES"),
	[]byte("\x00abcde\x00hello\xABthere"),
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, fmerr.ErrLength)
}

func TestSizeAndAlphabet(t *testing.T) {
	for _, s := range corpus {
		tree, err := New(s)
		require.NoError(t, err)
		require.Equal(t, len(s), tree.Size())

		want := distinctSorted(s)
		if diff := cmp.Diff(want, tree.Alphabet()); diff != "" {
			t.Errorf("alphabet mismatch for %q (-want +got):\n%s", s, diff)
		}
	}
}

func TestSelectMatchesInput(t *testing.T) {
	for _, s := range corpus {
		tree, err := New(s)
		require.NoError(t, err)

		for i, want := range s {
			got, err := tree.Select(i)
			require.NoError(t, err)
			require.Equalf(t, want, got, "Select(%d) on %q", i, s)
		}
	}
}

func TestRankMatchesNaiveCount(t *testing.T) {
	for _, s := range corpus {
		tree, err := New(s)
		require.NoError(t, err)

		for _, c := range tree.Alphabet() {
			naive := 0
			for i := range s {
				if s[i] == c {
					naive++
				}
				got, err := tree.Rank(i, c)
				require.NoError(t, err)
				require.Equalf(t, naive, got, "Rank(%d, %q) on %q", i, c, s)
			}
		}
	}
}

func TestCumFreqMatchesNaiveCount(t *testing.T) {
	for _, s := range corpus {
		tree, err := New(s)
		require.NoError(t, err)

		for _, c := range tree.Alphabet() {
			naive := 0
			for _, b := range s {
				if b < c {
					naive++
				}
			}
			require.Equalf(t, naive, tree.CumFreq(c), "CumFreq(%q) on %q", c, s)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	tree, err := New([]byte("ab"))
	require.NoError(t, err)

	_, err = tree.Rank(2, 'a')
	require.ErrorIs(t, err, fmerr.ErrOutOfRange)

	_, err = tree.Select(2)
	require.ErrorIs(t, err, fmerr.ErrOutOfRange)
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, s := range corpus {
		tree, err := New(s)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, tree.Serialize(&buf))

		back, err := Deserialize(&buf)
		require.NoError(t, err)
		require.Equal(t, tree.Size(), back.Size())

		for i, want := range s {
			got, err := back.Select(i)
			require.NoError(t, err)
			require.Equalf(t, want, got, "round-tripped Select(%d) on %q", i, s)
		}
	}
}

func distinctSorted(s []byte) []byte {
	seen := map[byte]bool{}
	var out []byte
	for _, c := range s {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
