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

// Package fmerr defines the error kinds shared by bitvector, wavelet,
// transform and fmindex. Every package wraps one of these sentinels with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is instead of parsing message text.
package fmerr

import "errors"

var (
	// ErrLength reports a zero-length text or pattern where the
	// contract requires at least one byte.
	ErrLength = errors.New("length error")

	// ErrOutOfRange reports a rank/select/iterator access past the end
	// of a bit vector, wavelet tree, or FM-index row space.
	ErrOutOfRange = errors.New("out of range")

	// ErrOverflow reports a superblock rank counter that would exceed
	// the 32-bit storage width, or an advance past an ended iterator.
	ErrOverflow = errors.New("overflow error")

	// ErrFormat reports a deserialised stream whose structural check
	// fields do not match what this implementation expects.
	ErrFormat = errors.New("format error")
)
