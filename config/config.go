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

// Package config holds the optional tunables that sit outside the
// FMIndex's own contract: the default max_context used by find and
// find_lines, and the default line separator. Callers that never load
// a config file get DefaultOptions and never touch this package.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Options holds the tunables that calling code passes into
// fmindex.FMIndex.Find / FindLines. There is no "FMIndex config": the
// index itself takes no options at construction time.
type Options struct {
	MaxContext    int    `json:"max_context,omitempty"`
	LineSeparator string `json:"line_separator,omitempty"`
}

// DefaultOptions returns the defaults used when no config file is
// loaded: max_context=100, sep='\n'.
func DefaultOptions() Options {
	return Options{
		MaxContext:    100,
		LineSeparator: "\n",
	}
}

// Load reads Options from a JSONC (JSON-with-comments) file at path,
// overlaying them onto DefaultOptions. A missing file is not an error:
// Load returns DefaultOptions unchanged, since every option here has a
// sensible default and no file is ever required.
func Load(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Options{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	// Overlay fields use pointers so an explicit "max_context": 0 in the
	// file is distinguishable from the field being absent altogether.
	var overlay struct {
		MaxContext    *int    `json:"max_context"`
		LineSeparator *string `json:"line_separator"`
	}
	if err := json.Unmarshal(standardized, &overlay); err != nil {
		return Options{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	if overlay.MaxContext != nil {
		opts.MaxContext = *overlay.MaxContext
	}
	if overlay.LineSeparator != nil {
		opts.LineSeparator = *overlay.LineSeparator
	}

	if err := validate(opts); err != nil {
		return Options{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return opts, nil
}

// Sep returns the configured line separator as a single byte. It fails
// if LineSeparator isn't exactly one byte: find_lines takes a single
// separator byte, not a string.
func (o Options) Sep() (byte, error) {
	if len(o.LineSeparator) != 1 {
		return 0, fmt.Errorf("line_separator must be exactly one byte, got %q", o.LineSeparator)
	}
	return o.LineSeparator[0], nil
}

func validate(o Options) error {
	if o.MaxContext <= 0 {
		return fmt.Errorf("max_context must be positive, got %d", o.MaxContext)
	}
	if _, err := o.Sep(); err != nil {
		return err
	}
	return nil
}
