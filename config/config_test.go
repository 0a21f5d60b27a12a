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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.jsonc"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if opts != DefaultOptions() {
		t.Errorf("opts = %+v, want defaults %+v", opts, DefaultOptions())
	}
}

func TestLoadJSONCWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmindex.jsonc")
	writeFile(t, path, `{
  // look-ahead depth for the find() permutation sort
  "max_context": 40,
}`)

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if opts.MaxContext != 40 {
		t.Errorf("MaxContext = %d, want 40", opts.MaxContext)
	}
	if opts.LineSeparator != "\n" {
		t.Errorf("LineSeparator = %q, want default %q", opts.LineSeparator, "\n")
	}
}

func TestLoadOverridesLineSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmindex.jsonc")
	writeFile(t, path, `{"line_separator": " "}`)

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sep, err := opts.Sep()
	if err != nil {
		t.Fatalf("Sep: %v", err)
	}
	if sep != ' ' {
		t.Errorf("Sep() = %q, want ' '", sep)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmindex.jsonc")
	writeFile(t, path, `{"max_context": }`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadRejectsNonPositiveMaxContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmindex.jsonc")
	writeFile(t, path, `{"max_context": 0}`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for max_context 0")
	}
}

func TestLoadRejectsMultiByteLineSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmindex.jsonc")
	writeFile(t, path, `{"line_separator": "ab"}`)

	if _, err := Load(path); err == nil {
		t.Error("expected error for multi-byte line_separator")
	}
}

func TestSepRejectsEmptyString(t *testing.T) {
	o := Options{MaxContext: 1, LineSeparator: ""}
	if _, err := o.Sep(); err == nil {
		t.Error("expected error for empty LineSeparator")
	}
}
