// Package testsupport loads fixtures and golden files for package tests.
package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadFixture returns the contents of path, failing the test when it cannot
// be read.
func LoadFixture(tb testing.TB, path string) string {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("load fixture %s: %v", path, err)
	}
	return string(data)
}

// LoadGolden decodes the JSON golden file at path into v.
func LoadGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("load golden %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}
