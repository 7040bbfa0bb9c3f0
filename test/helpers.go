// Package test holds helpers shared by the package tests.
package test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// MustBe uses reflect.DeepEqual to assert that thing1 and thing2 are equal, and
// fails otherwise.
func MustBe(t *testing.T, thing1, thing2 interface{}, context ...string) {
	t.Helper()
	var ctx string
	if len(context) > 0 {
		ctx = context[0] + ": "
	}
	if !reflect.DeepEqual(thing1, thing2) {
		t.Fatalf("%v'%#v' != '%#v'", ctx, thing1, thing2)
	}
}

// ErrNil asserts that the err is nil and fails otherwise.
func ErrNil(t *testing.T, err error, ctx string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%v: %v", ctx, err)
	}
}

// WriteCSV writes lines, joined by newlines, to a file named name in a
// temporary directory which is removed when the test ends. It returns the
// file's path.
func WriteCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// SQLitePath returns a DSN for a fresh SQLite database file in a temporary
// directory.
func SQLitePath(t *testing.T, name string) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), name)
}
