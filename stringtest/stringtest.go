// Package stringtest builds expected multi-line strings and stub executables
// for tests.
package stringtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Input dedents a raw string literal so expected output can be written
// indented alongside test code. One leading and one trailing newline are
// dropped, whitespace-only lines become empty, and the indentation shared
// by all other lines is removed.
//
//	want := stringtest.Input(`
//	    LABEL  PROFILER
//	    @jfr   jfr`)
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	var (
		common string
		found  bool
	)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			common, found = indent, true

			continue
		}

		common = sharedPrefix(common, indent)
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, common)
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with "\n", e.g. JoinLF("a", "b") is "a\nb".
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// Script writes an executable /bin/sh script named name into dir and returns
// its path. The test is skipped when /bin/sh does not exist.
//
//	java := stringtest.Script(t, dir, "java", `echo "java.vm.name = HotSpot" >&2`)
func Script(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	path := filepath.Join(dir, name)
	body := JoinLF(append([]string{"#!/bin/sh"}, lines...)...) + "\n"

	err := os.WriteFile(path, []byte(body), 0o700) //nolint:gosec // Scripts must be executable.
	if err != nil {
		t.Fatalf("writing script %s: %v", path, err)
	}

	return path
}

func sharedPrefix(a, b string) string {
	n := min(len(a), len(b))

	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}
