// Package testutil contains helpers shared by package tests
package testutil

import (
	"runtime"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ayoisaiah/focusflow/internal/osutil"
)

// GoldenTest produces output to compare against testdata/<name>.golden.
type GoldenTest interface {
	Output() (out []byte, name string)
}

// Golden adapts a fixed output to GoldenTest.
type Golden struct {
	Name string
	Out  []byte
}

func (g Golden) Output() ([]byte, string) {
	return g.Out, g.Name
}

// CompareGoldenFile verifies that the output of an operation matches
// the expected output. Run the tests with -update to regenerate the
// golden files.
func CompareGoldenFile(t *testing.T, tc GoldenTest) {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		// golden files are stored with LF line endings
		t.Skip("skipping golden file test in Windows")
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir("testdata"),
	)

	out, name := tc.Output()

	g.Assert(t, name, out)
}
