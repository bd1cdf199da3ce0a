//go:build mutation

package dev

import (
	"testing"

	"github.com/gtramontina/ooze"
)

// TestMutation mutates the generator and runtime proxy sources and expects
// the test suite to catch every mutant.
func TestMutation(t *testing.T) {
	ooze.Release(
		t,
		ooze.WithTestCommand("go test -buildvcs=false ./..."),
		ooze.Parallel(),
		ooze.IgnoreSourceFiles("^dev/.*|^_examples/.*|^UAT/.*|generated_.*|.*_test.go|.*/main.go"),
		ooze.WithMinimumThreshold(0.90),
		ooze.WithRepositoryRoot(".."),
		ooze.ForceColors(),
	)
}
