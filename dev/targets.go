//go:build targ

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

var errOutOfOrder = errors.New("declarations out of order")

// Build builds the local overgen binary.
func Build() error {
	fmt.Println("Building overgen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/overgen", "./overgen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,
		Test,
		ReorderDecls, // linter will yell about declaration order if not correct
		Lint,
	)
}

// Clean cleans up the dev env.
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove("coverage.out")
	os.RemoveAll("bin")
}

// Generate runs go generate on all packages using the locally-built overgen binary.
func Generate() error {
	fmt.Println("Generating...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "./...")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev/...", "-run=TestMutation")
}

// ReorderDecls reorders declarations in Go files per conventions.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	files, err := reorderCandidates()
	if err != nil {
		return err
	}

	reorderedCount := 0

	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", name, err)

			continue
		}

		if string(content) == reordered {
			continue
		}

		err = os.WriteFile(name, []byte(reordered), 0o600)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}

		fmt.Printf("  Reordered: %s\n", name)
		reorderedCount++
	}

	fmt.Printf("Reordered %d file(s).\n", reorderedCount)

	return nil
}

// ReorderDeclsCheck reports which files need reordering without modifying them.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	files, err := reorderCandidates()
	if err != nil {
		return err
	}

	outOfOrder := 0

	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		sectionOrder, err := reorder.AnalyzeSectionOrder(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to analyze %s: %v\n", name, err)

			continue
		}

		reordered, err := reorder.Source(string(content))
		if err != nil || string(content) == reordered {
			continue
		}

		outOfOrder++

		fmt.Printf("\n%s:\n", name)

		for i, section := range sectionOrder.Sections {
			if section.Expected != i+1 {
				fmt.Printf("  %s is #%d, should be #%d\n", section.Name, i+1, section.Expected)
			}
		}

		fmt.Printf("\n%s\n", textdiff.Unified(name+" (current)", name+" (reordered)", string(content), reordered))
	}

	if outOfOrder > 0 {
		return fmt.Errorf("%w: %d file(s)", errOutOfOrder, outOfOrder)
	}

	fmt.Printf("All %d files are correctly ordered.\n", len(files))

	return nil
}

// Test runs the unit tests.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./overgen/...,./internal/...,.",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=30s", "./...", "-failfast")
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.toml"}, file.WatchOptions{}, func(changes file.ChangeSet) error {
		if !hasRelevantChanges(changes) {
			return nil
		}

		fmt.Println("Change detected...")

		targ.ResetDeps()

		if err := Check(); err != nil {
			fmt.Println("continuing to watch after check failure (see errors above)")
		} else {
			fmt.Println("continuing to watch after all checks passed!")
		}

		return nil
	})
}

// hasRelevantChanges reports whether changes touch anything but generated
// proxies and coverage output.
func hasRelevantChanges(changes file.ChangeSet) bool {
	allFiles := append(append(changes.Added, changes.Removed...), changes.Modified...)

	for _, f := range allFiles {
		if strings.Contains(f, "generated_") || strings.HasSuffix(f, "coverage.out") {
			continue
		}

		return true
	}

	return false
}

func isGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 200)

	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.Contains(string(buf[:n]), "DO NOT EDIT"), nil
}

// reorderCandidates lists the hand-written Go files in the module.
func reorderCandidates() ([]string, error) {
	var files []string

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("unable to walk %s: %w", path, err)
		}

		if entry.IsDir() {
			if path != "." && (strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") ||
				entry.Name() == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.Contains(path, "generated_") {
			return nil
		}

		generated, err := isGeneratedFile(path)
		if err != nil {
			return err
		}

		if !generated {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find Go files: %w", err)
	}

	return files, nil
}
