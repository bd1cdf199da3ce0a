// Package load parses Go package directories into dst files.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Exported variables.
var (
	ErrNoPackagesFound = errors.New("no packages found")
)

// Loader loads packages relative to Dir (the working directory when empty).
// It parses source directly with no type checking.
type Loader struct {
	Dir string
}

// Load resolves importPath to a directory and parses its .go files.
// "." is the base directory itself, and includes its test files; other
// packages exclude test files.
func (l Loader) Load(importPath string) (Package, error) {
	baseDir, err := l.baseDir()
	if err != nil {
		return Package{}, err
	}

	dir, err := resolveDir(baseDir, importPath)
	if err != nil {
		return Package{}, err
	}

	return ParseDir(dir, importPath == ".")
}

func (l Loader) baseDir() (string, error) {
	if l.Dir != "" {
		return l.Dir, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return dir, nil
}

// Package is a parsed package directory.
type Package struct {
	Dir   string
	Files []*dst.File
	Fset  *token.FileSet
}

// ParseDir parses every .go file in dir. Files that fail to parse are skipped.
func ParseDir(dir string, includeTests bool) (Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Package{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return Package{}, fmt.Errorf("%w: no .go files in %s", ErrNoPackagesFound, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		astFile, err := parser.ParseFile(fset, goFile, nil, parser.ParseComments)
		if err != nil {
			continue
		}

		dstFile, err := dec.DecorateFile(astFile)
		if err != nil {
			continue
		}

		files = append(files, dstFile)
	}

	if len(files) == 0 {
		return Package{}, fmt.Errorf("%w: failed to parse any .go files in %s", ErrNoPackagesFound, dir)
	}

	return Package{Dir: dir, Files: files, Fset: fset}, nil
}

// ResolveLocalPackagePath checks if importPath names a local subdirectory of
// baseDir holding .go files, which shadows a standard library package of the
// same name (e.g. a local "time"). It returns the directory, or "" when
// importPath should be resolved normally.
func ResolveLocalPackagePath(baseDir, importPath string) string {
	if importPath == "." || filepath.IsAbs(importPath) || strings.Contains(importPath, "/") {
		return ""
	}

	localDir := filepath.Join(baseDir, importPath)

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return ""
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			return localDir
		}
	}

	return ""
}

func resolveDir(baseDir, importPath string) (string, error) {
	switch {
	case importPath == ".":
		return baseDir, nil
	case filepath.IsAbs(importPath):
		return importPath, nil
	case strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../"):
		return filepath.Join(baseDir, importPath), nil
	}

	if local := ResolveLocalPackagePath(baseDir, importPath); local != "" {
		return local, nil
	}

	pkg, err := build.Import(importPath, baseDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}
