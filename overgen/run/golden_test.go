package run_test

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/akedrou/textdiff"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"

	"github.com/toejough/overrider/overgen/run"
	load "github.com/toejough/overrider/overgen/run/2_load"
)

type uatTestCase struct {
	dir           string
	generatedFile string
	pkgName       string
	goFile        string
	args          []string
}

// TestUATConsistency ensures the generated files committed under UAT are exactly
// what the generator produces for their go:generate directives.
func TestUATConsistency(t *testing.T) {
	t.Parallel()

	for _, testCase := range getUATTestCases() {
		uatDir, err := filepath.Abs(filepath.Join("../../UAT", testCase.dir))
		if err != nil {
			t.Fatalf("failed to get absolute path for UAT directory: %v", err)
		}

		verifyUATFile(t, uatDir, &testPackageLoader{Dir: uatDir}, testCase)
	}
}

// TestUATConsistency_DirectLoader runs the same cases through the parsing
// loader overgen itself uses.
func TestUATConsistency_DirectLoader(t *testing.T) {
	t.Parallel()

	for _, testCase := range getUATTestCases() {
		uatDir, err := filepath.Abs(filepath.Join("../../UAT", testCase.dir))
		if err != nil {
			t.Fatalf("failed to get absolute path for UAT directory: %v", err)
		}

		verifyUATFile(t, uatDir, load.Loader{Dir: uatDir}, testCase)
	}
}

func getUATTestCases() []uatTestCase {
	return []uatTestCase{
		{
			dir:           "01-struct-override",
			generatedFile: "generated_IntegerServiceCacheProxy_test.go",
			pkgName:       "service_test",
			goFile:        "service_test.go",
			args:          []string{"overgen", "IntegerService", "--methods", "GetOne,GetTwo,Get,Sum"},
		},
		{
			dir:           "01-struct-override",
			generatedFile: "generated_IntegerServiceCacheProxy_test.go",
			pkgName:       "service_test",
			goFile:        "service_test.go",
			args:          []string{"overgen", "service.IntegerService", "--methods", "GetOne, GetTwo, Get, Sum"},
		},
		{
			dir:           "02-interface-override",
			generatedFile: "generated_GreeterCacheProxy_test.go",
			pkgName:       "greeter",
			goFile:        "greeter_test.go",
			args:          []string{"overgen", "Greeter", "--methods", "Greet,Pause"},
		},
	}
}

func verifyUATFile(t *testing.T, uatDir string, loader run.PackageLoader, testCase uatTestCase) {
	t.Helper()
	t.Run(testCase.dir+"/"+testCase.args[1], func(t *testing.T) {
		t.Parallel()

		getEnv := func(key string) string {
			switch key {
			case "GOPACKAGE":
				return testCase.pkgName
			case "GOFILE":
				return testCase.goFile
			default:
				return ""
			}
		}

		fileSystem := &verifyingFileSystem{
			t:            t,
			expectedPath: filepath.Join(uatDir, testCase.generatedFile),
		}

		err := run.Run(testCase.args, getEnv, fileSystem, loader, io.Discard)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if !fileSystem.written {
			t.Errorf("Run did not write %s", testCase.generatedFile)
		}
	})
}

// verifyingFileSystem implements FileSystem.
// It reads the file from disk that *would* be overwritten and compares content.
type verifyingFileSystem struct {
	t            *testing.T
	expectedPath string
	written      bool
}

func (v *verifyingFileSystem) WriteFile(name string, data []byte, _ os.FileMode) error {
	v.written = true

	if name != filepath.Base(v.expectedPath) {
		v.t.Errorf("wrote %s, want %s", name, filepath.Base(v.expectedPath))
	}

	expectedData, err := os.ReadFile(v.expectedPath)
	if err != nil {
		return fmt.Errorf("failed to read expected file %s: %w", v.expectedPath, err)
	}

	if string(expectedData) != string(data) {
		v.t.Errorf("Generated code differs from UAT golden file %s:\n%s",
			v.expectedPath, textdiff.Unified("golden", "generated", string(expectedData), string(data)))
	}

	return nil
}

// testPackageLoader implements PackageLoader using golang.org/x/tools/go/packages,
// type-checking the package before decorating it.
type testPackageLoader struct {
	Dir string
}

var (
	errNoPackagesFound = errors.New("no packages found")
	errPackageErrors   = errors.New("package errors")
)

// Load loads a package (with its tests) by import path and returns its decorated files.
func (pl *testPackageLoader) Load(importPath string) (load.Package, error) {
	cfg := &packages.Config{
		Mode:  packages.LoadAllSyntax,
		Tests: true,
		Dir:   pl.Dir,
	}

	pkgs, err := decorator.Load(cfg, importPath)
	if err != nil {
		return load.Package{}, fmt.Errorf("failed to load package: %w", err)
	}

	if len(pkgs) == 0 {
		return load.Package{}, fmt.Errorf("%w: %q", errNoPackagesFound, importPath)
	}

	// A package loaded with tests appears in several variants sharing files.
	seen := make(map[string]bool)
	result := load.Package{Fset: token.NewFileSet()}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || len(pkg.GoFiles) == 0 || strings.HasSuffix(pkg.ID, ".test") {
			continue
		}

		if result.Dir == "" {
			result.Dir = filepath.Dir(pkg.GoFiles[0])
			result.Fset = pkg.Fset
		}

		for _, file := range pkg.Syntax {
			name := pkg.Decorator.Filenames[file]
			if filepath.Dir(name) != result.Dir || seen[name] {
				continue
			}

			seen[name] = true

			result.Files = append(result.Files, file)
		}
	}

	if len(result.Files) == 0 {
		return load.Package{}, fmt.Errorf("%w: %q: %v", errPackageErrors, importPath, pkgs[0].Errors)
	}

	return result, nil
}

// TestRunOutput_KeepsDeclarations verifies the reordered file Run writes holds
// exactly the declarations GenerateSource produced.
func TestRunOutput_KeepsDeclarations(t *testing.T) {
	t.Parallel()

	uatDir, err := filepath.Abs("../../UAT/01-struct-override")
	if err != nil {
		t.Fatalf("failed to get absolute path: %v", err)
	}

	loader := load.Loader{Dir: uatDir}

	content, _, err := run.GenerateSource(loader, "IntegerService", []string{"GetOne", "Get"}, run.WithPackage("service_test"))
	if err != nil {
		t.Fatalf("GenerateSource failed: %v", err)
	}

	fileSystem := &recordingFileSystem{files: make(map[string][]byte)}
	getEnv := func(key string) string {
		if key == "GOPACKAGE" {
			return "service_test"
		}

		return ""
	}

	err = run.Run([]string{"overgen", "IntegerService", "--methods", "GetOne,Get"}, getEnv, fileSystem, loader, io.Discard)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	written, ok := fileSystem.files["generated_IntegerServiceCacheProxy_test.go"]
	if !ok {
		t.Fatalf("expected generated_IntegerServiceCacheProxy_test.go, got %v", fileSystem.names())
	}

	want, got := declNames(t, content), declNames(t, string(written))
	if fmt.Sprint(want) != fmt.Sprint(got) {
		t.Errorf("declarations differ:\n%s", textdiff.Unified("generated", "written", fmt.Sprintln(want), fmt.Sprintln(got)))
	}
}

// declNames returns the sorted names of the top-level declarations in src.
func declNames(t *testing.T, src string) []string {
	t.Helper()

	file, err := decorator.Parse(src)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	var names []string

	for _, decl := range file.Decls {
		switch typed := decl.(type) {
		case *dst.FuncDecl:
			names = append(names, "func "+typed.Name.Name)
		case *dst.GenDecl:
			for _, spec := range typed.Specs {
				if typeSpec, ok := spec.(*dst.TypeSpec); ok {
					names = append(names, "type "+typeSpec.Name.Name)
				}
			}
		}
	}

	sort.Strings(names)

	return names
}

// recordingFileSystem keeps written files in memory.
type recordingFileSystem struct {
	files map[string][]byte
}

func (r *recordingFileSystem) WriteFile(name string, data []byte, _ os.FileMode) error {
	r.files[name] = data
	return nil
}

func (r *recordingFileSystem) names() []string {
	names := make([]string, 0, len(r.files))
	for name := range r.files {
		names = append(names, name)
	}

	return names
}
