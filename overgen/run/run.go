// Package run implements the proxy generator behind overgen in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/toejough/overrider/internal/core"
	load "github.com/toejough/overrider/overgen/run/2_load"
	detect "github.com/toejough/overrider/overgen/run/3_detect"
	signature "github.com/toejough/overrider/overgen/run/4_signature"
	generate "github.com/toejough/overrider/overgen/run/5_generate"
	output "github.com/toejough/overrider/overgen/run/6_output"
)

// FileSystem interface for writing generated files.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// GeneratedClass is the result of GenerateOverriddenClass: the proxy source,
// the implementations to construct it with, and the proxy's type name.
type GeneratedClass struct {
	Content         string
	Implementations []any
	ClassName       string
}

// Option configures generation.
type Option func(*options)

// PackageLoader loads Go packages by import path.
type PackageLoader = detect.PackageLoader

// Exported variables.
var (
	ErrGenericType = errors.New("generic types are not supported")
)

// GenerateOverriddenClass generates the source of a proxy for class whose
// methodNames[i] delegates to implementations[i]. Nothing is compiled or
// instantiated: pass Implementations to the generated constructor.
//
// Invalid input is reported as an error wrapping core.ErrInvalidArgument.
func GenerateOverriddenClass(
	loader PackageLoader, class string, methodNames []string, implementations []any, opts ...Option,
) (GeneratedClass, error) {
	content, className, err := generateSource(loader, class, methodNames, len(implementations), opts)
	if err != nil {
		return GeneratedClass{}, err
	}

	for index, impl := range implementations {
		if fn := reflect.ValueOf(impl); fn.Kind() != reflect.Func || fn.IsNil() {
			return GeneratedClass{}, fmt.Errorf("%w: %w: implementation %d for %s is %T",
				core.ErrInvalidArgument, core.ErrInvalidImplementation, index, methodNames[index], impl)
		}
	}

	return GeneratedClass{
		Content:         content,
		Implementations: append([]any(nil), implementations...),
		ClassName:       className,
	}, nil
}

// GenerateSource generates the source of a proxy for class overriding
// methodNames, without implementations. It returns the source and the proxy's
// type name.
func GenerateSource(
	loader PackageLoader, class string, methodNames []string, opts ...Option,
) (content, className string, err error) {
	return generateSource(loader, class, methodNames, len(methodNames), opts)
}

// Run executes the overgen tool logic. It takes command-line arguments, an
// environment variable getter, a FileSystem for the output file, a
// PackageLoader for parsing, and a writer for progress messages. On success,
// the proxy is written next to the go:generate directive that invoked it.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	pkgName := getEnv("GOPACKAGE")

	opts := []Option{WithName(parsed.Name), WithImportPath(parsed.ImportPath)}
	if pkgName != "" {
		opts = append(opts, WithPackage(pkgName))
	}

	content, className, err := GenerateSource(pkgLoader, parsed.Type, splitMethods(parsed.Methods), opts...)
	if err != nil {
		return err
	}

	_, err = output.WriteGeneratedCode(content, className, pkgName, getEnv, fileSys, out)

	return err //nolint:wrapcheck // already wrapped with the file name
}

// WithImportPath sets the import path the generated code uses for the target
// package, instead of deriving it from go.mod.
func WithImportPath(importPath string) Option {
	return func(o *options) {
		o.importPath = importPath
	}
}

// WithName sets the proxy's type name. The default is <Type>CacheProxy.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithPackage sets the package clause of the generated code. The default is
// the target's own package.
func WithPackage(pkgName string) Option {
	return func(o *options) {
		o.pkgName = pkgName
	}
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Type       string `arg:"positional,required" help:"type to proxy (e.g. IntegerService, service.IntegerService or example.com/service.IntegerService)"`
	Methods    string `arg:"--methods,required"  help:"comma-separated methods to override, in implementation order"`
	Name       string `arg:"--name"              help:"name for the generated proxy (defaults to <Type>CacheProxy)"`
	ImportPath string `arg:"--import-path"       help:"import path of the target package (defaults to the path derived from go.mod)"`
}

type options struct {
	pkgName    string
	name       string
	importPath string
}

// target is the resolved type being proxied.
type target struct {
	importPath string
	pkg        load.Package
	details    detect.TypeDetails
	methods    map[string]detect.Method
	found      bool
}

// embedded renders the embedded field's type: interfaces by value, other types by pointer.
func (t target) embedded(qualifier string) string {
	name := t.details.Name
	if qualifier != "" {
		name = qualifier + "." + name
	}

	if t.details.Kind == detect.KindInterface {
		return name
	}

	return "*" + name
}

// targetImport returns the import of the target package for code generated elsewhere.
func (t target) targetImport(override string) signature.Import {
	importPath := override
	if importPath == "" {
		derived, err := detect.ImportPathForDir(t.pkg.Dir)
		if err == nil {
			importPath = derived
		} else {
			importPath = t.importPath
		}
	}

	imp := signature.Import{Path: importPath}
	if signature.DefaultPackageName(importPath) != t.details.PkgName {
		imp.Alias = t.details.PkgName
	}

	return imp
}

// buildSpecs describes every requested method and collects the imports they need.
func buildSpecs(
	methods map[string]detect.Method, methodNames []string, qualifier string,
) ([]core.MethodSpec, []signature.Import, error) {
	specs := make([]core.MethodSpec, 0, len(methodNames))
	seen := make(map[signature.Import]bool)

	var imports []signature.Import

	for index, name := range methodNames {
		spec, methodImports, err := signature.Build(methods[name], index, qualifier)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
		}

		specs = append(specs, spec)

		for _, imp := range methodImports {
			if !seen[imp] {
				seen[imp] = true
				imports = append(imports, imp)
			}
		}
	}

	return specs, imports, nil
}

func generateSource(
	loader PackageLoader, class string, methodNames []string, implementationCount int, opts []Option,
) (content, className string, err error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	tgt := resolveTarget(loader, class)

	outPkg := cfg.pkgName
	if outPkg == "" {
		outPkg = tgt.details.PkgName
	}

	samePackage := tgt.importPath == "." && outPkg == tgt.details.PkgName

	hasMethod := func(name string) bool {
		method, ok := tgt.methods[name]
		return ok && (samePackage || method.Exported())
	}

	err = core.Validate(class, tgt.found, methodNames, hasMethod, implementationCount)
	if err != nil {
		return "", "", err //nolint:wrapcheck // sentinel chain built by Validate
	}

	if tgt.details.IsGeneric() {
		return "", "", fmt.Errorf("%w: %w: %s", core.ErrInvalidArgument, ErrGenericType, class)
	}

	qualifier := ""
	if !samePackage {
		qualifier = tgt.details.PkgName
	}

	specs, imports, err := buildSpecs(tgt.methods, methodNames, qualifier)
	if err != nil {
		return "", "", err
	}

	if !samePackage {
		imports = append(imports, tgt.targetImport(cfg.importPath))
	}

	className = cfg.name
	if className == "" {
		className = core.ProxyClassName(tgt.details.Name)
	}

	content, err = generate.GenerateProxy(generate.ProxyInfo{
		PkgName:      outPkg,
		ProxyName:    className,
		EmbeddedType: tgt.embedded(qualifier),
		FieldName:    tgt.details.Name,
		Imports:      imports,
		Methods:      specs,
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
	}

	return content, className, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "overgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// resolveTarget loads the package class lives in and finds its declaration.
// A class that cannot be loaded or found comes back with found unset.
func resolveTarget(loader PackageLoader, class string) target {
	local, localErr := loader.Load(".")

	importPath, typeName := detect.SplitClass(class, local.Files)
	tgt := target{importPath: importPath, details: detect.TypeDetails{Name: typeName}}

	pkg := local
	if importPath != "." {
		var err error

		pkg, err = loader.Load(importPath)
		if err != nil {
			return tgt
		}
	} else if localErr != nil {
		return tgt
	}

	details, err := detect.FindType(pkg.Files, typeName)
	if err != nil {
		return tgt
	}

	tgt.pkg = pkg
	tgt.details = details
	tgt.methods = detect.CollectMethods(pkg.Files, typeName)
	tgt.found = true

	return tgt
}

// splitMethods splits a comma-separated method list, dropping blanks.
func splitMethods(list string) []string {
	var names []string

	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	return names
}
