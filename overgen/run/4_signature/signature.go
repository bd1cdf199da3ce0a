// Package signature turns parsed method declarations into method specs for generation.
package signature

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/dst"

	"github.com/toejough/overrider/internal/core"
	astutil "github.com/toejough/overrider/overgen/run/0_util"
	detect "github.com/toejough/overrider/overgen/run/3_detect"
)

// Import is an import the generated code needs.
type Import struct {
	Alias string // empty unless the source file renamed the import
	Path  string
}

// Spec renders the import as it appears in an import block.
func (i Import) Spec() string {
	if i.Alias == "" {
		return strconv.Quote(i.Path)
	}

	return i.Alias + " " + strconv.Quote(i.Path)
}

// DefaultPackageName guesses the package name of an import path from its last
// element, skipping a major version suffix and a "go-" prefix: "gopkg.in/yaml.v3" is yaml.
func DefaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}

	if dot := strings.Index(base, ".v"); dot > 0 && isMajorVersion(base[dot+1:]) {
		base = base[:dot]
	}

	base = strings.TrimPrefix(base, "go-")

	return strings.ReplaceAll(base, "-", "")
}

// Exported variables.
var (
	ErrUnexportedType   = errors.New("unexported type cannot be referenced from another package")
	ErrUnknownQualifier = errors.New("package qualifier not found in imports")
)

// Build describes method as a core.MethodSpec at position index.
//
// qualifier is prefixed to exported identifiers declared in the target package
// when the generated code lives elsewhere; empty means the same package, where
// identifiers are used as written. The imports every selector in the signature
// needs are returned alongside.
func Build(method detect.Method, index int, qualifier string) (core.MethodSpec, []Import, error) {
	spec := core.MethodSpec{Name: method.Name, Index: index}
	imports := newImportSet()

	var firstErr error

	rename := func(ident *dst.Ident) string {
		if ident.Path != "" {
			return imports.addPath(ident.Path, method.Imports) + "." + ident.Name
		}

		name := ident.Name

		switch {
		case qualifier == "" || predeclared[name]:
			return name
		case token.IsExported(name):
			return qualifier + "." + name
		default:
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s in method %s", ErrUnexportedType, name, method.Name)
			}

			return name
		}
	}

	render := func(expr dst.Expr) string {
		err := imports.addSelectors(expr, method.Imports)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w (method %s)", err, method.Name)
		}

		return astutil.Stringify(expr, rename)
	}

	if method.FuncType.Params != nil {
		for _, field := range method.FuncType.Params.List {
			typ, optional := field.Type, false
			if ellipsis, ok := typ.(*dst.Ellipsis); ok {
				typ, optional = ellipsis.Elt, true
			}

			declared := render(typ)

			names := fieldNames(field)
			for _, name := range names {
				spec.Params = append(spec.Params, core.ParameterSpec{
					Name:         name,
					DeclaredType: declared,
					IsOptional:   optional,
				})
			}
		}
	}

	if method.FuncType.Results != nil {
		spec.Results = astutil.ExpandFieldListTypes(method.FuncType.Results.List, render)
	}

	if firstErr != nil {
		return core.MethodSpec{}, nil, firstErr
	}

	reserved := imports.qualifiers()
	if qualifier != "" {
		reserved[qualifier] = true
	}

	nameParams(spec.Params, reserved)

	return spec, imports.sorted(), nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Lookup table of predeclared type identifiers
	predeclared = map[string]bool{
		"any": true, "bool": true, "byte": true, "comparable": true,
		"complex64": true, "complex128": true, "error": true,
		"float32": true, "float64": true,
		"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
		"rune": true, "string": true,
		"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	}
	// reservedNames are identifiers the generated method body declares or uses.
	//nolint:gochecknoglobals // Fixed set of generated identifiers
	reservedNames = map[string]bool{"p": true, "original": true}
)

type importSet map[string]Import // keyed by qualifier

func newImportSet() importSet {
	return make(importSet)
}

// addSelectors records the import behind every pkg.Name selector in expr.
func (s importSet) addSelectors(expr dst.Expr, fileImports []*dst.ImportSpec) error {
	var err error

	dst.Inspect(expr, func(node dst.Node) bool {
		selector, ok := node.(*dst.SelectorExpr)
		if !ok || err != nil {
			return err == nil
		}

		pkgIdent, ok := selector.X.(*dst.Ident)
		if !ok {
			return true
		}

		imp, found := resolveQualifier(pkgIdent.Name, fileImports)
		if !found {
			err = fmt.Errorf("%w: %s", ErrUnknownQualifier, pkgIdent.Name)
			return false
		}

		s[pkgIdent.Name] = imp

		return false
	})

	return err
}

// addPath records the import of a resolved identifier's package and returns
// the qualifier to write it with: the source file's alias when it has one.
func (s importSet) addPath(importPath string, fileImports []*dst.ImportSpec) string {
	imp := Import{Path: importPath}

	for _, spec := range fileImports {
		if strings.Trim(spec.Path.Value, `"`) != importPath || spec.Name == nil {
			continue
		}

		if alias := spec.Name.Name; alias != "_" && alias != "." {
			imp.Alias = alias
		}
	}

	qualifier := imp.Alias
	if qualifier == "" {
		qualifier = DefaultPackageName(importPath)
	}

	s[qualifier] = imp

	return qualifier
}

func (s importSet) qualifiers() map[string]bool {
	names := make(map[string]bool, len(s))
	for name := range s {
		names[name] = true
	}

	return names
}

func (s importSet) sorted() []Import {
	imports := make([]Import, 0, len(s))
	for _, imp := range s {
		imports = append(imports, imp)
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	return imports
}

// fieldNames returns the parameter names of field, with "" for unnamed and "_" parameters.
func fieldNames(field *dst.Field) []string {
	if len(field.Names) == 0 {
		return []string{""}
	}

	names := make([]string, 0, len(field.Names))

	for _, ident := range field.Names {
		if ident.Name == "_" {
			names = append(names, "")
			continue
		}

		names = append(names, ident.Name)
	}

	return names
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}

	_, err := strconv.Atoi(elem[1:])

	return err == nil
}

// nameParams fills in missing parameter names as argN and renames parameters
// that would shadow a package qualifier or an identifier the generated body uses.
func nameParams(params []core.ParameterSpec, reserved map[string]bool) {
	taken := make(map[string]bool, len(params))

	for _, param := range params {
		if param.Name != "" {
			taken[param.Name] = true
		}
	}

	for i := range params {
		name := params[i].Name
		if name != "" && !reserved[name] && !reservedNames[name] {
			continue
		}

		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		} else {
			delete(taken, name)
			name += "Arg"
		}

		for taken[name] || reserved[name] || reservedNames[name] {
			name += "_"
		}

		taken[name] = true
		params[i].Name = name
	}
}

// resolveQualifier finds the import a qualifier refers to.
func resolveQualifier(name string, fileImports []*dst.ImportSpec) (Import, bool) {
	for _, imp := range fileImports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		if imp.Name != nil {
			if imp.Name.Name == name {
				return Import{Alias: name, Path: importPath}, true
			}

			continue
		}

		if DefaultPackageName(importPath) == name {
			return Import{Path: importPath}, true
		}
	}

	return Import{}, false
}
