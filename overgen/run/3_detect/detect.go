// Package detect locates the type being proxied and the methods it offers.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dave/dst"
	"golang.org/x/mod/modfile"

	load "github.com/toejough/overrider/overgen/run/2_load"
)

// TypeKind identifies the kind of type declaration found.
type TypeKind int

// TypeKind values.
const (
	KindStruct TypeKind = iota
	KindInterface
	KindNamed
)

// String returns the kind as written in Go source.
func (k TypeKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindNamed:
		return "named type"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// Method is a method found on a type, directly declared or promoted through embedding.
type Method struct {
	Name     string
	FuncType *dst.FuncType
	// Imports of the file the method is declared in; its signature is resolved against them.
	Imports  []*dst.ImportSpec
	Promoted bool
}

// Exported returns whether the method can be called from another package.
func (m Method) Exported() bool {
	return token.IsExported(m.Name)
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) (load.Package, error)
}

// TypeDetails describes a type declaration.
type TypeDetails struct {
	Name          string
	Kind          TypeKind
	PkgName       string // package clause of the declaring file
	TypeParams    *dst.FieldList
	SourceImports []*dst.ImportSpec
}

// IsGeneric reports whether the type declares type parameters.
func (d TypeDetails) IsGeneric() bool {
	return d.TypeParams != nil && len(d.TypeParams.List) > 0
}

// Exported variables.
var (
	ErrProjectRootNotFound = errors.New("could not find project root (go.mod)")
	ErrTypeNotFound        = errors.New("type not found")
)

// CollectMethods returns every method of the named type keyed by name:
// methods declared on it (value or pointer receiver), methods of an interface
// type, and methods promoted from types of the same package embedded in it.
// Directly declared methods win over promoted ones. Types embedded from other
// packages are not followed.
func CollectMethods(files []*dst.File, typeName string) map[string]Method {
	return collectMethods(files, typeName, make(map[string]bool), false)
}

// FindProjectRoot locates the nearest directory at or above dir containing a go.mod file.
func FindProjectRoot(dir string) (string, error) {
	curr := dir

	for {
		_, err := os.Stat(filepath.Join(curr, "go.mod"))
		if err == nil {
			return curr, nil
		}

		parent := filepath.Dir(curr)
		if parent == curr {
			return "", fmt.Errorf("%w: from %s", ErrProjectRootNotFound, dir)
		}

		curr = parent
	}
}

// FindType finds the declaration of typeName in files.
func FindType(files []*dst.File, typeName string) (TypeDetails, error) {
	for _, file := range files {
		typeSpec := findTypeSpec(file, typeName)
		if typeSpec == nil {
			continue
		}

		details := TypeDetails{
			Name:          typeName,
			Kind:          KindNamed,
			PkgName:       file.Name.Name,
			TypeParams:    typeSpec.TypeParams,
			SourceImports: file.Imports,
		}

		switch typeSpec.Type.(type) {
		case *dst.StructType:
			details.Kind = KindStruct
		case *dst.InterfaceType:
			details.Kind = KindInterface
		}

		return details, nil
	}

	return TypeDetails{}, fmt.Errorf("%w: %s", ErrTypeNotFound, typeName)
}

// ImportPathForDir derives the import path of the package in dir from the
// module path declared in the nearest go.mod.
func ImportPathForDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	root, err := FindProjectRoot(absDir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}

	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", fmt.Errorf("%w: no module directive in %s", ErrProjectRootNotFound, root)
	}

	rel, err := filepath.Rel(root, absDir)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", absDir, root, err)
	}

	// The standard library's go.mod declares "module std"; its packages import without a prefix.
	switch {
	case modulePath == stdModule:
		return filepath.ToSlash(rel), nil
	case rel == ".":
		return modulePath, nil
	default:
		return modulePath + "/" + filepath.ToSlash(rel), nil
	}
}

// MethodNames returns the sorted names of methods.
func MethodNames(methods map[string]Method) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// SplitClass splits a class reference into the import path to load and the
// type name. Accepted forms are "Type" (the current package), "pkg.Type"
// (pkg resolved through the imports of files) and "import/path.Type".
// A leading "*" is ignored.
func SplitClass(class string, files []*dst.File) (importPath, typeName string) {
	class = strings.TrimPrefix(class, "*")

	dot := strings.LastIndex(class, ".")
	if dot < 0 {
		return ".", class
	}

	qualifier, typeName := class[:dot], class[dot+1:]
	if strings.Contains(qualifier, "/") {
		return qualifier, typeName
	}

	if path, ok := importFor(files, qualifier); ok {
		return path, typeName
	}

	return qualifier, typeName
}

// collectMethods walks typeName and the same-package types embedded in it.
//
//nolint:gocognit,cyclop // Declared methods, interface members and embedded types each need their own walk
func collectMethods(files []*dst.File, typeName string, visited map[string]bool, promoted bool) map[string]Method {
	methods := make(map[string]Method, defaultMethodCapacity)

	if visited[typeName] {
		return methods
	}

	visited[typeName] = true

	var embedded []string

	for _, file := range files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*dst.FuncDecl)
			if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
				continue
			}

			if receiverTypeName(funcDecl.Recv.List[0].Type) == typeName {
				methods[funcDecl.Name.Name] = Method{
					Name:     funcDecl.Name.Name,
					FuncType: funcDecl.Type,
					Imports:  file.Imports,
					Promoted: promoted,
				}
			}
		}

		typeSpec := findTypeSpec(file, typeName)
		if typeSpec == nil {
			continue
		}

		switch typ := typeSpec.Type.(type) {
		case *dst.StructType:
			embedded = append(embedded, embeddedNames(typ.Fields)...)
		case *dst.InterfaceType:
			if typ.Methods == nil {
				continue
			}

			for _, field := range typ.Methods.List {
				funcType, isMethod := field.Type.(*dst.FuncType)
				if !isMethod || len(field.Names) == 0 {
					continue
				}

				methods[field.Names[0].Name] = Method{
					Name:     field.Names[0].Name,
					FuncType: funcType,
					Imports:  file.Imports,
					Promoted: promoted,
				}
			}

			embedded = append(embedded, embeddedNames(typ.Methods)...)
		}
	}

	for _, embeddedName := range embedded {
		for name, method := range collectMethods(files, embeddedName, visited, true) {
			if _, exists := methods[name]; !exists {
				methods[name] = method
			}
		}
	}

	return methods
}

// embeddedNames returns the names of same-package types embedded in a field list.
func embeddedNames(fields *dst.FieldList) []string {
	if fields == nil {
		return nil
	}

	var names []string

	for _, field := range fields.List {
		if len(field.Names) > 0 {
			continue
		}

		typ := field.Type
		if star, ok := typ.(*dst.StarExpr); ok {
			typ = star.X
		}

		// A resolved identifier with a Path was embedded from another package.
		if ident, ok := typ.(*dst.Ident); ok && ident.Path == "" {
			names = append(names, ident.Name)
		}
	}

	return names
}

// findTypeSpec returns the declaration of typeName in file, or nil.
func findTypeSpec(file *dst.File, typeName string) *dst.TypeSpec {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*dst.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, isTypeSpec := spec.(*dst.TypeSpec)
			if isTypeSpec && typeSpec.Name.Name == typeName {
				return typeSpec
			}
		}
	}

	return nil
}

// importFor finds the import path bound to name in any of files.
func importFor(files []*dst.File, name string) (string, bool) {
	for _, file := range files {
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)

			if imp.Name != nil {
				if imp.Name.Name == name {
					return path, true
				}

				continue
			}

			if path == name || strings.HasSuffix(path, "/"+name) {
				return path, true
			}
		}
	}

	return "", false
}

// receiverTypeName strips pointer and type arguments from a receiver type: *Box[T] is Box.
func receiverTypeName(expr dst.Expr) string {
	for {
		switch typ := expr.(type) {
		case *dst.StarExpr:
			expr = typ.X
		case *dst.IndexExpr:
			expr = typ.X
		case *dst.IndexListExpr:
			expr = typ.X
		case *dst.ParenExpr:
			expr = typ.X
		case *dst.Ident:
			return typ.Name
		default:
			return ""
		}
	}
}

// unexported constants.
const (
	// defaultMethodCapacity is the initial capacity for method maps.
	defaultMethodCapacity = 8
	stdModule             = "std"
)
