// Package generate renders proxy source code from method specs.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/toejough/overrider/internal/core"
	signature "github.com/toejough/overrider/overgen/run/4_signature"
)

// ProxyInfo describes the proxy to generate.
type ProxyInfo struct {
	PkgName      string // package clause of the generated file
	ProxyName    string
	EmbeddedType string // as written in the struct: "*service.IntegerService", "Greeter"
	FieldName    string // name of the embedded field: "IntegerService"
	Imports      []signature.Import
	Methods      []core.MethodSpec // in implementation order
}

// Exported variables.
var (
	ErrFieldCollision = errors.New("method name collides with the embedded field")
)

// GenerateProxy renders and formats the proxy source for info.
func GenerateProxy(info ProxyInfo) (string, error) {
	for _, method := range info.Methods {
		if method.Name == info.FieldName {
			return "", fmt.Errorf("%w: %s.%s", ErrFieldCollision, info.FieldName, method.Name)
		}
	}

	data := buildTemplateData(info)
	templates := NewTemplateRegistry()

	var buf bytes.Buffer

	templates.WriteHeader(&buf, data)
	buf.WriteString("\n")
	templates.WriteStruct(&buf, data)
	buf.WriteString("\n")
	templates.WriteConstructor(&buf, data)

	for _, method := range data.sortedMethods() {
		buf.WriteString("\n")
		templates.WriteMethod(&buf, method)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("error formatting generated code: %w", err)
	}

	return string(formatted), nil
}

// ImplementationType renders the type of the full implementation form:
// the original delegate followed by the method's parameters.
func ImplementationType(method core.MethodSpec) string {
	if len(method.Params) == 0 {
		return ShortImplementationType(method)
	}

	return "func(original " + method.OriginalType() + ", " + method.ParamList() + ")" + method.ReturnList()
}

// ShortImplementationType renders the type of the short implementation form,
// which takes only the original delegate.
func ShortImplementationType(method core.MethodSpec) string {
	return "func(original " + method.OriginalType() + ")" + method.ReturnList()
}

type methodData struct {
	core.MethodSpec

	ProxyName     string
	FieldName     string
	Field         string
	ImplType      string
	ShortType     string // empty when the method has no parameters
	IgnoredParams string
}

type templateData struct {
	ProxyInfo

	StdImports   []signature.Import
	OtherImports []signature.Import
	Methods      []methodData
}

func (d templateData) sortedMethods() []methodData {
	methods := append([]methodData(nil), d.Methods...)
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })

	return methods
}

func buildTemplateData(info ProxyInfo) templateData {
	data := templateData{ProxyInfo: info}

	imports := []signature.Import{{Path: "fmt"}}

	for _, imp := range info.Imports {
		if imp.Path == "fmt" && imp.Alias == "" {
			continue
		}

		imports = append(imports, imp)
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	// Standard library first, then everything else, as goimports groups them.
	for _, imp := range imports {
		if isStdImport(imp.Path) {
			data.StdImports = append(data.StdImports, imp)
		} else {
			data.OtherImports = append(data.OtherImports, imp)
		}
	}

	for _, method := range info.Methods {
		entry := methodData{
			MethodSpec: method,
			ProxyName:  info.ProxyName,
			FieldName:  info.FieldName,
			Field:      fmt.Sprintf("impl%d", method.Index),
			ImplType:   ImplementationType(method),
		}

		if len(method.Params) > 0 {
			entry.ShortType = ShortImplementationType(method)
			entry.IgnoredParams = ignoredParams(method)
		}

		data.Methods = append(data.Methods, entry)
	}

	return data
}

// ignoredParams renders the method's parameters with blank names: "_ int, _ ...string".
func ignoredParams(method core.MethodSpec) string {
	parts := make([]string, 0, len(method.Params))

	for _, param := range method.Params {
		blank := param
		blank.Name = "_"
		parts = append(parts, blank.Declaration())
	}

	return strings.Join(parts, ", ")
}

// isStdImport reports whether an import path belongs to the standard library,
// whose first path element never contains a dot.
func isStdImport(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")

	return !strings.Contains(first, ".")
}
