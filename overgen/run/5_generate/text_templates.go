package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds all parsed text templates for proxy generation.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl      *template.Template
	structTmpl      *template.Template
	constructorTmpl *template.Template
	methodTmpl      *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{}

	templates := []struct {
		target  **template.Template
		name    string
		content string
	}{
		{&registry.headerTmpl, "header", tmplHeader},
		{&registry.structTmpl, "struct", tmplStruct},
		{&registry.constructorTmpl, "constructor", tmplConstructor},
		{&registry.methodTmpl, "method", tmplMethod},
	}

	for _, def := range templates {
		*def.target = template.Must(template.New(def.name).Parse(def.content))
	}

	return registry
}

// WriteConstructor writes the New<Proxy> constructor.
func (r *TemplateRegistry) WriteConstructor(buf *bytes.Buffer, data any) {
	execute(r.constructorTmpl, buf, data)
}

// WriteHeader writes the generated-code marker, package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteMethod writes one overridden method.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, data any) {
	execute(r.methodTmpl, buf, data)
}

// WriteStruct writes the proxy struct.
func (r *TemplateRegistry) WriteStruct(buf *bytes.Buffer, data any) {
	execute(r.structTmpl, buf, data)
}

// unexported constants.
const (
	tmplConstructor = `// New{{.ProxyName}} wraps base, binding implementations[i] to the i-th overridden method.
func New{{.ProxyName}}(base {{.EmbeddedType}}, implementations []any) (*{{.ProxyName}}, error) {
	if len(implementations) != {{len .Methods}} {
		return nil, fmt.Errorf("{{.ProxyName}}: expected {{len .Methods}} implementations, got %d", len(implementations))
	}

	proxy := &{{printf "%s{%s: base}" .ProxyName .FieldName}}
{{range .Methods}}
	switch impl := implementations[{{.Index}}].(type) {
	case {{.ImplType}}:
		proxy.{{.Field}} = impl
{{- if .ShortType}}
	case {{.ShortType}}:
		proxy.{{.Field}} = func(original {{.OriginalType}}, {{.IgnoredParams}}){{.ReturnList}} {
			{{if .HasResults}}return {{end}}impl(original)
		}
{{- end}}
	default:
		return nil, fmt.Errorf("{{$.ProxyName}}: implementation {{.Index}} for {{.Name}} has type %T", impl)
	}
{{end}}
	return proxy, nil
}
`
	tmplHeader = `// Code generated by overgen. DO NOT EDIT.

package {{.PkgName}}

import (
{{range .StdImports}}	{{.Spec}}
{{end}}{{if .OtherImports}}
{{range .OtherImports}}	{{.Spec}}
{{end}}{{end}})
`
	tmplMethod = `// {{.Name}} passes the embedded {{.Name}} to its implementation as original.
func (p *{{.ProxyName}}) {{.Name}}({{.ParamList}}){{.ReturnList}} {
	original := func(){{.ReturnList}} {
		{{if .HasResults}}return {{end}}p.{{.FieldName}}.{{.Name}}({{.ForwardArgs}})
	}

	{{if .HasResults}}return {{end}}p.{{.Field}}(original{{if .Params}}, {{.ForwardArgs}}{{end}})
}
`
	tmplStruct = `// {{.ProxyName}} embeds {{.EmbeddedType}}, routing overridden methods through their implementations.
type {{.ProxyName}} struct {
	{{.EmbeddedType}}
{{if .Methods}}
{{range .Methods}}	{{.Field}} {{.ImplType}}
{{end}}{{end}}}
`
)

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}
