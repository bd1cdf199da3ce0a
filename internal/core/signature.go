package core

import (
	"fmt"
	"reflect"
	"strings"
)

// MethodSpec describes one method being overridden.
type MethodSpec struct {
	Name    string
	Index   int // position in the caller's method list, and so in the implementation list
	Params  []ParameterSpec
	Results []string // declared result types; empty when the method returns nothing
}

// ForwardArgs renders the arguments the original delegate passes on: bare names,
// with the optional (variadic) parameter spread. "n, rest..."
func (m MethodSpec) ForwardArgs() string {
	names := make([]string, 0, len(m.Params))

	for _, param := range m.Params {
		if param.IsOptional {
			names = append(names, param.Name+"...")
			continue
		}

		names = append(names, param.Name)
	}

	return strings.Join(names, ", ")
}

// HasOptional reports whether the last parameter is variadic.
func (m MethodSpec) HasOptional() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].IsOptional
}

// HasResults reports whether the method returns anything.
func (m MethodSpec) HasResults() bool {
	return len(m.Results) > 0
}

// OriginalType renders the type of the original delegate, e.g. "func() (int, error)".
func (m MethodSpec) OriginalType() string {
	return "func()" + m.ReturnList()
}

// ParamList renders the declared parameter list, e.g. "n int, rest ...string".
func (m MethodSpec) ParamList() string {
	parts := make([]string, 0, len(m.Params))
	for _, param := range m.Params {
		parts = append(parts, param.Declaration())
	}

	return strings.Join(parts, ", ")
}

// ReturnList renders the result list with its leading space: "", " int" or " (int, error)".
func (m MethodSpec) ReturnList() string {
	switch len(m.Results) {
	case 0:
		return ""
	case 1:
		return " " + m.Results[0]
	default:
		return " (" + strings.Join(m.Results, ", ") + ")"
	}
}

// ParameterSpec describes one declared parameter.
// Go has no default argument values; the final variadic parameter is the only
// optional one, and it is forwarded spread.
type ParameterSpec struct {
	Name         string
	DeclaredType string // element type for the variadic parameter
	IsOptional   bool
}

// Declaration renders the parameter as written in a signature: "n int" or "rest ...string".
func (p ParameterSpec) Declaration() string {
	if p.IsOptional {
		return p.Name + " ..." + p.DeclaredType
	}

	return p.Name + " " + p.DeclaredType
}

// DescribeMethod introspects the named method on typ. Reflection does not expose
// parameter names, so parameters are named arg0, arg1, ...
func DescribeMethod(typ reflect.Type, name string, index int) (MethodSpec, bool) {
	if typ == nil {
		return MethodSpec{}, false
	}

	method, ok := typ.MethodByName(name)
	if !ok {
		return MethodSpec{}, false
	}

	funcType := method.Type
	spec := MethodSpec{Name: name, Index: index}

	// In(0) is the receiver for methods obtained from a type.
	firstParam := 1
	if typ.Kind() == reflect.Interface {
		firstParam = 0
	}

	for i := firstParam; i < funcType.NumIn(); i++ {
		paramType := funcType.In(i)
		optional := funcType.IsVariadic() && i == funcType.NumIn()-1

		if optional {
			paramType = paramType.Elem()
		}

		spec.Params = append(spec.Params, ParameterSpec{
			Name:         fmt.Sprintf("arg%d", i-firstParam),
			DeclaredType: paramType.String(),
			IsOptional:   optional,
		})
	}

	for i := range funcType.NumOut() {
		spec.Results = append(spec.Results, funcType.Out(i).String())
	}

	return spec, true
}
