// Package astutil renders dst type expressions back to Go source.
package astutil

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// IdentFunc renders an identifier in type position, e.g. adding a package qualifier.
// Identifiers from a resolving decorator carry their import path in Path.
type IdentFunc func(ident *dst.Ident) string

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// Stringify renders expr as Go source, passing every identifier in type
// position through rename. Selector expressions are already qualified and are
// left alone, as are field and method names. A nil rename writes identifiers
// by name alone.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types
func Stringify(expr dst.Expr, rename IdentFunc) string {
	if expr == nil {
		return ""
	}

	if rename == nil {
		rename = func(ident *dst.Ident) string { return ident.Name }
	}

	recurse := func(inner dst.Expr) string { return Stringify(inner, rename) }

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return rename(typedExpr)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		return StringifyExpr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + recurse(typedExpr.X)
	case *dst.ArrayType:
		return "[" + recurse(typedExpr.Len) + "]" + recurse(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + recurse(typedExpr.Key) + "]" + recurse(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + recurse(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + recurse(typedExpr.Value)
		default:
			return "chan " + recurse(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return stringifyInterfaceType(typedExpr, recurse)
	case *dst.StructType:
		return stringifyStructType(typedExpr, recurse)
	case *dst.FuncType:
		return "func" + stringifySignature(typedExpr, recurse)
	case *dst.Ellipsis:
		return "..." + recurse(typedExpr.Elt)
	case *dst.IndexExpr:
		return recurse(typedExpr.X) + "[" + recurse(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = recurse(idx)
		}

		return recurse(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + recurse(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// StringifyExpr renders expr exactly as written.
func StringifyExpr(expr dst.Expr) string {
	return Stringify(expr, nil)
}

// stringifyInterfaceType renders an interface literal on one line.
func stringifyInterfaceType(interfaceType *dst.InterfaceType, recurse func(dst.Expr) string) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	elems := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, isMethod := method.Type.(*dst.FuncType)
		if isMethod && len(method.Names) > 0 {
			elems = append(elems, method.Names[0].Name+stringifySignature(funcType, recurse))
			continue
		}

		// Embedded interface or type constraint.
		elems = append(elems, recurse(method.Type))
	}

	return "interface{ " + strings.Join(elems, "; ") + " }"
}

// stringifySignature renders the parameter and result lists of a func type,
// dropping parameter names.
func stringifySignature(funcType *dst.FuncType, recurse func(dst.Expr) string) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, recurse), ", "))
	}

	buf.WriteString(")")

	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return buf.String()
	}

	resultParts := ExpandFieldListTypes(funcType.Results.List, recurse)
	if len(resultParts) > 1 {
		buf.WriteString(" (" + strings.Join(resultParts, ", ") + ")")
	} else {
		buf.WriteString(" " + resultParts[0])
	}

	return buf.String()
}

// stringifyStructType renders a struct literal, preserving field names and tags.
func stringifyStructType(structType *dst.StructType, recurse func(dst.Expr) string) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(recurse(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}
