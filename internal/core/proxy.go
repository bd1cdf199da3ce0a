package core

import (
	"fmt"
	"reflect"
)

// Proxy embeds an instance of a class and routes calls to overridden methods
// through their implementations. Methods that were not overridden reach the
// embedded instance unchanged.
type Proxy struct {
	class           string
	base            reflect.Value
	methods         []MethodSpec
	implementations []any
	overrides       map[string]override
}

// Base returns the embedded instance. Calling its methods directly bypasses the overrides.
func (p *Proxy) Base() any {
	return p.base.Interface()
}

// Call invokes method with args and returns its results.
//
// For an overridden method, the implementation receives the original delegate,
// which calls the embedded method with exactly these args, followed by the args
// themselves when it declares them. Its results are returned as they are.
func (p *Proxy) Call(method string, args ...any) ([]any, error) {
	target := p.base.MethodByName(method)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, p.class, method)
	}

	in, err := argumentValues(method, target.Type(), args)
	if err != nil {
		return nil, err
	}

	ovr, ok := p.overrides[method]
	if !ok {
		return interfaces(target.Call(in)), nil
	}

	original := reflect.MakeFunc(ovr.originalType, func([]reflect.Value) []reflect.Value {
		return target.Call(in)
	})

	implIn := []reflect.Value{original}
	if ovr.passArgs {
		implIn = append(implIn, in...)
	}

	return interfaces(ovr.impl.Call(implIn)), nil
}

// Class returns the identifier of the embedded class.
func (p *Proxy) Class() string {
	return p.class
}

// ClassName returns the name a generated proxy for this class would have.
func (p *Proxy) ClassName() string {
	return ProxyClassName(p.class)
}

// Implementations returns the bound implementations, index-aligned with Methods.
func (p *Proxy) Implementations() []any {
	return append([]any(nil), p.implementations...)
}

// Methods returns the overridden methods in the order they were requested.
func (p *Proxy) Methods() []MethodSpec {
	return append([]MethodSpec(nil), p.methods...)
}

// Overrides reports whether method is routed through an implementation.
func (p *Proxy) Overrides(method string) bool {
	_, ok := p.overrides[method]
	return ok
}

// Invoke calls method on proxy and returns its first result as R.
// A nil first result yields R's zero value.
func Invoke[R any](proxy *Proxy, method string, args ...any) (R, error) {
	var zero R

	out, err := proxy.Call(method, args...)
	if err != nil {
		return zero, err
	}

	if len(out) == 0 {
		return zero, fmt.Errorf("%w: %s returns nothing", ErrResultType, method)
	}

	if out[0] == nil {
		return zero, nil
	}

	result, ok := out[0].(R)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T, want %s", ErrResultType, method, out[0], TypeName[R]())
	}

	return result, nil
}

// unexported types.
type override struct {
	impl         reflect.Value
	passArgs     bool
	originalType reflect.Type
}

// argumentValues converts args to the parameter types of methodType. The
// variadic parameter, if any, takes every remaining argument individually.
func argumentValues(method string, methodType reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := methodType.NumIn()
	if methodType.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!methodType.IsVariadic() && len(args) != fixed) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrWrongArgumentCount, method, fixed, len(args))
	}

	in := make([]reflect.Value, 0, len(args))

	for i, arg := range args {
		paramType := methodType.In(min(i, methodType.NumIn()-1))
		if i >= fixed {
			paramType = paramType.Elem()
		}

		value, err := argumentValue(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d", err, method, i)
		}

		in = append(in, value)
	}

	return in, nil
}

func argumentValue(arg any, paramType reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if !nillable(paramType) {
			return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrWrongArgumentType, paramType)
		}

		return reflect.Zero(paramType), nil
	}

	value := reflect.ValueOf(arg)
	if !value.Type().AssignableTo(paramType) {
		return reflect.Value{}, fmt.Errorf("%w: %s for %s", ErrWrongArgumentType, value.Type(), paramType)
	}

	return value, nil
}

func interfaces(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value.Interface()
	}

	return out
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() { //nolint:exhaustive // Every other kind has a non-nil zero value
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
