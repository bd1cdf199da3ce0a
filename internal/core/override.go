package core

import (
	"errors"
	"fmt"
	"reflect"
)

// FailureKind classifies why Override declined to build a proxy.
type FailureKind int

// FailureKind values.
const (
	FailureNone FailureKind = iota
	FailureClassNotFound
	FailureMethodNotFound
	FailureCountMismatch
	FailureSignatureMismatch
	FailureDuplicateMethod
)

// String returns a short description of the failure.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureClassNotFound:
		return "class not found"
	case FailureMethodNotFound:
		return "method not found"
	case FailureCountMismatch:
		return "count mismatch"
	case FailureSignatureMismatch:
		return "signature mismatch"
	case FailureDuplicateMethod:
		return "duplicate method"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Overrider builds proxies for classes held in a Registry.
type Overrider struct {
	registry *Registry
}

// NewOverrider creates an Overrider resolving classes through registry.
// A nil registry means DefaultRegistry().
func NewOverrider(registry *Registry) *Overrider {
	if registry == nil {
		registry = defaultRegistry
	}

	return &Overrider{registry: registry}
}

// Override creates a fresh instance of class and wraps it in a Proxy whose
// methodNames[i] delegates to implementations[i].
//
// Invalid input never panics and never surfaces as an error return: the Result
// reports the failure instead, so callers check Result.OK before use.
func (o *Overrider) Override(class string, methodNames []string, implementations []any) Result {
	factory, ok := o.registry.Lookup(class)
	if !ok {
		return failed(classify(Validate(class, false, methodNames, nil, len(implementations))))
	}

	instance := factory()
	if instance == nil {
		return failed(classify(Validate(class, false, methodNames, nil, len(implementations))))
	}

	return newProxy(class, instance, methodNames, implementations)
}

// OverrideInstance wraps an existing instance, identified by its dynamic type.
func (o *Overrider) OverrideInstance(instance any, methodNames []string, implementations []any) Result {
	class := "<nil>"
	if instance != nil {
		class = reflect.TypeOf(instance).String()
	}

	return newProxy(class, instance, methodNames, implementations)
}

// Result is the outcome of Override: either a Proxy or a Failure.
type Result struct {
	Proxy   *Proxy
	Failure FailureKind
	Err     error
}

// OK reports whether a proxy was built.
func (r Result) OK() bool {
	return r.Failure == FailureNone && r.Proxy != nil
}

// unexported types.
type classifiedError struct {
	kind FailureKind
	err  error
}

// bindImplementation checks that impl is a func shaped like methodType, taking the
// original delegate first and then either every method parameter or none of them.
// passArgs reports which of the two forms impl has.
//
//nolint:cyclop // One check per rule of the implementation contract
func bindImplementation(spec MethodSpec, methodType reflect.Type, impl any) (fn reflect.Value, passArgs bool, err error) {
	mismatch := func(reason string) error {
		return fmt.Errorf("%w: %w: implementation %d for %s: %s",
			ErrInvalidArgument, ErrSignatureMismatch, spec.Index, spec.Name, reason)
	}

	if impl == nil {
		return reflect.Value{}, false, mismatch("nil")
	}

	fn = reflect.ValueOf(impl)
	implType := fn.Type()

	if implType.Kind() != reflect.Func {
		return reflect.Value{}, false, mismatch(fmt.Sprintf("%T is not a func", impl))
	}

	if fn.IsNil() {
		return reflect.Value{}, false, mismatch(fmt.Sprintf("nil %T", impl))
	}

	if implType.NumIn() == 0 || implType.In(0) != originalType(methodType) {
		return reflect.Value{}, false, mismatch("first parameter must be " + originalType(methodType).String())
	}

	switch implType.NumIn() {
	case 1:
		if implType.IsVariadic() {
			return reflect.Value{}, false, mismatch("original delegate cannot be variadic")
		}
	case 1 + methodType.NumIn():
		if implType.IsVariadic() != methodType.IsVariadic() {
			return reflect.Value{}, false, mismatch("variadic parameter does not match")
		}

		for i := range methodType.NumIn() {
			if implType.In(i+1) != methodType.In(i) {
				return reflect.Value{}, false, mismatch(fmt.Sprintf(
					"parameter %d is %s, want %s", i+1, implType.In(i+1), methodType.In(i)))
			}
		}

		passArgs = true
	default:
		return reflect.Value{}, false, mismatch(fmt.Sprintf(
			"takes %d parameters, want 1 or %d", implType.NumIn(), 1+methodType.NumIn()))
	}

	if implType.NumOut() != methodType.NumOut() {
		return reflect.Value{}, false, mismatch(fmt.Sprintf(
			"returns %d values, want %d", implType.NumOut(), methodType.NumOut()))
	}

	for i := range methodType.NumOut() {
		if implType.Out(i) != methodType.Out(i) {
			return reflect.Value{}, false, mismatch(fmt.Sprintf(
				"result %d is %s, want %s", i, implType.Out(i), methodType.Out(i)))
		}
	}

	return fn, passArgs, nil
}

// classify classifies a validation error by the sentinel it wraps.
func classify(err error) classifiedError {
	switch {
	case err == nil:
		return classifiedError{kind: FailureNone}
	case errors.Is(err, ErrClassNotFound):
		return classifiedError{kind: FailureClassNotFound, err: err}
	case errors.Is(err, ErrMethodNotFound):
		return classifiedError{kind: FailureMethodNotFound, err: err}
	case errors.Is(err, ErrCountMismatch):
		return classifiedError{kind: FailureCountMismatch, err: err}
	case errors.Is(err, ErrDuplicateMethod):
		return classifiedError{kind: FailureDuplicateMethod, err: err}
	default:
		return classifiedError{kind: FailureSignatureMismatch, err: err}
	}
}

func failed(classified classifiedError) Result {
	return Result{Failure: classified.kind, Err: classified.err}
}

// newProxy validates the request against instance and binds every implementation.
// Nothing is bound unless every check passes.
func newProxy(class string, instance any, methodNames []string, implementations []any) Result {
	value := reflect.ValueOf(instance)

	hasMethod := func(name string) bool {
		return value.MethodByName(name).IsValid()
	}

	err := Validate(class, instance != nil, methodNames, hasMethod, len(implementations))
	if err != nil {
		return failed(classify(err))
	}

	proxy := &Proxy{
		class:           class,
		base:            value,
		implementations: append([]any(nil), implementations...),
		overrides:       make(map[string]override, len(methodNames)),
	}

	for index, name := range methodNames {
		spec, _ := DescribeMethod(value.Type(), name, index)
		methodType := value.MethodByName(name).Type()

		fn, passArgs, err := bindImplementation(spec, methodType, implementations[index])
		if err != nil {
			return failed(classify(err))
		}

		proxy.methods = append(proxy.methods, spec)
		proxy.overrides[name] = override{
			impl:         fn,
			passArgs:     passArgs,
			originalType: originalType(methodType),
		}
	}

	return Result{Proxy: proxy}
}

// originalType is the type of the original delegate for a method: no
// parameters, the method's results.
func originalType(methodType reflect.Type) reflect.Type {
	results := make([]reflect.Type, 0, methodType.NumOut())
	for i := range methodType.NumOut() {
		results = append(results, methodType.Out(i))
	}

	return reflect.FuncOf(nil, results, false)
}
