// Package overrider replaces chosen methods of a type with caller-supplied
// implementations. Each implementation receives the original method as a
// closure, so it can decorate, replace or cache the original result.
//
// Two paths are offered. Override builds a proxy at runtime by reflection over
// a registered type. GenerateOverriddenClass emits Go source for a typed proxy
// struct (the same code the overgen tool writes for go:generate).
//
// This is the public API entry point. Implementation lives in internal/core
// and overgen/run.
package overrider

import (
	"github.com/toejough/overrider/internal/core"
	"github.com/toejough/overrider/overgen/run"
	load "github.com/toejough/overrider/overgen/run/2_load"
)

// Types re-exported from internal/core.

// Factory creates a fresh instance of a registered class.
type Factory = core.Factory

// FailureKind classifies why Override declined to build a proxy.
type FailureKind = core.FailureKind

// MethodSpec describes one overridden method.
type MethodSpec = core.MethodSpec

// Overrider builds proxies for classes held in a Registry.
type Overrider = core.Overrider

// ParameterSpec describes one declared parameter of an overridden method.
type ParameterSpec = core.ParameterSpec

// Proxy is a runtime proxy around an instance.
type Proxy = core.Proxy

// Registry maps class identifiers to factories.
type Registry = core.Registry

// Result is the outcome of Override.
type Result = core.Result

// Types re-exported from overgen/run.

// GeneratedClass is the generated proxy source with its implementations and type name.
type GeneratedClass = run.GeneratedClass

// Option configures GenerateOverriddenClass.
type Option = run.Option

// FailureKind values.
const (
	FailureNone              = core.FailureNone
	FailureClassNotFound     = core.FailureClassNotFound
	FailureMethodNotFound    = core.FailureMethodNotFound
	FailureCountMismatch     = core.FailureCountMismatch
	FailureSignatureMismatch = core.FailureSignatureMismatch
	FailureDuplicateMethod   = core.FailureDuplicateMethod
)

// ProxySuffix is appended to a type's name to name its proxy.
const ProxySuffix = core.ProxySuffix

// Exported variables.
var (
	ErrClassNotFound         = core.ErrClassNotFound
	ErrCountMismatch         = core.ErrCountMismatch
	ErrDuplicateMethod       = core.ErrDuplicateMethod
	ErrGenericType           = run.ErrGenericType
	ErrInvalidArgument       = core.ErrInvalidArgument
	ErrInvalidImplementation = core.ErrInvalidImplementation
	ErrInvalidRegistration   = core.ErrInvalidRegistration
	ErrMethodNotFound        = core.ErrMethodNotFound
	ErrResultType            = core.ErrResultType
	ErrSignatureMismatch     = core.ErrSignatureMismatch
	ErrWrongArgumentCount    = core.ErrWrongArgumentCount
	ErrWrongArgumentType     = core.ErrWrongArgumentType
)

// GenerateOverriddenClass generates the Go source of a proxy for class, resolved
// from the working directory: "Type", "pkg.Type" or "import/path.Type".
// methodNames[i] is routed to implementations[i]. Invalid input is reported as
// an error wrapping ErrInvalidArgument.
func GenerateOverriddenClass(
	class string, methodNames []string, implementations []any, opts ...Option,
) (GeneratedClass, error) {
	return run.GenerateOverriddenClass(load.Loader{}, class, methodNames, implementations, opts...)
}

// Invoke calls method on proxy and returns its single result as R.
func Invoke[R any](proxy *Proxy, method string, args ...any) (R, error) {
	return core.Invoke[R](proxy, method, args...)
}

// NewOverrider creates an Overrider resolving classes through registry.
// A nil registry means the default registry.
func NewOverrider(registry *Registry) *Overrider {
	return core.NewOverrider(registry)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return core.NewRegistry()
}

// Override creates a fresh instance of a class from the default registry and
// routes methodNames[i] to implementations[i]. It never panics: check
// Result.OK before using Result.Proxy.
func Override(class string, methodNames []string, implementations []any) Result {
	return core.NewOverrider(nil).Override(class, methodNames, implementations)
}

// OverrideInstance wraps an existing instance instead of a registered class.
func OverrideInstance(instance any, methodNames []string, implementations []any) Result {
	return core.NewOverrider(nil).OverrideInstance(instance, methodNames, implementations)
}

// ProxyClassName returns the proxy name for class: its last segment plus ProxySuffix.
func ProxyClassName(class string) string {
	return core.ProxyClassName(class)
}

// Register adds factory to the default registry under class.
func Register(class string, factory Factory) error {
	return core.DefaultRegistry().Register(class, factory) //nolint:wrapcheck // re-exported API
}

// RegisterType registers *T in the default registry under its type name and returns that name.
func RegisterType[T any]() string {
	return core.RegisterType[T](core.DefaultRegistry())
}

// WithImportPath sets the import path generated code uses for the target package.
func WithImportPath(importPath string) Option {
	return run.WithImportPath(importPath)
}

// WithName sets the generated proxy's type name.
func WithName(name string) Option {
	return run.WithName(name)
}

// WithPackage sets the package clause of the generated code.
func WithPackage(pkgName string) Option {
	return run.WithPackage(pkgName)
}
