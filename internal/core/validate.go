package core

import (
	"errors"
	"fmt"
	"strings"
)

// Exported constants.
const (
	// ProxySuffix is appended to a class's short name to name its generated proxy.
	ProxySuffix = "CacheProxy"
)

// Exported variables.
var (
	ErrClassNotFound         = errors.New("class does not exist")
	ErrCountMismatch         = errors.New("number of methods and implementations must match")
	ErrDuplicateMethod       = errors.New("method listed more than once")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidImplementation = errors.New("implementation is not a function")
	ErrInvalidRegistration   = errors.New("invalid registration")
	ErrMethodNotFound        = errors.New("method does not exist")
	ErrResultType            = errors.New("unexpected result type")
	ErrSignatureMismatch     = errors.New("implementation does not match method signature")
	ErrWrongArgumentCount    = errors.New("wrong number of arguments")
	ErrWrongArgumentType     = errors.New("argument not assignable to parameter")
)

// ProxyClassName derives the generated proxy's name from a class identifier by
// dropping any path or package qualifiers and appending ProxySuffix.
// "github.com/acme/service.IntegerService" becomes "IntegerServiceCacheProxy".
func ProxyClassName(class string) string {
	short := class
	if idx := strings.LastIndexAny(short, `/.\`); idx >= 0 {
		short = short[idx+1:]
	}

	short = strings.TrimPrefix(short, "*")

	return short + ProxySuffix
}

// Validate runs the fail-fast checks shared by Override and code generation:
// the class must exist, every method must exist (once), and there must be exactly
// one implementation per method. The first failing check wins. Returned errors wrap
// ErrInvalidArgument and one of ErrClassNotFound, ErrMethodNotFound,
// ErrDuplicateMethod or ErrCountMismatch.
func Validate(
	class string,
	classExists bool,
	methodNames []string,
	hasMethod func(string) bool,
	implementationCount int,
) error {
	if !classExists {
		return fmt.Errorf("%w: %w: %s", ErrInvalidArgument, ErrClassNotFound, class)
	}

	for _, name := range methodNames {
		if !hasMethod(name) {
			return fmt.Errorf("%w: %w: %s.%s", ErrInvalidArgument, ErrMethodNotFound, class, name)
		}
	}

	seen := make(map[string]bool, len(methodNames))

	for _, name := range methodNames {
		if seen[name] {
			return fmt.Errorf("%w: %w: %s.%s", ErrInvalidArgument, ErrDuplicateMethod, class, name)
		}

		seen[name] = true
	}

	if len(methodNames) != implementationCount {
		return fmt.Errorf(
			"%w: %w: %d methods, %d implementations",
			ErrInvalidArgument, ErrCountMismatch, len(methodNames), implementationCount,
		)
	}

	return nil
}
