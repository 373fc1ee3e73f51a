package registry

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	constructFailedCode = "BACKEND_CONSTRUCTION_FAILED"
	notRegisteredCode   = "BACKEND_NOT_REGISTERED"
	duplicateCode       = "BACKEND_ALREADY_REGISTERED"
	instanceTypeCode    = "BACKEND_INSTANCE_TYPE"
)

var (
	// ErrConstruct reports a backend factory that failed or panicked.
	ErrConstruct = errors.New("registry: backend construction failed")
	// ErrNotRegistered reports a lookup for a name nothing was registered under.
	ErrNotRegistered = errors.New("registry: backend not registered")
	// ErrDuplicate reports a second registration for the same name.
	ErrDuplicate = errors.New("registry: backend already registered")
)

// constructError keeps its own category even when the factory returned a
// categorised error, which Wrap would otherwise clone.
func constructError(name string, cause error) error {
	err := goerrors.New(fmt.Sprintf("construct backend %q", name), goerrors.CategoryInternal).
		WithTextCode(constructFailedCode)
	err.Source = fmt.Errorf("%w: %w", ErrConstruct, cause)
	return err
}

// NotRegisteredError reports a lookup for a name with no slot.
func NotRegisteredError(name string) error {
	return goerrors.Wrap(ErrNotRegistered, goerrors.CategoryNotFound,
		fmt.Sprintf("backend %q is not registered", name)).
		WithTextCode(notRegisteredCode)
}

func duplicateError(name string) error {
	return goerrors.Wrap(ErrDuplicate, goerrors.CategoryConflict,
		fmt.Sprintf("backend %q is already registered", name)).
		WithTextCode(duplicateCode)
}

func instanceTypeError(name string, got any, want string) error {
	return goerrors.Wrap(fmt.Errorf("%w: instance is %T, want %s", ErrConstruct, got, want),
		goerrors.CategoryInternal, fmt.Sprintf("backend %q has an unexpected instance type", name)).
		WithTextCode(instanceTypeCode)
}
