package dispatch

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	noCapabilityCode   = "CAPABILITY_UNSUPPORTED"
	parseFailedCode    = "PARSE_FAILED"
	invalidRequestCode = "INVALID_REQUEST"
	contextCanceled    = "CONTEXT_CANCELED"
	contextTimeout     = "CONTEXT_TIMEOUT"
)

var (
	// ErrNoCapability reports a backend that exposes nothing usable for the requested mode.
	ErrNoCapability = errors.New("dispatch: no usable capability")
	// ErrParse reports a failure raised by the wrapped library while parsing.
	ErrParse = errors.New("dispatch: parse failed")
	// ErrInvalidRequest reports a call rejected before reaching the backend.
	ErrInvalidRequest = errors.New("dispatch: invalid request")
)

// ParseError wraps a library failure in the uniform parse error shape.
// Errors that are already parse errors pass through untouched.
func ParseError(backend string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrParse) {
		return cause
	}
	err := goerrors.New(fmt.Sprintf("%s: parse failed", backend), goerrors.CategoryBadInput).
		WithTextCode(parseFailedCode)
	err.Source = fmt.Errorf("%w: %w", ErrParse, cause)
	return err
}

// PanicError converts a recovered panic value into a parse error.
func PanicError(backend string, recovered any) error {
	if err, ok := recovered.(error); ok {
		return ParseError(backend, fmt.Errorf("panic: %w", err))
	}
	return ParseError(backend, fmt.Errorf("panic: %v", recovered))
}

func noCapabilityError(backend, mode, input string) error {
	return goerrors.Wrap(ErrNoCapability, goerrors.CategoryOperation,
		fmt.Sprintf("%s: could not parse %q: no %s capability", backend, preview(input), mode)).
		WithTextCode(noCapabilityCode).
		WithMetadata(map[string]any{"backend": backend, "mode": mode})
}

func invalidRequestError(backend string, cause error) error {
	return goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidRequest, cause), goerrors.CategoryValidation,
		fmt.Sprintf("%s: invalid request", backend)).
		WithTextCode(invalidRequestCode)
}

// ContextError reports a cancelled or expired context as CONTEXT_CANCELED or
// CONTEXT_TIMEOUT. Backends and the dispatcher share this shape.
func ContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "parse deadline exceeded").
			WithTextCode(contextTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "parse cancelled").
		WithTextCode(contextCanceled)
}

// TagRequest records requestID on the first *goerrors.Error in err's chain
// unless one is already set. err is returned unchanged otherwise.
func TagRequest(err error, requestID string) error {
	var tagged *goerrors.Error
	if requestID != "" && errors.As(err, &tagged) && tagged.RequestID == "" {
		tagged.RequestID = requestID
	}
	return err
}

func preview(input string) string {
	const limit = 64
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit]) + "..."
}
