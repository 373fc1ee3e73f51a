package filecache

import (
	"errors"
	"fmt"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
)

const readFailedCode = "FILE_READ_FAILED"

// ErrRead marks every failure to load a file through the cache.
var ErrRead = errors.New("filecache: read failed")

// ReadError wraps a storage failure for path in the uniform I/O error shape.
// Readers that bypass the cache use it so callers see one error kind.
func ReadError(path string, err error) error {
	if err == nil {
		return nil
	}
	category := goerrors.CategoryOperation
	if errors.Is(err, fs.ErrNotExist) {
		category = goerrors.CategoryNotFound
	}
	return goerrors.Wrap(fmt.Errorf("%w: %w", ErrRead, err), category, fmt.Sprintf("read %s", path)).
		WithTextCode(readFailedCode).
		WithMetadata(map[string]any{"path": path})
}
