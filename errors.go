package parsers

import (
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/filecache"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/validation"
)

// Sentinels matched with errors.Is. Every returned error is also a
// *goerrors.Error carrying a category and text code.
var (
	ErrFileRead         = filecache.ErrRead
	ErrBackendConstruct = registry.ErrConstruct
	ErrBackendNotFound  = registry.ErrNotRegistered
	ErrBackendDuplicate = registry.ErrDuplicate
	ErrParse            = dispatch.ErrParse
	ErrNoCapability     = dispatch.ErrNoCapability
	ErrInvalidRequest   = dispatch.ErrInvalidRequest
	ErrSchemaValidation = validation.ErrSchemaValidation
)
