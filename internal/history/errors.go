package history

import (
	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.HistoryError("could not open run history database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.HistoryError("failed to initialize run history schema").Build()

	// ErrRunNotFound indicates no run exists with the requested id.
	ErrRunNotFound = errors.NewError(errors.CategoryNotFound, "run not found").Build()
)
