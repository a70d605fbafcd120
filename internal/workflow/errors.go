package workflow

import (
	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

// SafeguardMessage is matched by callers; keep the wording stable.
const SafeguardMessage = "Cannot publish docs in test environment without --dry-run"

// ErrSafeguardBlocked matches (via errors.Is) every error returned when the
// safeguard blocks a run.
var ErrSafeguardBlocked = ferrors.SafeguardError(SafeguardMessage).Build()

func safeguardError(environment string) error {
	return ferrors.SafeguardError(SafeguardMessage).
		WithContext("environment", environment).
		Build()
}

// IsSafeguardBlocked reports whether err was produced by the safeguard.
func IsSafeguardBlocked(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategorySafeguard)
}
