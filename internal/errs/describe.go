package errs

import (
	"errors"
)

// Description is the user-facing rendering of an error.
type Description struct {
	Code    string
	Message string
	Hint    string
}

// Describe classifies err for the CLI. Unknown errors keep their message.
func Describe(err error) Description {
	var (
		ve  *ValidationError
		ae  *AuthenticationError
		nf  *NotFoundError
		tm  *ToolMissingError
		cr  *ConcurrentRunError
		pe  *ProvisioningError
		aex *AlreadyExistsError
		pr  *ProtectedError
	)

	switch {
	case errors.Is(err, ErrAborted):
		return Description{Code: "aborted", Message: "nothing was changed"}
	case errors.As(err, &ve):
		msg := ve.Message
		if ve.Field != "" {
			msg = ve.Field + ": " + ve.Message
		}
		return Description{Code: "invalid_config", Message: msg}
	case errors.As(err, &ae):
		return Description{Code: "not_authenticated", Message: ae.Message, Hint: ae.Hint}
	case errors.As(err, &nf):
		return Description{Code: "not_found", Message: nf.Message}
	case errors.As(err, &tm):
		return Description{Code: "tool_missing", Message: tm.Message, Hint: "install " + tm.Tool + " and retry"}
	case errors.As(err, &cr):
		return Description{Code: "concurrent_run", Message: cr.Message, Hint: "wait for the other run to finish or remove a stale lock"}
	case errors.As(err, &pe):
		return Description{Code: "provisioning_failed", Message: pe.Message, Hint: "re-running deploy is safe; resources are upserted"}
	case errors.As(err, &pr):
		return Description{Code: "protected", Message: pr.Message, Hint: "re-run with --force to unprotect and destroy"}
	case errors.As(err, &aex):
		return Description{Code: "already_exists", Message: aex.Message}
	default:
		return Description{Code: "internal_error", Message: err.Error()}
	}
}
