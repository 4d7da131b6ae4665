package errs

import (
	"errors"
	"strings"
)

// Signals the external tools print when a resource is already present.
var alreadyExistsSignals = []string{
	"already exists",
	"alreadyexists",
	"already_exists",
	"error 409",
	"code = alreadyexists",
}

// IsAlreadyExists reports whether err is an idempotent conflict, either typed
// or recognised from the message of an external tool.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var ae *AlreadyExistsError
	if errors.As(err, &ae) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range alreadyExistsSignals {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
