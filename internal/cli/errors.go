package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

// usageError is returned by handlers called with the wrong arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func usage(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	var u usageError
	switch {
	case errors.As(err, &u):
		return "Usage: " + string(u)
	case errors.Is(err, common.ErrSessionExpired):
		return "Session expired, please log in again."
	case errors.Is(err, common.ErrNoActiveSession):
		return "Not logged in."
	case errors.Is(err, common.ErrorUnauthorized):
		return "Wrong username or password."
	case errors.Is(err, common.ErrorNotFound):
		return "Not found."
	case errors.Is(err, common.ErrAlreadyExists):
		return "Already exists."
	case errors.Is(err, common.ErrDecryptionFailed):
		return "Data could not be decrypted: wrong key, wrong passphrase or corrupted data."
	case errors.Is(err, common.ErrInvalidOptions), errors.Is(err, common.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
