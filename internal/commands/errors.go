package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures so the CLI and host applications
// can branch on outcome without matching error strings.
const (
	TextCodeInvalidMessage = "INKPRESS_CMD_INVALID_MESSAGE"
	TextCodeCanceled       = "INKPRESS_CMD_CANCELED"
	TextCodeTimedOut       = "INKPRESS_CMD_TIMED_OUT"
	TextCodeContextFailure = "INKPRESS_CMD_CONTEXT_FAILURE"
	TextCodeFailed         = "INKPRESS_CMD_FAILED"
)

// tagError categorizes err once; errors already wrapped by an inner layer
// keep their original category and code.
func tagError(err error, category goerrors.Category, code, msg string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tagError(err, goerrors.CategoryValidation, TextCodeInvalidMessage,
		"message failed validation")
}

func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return tagError(err, goerrors.CategoryCommand, TextCodeTimedOut,
			"command run exceeded its deadline")
	case errors.Is(err, context.Canceled):
		return tagError(err, goerrors.CategoryCommand, TextCodeCanceled,
			"command run was canceled")
	default:
		return tagError(err, goerrors.CategoryCommand, TextCodeContextFailure,
			"command context failed")
	}
}

func wrapExecuteError(err error) error {
	return tagError(err, goerrors.CategoryCommand, TextCodeFailed,
		"command run failed")
}
