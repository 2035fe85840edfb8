package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/smustafa75/aws-calc/pkg/runtime/terminal/commands"
	"github.com/smustafa75/aws-calc/pkg/services/config"
	"github.com/smustafa75/aws-calc/pkg/services/pricing"
	"github.com/smustafa75/aws-calc/pkg/store/table"
)

// Process exit codes. Row-level failures still exit with ExitOK.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitInput         = 2
	ExitMissingColumn = 3
	ExitTransport     = 4
	ExitOutput        = 5
)

// ExitError carries the exit code for a failed run and an optional hint for the user.
type ExitError struct {
	Code int
	Hint string
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Classify maps a run error to its exit code.
func Classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case errors.Is(err, commands.ErrWriteOutput):
		hint := "check file permissions or choose a different location"
		if errors.Is(err, table.ErrOutputDir) {
			hint = "provide an existing output directory"
		}
		return &ExitError{Code: ExitOutput, Hint: hint, Err: err}
	case errors.Is(err, table.ErrMissingColumn):
		return &ExitError{Code: ExitMissingColumn, Hint: "the input table must contain an 'inst_type' column", Err: err}
	case errors.Is(err, commands.ErrReadInput):
		return &ExitError{Code: ExitInput, Hint: inputHint(err), Err: err}
	case pricing.IsTransport(err):
		return &ExitError{Code: ExitTransport, Err: err}
	case errors.Is(err, config.ErrProfileNotFound):
		return &ExitError{
			Code: ExitUsage,
			Hint: "check your AWS credentials file (~/.aws/credentials) or specify a different profile with -p/--profile",
			Err:  err,
		}
	case errors.Is(err, config.ErrNoCredentials):
		// No usable identity is an auth failure, like a rejected one.
		return &ExitError{
			Code: ExitTransport,
			Hint: "configure credentials with 'aws configure' or specify a profile with -p/--profile",
			Err:  err,
		}
	case errors.Is(err, context.Canceled):
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("interrupted: %w", err)}
	default:
		return &ExitError{Code: ExitUsage, Err: err}
	}
}

func inputHint(err error) string {
	switch {
	case errors.Is(err, table.ErrNotFound):
		return "provide a valid file path"
	case errors.Is(err, table.ErrUnsupportedFormat):
		return "supported formats: .csv, .xlsx"
	default:
		return ""
	}
}
