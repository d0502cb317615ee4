package cli

import (
	"errors"
	"os"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// cmdError carries an exit code and optional hints with an error.
type cmdError struct {
	code  int
	err   error
	hints []string
}

func (e *cmdError) Error() string { return e.err.Error() }
func (e *cmdError) Unwrap() error { return e.err }

// userError marks err as caused by the user's input.
func userError(err error, hints ...string) error {
	return &cmdError{code: exitUserError, err: err, hints: hints}
}

// userErrors are failures caused by arguments, files, or config values
// the user supplied.
var userErrors = []error{
	types.ErrIndexOutOfRange,
	types.ErrInvalidTransition,
	types.ErrBlankItem,
	types.ErrInvalidItem,
	types.ErrFormat,
	types.ErrInvalidQuery,
	types.ErrInvalidColor,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
	types.ErrNamePrefixInvalid,
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cmdError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// hintsFor suggests a fix for common layout errors.
func hintsFor(err error) []string {
	switch {
	case errors.Is(err, types.ErrIndexOutOfRange):
		return []string{"Slots are numbered 0 to 59, left to right and top to bottom."}
	case errors.Is(err, types.ErrInvalidTransition):
		return []string{"Run 'shopmap occupy <index>' on an empty slot", "Use 'shopmap add <index> <item>' on an occupied slot"}
	case errors.Is(err, types.ErrInvalidItem):
		return []string{"Item text must be UTF-8; check the terminal's character encoding."}
	case errors.Is(err, types.ErrFormat):
		return []string{"The file must be a JSON array of exactly 60 entries, null or {\"index\",\"name\",\"color\",\"items\"}."}
	case errors.Is(err, os.ErrNotExist):
		return []string{"Check the file path."}
	}
	return nil
}

// layoutError wraps a layout or import failure with its exit code and hints.
func layoutError(err error) error {
	if err == nil {
		return nil
	}
	code := ExitCode(err)
	if errors.Is(err, os.ErrNotExist) {
		code = exitUserError
	}
	return &cmdError{code: code, err: err, hints: hintsFor(err)}
}
