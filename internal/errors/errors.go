package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/iamhollywoodpro/strivetrack/internal/logger"
)

// Hinter is implemented by errors that carry a suggestion for the user,
// such as "run 'strivetrack login' first".
type Hinter interface {
	Hint() string
}

// Format renders err with the "Error: " prefix, followed by a hint line when
// any error in the chain provides one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var h Hinter
	if stderrors.As(err, &h) && h.Hint() != "" {
		msg += "\n  hint: " + h.Hint()
	}
	return msg
}

func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }
func (h *hinted) Hint() string  { return h.hint }

// Fatal logs err and exits with status 1. A nil error is ignored.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
