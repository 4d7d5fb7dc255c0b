package apperr

import (
	"fmt"
	"os"

	"github.com/nissyi-gh/habits/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs err and exits the program with exit code 1. A nil err is ignored.
func Fatal(err error) {
	if err != nil {
		logger.Error("fatal", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}
