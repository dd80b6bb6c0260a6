package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAborted is returned when the user declines a destructive operation.
	ErrAborted = errors.New("operation cancelled")
	// ErrConfirmationRequired is returned when a destructive operation runs
	// without a terminal and without --yes.
	ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")
)

// confirm asks a yes/no question unless yes is already set.
func (e *env) confirm(question string, yes bool) error {
	if yes {
		return nil
	}
	if !e.Interactive() {
		return ErrConfirmationRequired
	}

	fmt.Fprintf(e.Out, "%s [s/N]: ", question)
	line, err := bufio.NewReader(e.In).ReadString('\n')
	if err != nil && line == "" {
		return ErrAborted
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return nil
	default:
		return ErrAborted
	}
}
