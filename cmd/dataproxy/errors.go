package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataproxy/errors"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitCode is 1 for typed domain errors (not found, conflict, rejected
// input, unsupported content) and 2 for everything else, such as transport
// failures and unclassified status codes.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.IsAppError(err) {
		return exitUserError
	}
	return exitSysError
}

// exactArgs is cobra.ExactArgs reporting a usage error as invalid input.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Validation(fmt.Sprintf("%s: accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args)))
		}
		return nil
	}
}
