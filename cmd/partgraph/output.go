// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/api"
	"github.com/AleutianAI/partgraph/cmd/partgraph/internal/render"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitError   = 1 // Operation failed
	CLIExitTimeout = 2 // A bounded wait expired before completion
)

// emitJSON writes data to stdout as JSON, honoring --pretty.
func emitJSON(data interface{}) error {
	return render.WriteJSON(os.Stdout, data, !flagPretty)
}

// colorEnabled reports whether styled output should be used.
func colorEnabled() bool {
	return !flagNoColor && render.DetectColor(os.Stdout)
}

// reportError prints a failure to stderr in its richest available
// form: the structured service error with remediation when present,
// the plain message otherwise.
func reportError(err error) {
	var serviceErr *api.ServiceError
	if errors.As(err, &serviceErr) {
		fmt.Fprintln(os.Stderr, serviceErr.FullError())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
