// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. These centralize
// the raw I/O that legitimately happens before or after the structured
// logger exists: fatal error reporting in main() and process exit
// after an unrecoverable error.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// Exit exits with the given code. When code is non-zero and err is
// non-nil, the error is written to stderr first. This exists so the
// run wrapper can mirror a wrapped build command's exit code.
func Exit(code int, err error) {
	if code != 0 && err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}
