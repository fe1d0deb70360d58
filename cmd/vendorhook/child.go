// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// runChild executes the wrapped build command with inherited
// stdin/stdout/stderr and returns its exit code.
//
// Signal forwarding ensures that signals sent to vendorhook reach the
// build command, so an interrupted build still flows through cleanup:
// the child exits on the forwarded signal, runChild returns, and the
// caller runs Finalize before vendorhook itself exits.
func runChild(command []string) (int, error) {
	child := exec.Command(command[0], command[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Start(); err != nil {
		return 126, fmt.Errorf("starting build command %q: %w", command[0], err)
	}

	// Forward signals to the child. The channel is buffered to avoid
	// missing signals delivered between channel creation and Notify.
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(signals)
	go forwardSignals(signals, child.Process)

	if err := child.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), fmt.Errorf("build command failed: %w", err)
		}
		return 1, fmt.Errorf("waiting for build command: %w", err)
	}

	return 0, nil
}

// forwardSignals reads signals from the channel and sends them to the
// child process. Errors are ignored: the child may have already
// exited, in which case delivery fails harmlessly.
func forwardSignals(signals <-chan os.Signal, child *os.Process) {
	for sig := range signals {
		if sysSig, ok := sig.(syscall.Signal); ok {
			_ = child.Signal(sysSig)
		}
	}
}
