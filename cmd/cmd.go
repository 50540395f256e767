// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/log"
)

type runLogger struct{}

func (rl runLogger) Write(p []byte) (n int, err error) {
	for _, curr := range strings.Split(string(p), "\n") {
		if curr == "" {
			continue
		}

		log.Out(curr)
	}
	return len(p), nil
}

// chrootArgs adjusts args to run inside root, the command is executed
// directly when root is the host's
func chrootArgs(root string, args []string) []string {
	if root == "" || root == "/" {
		return args
	}

	return append([]string{"chroot", root}, args...)
}

// RunAndLog executes a command (similar to Run) but takes care of writing
// the output to default logger
func RunAndLog(args ...string) error {
	return Run(runLogger{}, args...)
}

// RunChrootAndLog executes a command inside the system root pointed by root
// writing the output to the default logger
func RunChrootAndLog(root string, args ...string) error {
	return Run(runLogger{}, chrootArgs(root, args)...)
}

// RunChroot executes a command inside the system root pointed by root, a
// nil writer discards the output
func RunChroot(writer io.Writer, root string, args ...string) error {
	return Run(writer, chrootArgs(root, args)...)
}

// RunAndCapture executes a command and returns its stdout content, stderr
// is written to the default logger
func RunAndCapture(args ...string) (string, error) {
	buf := &bytes.Buffer{}

	log.Debug("%s", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = buf
	cmd.Stderr = runLogger{}

	if err := cmd.Run(); err != nil {
		return buf.String(), errors.Wrap(err)
	}

	return buf.String(), nil
}

// Run executes a command and uses writer to write both stdout and stderr
// args are the actual command and its arguments
func Run(writer io.Writer, args ...string) error {
	log.Debug("%s", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)

	cmd.Stdout = writer
	cmd.Stderr = writer

	if err := cmd.Run(); err != nil {
		return err
	}

	return nil
}
