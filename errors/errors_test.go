// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package errors

import (
	"fmt"
	"testing"
)

func TestErrorf(t *testing.T) {
	err := Errorf("traceable error")

	e, ok := err.(TraceableError)
	if !ok {
		t.Fatal("Errorf() should return a TraceableError")
	}

	if e.Trace == "" {
		t.Fatal("Traceable error should contain trace info")
	}

	if e.Error() != e.What {
		t.Fatal("Error() should return the content of What member")
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(fmt.Errorf("wrapped error"))

	e, ok := err.(TraceableError)
	if !ok {
		t.Fatal("Wrap() should return a TraceableError")
	}

	if e.What != "wrapped error" {
		t.Fatalf("Wrap() should keep the original message, got: %s", e.What)
	}

	if e.Trace == "" {
		t.Fatal("Traceable error should contain trace info")
	}
}
