// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frontend

import (
	"github.com/QubesOS/qubes-anaconda-addon/args"
	"github.com/QubesOS/qubes-anaconda-addon/model"
)

// Frontend is the common interface for the frontend entry point
type Frontend interface {
	// MustRun is the method where the frontend implementation tells the
	// core code that this frontend wants to run
	MustRun(args *args.Args) bool

	// Run is the actual entry point
	Run(md *model.QubesSetup, rootDir string) (bool, error)
}
