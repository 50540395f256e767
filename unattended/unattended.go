// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package unattended

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/QubesOS/qubes-anaconda-addon/args"
	"github.com/QubesOS/qubes-anaconda-addon/controller"
	"github.com/QubesOS/qubes-anaconda-addon/log"
	"github.com/QubesOS/qubes-anaconda-addon/model"
	"github.com/QubesOS/qubes-anaconda-addon/progress"
)

// Unattended is the frontend implementation for kickstart driven runs, it
// also implements the progress interface: progress.Client
type Unattended struct {
	prgDesc  string
	prgIndex int
}

var (
	doneMark = color.New(color.FgGreen).SprintFunc()("done")
	failMark = color.New(color.FgRed).SprintFunc()("failed")
)

// New creates a new instance of the Unattended frontend implementation
func New() *Unattended {
	return &Unattended{}
}

// Step is the progress step implementation for progress.Client interface
func (ua *Unattended) Step() {
	elms := []string{"|", "-", "\\", "|", "/", "-", "\\"}

	fmt.Printf("%s [%s]\r", ua.prgDesc, elms[ua.prgIndex])

	if ua.prgIndex+1 == len(elms) {
		ua.prgIndex = 0
	} else {
		ua.prgIndex = ua.prgIndex + 1
	}
}

// LoopWaitDuration is part of the progress.Client implementation and returns the
// duration each loop progress step should wait
func (ua *Unattended) LoopWaitDuration() time.Duration {
	return 50 * time.Millisecond
}

// Desc is part of the progress.Client implementation and is used to adjust
// the label content for the current task
func (ua *Unattended) Desc(desc string) {
	ua.prgDesc = desc
}

// Partial is part of the progress.Client implementation and sets the progress
// based on actual progression
func (ua *Unattended) Partial(total int, step int) {
	line := fmt.Sprintf("%s %.0f%%\r", ua.prgDesc, (float64(step)/float64(total))*100)
	fmt.Printf("%s", line)
}

// Done is part of the progress.Client implementation and represents the
// progress task "done" notification
func (ua *Unattended) Done() {
	ua.prgIndex = 0
	fmt.Printf("%s [%s]\n", ua.prgDesc, doneMark)
}

// MustRun is part of the Frontend implementation and tells the core
// implementation that this frontend wants or should be executed
func (ua *Unattended) MustRun(args *args.Args) bool {
	return args.KickstartFile != "" && !args.ForceTUI
}

// Run is part of the Frontend implementation and is the actual entry point
// for the unattended frontend
func (ua *Unattended) Run(md *model.QubesSetup, rootDir string) (bool, error) {
	progress.Set(ua)

	log.Debug("Starting unattended configuration")

	if err := controller.Configure(rootDir, md); err != nil {
		fmt.Printf("%s [%s]\n", ua.prgDesc, failMark)
		return false, err
	}

	return true, nil
}
