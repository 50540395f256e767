// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package progress

import (
	"fmt"
	"time"
)

// Client is the interface a frontend must implement in order to be notified
// about the setup progress
type Client interface {
	// Desc is called when a new progress unit is started
	Desc(desc string)

	// Partial is called on behalf of a MultiStep progress task - it's called for
	// each partial step completion
	Partial(total int, step int)

	// Step is called on behalf of a Loop progress task - it's called based on the
	// time returned by LoopWaitDuration
	Step()

	// Done is called whenever a progress task is completed
	Done()

	// LoopWaitDuration gives the implementation the opportunity to configure the
	// loop progress step period
	LoopWaitDuration() time.Duration
}

// Progress is the internal interface for the progress subsystem, currently we
// have two different implementations: a MultiStep and a Loop based one
type Progress interface {
	Partial(step int)
	Done()
}

// MultiStepProgress is used for tasks with a known number of steps
type MultiStepProgress struct {
	total int
}

// Loop is used for tasks with no defined duration, it steps until Done
type Loop struct {
	done chan bool
}

var (
	impl Client
)

// Set defines the default progress client implementation
func Set(pi Client) {
	impl = pi
}

// MultiStep creates a new MultiStepProgress with total steps
func MultiStep(total int, format string, a ...interface{}) Progress {
	if impl == nil {
		panic("No progress implementation was configured. Use progress.Set() before using progress.")
	}

	impl.Desc(fmt.Sprintf(format, a...))
	return &MultiStepProgress{total: total}
}

func runStepLoop(prg *Loop, dur time.Duration) {
	for {
		select {
		case <-prg.done:
			return
		default:
			impl.Step()
			time.Sleep(dur)
		}
	}
}

// NewLoop creates a new Loop based progress implementation
func NewLoop(format string, a ...interface{}) Progress {
	if impl == nil {
		panic("No progress implementation was configured. Use progress.Set() before using progress.")
	}

	prg := &Loop{done: make(chan bool)}

	impl.Desc(fmt.Sprintf(format, a...))
	go runStepLoop(prg, impl.LoopWaitDuration())

	return prg
}

// Done notifies the actual implementation the Loop based task has finished
func (prg *Loop) Done() {
	prg.done <- true
	impl.Done()
}

// Partial is a no-op for Loop progress, the loop steps on its own
func (prg *Loop) Partial(step int) {
}

// Partial notifies the actual implementation we've moved one step on the
// set of steps for the MultiStep progress implementation
func (prg *MultiStepProgress) Partial(step int) {
	impl.Partial(prg.total, step)
}

// Done notifies the actual implementation the MultiStep task has finished
func (prg *MultiStepProgress) Done() {
	impl.Done()
}
