// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"time"

	"github.com/VladimirMarkelov/clui"

	"github.com/QubesOS/qubes-anaconda-addon/controller"
	"github.com/QubesOS/qubes-anaconda-addon/progress"
)

// ConfigurePage is the Page implementation for the configuration progress page, it also
// implements the progress.Client interface
type ConfigurePage struct {
	BasePage
	exitBtn  *SimpleButton
	prgBar   *clui.ProgressBar
	prgLabel *clui.Label
	prgMax   int
}

var (
	loopWaitDuration = 2 * time.Second
)

// Done is part of the progress.Client implementation and sets the progress bar to "full"
func (page *ConfigurePage) Done() {
	page.prgBar.SetValue(page.prgMax)
	clui.RefreshScreen()
}

// Step is part of the progress.Client implementation and moves the progress bar one step
// case it becomes full it starts again
func (page *ConfigurePage) Step() {
	if page.prgBar.Value() == page.prgMax {
		page.prgBar.SetValue(0)
	} else {
		page.prgBar.Step()
	}
	clui.RefreshScreen()
}

// Desc is part of the progress.Client implementation and sets the progress bar label
func (page *ConfigurePage) Desc(desc string) {
	page.prgLabel.SetTitle(desc)
	clui.RefreshScreen()
}

// Partial is part of the progress.Client implementation and adjusts the progress bar to the
// current completion percentage
func (page *ConfigurePage) Partial(total int, step int) {
	page.prgBar.SetValue(page.prgMax * step / total)
}

// LoopWaitDuration is part of the progress.Client implementation and returns the time duration
// each step should wait until calling Step again
func (page *ConfigurePage) LoopWaitDuration() time.Duration {
	return loopWaitDuration
}

// Activate is called when the page is "shown"
func (page *ConfigurePage) Activate() {
	go func() {
		progress.Set(page)

		err := controller.Configure(page.mi.rootDir, page.getModel())
		if err != nil {
			page.Panic(err)
		}

		page.prgLabel.SetTitle("Configuration complete")
		page.exitBtn.SetEnabled(true)
		clui.ActivateControl(page.GetWindow(), page.exitBtn)
		clui.RefreshScreen()

		page.mi.configured = true
	}()
}

func newConfigurePage(mi *Tui) (Page, error) {
	page := &ConfigurePage{}
	page.setup(mi, TuiPageConfigure, NoButtons)

	lbl := clui.CreateLabel(page.content, 2, 2, "Configuring Qubes OS", Fixed)
	lbl.SetPaddings(0, 2)

	progressFrame := clui.CreateFrame(page.content, AutoSize, 3, BorderNone, clui.Fixed)
	progressFrame.SetPack(clui.Vertical)

	page.prgBar = clui.CreateProgressBar(progressFrame, AutoSize, AutoSize, clui.Fixed)

	page.prgMax, _ = page.prgBar.Size()
	page.prgBar.SetLimits(0, page.prgMax)

	page.prgLabel = clui.CreateLabel(progressFrame, 1, 1, "Configuring", Fixed)
	page.prgLabel.SetPaddings(0, 3)

	page.exitBtn = CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Exit", Fixed)
	page.exitBtn.OnClick(func(ev clui.Event) {
		go clui.Stop()
	})
	page.exitBtn.SetEnabled(false)

	return page, nil
}
