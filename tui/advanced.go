// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"
)

// AdvancedPage is the Page implementation for the advanced options page
type AdvancedPage struct {
	BasePage
}

const (
	advancedHelp = `Skip initial configuration

The system will boot without any template or qube configured. The
configuration can be done manually later with qvm-template and the
qubesctl salt states.

This option is meant for debugging and custom deployments only.`
)

func newAdvancedPage(mi *Tui) (Page, error) {
	page := &AdvancedPage{}
	page.setupMenu(mi, TuiPageAdvanced, "Advanced", BackButton|DoneButton, TuiPageMenu)

	lbl := clui.CreateLabel(page.content, 2, 9, advancedHelp, Fixed)
	lbl.SetMultiline(true)

	page.backBtn.SetTitle("Configure normally")
	page.backBtn.SetSize(22, 1)

	page.doneBtn.SetTitle("Skip configuration")
	page.doneBtn.SetSize(22, 1)

	return page, nil
}

// DeActivate sets the model value and adjusts the "done" flag for this page
func (page *AdvancedPage) DeActivate() {
	page.getModel().Skip = page.action == ActionDoneButton
	page.SetDone(true)
}

// Activate activates the proper button depending on the current model value
func (page *AdvancedPage) Activate() {
	if page.getModel().Skip {
		page.activated = page.doneBtn
	} else {
		page.activated = page.backBtn
	}
}
