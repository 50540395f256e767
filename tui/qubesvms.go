// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"
)

// QubesPage is the Page implementation for the default qubes configuration page
type QubesPage struct {
	BasePage
	systemVMs     *clui.CheckBox
	dispFWAndUSB  *clui.CheckBox
	dispNetVM     *clui.CheckBox
	dispPreload   *clui.CheckBox
	defaultVMs    *clui.CheckBox
	whonixVMs     *clui.CheckBox
	whonixDefault *clui.CheckBox
}

func boolState(value bool) int {
	if value {
		return 1
	}

	return 0
}

// Activate marks the checkbox selections based on the data model
func (page *QubesPage) Activate() {
	md := page.getModel()

	page.systemVMs.SetState(boolState(md.SystemVMs))
	page.dispFWAndUSB.SetState(boolState(md.DispFirewallAndUSB))
	page.dispNetVM.SetState(boolState(md.DispNetVM))
	page.dispPreload.SetState(boolState(md.DispPreload))
	page.defaultVMs.SetState(boolState(md.DefaultVMs))
	page.whonixVMs.SetState(boolState(md.WhonixVMs))
	page.whonixDefault.SetState(boolState(md.WhonixDefault))

	if !md.Host.WhonixAvailable {
		page.whonixVMs.SetEnabled(false)
		page.whonixDefault.SetEnabled(false)
	}
}

func newQubesPage(mi *Tui) (Page, error) {
	page := &QubesPage{}
	page.setupMenu(mi, TuiPageQubes, "Default qubes", NoButtons)

	clui.CreateLabel(page.content, 2, 2, "Select the default qubes to create", Fixed)

	frm := clui.CreateFrame(page.content, AutoSize, AutoSize, BorderNone, Fixed)
	frm.SetPack(clui.Vertical)
	frm.SetPaddings(2, 0)

	newCheck := func(label string) *clui.CheckBox {
		check := clui.CreateCheckBox(frm, AutoSize, label, AutoSize)
		check.SetPack(clui.Horizontal)
		return check
	}

	page.systemVMs = newCheck("Create default system qubes (sys-net, sys-firewall, default-dvm)")
	page.dispFWAndUSB = newCheck("Make sys-firewall and sys-usb disposable")
	page.dispNetVM = newCheck("Make sys-net disposable")
	page.dispPreload = newCheck("Preload disposables for faster usage")
	page.defaultVMs = newCheck("Create default application qubes (personal, work, untrusted, vault)")
	page.whonixVMs = newCheck("Create Whonix Gateway and Workstation qubes (sys-whonix, anon-whonix)")
	page.whonixDefault = newCheck("Enable system and template updates over the Tor anonymity network using Whonix")

	cancelBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Cancel", Fixed)
	cancelBtn.OnClick(func(ev clui.Event) {
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	confirmBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Confirm", Fixed)
	confirmBtn.OnClick(func(ev clui.Event) {
		md := page.getModel()

		md.SystemVMs = page.systemVMs.State() == 1
		md.DispFirewallAndUSB = page.dispFWAndUSB.State() == 1
		md.DispNetVM = page.dispNetVM.State() == 1
		md.DispPreload = page.dispPreload.State() == 1
		md.DefaultVMs = page.defaultVMs.State() == 1
		md.WhonixVMs = page.whonixVMs.State() == 1
		md.WhonixDefault = page.whonixDefault.State() == 1

		page.SetDone(true)
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	return page, nil
}
