// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"fmt"
	"strings"

	"github.com/VladimirMarkelov/clui"
)

// USBPage is the Page implementation for the usb qube configuration page
type USBPage struct {
	BasePage
	usbVM       *clui.CheckBox
	usbNetVM    *clui.CheckBox
	usbKeyboard *clui.CheckBox
	usbMouse    *clui.CheckBox
}

const (
	usbHelp = `A USB qube confines the USB controllers so a malicious device
cannot attack the administration domain directly.`
)

// Activate marks the checkbox selections based on the data model
func (page *USBPage) Activate() {
	md := page.getModel()

	page.usbVM.SetState(boolState(md.USBVM))
	page.usbNetVM.SetState(boolState(md.USBVMWithNetVM))
	page.usbKeyboard.SetState(boolState(md.AllowUSBKeyboard))
	page.usbMouse.SetState(boolState(md.AllowUSBMouse))

	if !md.Host.USBVMAvailable {
		page.usbVM.SetEnabled(false)
		page.usbNetVM.SetEnabled(false)
	}
}

func newUSBPage(mi *Tui) (Page, error) {
	page := &USBPage{}
	page.setupMenu(mi, TuiPageUSB, "USB qube", NoButtons)

	lbl := clui.CreateLabel(page.content, 2, 3, usbHelp, Fixed)
	lbl.SetMultiline(true)

	frm := clui.CreateFrame(page.content, AutoSize, AutoSize, BorderNone, Fixed)
	frm.SetPack(clui.Vertical)
	frm.SetPaddings(2, 0)

	newCheck := func(label string) *clui.CheckBox {
		check := clui.CreateCheckBox(frm, AutoSize, label, AutoSize)
		check.SetPack(clui.Horizontal)
		return check
	}

	page.usbVM = newCheck("Create USB qube (sys-usb)")
	page.usbNetVM = newCheck("Use sys-net as the USB qube")
	page.usbKeyboard = newCheck("Automatically accept USB keyboards")
	page.usbMouse = newCheck("Automatically accept USB mice")

	if keyboards := mi.model.Host.USBKeyboards; len(keyboards) > 0 {
		txt := fmt.Sprintf("USB keyboard detected: %s", strings.Join(keyboards, ", "))
		clui.CreateLabel(frm, AutoSize, 1, txt, Fixed)
	}

	cancelBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Cancel", Fixed)
	cancelBtn.OnClick(func(ev clui.Event) {
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	confirmBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Confirm", Fixed)
	confirmBtn.OnClick(func(ev clui.Event) {
		md := page.getModel()

		md.USBVM = page.usbVM.State() == 1
		md.USBVMWithNetVM = page.usbNetVM.State() == 1
		md.AllowUSBKeyboard = page.usbKeyboard.State() == 1
		md.AllowUSBMouse = page.usbMouse.State() == 1

		page.SetDone(true)
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	return page, nil
}
