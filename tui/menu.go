// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"fmt"
	"io/ioutil"

	"github.com/VladimirMarkelov/clui"

	"github.com/QubesOS/qubes-anaconda-addon/conf"
	"github.com/QubesOS/qubes-anaconda-addon/kickstart"
)

// MenuPage is the Page implementation for the main menu page
type MenuPage struct {
	BasePage
	btns         []*SimpleButton
	configureBtn *SimpleButton
}

func (page *MenuPage) addMenuItem(item Page, activated bool) {
	done := "[ ]"

	if item.GetDone() {
		done = "[+]"
	} else if item.GetConfigDefinition() == ConfigDefinedByConfig {
		done = "[*]"
	}

	title := fmt.Sprintf(" %s %s", done, item.GetMenuTitle())
	btn := CreateSimpleButton(page.content, AutoSize, AutoSize, title, Fixed)
	btn.SetAlign(AlignLeft)

	btn.OnClick(func(ev clui.Event) {
		page.mi.gotoPage(item.GetID(), page.mi.currPage)
	})

	page.btns = append(page.btns, btn)

	if activated {
		page.activated = btn
	}
}

// Activate is called when the page is "shown" and it repaints the main menu based on the
// available menu pages and their done/undone status
func (page *MenuPage) Activate() {
	for _, curr := range page.btns {
		curr.Destroy()
	}
	page.btns = []*SimpleButton{}

	previous := false
	for idx, curr := range page.mi.pages {
		activated := false

		if curr.GetMenuTitle() == "" {
			continue
		}

		if page.mi.prevPage == nil {
			if idx == 0 {
				activated = true
			}
		} else {
			if page.mi.prevPage.GetID() == curr.GetID() {
				previous = true
			} else if previous {
				activated = true
			}
		}

		page.addMenuItem(curr, activated)

		if previous && activated {
			previous = false
		}
	}

	if page.getModel() != nil && page.getModel().Validate() == nil &&
		requiredDone(page.mi.pages) {
		page.configureBtn.SetEnabled(true)
	}
}

// requiredDone tells if every required page was completed, either by the
// user or by a kickstart file
func requiredDone(pages []Page) bool {
	for _, curr := range pages {
		if !curr.GetRequired() {
			continue
		}

		if !curr.GetDone() && curr.GetConfigDefinition() != ConfigDefinedByConfig {
			return false
		}
	}

	return true
}

const (
	menuHelp = `Choose the next steps. Use <Tab> or arrow keys (up and down) to navigate
between the elements.
`
)

func newMenuPage(mi *Tui) (Page, error) {
	page := &MenuPage{}
	page.setup(mi, TuiPageMenu, NoButtons)

	lbl := clui.CreateLabel(page.content, 2, 3, menuHelp, Fixed)
	lbl.SetMultiline(true)
	lbl.SetPaddings(0, 2)

	cancelBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Cancel", Fixed)
	cancelBtn.OnClick(func(ev clui.Event) {
		go clui.Stop()
	})

	saveBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Save & Exit", Fixed)
	saveBtn.OnClick(func(ev clui.Event) {
		md := page.getModel()

		if err := md.WriteFile(conf.DescriptorFile); err != nil {
			page.Panic(err)
		}

		ks := []byte(kickstart.Format(md))
		if err := ioutil.WriteFile(conf.KickstartFile, ks, 0600); err != nil {
			page.Panic(err)
		}

		go clui.Stop()
	})

	page.configureBtn = CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Configure", Fixed)
	page.configureBtn.OnClick(func(ev clui.Event) {
		page.mi.gotoPage(TuiPageConfigure, page.mi.currPage)
	})

	page.configureBtn.SetEnabled(false)

	return page, nil
}
