// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"

	"github.com/QubesOS/qubes-anaconda-addon/log"
	"github.com/QubesOS/qubes-anaconda-addon/storage"
)

// PoolPage is the Page implementation for the storage pool configuration page
type PoolPage struct {
	BasePage
	lvmSetup   *clui.CheckBox
	createPool *clui.CheckBox
	poolList   *clui.ListBox
	errorLabel *clui.Label
	pools      []storage.Pool
}

const (
	poolHelp = `Qubes keeps the VM volumes on an LVM thin pool. Create the default
pool using the remaining space of the root volume group or pick an
existing thin pool to use instead.`
)

// Activate marks the selections based on the data model
func (page *PoolPage) Activate() {
	md := page.getModel()

	page.lvmSetup.SetState(boolState(md.LVMSetup))
	page.createPool.SetState(boolState(md.CreateDefaultPool))

	if md.Pool != nil && !md.CreateDefaultPool {
		for idx, curr := range page.pools {
			if curr == *md.Pool {
				page.poolList.SelectItem(idx)
			}
		}
	}

	page.errorLabel.SetTitle("")
}

func (page *PoolPage) confirm() {
	md := page.getModel()

	lvmSetup := page.lvmSetup.State() == 1
	createPool := page.createPool.State() == 1

	if lvmSetup && !createPool {
		selected := page.poolList.SelectedItem()

		if selected < 0 || selected >= len(page.pools) {
			page.errorLabel.SetTitle("Select an existing thin pool or create the default one")
			return
		}

		pool := page.pools[selected]
		md.Pool = &pool
	}

	if lvmSetup && createPool && md.Pool == nil {
		page.errorLabel.SetTitle("No LVM volume group found to create the default pool on")
		return
	}

	md.LVMSetup = lvmSetup
	md.CreateDefaultPool = createPool

	page.SetDone(true)
	page.mi.gotoPage(TuiPageMenu, page.mi.currPage)
}

func newPoolPage(mi *Tui) (Page, error) {
	page := &PoolPage{}
	page.setupMenu(mi, TuiPagePool, "Storage pool", NoButtons)

	lbl := clui.CreateLabel(page.content, 2, 4, poolHelp, Fixed)
	lbl.SetMultiline(true)

	frm := clui.CreateFrame(page.content, AutoSize, AutoSize, BorderNone, Fixed)
	frm.SetPack(clui.Vertical)
	frm.SetPaddings(2, 0)

	page.lvmSetup = clui.CreateCheckBox(frm, AutoSize, "Configure LVM thin pool storage", AutoSize)
	page.lvmSetup.SetPack(clui.Horizontal)

	page.createPool = clui.CreateCheckBox(frm, AutoSize, "Create the default thin pool (90% of free space)", AutoSize)
	page.createPool.SetPack(clui.Horizontal)

	clui.CreateLabel(frm, 2, 2, "Existing thin pools:", Fixed)

	page.poolList = clui.CreateListBox(frm, 40, 4, Fixed)

	pools, err := storage.ListThinPools()
	if err != nil {
		log.Warning("Could not list LVM thin pools: %v", err)
	}

	page.pools = pools
	for _, curr := range pools {
		page.poolList.AddItem(curr.String())
	}

	page.errorLabel = clui.CreateLabel(page.content, AutoSize, 1, "", Fixed)
	page.errorLabel.SetTextColor(errorLabelFg)

	cancelBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Cancel", Fixed)
	cancelBtn.OnClick(func(ev clui.Event) {
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	confirmBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Confirm", Fixed)
	confirmBtn.OnClick(func(ev clui.Event) {
		page.confirm()
	})

	return page, nil
}
