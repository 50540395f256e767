// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"

	"github.com/QubesOS/qubes-anaconda-addon/template"
)

// TemplatesPage is the Page implementation for the template selection page
type TemplatesPage struct {
	BasePage
	checks      []*templateCheck
	defaultList *clui.ListBox
}

// templateCheck maps an available template with the actual checkbox
type templateCheck struct {
	tmpl  *template.Template
	check *clui.CheckBox
}

// Activate marks the checkbox selections and the default template based on
// the data model
func (page *TemplatesPage) Activate() {
	md := page.getModel()

	for _, curr := range page.checks {
		state := 0

		if md.ContainsTemplate(curr.tmpl.Name) {
			state = 1
		}

		curr.check.SetState(state)
	}

	page.defaultList.Clear()
	for idx, curr := range page.checks {
		page.defaultList.AddItem(curr.tmpl.Alias)

		if curr.tmpl.Name == md.DefaultTemplate {
			page.defaultList.SelectItem(idx)
		}
	}
}

func newTemplatesPage(mi *Tui) (Page, error) {
	page := &TemplatesPage{
		BasePage: BasePage{
			// a default template is required for the setup to proceed
			required: true,
		},
	}
	page.setupMenu(mi, TuiPageTemplates, "Templates", NoButtons)

	clui.CreateLabel(page.content, 2, 2, "Select the templates to be installed", Fixed)

	frm := clui.CreateFrame(page.content, AutoSize, AutoSize, BorderNone, Fixed)
	frm.SetPack(clui.Vertical)

	lblFrm := clui.CreateFrame(frm, AutoSize, AutoSize, BorderNone, Fixed)
	lblFrm.SetPack(clui.Vertical)
	lblFrm.SetPaddings(2, 0)

	for _, curr := range mi.model.Host.Templates {
		check := clui.CreateCheckBox(lblFrm, AutoSize, curr.Alias, AutoSize)
		check.SetPack(clui.Horizontal)

		page.checks = append(page.checks, &templateCheck{tmpl: curr, check: check})
	}

	clui.CreateLabel(frm, 2, 2, "Default template:", Fixed)

	page.defaultList = clui.CreateListBox(frm, 40, 4, Fixed)

	cancelBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Cancel", Fixed)
	cancelBtn.OnClick(func(ev clui.Event) {
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	confirmBtn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Confirm", Fixed)
	confirmBtn.OnClick(func(ev clui.Event) {
		md := page.getModel()

		for _, curr := range page.checks {
			if curr.check.State() == 1 {
				md.AddTemplate(curr.tmpl.Name)
			} else {
				md.RemoveTemplate(curr.tmpl.Name)
			}
		}

		if selected := page.defaultList.SelectedItem(); selected >= 0 {
			md.DefaultTemplate = page.checks[selected].tmpl.Name
		}

		page.SetDone(true)
		mi.gotoPage(TuiPageMenu, mi.currPage)
	})

	return page, nil
}
