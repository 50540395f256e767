// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"
	"github.com/nsf/termbox-go"

	"github.com/QubesOS/qubes-anaconda-addon/args"
	"github.com/QubesOS/qubes-anaconda-addon/log"
	"github.com/QubesOS/qubes-anaconda-addon/model"
)

// Tui is the main tui data struct and holds data about the higher level data for this
// front end, it also implements the Frontend interface
type Tui struct {
	pages      []Page
	currPage   Page
	prevPage   Page
	model      *model.QubesSetup
	rootDir    string
	paniced    chan error
	configured bool
}

var (
	// errorLabelFg is the foreground color used by validation error labels
	errorLabelFg = termbox.ColorRed | termbox.AttrBold
)

// New creates a new Tui frontend instance
func New() *Tui {
	return &Tui{pages: []Page{}}
}

// MustRun is part of the Frontend interface implementation and tells the core that this
// frontend wants/must run.
func (mi *Tui) MustRun(args *args.Args) bool {
	return true
}

// Run is part of the Frontend interface implementation and is the tui frontend main entry point
func (mi *Tui) Run(md *model.QubesSetup, rootDir string) (bool, error) {
	clui.InitLibrary()
	defer clui.DeinitLibrary()

	mi.model = md
	mi.rootDir = rootDir
	mi.paniced = make(chan error, 1)

	menus := []struct {
		desc string
		fc   func(*Tui) (Page, error)
	}{
		{"template selection", newTemplatesPage},
		{"default qubes", newQubesPage},
		{"usb qube", newUSBPage},
		{"storage pool", newPoolPage},
		{"advanced", newAdvancedPage},
		{"main menu", newMenuPage},
		{"configure", newConfigurePage},
	}

	for _, menu := range menus {
		var page Page
		var err error

		if page, err = menu.fc(mi); err != nil {
			return false, err
		}

		mi.pages = append(mi.pages, page)
	}

	mi.gotoPage(TuiPageMenu, mi.currPage)

	var paniced error

	go func() {
		if paniced = <-mi.paniced; paniced != nil {
			clui.Stop()
			log.ErrorError(paniced)
		}
	}()

	clui.MainLoop()

	if paniced != nil {
		panic(paniced)
	}

	return mi.configured, nil
}

func (mi *Tui) gotoPage(id int, currPage Page) {
	if mi.currPage != nil {
		mi.currPage.GetWindow().SetVisible(false)
		mi.currPage.DeActivate()

		// TODO clui is not hiding cursor when we hide/destroy an edit widget
		termbox.HideCursor()
	}

	mi.currPage = mi.getPage(id)
	mi.prevPage = currPage

	mi.currPage.Activate()
	mi.currPage.GetWindow().SetVisible(true)

	clui.ActivateControl(mi.currPage.GetWindow(), mi.currPage.GetActivated())
}

func (mi *Tui) getPage(page int) Page {
	for _, curr := range mi.pages {
		if curr.GetID() == page {
			return curr
		}
	}

	return nil
}
