// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package tui

import (
	"github.com/VladimirMarkelov/clui"

	"github.com/QubesOS/qubes-anaconda-addon/model"
)

// Page defines the methods a page must implement in order to be handled by
// the Tui frontend
type Page interface {
	GetID() int
	GetWindow() *clui.Window
	GetActivated() clui.Control
	GetMenuTitle() string
	GetDone() bool
	SetDone(done bool) bool
	GetRequired() bool
	GetConfigDefinition() int
	Activate()
	DeActivate()
	Panic(err error)
}

// BasePage is the common implementation for the tui frontend pages
type BasePage struct {
	mi        *Tui
	window    *clui.Window
	content   *clui.Frame
	cFrame    *clui.Frame
	activated clui.Control
	backBtn   *SimpleButton
	doneBtn   *SimpleButton
	id        int
	menuTitle string
	action    int
	done      bool
	required  bool
	confDefn  int
}

// SimpleButton is a regular clui button used across the setup screens
type SimpleButton struct {
	*clui.Button
}

// CreateSimpleButton creates a new button inside parent
func CreateSimpleButton(parent clui.Control, width int, height int, title string, scale int) *SimpleButton {
	return &SimpleButton{clui.CreateButton(parent, width, height, title, scale)}
}

const (
	// WindowWidth is the default window width
	WindowWidth = 80

	// WindowHeight is the default window height
	WindowHeight = 24

	// AutoSize is shortcut for clui.AutoSize flag
	AutoSize = clui.AutoSize

	// Fixed is shortcut for clui.Fixed flag
	Fixed = clui.Fixed

	// BorderNone is shortcut for clui.BorderNone flag
	BorderNone = clui.BorderNone

	// AlignLeft is shortcut for clui.AlignLeft flag
	AlignLeft = clui.AlignLeft
)

const (
	// TuiPageMenu is the id for the main menu page
	TuiPageMenu = iota

	// TuiPageTemplates is the id for the template selection page
	TuiPageTemplates

	// TuiPageQubes is the id for the default qubes configuration page
	TuiPageQubes

	// TuiPageUSB is the id for the usb qube configuration page
	TuiPageUSB

	// TuiPagePool is the id for the storage pool configuration page
	TuiPagePool

	// TuiPageAdvanced is the id for the advanced options page
	TuiPageAdvanced

	// TuiPageConfigure is the id for the configuration progress page
	TuiPageConfigure
)

const (
	// NoButtons mask defines a common page will not set any control button
	NoButtons = 0

	// BackButton mask defines a common page will have a back button
	BackButton = 1 << 1

	// DoneButton mask defines a common page will have a done button
	DoneButton = 1 << 2

	// AllButtons mask defines a common page will have both back and done buttons
	AllButtons = BackButton | DoneButton
)

const (
	// ActionNone identifies no button was pressed to leave the page
	ActionNone = iota

	// ActionBackButton identifies the user has pressed the back button
	ActionBackButton

	// ActionDoneButton identifies the user has pressed the done button
	ActionDoneButton
)

const (
	// ConfigNotDefined means a configuration value was not set by the user
	ConfigNotDefined = iota

	// ConfigDefinedByUser means the user changed a configuration value
	ConfigDefinedByUser

	// ConfigDefinedByConfig means a configuration value came from a
	// kickstart file
	ConfigDefinedByConfig
)

// GetID returns the current page id
func (page *BasePage) GetID() int {
	return page.id
}

// GetWindow returns the current page window control
func (page *BasePage) GetWindow() *clui.Window {
	return page.window
}

// GetActivated returns the control set as activated for the page
func (page *BasePage) GetActivated() clui.Control {
	return page.activated
}

// GetMenuTitle returns the title string to be shown on the main menu,
// pages with an empty title are not listed
func (page *BasePage) GetMenuTitle() string {
	return page.menuTitle
}

// GetDone returns the page's done flag
func (page *BasePage) GetDone() bool {
	return page.done
}

// SetDone sets the page's done flag
func (page *BasePage) SetDone(done bool) bool {
	page.done = done
	return true
}

// GetRequired tells if the page must be visited before configuring
func (page *BasePage) GetRequired() bool {
	return page.required
}

// GetConfigDefinition tells where the page's configuration came from
func (page *BasePage) GetConfigDefinition() int {
	return page.confDefn
}

// Activate is a stub implementation for the Activate method of Page interface
func (page *BasePage) Activate() {}

// DeActivate is a stub implementation for the DeActivate method of Page interface
func (page *BasePage) DeActivate() {}

// Panic reports a panic condition to the Tui core
func (page *BasePage) Panic(err error) {
	page.mi.paniced <- err
}

func (page *BasePage) getModel() *model.QubesSetup {
	return page.mi.model
}

func (page *BasePage) setup(mi *Tui, id int, btnFlags int) {
	page.setupMenu(mi, id, "", btnFlags)
}

func (page *BasePage) setupMenu(mi *Tui, id int, menuTitle string, btnFlags int, returnPage ...int) {
	page.mi = mi
	page.id = id
	page.menuTitle = menuTitle

	page.newWindow()

	page.content = clui.CreateFrame(page.window, 8, 8, BorderNone, clui.Fixed)
	page.content.SetPack(clui.Vertical)
	page.content.SetPaddings(2, 1)

	page.cFrame = clui.CreateFrame(page.window, 8, 1, BorderNone, clui.Fixed)
	page.cFrame.SetPack(clui.Horizontal)
	page.cFrame.SetGaps(1, 0)
	page.cFrame.SetPaddings(2, 0)

	returnID := TuiPageMenu
	if len(returnPage) > 0 {
		returnID = returnPage[0]
	}

	if btnFlags&BackButton == BackButton {
		page.newBackButton(returnID)
	}

	if btnFlags&DoneButton == DoneButton {
		page.newDoneButton(returnID)
	}

	page.window.SetVisible(false)
}

func (page *BasePage) newWindow() {
	sw, sh := clui.ScreenSize()

	x := (sw - WindowWidth) / 2
	y := (sh - WindowHeight) / 2

	page.window = clui.AddWindow(x, y, WindowWidth, WindowHeight,
		" [Qubes OS Initial Setup ("+model.Version+")] ")
	page.window.SetTitleButtons(0)
	page.window.SetSizable(false)
	page.window.SetMovable(false)
	page.window.SetPack(clui.Vertical)
}

func (page *BasePage) newBackButton(returnID int) {
	btn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "< Main Menu", Fixed)

	btn.OnClick(func(ev clui.Event) {
		page.action = ActionBackButton
		page.mi.gotoPage(returnID, page.mi.currPage)
	})

	page.backBtn = btn
}

func (page *BasePage) newDoneButton(returnID int) {
	btn := CreateSimpleButton(page.cFrame, AutoSize, AutoSize, "Done", Fixed)

	btn.OnClick(func(ev clui.Event) {
		page.action = ActionDoneButton

		if page.mi.currPage.SetDone(true) {
			page.mi.gotoPage(returnID, page.mi.currPage)
		}
	})

	page.doneBtn = btn
}
