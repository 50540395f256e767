// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package controller

import (
	"github.com/QubesOS/qubes-anaconda-addon/model"
)

// State is a single salt state to be enabled for the configuration run,
// pillar states are enabled with pillar=True and are never disabled again
type State struct {
	Name   string
	Pillar bool
}

// statesFor maps the configuration toggles to the salt states implementing
// them, the order is meaningful and mirrors the toggles' dependency chain
func statesFor(md *model.QubesSetup) []State {
	states := []State{}

	add := func(names ...string) {
		for _, name := range names {
			states = append(states, State{Name: name})
		}
	}

	addPillar := func(names ...string) {
		for _, name := range names {
			states = append(states, State{Name: name, Pillar: true})
		}
	}

	if md.SystemVMs {
		add("qvm.sys-net", "qvm.sys-firewall", "qvm.default-dispvm")
	}
	if md.DispFirewallAndUSB {
		addPillar("qvm.disposable-sys-firewall", "qvm.disposable-sys-usb")
	}
	if md.DispNetVM {
		addPillar("qvm.disposable-sys-net")
	}
	if md.DispPreload {
		addPillar("qvm.disposable-preload")
	}
	if md.DefaultVMs {
		add("qvm.personal", "qvm.work", "qvm.untrusted", "qvm.vault")
	}
	if md.WhonixVMs {
		add("qvm.sys-whonix", "qvm.anon-whonix")
	}
	if md.WhonixDefault {
		add("qvm.updates-via-whonix")
	}
	if md.USBVM {
		add("qvm.sys-usb")
	}
	if md.USBVMWithNetVM {
		addPillar("qvm.sys-net-as-usbvm")
	}
	if md.AllowUSBMouse {
		addPillar("qvm.sys-usb-allow-mouse")
	}
	if md.AllowUSBKeyboard {
		addPillar("qvm.usb-keyboard")
	}

	return states
}
