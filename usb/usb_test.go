// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package usb

import (
	"strings"
	"testing"
)

const udevDB = `P: /devices/pci0000:00/0000:00:14.0/usb1/1-3/1-3:1.0/input/input12
E: SUBSYSTEM=input
E: ID_INPUT_KEYBOARD=1
E: ID_USB_INTERFACES=:030101:030102:
E: ID_VENDOR=Logitech
E: ID_MODEL=USB_Keyboard
E: ID_PATH=pci-0000:00:14.0-usb-0:3:1.0

P: /devices/platform/i8042/serio0/input/input3
E: SUBSYSTEM=input
E: ID_INPUT_KEYBOARD=1
E: ID_PATH=platform-i8042-serio-0

P: /devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.1/input/input15
E: SUBSYSTEM=input
E: ID_INPUT_MOUSE=1
E: ID_USB_INTERFACES=:030102:
E: ID_VENDOR=Logitech
E: ID_MODEL=USB_Mouse
E: ID_PATH=pci-0000:00:14.0-usb-0:4:1.1

P: /devices/pci0000:00/0000:00:1d.0/usb2/2-1/2-1:1.0/input/input20
E: SUBSYSTEM=input
E: ID_INPUT_KEYBOARD=1
E: ID_USB_INTERFACES=:030101:
E: ID_VENDOR=Dell
E: ID_MODEL=Internal_Keyboard
E: ID_PATH=pci-0000:00:1d.0-usb-0:1:1.0
`

func TestParseUdevDB(t *testing.T) {
	devices := parseUdevDB(udevDB)

	if len(devices) != 4 {
		t.Fatalf("Expected 4 devices, but got: %d", len(devices))
	}

	if !devices[0].isKeyboard() || !devices[0].isUSB() {
		t.Fatal("First device should be an USB keyboard")
	}

	if !devices[1].isKeyboard() || devices[1].isUSB() {
		t.Fatal("Second device should be a non USB keyboard")
	}

	if devices[2].isKeyboard() {
		t.Fatal("Third device is a mouse, not a keyboard")
	}
}

func TestDom0USBControllers(t *testing.T) {
	tests := []struct {
		cmdline  string
		expected string
	}{
		{"quiet rhgb rd.qubes.dom0_usb=00:1d.0", "00:1d.0"},
		{"rd.qubes.dom0_usb=00:1d.0,00:14.0 quiet", "00:1d.0 00:14.0"},
		{"quiet rhgb", ""},
		{"", ""},
	}

	for _, curr := range tests {
		result := strings.Join(dom0USBControllers(curr.cmdline), " ")
		if result != curr.expected {
			t.Fatalf("Expected controllers %q, but got: %q", curr.expected, result)
		}
	}
}

func TestFilterKeyboards(t *testing.T) {
	devices := parseUdevDB(udevDB)

	keyboards := filterKeyboards(devices, nil)
	if len(keyboards) != 2 {
		t.Fatalf("Expected 2 USB keyboards, but got: %d", len(keyboards))
	}

	if keyboards[0] != "Logitech USB_Keyboard" {
		t.Fatalf("Expected Logitech USB_Keyboard, but got: %s", keyboards[0])
	}

	// keyboards on a controller kept in the administration VM are not
	// reported
	keyboards = filterKeyboards(devices, []string{"00:1d.0"})
	if len(keyboards) != 1 {
		t.Fatalf("Expected 1 USB keyboard, but got: %d", len(keyboards))
	}

	keyboards = filterKeyboards(devices, []string{"00:1d.0", "00:14.0"})
	if len(keyboards) != 0 {
		t.Fatalf("Expected no USB keyboards, but got: %d", len(keyboards))
	}
}
