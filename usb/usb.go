// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package usb

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/QubesOS/qubes-anaconda-addon/cmd"
	"github.com/QubesOS/qubes-anaconda-addon/log"
)

var (
	kernelCmdlineFile = "/proc/cmdline"
	procMountsFile    = "/proc/mounts"
	sysSlavesPath     = "/sys/dev/block/%d:%d/slaves"
)

const dom0USBArg = "rd.qubes.dom0_usb="

// device is the property set udev exports for a single device
type device map[string]string

func (d device) isUSB() bool {
	return d["ID_USB_INTERFACES"] != ""
}

func (d device) isKeyboard() bool {
	return d["SUBSYSTEM"] == "input" && d["ID_INPUT_KEYBOARD"] == "1"
}

// parseUdevDB parses `udevadm info --export-db` output into the per device
// property sets, only the property (E:) records are considered
func parseUdevDB(db string) []device {
	devices := []device{}
	curr := device{}

	flush := func() {
		if len(curr) > 0 {
			devices = append(devices, curr)
			curr = device{}
		}
	}

	for _, line := range strings.Split(db, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		if !strings.HasPrefix(line, "E: ") {
			continue
		}

		prop := strings.SplitN(strings.TrimPrefix(line, "E: "), "=", 2)
		if len(prop) != 2 {
			continue
		}

		curr[prop[0]] = prop[1]
	}
	flush()

	return devices
}

// dom0USBControllers returns the USB controllers the boot command line pins
// to the administration VM
func dom0USBControllers(cmdline string) []string {
	result := []string{}

	for _, opt := range strings.Fields(cmdline) {
		if !strings.HasPrefix(opt, dom0USBArg) {
			continue
		}

		for _, ctrl := range strings.Split(strings.TrimPrefix(opt, dom0USBArg), ",") {
			if ctrl != "" {
				result = append(result, ctrl)
			}
		}
	}

	return result
}

// filterKeyboards returns the vendor/model description of the USB keyboards
// in devices, skipping the ones attached to a controller that remains in the
// administration VM
func filterKeyboards(devices []device, dom0Controllers []string) []string {
	result := []string{}

	for _, dev := range devices {
		if !dev.isKeyboard() || !dev.isUSB() {
			continue
		}

		pinned := false
		for _, ctrl := range dom0Controllers {
			if strings.HasPrefix(dev["ID_PATH"], "pci-0000:"+ctrl+"-") {
				pinned = true
				break
			}
		}

		if pinned {
			continue
		}

		result = append(result, fmt.Sprintf("%s %s", dev["ID_VENDOR"], dev["ID_MODEL"]))
	}

	return result
}

// Keyboards returns the description of the USB keyboards present on the
// system. Keyboards on a controller listed in the rd.qubes.dom0_usb= boot
// argument are not reported - they remain usable with an isolated USB VM.
func Keyboards() []string {
	cmdline := ""
	if content, err := ioutil.ReadFile(kernelCmdlineFile); err == nil {
		cmdline = string(content)
	}

	db, err := cmd.RunAndCapture("udevadm", "info", "--export-db")
	if err != nil {
		log.Warning("Could not enumerate udev devices: %v", err)
		return []string{}
	}

	return filterKeyboards(parseUdevDB(db), dom0USBControllers(cmdline))
}

// leafDevices resolves dev to the physical devices backing it, walking the
// device-mapper stacking through the sysfs slaves directories
func leafDevices(dev string) []string {
	var st unix.Stat_t

	if err := unix.Stat(dev, &st); err != nil {
		return nil
	}

	rdev := uint64(st.Rdev)
	if rdev == 0 {
		return nil
	}

	slavesDir := fmt.Sprintf(sysSlavesPath, unix.Major(rdev), unix.Minor(rdev))
	slaves, err := ioutil.ReadDir(slavesDir)
	if err != nil || len(slaves) == 0 {
		return []string{dev}
	}

	result := []string{}
	for _, slave := range slaves {
		result = append(result, leafDevices("/dev/"+slave.Name())...)
	}

	return result
}

func isUSBDevice(dev string) bool {
	out, err := cmd.RunAndCapture("udevadm", "info",
		"--query=property", "--name="+dev)
	if err != nil {
		return false
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "ID_USB_INTERFACES=") {
			return true
		}
	}

	return false
}

// StartedFromUSB checks if any mounted filesystem is ultimately backed by an
// USB device, in which case dedicating an USB VM would cut the branch we are
// sitting on
func StartedFromUSB() bool {
	content, err := ioutil.ReadFile(procMountsFile)
	if err != nil {
		return false
	}

	checked := map[string]bool{}

	for _, mount := range strings.Split(string(content), "\n") {
		fields := strings.Fields(mount)
		if len(fields) < 1 {
			continue
		}

		dev := fields[0]
		if _, err := os.Stat(dev); err != nil {
			continue
		}

		for _, leaf := range leafDevices(dev) {
			if checked[leaf] {
				continue
			}
			checked[leaf] = true

			if isUSBDevice(leaf) {
				return true
			}
		}
	}

	return false
}
