// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package kickstart

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/model"
	"github.com/QubesOS/qubes-anaconda-addon/storage"
)

// AddonName identifies our section inside a kickstart file
const AddonName = "org_qubes_os_initial_setup"

// boolOptions lists the recognized boolean settings, the order is also the
// canonical emit order
var boolOptions = []string{
	"system_vms",
	"disp_firewallvm_and_usbvm",
	"disp_netvm",
	"disp_preload",
	"default_vms",
	"whonix_vms",
	"whonix_default",
	"usbvm",
	"usbvm_with_netvm",
	"skip",
	"allow_usb_mouse",
	"allow_usb_keyboard",
	"create_default_tpool",
}

// Section holds the settings read from a kickstart addon section, options
// not present in the input are left unset so the detected defaults survive
type Section struct {
	boolValues         map[string]bool
	defaultTemplate    *string
	templatesToInstall []string
	pool               *storage.Pool
}

func isBoolOption(name string) bool {
	for _, curr := range boolOptions {
		if curr == name {
			return true
		}
	}

	return false
}

// handleLine parses a single "key value" settings line into the section
func (ks *Section) handleLine(line string) error {
	line = strings.TrimSpace(line)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	param := fields[0]
	value := strings.TrimSpace(strings.TrimPrefix(line, param))

	switch {
	case isBoolOption(param):
		lowered := strings.ToLower(value)
		if lowered != "true" && lowered != "false" {
			return errors.Errorf("invalid value for bool property: %s", line)
		}
		ks.boolValues[param] = lowered == "true"
	case param == "default_template":
		ks.defaultTemplate = &value
	case param == "templates_to_install":
		templates := []string{}
		for _, curr := range strings.Split(value, " ") {
			if curr != "" {
				templates = append(templates, curr)
			}
		}
		ks.templatesToInstall = templates
	case param == "lvm_pool":
		pool, err := storage.ParsePool(value)
		if err != nil {
			return errors.Errorf("invalid value for lvm_pool: %s", line)
		}
		ks.pool = &pool
	default:
		return errors.Errorf("invalid parameter: %s", param)
	}

	return nil
}

// Parse reads the settings lines of an addon section body
func Parse(reader io.Reader) (*Section, error) {
	ks := &Section{boolValues: map[string]bool{}}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := ks.handleLine(scanner.Text()); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err)
	}

	return ks, nil
}

// ParseFile reads a complete kickstart file and parses our addon section,
// returns nil when the file carries no such section
func ParseFile(path string) (*Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	defer func() {
		_ = f.Close()
	}()

	body := &strings.Builder{}
	inSection := false
	found := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "%addon") {
			fields := strings.Fields(line)
			if len(fields) > 1 && fields[1] == AddonName {
				inSection = true
				found = true
			}
			continue
		}

		if line == "%end" {
			inSection = false
			continue
		}

		if inSection {
			body.WriteString(line + "\n")
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err)
	}

	if !found {
		return nil, nil
	}

	return Parse(strings.NewReader(body.String()))
}

// Apply copies the settings present in the section over the detected
// defaults held by md
func (ks *Section) Apply(md *model.QubesSetup) {
	for name, value := range ks.boolValues {
		switch name {
		case "system_vms":
			md.SystemVMs = value
		case "disp_firewallvm_and_usbvm":
			md.DispFirewallAndUSB = value
		case "disp_netvm":
			md.DispNetVM = value
		case "disp_preload":
			md.DispPreload = value
		case "default_vms":
			md.DefaultVMs = value
		case "whonix_vms":
			md.WhonixVMs = value
		case "whonix_default":
			md.WhonixDefault = value
		case "usbvm":
			md.USBVM = value
		case "usbvm_with_netvm":
			md.USBVMWithNetVM = value
		case "skip":
			md.Skip = value
		case "allow_usb_mouse":
			md.AllowUSBMouse = value
		case "allow_usb_keyboard":
			md.AllowUSBKeyboard = value
		case "create_default_tpool":
			md.CreateDefaultPool = value
		}
	}

	if ks.defaultTemplate != nil {
		md.DefaultTemplate = *ks.defaultTemplate
	}

	if ks.templatesToInstall != nil {
		md.TemplatesToInstall = ks.templatesToInstall
	}

	if ks.pool != nil {
		md.Pool = ks.pool
		md.LVMSetup = true
		// an explicit pool is never created by us
		md.CreateDefaultPool = false
	}
}

// boolText renders a boolean in the canonical kickstart capitalization
func boolText(value bool) string {
	if value {
		return "True"
	}

	return "False"
}

// Format emits the canonical addon section for md, it always carries every
// boolean option so the generated kickstart fully pins the configuration
func Format(md *model.QubesSetup) string {
	section := &strings.Builder{}

	fmt.Fprintf(section, "%%addon %s\n", AddonName)

	values := map[string]bool{
		"system_vms":                md.SystemVMs,
		"disp_firewallvm_and_usbvm": md.DispFirewallAndUSB,
		"disp_netvm":                md.DispNetVM,
		"disp_preload":              md.DispPreload,
		"default_vms":               md.DefaultVMs,
		"whonix_vms":                md.WhonixVMs,
		"whonix_default":            md.WhonixDefault,
		"usbvm":                     md.USBVM,
		"usbvm_with_netvm":          md.USBVMWithNetVM,
		"skip":                      md.Skip,
		"allow_usb_mouse":           md.AllowUSBMouse,
		"allow_usb_keyboard":        md.AllowUSBKeyboard,
		"create_default_tpool":      md.CreateDefaultPool,
	}

	for _, name := range boolOptions {
		fmt.Fprintf(section, "%s %s\n", name, boolText(values[name]))
	}

	if md.DefaultTemplate != "" {
		fmt.Fprintf(section, "default_template %s\n", md.DefaultTemplate)
	}

	fmt.Fprintf(section, "templates_to_install %s\n",
		strings.Join(md.TemplatesToInstall, " "))

	if !md.CreateDefaultPool && md.Pool != nil {
		fmt.Fprintf(section, "lvm_pool %s\n", md.Pool)
	}

	section.WriteString("%end\n")

	return section.String()
}
