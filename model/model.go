// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"io/ioutil"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/QubesOS/qubes-anaconda-addon/cmd"
	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/storage"
	"github.com/QubesOS/qubes-anaconda-addon/template"
	"github.com/QubesOS/qubes-anaconda-addon/usb"
)

// Version of the setup tool
var Version = "4.3.0"

// preloadMemoryGB is the minimum amount of RAM (in gigabytes) to enable
// preloaded disposables by default
const preloadMemoryGB = 15

// HostInfo holds facts probed from the running system, they drive the
// defaults and which choices are offered at all
type HostInfo struct {
	Templates       []*template.Template
	WhonixAvailable bool
	USBVMAvailable  bool
	USBKeyboards    []string
	PreloadMemory   bool
}

// QubesSetup represents the initial setup configuration: the templates to
// install and how the default qubes should be arranged
type QubesSetup struct {
	SystemVMs          bool `yaml:"systemVMs"`
	DispFirewallAndUSB bool `yaml:"dispFirewallAndUSB"`
	DispNetVM          bool `yaml:"dispNetVM"`
	DispPreload        bool `yaml:"dispPreload"`
	DefaultVMs         bool `yaml:"defaultVMs"`
	WhonixVMs          bool `yaml:"whonixVMs"`
	WhonixDefault      bool `yaml:"whonixDefault"`
	USBVM              bool `yaml:"usbVM"`
	USBVMWithNetVM     bool `yaml:"usbVMWithNetVM"`
	AllowUSBMouse      bool `yaml:"allowUSBMouse"`
	AllowUSBKeyboard   bool `yaml:"allowUSBKeyboard"`
	Skip               bool `yaml:"skip"`

	TemplatesToInstall []string `yaml:"templatesToInstall"`
	DefaultTemplate    string   `yaml:"defaultTemplate,omitempty"`

	LVMSetup          bool          `yaml:"lvmSetup"`
	CreateDefaultPool bool          `yaml:"createDefaultPool"`
	Pool              *storage.Pool `yaml:"pool,omitempty"`

	Host HostInfo `yaml:"-"`
}

// pickDefaultTemplate chooses the preferred default template among the
// installable ones, fedora wins when present
func pickDefaultTemplate(names []string) string {
	if len(names) == 0 {
		return ""
	}

	sorted := append([]string{}, names...)
	sort.Slice(sorted, func(i, j int) bool {
		return templateRank(sorted[i]) < templateRank(sorted[j])
	})

	return sorted[0]
}

func templateRank(name string) string {
	if strings.Contains(name, "fedora") {
		return "0000-" + name
	}

	return name
}

// parseTotalMemory parses the `xl info total_memory` output (megabytes)
// and reports whether the system is large enough for preloaded disposables
func parseTotalMemory(output string) bool {
	megabytes, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil {
		return false
	}

	// some systems reserve kernel resources for components like the
	// integrated graphics, deducting from total memory - be lenient
	return megabytes/1000 >= preloadMemoryGB
}

func preloadMemoryAvailable() bool {
	output, err := cmd.RunAndCapture("xl", "info", "total_memory")
	if err != nil {
		return false
	}

	return parseTotalMemory(output)
}

// Detect probes the running system and returns a setup configuration with
// the detected defaults filled in
func Detect() (*QubesSetup, error) {
	templates, err := template.List()
	if err != nil {
		return nil, err
	}

	host := HostInfo{
		Templates:       templates,
		WhonixAvailable: template.WhonixAvailable(templates),
		USBVMAvailable:  !usb.StartedFromUSB(),
		USBKeyboards:    usb.Keyboards(),
		PreloadMemory:   preloadMemoryAvailable(),
	}

	names := []string{}
	for _, curr := range templates {
		names = append(names, curr.Name)
	}

	md := &QubesSetup{
		SystemVMs:          true,
		DispFirewallAndUSB: true,
		DispNetVM:          false,
		DispPreload:        host.PreloadMemory,
		DefaultVMs:         true,
		WhonixVMs:          host.WhonixAvailable,
		WhonixDefault:      false,
		USBVM:              host.USBVMAvailable,
		USBVMWithNetVM:     false,
		AllowUSBMouse:      false,
		AllowUSBKeyboard:   len(host.USBKeyboards) > 0,
		TemplatesToInstall: names,
		DefaultTemplate:    pickDefaultTemplate(names),
		Host:               host,
	}

	if pool, create := storage.DefaultThinPool(); pool != nil {
		md.LVMSetup = true
		md.CreateDefaultPool = create
		md.Pool = pool
	}

	return md, nil
}

// ContainsTemplate checks if the template named name is selected for install
func (md *QubesSetup) ContainsTemplate(name string) bool {
	for _, curr := range md.TemplatesToInstall {
		if curr == name {
			return true
		}
	}

	return false
}

// AddTemplate adds the template named name to the install set
func (md *QubesSetup) AddTemplate(name string) {
	if md.ContainsTemplate(name) {
		return
	}

	md.TemplatesToInstall = append(md.TemplatesToInstall, name)
}

// RemoveTemplate removes the template named name from the install set
func (md *QubesSetup) RemoveTemplate(name string) {
	templates := []string{}

	for _, curr := range md.TemplatesToInstall {
		if curr != name {
			templates = append(templates, curr)
		}
	}

	md.TemplatesToInstall = templates
}

// Validate checks the model for possible inconsistencies or "minimum
// required" information
func (md *QubesSetup) Validate() error {
	if md == nil {
		return errors.Errorf("model is nil")
	}

	if md.Skip {
		return nil
	}

	if md.DefaultTemplate != "" && !md.ContainsTemplate(md.DefaultTemplate) {
		return errors.Errorf("Default template %s is not selected for install",
			md.DefaultTemplate)
	}

	if md.LVMSetup {
		if md.Pool == nil {
			return errors.Errorf("LVM setup requested but no thin pool set")
		}

		if md.Pool.VolumeGroup == "" || md.Pool.ThinPool == "" {
			return errors.Errorf("Incomplete thin pool spec: %s", md.Pool)
		}
	}

	return nil
}

// LoadFile loads a setup configuration from a yaml file pointed by path
func LoadFile(path string) (*QubesSetup, error) {
	var result QubesSetup

	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err)
	}

	if err = yaml.Unmarshal(content, &result); err != nil {
		return nil, errors.Wrap(err)
	}

	return &result, nil
}

// WriteFile writes the setup configuration to a yaml file pointed by path
func (md *QubesSetup) WriteFile(path string) error {
	content, err := yaml.Marshal(md)
	if err != nil {
		return errors.Wrap(err)
	}

	if err = ioutil.WriteFile(path, content, 0644); err != nil {
		return errors.Wrap(err)
	}

	return nil
}
