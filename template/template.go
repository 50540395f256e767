// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package template

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/errors"
)

var (
	// templatesRPMPath is where the installer drops the template packages
	templatesRPMPath = "/var/lib/qubes/template-packages/"

	// flavorAliases adjusts the case of known template flavors when
	// building the human friendly alias
	flavorAliases = map[string]string{
		"xfce":  "Xfce",
		"kde":   "KDE",
		"gnome": "GNOME",
	}
)

// Template describes a single template package available for install
type Template struct {
	Name     string // name including flavor, without version i.e "fedora-xfce"
	Version  string // package version i.e "40"
	FullName string // name including version i.e "fedora-40-xfce"
	Alias    string // human friendly name i.e "Fedora 40 Xfce"
	rpm      string // rpm file name
}

// RPMPath returns the full path to the template's rpm package
func (t *Template) RPMPath() string {
	return filepath.Join(templatesRPMPath, t.rpm)
}

// aliasParts yields the parts to be included in the final alias, only the
// first numeric part is considered the template version, the remaining
// numeric parts are dropped
func aliasParts(fullName string) []string {
	result := []string{}
	versionFound := false

	for idx, part := range strings.Split(fullName, "-") {
		if part == "" {
			continue
		}

		if part[0] >= '0' && part[0] <= '9' {
			if versionFound {
				continue
			}
			versionFound = true
		}

		if alias, ok := flavorAliases[part]; ok {
			part = alias
		} else if idx == 0 {
			part = strings.Title(part)
		}

		result = append(result, part)
	}

	return result
}

// parseRPMFileName parses a template rpm file name into a Template
// description, returns nil if fname isn't a template package
func parseRPMFileName(fname string) *Template {
	if !strings.HasPrefix(fname, "qubes-template-") {
		return nil
	}

	if !strings.HasSuffix(fname, ".rpm") {
		return nil
	}

	fullName := strings.TrimPrefix(fname, "qubes-template-")

	// drop the ".noarch.rpm" suffix (also when a different arch is set)
	if idx := nthLastIndex(fullName, ".", 2); idx != -1 {
		fullName = fullName[:idx]
	}

	// drop the package version-release pair i.e "-4.2.0-202301020304"
	if idx := nthLastIndex(fullName, "-", 2); idx != -1 {
		fullName = fullName[:idx]
	}

	nameParts := []string{}
	version := ""

	for _, part := range strings.Split(fullName, "-") {
		if part == "" {
			continue
		}

		if part[0] >= '0' && part[0] <= '9' {
			if version == "" {
				version = part
			}
			continue
		}

		nameParts = append(nameParts, part)
	}

	if len(nameParts) == 0 || version == "" {
		return nil
	}

	return &Template{
		Name:     strings.Join(nameParts, "-"),
		Version:  version,
		FullName: fullName,
		Alias:    strings.Join(aliasParts(fullName), " "),
		rpm:      fname,
	}
}

// nthLastIndex returns the index of the n-th last occurrence of sep in s
func nthLastIndex(s string, sep string, n int) int {
	idx := len(s)

	for i := 0; i < n; i++ {
		idx = strings.LastIndex(s[:idx], sep)
		if idx == -1 {
			return -1
		}
	}

	return idx
}

// List scans the template packages directory and returns the available
// templates sorted by name, a missing directory isn't an error - the system
// may simply ship no templates at all
func List() ([]*Template, error) {
	files, err := ioutil.ReadDir(templatesRPMPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Template{}, nil
		}
		return nil, errors.Wrap(err)
	}

	result := []*Template{}
	for _, curr := range files {
		if tmpl := parseRPMFileName(curr.Name()); tmpl != nil {
			result = append(result, tmpl)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Find returns the template named name from templates, nil if not found
func Find(templates []*Template, name string) *Template {
	for _, curr := range templates {
		if curr.Name == name {
			return curr
		}
	}

	return nil
}

// IsAvailable checks if the template named name is available for install
func IsAvailable(templates []*Template, name string) bool {
	return Find(templates, name) != nil
}

// WhonixAvailable checks if both whonix templates are available, installing
// only one of them is not supported
func WhonixAvailable(templates []*Template) bool {
	return IsAvailable(templates, "whonix-gateway") &&
		IsAvailable(templates, "whonix-workstation")
}

// CleanPackages removes the template packages directory, the rpms are not
// needed once the selected templates were installed
func CleanPackages() error {
	if _, err := os.Stat(templatesRPMPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(templatesRPMPath); err != nil {
		return errors.Wrap(err)
	}

	return nil
}
