// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package template

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRPMFileName(t *testing.T) {
	tests := []struct {
		fname    string
		name     string
		version  string
		fullName string
		alias    string
	}{
		{"qubes-template-fedora-40-4.2.0-202401020304.noarch.rpm",
			"fedora", "40", "fedora-40", "Fedora 40"},
		{"qubes-template-fedora-40-xfce-4.2.0-202401020304.noarch.rpm",
			"fedora-xfce", "40", "fedora-40-xfce", "Fedora 40 Xfce"},
		{"qubes-template-debian-12-4.2.0-202401020304.noarch.rpm",
			"debian", "12", "debian-12", "Debian 12"},
		{"qubes-template-whonix-gateway-17-4.2.0-202401020304.noarch.rpm",
			"whonix-gateway", "17", "whonix-gateway-17", "Whonix gateway 17"},
		{"qubes-template-whonix-workstation-17-4.2.0-202401020304.noarch.rpm",
			"whonix-workstation", "17", "whonix-workstation-17", "Whonix workstation 17"},
	}

	for _, curr := range tests {
		tmpl := parseRPMFileName(curr.fname)
		if tmpl == nil {
			t.Fatalf("%s should parse as a template package", curr.fname)
		}

		if tmpl.Name != curr.name {
			t.Fatalf("Expected name %s, but got: %s", curr.name, tmpl.Name)
		}

		if tmpl.Version != curr.version {
			t.Fatalf("Expected version %s, but got: %s", curr.version, tmpl.Version)
		}

		if tmpl.FullName != curr.fullName {
			t.Fatalf("Expected full name %s, but got: %s", curr.fullName, tmpl.FullName)
		}

		if tmpl.Alias != curr.alias {
			t.Fatalf("Expected alias %q, but got: %q", curr.alias, tmpl.Alias)
		}
	}
}

func TestParseRPMFileNameInvalid(t *testing.T) {
	tests := []string{
		"fedora-40-4.2.0-202401020304.noarch.rpm",
		"qubes-template-fedora-40.rpm.bak",
		"qubes-template-.noarch.rpm",
	}

	for _, curr := range tests {
		if parseRPMFileName(curr) != nil {
			t.Fatalf("%s should not parse as a template package", curr)
		}
	}
}

func TestList(t *testing.T) {
	dir, err := ioutil.TempDir("", "templates-")
	if err != nil {
		t.Fatalf("could not make tempdir: %v", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	files := []string{
		"qubes-template-fedora-40-4.2.0-202401020304.noarch.rpm",
		"qubes-template-debian-12-4.2.0-202401020304.noarch.rpm",
		"not-a-template.rpm",
		"README",
	}

	for _, curr := range files {
		if err = ioutil.WriteFile(filepath.Join(dir, curr), []byte{}, 0644); err != nil {
			t.Fatalf("could not write file: %v", err)
		}
	}

	oldPath := templatesRPMPath
	templatesRPMPath = dir
	defer func() { templatesRPMPath = oldPath }()

	templates, err := List()
	if err != nil {
		t.Fatalf("List() should not fail: %v", err)
	}

	if len(templates) != 2 {
		t.Fatalf("Expected 2 templates, but got: %d", len(templates))
	}

	if templates[0].Name != "debian" || templates[1].Name != "fedora" {
		t.Fatalf("Templates should be sorted by name, got: %s, %s",
			templates[0].Name, templates[1].Name)
	}

	if !IsAvailable(templates, "fedora") {
		t.Fatal("fedora should be available")
	}

	if IsAvailable(templates, "whonix-gateway") {
		t.Fatal("whonix-gateway should not be available")
	}

	if WhonixAvailable(templates) {
		t.Fatal("Whonix requires both gateway and workstation templates")
	}
}

func TestListMissingDir(t *testing.T) {
	oldPath := templatesRPMPath
	templatesRPMPath = "/non-existent-dir-for-test"
	defer func() { templatesRPMPath = oldPath }()

	templates, err := List()
	if err != nil {
		t.Fatalf("A missing template dir should not be an error: %v", err)
	}

	if len(templates) != 0 {
		t.Fatalf("Expected no templates, but got: %d", len(templates))
	}
}
