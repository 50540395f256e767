// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/QubesOS/qubes-anaconda-addon/storage"
)

func TestPickDefaultTemplate(t *testing.T) {
	tests := []struct {
		names    []string
		expected string
	}{
		{[]string{"debian", "fedora", "whonix-gateway", "whonix-workstation"}, "fedora"},
		{[]string{"whonix-workstation", "fedora-xfce", "debian"}, "fedora-xfce"},
		{[]string{"debian", "whonix-gateway"}, "debian"},
		{[]string{}, ""},
	}

	for _, curr := range tests {
		result := pickDefaultTemplate(curr.names)
		if result != curr.expected {
			t.Fatalf("Expected default template %q, but got: %q", curr.expected, result)
		}
	}
}

func TestParseTotalMemory(t *testing.T) {
	tests := []struct {
		output string
		enough bool
	}{
		{"16384\n", true},
		{"15000", true},
		{"8192\n", false},
		{"garbage", false},
		{"", false},
	}

	for _, curr := range tests {
		if parseTotalMemory(curr.output) != curr.enough {
			t.Fatalf("Expected %v for total memory %q", curr.enough, curr.output)
		}
	}
}

func TestTemplateSet(t *testing.T) {
	md := &QubesSetup{TemplatesToInstall: []string{"fedora"}}

	md.AddTemplate("debian")
	md.AddTemplate("debian")

	if len(md.TemplatesToInstall) != 2 {
		t.Fatalf("Expected 2 templates, but got: %d", len(md.TemplatesToInstall))
	}

	if !md.ContainsTemplate("debian") {
		t.Fatal("debian should be selected")
	}

	md.RemoveTemplate("fedora")
	if md.ContainsTemplate("fedora") {
		t.Fatal("fedora should not be selected anymore")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc  string
		md    *QubesSetup
		valid bool
	}{
		{"empty model", &QubesSetup{}, true},
		{"skip disables validation", &QubesSetup{Skip: true, LVMSetup: true}, true},
		{"default template selected",
			&QubesSetup{DefaultTemplate: "fedora", TemplatesToInstall: []string{"fedora"}},
			true},
		{"default template not selected",
			&QubesSetup{DefaultTemplate: "fedora", TemplatesToInstall: []string{"debian"}},
			false},
		{"lvm setup with pool",
			&QubesSetup{LVMSetup: true,
				Pool: &storage.Pool{VolumeGroup: "qubes_dom0", ThinPool: "vm-pool"}},
			true},
		{"lvm setup without pool", &QubesSetup{LVMSetup: true}, false},
		{"incomplete pool",
			&QubesSetup{LVMSetup: true, Pool: &storage.Pool{VolumeGroup: "qubes_dom0"}},
			false},
	}

	for _, curr := range tests {
		err := curr.md.Validate()
		if curr.valid && err != nil {
			t.Fatalf("%s: should be valid: %v", curr.desc, err)
		}
		if !curr.valid && err == nil {
			t.Fatalf("%s: should be invalid", curr.desc)
		}
	}
}

func TestLoadWriteFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "model-")
	if err != nil {
		t.Fatalf("could not make tempdir: %v", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	md := &QubesSetup{
		SystemVMs:          true,
		DefaultVMs:         true,
		USBVM:              true,
		TemplatesToInstall: []string{"fedora", "debian"},
		DefaultTemplate:    "fedora",
		LVMSetup:           true,
		Pool:               &storage.Pool{VolumeGroup: "qubes_dom0", ThinPool: "vm-pool"},
	}

	path := filepath.Join(dir, "initial-setup.yaml")
	if err = md.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() should not fail: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() should not fail: %v", err)
	}

	if loaded.DefaultTemplate != md.DefaultTemplate {
		t.Fatalf("Expected default template %s, but got: %s",
			md.DefaultTemplate, loaded.DefaultTemplate)
	}

	if !loaded.SystemVMs || !loaded.USBVM {
		t.Fatal("Boolean toggles should survive the yaml round trip")
	}

	if loaded.Pool == nil || loaded.Pool.String() != "qubes_dom0/vm-pool" {
		t.Fatalf("Expected pool qubes_dom0/vm-pool, but got: %v", loaded.Pool)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/non-existent-file-for-test.yaml"); err == nil {
		t.Fatal("Should fail to load a missing file")
	}
}
