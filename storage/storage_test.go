// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package storage

import (
	"testing"
)

func TestParsePool(t *testing.T) {
	tests := []struct {
		spec  string
		valid bool
		vg    string
		tpool string
	}{
		{"qubes_dom0/vm-pool", true, "qubes_dom0", "vm-pool"},
		{"vg0/pool00", true, "vg0", "pool00"},
		{"qubes_dom0", false, "", ""},
		{"a/b/c", false, "", ""},
		{"/vm-pool", false, "", ""},
		{"qubes_dom0/", false, "", ""},
	}

	for _, curr := range tests {
		pool, err := ParsePool(curr.spec)

		if curr.valid && err != nil {
			t.Fatalf("%s is a valid spec and shouldn't return an error: %v", curr.spec, err)
		}

		if !curr.valid {
			if err == nil {
				t.Fatalf("%s is an invalid spec and should return an error", curr.spec)
			}
			continue
		}

		if pool.VolumeGroup != curr.vg || pool.ThinPool != curr.tpool {
			t.Fatalf("Expected %s/%s, but got: %s", curr.vg, curr.tpool, pool)
		}
	}
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		table      string
		valid      bool
		targetType string
		lowerDev   string
	}{
		{"0 209715200 thin 253:2 1", true, "thin", "253:2"},
		{"0 104857600 linear 253:0 2048", true, "linear", "253:0"},
		{"0 16384 crypt aes-xts-plain64 :64:logon:cryptsetup:x 0 8:2 4096", true,
			"crypt", "aes-xts-plain64"},
		{"garbage", false, "", ""},
		{"", false, "", ""},
	}

	for _, curr := range tests {
		targetType, lowerDev, err := parseTable(curr.table)

		if curr.valid && err != nil {
			t.Fatalf("%q is a valid table and shouldn't return an error: %v", curr.table, err)
		}

		if !curr.valid {
			if err == nil {
				t.Fatalf("%q is an invalid table and should return an error", curr.table)
			}
			continue
		}

		if targetType != curr.targetType {
			t.Fatalf("Expected target type %s, but got: %s", curr.targetType, targetType)
		}

		if lowerDev != curr.lowerDev {
			t.Fatalf("Expected lower device %s, but got: %s", curr.lowerDev, lowerDev)
		}
	}
}

func TestSplitDMName(t *testing.T) {
	tests := []struct {
		name  string
		vg    string
		tpool string
	}{
		{"qubes_dom0-vm--pool-tpool", "qubes_dom0", "vm-pool"},
		{"qubes--dom0-vm--pool-tpool", "qubes-dom0", "vm-pool"},
		{"qubes_dom0-root", "qubes_dom0", ""},
		{"my--vg-root--lv", "my-vg", ""},
		{"vg0-root--pool-tpool", "vg0", "root-pool"},
	}

	for _, curr := range tests {
		vg, tpool, err := splitDMName(curr.name)
		if err != nil {
			t.Fatalf("%s should split without an error: %v", curr.name, err)
		}

		if vg != curr.vg {
			t.Fatalf("Expected volume group %s, but got: %s", curr.vg, vg)
		}

		if tpool != curr.tpool {
			t.Fatalf("Expected thin pool %q, but got: %q", curr.tpool, tpool)
		}
	}
}

func TestSplitDMNameInvalid(t *testing.T) {
	tests := []string{"root", "tpool", ""}

	for _, curr := range tests {
		if _, _, err := splitDMName(curr); err == nil {
			t.Fatalf("%q should not split into a volume group and pool", curr)
		}
	}
}

func TestParseLVS(t *testing.T) {
	output := `  qubes_dom0;swap;-wi-ao----
  qubes_dom0;root-pool;twi-aot---
  qubes_dom0;root;Vwi-aot---
  qubes_dom0;vm-pool;twi-aot---
  ;orphan;twi-aot---
  malformed-line
`

	pools := parseLVS(output)

	if len(pools) != 2 {
		t.Fatalf("Expected 2 thin pools, but got: %d", len(pools))
	}

	if pools[0].String() != "qubes_dom0/root-pool" {
		t.Fatalf("Expected qubes_dom0/root-pool, but got: %s", pools[0])
	}

	if pools[1].String() != "qubes_dom0/vm-pool" {
		t.Fatalf("Expected qubes_dom0/vm-pool, but got: %s", pools[1])
	}
}

func TestParseLVSEmpty(t *testing.T) {
	if len(parseLVS("")) != 0 {
		t.Fatal("Empty output should yield no pools")
	}
}
