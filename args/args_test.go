// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package args

import (
	"testing"
)

func TestKickstartFromCmdline(t *testing.T) {
	tests := []struct {
		cmdline  string
		expected string
	}{
		{"quiet rhgb inst.ks=/run/install/initial-setup.ks", "/run/install/initial-setup.ks"},
		{"inst.ks=/a.ks inst.ks=/b.ks", "/b.ks"},
		{"quiet rhgb", ""},
		{"", ""},
	}

	for _, curr := range tests {
		result, err := kickstartFromCmdline(curr.cmdline)
		if err != nil {
			t.Fatalf("Should not fail for %q: %v", curr.cmdline, err)
		}

		if result != curr.expected {
			t.Fatalf("Expected kickstart %q, but got: %q", curr.expected, result)
		}
	}
}
