// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGroupMembers(t *testing.T) {
	groupContent := `root:x:0:
wheel:x:10:alice
qubes:x:98:alice,bob
empty:x:99:
`

	rootDir, err := ioutil.TempDir("", "utils-test-")
	if err != nil {
		t.Fatalf("Could not create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(rootDir)
	}()

	etcDir := filepath.Join(rootDir, "etc")
	if err = os.MkdirAll(etcDir, 0755); err != nil {
		t.Fatalf("Could not create etc dir: %v", err)
	}

	groupFile := filepath.Join(etcDir, "group")
	if err = ioutil.WriteFile(groupFile, []byte(groupContent), 0644); err != nil {
		t.Fatalf("Could not write group file: %v", err)
	}

	tests := []struct {
		group    string
		members  []string
		mustFail bool
	}{
		{"qubes", []string{"alice", "bob"}, false},
		{"wheel", []string{"alice"}, false},
		{"empty", []string{}, false},
		{"missing", nil, true},
	}

	for _, curr := range tests {
		members, err := GroupMembers(rootDir, curr.group)

		if curr.mustFail {
			if err == nil {
				t.Errorf("GroupMembers(%q) should have failed", curr.group)
			}
			continue
		}

		if err != nil {
			t.Errorf("GroupMembers(%q) failed: %v", curr.group, err)
			continue
		}

		if !reflect.DeepEqual(members, curr.members) {
			t.Errorf("GroupMembers(%q) = %v, expected: %v",
				curr.group, members, curr.members)
		}
	}
}
