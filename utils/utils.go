// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/errors"
)

// IsRoot checks if we are running with root privileges
func IsRoot() bool {
	return os.Geteuid() == 0
}

// VerifyRootUser returns an error if we don't have root privileges, most
// of the provisioning commands require them
func VerifyRootUser() error {
	if !IsRoot() {
		return errors.Errorf("Must run as 'root' user")
	}

	return nil
}

// MkdirAll creates a directory and its parents if they don't exist yet
func MkdirAll(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err)
		}
	}

	return nil
}

// GroupMembers returns the member list of the named group from the target
// system's /etc/group
func GroupMembers(rootDir string, group string) ([]string, error) {
	path := filepath.Join(rootDir, "etc/group")

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// group:passwd:gid:member,member
		fields := strings.Split(scanner.Text(), ":")

		if len(fields) < 4 || fields[0] != group {
			continue
		}

		members := []string{}
		for _, curr := range strings.Split(fields[3], ",") {
			if curr = strings.TrimSpace(curr); curr != "" {
				members = append(members, curr)
			}
		}

		return members, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err)
	}

	return nil, errors.Errorf("Group %s not found in %s", group, path)
}
