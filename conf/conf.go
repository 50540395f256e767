// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package conf

import (
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
)

const (
	// KickstartFile is the kickstart carrying our addon section
	KickstartFile = "initial-setup.ks"

	// DescriptorFile is the yaml descriptor with the applied configuration
	DescriptorFile = "initial-setup.yaml"

	// LogFile is the default log file name
	LogFile = "qubes-initial-setup.log"

	// DefaultConfigDir is the system wide default configuration directory
	DefaultConfigDir = "/usr/share/qubes-initial-setup"
)

// LookupDefaultKickstart returns the system wide default kickstart path if
// one is installed, an empty string otherwise
func LookupDefaultKickstart() string {
	path := filepath.Join(DefaultConfigDir, KickstartFile)

	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}

// FetchRemoteConfigFile given a config url fetches it from the network. This
// function currently supports only http/https protocol. After success
// returns the local file path.
func FetchRemoteConfigFile(url string) (string, error) {
	out, err := ioutil.TempFile("", "initial-setup-ks-")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = out.Close()
	}()

	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	_, err = io.Copy(out, resp.Body)
	if err != nil {
		return "", err
	}

	return out.Name(), nil
}
