// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package storage

import (
	"fmt"
	"io/ioutil"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/QubesOS/qubes-anaconda-addon/cmd"
	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/log"
)

// Pool describes an LVM thin pool by its volume group and pool name
type Pool struct {
	VolumeGroup string `yaml:"volumeGroup,omitempty"`
	ThinPool    string `yaml:"thinPool,omitempty"`
}

var (
	sysDMNamePath = "/sys/dev/block/%s/dm/name"
)

func (p Pool) String() string {
	return p.VolumeGroup + "/" + p.ThinPool
}

// ParsePool parses a "vg/tpool" pool spec
func ParsePool(spec string) (Pool, error) {
	parsed := strings.Split(spec, "/")
	if len(parsed) != 2 || parsed[0] == "" || parsed[1] == "" {
		return Pool{}, errors.Errorf("Invalid pool spec: %s", spec)
	}

	return Pool{VolumeGroup: parsed[0], ThinPool: parsed[1]}, nil
}

// parseTable parses a single device-mapper table line in the form:
// "start sectors target-type target-args", returning the target type and
// the device number of the lower device backing the target
func parseTable(table string) (string, string, error) {
	fields := strings.SplitN(strings.TrimSpace(table), " ", 4)
	if len(fields) < 4 {
		return "", "", errors.Errorf("Malformed device-mapper table: %s", table)
	}

	targetType := fields[2]
	targetArgs := strings.SplitN(fields[3], " ", 2)

	return targetType, targetArgs[0], nil
}

// splitDMName breaks a device-mapper device name into volume group and
// thin pool. LVM doubles any hyphen contained in the original names, so
// "qubes--dom0-vm--pool-tpool" means ("qubes-dom0", "vm-pool"). A name
// without the "-tpool" suffix maps to a plain logical volume and yields
// an empty pool name.
func splitDMName(name string) (string, string, error) {
	escaped := strings.ReplaceAll(name, "--", "\x00")

	if strings.HasSuffix(name, "-tpool") {
		parts := strings.Split(escaped, "-")
		if len(parts) < 3 {
			return "", "", errors.Errorf("Unexpected device-mapper name: %s", name)
		}

		vg := strings.Join(parts[:len(parts)-2], "-")
		tpool := parts[len(parts)-2]

		return unescapeDMName(vg), unescapeDMName(tpool), nil
	}

	parts := strings.Split(escaped, "-")
	if len(parts) < 2 {
		return "", "", errors.Errorf("Unexpected device-mapper name: %s", name)
	}

	vg := strings.Join(parts[:len(parts)-1], "-")

	return unescapeDMName(vg), "", nil
}

func unescapeDMName(name string) string {
	return strings.ReplaceAll(name, "\x00", "-")
}

// rootDeviceNumbers returns the major:minor pair of the device holding the
// root filesystem
func rootDeviceNumbers() (uint32, uint32, error) {
	var st unix.Stat_t

	if err := unix.Stat("/", &st); err != nil {
		return 0, 0, errors.Wrap(err)
	}

	dev := uint64(st.Dev)
	return unix.Major(dev), unix.Minor(dev), nil
}

// hasThinPool checks if the volume group vg contains a thin pool named name
func hasThinPool(vg string, name string) bool {
	_, err := cmd.RunAndCapture("lvs", "--noheadings", vg+"/"+name)
	return err == nil
}

// DefaultThinPool discovers the thin pool holding the root filesystem, the
// natural place for the VM volumes. When the root volume lives directly on
// a volume group (or on the dedicated "root-pool") we propose "vm-pool" in
// the same group: create reports whether that pool still must be created.
// A nil pool means the system is not on LVM and no pool setup applies.
func DefaultThinPool() (pool *Pool, create bool) {
	major, minor, err := rootDeviceNumbers()
	if err != nil {
		log.Debug("Could not stat the root filesystem device: %v", err)
		return nil, false
	}

	table, err := cmd.RunAndCapture("dmsetup",
		"-j", fmt.Sprintf("%d", major),
		"-m", fmt.Sprintf("%d", minor),
		"table")
	if err != nil {
		// not a device-mapper device at all
		log.Debug("No device-mapper table for %d:%d", major, minor)
		return nil, false
	}

	targetType, lowerDev, err := parseTable(table)
	if err != nil {
		log.ErrorError(err)
		return nil, false
	}

	if targetType != "thin" && targetType != "linear" {
		return nil, false
	}

	name, err := ioutil.ReadFile(fmt.Sprintf(sysDMNamePath, lowerDev))
	if err != nil {
		log.Debug("Could not read the lower device name: %v", err)
		return nil, false
	}

	vg, tpool, err := splitDMName(strings.TrimRight(string(name), "\n"))
	if err != nil {
		log.ErrorError(err)
		return nil, false
	}

	if tpool == "" || tpool == "root-pool" {
		// the root volume has a dedicated pool (or none), VM volumes
		// go to "vm-pool" in the same volume group
		tpool = "vm-pool"
		create = !hasThinPool(vg, tpool)
	}

	if vg == "" {
		return nil, false
	}

	return &Pool{VolumeGroup: vg, ThinPool: tpool}, create
}

// parseLVS parses the `lvs --noheadings -o vg_name,name,lv_attr` output
// with ";" as separator and returns the thin pools found, volumes whose
// attr doesn't start with "t" are not thin pools
func parseLVS(output string) []Pool {
	result := []Pool{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			continue
		}

		vg, name, attr := fields[0], fields[1], fields[2]
		if vg == "" || name == "" {
			continue
		}

		if !strings.HasPrefix(attr, "t") {
			continue
		}

		result = append(result, Pool{VolumeGroup: vg, ThinPool: name})
	}

	return result
}

// ListThinPools returns all the thin pools known to LVM
func ListThinPools() ([]Pool, error) {
	output, err := cmd.RunAndCapture("lvs", "--noheadings",
		"-o", "vg_name,name,lv_attr", "--separator", ";")
	if err != nil {
		return nil, err
	}

	return parseLVS(output), nil
}

// CreateThinPool creates the thin pool described by pool taking most of the
// volume group's free space
func CreateThinPool(pool Pool) error {
	err := cmd.RunAndLog("lvcreate", "-l", "90%FREE",
		"--thinpool", pool.ThinPool, pool.VolumeGroup)
	if err != nil {
		return errors.Wrap(err)
	}

	return nil
}
