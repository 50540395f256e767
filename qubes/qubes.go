// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qubes

import (
	"github.com/QubesOS/qubes-anaconda-addon/cmd"
	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/storage"
)

// Manager abstracts the Qubes administration executables (qubes-prefs,
// qvm-* tools, qubesctl) and the environment they run in
type Manager struct {
	rootDir string
}

// New creates a new Manager instance running the tools inside rootDir,
// use "/" when already running on the target system
func New(rootDir string) *Manager {
	return &Manager{rootDir}
}

func (q *Manager) run(args ...string) error {
	if err := cmd.RunChrootAndLog(q.rootDir, args...); err != nil {
		return errors.Wrap(err)
	}

	return nil
}

// SetGlobalPref sets a global Qubes preference via "qubes-prefs"
func (q *Manager) SetGlobalPref(name string, value string) error {
	return q.run("/usr/bin/qubes-prefs", name, value)
}

// SetVMPref sets a per VM preference via "qvm-prefs"
func (q *Manager) SetVMPref(vm string, name string, value string) error {
	return q.run("/usr/bin/qvm-prefs", vm, name, value)
}

// PoolExists checks if a storage pool named name is already registered
func (q *Manager) PoolExists(name string) bool {
	return cmd.RunChroot(nil, q.rootDir, "qvm-pool", "info", name) == nil
}

// AddPool registers pool as an lvm_thin storage pool named after its thin
// pool component
func (q *Manager) AddPool(pool storage.Pool) error {
	return q.run("/usr/bin/qvm-pool", "--add", pool.ThinPool, "lvm_thin",
		"-o", "volume_group="+pool.VolumeGroup+
			",thin_pool="+pool.ThinPool+
			",revisions_to_keep=2")
}

// InstallTemplate installs a template VM from its rpm package
func (q *Manager) InstallTemplate(rpmPath string) error {
	return q.run("/usr/bin/qvm-template", "install", "--nogpgcheck", rpmPath)
}

// StartVM starts the VM named name
func (q *Manager) StartVM(name string) error {
	return q.run("/usr/bin/qvm-start", name)
}

// StartUnit starts a systemd unit
func (q *Manager) StartUnit(unit string) error {
	return q.run("systemctl", "start", unit)
}

// DisableService disables and stops a systemd service, failures are
// ignored - the service may not be installed at all
func (q *Manager) DisableService(service string) {
	_ = cmd.RunChrootAndLog(q.rootDir, "systemctl", "disable", service+".service")
	_ = cmd.RunChrootAndLog(q.rootDir, "systemctl", "stop", service+".service")
}

// SaltClearCache drops the salt minion cache so a fresh configuration run
// picks up all the installed formulas
func (q *Manager) SaltClearCache() error {
	return q.run("qubesctl", "saltutil.clear_cache")
}

// SaltSyncAll syncs all the dynamic salt modules
func (q *Manager) SaltSyncAll() error {
	return q.run("qubesctl", "saltutil.sync_all")
}

// TopEnable enables a salt state, pillar states carry the pillar=True
// argument
func (q *Manager) TopEnable(state string, pillar bool) error {
	if pillar {
		return q.run("qubesctl", "top.enable", state, "pillar=True")
	}

	return q.run("qubesctl", "top.enable", state)
}

// TopDisable disables a previously enabled salt state
func (q *Manager) TopDisable(state string) error {
	return q.run("qubesctl", "top.disable", state)
}

// Highstate applies the enabled salt states to dom0 and all the VMs
func (q *Manager) Highstate() error {
	return q.run("qubesctl", "--all", "state.highstate")
}
