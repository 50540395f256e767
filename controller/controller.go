// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package controller

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/conf"
	"github.com/QubesOS/qubes-anaconda-addon/errors"
	"github.com/QubesOS/qubes-anaconda-addon/kickstart"
	"github.com/QubesOS/qubes-anaconda-addon/log"
	"github.com/QubesOS/qubes-anaconda-addon/model"
	"github.com/QubesOS/qubes-anaconda-addon/progress"
	"github.com/QubesOS/qubes-anaconda-addon/qubes"
	"github.com/QubesOS/qubes-anaconda-addon/storage"
	"github.com/QubesOS/qubes-anaconda-addon/template"
	"github.com/QubesOS/qubes-anaconda-addon/utils"
)

const saltMinionLog = "/var/log/salt/minion"

// highstateFailedMsg is shown when applying the salt states fails, the
// user can retry from a dom0 terminal after the first boot
const highstateFailedMsg = "Qubes initial configuration failed. Login to the system and " +
	"check /var/log/salt/minion for details. " +
	"You can retry configuration by calling " +
	"'sudo qubesctl --all state.highstate' in dom0 (you will get " +
	"detailed state there)."

// Provisioner is the set of administration operations the configuration
// sequence drives, qubes.Manager is the real implementation
type Provisioner interface {
	DefaultKernel() (string, error)
	SetGlobalPref(name string, value string) error
	SetVMPref(vm string, name string, value string) error
	PoolExists(name string) bool
	AddPool(pool storage.Pool) error
	InstallTemplate(rpmPath string) error
	StartVM(name string) error
	StartUnit(unit string) error
	DisableService(service string)
	SaltClearCache() error
	SaltSyncAll() error
	TopEnable(state string, pillar bool) error
	TopDisable(state string) error
	Highstate() error
}

// resolveDefaultTemplate resolves a versionless default template name to
// the full name of the matching installed package, returns an empty string
// when no package matches
func resolveDefaultTemplate(md *model.QubesSetup) string {
	name := md.DefaultTemplate

	if name == "" || strings.ContainsAny(name, "0123456789") {
		return name
	}

	if tmpl := template.Find(md.Host.Templates, name); tmpl != nil {
		return tmpl.FullName
	}

	log.Warning("Template '%s' not found", name)
	return ""
}

// Configure is the main setup controller, this is the entry point for a
// full initial configuration run
func Configure(rootDir string, md *model.QubesSetup) error {
	var err error

	// most of the configuration commands require the 'root' user
	if err = utils.VerifyRootUser(); err != nil {
		return err
	}

	users, err := utils.GroupMembers(rootDir, "qubes")
	if err != nil {
		return err
	}

	if len(users) < 1 {
		return errors.Errorf("You must create a user account to create default VMs.")
	}

	log.Debug("Configuring for user: %s", users[0])

	if md.Skip {
		log.Info("Initial configuration skipped by user request")
		return nil
	}

	if md.WhonixVMs && !md.Host.WhonixAvailable {
		log.Warning("Whonix selected but not available")
		md.WhonixVMs = false
	}

	// do we have the minimum required to configure the system?
	if err = md.Validate(); err != nil {
		return err
	}

	return configure(qubes.New(rootDir), md, resolveDefaultTemplate(md))
}

// configure runs the full task sequence, any failure aborts the remaining
// tasks except for the default dispvm stage which is reported at the end
func configure(q Provisioner, md *model.QubesSetup, defaultTemplate string) error {
	prg, err := doConfigure(q, md, defaultTemplate)
	if err != nil {
		if prg != nil {
			prg.Done()
		}
		return err
	}

	// failure to set the default dispvm is not worth aborting the whole
	// setup over, report it at the end instead
	if defaultTemplate != "" {
		prg := progress.NewLoop("Creating default DisposableVM")
		if err = q.SetGlobalPref("default-dispvm", "default-dvm"); err != nil {
			prg.Done()
			return errors.Errorf("Default DVM failed:\n%s\n\n", err)
		}
		prg.Done()
	}

	return nil
}

func doConfigure(q Provisioner, md *model.QubesSetup, defaultTemplate string) (progress.Progress, error) {
	prg := progress.NewLoop("Setting up default kernel")
	if err := setDefaultKernel(q); err != nil {
		return prg, err
	}
	prg.Done()

	if md.LVMSetup {
		prg = progress.NewLoop("Setting up default storage pool")
		if err := configureDefaultPool(q, md); err != nil {
			return prg, err
		}
		prg.Done()
	}

	if len(md.TemplatesToInstall) > 0 {
		prg = progress.MultiStep(len(md.TemplatesToInstall), "Installing TemplateVMs")

		for idx, name := range md.TemplatesToInstall {
			tmpl := template.Find(md.Host.Templates, name)
			if tmpl == nil {
				return prg, errors.Errorf("Template package for %s not found", name)
			}

			log.Info("Installing TemplateVM %s", tmpl.FullName)

			if err := q.InstallTemplate(tmpl.RPMPath()); err != nil {
				return prg, err
			}

			prg.Partial(idx + 1)
		}
		prg.Done()
	}

	if err := template.CleanPackages(); err != nil {
		return nil, err
	}

	prg = progress.NewLoop("Setting up administration VM (dom0)")
	for _, service := range []string{"rdisc", "kdump", "libvirt-guests", "salt-minion"} {
		q.DisableService(service)
	}
	prg.Done()

	if defaultTemplate != "" {
		prg = progress.NewLoop("Setting up default template")
		if err := q.SetGlobalPref("default-template", defaultTemplate); err != nil {
			return prg, err
		}
		prg.Done()
	}

	prg = progress.NewLoop("Executing qubes configuration")
	if err := configureSaltStates(q, md); err != nil {
		return prg, err
	}
	prg.Done()

	if md.SystemVMs {
		prg = progress.NewLoop("Setting up networking")
		if err := configureNetwork(q, md); err != nil {
			return prg, err
		}
		prg.Done()
	}

	if md.USBVM && !md.USBVMWithNetVM {
		// qvm.start from salt can't be used to bring up sys-usb
		prg = progress.NewLoop("Starting sys-usb")
		if err := q.StartUnit("qubes-vm@sys-usb.service"); err != nil {
			return prg, err
		}
		prg.Done()
	}

	if md.WhonixVMs {
		prg = progress.NewLoop("Starting sys-whonix")
		if err := q.StartUnit("qubes-vm@sys-whonix.service"); err != nil {
			return prg, err
		}
		prg.Done()
	}

	return nil, nil
}

// setDefaultKernel points the default VM kernel at the newest installed one
func setDefaultKernel(q Provisioner) error {
	kernel, err := q.DefaultKernel()
	if err != nil {
		return err
	}

	log.Debug("Default VM kernel: %s", kernel)

	return q.SetGlobalPref("default-kernel", kernel)
}

// configureDefaultPool creates the LVM thin pool when requested, registers
// it with qubesd and makes it the default storage pool
func configureDefaultPool(q Provisioner, md *model.QubesSetup) error {
	if md.CreateDefaultPool {
		if md.Pool == nil {
			return errors.Errorf("Cannot find default LVM volume group")
		}

		if err := storage.CreateThinPool(*md.Pool); err != nil {
			return err
		}
	}

	if md.Pool == nil {
		return nil
	}

	// register only if it isn't there already
	if !q.PoolExists(md.Pool.ThinPool) {
		if err := q.AddPool(*md.Pool); err != nil {
			return err
		}
	}

	return q.SetGlobalPref("default-pool", md.Pool.ThinPool)
}

// configureSaltStates enables the salt states matching the configuration,
// applies them with a single highstate call and disables the non-pillar
// ones again so they don't interfere with later user changes
func configureSaltStates(q Provisioner, md *model.QubesSetup) error {
	states := statesFor(md)

	// get rid of initial entries (from package installation time)
	if err := os.Rename(saltMinionLog, saltMinionLog+".install"); err != nil {
		log.Debug("Could not rotate the salt minion log: %v", err)
	}

	// refresh the minion configuration to make sure all the installed
	// formulas are included
	if err := q.SaltClearCache(); err != nil {
		return err
	}

	if err := q.SaltSyncAll(); err != nil {
		return err
	}

	for _, state := range states {
		log.Info("Setting up state: %s", state.Name)

		if err := q.TopEnable(state.Name, state.Pillar); err != nil {
			return err
		}
	}

	if err := q.Highstate(); err != nil {
		log.ErrorError(err)
		return errors.Errorf("%s", highstateFailedMsg)
	}

	for _, state := range states {
		if state.Pillar {
			continue
		}

		if err := q.TopDisable(state.Name); err != nil {
			return err
		}
	}

	return nil
}

// configureNetwork wires the default network chain together and brings up
// the firewall VM
func configureNetwork(q Provisioner, md *model.QubesSetup) error {
	defaultNetVM := "sys-firewall"
	updateVM := defaultNetVM

	if md.WhonixDefault {
		updateVM = "sys-whonix"
	}

	if err := q.SetVMPref("sys-firewall", "netvm", "sys-net"); err != nil {
		return err
	}

	if err := q.SetGlobalPref("default-netvm", defaultNetVM); err != nil {
		return err
	}

	if err := q.SetGlobalPref("updatevm", updateVM); err != nil {
		return err
	}

	if err := q.SetGlobalPref("clockvm", "sys-net"); err != nil {
		return err
	}

	return q.StartVM(defaultNetVM)
}

// SaveResults saves the effective configuration and the setup log onto the
// target system
func SaveResults(rootDir string, md *model.QubesSetup) error {
	var err error
	var errMsg string

	log.Info("Saving configuration results to %s", rootDir)

	saveDir := filepath.Join(rootDir, "root")
	if err = utils.MkdirAll(saveDir); err != nil {
		// Fallback in the unlikely case we can't use root's home
		saveDir = rootDir
	}

	ksFile := filepath.Join(saveDir, conf.KickstartFile)

	if err = ioutil.WriteFile(ksFile, []byte(kickstart.Format(md)), 0600); err != nil {
		log.Error("Failed to write kickstart file (%v) %q", err, ksFile)
		errMsg = "Failed to write kickstart file"
	}

	descFile := filepath.Join(saveDir, conf.DescriptorFile)

	if err = md.WriteFile(descFile); err != nil {
		log.Error("Failed to write YAML file (%v) %q", err, descFile)
		if errMsg != "" {
			errMsg = errMsg + "; "
		}
		errMsg = errMsg + "Failed to write YAML file"
	}

	logFile := filepath.Join(saveDir, conf.LogFile)

	if err = log.ArchiveLogFile(logFile); err != nil {
		if errMsg != "" {
			errMsg = errMsg + "; "
		}
		errMsg = errMsg + "Failed to archive log file"
	}

	if errMsg != "" {
		return errors.Errorf("%s", errMsg)
	}
	return nil
}
