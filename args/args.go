// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Arguments which influence how this program executes
// Order of Precedence
// 1. Command Line Arguments -- Highest Priority
// 2. Kernel Command Line Arguments
// 3. Program defaults -- Lowest Priority

package args

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/QubesOS/qubes-anaconda-addon/conf"
	"github.com/QubesOS/qubes-anaconda-addon/log"
)

const (
	kernelCmdlineKickstart = "inst.ks"
)

var (
	kernelCmdlineFile = "/proc/cmdline"
)

// Args represents the user provided arguments
type Args struct {
	Version       bool
	LogFile       string
	KickstartFile string
	LogLevel      int
	ForceTUI      bool
	TargetRoot    string
}

// kickstartFromCmdline extracts the kickstart location from the kernel
// command line, an http/https location is fetched to a local file
func kickstartFromCmdline(cmdline string) (string, error) {
	url := ""

	for _, curr := range strings.Fields(cmdline) {
		if strings.HasPrefix(curr, kernelCmdlineKickstart+"=") {
			url = strings.SplitN(curr, "=", 2)[1]
		}
	}

	if url == "" {
		return "", nil
	}

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return conf.FetchRemoteConfigFile(url)
	}

	return url, nil
}

func (args *Args) setKernelArgs() error {
	if _, err := os.Stat(kernelCmdlineFile); os.IsNotExist(err) {
		return nil
	}

	content, err := ioutil.ReadFile(kernelCmdlineFile)
	if err != nil {
		return err
	}

	ksFile, err := kickstartFromCmdline(string(content))
	if err != nil {
		return err
	}

	if ksFile != "" {
		args.KickstartFile = ksFile
	}

	return nil
}

func (args *Args) setCommandLineArgs() error {
	flag.BoolVar(
		&args.Version, "version", false, "Version of the initial setup tool",
	)

	flag.BoolVar(
		&args.ForceTUI, "tui", false, "Use the TUI frontend even with a kickstart given",
	)

	flag.StringVar(
		&args.KickstartFile, "kickstart", args.KickstartFile,
		"Kickstart file with an org_qubes_os_initial_setup addon section",
	)

	flag.StringVar(
		&args.TargetRoot, "root", "/", "Target system root to configure",
	)

	flag.IntVar(
		&args.LogLevel,
		"log-level",
		log.LogLevelDebug,
		fmt.Sprintf("%d (debug), %d (info), %d (warning), %d (error)",
			log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarning, log.LogLevelError),
	)

	flag.StringVar(
		&args.LogFile, "log-file", "/var/log/"+conf.LogFile, "The log file path",
	)

	flag.Parse()

	return nil
}

// ParseArgs will both parse the command line arguments to the program
// and read any options set on the kernel command line from boot-time
// setting the results into the Args member variables.
func (args *Args) ParseArgs() error {
	if err := args.setKernelArgs(); err != nil {
		return err
	}

	return args.setCommandLineArgs()
}
