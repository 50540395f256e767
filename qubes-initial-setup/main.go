// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/QubesOS/qubes-anaconda-addon/args"
	"github.com/QubesOS/qubes-anaconda-addon/conf"
	"github.com/QubesOS/qubes-anaconda-addon/controller"
	"github.com/QubesOS/qubes-anaconda-addon/frontend"
	"github.com/QubesOS/qubes-anaconda-addon/kickstart"
	"github.com/QubesOS/qubes-anaconda-addon/log"
	"github.com/QubesOS/qubes-anaconda-addon/model"
	"github.com/QubesOS/qubes-anaconda-addon/tui"
	"github.com/QubesOS/qubes-anaconda-addon/unattended"
)

var (
	frontEndImpls []frontend.Frontend
)

func fatal(err error) {
	log.ErrorError(err)
	panic(err)
}

func initFrontendList() {
	frontEndImpls = []frontend.Frontend{
		unattended.New(),
		tui.New(),
	}
}

func main() {
	var options args.Args

	if err := options.ParseArgs(); err != nil {
		fatal(err)
	}

	if options.Version {
		fmt.Println(path.Base(os.Args[0]) + ": " + model.Version)
		return
	}

	if err := log.SetLogLevel(options.LogLevel); err != nil {
		fatal(err)
	}

	f, err := log.SetOutputFilename(options.LogFile)
	if err != nil {
		fatal(err)
	}
	defer func() {
		_ = f.Close()
	}()

	initFrontendList()

	sigs := make(chan os.Signal, 1)
	done := make(chan bool, 1)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	md, err := model.Detect()
	if err != nil {
		fatal(err)
	}

	ksFile := options.KickstartFile
	if ksFile == "" {
		ksFile = conf.LookupDefaultKickstart()
	}

	if ksFile != "" {
		log.Debug("Loading kickstart file: %s", ksFile)

		ks, err := kickstart.ParseFile(ksFile)
		if err != nil {
			fatal(err)
		}

		if ks != nil {
			ks.Apply(md)
			options.KickstartFile = ksFile
		}
	}

	configured := false

	go func() {
		for _, fe := range frontEndImpls {
			if !fe.MustRun(&options) {
				continue
			}

			configured, err = fe.Run(md, options.TargetRoot)
			if err != nil {
				fatal(err)
			}

			break
		}

		done <- true
	}()

	go func() {
		<-sigs
		fmt.Println("Leaving...")
		done <- true
	}()

	<-done

	if configured {
		if err := controller.SaveResults(options.TargetRoot, md); err != nil {
			log.ErrorError(err)
		}
	}
}
