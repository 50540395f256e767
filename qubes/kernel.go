// Copyright © 2026 The Qubes OS Project
//
// SPDX-License-Identifier: GPL-2.0-or-later

package qubes

import (
	"io/ioutil"
	"sort"
	"strconv"
	"strings"

	"github.com/QubesOS/qubes-anaconda-addon/errors"
)

var (
	vmKernelsPath = "/var/lib/qubes/vm-kernels"
)

// versionChunks breaks a version string into comparable chunks, digit runs
// become numeric chunks and everything else is compared as text
func versionChunks(version string) []string {
	chunks := []string{}
	curr := strings.Builder{}
	digits := false

	for _, r := range version {
		isDigit := r >= '0' && r <= '9'

		if curr.Len() > 0 && isDigit != digits {
			chunks = append(chunks, curr.String())
			curr.Reset()
		}

		digits = isDigit
		curr.WriteRune(r)
	}

	if curr.Len() > 0 {
		chunks = append(chunks, curr.String())
	}

	return chunks
}

// compareVersions compares two loosely formatted version strings, returns
// a negative value when a precedes b, zero when they are equivalent
func compareVersions(a string, b string) int {
	ca := versionChunks(a)
	cb := versionChunks(b)

	for i := 0; i < len(ca) && i < len(cb); i++ {
		na, errA := strconv.Atoi(ca[i])
		nb, errB := strconv.Atoi(cb[i])

		if errA == nil && errB == nil {
			if na != nb {
				return na - nb
			}
			continue
		}

		if ca[i] != cb[i] {
			return strings.Compare(ca[i], cb[i])
		}
	}

	return len(ca) - len(cb)
}

// DefaultKernel returns the newest VM kernel installed on the system, the
// kernel images live in per version directories
func DefaultKernel() (string, error) {
	files, err := ioutil.ReadDir(vmKernelsPath)
	if err != nil {
		return "", errors.Wrap(err)
	}

	kernels := []string{}
	for _, curr := range files {
		name := curr.Name()
		if name == "" || name[0] < '0' || name[0] > '9' {
			continue
		}
		kernels = append(kernels, name)
	}

	if len(kernels) == 0 {
		return "", errors.Errorf("No VM kernels installed in %s", vmKernelsPath)
	}

	sort.Slice(kernels, func(i, j int) bool {
		return compareVersions(kernels[i], kernels[j]) < 0
	})

	return kernels[len(kernels)-1], nil
}

// DefaultKernel returns the newest VM kernel installed on the target system
func (q *Manager) DefaultKernel() (string, error) {
	return DefaultKernel()
}
