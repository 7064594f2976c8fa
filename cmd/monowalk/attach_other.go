//go:build !windows

package main

import (
	"fmt"

	"github.com/unityscope/monowalk/address"
)

// openLiveProcess is unavailable on non-Windows hosts: the Unity processes
// this library inspects only run as native Windows binaries. Use --dump
// against a captured memory dump instead.
func openLiveProcess(pid uint32) (address.ProcessAccess, func() error, error) {
	return nil, nil, fmt.Errorf("monowalk: live --pid attach requires a Windows host; use --dump")
}
