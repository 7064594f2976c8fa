package main

import (
	"fmt"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/dumpproc"
)

// openTarget resolves --dump/--pid into a ProcessAccess, preferring a dump
// file when both are given. The returned close func is non-nil whenever err
// is nil.
func openTarget() (address.ProcessAccess, func() error, error) {
	if dumpPath != "" {
		p, err := dumpproc.Open(dumpPath)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	if pid == 0 {
		return nil, nil, fmt.Errorf("monowalk: either --pid or --dump is required")
	}
	return openLiveProcess(pid)
}
