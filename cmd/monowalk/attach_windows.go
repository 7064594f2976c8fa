//go:build windows

package main

import (
	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/winproc"
)

func openLiveProcess(pid uint32) (address.ProcessAccess, func() error, error) {
	p, err := winproc.Open(pid)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
