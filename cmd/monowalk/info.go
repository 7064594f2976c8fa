package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unityscope/monowalk"
	"github.com/unityscope/monowalk/internal/ui/colorize"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Detect and print the target's managed-runtime variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, closeFn, err := openTarget()
			if err != nil {
				return err
			}
			defer closeFn()

			att, ok, err := monowalk.TryAttach(proc)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("no supported Mono/IL2CPP runtime detected")
				return nil
			}
			fmt.Printf("variant: %s\n", colorize.Variant(att.Variant().String()))
			return nil
		},
	}
}
