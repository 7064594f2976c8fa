package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unityscope/monowalk"
	"github.com/unityscope/monowalk/internal/ui/colorize"
)

func newFieldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "field <image> <class> <field>",
		Short: "Resolve one field's byte offset within its declaring class",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageName, className, fieldName := args[0], args[1], args[2]

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
				return fmt.Errorf("no supported Mono/IL2CPP runtime detected")
			}

			img, ok, err := att.GetImage(imageName)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("image %q not found", imageName)
			}

			class, ok, err := img.GetClass(className)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("class %q not found in %q", className, imageName)
			}

			offset, ok, err := class.GetField(fieldName)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("field %q not found on %q", fieldName, className)
			}

			fmt.Println(colorize.Path(imageName, className, fieldName, offset))
			return nil
		},
	}
}
