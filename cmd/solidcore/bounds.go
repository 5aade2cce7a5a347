package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds <model>",
	Short: "Print the axis-aligned bounding box of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.shutdown()

		h, err := s.loadFile(args[0])
		if err != nil {
			return err
		}
		b, err := s.facade.Bounds(h)
		if err != nil {
			return err
		}

		fmt.Printf("min: %g %g %g\n", b.MinX, b.MinY, b.MinZ)
		fmt.Printf("max: %g %g %g\n", b.MaxX, b.MaxY, b.MaxZ)
		fmt.Printf("size: %g %g %g\n", b.MaxX-b.MinX, b.MaxY-b.MinY, b.MaxZ-b.MinZ)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boundsCmd)
}
