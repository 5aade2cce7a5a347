package main

import (
	"github.com/spf13/cobra"
)

var meshOut string

var meshCmd = &cobra.Command{
	Use:   "mesh <model>",
	Short: "Triangulate a model and write the position/triangle text export",
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
		data, err := s.facade.MeshExport(h, s.deflection, true)
		if err != nil {
			return err
		}
		return writeOut(meshOut, data)
	},
}

func init() {
	meshCmd.Flags().StringVarP(&meshOut, "out", "o", "", "output path (default stdout)")
	rootCmd.AddCommand(meshCmd)
}
