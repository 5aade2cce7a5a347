package main

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <model> <out>",
	Short: "Re-export a model as binary STL",
	Long: `Load a model in any supported format (binary STL, ASCII STL, OBJ)
and write it back out in the primary interchange format, binary STL.
Pass "-" as the output to write to stdout.`,
	Args: cobra.ExactArgs(2),
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
		data, err := s.facade.Export(h)
		if err != nil {
			return err
		}
		return writeOut(args[1], data)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
