package main

import (
	"github.com/spf13/cobra"
)

var booleanOut string

var booleanCmd = &cobra.Command{
	Use:   "boolean <op> <target> <tool>",
	Short: "Combine two models and export the result",
	Long: `Run a boolean operation on two models and write the result as
binary STL. The operation is union (or fuse), cut, or common (or
intersect). Pass "-" as --out to write to stdout.

Examples:
  solidcore boolean union a.stl b.stl -o fused.stl
  solidcore boolean cut part.stl hole.obj -o drilled.stl
  solidcore boolean common a.stl b.stl --tolerance 1e-6 -o overlap.stl`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.shutdown()

		target, err := s.loadFile(args[1])
		if err != nil {
			return err
		}
		tool, err := s.loadFile(args[2])
		if err != nil {
			return err
		}

		result, err := s.facade.Boolean(target, tool, args[0], s.tolerance)
		if err != nil {
			return err
		}
		data, err := s.facade.Export(result)
		if err != nil {
			return err
		}
		return writeOut(booleanOut, data)
	},
}

func init() {
	booleanCmd.Flags().StringVarP(&booleanOut, "out", "o", "", "output path (default stdout)")
	rootCmd.AddCommand(booleanCmd)
}
