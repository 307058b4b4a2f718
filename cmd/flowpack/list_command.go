package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowpack/internal/pathlist"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var extensions []string

	cmd := &cobra.Command{
		Use:   "list <dir>",
		Short: "Write the path list the organizer reads",
		Long: `Collect every workflow file under <dir> and write their paths, one per
line, to the organizer path list (paths.list_file unless --out is given).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolvePath(args[0], "")
			if err != nil {
				return err
			}
			target, err := resolvePath(outPath, cfg.Paths.ListFile)
			if err != nil {
				return err
			}
			exts := extensions
			if len(exts) == 0 {
				exts = cfg.Organize.Extensions
			}

			entries, err := pathlist.Collect(root, exts)
			if err != nil {
				return err
			}
			if err := pathlist.Write(target, entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listed %d files from %s to %s\n", len(entries), root, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Override paths.list_file")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Extensions to include (defaults to organize.extensions)")
	return cmd
}
