package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secret-squirrel/ssq/internal/hook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "install-hook [path]",
		Short: "Install the git pre-commit hook that scans staged changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			path, err := hook.Install(abs)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "installed", path)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
