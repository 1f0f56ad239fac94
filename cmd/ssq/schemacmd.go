package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/secret-squirrel/ssq/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for .ssq.yml",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			out, err := config.SchemaJSON()
			if err != nil {
				return err
			}
			out = append(out, '\n')
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	rootCmd.AddCommand(cmd)
}
