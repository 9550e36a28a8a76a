package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mlskel/pkg/manifest"
)

func newManifestCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the project manifest",
		Long: heredoc.Doc(`
			Print the rendered manifest as a YAML or TOML document.

			The output can be edited and passed back with --manifest to
			generate a customized skeleton.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := manifest.ParseFormat(format)
			if err != nil {
				return err
			}
			m, _, err := a.resolveManifest()
			if err != nil {
				return err
			}
			data, err := manifest.Marshal(m, f)
			if err != nil {
				return fmt.Errorf("failed to encode manifest: %w", err)
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml or toml)")
	return cmd
}
