package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-devsync/internal/di"
	"github.com/goliatone/go-devsync/internal/runtimeconfig"
)

func newPreviewCommand(v *viper.Viper, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Validate one article and print it rendered to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := runtimeconfig.Load(v)
			if err != nil {
				return err
			}
			module, err := moduleBuilder(cfg, di.WithOutput(stdout))
			if err != nil {
				return err
			}
			defer module.Close()

			preview, err := module.Preview(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "File: %s\n\nFrontmatter:\n%s\nRendered HTML:\n%s", preview.Name, preview.FrontMatter, preview.HTML)
			return nil
		},
	}
}
