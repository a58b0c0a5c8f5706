package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tsketch/tsketch-cli/internal/config"
	"github.com/tsketch/tsketch-cli/internal/ui/console"
)

func newViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List saved views of the sketch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sketch, err := newSketch(config.Get())
			if err != nil {
				return err
			}
			ui := console.NewConsoleUI(sketch)
			ui.SetOutput(cmd.OutOrStdout())
			return ui.RunViewsImperative(cmd.Context(), sketch.SketchID())
		},
	}
}
