package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tsketch/tsketch-cli/internal/assets"
	"github.com/tsketch/tsketch-cli/internal/config"
	"github.com/tsketch/tsketch-cli/internal/logging"
	"github.com/tsketch/tsketch-cli/internal/ui/console"
	"gopkg.in/yaml.v3"
)

// confirmOverwrite is replaced in tests.
var confirmOverwrite = console.ConfirmOverwrite

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the token masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(config.Get().Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config.yaml to the config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			dir := configDir(cfgFile)
			p := filepath.Join(dir, assets.ConfigFileName)
			if cur, err := os.ReadFile(p); err == nil {
				if bytes.Equal(cur, assets.DefaultConfig) {
					logging.Info(p + " already holds the defaults")
					return nil
				}
				if !force {
					ok, err := confirmOverwrite(p)
					if err != nil {
						return err
					}
					if !ok {
						logging.Info("kept " + p)
						return nil
					}
				}
				if err := os.Remove(p); err != nil {
					return err
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("read %s: %w", p, err)
			}
			if _, err := assets.WriteDefaultConfigIfMissing(dir); err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
			logging.Success("wrote " + p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite without asking")

	cmd.AddCommand(show, initCmd)
	return cmd
}
