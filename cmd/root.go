package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsketch/tsketch-cli/internal/assets"
	"github.com/tsketch/tsketch-cli/internal/config"
	"github.com/tsketch/tsketch-cli/internal/logging"
	"github.com/tsketch/tsketch-cli/internal/timesketch"
)

var version = "dev"

var rootCmd = newRootCmd()

// Execute runs the CLI with os.Args, accepting "--time-range START END".
func Execute() error {
	defer logging.Close()
	rootCmd.SetArgs(normalizeTimeRangeArgs(os.Args[1:]))
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var verbose bool
	root := &cobra.Command{
		Use:           "tsketch",
		Short:         "Explore Timesketch sketches from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, cfgFile, verbose)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to any YAML file inside the config directory (default dir: ~/.config/tsketch); all *.yaml in that directory are merged")
	pf.BoolVarP(&verbose, "verbose", "v", false, "show HTTP requests and resolved settings")
	pf.String("host", "", "Timesketch server URL")
	pf.String("token", "", "API token sent as a bearer token")
	pf.Int("sketch", 0, "sketch id")
	pf.String("output-format", "", "default output format: text, csv or tabular")

	root.AddCommand(newExploreCmd(), newViewsCmd(), newConfigCmd())
	timesketch.Version = version
	return root
}

func configDir(cfgFile string) string {
	if cfgFile != "" {
		return filepath.Dir(cfgFile)
	}
	dir, _ := os.UserConfigDir()
	if su := os.Getenv("SUDO_USER"); su != "" {
		if u, err := user.Lookup(su); err == nil && u.HomeDir != "" {
			dir = filepath.Join(u.HomeDir, ".config")
		}
	}
	return filepath.Join(dir, "tsketch")
}

func yamlFiles(dir string) []string {
	entries, _ := os.ReadDir(dir)
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		low := strings.ToLower(e.Name())
		if strings.HasSuffix(low, ".yaml") || strings.HasSuffix(low, ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files
}

// initConfig layers built-in defaults, config files, TSKETCH_* variables and
// flags, in that order, and sets up logging.
func initConfig(cmd *cobra.Command, cfgFile string, verbose bool) error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfgDir := configDir(cfgFile)
	if created, err := assets.WriteDefaultConfigIfMissing(cfgDir); err != nil {
		return fmt.Errorf("write default config: %w", err)
	} else if created {
		logging.Debug("wrote default config to " + cfgDir)
	}
	cfg, err := config.LoadDefaultsAndFiles(assets.DefaultConfig, yamlFiles(cfgDir))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	v := config.NewViper()
	pf := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"host":          "host",
		"token":         "token",
		"sketch":        "sketch",
		"output_format": "output-format",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return err
		}
	}
	cfg = config.ApplyOverrides(cfg, v)
	if err := config.ValidateAgainstSchema(cfg); err != nil {
		return fmt.Errorf("schema error: %w", err)
	}

	if err := logging.Init(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.SetVerbose(verbose)
	logging.Debug(fmt.Sprintf("config dir %s, host %s, sketch %d", cfgDir, cfg.Host, cfg.Sketch))
	return nil
}
