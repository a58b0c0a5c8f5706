package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "TSKETCH"

// overrideKeys may come from the environment or a bound persistent flag.
var overrideKeys = []string{"host", "token", "sketch", "output_format", "timeout", "verify_tls", "log.level", "log.file"}

// LoadEnvFile loads KEY=value pairs from path without touching variables that are
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// NewViper returns a viper instance reading TSKETCH_* variables, e.g.
// TSKETCH_OUTPUT_FORMAT or TSKETCH_LOG_LEVEL.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range overrideKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// ApplyOverrides lays values set in v (flags, then environment) over cfg.
func ApplyOverrides(cfg Config, v *viper.Viper) Config {
	if v.IsSet("host") {
		cfg.Host = v.GetString("host")
	}
	if v.IsSet("token") {
		cfg.Token = v.GetString("token")
	}
	if v.IsSet("sketch") {
		cfg.Sketch = v.GetInt("sketch")
	}
	if v.IsSet("output_format") {
		cfg.OutputFormat = v.GetString("output_format")
	}
	if v.IsSet("timeout") {
		cfg.Timeout = v.GetInt("timeout")
	}
	if v.IsSet("verify_tls") {
		b := v.GetBool("verify_tls")
		cfg.VerifyTLS = &b
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}
	current = cfg
	return cfg
}
