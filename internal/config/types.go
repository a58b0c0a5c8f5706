package config

type Config struct {
	Host         string `mapstructure:"host" yaml:"host" json:"host,omitempty"`
	Token        string `mapstructure:"token" yaml:"token,omitempty" json:"token,omitempty"`
	Sketch       int    `mapstructure:"sketch" yaml:"sketch" json:"sketch"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format,omitempty"`
	Timeout      int    `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	VerifyTLS    *bool  `mapstructure:"verify_tls" yaml:"verify_tls,omitempty" json:"verify_tls,omitempty"`
	Log          Log    `mapstructure:"log" yaml:"log" json:"log"`
}

type Log struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" json:"level,omitempty"`
	File       string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size,omitempty" json:"max_size,omitempty"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups,omitempty" json:"max_backups,omitempty"`
}

func (c Config) TLSVerify() bool { return c.VerifyTLS == nil || *c.VerifyTLS }

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}
