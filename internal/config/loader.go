package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var current Config

func Get() Config { return current }

func Set(cfg Config) { current = cfg }

func LoadFromFiles(files []string) (Config, error) {
	return LoadDefaultsAndFiles(nil, files)
}

// LoadDefaultsAndFiles decodes the defaults, then overlays every YAML file in
// lexical order. Later files win for each key they set.
func LoadDefaultsAndFiles(defaultsYAML []byte, files []string) (Config, error) {
	var merged Config
	if len(defaultsYAML) > 0 {
		if err := yaml.Unmarshal(defaultsYAML, &merged); err != nil {
			return Config{}, fmt.Errorf("defaults: %w", err)
		}
	}
	for _, f := range sortedYAML(files) {
		b, err := os.ReadFile(f)
		if err != nil {
			return Config{}, err
		}
		var part Config
		if err := yaml.Unmarshal(b, &part); err != nil {
			return Config{}, fmt.Errorf("%s: %w", f, err)
		}
		merged = mergeConfig(merged, part)
	}
	current = merged
	return merged, nil
}

func sortedYAML(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.HasSuffix(lf, ".yaml") || strings.HasSuffix(lf, ".yml") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func mergeConfig(base, overlay Config) Config {
	out := base
	if overlay.Host != "" {
		out.Host = overlay.Host
	}
	if overlay.Token != "" {
		out.Token = overlay.Token
	}
	if overlay.Sketch != 0 {
		out.Sketch = overlay.Sketch
	}
	if overlay.OutputFormat != "" {
		out.OutputFormat = overlay.OutputFormat
	}
	if overlay.Timeout != 0 {
		out.Timeout = overlay.Timeout
	}
	if overlay.VerifyTLS != nil {
		out.VerifyTLS = overlay.VerifyTLS
	}
	out.Log = mergeLog(out.Log, overlay.Log)
	return out
}

func mergeLog(a, b Log) Log {
	out := a
	if b.Level != "" {
		out.Level = b.Level
	}
	if b.File != "" {
		out.File = b.File
	}
	if b.MaxSize != 0 {
		out.MaxSize = b.MaxSize
	}
	if b.MaxBackups != 0 {
		out.MaxBackups = b.MaxBackups
	}
	return out
}
