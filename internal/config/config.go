// Package config loads optional REPL cosmetics from a .moonrc.yaml
// file in the working directory or the user's home directory. Nothing
// here affects language semantics — only the prompt and REPL
// colorizing, which is why the whole package is skippable: a missing
// file is not an error.
package config

import (
	"github.com/spf13/viper"
)

// REPL holds the cosmetic settings .moonrc.yaml can override.
type REPL struct {
	Prompt  string `mapstructure:"prompt"`
	Color   bool   `mapstructure:"color"`
	History string `mapstructure:"history_file"`
}

// defaultREPL is what a Runner uses when no config file is present.
func defaultREPL() REPL {
	return REPL{Prompt: "> ", Color: true, History: ""}
}

// Load reads .moonrc.yaml from the current directory or $HOME,
// falling back to defaults silently when neither exists.
func Load() REPL {
	v := viper.New()
	v.SetConfigName(".moonrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	cfg := defaultREPL()
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("color", cfg.Color)
	v.SetDefault("history_file", cfg.History)

	if err := v.ReadInConfig(); err != nil {
		return cfg
	}

	_ = v.Unmarshal(&cfg)
	return cfg
}
