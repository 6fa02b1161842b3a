package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the session controller configuration: which external
// binaries to run and where draft and history state lives.
type Config struct {
	// Moggie is the mail engine binary.
	Moggie string `mapstructure:"moggie"`

	// Editor is the command used for the blocking draft edit hand-off.
	// Extra words are passed as leading arguments.
	Editor []string `mapstructure:"editor"`

	// Picker is the interactive multi-select filter fed the result table.
	Picker []string `mapstructure:"picker"`

	// Pager receives rendered message output on stdin.
	Pager []string `mapstructure:"pager"`

	// Tar is the archive extractor used for message-tree materialization.
	Tar string `mapstructure:"tar"`

	// DraftsDir is the root directory holding one subdirectory per draft.
	DraftsDir string `mapstructure:"drafts_dir"`

	// DefaultQuery is the search run when `s` is given no arguments.
	DefaultQuery string `mapstructure:"default_query"`

	// Views maps canned aliases (inbox, sent, all-mail) to search queries.
	Views map[string]string `mapstructure:"views"`

	// HistoryEnabled controls whether searches are recorded.
	HistoryEnabled bool `mapstructure:"history_enabled"`

	// HistoryLimit bounds how many history entries are listed.
	HistoryLimit int `mapstructure:"history_limit"`
}

// DefaultPath returns the default configuration file location,
// ~/.config/mog/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mog", "config.yaml")
}

// DefaultDataDir returns the default state directory, ~/.local/share/mog.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mog")
	}
	return filepath.Join(home, ".local", "share", "mog")
}

func defaultConfig() *Config {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}
	return &Config{
		Moggie:       "moggie",
		Editor:       []string{editor},
		Picker:       []string{"fzf", "--multi", "--no-sort"},
		Pager:        []string{pager},
		Tar:          "tar",
		DraftsDir:    filepath.Join(DefaultDataDir(), "Drafts"),
		DefaultQuery: "in:inbox",
		Views: map[string]string{
			"inbox":    "in:inbox",
			"sent":     "in:sent",
			"all-mail": "all:mail",
		},
		HistoryEnabled: true,
		HistoryLimit:   50,
	}
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	def := defaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("moggie", def.Moggie)
	v.SetDefault("editor", def.Editor)
	v.SetDefault("picker", def.Picker)
	v.SetDefault("pager", def.Pager)
	v.SetDefault("tar", def.Tar)
	v.SetDefault("drafts_dir", def.DraftsDir)
	v.SetDefault("default_query", def.DefaultQuery)
	v.SetDefault("views", def.Views)
	v.SetDefault("history_enabled", def.HistoryEnabled)
	v.SetDefault("history_limit", def.HistoryLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Unmarshal leaves zero values for keys set to empty sequences;
	// collaborator commands must never be empty.
	if len(cfg.Editor) == 0 {
		cfg.Editor = def.Editor
	}
	if len(cfg.Picker) == 0 {
		cfg.Picker = def.Picker
	}
	if len(cfg.Pager) == 0 {
		cfg.Pager = def.Pager
	}

	return cfg, nil
}

// ResolveView maps a canned view alias to its configured query. The second
// return reports whether the alias was known.
func (c *Config) ResolveView(name string) (string, bool) {
	q, ok := c.Views[name]
	return q, ok
}
