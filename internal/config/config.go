package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	AI struct {
		Enabled        bool    `yaml:"enabled" json:"enabled"`
		BaseURL        string  `yaml:"base_url" json:"base_url"` // empty = provider default
		Model          string  `yaml:"model" json:"model"`
		CuratedCount   int     `yaml:"curated_count" json:"curated_count"`
		DiscoverCount  int     `yaml:"discover_count" json:"discover_count"`
		RequestsPerSec float64 `yaml:"requests_per_sec" json:"requests_per_sec"`
	} `yaml:"ai" json:"ai"`

	Email struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
		IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
		Username         string   `yaml:"username" json:"username"`
		Mailbox          string   `yaml:"mailbox" json:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
		MaxMessages      int      `yaml:"max_messages" json:"max_messages"`
	} `yaml:"email" json:"email"`

	Notify struct {
		RecomputeSeconds int `yaml:"recompute_seconds" json:"recompute_seconds"`
	} `yaml:"notify" json:"notify"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
