package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the trainer settings. Values come from defaults, then the
// TOML config file, then LTR_* environment variables, then CLI flags.
type Config struct {
	LevelsDir   string        `toml:"levels_dir"`   // LTR_LEVELS_DIR (empty = built-in levels)
	LogFile     string        `toml:"log_file"`     // LTR_LOG_FILE (default "logs/commands.log")
	Execute     bool          `toml:"execute"`      // LTR_EXECUTE (default true)
	ExecTimeout time.Duration `toml:"exec_timeout"` // LTR_EXEC_TIMEOUT (default 5s)
	AllowList   []string      `toml:"allow_list"`
	NATSURL     string        `toml:"nats_url"` // LTR_NATS_URL (optional, empty = no events)

	Archive ArchiveConfig `toml:"archive"`
}

// ArchiveConfig selects where session transcripts are copied at session end.
type ArchiveConfig struct {
	S3Bucket   string `toml:"s3_bucket"`   // LTR_ARCHIVE_S3_BUCKET (enables S3 when set)
	S3Endpoint string `toml:"s3_endpoint"` // LTR_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string `toml:"s3_region"`   // LTR_ARCHIVE_S3_REGION (default "us-east-1")
	S3Prefix   string `toml:"s3_prefix"`   // LTR_ARCHIVE_S3_PREFIX (default "linuxtrainer/sessions")
	GitRepo    string `toml:"git_repo"`    // LTR_ARCHIVE_GIT_REPO (enables git when set; path to clone)
	GitDir     string `toml:"git_dir"`     // LTR_ARCHIVE_GIT_DIR (default "sessions")
	GitBranch  string `toml:"git_branch"`  // LTR_ARCHIVE_GIT_BRANCH (default "main")
}

// DefaultAllowList is the set of read-only commands the trainer will run to
// show their output once a level is solved.
var DefaultAllowList = []string{"pwd", "ls", "whoami", "echo", "clear", "date", "history"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogFile:     filepath.Join("logs", "commands.log"),
		Execute:     true,
		ExecTimeout: 5 * time.Second,
		AllowList:   append([]string(nil), DefaultAllowList...),
		Archive: ArchiveConfig{
			S3Region:  "us-east-1",
			S3Prefix:  "linuxtrainer/sessions",
			GitDir:    "sessions",
			GitBranch: "main",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/linuxtrainer/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "linuxtrainer", "config.toml")
}

// Load builds a Config from defaults, the TOML file at path (a missing file
// is not an error), and the environment.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.LevelsDir = envOrDefault("LTR_LEVELS_DIR", c.LevelsDir)
	c.LogFile = envOrDefault("LTR_LOG_FILE", c.LogFile)
	c.NATSURL = envOrDefault("LTR_NATS_URL", c.NATSURL)

	c.Archive.S3Bucket = envOrDefault("LTR_ARCHIVE_S3_BUCKET", c.Archive.S3Bucket)
	c.Archive.S3Endpoint = envOrDefault("LTR_ARCHIVE_S3_ENDPOINT", c.Archive.S3Endpoint)
	c.Archive.S3Region = envOrDefault("LTR_ARCHIVE_S3_REGION", c.Archive.S3Region)
	c.Archive.S3Prefix = envOrDefault("LTR_ARCHIVE_S3_PREFIX", c.Archive.S3Prefix)
	c.Archive.GitRepo = envOrDefault("LTR_ARCHIVE_GIT_REPO", c.Archive.GitRepo)
	c.Archive.GitDir = envOrDefault("LTR_ARCHIVE_GIT_DIR", c.Archive.GitDir)
	c.Archive.GitBranch = envOrDefault("LTR_ARCHIVE_GIT_BRANCH", c.Archive.GitBranch)

	if v := os.Getenv("LTR_EXECUTE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LTR_EXECUTE: %w", err)
		}
		c.Execute = b
	}
	if v := os.Getenv("LTR_EXEC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LTR_EXEC_TIMEOUT: %w", err)
		}
		c.ExecTimeout = d
	}
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.ExecTimeout <= 0 {
		return fmt.Errorf("exec_timeout must be positive, got %s", c.ExecTimeout)
	}
	for i, cmd := range c.AllowList {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("allow_list[%d] is empty", i)
		}
		if strings.ContainsAny(cmd, " \t") {
			return fmt.Errorf("allow_list[%d] %q must be a single command name", i, cmd)
		}
	}
	return nil
}

// ArchiveEnabled reports whether any transcript destination is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.S3Bucket != "" || c.Archive.GitRepo != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
