// Package config handles loading and managing maildesk configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/maildesk/maildesk/internal/mail"
)

// MailboxesConfig holds per-mailbox directory overrides. Empty values fall
// back to <home>/<mailbox>.
type MailboxesConfig struct {
	Inbox   string `toml:"inbox"`
	Drafts  string `toml:"drafts"`
	Sent    string `toml:"sent"`
	Archive string `toml:"archive"`
}

func (m MailboxesConfig) dir(box mail.Mailbox) string {
	switch box {
	case mail.Inbox:
		return m.Inbox
	case mail.Drafts:
		return m.Drafts
	case mail.Sent:
		return m.Sent
	case mail.Archive:
		return m.Archive
	default:
		return ""
	}
}

// MailConfig holds the external mail command and editor overrides.
type MailConfig struct {
	Command string `toml:"command"` // mail CLI binary (default: email)
	Editor  string `toml:"editor"`  // editor binary; falls back to $EDITOR, then hx
}

// WatchConfig holds change-watcher configuration.
type WatchConfig struct {
	Enabled     bool `toml:"enabled"`      // run the background change watcher
	TimeoutSecs int  `toml:"timeout_secs"` // per-wait timeout passed to the watch call
}

// ServerConfig holds HTTP API server configuration.
type ServerConfig struct {
	BindAddr        string   `toml:"bind_addr"`        // listen address (default: 127.0.0.1)
	APIPort         int      `toml:"api_port"`         // HTTP server port (default: 8080)
	APIKey          string   `toml:"api_key"`          // API authentication key
	AllowInsecure   bool     `toml:"allow_insecure"`   // permit non-loopback bind without a key
	CORSOrigins     []string `toml:"cors_origins"`     // allowed CORS origins; empty disables CORS
	CORSCredentials bool     `toml:"cors_credentials"` // allow credentialed CORS requests
	CORSMaxAge      int      `toml:"cors_max_age"`     // preflight cache seconds
}

// ValidateSecure refuses configurations that would expose the API beyond
// loopback without authentication, unless allow_insecure is set.
func (s ServerConfig) ValidateSecure() error {
	if s.APIKey != "" || s.AllowInsecure {
		return nil
	}
	if s.BindAddr == "" || s.BindAddr == "localhost" {
		return nil
	}
	if ip := net.ParseIP(s.BindAddr); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("refusing to bind API server to %s without [server] api_key; set allow_insecure to override", s.BindAddr)
}

// JobSchedule defines the cron schedule for one background mail job.
type JobSchedule struct {
	Job      string `toml:"job"`      // job name: fetch or sync
	Schedule string `toml:"schedule"` // cron expression (e.g., "*/15 * * * *")
	Enabled  bool   `toml:"enabled"`  // whether the scheduled job is active
}

type Config struct {
	Mailboxes MailboxesConfig `toml:"mailboxes"`
	Mail      MailConfig      `toml:"mail"`
	Watch     WatchConfig     `toml:"watch"`
	Server    ServerConfig    `toml:"server"`
	Schedule  []JobSchedule   `toml:"schedule"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`

	configFilePath string
	mailboxDirs    [mail.MailboxCount]string
}

// DefaultHome returns the default maildesk home directory.
// Respects the MAILDESK_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MAILDESK_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".maildesk"
	}
	return filepath.Join(home, ".maildesk")
}

// NewDefaultConfig returns a Config with all defaults applied, rooted at
// the default home directory.
func NewDefaultConfig() *Config {
	cfg := newDefaults(DefaultHome())
	cfg.resolveMailboxDirs()
	return cfg
}

func newDefaults(homeDir string) *Config {
	cfg := &Config{
		HomeDir: homeDir,
		Mail: MailConfig{
			Command: "email",
		},
		Watch: WatchConfig{
			Enabled:     true,
			TimeoutSecs: 300,
		},
		Server: ServerConfig{
			APIPort: 8080,
		},
		Schedule: []JobSchedule{},
	}
	cfg.configFilePath = filepath.Join(homeDir, "config.toml")
	return cfg
}

// Load reads the configuration. An explicit path wins over homeDir, which
// wins over the default location (~/.maildesk/config.toml). An explicitly
// named file must exist; the default file is optional.
func Load(path, homeDir string) (*Config, error) {
	explicit := path != ""
	if explicit {
		path = expandPath(path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if homeDir == "" {
			homeDir = filepath.Dir(path)
		}
	}
	if homeDir == "" {
		homeDir = DefaultHome()
	} else {
		homeDir = expandPath(homeDir)
	}
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := newDefaults(homeDir)
	cfg.configFilePath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.resolveMailboxDirs()
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, decorateDecodeError(err)
	}

	cfg.resolveMailboxDirs()
	return cfg, nil
}

// resolveMailboxDirs fixes each mailbox directory: configured values are
// quote-stripped and ~-expanded, relative values resolve against the home
// directory, and missing values default to <home>/<mailbox>.
func (c *Config) resolveMailboxDirs() {
	for _, box := range mail.All {
		dir := expandPath(c.Mailboxes.dir(box))
		switch {
		case dir == "":
			dir = filepath.Join(c.HomeDir, box.Key())
		case !filepath.IsAbs(dir):
			dir = filepath.Join(c.HomeDir, dir)
		}
		c.mailboxDirs[box] = dir
	}
}

// MailboxDir returns the directory for a mailbox. A MAILDESK_<MAILBOX>_DIR
// environment variable overrides the configured value.
func (c *Config) MailboxDir(box mail.Mailbox) string {
	if env := os.Getenv("MAILDESK_" + strings.ToUpper(box.Key()) + "_DIR"); env != "" {
		return expandPath(env)
	}
	return c.mailboxDirs[box]
}

// MailboxDirs returns the directories for all four mailboxes in sidebar
// order.
func (c *Config) MailboxDirs() [mail.MailboxCount]string {
	var dirs [mail.MailboxCount]string
	for _, box := range mail.All {
		dirs[box] = c.MailboxDir(box)
	}
	return dirs
}

// Editor returns the editor command: the configured value, then $EDITOR,
// then hx.
func (c *Config) Editor() string {
	if c.Mail.Editor != "" {
		return c.Mail.Editor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	return "hx"
}

// ConfigFilePath returns the path of the loaded (or default) config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Save writes the configuration back to its config file, creating the
// parent directory if needed. Computed paths are not written.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configFilePath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(c.configFilePath)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// EnsureDirs creates the home directory and all four mailbox directories.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}
	for _, box := range mail.All {
		if err := os.MkdirAll(c.MailboxDir(box), 0o755); err != nil {
			return fmt.Errorf("create %s dir: %w", box.Key(), err)
		}
	}
	return nil
}

// ScheduledJobs returns schedule entries that are enabled and have a cron
// expression.
func (c *Config) ScheduledJobs() []JobSchedule {
	var scheduled []JobSchedule
	for _, job := range c.Schedule {
		if job.Enabled && job.Schedule != "" {
			scheduled = append(scheduled, job)
		}
	}
	return scheduled
}

// GetJobSchedule returns the schedule entry for a job name, or nil if the
// job is not configured.
func (c *Config) GetJobSchedule(name string) *JobSchedule {
	for i := range c.Schedule {
		if c.Schedule[i].Job == name {
			job := c.Schedule[i]
			return &job
		}
	}
	return nil
}

// decorateDecodeError adds a hint for the common Windows mistake of using
// backslash paths in double-quoted TOML strings.
func decorateDecodeError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "escape") || strings.Contains(msg, "hexadecimal") {
		return fmt.Errorf("decode config: %w\nhint: backslashes in double-quoted TOML strings are escapes; use forward slashes or single quotes around paths", err)
	}
	return fmt.Errorf("decode config: %w", err)
}

// expandPath strips matching surrounding quotes and expands a leading ~ to
// the user's home directory.
func expandPath(path string) string {
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		if first == last && (first == '\'' || first == '"') {
			path = path[1 : len(path)-1]
		}
	}
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return path // ~user notation is not supported
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
