package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brogergvhs/comicmail/internal/comics"
	"github.com/brogergvhs/comicmail/internal/providers"

	"github.com/joho/godotenv"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

const (
	TransportSendmail = "sendmail"
	TransportSMTP     = "smtp"
	TransportFile     = "file"
)

const DefaultSchedule = "0 7 * * *"

type Config struct {
	MailTo    []string  `yaml:"mail_to"`
	MailFrom  string    `yaml:"mail_from"`
	Comics    []Comic   `yaml:"comics"`
	Workers   int       `yaml:"workers,omitempty"`
	Transport Transport `yaml:"transport,omitempty"`
	HTTP      HTTP      `yaml:"http,omitempty"`
	Schedule  string    `yaml:"schedule,omitempty"`
}

type Transport struct {
	Kind         string        `yaml:"kind,omitempty"`
	SendmailPath string        `yaml:"sendmail_path,omitempty"`
	SMTPHost     string        `yaml:"smtp_host,omitempty"`
	SMTPPort     int           `yaml:"smtp_port,omitempty"`
	SMTPUsername string        `yaml:"smtp_username,omitempty"`
	SMTPPassword string        `yaml:"smtp_password,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	Output       string        `yaml:"output,omitempty"`
}

type HTTP struct {
	Timeout          time.Duration `yaml:"timeout,omitempty"`
	UserAgent        string        `yaml:"user_agent,omitempty"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Workers: 1,
		Transport: Transport{
			Kind:         TransportSendmail,
			SendmailPath: "/usr/sbin/sendmail",
			SMTPHost:     "localhost",
			SMTPPort:     25,
			Timeout:      30 * time.Second,
		},
		HTTP: HTTP{
			Timeout: 30 * time.Second,
		},
		Schedule: DefaultSchedule,
	}
}

// Load reads path (YAML or JSON), applies COMICMAIL_* environment
// overrides and validates the result. A .env file next to the config or in
// the working directory is loaded first.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if isJSON(path, b) {
		if b, err = jsonToYAML(b); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isJSON(path string, b []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return true
	case ".yaml", ".yml":
		return false
	}

	return bytes.HasPrefix(bytes.TrimLeft(b, " \t\r\n"), []byte("{"))
}

// jsonToYAML re-encodes a JSON document as YAML so both formats go
// through the same decoder. yaml.v3 rejects some valid JSON escapes
// such as \/.
func jsonToYAML(b []byte) ([]byte, error) {
	var doc any
	if err := json5.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	return yaml.Marshal(doc)
}

func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			// variables already set in the environment win
			_ = godotenv.Load(p)
		}
	}
}

func applyEnv(c *Config) error {
	if v := os.Getenv("COMICMAIL_SMTP_HOST"); v != "" {
		c.Transport.SMTPHost = v
	}
	if v := os.Getenv("COMICMAIL_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: COMICMAIL_SMTP_PORT %q is not a number", ErrInvalid, v)
		}
		c.Transport.SMTPPort = port
	}
	if v := os.Getenv("COMICMAIL_SMTP_USERNAME"); v != "" {
		c.Transport.SMTPUsername = v
	}
	if v := os.Getenv("COMICMAIL_SMTP_PASSWORD"); v != "" {
		c.Transport.SMTPPassword = v
	}

	return nil
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Transport.Kind == "" {
		c.Transport.Kind = def.Transport.Kind
	}
	c.Transport.Kind = strings.ToLower(c.Transport.Kind)
	if c.Transport.SendmailPath == "" {
		c.Transport.SendmailPath = def.Transport.SendmailPath
	}
	if c.Transport.SMTPHost == "" {
		c.Transport.SMTPHost = def.Transport.SMTPHost
	}
	if c.Transport.SMTPPort == 0 {
		c.Transport.SMTPPort = def.Transport.SMTPPort
	}
	if c.Transport.Timeout <= 0 {
		c.Transport.Timeout = def.Transport.Timeout
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.Schedule == "" {
		c.Schedule = def.Schedule
	}
}

// Validate reports every problem at once, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var problems []string

	if len(c.MailTo) == 0 {
		problems = append(problems, "mail_to is required")
	}
	for i, to := range c.MailTo {
		if strings.TrimSpace(to) == "" {
			problems = append(problems, fmt.Sprintf("mail_to[%d] is empty", i))
		} else if err := CheckAddress(to); err != nil {
			problems = append(problems, fmt.Sprintf("mail_to[%d]: %v", i, err))
		}
	}
	if strings.TrimSpace(c.MailFrom) == "" {
		problems = append(problems, "mail_from is required")
	} else if err := CheckAddress(c.MailFrom); err != nil {
		problems = append(problems, fmt.Sprintf("mail_from: %v", err))
	}
	if len(c.Comics) == 0 {
		problems = append(problems, "comics is required")
	}
	for i, cm := range c.Comics {
		if strings.TrimSpace(cm.Name) == "" {
			problems = append(problems, fmt.Sprintf("comics[%d] has no name", i))
		}
	}

	switch c.Transport.Kind {
	case TransportSendmail, TransportSMTP:
	case TransportFile:
		if c.Transport.Output == "" {
			problems = append(problems, "transport.output is required for the file transport")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown transport.kind %q", c.Transport.Kind))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

// CheckAddress accepts a bare address or "Name <addr>".
func CheckAddress(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}

	return nil
}

// CheckAddressList is CheckAddress over a comma separated list that must
// name at least one address.
func CheckAddressList(s string) error {
	n := 0
	for a := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(a) == "" {
			continue
		}
		if err := CheckAddress(a); err != nil {
			return err
		}
		n++
	}

	if n == 0 {
		return errors.New("at least one address is required")
	}

	return nil
}

// Entries converts the configured comics, in order. Unknown sites are
// kept; they fail per entry at run time.
func (c *Config) Entries() []comics.Entry {
	out := make([]comics.Entry, 0, len(c.Comics))
	for _, cm := range c.Comics {
		kind, _ := providers.ParseKind(cm.Site)
		out = append(out, comics.Entry{Name: cm.Name, Site: kind})
	}

	return out
}

// UnknownSites lists configured sites no adapter handles.
func (c *Config) UnknownSites() []string {
	var out []string
	for _, cm := range c.Comics {
		if kind, _ := providers.ParseKind(cm.Site); !kind.Known() {
			out = append(out, cm.Site)
		}
	}

	return out
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -mail_to: %s\n", strings.Join(c.MailTo, ", "))
	fmt.Fprintf(w, " -mail_from: %s\n", c.MailFrom)
	fmt.Fprintf(w, " -comics:\n")
	for _, cm := range c.Comics {
		fmt.Fprintf(w, "    %s (%s)\n", cm.Name, cm.Site)
	}
	fmt.Fprintf(w, " -workers: %d\n", c.Workers)
	fmt.Fprintf(w, " -transport: %s\n", c.Transport.Kind)
	switch c.Transport.Kind {
	case TransportSendmail:
		fmt.Fprintf(w, " -sendmail_path: %s\n", c.Transport.SendmailPath)
	case TransportSMTP:
		fmt.Fprintf(w, " -smtp: %s:%d\n", c.Transport.SMTPHost, c.Transport.SMTPPort)
		if c.Transport.SMTPUsername != "" {
			fmt.Fprintf(w, " -smtp_username: %s\n", c.Transport.SMTPUsername)
		}
	case TransportFile:
		fmt.Fprintf(w, " -output: %s\n", c.Transport.Output)
	}
	fmt.Fprintf(w, " -http_timeout: %s\n", c.HTTP.Timeout)
	if c.HTTP.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.HTTP.UserAgent)
	}
	if c.HTTP.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.HTTP.CloudflareBypass)
	}
	fmt.Fprintf(w, " -schedule: %s\n", c.Schedule)
}
