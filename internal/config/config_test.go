package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brogergvhs/comicmail/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
	"mail_to": ["me@example.com"],
	"mail_from": "comics@example.com",
	"comics": [
		["calvinandhobbes", "gocomics"],
		["hagar-the-horrible", "kingdom"],
		["doesnotexist", "madeupSite"]
	]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"me@example.com"}, cfg.MailTo)
	assert.Equal(t, "comics@example.com", cfg.MailFrom)
	require.Len(t, cfg.Comics, 3)

	entries := cfg.Entries()
	assert.Equal(t, "calvinandhobbes", entries[0].Name)
	assert.Equal(t, providers.GoComics, entries[0].Site)
	assert.Equal(t, providers.ComicsKingdom, entries[1].Site)
	assert.Equal(t, providers.Kind("madeupSite"), entries[2].Site)
	assert.Equal(t, []string{"madeupSite"}, cfg.UnknownSites())

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, TransportSendmail, cfg.Transport.Kind)
	assert.Equal(t, "/usr/sbin/sendmail", cfg.Transport.SendmailPath)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultSchedule, cfg.Schedule)
}

func TestLoad_YAMLWithOptions(t *testing.T) {
	path := writeConfig(t, "comicmail.yaml", `
mail_to: [me@example.com, you@example.com]
mail_from: comics@example.com
comics:
  - [garfield, gocomics]
  - {name: dilbert, site: dilbert}
workers: 4
transport:
  kind: SMTP
  smtp_host: relay.example.com
  smtp_port: 587
http:
  timeout: 10s
  cloudflare_bypass: true
schedule: "@daily"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []Comic{{"garfield", "gocomics"}, {"dilbert", "dilbert"}}, cfg.Comics)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, TransportSMTP, cfg.Transport.Kind)
	assert.Equal(t, "relay.example.com", cfg.Transport.SMTPHost)
	assert.Equal(t, 587, cfg.Transport.SMTPPort)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.HTTP.CloudflareBypass)
	assert.Equal(t, "@daily", cfg.Schedule)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestLoad_MissingKeys(t *testing.T) {
	path := writeConfig(t, "config.json", `{"comics": []}`)

	_, err := Load(path)

	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "mail_to is required")
	assert.Contains(t, err.Error(), "mail_from is required")
	assert.Contains(t, err.Error(), "comics is required")
}

func TestLoad_MalformedComicEntry(t *testing.T) {
	path := writeConfig(t, "config.json", `{
	"mail_to": ["me@example.com"],
	"mail_from": "comics@example.com",
	"comics": [["calvinandhobbes"]]
}`)

	_, err := Load(path)

	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "[name, site]")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COMICMAIL_SMTP_HOST", "mail.internal")
	t.Setenv("COMICMAIL_SMTP_PORT", "2525")
	t.Setenv("COMICMAIL_SMTP_PASSWORD", "s3cret")

	path := writeConfig(t, "config.json", `{"mail_to": ["me@example.com"], "mail_from": "c@example.com", "comics": [["garfield", "gocomics"]]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mail.internal", cfg.Transport.SMTPHost)
	assert.Equal(t, 2525, cfg.Transport.SMTPPort)
	assert.Equal(t, "s3cret", cfg.Transport.SMTPPassword)
}

func TestLoad_BadEnvPort(t *testing.T) {
	t.Setenv("COMICMAIL_SMTP_PORT", "twenty-five")

	path := writeConfig(t, "config.json", `{"mail_to": ["me@example.com"], "mail_from": "c@example.com", "comics": [["garfield", "gocomics"]]}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	t.Cleanup(func() { _ = os.Unsetenv("COMICMAIL_SMTP_USERNAME") })

	path := writeConfig(t, "config.json", `{"mail_to": ["me@example.com"], "mail_from": "c@example.com", "comics": [["garfield", "gocomics"]]}`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("COMICMAIL_SMTP_USERNAME=robot\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "robot", cfg.Transport.SMTPUsername)
}

func TestValidate_FileTransportNeedsOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MailTo = []string{"me@example.com"}
	cfg.MailFrom = "c@example.com"
	cfg.Comics = []Comic{{"garfield", "gocomics"}}
	cfg.Transport.Kind = TransportFile

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "transport.output")

	cfg.Transport.Output = "out.eml"
	assert.NoError(t, cfg.Validate())

	cfg.Transport.Kind = "pigeon"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestSave_WritesLoadableConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MailTo = []string{"me@example.com"}
	cfg.MailFrom = "c@example.com"
	cfg.Comics = []Comic{{"garfield", "gocomics"}, {"hagar-the-horrible", "comicskingdom"}}

	path := filepath.Join(t.TempDir(), "comicmail.yaml")
	require.NoError(t, Save(cfg, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[garfield, gocomics]")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Comics, loaded.Comics)
}

func TestPrint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MailTo = []string{"me@example.com"}
	cfg.Comics = []Comic{{"garfield", "gocomics"}}

	var sb strings.Builder
	cfg.Print(&sb)

	assert.Contains(t, sb.String(), "me@example.com")
	assert.Contains(t, sb.String(), "garfield (gocomics)")
	assert.Contains(t, sb.String(), "/usr/sbin/sendmail")
}

func TestLoad_JSONEscapes(t *testing.T) {
	path := writeConfig(t, "config.json", "{\n"+
		"\t\"mail_to\": [\"me@example.com\"],\n"+
		"\t\"mail_from\": \"comics\\/daily@example.com\",\n"+
		"\t\"comics\": [[\"\\u0067arfield\", \"gocomics\"]],\n"+
		"\t\"workers\": 3,\n"+
		"\t\"http\": {\"timeout\": \"10s\", \"user_agent\": \"bot\\/1.0\"}\n"+
		"}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "comics/daily@example.com", cfg.MailFrom)
	assert.Equal(t, []Comic{{"garfield", "gocomics"}}, cfg.Comics)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "bot/1.0", cfg.HTTP.UserAgent)
}

func TestLoad_JSONWithoutExtension(t *testing.T) {
	path := writeConfig(t, "comicmail.conf", `  {"mail_to": ["me@example.com"], "mail_from": "c\/x@example.com", "comics": [["garfield", "gocomics"]]}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "c/x@example.com", cfg.MailFrom)
}

func TestLoad_BrokenJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"mail_to": ["me@example.com"`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MalformedAddresses(t *testing.T) {
	path := writeConfig(t, "config.json", `{
	"mail_to": ["me@example.com", "you at example"],
	"mail_from": "not an address",
	"comics": [["garfield", "gocomics"]]
}`)

	_, err := Load(path)

	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "mail_to[1]")
	assert.Contains(t, err.Error(), `"you at example"`)
	assert.Contains(t, err.Error(), "mail_from")
	assert.NotContains(t, err.Error(), "mail_to[0]")
}

func TestCheckAddress(t *testing.T) {
	assert.NoError(t, CheckAddress("me@example.com"))
	assert.NoError(t, CheckAddress("Comics Bot <comics@example.com>"))
	assert.Error(t, CheckAddress("not an address"))

	assert.NoError(t, CheckAddressList("a@example.com, b@example.com"))
	assert.Error(t, CheckAddressList("a@example.com, nope"))
	assert.Error(t, CheckAddressList(" , "))
}

func TestUnknownSites(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comics = []Comic{{"a", "GoComics"}, {"b", "kingdom"}, {"c", "madeupSite"}, {"d", ""}}

	assert.Equal(t, []string{"madeupSite", ""}, cfg.UnknownSites())
}
